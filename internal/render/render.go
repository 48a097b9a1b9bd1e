// Package render exposes the page templates as templ components.
package render

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/a-h/templ"

	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/format"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/menu"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/nav"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/seo"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/site"
)

// DefaultHTMXSrc is the htmx build loaded by the page.
const DefaultHTMXSrc = "https://unpkg.com/htmx.org@2.0.4"

//go:embed templates/*.html
var embedded embed.FS

// PageData is the view model of the full landing page.
type PageData struct {
	Content *site.Content
	Header  HeaderData
	Meta    seo.Meta
	JSONLD  []template.JS
	HTMXSrc string
	Year    int
}

// HeaderData is the view model of the swappable header fragment.
type HeaderData struct {
	Company site.Company
	Nav     nav.Header
}

// Options configures a Renderer.
type Options struct {
	// Dir, when set, loads templates from disk instead of the embedded copy.
	Dir string
	// Dev re-parses the templates on every render.
	Dev bool
}

// Renderer owns the parsed template set.
type Renderer struct {
	fsys fs.FS
	dev  bool

	mu   sync.RWMutex
	tmpl *template.Template
}

// New parses the templates once and fails fast on syntax errors.
func New(opts Options) (*Renderer, error) {
	var fsys fs.FS
	if opts.Dir != "" {
		fsys = os.DirFS(opts.Dir)
	} else {
		sub, err := fs.Sub(embedded, "templates")
		if err != nil {
			return nil, err
		}
		fsys = sub
	}
	r := &Renderer{fsys: fsys, dev: opts.Dev}
	t, err := r.parse()
	if err != nil {
		return nil, err
	}
	r.tmpl = t
	return r, nil
}

func (r *Renderer) parse() (*template.Template, error) {
	t, err := template.New("site").Funcs(funcMap()).ParseFS(r.fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

func (r *Renderer) templates() (*template.Template, error) {
	if r.dev {
		t, err := r.parse()
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.tmpl = t
		r.mu.Unlock()
		return t, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tmpl, nil
}

// Page renders the complete document.
func (r *Renderer) Page(data PageData) templ.Component {
	if data.HTMXSrc == "" {
		data.HTMXSrc = DefaultHTMXSrc
	}
	return r.component("page", data)
}

// Header renders the header fragment swapped by htmx.
func (r *Renderer) Header(data HeaderData) templ.Component {
	return r.component("header", data)
}

func (r *Renderer) component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, err := r.templates()
		if err != nil {
			return err
		}
		named := t.Lookup(name)
		if named == nil {
			return fmt.Errorf("template %q not found", name)
		}
		return templ.FromGoHTML(named, data).Render(ctx, w)
	})
}

type leafData struct {
	SelectURL string
	Link      menu.Link
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"currency":   format.Currency,
		"percent":    format.Percent,
		"phoneHref":  phoneHref,
		"stars":      format.Stars,
		"leaf":       leaf,
		"selectVals": selectVals,
	}
}

// phoneHref marks the tel: link as safe; html/template filters unknown schemes.
func phoneHref(display string) template.URL {
	return template.URL(format.PhoneHref(display))
}

func leaf(selectURL string, l menu.Link) leafData {
	return leafData{SelectURL: selectURL, Link: l}
}

// selectVals is the hx-vals payload of a leaf link.
func selectVals(href string) (string, error) {
	b, err := json.Marshal(map[string]string{"href": href})
	return string(b), err
}
