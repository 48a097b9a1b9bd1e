// Package handlers serves the landing page and the htmx menu fragments.
package handlers

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/angelofallars/htmx-go"
	"github.com/go-chi/chi/v5"

	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/format"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/menu"
	custommw "github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/middleware"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/nav"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/render"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/seo"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/session"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/site"
)

// MenuClosedEvent is triggered on the client after a leaf link closed the menus.
const MenuClosedEvent = "menu-closed"

// Dependencies collects what the handlers need.
type Dependencies struct {
	Content  *site.Content
	Renderer *render.Renderer
	Registry *menu.Registry
	Sessions *session.Manager
	Logger   *slog.Logger
	// BaseURL is the canonical site URL used in metadata.
	BaseURL string
	HTMXSrc string
	Now     func() time.Time
}

// Handlers exposes the HTTP handlers of the site.
type Handlers struct {
	content  *site.Content
	renderer *render.Renderer
	registry *menu.Registry
	sessions *session.Manager
	logger   *slog.Logger
	baseURL  string
	htmxSrc  string
	now      func() time.Time
	jsonld   []template.JS
}

// NewHandlers wires the handler set.
func NewHandlers(deps Dependencies) *Handlers {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	h := &Handlers{
		content:  deps.Content,
		renderer: deps.Renderer,
		registry: deps.Registry,
		sessions: deps.Sessions,
		logger:   logger,
		baseURL:  strings.TrimRight(deps.BaseURL, "/"),
		htmxSrc:  deps.HTMXSrc,
		now:      now,
	}
	h.jsonld = structuredData(deps.Content, h.canonical())
	return h
}

func (h *Handlers) canonical() string {
	if h.baseURL == "" {
		return ""
	}
	return h.baseURL + "/"
}

func structuredData(c *site.Content, canonical string) []template.JS {
	socials := make([]string, 0, len(c.Footer.Socials))
	for _, s := range c.Footer.Socials {
		if strings.HasPrefix(s.Href, "http") {
			socials = append(socials, s.Href)
		}
	}
	return []template.JS{
		seo.Script(seo.Plumber(seo.Business{
			Name:        c.Company.Name,
			Description: c.Company.Description,
			URL:         canonical,
			LogoURL:     c.Company.LogoURL,
			ImageURL:    c.Hero.ImageURL,
			Phone:       c.Company.Phone,
			Address:     c.Company.Address,
			Hours:       c.Company.Hours,
			FoundedYear: c.Company.Founded,
			AreaServed:  c.Areas.Cities,
			SameAs:      socials,
		})),
		seo.Script(seo.WebSite(c.Company.Name, canonical)),
	}
}

// Home renders the landing page. Every load opens a new page instance so
// the menus always start closed.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	id, ctrl := h.registry.Open()
	token, err := h.sessions.Issue(id)
	if err != nil {
		h.registry.Close(id)
		h.logger.ErrorContext(r.Context(), "issue page token", "error", err)
		custommw.WriteError(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	c := h.content
	data := render.PageData{
		Content: c,
		Header:  h.headerData(token, ctrl.State()),
		Meta:    seo.NewMeta(c.Company.Name+" | "+c.Hero.Title, c.Company.Description, h.canonical(), c.Hero.ImageURL),
		JSONLD:  h.jsonld,
		HTMXSrc: h.htmxSrc,
		Year:    format.Year(h.now()),
	}
	templ.Handler(h.renderer.Page(data), templ.WithErrorHandler(h.renderError)).ServeHTTP(w, r)
}

// ActivateMegaMenu toggles the mega-menu named by the id route parameter.
func (h *Handlers) ActivateMegaMenu(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if !h.content.Nav.IsMegaMenu(id) {
		custommw.WriteError(w, r, http.StatusNotFound, "unknown mega-menu")
		return
	}
	h.apply(w, r, htmx.NewResponse(), func(c *menu.Controller) menu.State {
		return c.ActivateMegaMenu(id)
	})
}

// ActivateDropdown toggles the dropdown named by the id route parameter.
func (h *Handlers) ActivateDropdown(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if !h.content.Nav.IsDropdown(id) {
		custommw.WriteError(w, r, http.StatusNotFound, "unknown dropdown")
		return
	}
	h.apply(w, r, htmx.NewResponse(), func(c *menu.Controller) menu.State {
		return c.ActivateDropdown(id)
	})
}

// ToggleMobileMenu shows or hides the mobile menu.
func (h *Handlers) ToggleMobileMenu(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, htmx.NewResponse(), (*menu.Controller).ToggleMobileMenu)
}

// ToggleMobileSubmenu expands or collapses one mobile submenu.
func (h *Handlers) ToggleMobileSubmenu(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if !h.content.Nav.HasSubmenu(id) {
		custommw.WriteError(w, r, http.StatusNotFound, "unknown submenu")
		return
	}
	h.apply(w, r, htmx.NewResponse(), func(c *menu.Controller) menu.State {
		return c.ToggleMobileSubmenu(id)
	})
}

// SelectLink closes every menu after a leaf link was followed.
func (h *Handlers) SelectLink(w http.ResponseWriter, r *http.Request) {
	href := strings.TrimSpace(r.FormValue("href"))
	if _, ok := h.content.Nav.Leaf(href); !ok {
		custommw.WriteError(w, r, http.StatusNotFound, "unknown link")
		return
	}
	resp := htmx.NewResponse().AddTrigger(htmx.Trigger(MenuClosedEvent))
	h.apply(w, r, resp, func(c *menu.Controller) menu.State {
		return c.SelectLink(href)
	})
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// apply resolves the page instance from the token, runs op and answers with
// the re-rendered header. Expired tokens and forgotten instances make the
// browser reload the page.
func (h *Handlers) apply(w http.ResponseWriter, r *http.Request, resp htmx.Response, op func(*menu.Controller) menu.State) {
	token := chi.URLParam(r, "token")
	data, err := h.sessions.Verify(token)
	switch {
	case errors.Is(err, session.ErrExpired):
		h.registry.Close(data.Instance)
		h.refresh(w, r, "token expired")
		return
	case err != nil:
		custommw.WriteError(w, r, http.StatusNotFound, "unknown page")
		return
	}

	ctrl, ok := h.registry.Get(data.Instance)
	if !ok {
		h.refresh(w, r, "instance gone")
		return
	}

	state := op(ctrl)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := resp.RenderTempl(r.Context(), w, h.renderer.Header(h.headerData(token, state))); err != nil {
		h.logger.ErrorContext(r.Context(), "render header", "error", err)
	}
}

func (h *Handlers) refresh(w http.ResponseWriter, r *http.Request, reason string) {
	h.logger.DebugContext(r.Context(), "page refresh requested", "reason", reason)
	if err := htmx.NewResponse().Refresh(true).Write(w); err != nil {
		h.logger.ErrorContext(r.Context(), "write refresh", "error", err)
	}
}

func (h *Handlers) headerData(token string, state menu.State) render.HeaderData {
	return render.HeaderData{
		Company: h.content.Company,
		Nav:     nav.Build(h.content.Nav, state, nav.NewRoutes(token)),
	}
}

func (h *Handlers) renderError(r *http.Request, err error) http.Handler {
	h.logger.ErrorContext(r.Context(), "render page", "error", err)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		custommw.WriteError(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	})
}

func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
