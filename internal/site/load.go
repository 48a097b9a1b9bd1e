package site

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"

	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/menu"
)

// ErrInvalidContent is returned when the content file fails validation.
var ErrInvalidContent = errors.New("site: invalid content")

const defaultContentPath = "content/site.yaml"

//go:embed content/site.yaml
var embedded embed.FS

var (
	markdown  = goldmark.New()
	sanitizer = bluemonday.UGCPolicy()
)

// Default loads the content bundled with the binary.
func Default() (*Content, error) {
	return Load(embedded, defaultContentPath)
}

// LoadFile loads content from a file on disk, falling back to the bundled
// copy when path is empty.
func LoadFile(path string) (*Content, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content %s: %w", path, err)
	}
	return Parse(raw)
}

// Load reads and parses name from fsys.
func Load(fsys fs.FS, name string) (*Content, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read content %s: %w", name, err)
	}
	return Parse(raw)
}

// Parse decodes YAML content, validates it, renders markdown copy and
// builds the navigation tree.
func Parse(raw []byte) (*Content, error) {
	var f contentFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("unmarshal content: %w", err)
	}
	if err := validate(&f); err != nil {
		return nil, err
	}

	tree, err := menu.NewTree(navItems(f.Navigation))
	if err != nil {
		return nil, fmt.Errorf("navigation: %w", err)
	}

	body, err := RenderMarkdown(f.About.Body)
	if err != nil {
		return nil, fmt.Errorf("about body: %w", err)
	}
	f.About.BodyHTML = body
	f.Maintenance.Checklist = dedupe(f.Maintenance.Checklist)
	f.Maintenance.Benefits = dedupe(f.Maintenance.Benefits)

	return &Content{
		Company:     f.Company,
		Hero:        f.Hero,
		Services:    f.Services,
		About:       f.About,
		Reviews:     f.Reviews,
		Promotions:  f.Promotions,
		Maintenance: f.Maintenance,
		Areas:       f.Areas,
		CTA:         f.CTA,
		Footer:      f.Footer,
		Nav:         tree,
	}, nil
}

// RenderMarkdown converts markdown to sanitised HTML.
func RenderMarkdown(src string) (template.HTML, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes())), nil
}

func validate(f *contentFile) error {
	var problems []string
	if strings.TrimSpace(f.Company.Name) == "" {
		problems = append(problems, "company.name is required")
	}
	if strings.TrimSpace(f.Company.Phone) == "" {
		problems = append(problems, "company.phone is required")
	}
	for i, r := range f.Reviews.Items {
		if r.Rating < 1 || r.Rating > 5 {
			problems = append(problems, fmt.Sprintf("reviews.items[%d].rating must be 1..5", i))
		}
	}
	if p := f.Promotions.Discount.Percent; p < 1 || p > 100 {
		problems = append(problems, "promotions.discount.percent must be 1..100")
	}
	if f.Promotions.Discount.CapCents < 0 {
		problems = append(problems, "promotions.discount.cap_cents must not be negative")
	}
	if f.Areas.MapURL != "" {
		if u, err := url.Parse(f.Areas.MapURL); err != nil || u.Scheme != "https" {
			problems = append(problems, "areas.map_url must be an https URL")
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidContent, strings.Join(problems, "; "))
	}
	return nil
}

func navItems(in []navItem) []menu.Item {
	out := make([]menu.Item, 0, len(in))
	for _, it := range in {
		item := menu.Item{
			ID:    it.ID,
			Label: it.Label,
			Href:  it.Href,
			Kind:  navKind(it.Kind),
			Links: navLinks(it.Links),
		}
		for _, c := range it.Categories {
			item.Categories = append(item.Categories, menu.Category{Name: c.Name, Links: navLinks(c.Links)})
		}
		out = append(out, item)
	}
	return out
}

func navKind(s string) menu.Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "link":
		return menu.KindLink
	case "mega", "megamenu", "mega-menu":
		return menu.KindMegaMenu
	case "dropdown":
		return menu.KindDropdown
	default:
		// Rejected by menu.NewTree.
		return menu.Kind(-1)
	}
}

func navLinks(in []navLink) []menu.Link {
	if len(in) == 0 {
		return nil
	}
	out := make([]menu.Link, 0, len(in))
	for _, l := range in {
		out = append(out, menu.Link{Label: strings.TrimSpace(l.Label), Href: strings.TrimSpace(l.Href)})
	}
	return out
}

// dedupe drops repeated bullet points while keeping order.
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.Join(strings.Fields(it), " ")
		if it == "" {
			continue
		}
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
