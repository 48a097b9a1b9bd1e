// Package nav turns the navigation tree and a menu state into the view
// model rendered by the header templates.
package nav

import (
	"net/url"

	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/menu"
)

// Routes builds the htmx endpoints of one page instance.
type Routes struct {
	base string
}

// NewRoutes returns the routes addressed by token.
func NewRoutes(token string) Routes {
	return Routes{base: "/menu/" + url.PathEscape(token)}
}

func (r Routes) Mega(id string) string     { return r.base + "/mega/" + url.PathEscape(id) }
func (r Routes) Dropdown(id string) string { return r.base + "/dropdown/" + url.PathEscape(id) }
func (r Routes) Mobile() string            { return r.base + "/mobile" }
func (r Routes) Submenu(id string) string  { return r.base + "/mobile/" + url.PathEscape(id) }
func (r Routes) Select() string            { return r.base + "/select" }

// Header is the view model of the site header.
type Header struct {
	Items      []RenderedItem
	MobileOpen bool
	// State is the textual form of the menu state, exposed as a data
	// attribute for tests and debugging.
	State     string
	MobileURL string
	SelectURL string
}

// RenderedItem is a view model for one top-level navigation entry.
type RenderedItem struct {
	ID    string
	Label string
	Href  string
	Kind  string

	HasPanel bool
	// Open reports whether the desktop panel of this item is visible.
	Open bool
	// SubmenuOpen reports whether the item is expanded in the mobile menu.
	SubmenuOpen bool

	ToggleURL  string
	SubmenuURL string

	Categories []menu.Category
	Links      []menu.Link
}

// Build renders the tree with open flags derived from state.
func Build(tree *menu.Tree, state menu.State, routes Routes) Header {
	mega, _ := state.Desktop.MegaMenu()
	dropdown, _ := state.Desktop.Dropdown()
	submenu, _ := state.Mobile.Submenu()

	items := make([]RenderedItem, 0, len(tree.Items()))
	for _, it := range tree.Items() {
		ri := RenderedItem{
			ID:         it.ID,
			Label:      it.Label,
			Href:       it.Href,
			Kind:       it.Kind.String(),
			HasPanel:   it.HasPanel(),
			Categories: it.Categories,
			Links:      it.Links,
		}
		switch it.Kind {
		case menu.KindMegaMenu:
			ri.Open = mega == it.ID
			ri.ToggleURL = routes.Mega(it.ID)
		case menu.KindDropdown:
			ri.Open = dropdown == it.ID
			ri.ToggleURL = routes.Dropdown(it.ID)
		}
		if ri.HasPanel {
			ri.SubmenuOpen = submenu == it.ID
			ri.SubmenuURL = routes.Submenu(it.ID)
		}
		items = append(items, ri)
	}

	return Header{
		Items:      items,
		MobileOpen: state.Mobile.Visible(),
		State:      state.String(),
		MobileURL:  routes.Mobile(),
		SelectURL:  routes.Select(),
	}
}

// OpenItem returns the item whose desktop panel is open, if any.
func (h Header) OpenItem() (RenderedItem, bool) {
	for _, it := range h.Items {
		if it.Open {
			return it, true
		}
	}
	return RenderedItem{}, false
}
