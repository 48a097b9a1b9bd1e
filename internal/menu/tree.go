// Package menu holds the navigation tree of the landing page and the
// controller that decides which menu panel is visible.
package menu

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTree is returned when navigation items fail validation.
var ErrInvalidTree = errors.New("menu: invalid navigation tree")

// Kind distinguishes top-level navigation items.
type Kind int

const (
	// KindLink is a plain top-level link.
	KindLink Kind = iota
	// KindMegaMenu expands into categories of links.
	KindMegaMenu
	// KindDropdown expands into a flat list of links.
	KindDropdown
)

func (k Kind) String() string {
	switch k {
	case KindMegaMenu:
		return "mega"
	case KindDropdown:
		return "dropdown"
	default:
		return "link"
	}
}

// Link is a leaf navigation entry pointing at an in-page anchor.
type Link struct {
	Label string
	Href  string
}

// Category groups the links of one mega-menu column.
type Category struct {
	Name  string
	Links []Link
}

// Item is a top-level navigation entry.
type Item struct {
	ID         string
	Label      string
	Href       string
	Kind       Kind
	Categories []Category
	Links      []Link
}

// HasPanel reports whether the item opens a mega-menu or dropdown.
func (it Item) HasPanel() bool {
	return it.Kind == KindMegaMenu || it.Kind == KindDropdown
}

// Tree is the validated navigation definition. It is built once at startup
// and never modified; callers must treat returned slices as read-only.
type Tree struct {
	items  []Item
	byID   map[string]int
	leaves map[string]Link
}

// NewTree validates items and indexes them by ID and leaf href.
// Items without an ID use their label as identifier.
func NewTree(items []Item) (*Tree, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrInvalidTree)
	}
	t := &Tree{
		items:  make([]Item, 0, len(items)),
		byID:   make(map[string]int, len(items)),
		leaves: map[string]Link{},
	}
	for i, it := range items {
		it.Label = strings.TrimSpace(it.Label)
		it.ID = strings.TrimSpace(it.ID)
		if it.ID == "" {
			it.ID = it.Label
		}
		if it.ID == "" {
			return nil, fmt.Errorf("%w: item %d has no label", ErrInvalidTree, i)
		}
		if _, dup := t.byID[it.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate item %q", ErrInvalidTree, it.ID)
		}
		if err := t.index(it); err != nil {
			return nil, err
		}
		t.byID[it.ID] = len(t.items)
		t.items = append(t.items, it)
	}
	return t, nil
}

func (t *Tree) index(it Item) error {
	switch it.Kind {
	case KindLink:
		if len(it.Categories) > 0 || len(it.Links) > 0 {
			return fmt.Errorf("%w: link %q cannot have children", ErrInvalidTree, it.ID)
		}
		if strings.TrimSpace(it.Href) == "" {
			return fmt.Errorf("%w: link %q has no href", ErrInvalidTree, it.ID)
		}
		t.leaves[it.Href] = Link{Label: it.Label, Href: it.Href}
	case KindMegaMenu:
		if len(it.Links) > 0 {
			return fmt.Errorf("%w: mega-menu %q cannot have flat links", ErrInvalidTree, it.ID)
		}
		if len(it.Categories) == 0 {
			return fmt.Errorf("%w: mega-menu %q has no categories", ErrInvalidTree, it.ID)
		}
		for _, c := range it.Categories {
			if len(c.Links) == 0 {
				return fmt.Errorf("%w: category %q of %q is empty", ErrInvalidTree, c.Name, it.ID)
			}
			if err := t.addLeaves(it.ID, c.Links); err != nil {
				return err
			}
		}
	case KindDropdown:
		if len(it.Categories) > 0 {
			return fmt.Errorf("%w: dropdown %q cannot have categories", ErrInvalidTree, it.ID)
		}
		if len(it.Links) == 0 {
			return fmt.Errorf("%w: dropdown %q has no links", ErrInvalidTree, it.ID)
		}
		if err := t.addLeaves(it.ID, it.Links); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: item %q has unknown kind %d", ErrInvalidTree, it.ID, it.Kind)
	}
	return nil
}

func (t *Tree) addLeaves(owner string, links []Link) error {
	for _, l := range links {
		if strings.TrimSpace(l.Href) == "" {
			return fmt.Errorf("%w: link %q under %q has no href", ErrInvalidTree, l.Label, owner)
		}
		t.leaves[l.Href] = l
	}
	return nil
}

// Items returns the top-level items in display order.
func (t *Tree) Items() []Item { return t.items }

// Item looks up a top-level item by ID.
func (t *Tree) Item(id string) (Item, bool) {
	i, ok := t.byID[id]
	if !ok {
		return Item{}, false
	}
	return t.items[i], true
}

// IsMegaMenu reports whether id names a mega-menu item.
func (t *Tree) IsMegaMenu(id string) bool {
	it, ok := t.Item(id)
	return ok && it.Kind == KindMegaMenu
}

// IsDropdown reports whether id names a dropdown item.
func (t *Tree) IsDropdown(id string) bool {
	it, ok := t.Item(id)
	return ok && it.Kind == KindDropdown
}

// HasSubmenu reports whether id names an item that expands in the mobile menu.
func (t *Tree) HasSubmenu(id string) bool {
	it, ok := t.Item(id)
	return ok && it.HasPanel()
}

// Leaf looks up a leaf link by href.
func (t *Tree) Leaf(href string) (Link, bool) {
	l, ok := t.leaves[href]
	return l, ok
}

// LeafCount returns the number of distinct leaf hrefs.
func (t *Tree) LeafCount() int { return len(t.leaves) }
