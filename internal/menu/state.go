package menu

import "fmt"

type panelKind uint8

const (
	panelClosed panelKind = iota
	panelMega
	panelDropdown
)

// Desktop is the desktop navigation state: closed, one mega-menu open, or
// one dropdown open. The zero value is closed.
type Desktop struct {
	kind panelKind
	id   string
}

// Closed reports whether no desktop panel is open.
func (d Desktop) Closed() bool { return d.kind == panelClosed }

// MegaMenu returns the open mega-menu ID, if any.
func (d Desktop) MegaMenu() (string, bool) {
	if d.kind != panelMega {
		return "", false
	}
	return d.id, true
}

// Dropdown returns the open dropdown ID, if any.
func (d Desktop) Dropdown() (string, bool) {
	if d.kind != panelDropdown {
		return "", false
	}
	return d.id, true
}

func (d Desktop) String() string {
	switch d.kind {
	case panelMega:
		return fmt.Sprintf("MegaOpen(%s)", d.id)
	case panelDropdown:
		return fmt.Sprintf("DropdownOpen(%s)", d.id)
	default:
		return "Closed"
	}
}

// Mobile is the mobile menu state. A hidden menu never has a submenu open.
// The zero value is hidden.
type Mobile struct {
	visible bool
	submenu string
}

// Visible reports whether the mobile menu is shown.
func (m Mobile) Visible() bool { return m.visible }

// Submenu returns the expanded submenu ID, if any.
func (m Mobile) Submenu() (string, bool) {
	if !m.visible || m.submenu == "" {
		return "", false
	}
	return m.submenu, true
}

func (m Mobile) String() string {
	if !m.visible {
		return "Hidden"
	}
	if m.submenu == "" {
		return "Visible(NoSubmenuOpen)"
	}
	return fmt.Sprintf("Visible(SubmenuOpen(%s))", m.submenu)
}

// State is the complete menu UI state of one page. The zero value is the
// initial, fully closed state.
type State struct {
	Desktop Desktop
	Mobile  Mobile
}

func (s State) String() string {
	return s.Desktop.String() + "/" + s.Mobile.String()
}

// ActivateMegaMenu closes the mega-menu id when it is open and opens it
// otherwise. Opening replaces any open dropdown or other mega-menu.
func (s State) ActivateMegaMenu(id string) State {
	if open, ok := s.Desktop.MegaMenu(); ok && open == id {
		s.Desktop = Desktop{}
		return s
	}
	s.Desktop = Desktop{kind: panelMega, id: id}
	return s
}

// ActivateDropdown mirrors ActivateMegaMenu for dropdown panels.
func (s State) ActivateDropdown(id string) State {
	if open, ok := s.Desktop.Dropdown(); ok && open == id {
		s.Desktop = Desktop{}
		return s
	}
	s.Desktop = Desktop{kind: panelDropdown, id: id}
	return s
}

// ToggleMobileMenu flips mobile visibility and clears the open submenu.
func (s State) ToggleMobileMenu() State {
	s.Mobile = Mobile{visible: !s.Mobile.visible}
	return s
}

// ToggleMobileSubmenu expands id, collapsing any other submenu, or collapses
// id when it is already expanded. It has no effect while the menu is hidden.
func (s State) ToggleMobileSubmenu(id string) State {
	if !s.Mobile.visible {
		return s
	}
	if s.Mobile.submenu == id {
		s.Mobile.submenu = ""
		return s
	}
	s.Mobile.submenu = id
	return s
}

// SelectLink closes every panel. The href is not inspected; navigation to
// the anchor is left to the browser.
func (s State) SelectLink(string) State {
	return State{}
}
