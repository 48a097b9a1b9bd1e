package menu

import "sync"

// Op names a controller operation.
type Op string

const (
	OpActivateMegaMenu    Op = "activate_mega_menu"
	OpActivateDropdown    Op = "activate_dropdown"
	OpToggleMobileMenu    Op = "toggle_mobile_menu"
	OpToggleMobileSubmenu Op = "toggle_mobile_submenu"
	OpSelectLink          Op = "select_link"
)

// Observer is notified after every transition.
type Observer func(op Op, from, to State)

// Controller owns the menu state of a single rendered page. Operations are
// serialised, so concurrent requests for the same page apply one at a time.
type Controller struct {
	mu       sync.Mutex
	state    State
	observer Observer
}

// NewController returns a controller in the closed state. observer may be nil.
func NewController(observer Observer) *Controller {
	return &Controller{observer: observer}
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reset returns the controller to the closed state.
func (c *Controller) Reset() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{}
	return c.state
}

// ActivateMegaMenu toggles the mega-menu id.
func (c *Controller) ActivateMegaMenu(id string) State {
	return c.apply(OpActivateMegaMenu, func(s State) State { return s.ActivateMegaMenu(id) })
}

// ActivateDropdown toggles the dropdown id.
func (c *Controller) ActivateDropdown(id string) State {
	return c.apply(OpActivateDropdown, func(s State) State { return s.ActivateDropdown(id) })
}

// ToggleMobileMenu shows or hides the mobile menu.
func (c *Controller) ToggleMobileMenu() State {
	return c.apply(OpToggleMobileMenu, State.ToggleMobileMenu)
}

// ToggleMobileSubmenu toggles the mobile submenu id.
func (c *Controller) ToggleMobileSubmenu(id string) State {
	return c.apply(OpToggleMobileSubmenu, func(s State) State { return s.ToggleMobileSubmenu(id) })
}

// SelectLink closes all panels after a leaf link was activated.
func (c *Controller) SelectLink(href string) State {
	return c.apply(OpSelectLink, func(s State) State { return s.SelectLink(href) })
}

func (c *Controller) apply(op Op, fn func(State) State) State {
	c.mu.Lock()
	from := c.state
	to := fn(from)
	c.state = to
	obs := c.observer
	c.mu.Unlock()

	if obs != nil {
		obs(op, from, to)
	}
	return to
}
