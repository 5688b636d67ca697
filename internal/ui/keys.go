package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	Refresh    key.Binding

	// View switching
	ViewCatalog key.Binding
	ViewCart    key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Catalog actions
	Filter    key.Binding
	AddToCart key.Binding

	// Cart actions
	Increase key.Binding
	Decrease key.Binding
	Remove   key.Binding
	Checkout key.Binding

	// Filter input
	Confirm key.Binding
	Escape  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "Switch catalog/cart"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload catalog"),
		),

		// View switching
		ViewCatalog: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Catalog view"),
		),
		ViewCart: key.NewBinding(
			key.WithKeys("2", "c"),
			key.WithHelp("2/c", "Cart view"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		// Catalog actions
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Filter by title"),
		),
		AddToCart: key.NewBinding(
			key.WithKeys("a", "enter"),
			key.WithHelp("a/enter", "Add to cart"),
		),

		// Cart actions
		Increase: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Increase quantity"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Decrease quantity"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "Remove item"),
		),
		Checkout: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Checkout (clear cart)"),
		),

		// Filter input
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Apply filter"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Clear filter"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Navigation
		{k.Tab, k.ViewCatalog, k.ViewCart, k.Up, k.Down, k.Top, k.Bottom},
		// Catalog
		{k.Filter, k.AddToCart, k.Refresh},
		// Cart
		{k.Increase, k.Decrease, k.Remove, k.Checkout},
		// General
		{k.CycleTheme, k.Help, k.Quit},
	}
}
