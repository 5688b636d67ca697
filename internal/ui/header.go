package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: catalog state and cart totals.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bar := newStatusBar(m.theme.Surface)
	bar.add(span{"storefront", styles.Brand})

	p := m.state.Product
	switch {
	case p.IsLoading:
		bar.add(span{"● loading", styles.WarningText})
	case len(p.ProductList) == 0:
		bar.add(span{"● offline", styles.DangerText})
	default:
		bar.add(span{"● online", styles.SuccessText})
	}

	bar.add(
		span{"Products:", styles.MutedText},
		span{fmt.Sprintf("%d/%d", len(p.FilteredProducts), len(p.ProductList)), styles.Text},
	)

	c := m.state.Cart
	bar.add(
		span{"Cart:", styles.MutedText},
		span{fmt.Sprintf("%d", c.TotalQuantity), styles.Text},
		span{money(c.TotalAmount), styles.AccentText},
	)

	if m.notice != "" {
		bar.add(span{truncate(m.notice, 60), styles.DangerText})
	}

	return bar.render(m.width, m.theme.Text)
}

// renderCommandBar renders the view tabs and the short key hints.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	tab := func(label string, active bool) string {
		if active {
			return styles.Selected.Bold(true).Padding(0, 1).Render(label)
		}
		return styles.MutedText.Padding(0, 1).Render(label)
	}

	hints := "/ filter  a add  r reload  h help"
	if m.currentView == ViewCart {
		hints = "+/- quantity  x remove  C checkout  h help"
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		tab("1 Catalog", m.currentView == ViewCatalog),
		tab(fmt.Sprintf("2 Cart (%d)", m.state.Cart.TotalQuantity), m.currentView == ViewCart),
		"  ",
		styles.FaintText.Render(hints),
	)
}

// renderGate is shown until persisted state has been restored.
func (m Model) renderGate() string {
	styles := m.theme.Styles()
	content := styles.Brand.Render("storefront") + "\n\n" +
		styles.WarningText.Render("Restoring your cart...")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
