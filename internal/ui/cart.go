package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/storefront/internal/cart"
)

// handleCartKey processes keyboard input for the cart view.
func (m Model) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.state.Cart.Items
	if len(items) == 0 {
		return m, nil
	}
	selected := items[clamp(m.cartRow, len(items))]

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cartRow > 0 {
			m.cartRow--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cartRow < len(items)-1 {
			m.cartRow++
		}
	case key.Matches(msg, m.keys.Top):
		m.cartRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cartRow = len(items) - 1
	case key.Matches(msg, m.keys.Increase):
		m.dispatch(cart.UpdateQuantity{ID: selected.ID, Quantity: selected.Quantity + 1})
	case key.Matches(msg, m.keys.Decrease):
		m.dispatch(cart.UpdateQuantity{ID: selected.ID, Quantity: selected.Quantity - 1})
	case key.Matches(msg, m.keys.Remove):
		m.dispatch(cart.RemoveFromCart{ID: selected.ID})
	case key.Matches(msg, m.keys.Checkout):
		m.dispatch(cart.ClearCart{})
		m.notice = "order placed"
	}
	m.cartRow = clamp(m.cartRow, len(m.state.Cart.Items))
	return m, nil
}

// renderCart renders the cart lines and the total.
func (m Model) renderCart() string {
	styles := m.theme.Styles()
	c := m.state.Cart
	if len(c.Items) == 0 {
		return styles.MutedText.Render("Your cart is empty. Press 1 to browse the catalog.")
	}

	var b strings.Builder
	titleWidth := maxInt(10, m.width-priceWidth*2-8)
	start, end := window(m.cartRow, len(c.Items), m.contentHeight(2))
	for i := start; i < end; i++ {
		item := c.Items[i]
		line := fmt.Sprintf("%s %s %s %s",
			padRight(truncate(item.Title, titleWidth), titleWidth),
			padLeft(fmt.Sprintf("%d ×", item.Quantity), 6),
			padLeft(money(item.Price), priceWidth),
			padLeft(lineTotal(item.Price, item.Quantity), priceWidth),
		)
		if i == m.cartRow {
			b.WriteString(styles.Selected.Width(m.width).Render(line))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.FaintText.Render(strings.Repeat("─", maxInt(10, m.width))))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("%d items  ", c.TotalQuantity)))
	b.WriteString(styles.AccentText.Bold(true).Render("Total " + money(c.TotalAmount)))
	return b.String()
}
