package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/storefront/internal/cart"
)

const (
	priceWidth    = 10
	categoryWidth = 18
	inCartWidth   = 5
)

// handleCatalogKey processes keyboard input for the catalog view.
func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Filter) {
		m.filtering = true
		return m, m.filter.Focus()
	}
	if key.Matches(msg, m.keys.Escape) && m.filter.Value() != "" {
		m.filter.SetValue("")
		m.refilter()
		return m, nil
	}

	list := m.state.Product.FilteredProducts
	if len(list) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.catalogRow > 0 {
			m.catalogRow--
		}
	case key.Matches(msg, m.keys.Down):
		if m.catalogRow < len(list)-1 {
			m.catalogRow++
		}
	case key.Matches(msg, m.keys.Top):
		m.catalogRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.catalogRow = len(list) - 1
	case key.Matches(msg, m.keys.AddToCart):
		p := list[clamp(m.catalogRow, len(list))]
		m.dispatch(cart.AddToCart{Product: p})
		m.notice = ""
	}
	return m, nil
}

// handleFilterKey feeds keys to the title filter, re-filtering on every
// change.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.filtering = false
		m.filter.Blur()
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.refilter()
		return m, nil
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.refilter()
		m.catalogRow = 0
	}
	return m, cmd
}

// renderCatalog renders the filter line and the product list.
func (m Model) renderCatalog() string {
	styles := m.theme.Styles()
	var b strings.Builder

	reserved := 0
	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
		reserved = 1
	}

	p := m.state.Product
	list := p.FilteredProducts
	switch {
	case len(list) == 0 && p.IsLoading:
		b.WriteString(styles.WarningText.Render("Loading catalog..."))
		return b.String()
	case len(p.ProductList) == 0:
		b.WriteString(styles.MutedText.Render("No products. Press r to reload."))
		return b.String()
	case len(list) == 0:
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("No titles match %q.", m.filter.Value())))
		return b.String()
	}

	titleWidth := maxInt(10, m.width-priceWidth-categoryWidth-inCartWidth-4)
	start, end := window(m.catalogRow, len(list), m.contentHeight(reserved))
	for i := start; i < end; i++ {
		item := list[i]

		inCart := ""
		if idx := m.state.Cart.Find(item.ID); idx >= 0 {
			inCart = fmt.Sprintf("×%d", m.state.Cart.Items[idx].Quantity)
		}

		title := padRight(truncate(item.Title, titleWidth), titleWidth)
		category := padRight(truncate(titleCase(item.Category), categoryWidth-2), categoryWidth-2)
		price := padLeft(money(item.Price), priceWidth)

		if i == m.catalogRow {
			line := fmt.Sprintf("%s %s %s %s", title, category, price, padLeft(inCart, inCartWidth))
			b.WriteString(styles.Selected.Width(m.width).Render(line))
		} else {
			b.WriteString(styles.Text.Render(title))
			b.WriteString(" ")
			b.WriteString(styles.CategoryStyle(item.Category).Render(category))
			b.WriteString(" ")
			b.WriteString(styles.Text.Render(price))
			b.WriteString(" ")
			b.WriteString(styles.SuccessText.Render(padLeft(inCart, inCartWidth)))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
