package ui

import (
	"strings"

	"github.com/shopspring/decimal"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

// padLeft right-aligns s in width.
func padLeft(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(r)) + s
}

// titleCase upper-cases the first letter of each word.
func titleCase(value string) string {
	words := strings.Fields(value)
	for i, w := range words {
		lower := strings.ToLower(w)
		words[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(words, " ")
}

// money formats an amount as dollars with two decimals. Float noise from
// the running cart total is rounded away here, never in state.
func money(amount float64) string {
	return "$" + decimal.NewFromFloat(amount).StringFixed(2)
}

// lineTotal is price × quantity computed in decimal.
func lineTotal(price float64, quantity int) string {
	d := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
	return "$" + d.StringFixed(2)
}

// clamp keeps idx inside [0, n).
func clamp(idx, n int) int {
	if n <= 0 || idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// window returns the [start, end) slice of n rows that keeps selected
// visible within height rows.
func window(selected, n, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := selected - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}
