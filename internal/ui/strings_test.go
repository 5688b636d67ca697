package ui

import "testing"

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{9.99, "$9.99"},
		{0.1 + 0.2, "$0.30"},
		{109.95, "$109.95"},
		{1e-12, "$0.00"},
	}
	for _, tt := range tests {
		if got := money(tt.in); got != tt.want {
			t.Errorf("money(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLineTotal(t *testing.T) {
	if got := lineTotal(19.99, 3); got != "$59.97" {
		t.Fatalf("lineTotal = %q, want $59.97", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  Fjallraven Backpack  ", 10); got != "Fjallra..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
}

func TestTitleCase(t *testing.T) {
	if got := titleCase("men's clothing"); got != "Men's Clothing" {
		t.Fatalf("titleCase = %q", got)
	}
}

func TestPadding(t *testing.T) {
	if got := padLeft("$1.00", 7); got != "  $1.00" {
		t.Fatalf("padLeft = %q", got)
	}
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		selected, n, height int
		start, end          int
	}{
		{0, 5, 10, 0, 5},
		{0, 20, 5, 0, 5},
		{10, 20, 5, 8, 13},
		{19, 20, 5, 15, 20},
	}
	for _, tt := range tests {
		start, end := window(tt.selected, tt.n, tt.height)
		if start != tt.start || end != tt.end {
			t.Errorf("window(%d,%d,%d) = [%d,%d), want [%d,%d)", tt.selected, tt.n, tt.height, start, end, tt.start, tt.end)
		}
	}
}

func TestClamp(t *testing.T) {
	if clamp(5, 3) != 2 || clamp(-1, 3) != 0 || clamp(1, 0) != 0 {
		t.Fatal("clamp out of range")
	}
}
