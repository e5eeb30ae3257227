package ui

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this one is too long", 10, "this on..."},
		{"no limit applied", 0, "no limit applied"},
		{"abcdef", 3, "abc"},
		{"  padded  ", 20, "padded"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"single", "single"},
		{"first\nsecond", "first"},
		{"\n\n  third non blank  \nfourth", "third non blank"},
		{"", ""},
		{"\n\n", ""},
	}
	for _, tt := range tests {
		if got := firstLine(tt.in); got != tt.want {
			t.Errorf("firstLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Errorf("padRight(ab, 5) = %q", got)
	}
	if got := padRight("abcdef", 3); got != "abcdef" {
		t.Errorf("padRight should never cut: got %q", got)
	}
	if got := padRight("x", 0); got != "x" {
		t.Errorf("padRight(x, 0) = %q", got)
	}
}

func TestTernary(t *testing.T) {
	if got := ternary(true, "a", "b"); got != "a" {
		t.Errorf("ternary(true) = %q", got)
	}
	if got := ternary(false, 1, 2); got != 2 {
		t.Errorf("ternary(false) = %d", got)
	}
}
