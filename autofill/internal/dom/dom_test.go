package dom

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  First   name *", "First name"},
		{"Email\n\t address", "Email address"},
		{"*", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuoteAttr(t *testing.T) {
	if got := QuoteAttr(`a"b`); got != `"a\"b"` {
		t.Errorf("QuoteAttr: got %s", got)
	}
}

func TestRectEmpty(t *testing.T) {
	if !(Rect{Width: 0, Height: 10}).Empty() {
		t.Error("zero width should be empty")
	}
	if (Rect{Width: 1, Height: 1}).Empty() {
		t.Error("1x1 should not be empty")
	}
}
