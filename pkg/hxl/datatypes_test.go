package hxl

import "testing"

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1,200", "1200", true},
		{" 42 ", "42", true},
		{"3.50", "3.5", true},
		{"1e3", "1000", true},
		{"abc", "abc", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeNumber(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("NormalizeNumber(%q): got (%q, %v) want (%q, %v)",
				tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-03-01", "2024-03-01", true},
		{"01.03.2024", "2024-03-01", true},
		{"1 Mar 2024", "2024-03-01", true},
		{"March 1, 2024", "2024-03-01", true},
		{"not a date", "not a date", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeDate(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("NormalizeDate(%q): got (%q, %v) want (%q, %v)",
				tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDateLayoutOf(t *testing.T) {
	if got := DateLayoutOf("2024-03-01"); got != "2006-01-02" {
		t.Fatalf("got %q", got)
	}
	if got := DateLayoutOf("01.03.2024"); got != "02.01.2006" {
		t.Fatalf("got %q", got)
	}
	if got := DateLayoutOf("nope"); got != "" {
		t.Fatalf("got %q want empty", got)
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	if got := NormalizeWhitespace("  a \t b\n c  "); got != "a b c" {
		t.Fatalf("got %q", got)
	}
}
