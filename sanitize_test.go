package docgrab

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeTitle(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		want  string
	}{
		{"plain", "Annual Report 2024", "Annual Report 2024"},
		{"punctuation", "Annual Report: Q3/2024 <final>", "Annual Report_Q3_2024_final"},
		{"path chars", `a/b\c:d*e?f"g<h>i|j`, "a_b_c_d_e_f_g_h_i_j"},
		{"collapsed runs", "too   many    spaces", "too many spaces"},
		{"mixed separators", "a _ _ b", "a_b"},
		{"unicode", "résumé", "r_sum"},
		{"leading trailing", "  _padded_  ", "padded"},
		{"empty", "", "untitled_document"},
		{"only invalid", "????!!!!", "untitled_document"},
		{"already safe", "untitled_document", "untitled_document"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := sanitizeTitle(tc.in); got != tc.want {
				t.Errorf("sanitizeTitle(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSanitizeTitle_Bounded(t *testing.T) {
	long := strings.Repeat("a", 400) + "!!!" + strings.Repeat("b", 400)
	got := sanitizeTitle(long)
	if n := utf8.RuneCountInString(got); n > maxTitleLen {
		t.Errorf("sanitized title is %d runes, bound is %d", n, maxTitleLen)
	}
}

func TestSanitizeTitle_Idempotent(t *testing.T) {
	inputs := []string{
		"Annual Report: Q3/2024 <final>",
		"résumé — draft (v2)",
		strings.Repeat("title with spaces and / slashes ", 20),
		"   ",
		"",
		"page_1.png",
		"\x00\x01control\x02",
	}
	for _, in := range inputs {
		once := sanitizeTitle(in)
		twice := sanitizeTitle(once)
		if once != twice {
			t.Errorf("sanitizeTitle not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestCleanText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"crlf", "line one\r\nline two", "line one\nline two"},
		{"bare cr", "line one\rline two", "line one\nline two"},
		{"control chars", "a\x00b\x07c", "abc"},
		{"space runs", "a  \t b", "a b"},
		{"trimmed", "  text  ", "text"},
		{"keeps newlines", "first\nsecond", "first\nsecond"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cleanText(tc.in); got != tc.want {
				t.Errorf("cleanText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
