package docgrab

import (
	"strings"
	"unicode"
)

// maxTitleLen bounds sanitized titles so the derived paths stay well
// inside filesystem limits.
const maxTitleLen = 150

// fallbackTitle is used when sanitization leaves nothing usable.
const fallbackTitle = "untitled_document"

// sanitizeTitle derives a path-safe name from a document title. Anything
// outside [A-Za-z0-9 _-] becomes an underscore, runs of spaces and
// underscores collapse to a single separator, and the output is trimmed
// and truncated to maxTitleLen runes. The function is deterministic and
// idempotent: the sanitized name doubles as the filesystem key that
// groups a document's screenshots.
func sanitizeTitle(title string) string {
	mapped := make([]rune, 0, len(title))
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == ' ', r == '-', r == '_':
			mapped = append(mapped, r)
		default:
			mapped = append(mapped, '_')
		}
	}

	// Collapse each run of spaces and underscores to one rune: an
	// underscore if the run contains one, otherwise a space.
	out := make([]rune, 0, len(mapped))
	for i := 0; i < len(mapped); {
		r := mapped[i]
		if r != ' ' && r != '_' {
			out = append(out, r)
			i++
			continue
		}
		sep := ' '
		j := i
		for ; j < len(mapped) && (mapped[j] == ' ' || mapped[j] == '_'); j++ {
			if mapped[j] == '_' {
				sep = '_'
			}
		}
		out = append(out, sep)
		i = j
	}

	if len(out) > maxTitleLen {
		out = out[:maxTitleLen]
	}
	s := strings.Trim(string(out), " _")
	if s == "" {
		return fallbackTitle
	}
	return s
}

// cleanText normalizes extracted document text: CRLF becomes LF, control
// characters other than newlines and tabs are dropped, and horizontal
// whitespace runs collapse to a single space.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		switch {
		case r == '\n':
			b.WriteRune(r)
			prevSpace = false
		case r == ' ' || r == '\t':
			if !prevSpace {
				b.WriteByte(' ')
			}
			prevSpace = true
		case unicode.IsControl(r):
			// drop
		default:
			b.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}
