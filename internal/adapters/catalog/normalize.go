package catalog

import (
	"strings"
	"unicode"
)

// noiseTokens are release decorations that do not identify a song.
var noiseTokens = map[string]struct{}{
	"deluxe":     {},
	"edit":       {},
	"edition":    {},
	"explicit":   {},
	"feat":       {},
	"featuring":  {},
	"ft":         {},
	"remaster":   {},
	"remastered": {},
	"version":    {},
}

// normalize lowercases s, drops bracketed segments, punctuation and noise tokens,
// and collapses whitespace.
func normalize(s string) string {
	if s == "" {
		return ""
	}
	filtered := stripBracketed(strings.ToLower(s))
	tokens := strings.Fields(separatorsToSpace(filtered))

	kept := tokens[:0]
	for _, tok := range tokens {
		if _, drop := noiseTokens[tok]; drop {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

func stripBracketed(s string) string {
	var out strings.Builder
	depth := 0
	for _, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				out.WriteRune(r)
			}
		}
	}
	return out.String()
}

// separatorsToSpace keeps letters and digits and turns every other run into one space.
// Apostrophes are dropped so "O'" and "O" compare equal.
func separatorsToSpace(s string) string {
	var out strings.Builder
	lastSpace := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			out.WriteRune(r)
			lastSpace = false
		case r == '\'' || r == '’':
		case !lastSpace:
			out.WriteRune(' ')
			lastSpace = true
		}
	}
	return out.String()
}

// splitQuery splits "Title - Artist" into its parts; artist is empty when absent.
func splitQuery(q string) (title, artist string) {
	if i := strings.LastIndex(q, " - "); i >= 0 {
		return strings.TrimSpace(q[:i]), strings.TrimSpace(q[i+3:])
	}
	return strings.TrimSpace(q), ""
}
