// Package normalize collapses the whitespace surrounding inline text.
// Leading and trailing runs keep their presence as a single space so that
// word separation between inline siblings survives, while source indentation
// does not leak into rendered lines.
package normalize

import "strings"

// whitespace is the ASCII whitespace set.
const whitespace = " \t\n\r\v\f"

// Whitespace replaces a non-empty leading whitespace run with one space and,
// independently, a non-empty trailing run with one space. Interior whitespace
// is untouched, so Whitespace(Whitespace(s)) == Whitespace(s).
func Whitespace(text string) string {
	trimmed := strings.TrimLeft(text, whitespace)
	if trimmed != text {
		trimmed = " " + trimmed
	}
	out := strings.TrimRight(trimmed, whitespace)
	if out != trimmed {
		out += " "
	}
	return out
}

// IsBlank reports whether text is empty or whitespace only.
func IsBlank(text string) bool {
	return strings.TrimLeft(text, whitespace) == ""
}
