// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rag

import (
	"strings"
	"unicode/utf8"
)

// separator follows every text appended to the context.
const separator = "\n\n"

// BuildContext concatenates texts in order, each followed by a blank line,
// while the running length plus the next text stays within maxChars. It
// stops at the first text that does not fit, even if a later one would.
// Lengths are counted in characters. It returns the context and the number
// of texts included.
func BuildContext(texts []string, maxChars int) (string, int) {
	var (
		sb      strings.Builder
		length  int
		include int
	)
	for _, text := range texts {
		n := utf8.RuneCountInString(text)
		if length+n > maxChars {
			break
		}
		sb.WriteString(text)
		sb.WriteString(separator)
		length += n + len(separator)
		include++
	}
	return sb.String(), include
}
