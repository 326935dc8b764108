package strinject

import (
	"strings"
	"unicode"
)

// RemoveIndent returns text with the minimum indentation of its non-blank lines
// removed from every line. Line endings are normalized to "\n" first.
//
// Blank lines don't count towards the minimum, but they are still cut: a blank
// line shorter than the minimum becomes empty. When something is removed, every
// line (including the last) ends with "\n" in the result. If there is nothing to
// remove, the normalized text is returned as is.
func RemoveIndent(text string) string {
	text = normalizeNewlines(text)
	lines := splitLines(text)

	minIndent := -1
	for _, l := range lines {
		if isBlank(l) {
			continue
		}
		n := leadingSpaces(l)
		if minIndent == -1 || n < minIndent {
			minIndent = n
		}
	}
	if minIndent <= 0 {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text))
	for _, l := range lines {
		sb.WriteString(dropRunes(l, minIndent))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// normalizeNewlines converts "\r\n" and lone "\r" to "\n".
func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// splitLines splits on "\n". A trailing newline does not produce an extra empty line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func isBlank(line string) bool {
	return strings.TrimLeftFunc(line, unicode.IsSpace) == ""
}

func leadingSpaces(line string) int {
	n := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n
}

func dropRunes(line string, n int) string {
	for i := range line {
		if n == 0 {
			return line[i:]
		}
		n--
	}
	return ""
}
