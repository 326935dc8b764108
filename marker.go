package strinject

import (
	"regexp"
	"strings"
	"unicode"
)

// MarkerToken is the text that identifies a marker comment line, independent of the comment syntax of the
// host language.
const MarkerToken = "DOCUSAURUS:"

// markerDirectiveRe matches "DOCUSAURUS: <name> start|stop" anywhere on a line. The name is a whole token,
// so "Foo" never matches a directive for "Foo1" or "1Foo".
var markerDirectiveRe = regexp.MustCompile(`DOCUSAURUS:[ \t]+(\S+)[ \t]+(start|stop)\b`)

type markerDirective struct {
	name  string
	start bool
}

func parseMarkerDirective(line string) (markerDirective, bool) {
	m := markerDirectiveRe.FindStringSubmatch(line)
	if m == nil {
		return markerDirective{}, false
	}
	return markerDirective{name: m[1], start: m[2] == "start"}, true
}

// IsMarkerLine reports whether line is a marker comment line, for any marker name.
func IsMarkerLine(line string) bool {
	return strings.Contains(line, MarkerToken)
}

// StripMarkerLines removes every marker comment line from text. All other lines are kept byte for byte.
func StripMarkerLines(text string) string {
	if !strings.Contains(text, MarkerToken) {
		return text
	}
	var sb strings.Builder
	sb.Grow(len(text))
	for _, line := range strings.SplitAfter(text, "\n") {
		if IsMarkerLine(line) {
			continue
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// ExtractMarker returns the content of every region of text delimited by the start and stop comments of
// marker, in document order. A nil result means the marker has no complete region in text.
//
// Each region is passed through RemoveIndent, then the marker lines nested inside it are dropped and trailing
// whitespace is trimmed. A start line that is never followed by its stop line yields nothing.
func ExtractMarker(text, marker string) []string {
	text = normalizeNewlines(text)

	var (
		regions []string
		body    strings.Builder
		open    bool
	)
	for _, line := range strings.SplitAfter(text, "\n") {
		d, isDirective := parseMarkerDirective(line)
		matches := isDirective && d.name == marker
		if !open {
			if matches && d.start {
				open = true
				body.Reset()
			}
			continue
		}
		if matches && !d.start {
			regions = append(regions, finishRegion(body.String()))
			open = false
			continue
		}
		body.WriteString(line)
	}
	return regions
}

// finishRegion measures the indentation with nested marker lines still in place, then drops them.
func finishRegion(body string) string {
	return strings.TrimRightFunc(StripMarkerLines(RemoveIndent(body)), unicode.IsSpace)
}
