package strinject

import (
	"regexp"
	"strings"
)

// looseTagRe finds anything shaped like a load tag: "<load", then everything up to the first '>' on the same
// line that is not inside a single-quoted value. An unterminated quote runs up to the next '>'. Whether the
// candidate is a well-formed tag is decided by parseTag.
var looseTagRe = regexp.MustCompile(`<load(?:[^>'\n]|'[^'\n]*')*(?:'[^'>\n]*)?>`)

// TagSpan is a candidate load tag found in the source.
type TagSpan struct {
	Start int      // byte offset of '<'
	End   int      // byte offset just past '>'
	Pos   Position // position of '<'
	Raw   string   // source[Start:End]
}

// Tag is a load tag that follows the strict grammar:
//
//	<load path='PATH' />
//	<load path='PATH' marker='MARKER' />
type Tag struct {
	Path   string // path as declared in the tag
	Marker string // empty for a whole-file tag
	Span   TagSpan
}

// CountTags returns the number of substrings of source shaped like a load tag, well-formed or not.
func CountTags(source string) int {
	return len(looseTagRe.FindAllStringIndex(normalizeNewlines(source), -1))
}

// FindTags returns every candidate load tag in source, left to right, non-overlapping. Offsets refer to
// source with line endings normalized.
func FindTags(source string) []TagSpan {
	source = normalizeNewlines(source)
	locs := looseTagRe.FindAllStringIndex(source, -1)
	if len(locs) == 0 {
		return nil
	}

	spans := make([]TagSpan, 0, len(locs))
	line, lineStart, scanned := 1, 0, 0
	for _, loc := range locs {
		for i := scanned; i < loc[0]; i++ {
			if source[i] == '\n' {
				line++
				lineStart = i + 1
			}
		}
		scanned = loc[0]
		spans = append(spans, TagSpan{
			Start: loc[0],
			End:   loc[1],
			Pos:   Position{Line: line, Column: loc[0] - lineStart + 1},
			Raw:   source[loc[0]:loc[1]],
		})
	}
	return spans
}

// tagParser is a cursor over the raw text of one candidate tag.
type tagParser struct {
	raw    string
	i      int
	span   TagSpan
	source string
}

// parseTag applies the strict grammar to a candidate span. source is only used to build error context.
func parseTag(span TagSpan, source string) (Tag, error) {
	p := &tagParser{raw: span.Raw, i: len("<load"), span: span, source: source}

	if !p.skipSpace() {
		return Tag{}, p.fail("", "expected whitespace and a path attribute after <load")
	}
	path, err := p.attr("path")
	if err != nil {
		return Tag{}, err
	}
	tag := Tag{Path: path, Span: span}

	hadSpace := p.skipSpace()
	if hadSpace && strings.HasPrefix(p.raw[p.i:], "marker") {
		marker, err := p.attr("marker")
		if err != nil {
			return Tag{}, err
		}
		tag.Marker = marker
		p.skipSpace()
	}

	if p.i < len(p.raw) && p.raw[p.i] == '/' {
		p.i++
		p.skipSpace()
	}
	if p.raw[p.i:] != ">" {
		return Tag{}, p.fail(nextAttrName(p.raw[p.i:]), "unexpected text "+quoteSnippet(p.raw[p.i:])+" before end of tag")
	}
	return tag, nil
}

// skipSpace advances past spaces and tabs, reporting whether any were skipped.
func (p *tagParser) skipSpace() bool {
	start := p.i
	for p.i < len(p.raw) && (p.raw[p.i] == ' ' || p.raw[p.i] == '\t') {
		p.i++
	}
	return p.i > start
}

// attr parses name='value'. Values must be single-quoted and non-empty.
func (p *tagParser) attr(name string) (string, error) {
	rest := p.raw[p.i:]
	if !strings.HasPrefix(rest, name) {
		if got := nextAttrName(rest); got != "" {
			return "", p.fail(got, "expected attribute '"+name+"'")
		}
		return "", p.fail(name, "missing attribute")
	}
	p.i += len(name)
	if p.i >= len(p.raw) || p.raw[p.i] != '=' {
		return "", p.fail(name, "expected '=' after attribute name")
	}
	p.i++
	if p.i >= len(p.raw) || p.raw[p.i] != '\'' {
		if p.i < len(p.raw) && p.raw[p.i] == '"' {
			return "", p.fail(name, "value must be single-quoted, not double-quoted")
		}
		return "", p.fail(name, "value must be single-quoted")
	}
	p.i++
	end := strings.IndexByte(p.raw[p.i:], '\'')
	if end < 0 {
		return "", p.fail(name, "unterminated value")
	}
	value := p.raw[p.i : p.i+end]
	p.i += end + 1
	if value == "" {
		return "", p.fail(name, "value must not be empty")
	}
	// Marker directives name the marker with a single token.
	if name == "marker" && strings.ContainsAny(value, " \t") {
		return "", p.fail(name, "value must not contain whitespace")
	}
	return value, nil
}

func (p *tagParser) fail(attribute, message string) error {
	return NewIncorrectTagError(p.span.Pos, p.span.Raw, attribute, message, p.source)
}

// nextAttrName returns the identifier that starts s, if s looks like "name=...".
func nextAttrName(s string) string {
	eq := strings.IndexByte(s, '=')
	if eq <= 0 {
		return ""
	}
	name := s[:eq]
	if strings.ContainsAny(name, " \t/>'\"") {
		return ""
	}
	return name
}

func quoteSnippet(s string) string {
	s = strings.TrimSuffix(s, ">")
	if len(s) > 20 {
		s = s[:20] + "..."
	}
	return "'" + s + "'"
}
