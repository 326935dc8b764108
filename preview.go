package strinject

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Preview injects source and returns a line diff from source to the result. When injection fails, the diff
// is computed against the partial output and the *InjectError is returned alongside it.
func (e *Engine) Preview(source string) (string, error) {
	out, err := e.Inject(source)
	return DiffLines(normalizeNewlines(source), out), err
}

// DiffLines renders a line-based diff of before and after. Each line of the result is prefixed by " " (kept),
// "-" (removed) or "+" (added). Identical inputs give "".
func DiffLines(before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	rBefore, rAfter, lineArray := dmp.DiffLinesToRunes(before, after)
	diffs := dmp.DiffMainRunes(rBefore, rAfter, false)
	diffs = dmp.DiffCleanupMerge(diffs)

	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			prefix = " "
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, r := range d.Text {
			idx := int(r)
			if idx < 0 || idx >= len(lineArray) {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(lineArray[idx])
			if !strings.HasSuffix(lineArray[idx], "\n") {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}
