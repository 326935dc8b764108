package strinject

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

// Sentinel errors for the three kinds of injection failure. Every error reported by the engine matches
// exactly one of them with errors.Is.
var (
	ErrIncorrectTag    = errors.New("incorrect load tag")
	ErrIncorrectPath   = errors.New("incorrect path")
	ErrIncorrectMarker = errors.New("incorrect marker")
)

// Position represents a position in the source text.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number, in bytes
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// IsValid reports whether the position points somewhere in the source.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// ParseError is the base error type for errors located in the source text.
type ParseError struct {
	Pos     Position // Position where the error occurred
	Message string   // Error message
	Context string   // Surrounding content for context
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s at %s\nContext: %s", e.Message, e.Pos, e.Context)
	}
	return fmt.Sprintf("%s at %s", e.Message, e.Pos)
}

// IncorrectTagError is reported for a load tag that was found in the source but does not follow the strict
// tag grammar (bad quoting, missing path, unknown attribute...).
type IncorrectTagError struct {
	ParseError
	Tag       string // Raw text of the tag; empty when several malformed tags were coalesced
	Attribute string // Offending attribute, if known
}

// Error implements the error interface.
func (e *IncorrectTagError) Error() string {
	if !e.Pos.IsValid() {
		return fmt.Sprintf("incorrect load tag: %s", e.Message)
	}
	if e.Attribute != "" {
		return fmt.Sprintf("incorrect load tag %s at %s: attribute '%s': %s\nContext: %s",
			e.Tag, e.Pos, e.Attribute, e.Message, e.Context)
	}
	return fmt.Sprintf("incorrect load tag %s at %s: %s\nContext: %s",
		e.Tag, e.Pos, e.Message, e.Context)
}

// Is makes errors.Is(err, ErrIncorrectTag) true.
func (e *IncorrectTagError) Is(target error) bool { return target == ErrIncorrectTag }

// IncorrectPathError is reported when the file behind a load tag could not be read.
type IncorrectPathError struct {
	Path string // Resolved path, after the path map was applied
	Err  error  // Underlying loader error
}

// Error implements the error interface.
func (e *IncorrectPathError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("incorrect path %q", e.Path)
	}
	return fmt.Sprintf("incorrect path %q: %v", e.Path, e.Err)
}

func (e *IncorrectPathError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrIncorrectPath) true.
func (e *IncorrectPathError) Is(target error) bool { return target == ErrIncorrectPath }

// IncorrectMarkerError is reported when the requested marker has no region in the loaded file.
type IncorrectMarkerError struct {
	Marker   string // Marker name from the tag
	FilePath string // Path as declared in the tag, before the path map was applied
}

// Error implements the error interface.
func (e *IncorrectMarkerError) Error() string {
	return fmt.Sprintf("incorrect marker %q: no region found in %q", e.Marker, e.FilePath)
}

// Is makes errors.Is(err, ErrIncorrectMarker) true.
func (e *IncorrectMarkerError) Is(target error) bool { return target == ErrIncorrectMarker }

// InjectError is returned when at least one tag could not be injected. Result holds the best-effort output
// built anyway; Errors lists every failure in the order it was encountered.
type InjectError struct {
	Result string
	Errors []error
}

// Error implements the error interface.
func (e *InjectError) Error() string {
	return fmt.Sprintf("strinject: %d error(s): %v", len(e.Errors), multierr.Combine(e.Errors...))
}

// Unwrap exposes every collected error to errors.Is and errors.As.
func (e *InjectError) Unwrap() []error { return e.Errors }

// NewIncorrectTagError creates an IncorrectTagError located in source.
func NewIncorrectTagError(pos Position, tag, attribute, message, source string) *IncorrectTagError {
	return &IncorrectTagError{
		ParseError: ParseError{
			Pos:     pos,
			Message: message,
			Context: extractContext(source, pos),
		},
		Tag:       tag,
		Attribute: attribute,
	}
}

// extractContext renders the lines around pos, two before and two after, with the line of pos marked by
// "->" and its column by a caret. Line numbers are right-aligned so the caret stays under the column.
func extractContext(content string, pos Position) string {
	if content == "" || !pos.IsValid() {
		return ""
	}

	lines := strings.Split(content, "\n")
	if pos.Line > len(lines) {
		return content
	}

	first := max(1, pos.Line-2)
	last := min(len(lines), pos.Line+2)
	width := len(strconv.Itoa(last))

	var sb strings.Builder
	for n := first; n <= last; n++ {
		mark := "  "
		if n == pos.Line {
			mark = "->"
		}
		prefix := fmt.Sprintf("%s %*d: ", mark, width, n)
		sb.WriteString(prefix + lines[n-1] + "\n")

		if n == pos.Line && pos.Column <= len(lines[n-1])+1 {
			sb.WriteString(strings.Repeat(" ", len(prefix)+pos.Column-1) + "^\n")
		}
	}
	return sb.String()
}
