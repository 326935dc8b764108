package strinject

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Errors_Should_Match_Their_Sentinel_Only(t *testing.T) {
	tagErr := NewIncorrectTagError(Position{Line: 1, Column: 1}, "<load>", "", "bad", "<load>")
	pathErr := &IncorrectPathError{Path: "x", Err: fs.ErrNotExist}
	markerErr := &IncorrectMarkerError{Marker: "M", FilePath: "f"}

	assert.True(t, errors.Is(tagErr, ErrIncorrectTag))
	assert.False(t, errors.Is(tagErr, ErrIncorrectPath))
	assert.True(t, errors.Is(pathErr, ErrIncorrectPath))
	assert.False(t, errors.Is(pathErr, ErrIncorrectMarker))
	assert.True(t, errors.Is(markerErr, ErrIncorrectMarker))
	assert.False(t, errors.Is(markerErr, ErrIncorrectTag))
}

func Test_IncorrectPathError_Should_Unwrap_Loader_Error(t *testing.T) {
	_, err := Inject("<load path='testdata/nope.txt' />")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), `incorrect path "testdata/nope.txt"`)
}

func Test_IncorrectTagError_Should_Point_At_The_Tag(t *testing.T) {
	src := "line one\nline two\n  <load path=\"a\" />\nline four\n"
	_, err := Inject(src)
	errs := injectErrors(t, err)

	var tagErr *IncorrectTagError
	require.True(t, errors.As(errs[0], &tagErr))
	assert.Equal(t, Position{Line: 3, Column: 3}, tagErr.Pos)
	assert.Equal(t, "path", tagErr.Attribute)
	assert.Contains(t, tagErr.Context, "-> 3:   <load path=\"a\" />")
	assert.Contains(t, tagErr.Context, "   2: line two")
	assert.Contains(t, tagErr.Error(), "line 3, column 3")
	assert.Contains(t, tagErr.Error(), "single-quoted")
}

func Test_IncorrectTagError_Should_Align_Caret_With_Wide_Line_Numbers(t *testing.T) {
	src := strings.Repeat("text\n", 9) + "ab <load path=\"a\" />\n" + "end\n"
	_, err := Inject(src)
	errs := injectErrors(t, err)

	var tagErr *IncorrectTagError
	require.True(t, errors.As(errs[0], &tagErr))
	assert.Equal(t, Position{Line: 10, Column: 4}, tagErr.Pos)

	lines := strings.Split(tagErr.Context, "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "    8: text", lines[0])
	assert.Equal(t, "-> 10: ab <load path=\"a\" />", lines[2])
	caret := strings.Index(lines[3], "^")
	assert.Equal(t, strings.Index(lines[2], "<load"), caret)
}

func Test_InjectError_Should_Combine_Messages(t *testing.T) {
	err := &InjectError{Errors: []error{
		&IncorrectPathError{Path: "a"},
		&IncorrectMarkerError{Marker: "M", FilePath: "b"},
	}}
	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "strinject: 2 error(s): "))
	assert.Contains(t, msg, `incorrect path "a"; incorrect marker "M": no region found in "b"`)

	var markerErr *IncorrectMarkerError
	require.True(t, errors.As(err, &markerErr))
	assert.Equal(t, "b", markerErr.FilePath)
}
