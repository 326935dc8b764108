package strinject

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, source string) (Tag, error) {
	t.Helper()
	spans := FindTags(source)
	require.Len(t, spans, 1)
	return parseTag(spans[0], source)
}

func Test_FindTags(t *testing.T) {
	t.Run("should find tags left to right with their positions", func(t *testing.T) {
		src := "intro\n  <load path='a.txt' />\ntext <load path='b.txt' marker='M' /> more\n"
		spans := FindTags(src)
		require.Len(t, spans, 2)
		assert.Equal(t, Position{Line: 2, Column: 3}, spans[0].Pos)
		assert.Equal(t, "<load path='a.txt' />", spans[0].Raw)
		assert.Equal(t, Position{Line: 3, Column: 6}, spans[1].Pos)
		assert.Equal(t, src[spans[1].Start:spans[1].End], spans[1].Raw)
	})

	t.Run("should count malformed tags too", func(t *testing.T) {
		src := "<load path=\"a\" />\n<load>\n<load path='b' />"
		assert.Equal(t, 3, CountTags(src))
	})

	t.Run("should count anything starting with <load, even without a space", func(t *testing.T) {
		assert.Equal(t, 1, CountTags("<loader path='a' /> <lo path='b'/>"))
		assert.Equal(t, 1, CountTags("x\n<loadpath='a.txt' />\ny\n"))
	})

	t.Run("should not count tags split over lines", func(t *testing.T) {
		assert.Equal(t, 0, CountTags("<load path='a'\n/>"))
	})

	t.Run("should not end a tag on a '>' inside a quoted value", func(t *testing.T) {
		spans := FindTags("<load path='a.txt' marker='x>y' /> tail")
		require.Len(t, spans, 1)
		assert.Equal(t, "<load path='a.txt' marker='x>y' />", spans[0].Raw)
	})

	t.Run("should still end an unterminated value on the next '>'", func(t *testing.T) {
		spans := FindTags("<load path='a.txt /> tail")
		require.Len(t, spans, 1)
		assert.Equal(t, "<load path='a.txt />", spans[0].Raw)
	})

	t.Run("should find two tags on the same line", func(t *testing.T) {
		assert.Equal(t, 2, CountTags("<load path='a' /><load path='b' />"))
	})
}

func Test_ParseTag(t *testing.T) {
	t.Run("should parse a tag with path and marker", func(t *testing.T) {
		tag, err := parseOne(t, "<load path='docs/a.go' marker='Example' />")
		require.NoError(t, err)
		assert.Equal(t, "docs/a.go", tag.Path)
		assert.Equal(t, "Example", tag.Marker)
	})

	t.Run("should parse a whole-file tag", func(t *testing.T) {
		tag, err := parseOne(t, "<load path='a.txt' />")
		require.NoError(t, err)
		assert.Equal(t, "a.txt", tag.Path)
		assert.Empty(t, tag.Marker)
	})

	t.Run("should accept a '>' inside a quoted value", func(t *testing.T) {
		tag, err := parseOne(t, "<load path='a.txt' marker='x>y' />")
		require.NoError(t, err)
		assert.Equal(t, "x>y", tag.Marker)
	})

	t.Run("should accept tags without self-closing slash or spaces", func(t *testing.T) {
		for _, src := range []string{"<load path='a'>", "<load path='a'/>", "<load\tpath='a'\tmarker='b'/>"} {
			_, err := parseOne(t, src)
			assert.NoError(t, err, src)
		}
	})

	malformed := []struct {
		name      string
		src       string
		attribute string
	}{
		{"double-quoted marker", `<load path='a' marker="M" />`, "marker"},
		{"double-quoted path", `<load path="a" />`, "path"},
		{"missing path", `<load marker='M' />`, "marker"},
		{"bare tag", `<load />`, "path"},
		{"no attributes", `<load>`, ""},
		{"empty path", `<load path='' />`, "path"},
		{"empty marker", `<load path='a' marker='' />`, "marker"},
		{"marker before path", `<load marker='M' path='a' />`, "marker"},
		{"unknown attribute", `<load path='a' lines='1-3' />`, "lines"},
		{"unterminated value", `<load path='a />`, "path"},
		{"missing separator", `<load path='a'marker='M' />`, "marker"},
		{"missing space after load", `<loadpath='a.txt' />`, ""},
		{"other tag name", `<loader path='a.txt' />`, ""},
		{"marker with whitespace", `<load path='a' marker='a b' />`, "marker"},
		{"marker with tab", "<load path='a' marker='a\tb' />", "marker"},
	}
	for _, tc := range malformed {
		t.Run("should reject "+tc.name, func(t *testing.T) {
			_, err := parseOne(t, tc.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrIncorrectTag))

			var tagErr *IncorrectTagError
			require.True(t, errors.As(err, &tagErr))
			assert.Equal(t, tc.attribute, tagErr.Attribute)
			assert.Equal(t, tc.src, tagErr.Tag)
			assert.Equal(t, Position{Line: 1, Column: 1}, tagErr.Pos)
		})
	}
}
