package strinject

import (
	"io/fs"
	"os"
	"path"
	"strings"
)

// Loader reads the file behind a load tag.
type Loader interface {
	Load(path string) (string, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) (string, error)

func (f LoaderFunc) Load(path string) (string, error) { return f(path) }

// OSLoader returns a Loader that reads from the operating system's filesystem. Relative paths are resolved
// against the working directory of the process.
func OSLoader() Loader {
	return LoaderFunc(func(name string) (string, error) {
		b, err := os.ReadFile(name)
		if err != nil {
			return "", err
		}
		return string(b), nil
	})
}

// FSLoader returns a Loader that reads from fsys. Paths are cleaned with path.Clean first, so "./a.txt"
// loads "a.txt".
func FSLoader(fsys fs.FS) Loader {
	return LoaderFunc(func(name string) (string, error) {
		b, err := fs.ReadFile(fsys, path.Clean(name))
		if err != nil {
			return "", err
		}
		return string(b), nil
	})
}

// resolve produces the text that replaces tag, or an error. On error the replacement is always empty.
func (e *Engine) resolve(tag Tag) (string, error) {
	resolved := e.pathMap(tag.Path)
	content, err := e.loader.Load(resolved)
	if err != nil {
		return "", &IncorrectPathError{Path: resolved, Err: err}
	}
	content = normalizeNewlines(content)

	if tag.Marker == "" {
		return wholeFile(content), nil
	}

	regions := ExtractMarker(content, tag.Marker)
	if len(regions) == 0 {
		return "", &IncorrectMarkerError{Marker: tag.Marker, FilePath: tag.Path}
	}
	var sb strings.Builder
	for _, r := range regions {
		sb.WriteString(r)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// wholeFile returns content without its marker lines, ending with a newline unless empty.
func wholeFile(content string) string {
	out := StripMarkerLines(content)
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}
