package strinject

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Inject replaces every load tag of source with the text it points to. Tag paths are used as declared,
// relative to the working directory.
//
// On failure the returned string is the best-effort output and the error is an *InjectError.
func Inject(source string) (string, error) {
	return NewEngine().Inject(source)
}

// InjectWithPath is like Inject, but every declared path goes through pathMap before the file is read.
func InjectWithPath(source string, pathMap func(string) string) (string, error) {
	return NewEngine(WithPathMap(pathMap)).Inject(source)
}

func NewEngine(opts ...func(*Engine)) *Engine {
	e := &Engine{
		pathMap: identityPath,
		loader:  OSLoader(),
		sink:    EventSinkFunc(func(Event) {}),
		log:     zap.NewNop(),
		policy:  MalformedTagReportEach,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func WithPathMap(pathMap func(string) string) func(*Engine) {
	return func(e *Engine) {
		if pathMap != nil {
			e.pathMap = pathMap
		}
	}
}

// WithBaseDir resolves relative tag paths against dir. Absolute paths are left alone.
func WithBaseDir(dir string) func(*Engine) {
	return WithPathMap(func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	})
}

func WithLoader(l Loader) func(*Engine) {
	return func(e *Engine) {
		if l != nil {
			e.loader = l
		}
	}
}

func WithLogger(log *zap.Logger) func(*Engine) {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

func WithSink(sink EventSink) func(*Engine) {
	return func(e *Engine) {
		if sink != nil {
			e.sink = sink
		}
	}
}

func WithMalformedTagPolicy(p MalformedTagPolicy) func(*Engine) {
	return func(e *Engine) { e.policy = p }
}

func identityPath(p string) string { return p }

// ===== Events =====

type Event interface{ isEvent() }

// TagInjectedEvent is emitted for every tag replaced by its content.
type TagInjectedEvent struct {
	Tag     Tag
	Content string
}

func (TagInjectedEvent) isEvent() {}

// TagFailedEvent is emitted for every tag that could not be injected: malformed, unreadable path, or missing
// marker.
type TagFailedEvent struct {
	Span TagSpan
	Err  error
}

func (TagFailedEvent) isEvent() {}

type EventSink interface {
	OnEvent(ev Event)
}

type EventSinkFunc func(ev Event)

func (f EventSinkFunc) OnEvent(ev Event) { f(ev) }

// ===== Engine =====

// InjectReader reads all of r and injects it. Read errors are returned as is.
func (e *Engine) InjectReader(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("strinject: read source: %w", err)
	}
	return e.Inject(string(b))
}

// Inject replaces every load tag of source with the text it points to.
//
// Every tag is attempted. If any of them fails, the output built so far (failed tags replaced by nothing,
// malformed tags left as is) is returned together with an *InjectError listing path and marker errors in tag
// order, then malformed tag errors. Otherwise residual marker lines are stripped from the output.
func (e *Engine) Inject(source string) (string, error) {
	source = normalizeNewlines(source)
	spans := FindTags(source)

	var (
		out       strings.Builder
		errs      []error
		malformed []error
		injected  int
		last      int
	)
	out.Grow(len(source))
	for _, span := range spans {
		out.WriteString(source[last:span.Start])
		last = span.End

		tag, err := parseTag(span, source)
		if err != nil {
			out.WriteString(span.Raw)
			malformed = append(malformed, err)
			e.log.Warn("malformed load tag", zap.Stringer("pos", span.Pos), zap.Error(err))
			e.sink.OnEvent(TagFailedEvent{Span: span, Err: err})
			continue
		}

		// The tag's own line break goes with it.
		if last < len(source) && source[last] == '\n' {
			last++
		}
		fragment, err := e.resolve(tag)
		if err != nil {
			errs = append(errs, err)
			e.log.Warn("load tag not injected",
				zap.String("path", tag.Path),
				zap.String("marker", tag.Marker),
				zap.Error(err))
			e.sink.OnEvent(TagFailedEvent{Span: span, Err: err})
			continue
		}
		out.WriteString(fragment)
		injected++
		e.log.Debug("load tag injected",
			zap.String("path", tag.Path),
			zap.String("marker", tag.Marker),
			zap.Int("bytes", len(fragment)))
		e.sink.OnEvent(TagInjectedEvent{Tag: tag, Content: fragment})
	}
	out.WriteString(source[last:])

	errs = e.reconcile(errs, malformed, injected, len(spans))

	e.log.Debug("injection done",
		zap.Int("tags", len(spans)),
		zap.Int("injected", injected),
		zap.Int("errors", len(errs)))

	if len(errs) > 0 {
		result := out.String()
		return result, &InjectError{Result: result, Errors: errs}
	}
	return StripMarkerLines(out.String()), nil
}

// reconcile appends malformed tag errors to errs according to the policy. Every span found by the scanner
// must be accounted for as injected, failed, or malformed.
func (e *Engine) reconcile(errs, malformed []error, injected, total int) []error {
	switch e.policy {
	case MalformedTagCoalesce:
		if injected+len(errs) != total {
			errs = append(errs, &IncorrectTagError{ParseError: ParseError{
				Message: fmt.Sprintf("%d of %d load tags do not follow the tag grammar", total-injected-len(errs), total),
			}})
		}
	default:
		errs = append(errs, malformed...)
		if injected+len(errs) != total {
			errs = append(errs, &IncorrectTagError{ParseError: ParseError{
				Message: fmt.Sprintf("%d load tags found but only %d accounted for", total, injected+len(errs)),
			}})
		}
	}
	return errs
}
