package strinject

import "go.uber.org/zap"

// MalformedTagPolicy controls how load tags that fail the strict grammar are reported.
type MalformedTagPolicy int

const (
	MalformedTagReportEach MalformedTagPolicy = iota // one IncorrectTagError per malformed tag, with its position
	MalformedTagCoalesce                             // at most one IncorrectTagError per call, without position
)

type Engine struct {
	pathMap func(string) string
	loader  Loader
	sink    EventSink
	log     *zap.Logger
	policy  MalformedTagPolicy
}
