// Package diag carries diagnostics from the processor to whoever runs it.
//
// Errors are anchored to the symbol they concern; informational messages
// (deferral tracing) are free text with optional structured fields.
package diag

import (
	"go.uber.org/zap"

	"github.com/sghaida/assistfactory/symbol"
)

// Sink accepts diagnostics.
type Sink interface {
	Error(node symbol.Node, msg string)
	Info(msg string, fields ...zap.Field)
}

// Severity of a recorded diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "info"
}

// Diagnostic is one recorded message.
type Diagnostic struct {
	Severity Severity
	Node     symbol.Node
	Message  string
}

func (d Diagnostic) String() string {
	if d.Severity == SeverityError {
		return "error: " + d.Node.String() + ": " + d.Message
	}
	return "info: " + d.Message
}

// Recorder keeps every diagnostic in order. Fields on info messages are dropped.
type Recorder struct {
	All []Diagnostic
}

// Error implements Sink.
func (r *Recorder) Error(node symbol.Node, msg string) {
	r.All = append(r.All, Diagnostic{Severity: SeverityError, Node: node, Message: msg})
}

// Info implements Sink.
func (r *Recorder) Info(msg string, _ ...zap.Field) {
	r.All = append(r.All, Diagnostic{Severity: SeverityInfo, Message: msg})
}

// Errors returns only error diagnostics.
func (r *Recorder) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.All {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// ZapSink logs diagnostics and counts errors.
type ZapSink struct {
	logger *zap.Logger
	errors int
}

// NewZapSink returns a sink writing to logger (nop when nil).
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger}
}

// Error implements Sink.
func (s *ZapSink) Error(node symbol.Node, msg string) {
	s.errors++
	s.logger.Error(msg,
		zap.String("node", node.Path),
		zap.String("pos", node.Pos.String()),
	)
}

// Info implements Sink.
func (s *ZapSink) Info(msg string, fields ...zap.Field) {
	s.logger.Info(msg, fields...)
}

// ErrorCount returns how many errors were reported.
func (s *ZapSink) ErrorCount() int { return s.errors }

// Tee fans out to several sinks.
type Tee []Sink

// Error implements Sink.
func (t Tee) Error(node symbol.Node, msg string) {
	for _, s := range t {
		s.Error(node, msg)
	}
}

// Info implements Sink.
func (t Tee) Info(msg string, fields ...zap.Field) {
	for _, s := range t {
		s.Info(msg, fields...)
	}
}

var (
	_ Sink = (*Recorder)(nil)
	_ Sink = (*ZapSink)(nil)
	_ Sink = Tee(nil)
)
