package processor

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sghaida/assistfactory/artifact"
	"github.com/sghaida/assistfactory/diag"
	"github.com/sghaida/assistfactory/metrics"
	"github.com/sghaida/assistfactory/symbol"
)

// Emitter persists synthesized artifacts.
type Emitter interface {
	Emit(a artifact.Artifact) error
}

// Flusher is implemented by emitters that hold back part of their effect until
// the round is over. Run calls Flush after every round that completes, so what
// a round emits is visible to the next round and never to the same one.
type Flusher interface {
	Flush() error
}

// FailurePolicy decides what a validation failure does to the rest of a round.
type FailurePolicy int

const (
	// AbortRound reports the failure and stops the round. Candidates not yet
	// visited are dropped, and so is anything already deferred this round.
	AbortRound FailurePolicy = iota
	// IsolateFailures reports the failure and keeps going, so one bad
	// declaration does not block independent ones.
	IsolateFailures
)

func (p FailurePolicy) String() string {
	if p == IsolateFailures {
		return "isolate"
	}
	return "abort-round"
}

// ParseFailurePolicy is the inverse of FailurePolicy.String.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "", "abort-round":
		return AbortRound, nil
	case "isolate":
		return IsolateFailures, nil
	default:
		return 0, fmt.Errorf("processor: unknown failure policy %q (want abort-round|isolate)", s)
	}
}

// Option configures a Processor.
type Option func(*Processor)

// WithMarkers overrides the annotation names (empty fields keep their defaults).
func WithMarkers(m Markers) Option { return func(p *Processor) { p.markers = m.withDefaults() } }

// WithFailurePolicy sets the round containment policy. The default is AbortRound.
func WithFailurePolicy(fp FailurePolicy) Option { return func(p *Processor) { p.policy = fp } }

// WithLogger sets the logger for tracing. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics records counters on r.
func WithMetrics(r *metrics.Recorder) Option { return func(p *Processor) { p.metrics = r } }

// Processor runs rounds over a symbol source.
type Processor struct {
	source  symbol.Source
	emitter Emitter
	sink    diag.Sink

	markers Markers
	policy  FailurePolicy
	logger  *zap.Logger
	metrics *metrics.Recorder
}

// New returns a processor. source, emitter and sink are required.
func New(source symbol.Source, emitter Emitter, sink diag.Sink, opts ...Option) *Processor {
	p := &Processor{
		source:  source,
		emitter: emitter,
		sink:    sink,
		markers: DefaultMarkers(),
		policy:  AbortRound,
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Markers returns the annotation names in effect.
func (p *Processor) Markers() Markers { return p.markers }

// Generated is one declaration whose artifacts were emitted.
type Generated struct {
	Identity string
	Factory  artifact.Artifact
	Module   artifact.Artifact
}

// RoundResult is what one round produced.
type RoundResult struct {
	Generated []Generated
	// Deferred should be offered again next round.
	Deferred []*symbol.Declaration
	Failures []*ValidationError
	// Skipped counts candidates already in the ProcessedSet.
	Skipped int
	// Aborted is set when a failure stopped the round under AbortRound.
	Aborted bool
}

// ProcessRound handles one round of candidates:
//
//  1. candidates already in processed are skipped
//  2. candidates referencing a type that does not resolve yet are deferred
//  3. the rest are validated; valid ones are synthesized, both artifacts
//     emitted, and their identity added to processed
//
// A validation failure is reported to the sink once, then handled per the
// FailurePolicy. An emitter error stops the round and is returned; it is not a
// validation failure.
func (p *Processor) ProcessRound(candidates []*symbol.Declaration, processed *ProcessedSet) (RoundResult, error) {
	p.metrics.Round()
	validator := NewValidator(p.source, p.markers)

	var res RoundResult
	for _, decl := range candidates {
		id := decl.QualifiedName
		if processed.Has(id) {
			res.Skipped++
			continue
		}

		ann, ok := decl.Annotations.Find(p.markers.Contributes)
		if !ok {
			p.logger.Debug("candidate does not carry the marker", zap.String("declaration", id))
			continue
		}

		if unresolved := p.unresolvedTypes(decl, ann); len(unresolved) > 0 {
			p.sink.Info("Deferring processing of "+decl.Name()+": unresolved types: ["+strings.Join(unresolved, ", ")+"]",
				zap.String("declaration", id),
				zap.Strings("unresolved", unresolved),
			)
			p.metrics.Deferred()
			res.Deferred = append(res.Deferred, decl)
			continue
		}

		plan, err := validator.Validate(ann, decl)
		if err != nil {
			verr, _ := AsValidationError(err)
			p.sink.Error(verr.Node, verr.Message)
			p.metrics.Failure(verr.Kind.String())
			res.Failures = append(res.Failures, verr)

			if p.policy == AbortRound {
				p.metrics.Aborted()
				res.Aborted = true
				res.Deferred = nil
				return res, nil
			}
			continue
		}

		factory, module := Synthesize(plan, p.markers)
		if err := p.emitter.Emit(factory); err != nil {
			return res, fmt.Errorf("processor: emit %s: %w", factory.QualifiedName(), err)
		}
		if err := p.emitter.Emit(module); err != nil {
			return res, fmt.Errorf("processor: emit %s: %w", module.QualifiedName(), err)
		}

		processed.Add(id)
		p.metrics.Generated()
		res.Generated = append(res.Generated, Generated{Identity: id, Factory: factory, Module: module})
		p.logger.Info("generated assisted factory",
			zap.String("declaration", id),
			zap.String("factory", factory.QualifiedName()),
			zap.String("module", module.QualifiedName()),
		)
	}
	return res, nil
}

// unresolvedTypes checks every constructor parameter type, the bound type
// reference and every supertype of decl.
func (p *Processor) unresolvedTypes(decl *symbol.Declaration, ann symbol.Annotation) []string {
	var out []string
	check := func(what string, ref symbol.TypeRef) {
		if r := p.source.Resolve(ref); !r.Resolvable() {
			out = append(out, what+": "+ref.String()+" ("+r.State.String()+")")
		}
	}

	for _, c := range decl.Constructors {
		for _, param := range c.Parameters {
			check("constructor parameter "+param.Name, param.Type)
		}
	}
	if bound, ok := ann.TypeArg(ArgBoundType); ok {
		check("bound type", bound)
	}
	for _, st := range decl.Supertypes {
		check("supertype", st)
	}
	return out
}
