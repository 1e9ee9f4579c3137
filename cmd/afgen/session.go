package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/sghaida/assistfactory/config"
	"github.com/sghaida/assistfactory/diag"
	"github.com/sghaida/assistfactory/emit"
	"github.com/sghaida/assistfactory/manifest"
	"github.com/sghaida/assistfactory/metrics"
	"github.com/sghaida/assistfactory/processor"
	"github.com/sghaida/assistfactory/symbol"
)

// sessionResult is everything a subcommand reports after one session.
type sessionResult struct {
	summary     processor.Summary
	diagnostics *diag.Recorder
}

// runSession loads the manifest into a fresh table and runs every round.
// Emitted artifacts go to out and are fed back into the table. A round aborted
// by a validation failure is not returned as an error; the caller inspects the
// summary.
func runSession(ctx context.Context, cfg *config.Config, logger *zap.Logger, out emit.Emitter, rec *metrics.Recorder) (sessionResult, error) {
	table, err := manifest.LoadTable(cfg.Manifest)
	if err != nil {
		return sessionResult{}, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return sessionResult{}, err
	}

	res := sessionResult{diagnostics: &diag.Recorder{}}
	p := processor.New(
		table,
		emit.Multi{out, emit.NewFeedback(table)},
		diag.Tee{diag.NewZapSink(logger), res.diagnostics},
		processor.WithMarkers(cfg.ProcessorMarkers()),
		processor.WithFailurePolicy(policy),
		processor.WithLogger(logger),
		processor.WithMetrics(rec),
	)
	markers := p.Markers()
	table.External(markers.DefaultScope)
	reserveGenerated(table, table.Annotated(markers.Contributes))

	res.summary, err = p.Run(ctx, processor.NewProcessedSet(), cfg.MaxRounds)
	if err != nil && !errors.Is(err, processor.ErrRoundAborted) {
		return res, err
	}
	return res, nil
}

// reserveGenerated marks the names this session will generate as placeholders,
// so a declaration that depends on another one's factory is deferred instead
// of failing.
func reserveGenerated(t *symbol.Table, decls []*symbol.Declaration) {
	for _, d := range decls {
		for _, name := range []string{processor.FactoryName(d), processor.ModuleName(d)} {
			if d.Package != "" {
				name = d.Package + "." + name
			}
			if _, ok := t.Lookup(name); !ok {
				t.Reserve(name)
			}
		}
	}
}

// report prints diagnostics to stderr and a one-line summary to stdout, and
// returns errStructural when anything failed validation.
func (r sessionResult) report(stdout, stderr io.Writer, extra string) error {
	for _, d := range r.diagnostics.Errors() {
		fmt.Fprintln(stderr, d.String())
	}
	for _, d := range r.summary.Unresolved {
		fmt.Fprintf(stdout, "unresolved: %s\n", d.QualifiedName)
	}

	s := r.summary
	fmt.Fprintf(stdout, "afgen: %d generated, %d failed, %d unresolved in %d round(s)%s\n",
		len(s.Generated), len(s.Failures), len(s.Unresolved), s.Rounds, extra)

	if len(s.Failures) > 0 {
		return fmt.Errorf("%w: %d declaration(s)", errStructural, len(s.Failures))
	}
	return nil
}
