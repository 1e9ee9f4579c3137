package processor

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sghaida/assistfactory/symbol"
)

// Summary describes a whole session.
type Summary struct {
	Session   uuid.UUID
	Rounds    int
	Generated []Generated
	Failures  []*ValidationError
	// Unresolved were still deferred when the session ended. They are never
	// generated and never reported as errors.
	Unresolved []*symbol.Declaration
	Aborted    bool
}

// Run drives rounds for one session. Round one offers every annotated
// declaration in the source; each later round offers what the previous one
// deferred. It stops when nothing is deferred, when a round changes nothing,
// after maxRounds (if positive), or when ctx is done.
//
// Generated artifacts only become resolvable in later rounds if the emitter
// feeds them back into the source (see emit.Feedback). An emitter that
// implements Flusher is flushed between rounds.
//
// Run returns ErrRoundAborted when a round stopped under AbortRound, the
// emitter's error if emission failed, or ctx.Err().
func (p *Processor) Run(ctx context.Context, processed *ProcessedSet, maxRounds int) (Summary, error) {
	sum := Summary{Session: processed.Session()}
	candidates := p.source.Annotated(p.markers.Contributes)

	var prevDeferred []string
	for round := 1; len(candidates) > 0; round++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if maxRounds > 0 && round > maxRounds {
			break
		}

		res, err := p.ProcessRound(candidates, processed)
		sum.Rounds = round
		sum.Generated = append(sum.Generated, res.Generated...)
		sum.Failures = append(sum.Failures, res.Failures...)
		sum.Unresolved = res.Deferred
		if err != nil {
			return sum, err
		}
		if res.Aborted {
			sum.Aborted = true
			return sum, ErrRoundAborted
		}
		if f, ok := p.emitter.(Flusher); ok {
			if err := f.Flush(); err != nil {
				return sum, fmt.Errorf("processor: flush round %d: %w", round, err)
			}
		}

		p.logger.Debug("round finished",
			zap.Int("round", round),
			zap.Int("generated", len(res.Generated)),
			zap.Int("deferred", len(res.Deferred)),
			zap.Int("failures", len(res.Failures)),
		)

		deferred := identities(res.Deferred)
		if len(res.Generated) == 0 && slices.Equal(deferred, prevDeferred) {
			break
		}
		prevDeferred = deferred
		candidates = res.Deferred
	}

	if len(sum.Unresolved) > 0 {
		p.logger.Info("declarations left unresolved at end of session",
			zap.Strings("declarations", identities(sum.Unresolved)),
			zap.Int("rounds", sum.Rounds),
		)
	}
	return sum, nil
}

func identities(ds []*symbol.Declaration) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.QualifiedName)
	}
	return out
}
