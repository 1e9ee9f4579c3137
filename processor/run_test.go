package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sghaida/assistfactory/symbol"
)

func generatedIDs(gs []Generated) []string {
	out := make([]string, 0, len(gs))
	for _, g := range gs {
		out = append(out, g.Identity)
	}
	return out
}

func TestRun_SingleRound(t *testing.T) {
	t.Parallel()

	h := newHarness()
	sum, err := h.processor().Run(context.Background(), h.processed, 0)
	require.NoError(t, err)

	assert.Equal(t, h.processed.Session(), sum.Session)
	assert.Equal(t, 1, sum.Rounds)
	assert.Equal(t, []string{implName}, generatedIDs(sum.Generated))
	assert.Empty(t, sum.Unresolved)
}

func TestRun_ResolvesGeneratedTypesInLaterRounds(t *testing.T) {
	t.Parallel()

	// The consumer needs the factory generated for Impl, which does not exist
	// until round one emits it. Where the consumer sorts relative to Impl must
	// not change the outcome: a type generated in a round is never visible to
	// the same round.
	tests := []struct {
		name     string
		consumer string
	}{
		{name: "consumer_sorts_before_producer", consumer: "com.example.Consumer"},
		{name: "consumer_sorts_after_producer", consumer: "com.example.Zconsumer"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			setup := func() *harness {
				h := newHarness()
				factoryName := pkg + ".Impl_AssistedFactory"
				h.table.Reserve(factoryName)
				consumer := h.another(tt.consumer)
				consumer.Constructors[0].Parameters = append(consumer.Constructors[0].Parameters, injectedParam("factory", factoryName))
				return h
			}

			first := setup()
			res, err := first.processor().ProcessRound(first.table.Annotated(testMarkers.Contributes), first.processed)
			require.NoError(t, err)
			assert.Equal(t, []string{implName}, generatedIDs(res.Generated), "round one")
			require.Len(t, res.Deferred, 1)
			assert.Equal(t, tt.consumer, res.Deferred[0].QualifiedName)

			h := setup()
			sum, err := h.processor().Run(context.Background(), h.processed, 0)
			require.NoError(t, err)

			assert.Equal(t, 2, sum.Rounds)
			assert.ElementsMatch(t, []string{implName, tt.consumer}, generatedIDs(sum.Generated))
			assert.Empty(t, sum.Unresolved)
			assert.Empty(t, h.sink.Errors())
		})
	}
}

func TestRun_StopsWhenNothingChanges(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.table.Reserve("com.example.Never")
	h.impl.Supertypes = append(h.impl.Supertypes, symbol.Ref("com.example.Never"))
	core, logs := observer.New(zapcore.InfoLevel)

	sum, err := h.processor(WithLogger(zap.New(core))).Run(context.Background(), h.processed, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Rounds)
	assert.Empty(t, sum.Generated)
	require.Len(t, sum.Unresolved, 1)
	assert.Equal(t, implName, sum.Unresolved[0].QualifiedName)
	assert.Empty(t, h.sink.Errors(), "unresolved at end of session is not an error")
	assert.Equal(t, 1, logs.FilterMessage("declarations left unresolved at end of session").Len())
}

func TestRun_MaxRounds(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.table.Reserve("com.example.Never")
	h.impl.Supertypes = append(h.impl.Supertypes, symbol.Ref("com.example.Never"))

	sum, err := h.processor().Run(context.Background(), h.processed, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Rounds)
	assert.Len(t, sum.Unresolved, 1)
}

func TestRun_AbortRound(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.broken("com.example.Bad") // sorts before Impl

	sum, err := h.processor().Run(context.Background(), h.processed, 0)
	require.ErrorIs(t, err, ErrRoundAborted)
	assert.True(t, sum.Aborted)
	assert.Empty(t, sum.Generated)
	assert.Len(t, sum.Failures, 1)
}

func TestRun_IsolateFailures(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.broken("com.example.Bad")

	sum, err := h.processor(WithFailurePolicy(IsolateFailures)).Run(context.Background(), h.processed, 0)
	require.NoError(t, err)
	assert.False(t, sum.Aborted)
	assert.Equal(t, []string{implName}, generatedIDs(sum.Generated))
	assert.Len(t, sum.Failures, 1)
}

func TestRun_EmitError(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.emitter.failOn = "Impl_AssistedFactory"

	_, err := h.processor().Run(context.Background(), h.processed, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errEmit))
}

func TestRun_ContextCancelled(t *testing.T) {
	t.Parallel()

	h := newHarness()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := h.processor().Run(ctx, h.processed, 0)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sum.Rounds)
	assert.Empty(t, h.emitter.emitted)
}
