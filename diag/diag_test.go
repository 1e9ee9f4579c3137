package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sghaida/assistfactory/symbol"
)

var node = symbol.Node{Pos: symbol.Pos{File: "m.yaml", Line: 3}, Path: "com.x.Impl"}

func TestRecorder(t *testing.T) {
	t.Parallel()

	var r Recorder
	r.Info("deferring", zap.String("declaration", "com.x.Impl"))
	r.Error(node, "boom")

	require.Len(t, r.All, 2)
	assert.Equal(t, "info: deferring", r.All[0].String())
	assert.Equal(t, "error: m.yaml:3: com.x.Impl: boom", r.All[1].String())

	errs := r.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, SeverityError, errs[0].Severity)
	assert.Equal(t, node, errs[0].Node)
}

func TestZapSink_LogsAndCounts(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	s := NewZapSink(zap.New(core))

	s.Info("deferring", zap.Strings("unresolved", []string{"a.B"}))
	s.Error(node, "boom")
	s.Error(node, "bang")

	assert.Equal(t, 2, s.ErrorCount())
	require.Equal(t, 3, logs.Len())

	entries := logs.All()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, []interface{}{"a.B"}, entries[0].ContextMap()["unresolved"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].Message)
	assert.Equal(t, "com.x.Impl", entries[1].ContextMap()["node"])
	assert.Equal(t, "m.yaml:3", entries[1].ContextMap()["pos"])
}

func TestZapSink_NilLogger(t *testing.T) {
	t.Parallel()

	s := NewZapSink(nil)
	s.Error(node, "x")
	assert.Equal(t, 1, s.ErrorCount())
}

func TestTee(t *testing.T) {
	t.Parallel()

	var a, b Recorder
	tee := Tee{&a, &b}
	tee.Info("i")
	tee.Error(node, "e")

	assert.Len(t, a.All, 2)
	assert.Equal(t, a.All, b.All)
}
