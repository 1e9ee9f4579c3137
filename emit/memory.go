package emit

import (
	"sync"

	"github.com/sghaida/assistfactory/artifact"
	"github.com/sghaida/assistfactory/symbol"
)

// Memory keeps every emitted artifact in order.
type Memory struct {
	mu        sync.Mutex
	artifacts []artifact.Artifact
}

// Emit implements Emitter.
func (m *Memory) Emit(a artifact.Artifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artifacts = append(m.artifacts, a)
	return nil
}

// Artifacts returns a copy of what was emitted.
func (m *Memory) Artifacts() []artifact.Artifact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]artifact.Artifact(nil), m.artifacts...)
}

// Feedback defines emitted artifacts in a table, so a type generated in round
// N resolves in round N+1. Emit only queues; Flush, called between rounds,
// applies the queue.
type Feedback struct {
	table *symbol.Table

	mu      sync.Mutex
	pending []*symbol.Declaration
}

// NewFeedback returns an emitter that feeds t.
func NewFeedback(t *symbol.Table) *Feedback { return &Feedback{table: t} }

// Emit implements Emitter.
func (f *Feedback) Emit(a artifact.Artifact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, a.Declaration())
	return nil
}

// Pending returns the number of queued definitions.
func (f *Feedback) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// Flush defines every queued artifact in the table.
func (f *Feedback) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.pending {
		f.table.Define(d)
	}
	f.pending = nil
	return nil
}

// Multi emits to each emitter in order and stops at the first error.
type Multi []Emitter

// Emit implements Emitter.
func (m Multi) Emit(a artifact.Artifact) error {
	for _, e := range m {
		if err := e.Emit(a); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes every member that holds output until the end of a round.
func (m Multi) Flush() error {
	for _, e := range m {
		f, ok := e.(interface{ Flush() error })
		if !ok {
			continue
		}
		if err := f.Flush(); err != nil {
			return err
		}
	}
	return nil
}
