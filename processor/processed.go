package processor

import (
	"sort"

	"github.com/google/uuid"
)

// ProcessedSet records which declarations were generated in one build session.
// It is never persisted; start each session with NewProcessedSet or Reset.
type ProcessedSet struct {
	session uuid.UUID
	ids     map[string]struct{}
}

// NewProcessedSet starts an empty set for a new session.
func NewProcessedSet() *ProcessedSet {
	return &ProcessedSet{session: uuid.New(), ids: map[string]struct{}{}}
}

// Session identifies the build session the set belongs to.
func (s *ProcessedSet) Session() uuid.UUID { return s.session }

// Has reports whether id was already generated this session.
func (s *ProcessedSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Add records id and reports whether it was new.
func (s *ProcessedSet) Add(id string) bool {
	if s.Has(id) {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Len returns the number of recorded identities.
func (s *ProcessedSet) Len() int { return len(s.ids) }

// IDs returns the recorded identities, sorted.
func (s *ProcessedSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Reset clears the set and starts a new session.
func (s *ProcessedSet) Reset() {
	s.session = uuid.New()
	s.ids = map[string]struct{}{}
}
