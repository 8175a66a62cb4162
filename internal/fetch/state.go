package fetch

import (
	"sync"

	"github.com/muurk/todolist/internal/collection"
)

// Token identifies one started fetch.
type Token uint64

// Snapshot is a copy of the fetch state at one instant.
// Data is nil until the first successful fetch. Loading is true from creation
// until the first fetch resolves, and whenever a newer fetch is outstanding.
type Snapshot struct {
	Data    []collection.Record
	Loading bool
	Err     error
}

// HasData reports whether a fetch has ever succeeded.
func (s Snapshot) HasData() bool {
	return s.Data != nil
}

// State holds the fetch snapshot. It is safe for concurrent use.
type State struct {
	mu       sync.Mutex
	data     []collection.Record
	err      error
	latest   Token
	resolved Token
}

// NewState returns an empty state that reports Loading until its first
// fetch resolves.
func NewState() *State {
	return &State{}
}

// Begin marks a fetch as outstanding and returns its token.
// Previous data and error are kept until the fetch resolves.
func (s *State) Begin() Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest++
	return s.latest
}

// Resolve applies the result of the fetch identified by token.
// On success data replaces the previous data wholesale and the error is
// cleared; on failure the error is stored and data is left as it was.
//
// It returns false, and changes nothing, when a newer fetch has been started
// since token was issued.
func (s *State) Resolve(token Token, data []collection.Record, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.latest || token <= s.resolved {
		return false
	}
	s.resolved = token

	if err != nil {
		s.err = err
		return true
	}

	s.data = make([]collection.Record, len(data))
	copy(s.data, data)
	s.err = nil
	return true
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Loading: s.resolved == 0 || s.latest != s.resolved,
		Err:     s.err,
	}
	if s.data != nil {
		snap.Data = make([]collection.Record, len(s.data))
		copy(snap.Data, s.data)
	}
	return snap
}
