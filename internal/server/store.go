package server

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/muurk/todolist/internal/collection"
)

// IDMode selects how the store assigns record ids
type IDMode string

const (
	// IDSequential assigns "1", "2", ... like mockapi.io
	IDSequential IDMode = "seq"
	// IDUUID assigns random UUIDs
	IDUUID IDMode = "uuid"
)

// ParseIDMode validates an id mode flag value
func ParseIDMode(s string) (IDMode, error) {
	switch IDMode(s) {
	case IDSequential, IDUUID:
		return IDMode(s), nil
	case "":
		return IDSequential, nil
	default:
		return "", fmt.Errorf("unknown id mode %q (want %q or %q)", s, IDSequential, IDUUID)
	}
}

// Store is one in-memory collection. Records keep insertion order.
type Store struct {
	mu      sync.RWMutex
	records []collection.Record
	next    int
	ids     IDMode
}

// NewStore creates an empty store
func NewStore(ids IDMode) *Store {
	if ids == "" {
		ids = IDSequential
	}
	return &Store{ids: ids}
}

// List returns a copy of every record, in insertion order
func (s *Store) List() []collection.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]collection.Record, 0, len(s.records)), s.records...)
}

// Len returns the number of records
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns the record with the given id
func (s *Store) Get(id string) (collection.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.records[i], true
	}
	return collection.Record{}, false
}

// Create appends a record with a fresh id
func (s *Store) Create(title string) collection.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := collection.Record{ID: s.nextID(), Title: title}
	s.records = append(s.records, rec)
	return rec
}

// Update replaces the title of the record with the given id
func (s *Store) Update(id string, title string) (collection.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return collection.Record{}, false
	}
	s.records[i].Title = title
	return s.records[i], true
}

// Delete removes the record with the given id and returns it
func (s *Store) Delete(id string) (collection.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return collection.Record{}, false
	}
	rec := s.records[i]
	s.records = append(s.records[:i], s.records[i+1:]...)
	return rec, true
}

// nextID must be called with mu held. Sequential ids are never reused.
func (s *Store) nextID() string {
	if s.ids == IDUUID {
		return uuid.New().String()
	}
	s.next++
	return strconv.Itoa(s.next)
}

func (s *Store) indexOf(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

// Collections holds one Store per collection name, created on first write
type Collections struct {
	mu     sync.Mutex
	stores map[string]*Store
	ids    IDMode
}

// NewCollections creates an empty set of collections
func NewCollections(ids IDMode) *Collections {
	return &Collections{stores: make(map[string]*Store), ids: ids}
}

// Get returns the named store, creating it when create is set.
// A missing store with create unset returns nil.
func (c *Collections) Get(name string, create bool) *Store {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.stores[name]
	if !ok && create {
		s = NewStore(c.ids)
		c.stores[name] = s
	}
	return s
}

// Sizes returns the record count per collection
func (c *Collections) Sizes() map[string]int {
	c.mu.Lock()
	stores := make(map[string]*Store, len(c.stores))
	for name, s := range c.stores {
		stores[name] = s
	}
	c.mu.Unlock()

	sizes := make(map[string]int, len(stores))
	for name, s := range stores {
		sizes[name] = s.Len()
	}
	return sizes
}
