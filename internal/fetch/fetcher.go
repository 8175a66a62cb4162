package fetch

import (
	"context"

	"go.uber.org/zap"

	"github.com/muurk/todolist/internal/collection"
	"github.com/muurk/todolist/internal/logging"
)

// Lister lists the records of a collection.
type Lister interface {
	List(ctx context.Context) ([]collection.Record, error)
}

// Fetcher runs list fetches against a Lister and records them in a State.
// Creating a Fetcher does not fetch; callers Refresh on mount.
type Fetcher struct {
	lister Lister
	state  *State
}

// NewFetcher creates a fetcher with a fresh State.
func NewFetcher(lister Lister) *Fetcher {
	return &Fetcher{lister: lister, state: NewState()}
}

// Refresh performs one GET and blocks until it completes.
// The returned error is the fetch error, which is also kept in the snapshot.
// A result superseded by a newer Refresh is dropped and reported as nil.
func (f *Fetcher) Refresh(ctx context.Context) error {
	token := f.state.Begin()

	records, err := f.lister.List(ctx)
	if !f.state.Resolve(token, records, err) {
		logging.Warn("Discarding stale fetch result",
			zap.Uint64("token", uint64(token)),
			zap.Bool("failed", err != nil),
		)
		return nil
	}

	if err != nil {
		logging.Debug("Fetch failed", zap.Error(err))
	}
	return err
}

// Snapshot returns the current fetch state.
func (f *Fetcher) Snapshot() Snapshot {
	return f.state.Snapshot()
}

// State exposes the underlying state.
func (f *Fetcher) State() *State {
	return f.state
}
