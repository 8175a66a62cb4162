// Package fetch tracks the state of the list fetch shown by the client.
//
// A State exposes a Snapshot of {Data, Loading, Err}. Each fetch is started
// with Begin, which returns a sequence token, and finished with Resolve.
// Only the most recently started fetch may change the snapshot: a slower,
// older fetch that finishes later is discarded.
//
//	f := fetch.NewFetcher(client)
//	if err := f.Refresh(ctx); err != nil {
//	    // the error is also stored in f.Snapshot().Err
//	}
//	snap := f.Snapshot()
package fetch
