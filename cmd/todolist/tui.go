package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/muurk/todolist/internal/todo"
	"github.com/muurk/todolist/internal/tui"
	"github.com/muurk/todolist/internal/ui"
)

// runTUI opens the interactive list
func runTUI(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal() {
		return fmt.Errorf("the interactive list needs a terminal; use 'todolist ls' in scripts")
	}

	opts := tui.Options{
		Live:    live || registry.Preferences.Live,
		Connect: newSession,
	}

	if discover {
		opts.Discover = true
		opts.ScanTimeout = registry.Preferences.DiscoverDuration()
	} else {
		res, err := resolveEndpoint()
		if err != nil {
			return err
		}
		opts.Session = newSession(res.URL, res.Feed)
	}

	return tui.Run(cmd.Context(), opts)
}

// newSession connects the interactive list to a collection. Alerts are
// queued for the alert modal.
func newSession(url string, feed string) tui.Session {
	alerts := &todo.AlertQueue{}
	return tui.Session{
		Controller: todo.NewController(newClient(url), alerts),
		Alerts:     alerts,
		Endpoint:   url,
		FeedURL:    feed,
	}
}
