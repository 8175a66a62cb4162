package todo

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/todolist/internal/collection"
	"github.com/muurk/todolist/internal/fetch"
	"github.com/muurk/todolist/internal/logging"
)

// Store is the remote collection the controller mutates.
// *collection.Client satisfies it.
type Store interface {
	List(ctx context.Context) ([]collection.Record, error)
	Create(ctx context.Context, title string) (*collection.Record, error)
	Update(ctx context.Context, id string, title string) (*collection.Record, error)
	Delete(ctx context.Context, id string) error
}

// Controller owns the selection and draft and runs the user actions.
//
// Each action is one request followed, on success, by a refresh.
// Methods block until the action finishes and are safe for concurrent use.
type Controller struct {
	store   Store
	fetcher *fetch.Fetcher
	alerter Alerter
	draft   Draft

	mu         sync.Mutex
	selected   *collection.Record
	lastFailed bool
	lastErr    error
}

// NewController creates a controller. It does not fetch; call Refresh on mount.
func NewController(store Store, alerter Alerter) *Controller {
	if alerter == nil {
		alerter = AlerterFunc(func(string) {})
	}
	return &Controller{
		store:   store,
		fetcher: fetch.NewFetcher(store),
		alerter: alerter,
	}
}

// Draft returns the input state.
func (c *Controller) Draft() *Draft {
	return &c.draft
}

// Snapshot returns the current fetch state.
func (c *Controller) Snapshot() fetch.Snapshot {
	return c.fetcher.Snapshot()
}

// Selected returns a copy of the selected record, or nil.
func (c *Controller) Selected() *collection.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return nil
	}
	rec := *c.selected
	return &rec
}

// LastError returns the request error behind the most recent failed action.
// It is nil after a success and after validation alerts, which send nothing.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// LastActionFailed reports whether the most recent action ended in an
// error alert. Validation alerts count as failures.
func (c *Controller) LastActionFailed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastFailed
}

// Refresh re-fetches the list. The error is also stored in the snapshot.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.fetcher.Refresh(ctx)
}

// HandleSelectItem selects rec and copies its title into the draft.
func (c *Controller) HandleSelectItem(rec collection.Record) {
	c.mu.Lock()
	c.selected = &rec
	c.mu.Unlock()
	c.draft.SetValue(rec.Title)
}

// HandleAdd creates a record from the draft.
func (c *Controller) HandleAdd(ctx context.Context) {
	title := c.draft.Value()
	if strings.TrimSpace(title) == "" {
		c.fail(MsgInvalidTitle, nil)
		return
	}

	if _, err := c.store.Create(ctx, title); err != nil {
		logging.LogActionFailure("add", err, zap.String("title", title))
		c.fail(MsgAddFailed, err)
		return
	}

	c.draft.Clear()
	c.succeed()
	_ = c.Refresh(ctx)
}

// HandleUpdate replaces the selected record's title with the draft.
func (c *Controller) HandleUpdate(ctx context.Context) {
	selected := c.Selected()
	if selected == nil {
		c.fail(MsgSelectToUpdate, nil)
		return
	}

	title := c.draft.Value()
	if strings.TrimSpace(title) == "" {
		c.fail(MsgInvalidTitle, nil)
		return
	}

	if _, err := c.store.Update(ctx, selected.ID, title); err != nil {
		logging.LogActionFailure("update", err,
			zap.String("id", selected.ID),
			zap.String("title", title),
		)
		c.fail(MsgUpdateFailed, err)
		return
	}

	c.draft.Clear()
	c.clearSelection()
	c.succeed()
	_ = c.Refresh(ctx)
}

// HandleDelete removes the selected record.
func (c *Controller) HandleDelete(ctx context.Context) {
	selected := c.Selected()
	if selected == nil {
		c.fail(MsgSelectToDelete, nil)
		return
	}

	if err := c.store.Delete(ctx, selected.ID); err != nil {
		logging.LogActionFailure("delete", err, zap.String("id", selected.ID))
		c.fail(MsgDeleteFailed, err)
		return
	}

	c.alerter.Alert(DeletedMessage(selected.Title))
	c.clearSelection()
	c.draft.Clear()
	c.succeed()
	_ = c.Refresh(ctx)
}

func (c *Controller) clearSelection() {
	c.mu.Lock()
	c.selected = nil
	c.mu.Unlock()
}

func (c *Controller) fail(message string, err error) {
	c.mu.Lock()
	c.lastFailed = true
	c.lastErr = err
	c.mu.Unlock()
	c.alerter.Alert(message)
}

func (c *Controller) succeed() {
	c.mu.Lock()
	c.lastFailed = false
	c.lastErr = nil
	c.mu.Unlock()
}
