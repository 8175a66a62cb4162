package todo

import "sync"

// Alert messages shown to the user.
const (
	MsgInvalidTitle   = "Please enter a valid title"
	MsgSelectToUpdate = "Please select an item to update"
	MsgSelectToDelete = "Please select an item to delete"
	MsgAddFailed      = "Error adding item"
	MsgUpdateFailed   = "Error updating item"
	MsgDeleteFailed   = "Error deleting item"
)

const msgDeletedItemPrefix = "Deleted item: "

// DeletedMessage is the confirmation shown after a record is deleted.
func DeletedMessage(title string) string {
	return msgDeletedItemPrefix + title
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(message string)
}

// AlerterFunc adapts a function to the Alerter interface.
type AlerterFunc func(message string)

// Alert calls f(message).
func (f AlerterFunc) Alert(message string) {
	f(message)
}

// AlertQueue collects alerts so a UI loop can display them one at a time.
type AlertQueue struct {
	mu      sync.Mutex
	pending []string
}

// Alert appends a message to the queue.
func (q *AlertQueue) Alert(message string) {
	q.mu.Lock()
	q.pending = append(q.pending, message)
	q.mu.Unlock()
}

// Drain returns and removes all queued messages.
func (q *AlertQueue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}
