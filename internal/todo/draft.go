package todo

import "sync"

// Draft is the text field's value. It is a local draft: nothing validates it
// here, and the collection endpoint stays the source of truth.
type Draft struct {
	mu    sync.RWMutex
	value string
}

// Value returns the current text.
func (d *Draft) Value() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.value
}

// SetValue replaces the text.
func (d *Draft) SetValue(s string) {
	d.mu.Lock()
	d.value = s
	d.mu.Unlock()
}

// OnChangeText is the change handler for the text field. It is the same as SetValue.
func (d *Draft) OnChangeText(s string) {
	d.SetValue(s)
}

// Clear empties the text.
func (d *Draft) Clear() {
	d.SetValue("")
}
