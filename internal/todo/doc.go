// Package todo holds the client's state and user actions.
//
// A Controller owns the current selection and the text Draft, and runs the
// four user actions:
//
//   - HandleAdd posts the draft as a new record
//   - HandleUpdate puts the draft as the selected record's title
//   - HandleDelete deletes the selected record
//   - HandleSelectItem selects a record and copies its title into the draft
//
// Validation failures (blank title, nothing selected) are reported through an
// Alerter before any request is made. Request failures are logged and
// reported with a generic alert. After every successful mutation the list is
// fetched again.
//
// The same Controller backs the interactive TUI and the one-shot CLI commands.
package todo
