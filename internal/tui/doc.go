// Package tui implements the full-screen terminal client for a todo collection.
//
// Built on Bubble Tea, it follows the Elm architecture: every screen is a
// Model-Update-View value and all network work runs in tea.Cmd goroutines,
// never on the update loop.
//
// # Screens
//
//   - Discovery: browse the local network for collection servers (mDNS) or
//     type a collection URL. Only shown when started with discovery.
//   - Todos: a text input, Add/Update/Delete buttons and the record list.
//
// Both screens share RenderApplicationContainer for the header and the
// context-sensitive help footer.
//
// # Interaction
//
// Tab moves focus around Input → Add → Update → Delete → List. Enter
// activates the focused control; on the input it adds. In the list, ↑/↓ move
// the cursor and Enter selects the record, copying its title into the input.
//
// While an action is in flight further actions and edits are ignored. Alerts
// raised by the controller are shown one at a time in a modal that swallows
// every key until dismissed with enter or esc.
//
// # Live Mode
//
// With Options.Live and an endpoint that advertises a change feed, the client
// subscribes to the feed and refreshes the list after every event.
//
// # Usage Example
//
//	alerts := &todo.AlertQueue{}
//	ctrl := todo.NewController(collection.NewClient(url), alerts)
//	err := tui.Run(ctx, tui.Options{
//	    Session: tui.Session{Controller: ctrl, Alerts: alerts, Endpoint: url},
//	})
package tui
