// Package feed carries collection change events over a websocket.
//
// todolist-server publishes one Event per successful create, update or
// delete through a Hub mounted at /ws. Clients call Subscribe to receive the
// events, and typically re-fetch the list on each one:
//
//	err := feed.Subscribe(ctx, "ws://127.0.0.1:8080/ws", func(e feed.Event) {
//	    _ = controller.Refresh(ctx)
//	})
//
// Frames are JSON text messages:
//
//	{"type":"updated","record":{"id":"2","title":"B2"},"at":"2024-05-01T10:00:00Z"}
//
// The feed is a notification channel only. Events carry no sequence numbers
// and subscribers that fall behind are disconnected.
package feed
