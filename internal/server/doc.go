// Package server implements a local, in-memory todo collection server.
//
// It speaks the same REST contract as the hosted mockapi.io collection, so
// the todolist client can point at it without changes:
//
//	GET    /{collection}       list records in insertion order
//	POST   /{collection}       create {"title": ...}, returns the record (201)
//	GET    /{collection}/{id}  fetch one record
//	PUT    /{collection}/{id}  replace the title, returns the record
//	DELETE /{collection}/{id}  remove the record, returns it
//
// Unknown records answer 404 {"message":"Not found"}. Any collection name
// works and is created on its first POST; only the configured collection
// (default "todos") is announced on mDNS and published on the change feed.
//
// # Extra routes
//
//	GET /healthz  "OK"
//	GET /metrics  Prometheus text format
//	GET /ws       websocket change feed (see package feed)
//
// # Ids
//
// Ids are sequential strings ("1", "2", ...) by default, which is what
// mockapi.io returns. IDUUID switches to random UUIDs. Ids are never reused
// within a process.
//
// # Usage Example
//
//	srv, err := server.New(server.Config{Port: 8080, Advertise: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Start blocks until ctx is done or SIGINT/SIGTERM
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// Shutdown withdraws the mDNS record, closes feed subscribers and then drains
// in-flight HTTP requests for up to ten seconds.
package server
