// Package logging provides structured logging for the todolist client and server.
//
// This package wraps zap logger with convenience functions for the logging
// patterns used throughout the project: outgoing requests to the collection
// endpoint, failed user actions, and requests served by the local server.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Request/response details, raw bodies
//   - Info: Server requests, change-feed connections
//   - Warn: Non-fatal issues (dropped feed subscribers, stale fetch results)
//   - Error: Failed user actions
//
// # Silent by Default
//
// Unless a level is passed explicitly or TODOLIST_LOG_LEVEL is set, the
// logger is a zap no-op logger. The interactive client owns the terminal, so
// it should be combined with an output file:
//
//	if err := logging.InitializeWithOutput("debug", "/tmp/todolist.log"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Action Failures
//
// Failed add/update/delete actions are reported to the user as a generic alert.
// The underlying error is written through LogActionFailure:
//
//	logging.LogActionFailure("add", err, zap.String("title", title))
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. Initialize and SetLogger
// are meant to be called once at startup.
package logging
