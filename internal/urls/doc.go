// Package urls provides centralized constants for the well-known URLs used
// throughout the application.
//
// The built-in collection endpoint and the documentation links live here so
// they can be changed in one place before release.
//
// Usage:
//
//	import "github.com/muurk/todolist/internal/urls"
//
//	client := collection.NewClient(urls.DefaultEndpoint)
package urls
