// Package config provides user configuration management for todolist.
//
// This package manages a YAML configuration file that stores named
// collection endpoints and client preferences. The file location follows
// OS-specific conventions.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/todolist/config.yaml or $HOME/.config/todolist/config.yaml
//   - macOS: $HOME/.config/todolist/config.yaml
//   - Windows: %LOCALAPPDATA%\todolist\config.yaml
//
// TODOLIST_CONFIG_DIR, when set, replaces the directory on every platform.
//
// # File Format
//
//	version: 1
//	default_endpoint: local
//	endpoints:
//	  local:
//	    url: http://127.0.0.1:8080/todos
//	    feed: ws://127.0.0.1:8080/ws
//	preferences:
//	  timeout_seconds: 10
//	  discover_timeout: 3
//	  live: true
//
// # Endpoint Resolution
//
// Commands pick their endpoint with Registry.Resolve, in this order:
// --endpoint flag, TODOLIST_ENDPOINT, --profile, default_endpoint, and
// finally the built-in hosted collection.
//
// # Thread Safety
//
// LoadRegistry loads the shared registry once. Save serializes writers and
// replaces the file with a rename.
package config
