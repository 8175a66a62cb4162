package config

import (
	"fmt"
	"net/url"
	"sort"
	"time"
)

// CurrentVersion is the config file format version
const CurrentVersion = 1

// Registry represents the entire user configuration file.
// It stores named collection endpoints and application preferences.
type Registry struct {
	Version         int                  `yaml:"version"`
	DefaultEndpoint string               `yaml:"default_endpoint,omitempty"` // Name of the endpoint used when none is given
	Endpoints       map[string]*Endpoint `yaml:"endpoints,omitempty"`        // Keyed by profile name
	Preferences     *Preferences         `yaml:"preferences,omitempty"`

	path string // File the registry was loaded from; empty means the default path
}

// Endpoint is a saved collection endpoint.
type Endpoint struct {
	URL      string    `yaml:"url"`                 // Collection URL (GET/POST target)
	Feed     string    `yaml:"feed,omitempty"`      // Change-feed websocket URL, if the server has one
	LastUsed time.Time `yaml:"last_used,omitempty"` // Last time a command used this endpoint
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	TimeoutSeconds  int    `yaml:"timeout_seconds"`     // HTTP request timeout
	LogLevel        string `yaml:"log_level,omitempty"` // debug/info/warn/error; empty = silent
	LogFile         string `yaml:"log_file,omitempty"`  // Log destination for the TUI
	DiscoverTimeout int    `yaml:"discover_timeout"`    // mDNS discovery timeout in seconds
	Live            bool   `yaml:"live"`                // Follow the change feed in the TUI when available
}

// defaultPreferences returns the preferences written for a new registry.
func defaultPreferences() *Preferences {
	return &Preferences{
		TimeoutSeconds:  10,
		DiscoverTimeout: 3,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     CurrentVersion,
		Endpoints:   make(map[string]*Endpoint),
		Preferences: defaultPreferences(),
	}
}

// Timeout returns the HTTP request timeout as a duration.
func (p *Preferences) Timeout() time.Duration {
	if p == nil || p.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// DiscoverDuration returns the mDNS discovery timeout as a duration.
func (p *Preferences) DiscoverDuration() time.Duration {
	if p == nil || p.DiscoverTimeout <= 0 {
		return 3 * time.Second
	}
	return time.Duration(p.DiscoverTimeout) * time.Second
}

// GetEndpoint retrieves a saved endpoint by name.
// Returns nil if no endpoint has that name.
func (r *Registry) GetEndpoint(name string) *Endpoint {
	return r.Endpoints[name]
}

// SetEndpoint adds or replaces a named endpoint. The first endpoint saved
// becomes the default.
func (r *Registry) SetEndpoint(name, rawURL, feed string) error {
	if name == "" {
		return fmt.Errorf("endpoint name is required")
	}
	if err := ValidateURL(rawURL, "http", "https"); err != nil {
		return err
	}
	if feed != "" {
		if err := ValidateURL(feed, "ws", "wss"); err != nil {
			return fmt.Errorf("invalid feed: %w", err)
		}
	}

	if r.Endpoints == nil {
		r.Endpoints = make(map[string]*Endpoint)
	}

	ep := r.Endpoints[name]
	if ep == nil {
		ep = &Endpoint{}
		r.Endpoints[name] = ep
	}
	ep.URL = rawURL
	ep.Feed = feed

	if r.DefaultEndpoint == "" {
		r.DefaultEndpoint = name
	}
	return nil
}

// RemoveEndpoint deletes a named endpoint, clearing the default if it pointed there.
func (r *Registry) RemoveEndpoint(name string) bool {
	if _, ok := r.Endpoints[name]; !ok {
		return false
	}
	delete(r.Endpoints, name)
	if r.DefaultEndpoint == name {
		r.DefaultEndpoint = ""
	}
	return true
}

// UseEndpoint makes a saved endpoint the default.
func (r *Registry) UseEndpoint(name string) error {
	if r.GetEndpoint(name) == nil {
		return fmt.Errorf("no endpoint named %q", name)
	}
	r.DefaultEndpoint = name
	return nil
}

// TouchEndpoint records that an endpoint was just used.
func (r *Registry) TouchEndpoint(name string) {
	if ep := r.GetEndpoint(name); ep != nil {
		ep.LastUsed = time.Now()
	}
}

// EndpointNames returns saved endpoint names in sorted order.
func (r *Registry) EndpointNames() []string {
	names := make([]string, 0, len(r.Endpoints))
	for name := range r.Endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateURL checks that raw is an absolute URL with one of the given schemes.
func ValidateURL(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", raw)
	}
	for _, s := range schemes {
		if u.Scheme == s {
			return nil
		}
	}
	return fmt.Errorf("invalid URL %q: scheme must be one of %v", raw, schemes)
}
