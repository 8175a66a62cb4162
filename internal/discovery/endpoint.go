package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Endpoint is a collection server found on the local network.
type Endpoint struct {
	// Instance is the mDNS instance name (e.g., "todolist-laptop")
	Instance string

	// Host is the mDNS hostname (e.g., "laptop.local.")
	Host string

	// IP is the address to connect to, IPv4 when the server has one
	IP string

	// Port is the HTTP port
	Port int

	// Path is the collection path (TXT record "path", e.g., "/todos")
	Path string

	// FeedPath is the change-feed websocket path (TXT record "feed")
	FeedPath string

	// Metadata contains all mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the endpoint was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the endpoint
func (e *Endpoint) String() string {
	return fmt.Sprintf("%s (%s) at %s", e.Instance, e.Host, e.URL())
}

// hostPort joins IP and port, bracketing IPv6 addresses
func (e *Endpoint) hostPort() string {
	return net.JoinHostPort(e.IP, strconv.Itoa(e.Port))
}

// URL returns the collection URL clients should use
func (e *Endpoint) URL() string {
	return "http://" + e.hostPort() + e.Path
}

// FeedURL returns the change-feed websocket URL, or "" when the server has no feed
func (e *Endpoint) FeedURL() string {
	if e.FeedPath == "" {
		return ""
	}
	return "ws://" + e.hostPort() + e.FeedPath
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (e *Endpoint) GetMetadata(key string) string {
	if e.Metadata == nil {
		return ""
	}
	return e.Metadata[key]
}
