package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/todolist/internal/logging"
)

const (
	// ServiceType is the mDNS service type advertised by todolist-server
	ServiceType = "_todolist._tcp"

	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for endpoint discovery
	DefaultScanTimeout = 3 * time.Second

	// DefaultPort is used when an advertisement carries no port
	DefaultPort = 8080

	// DefaultPath is the collection path when the TXT record has none
	DefaultPath = "/todos"
)

// pathPattern matches the URL paths accepted from TXT records (e.g., "/todos", "/api/v1/todos")
var pathPattern = regexp.MustCompile(`^(/[A-Za-z0-9._~-]+)+$`)

// Scanner browses the local network for todolist-server advertisements
type Scanner struct {
	// Timeout bounds every Scan and Find
	Timeout time.Duration
}

func NewScanner() *Scanner {
	return &Scanner{Timeout: DefaultScanTimeout}
}

// browse calls found for every usable advertisement until ctx ends or found
// returns false. The entries channel is drained by a goroutine that exits
// once zeroconf closes it.
func browse(ctx context.Context, found func(*Endpoint) bool) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("mdns resolver: %w", err)
	}

	ctx, stop := context.WithCancel(ctx)
	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		for entry := range entries {
			if ep := toEndpoint(entry); ep != nil && !found(ep) {
				stop()
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		stop()
		return fmt.Errorf("mdns browse %s: %w", ServiceType, err)
	}
	<-ctx.Done()
	stop()
	return nil
}

// Scan collects every distinct endpoint seen before the timeout.
// It always waits for the full timeout.
func (s *Scanner) Scan(ctx context.Context) ([]*Endpoint, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var (
		mu        sync.Mutex
		endpoints = make([]*Endpoint, 0)
		seen      = make(map[string]struct{})
	)
	err := browse(ctx, func(ep *Endpoint) bool {
		mu.Lock()
		defer mu.Unlock()
		if _, dup := seen[ep.URL()]; !dup {
			seen[ep.URL()] = struct{}{}
			endpoints = append(endpoints, ep)
			logging.Debug("Discovered endpoint",
				zap.String("instance", ep.Instance),
				zap.String("url", ep.URL()),
			)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	return append([]*Endpoint(nil), endpoints...), nil
}

// Find returns the endpoint advertised under instance, stopping at the first match
func (s *Scanner) Find(ctx context.Context, instance string) (*Endpoint, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	found := make(chan *Endpoint, 1)
	err := browse(ctx, func(ep *Endpoint) bool {
		if ep.Instance != instance {
			return true
		}
		select {
		case found <- ep:
		default:
		}
		return false
	})
	if err != nil {
		return nil, err
	}

	select {
	case ep := <-found:
		return ep, nil
	default:
		return nil, fmt.Errorf("endpoint %q not found within %s", instance, s.Timeout)
	}
}

// toEndpoint returns nil for entries without an instance name or address
func toEndpoint(entry *zeroconf.ServiceEntry) *Endpoint {
	if entry == nil || entry.Instance == "" {
		return nil
	}

	ip := firstAddr(entry)
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	txt := parseTXT(entry.Text)
	path := txt["path"]
	if !pathPattern.MatchString(path) {
		path = DefaultPath
	}
	feed := txt["feed"]
	if !pathPattern.MatchString(feed) {
		feed = ""
	}

	return &Endpoint{
		Instance:     entry.Instance,
		Host:         entry.HostName,
		IP:           ip,
		Port:         port,
		Path:         path,
		FeedPath:     feed,
		Metadata:     txt,
		DiscoveredAt: time.Now(),
	}
}

// firstAddr prefers IPv4
func firstAddr(entry *zeroconf.ServiceEntry) string {
	if len(entry.AddrIPv4) > 0 {
		return entry.AddrIPv4[0].String()
	}
	if len(entry.AddrIPv6) > 0 {
		return entry.AddrIPv6[0].String()
	}
	return ""
}

// parseTXT splits "key=value" TXT records into a map. Keys without a value map to "".
func parseTXT(records []string) map[string]string {
	txt := make(map[string]string, len(records))
	for _, rec := range records {
		key, value, _ := strings.Cut(rec, "=")
		txt[key] = value
	}
	return txt
}

// Scan runs a one-off scan. A non-positive timeout uses DefaultScanTimeout.
func Scan(ctx context.Context, timeout time.Duration) ([]*Endpoint, error) {
	s := NewScanner()
	if timeout > 0 {
		s.Timeout = timeout
	}
	return s.Scan(ctx)
}
