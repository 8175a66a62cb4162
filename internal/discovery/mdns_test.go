package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestToEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantIP   string
		wantPort int
		wantPath string
		wantFeed string
	}{
		{
			name: "server with path and feed",
			entry: serviceEntry("todolist-laptop", "laptop.local.", 8080,
				[]net.IP{net.ParseIP("192.168.1.20")}, nil,
				"path=/todos", "feed=/ws"),
			wantIP:   "192.168.1.20",
			wantPort: 8080,
			wantPath: "/todos",
			wantFeed: "/ws",
		},
		{
			name: "nested collection path",
			entry: serviceEntry("office", "office.local.", 9000,
				[]net.IP{net.ParseIP("10.0.0.5")}, nil,
				"path=/api/v1/api_todolist"),
			wantIP:   "10.0.0.5",
			wantPort: 9000,
			wantPath: "/api/v1/api_todolist",
		},
		{
			name: "no port specified (should default)",
			entry: serviceEntry("noport", "noport.local.", 0,
				[]net.IP{net.ParseIP("172.16.0.1")}, nil),
			wantIP:   "172.16.0.1",
			wantPort: DefaultPort,
			wantPath: DefaultPath,
		},
		{
			name: "invalid path falls back to default",
			entry: serviceEntry("bad", "bad.local.", 8080,
				[]net.IP{net.ParseIP("172.16.0.2")}, nil,
				"path=todos?x=1", "feed=ws"),
			wantIP:   "172.16.0.2",
			wantPort: 8080,
			wantPath: DefaultPath,
		},
		{
			name:    "empty instance",
			entry:   serviceEntry("", "x.local.", 8080, []net.IP{net.ParseIP("192.168.1.1")}, nil),
			wantNil: true,
		},
		{
			name:    "no IP address",
			entry:   serviceEntry("noip", "noip.local.", 8080, nil, nil),
			wantNil: true,
		},
		{
			name: "IPv6 only server",
			entry: serviceEntry("v6", "v6.local.", 8080,
				nil, []net.IP{net.ParseIP("fe80::1")}),
			wantIP:   "fe80::1",
			wantPort: 8080,
			wantPath: DefaultPath,
		},
		{
			name: "both IPv4 and IPv6 (should prefer IPv4)",
			entry: serviceEntry("dual", "dual.local.", 8080,
				[]net.IP{net.ParseIP("192.168.1.50")}, []net.IP{net.ParseIP("fe80::2")}),
			wantIP:   "192.168.1.50",
			wantPort: 8080,
			wantPath: DefaultPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoint := toEndpoint(tt.entry)

			if tt.wantNil {
				if endpoint != nil {
					t.Errorf("toEndpoint() = %v, want nil", endpoint)
				}
				return
			}

			if endpoint == nil {
				t.Fatal("toEndpoint() = nil, want non-nil endpoint")
			}

			if endpoint.IP != tt.wantIP {
				t.Errorf("endpoint.IP = %v, want %v", endpoint.IP, tt.wantIP)
			}

			if endpoint.Port != tt.wantPort {
				t.Errorf("endpoint.Port = %v, want %v", endpoint.Port, tt.wantPort)
			}

			if endpoint.Path != tt.wantPath {
				t.Errorf("endpoint.Path = %v, want %v", endpoint.Path, tt.wantPath)
			}

			if endpoint.FeedPath != tt.wantFeed {
				t.Errorf("endpoint.FeedPath = %v, want %v", endpoint.FeedPath, tt.wantFeed)
			}

			if endpoint.Instance != tt.entry.Instance {
				t.Errorf("endpoint.Instance = %v, want %v", endpoint.Instance, tt.entry.Instance)
			}

			if time.Since(endpoint.DiscoveredAt) > time.Second {
				t.Errorf("endpoint.DiscoveredAt is not recent: %v", endpoint.DiscoveredAt)
			}
		})
	}
}

func TestParseTXT(t *testing.T) {
	metadata := parseTXT([]string{"path=/todos", "version=1.0", "flag", "eq=a=b"})

	expected := map[string]string{
		"path":    "/todos",
		"version": "1.0",
		"flag":    "",
		"eq":      "a=b",
	}

	if len(metadata) != len(expected) {
		t.Errorf("metadata has %d entries, want %d", len(metadata), len(expected))
	}

	for key, want := range expected {
		if got, ok := metadata[key]; !ok {
			t.Errorf("metadata missing key %q", key)
		} else if got != want {
			t.Errorf("metadata[%q] = %q, want %q", key, got, want)
		}
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner == nil {
		t.Fatal("NewScanner() = nil, want scanner")
	}

	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

func TestPathPattern(t *testing.T) {
	tests := []struct {
		path        string
		shouldMatch bool
	}{
		{"/todos", true},
		{"/api/v1/api_todolist", true},
		{"/a.b~c-d", true},
		{"/", false},
		{"", false},
		{"todos", false},
		{"/todos/", false},
		{"/todos?x=1", false},
		{"/to dos", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := pathPattern.MatchString(tt.path); got != tt.shouldMatch {
				t.Errorf("pathPattern.MatchString(%q) = %v, want %v", tt.path, got, tt.shouldMatch)
			}
		})
	}
}

func TestAdvertisement_TXT(t *testing.T) {
	a := Advertisement{Instance: "x", Port: 8080, Path: "/todos", FeedPath: "/ws", Version: "1.0.0"}

	got := a.TXT()
	want := []string{"path=/todos", "feed=/ws", "version=1.0.0"}
	if len(got) != len(want) {
		t.Fatalf("TXT() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("TXT()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Round trip through the scanner's parser
	entry := serviceEntry("x", "x.local.", 8080, []net.IP{net.ParseIP("127.0.0.1")}, nil, got...)
	endpoint := toEndpoint(entry)
	if endpoint.Path != "/todos" || endpoint.FeedPath != "/ws" {
		t.Errorf("parsed endpoint = %+v", endpoint)
	}
}

func TestAdvertise_Validation(t *testing.T) {
	if _, err := Advertise(Advertisement{Path: "/todos", Port: 8080}); err == nil {
		t.Error("Advertise() without instance should fail")
	}
	if _, err := Advertise(Advertisement{Instance: "x", Path: "todos", Port: 8080}); err == nil {
		t.Error("Advertise() with invalid path should fail")
	}
}

// serviceEntry builds a resolved zeroconf entry for parser tests
func serviceEntry(instance, host string, port int, v4, v6 []net.IP, txt ...string) *zeroconf.ServiceEntry {
	entry := zeroconf.NewServiceEntry(instance, ServiceType, ServiceDomain)
	entry.HostName = host
	entry.Port = port
	entry.AddrIPv4 = v4
	entry.AddrIPv6 = v6
	entry.Text = txt
	return entry
}

// Note: live mDNS discovery needs multicast access and is exercised manually
// with 'todolist scan' against a running 'todolist-server serve'.
