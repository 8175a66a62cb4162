package discovery

import (
	"fmt"

	"github.com/grandcat/zeroconf"
)

// Advertisement describes how a collection server announces itself
type Advertisement struct {
	Instance string
	Port     int
	Path     string
	FeedPath string
	Version  string
}

// TXT returns the TXT records for the advertisement
func (a Advertisement) TXT() []string {
	txt := []string{"path=" + a.Path}
	if a.FeedPath != "" {
		txt = append(txt, "feed="+a.FeedPath)
	}
	if a.Version != "" {
		txt = append(txt, "version="+a.Version)
	}
	return txt
}

// Advertise registers the server on mDNS. Call Shutdown on the result to withdraw it.
func Advertise(a Advertisement) (*zeroconf.Server, error) {
	if a.Instance == "" {
		return nil, fmt.Errorf("mDNS instance name is required")
	}
	if !pathPattern.MatchString(a.Path) {
		return nil, fmt.Errorf("invalid collection path %q", a.Path)
	}

	server, err := zeroconf.Register(a.Instance, ServiceType, ServiceDomain, a.Port, a.TXT(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}
	return server, nil
}
