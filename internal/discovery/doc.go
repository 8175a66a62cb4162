// Package discovery finds todolist collection servers on the local network.
//
// todolist-server advertises itself over multicast DNS (mDNS) with the
// "_todolist._tcp" service type. TXT records carry the collection path and,
// when the server has one, the change-feed path:
//
//	path=/todos
//	feed=/ws
//	version=1.2.0
//
// # Usage Example
//
//	endpoints, err := discovery.Scan(ctx, 3*time.Second)
//	if err != nil {
//	    return err
//	}
//
//	for _, ep := range endpoints {
//	    fmt.Printf("Found: %s at %s\n", ep.Instance, ep.URL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Servers must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
