package discovery

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// Device represents a reachable Key Light on the network.
//
// Identity is the name alone: a light that re-resolves from IPv4 to a
// link-local IPv6 address keeps its name and stays the same device, so the
// Registry and the one-shot snapshot both deduplicate on Name and ignore
// URL differences.
type Device struct {
	// Name is the advertised service name (e.g. "Elgato Key Light 8D7C")
	Name string `json:"name"`
	// URL is the HTTP base URL built from the resolved address and port
	URL string `json:"url"`
}

// String returns a human-readable string representation of the device
func (d Device) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.URL)
}

// DeviceFromAnnouncement converts a resolved announcement into a Device.
// New and Exited announcements carry no resolution data and yield nil
// without error. The base URL has the form "http://host:port/" with IPv6
// addresses bracketed; a URL that fails to parse back is a ResolveError.
func DeviceFromAnnouncement(ann Announcement) (*Device, error) {
	resolved, ok := ann.(*ResolvedAnnouncement)
	if !ok {
		return nil, nil
	}

	name := resolved.Hostname
	hostPort := net.JoinHostPort(resolved.Record.IP.String(), strconv.Itoa(int(resolved.Record.Port)))
	rawURL := fmt.Sprintf("http://%s/", hostPort)
	if _, err := url.Parse(rawURL); err != nil {
		return nil, &ResolveError{Name: name, URL: rawURL, Err: err}
	}

	return &Device{Name: name, URL: rawURL}, nil
}
