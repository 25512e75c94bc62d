// Package discovery locates Elgato Key Lights on the local network.
//
// Key Lights advertise themselves over multicast DNS using the "_elg._tcp"
// service type. This package does not speak mDNS itself: it drives the
// system's avahi-browse utility in parsable mode and decodes its output,
// one announcement per line, into typed events.
//
// # Announcement Format
//
// avahi-browse --parsable emits semicolon-separated lines such as:
//
//	+;enp6s0;IPv6;Elgato\032Key\032Light\0328D7C;_elg._tcp;local
//	=;enp6s0;IPv4;Elgato\032Key\032Light\0328D7C;_elg._tcp;local;elgato-key-light-8d7c.local;192.168.0.92;9123;"pv=1.0" ...
//	-;enp6s0;IPv6;Elgato\032Key\032Light\0328D7C;_elg._tcp;local
//
// The leading character selects the announcement mode: '+' for a newly seen
// service, '=' for a fully resolved one (address, port and TXT data follow),
// '-' for a service that left the network. Service names arrive with
// backslash escapes ("\032" is a space) which are decoded before use.
//
// # One-shot and Streaming Modes
//
// Browse runs the tool once with --terminate and returns a deduplicated
// snapshot of the devices found during the initial enumeration burst. Any
// malformed line fails the whole snapshot; a partial result is never
// returned.
//
// Daemon keeps the tool running and feeds every announcement into a
// Registry as it arrives. Malformed lines are logged and skipped so one bad
// announcement can never stall the stream. Registry change events are
// published on a channel for consumers such as the TUI or the bridge
// server.
//
// # Usage Example
//
//	devices, err := discovery.Browse(ctx, discovery.ServiceType)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i, device := range devices {
//	    fmt.Printf("%d. %s\n", i+1, device)
//	}
//
// # Requirements
//
// avahi-browse must be installed (package avahi-utils on Debian/Ubuntu) and
// the Avahi daemon must be running. Devices must be on the same network
// segment and the firewall must allow mDNS (UDP port 5353).
//
// # Thread Safety
//
// The Registry is safe for concurrent use; a Daemon writes to it from its
// own goroutine while any number of readers take snapshots.
package discovery
