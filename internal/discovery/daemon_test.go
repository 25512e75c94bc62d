package discovery

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestDaemonConsume_AppliesStreamInOrder(t *testing.T) {
	registry := NewRegistry(nil)
	daemon := NewDaemon(DefaultDaemonConfig(), registry, nil)

	lines := []string{
		`+;enp6s0;IPv6;Key\032Light\032A;_elg._tcp;local`,
		`=;enp6s0;IPv4;Key\032Light\032A;_elg._tcp;local;a.local;192.168.0.92;9123;"pv=1.0"`,
		`=;enp6s0;IPv4;Key\032Light\032B;_elg._tcp;local;b.local;192.168.0.93;9123;"pv=1.0"`,
		`=;enp6s0;IPv6;Key\032Light\032A;_elg._tcp;local;a.local;fe80::1;9123;"pv=1.0"`,
		`-;enp6s0;IPv4;Key\032Light\032B;_elg._tcp;local`,
	}
	daemon.consume(strings.NewReader(strings.Join(lines, "\n") + "\n"))

	devices := registry.Devices()
	if len(devices) != 1 {
		t.Fatalf("registry has %d devices, want 1", len(devices))
	}
	if devices[0].Name != "Key Light A" {
		t.Errorf("remaining device = %q, want %q", devices[0].Name, "Key Light A")
	}

	// Events arrive in transition order: A added, B added, B removed
	close(daemon.events)
	var events []Event
	for event := range daemon.events {
		events = append(events, event)
	}
	want := []Event{
		{Kind: EventAdded, Device: Device{Name: "Key Light A", URL: "http://192.168.0.92:9123/"}},
		{Kind: EventAdded, Device: Device{Name: "Key Light B", URL: "http://192.168.0.93:9123/"}},
		{Kind: EventRemoved, Device: Device{Name: "Key Light B", URL: "http://192.168.0.93:9123/"}},
	}
	if len(events) != len(want) {
		t.Fatalf("daemon published %d events, want %d", len(events), len(want))
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %v, want %v", i, events[i], want[i])
		}
	}
}

func TestDaemonConsume_SkipsMalformedLines(t *testing.T) {
	registry := NewRegistry(nil)
	daemon := NewDaemon(DefaultDaemonConfig(), registry, nil)

	lines := []string{
		`garbage that is not an announcement`,
		`=;enp6s0;IPv4;Key\032Light\032A;_elg._tcp;local;a.local;192.168.0.92;9123;"pv=1.0"`,
		``,
		`=;enp6s0;IPv4;Key\032Light\032B;_elg._tcp;local;b.local;not-an-ip;9123`,
		`=;enp6s0;IPv4;Key\032Light\032C;_elg._tcp;local;c.local;192.168.0.94;9123;"pv=1.0"`,
	}
	daemon.consume(strings.NewReader(strings.Join(lines, "\n") + "\n"))

	devices := registry.Devices()
	if len(devices) != 2 {
		t.Fatalf("registry has %d devices, want 2 (bad lines skipped, stream not aborted)", len(devices))
	}
	if devices[0].Name != "Key Light A" || devices[1].Name != "Key Light C" {
		t.Errorf("devices = %v, want the two well-formed announcements", devices)
	}
}

func TestDaemonPublish_DropsWhenBufferFull(t *testing.T) {
	registry := NewRegistry(nil)
	daemon := NewDaemon(DaemonConfig{EventBuffer: 1}, registry, nil)

	lines := []string{
		`=;enp6s0;IPv4;Key\032Light\032A;_elg._tcp;local;a.local;192.168.0.92;9123;"pv=1.0"`,
		`=;enp6s0;IPv4;Key\032Light\032B;_elg._tcp;local;b.local;192.168.0.93;9123;"pv=1.0"`,
		`=;enp6s0;IPv4;Key\032Light\032C;_elg._tcp;local;c.local;192.168.0.94;9123;"pv=1.0"`,
	}
	// With nobody draining the one-slot channel this must not block
	daemon.consume(strings.NewReader(strings.Join(lines, "\n") + "\n"))

	if got := registry.Len(); got != 3 {
		t.Errorf("registry.Len() = %d, want 3 (drops never lose registry state)", got)
	}
	if got := len(daemon.events); got != 1 {
		t.Errorf("%d buffered events, want 1 (the rest dropped)", got)
	}
}

func TestDaemonStart_ToolNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	registry := NewRegistry(nil)
	daemon := NewDaemon(DefaultDaemonConfig(), registry, nil)

	err := daemon.Start(context.Background())
	if err == nil {
		t.Fatal("Start() error = nil, want tool-not-found")
	}
	var toolErr *ToolNotFoundError
	if !errors.As(err, &toolErr) {
		t.Fatalf("Start() error = %T, want *ToolNotFoundError", err)
	}
}

func TestNewDaemon_Defaults(t *testing.T) {
	daemon := NewDaemon(DaemonConfig{}, NewRegistry(nil), nil)

	if daemon.config.ServiceType != ServiceType {
		t.Errorf("ServiceType = %q, want %q", daemon.config.ServiceType, ServiceType)
	}
	if daemon.config.EventBuffer != DefaultDaemonConfig().EventBuffer {
		t.Errorf("EventBuffer = %d, want %d", daemon.config.EventBuffer, DefaultDaemonConfig().EventBuffer)
	}
	if cap(daemon.events) != daemon.config.EventBuffer {
		t.Errorf("event channel capacity = %d, want %d", cap(daemon.events), daemon.config.EventBuffer)
	}
}
