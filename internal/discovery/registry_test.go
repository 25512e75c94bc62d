package discovery

import (
	"fmt"
	"net"
	"sync"
	"testing"
)

func resolvedFor(name, addr string, port uint16) *ResolvedAnnouncement {
	family := FamilyIPv4
	ip := net.ParseIP(addr)
	if ip != nil && ip.To4() == nil {
		family = FamilyIPv6
	}
	return &ResolvedAnnouncement{
		AnnouncementBase: AnnouncementBase{
			Interface: "enp6s0",
			Family:    family,
			Hostname:  name,
			Service:   "_elg._tcp",
			Domain:    "local",
		},
		Record: ServiceRecord{
			Name:     "_elg._tcp",
			Hostname: "light.local",
			IP:       ip,
			Port:     port,
		},
	}
}

func exitedFor(name string) *ExitedAnnouncement {
	return &ExitedAnnouncement{AnnouncementBase: AnnouncementBase{
		Interface: "enp6s0",
		Family:    FamilyIPv4,
		Hostname:  name,
		Service:   "_elg._tcp",
		Domain:    "local",
	}}
}

func TestRegistryApply_NewIsNoOp(t *testing.T) {
	registry := NewRegistry(nil)

	event, err := registry.Apply(&NewAnnouncement{AnnouncementBase: AnnouncementBase{
		Hostname: "Elgato Key Light 8D7C",
		Family:   FamilyIPv6,
	}})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if event.Kind != "" {
		t.Errorf("Apply(new) event = %v, want none", event)
	}
	if got := registry.Len(); got != 0 {
		t.Errorf("registry.Len() = %d, want 0", got)
	}
}

func TestRegistryApply_ResolvedAddsOnce(t *testing.T) {
	registry := NewRegistry(nil)
	ann := resolvedFor("Elgato Key Light 8D7C", "192.168.0.92", 9123)

	event, err := registry.Apply(ann)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if event.Kind != EventAdded {
		t.Fatalf("Apply(resolved) event kind = %q, want %q", event.Kind, EventAdded)
	}
	if event.Device.Name != "Elgato Key Light 8D7C" {
		t.Errorf("event device name = %q, want the announced name", event.Device.Name)
	}

	// The identical announcement again must change nothing
	event, err = registry.Apply(ann)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if event.Kind != "" {
		t.Errorf("Apply(duplicate resolved) event = %v, want none", event)
	}

	devices := registry.Devices()
	if len(devices) != 1 {
		t.Fatalf("registry has %d devices, want 1", len(devices))
	}
	if devices[0].URL != "http://192.168.0.92:9123/" {
		t.Errorf("device URL = %q, want %q", devices[0].URL, "http://192.168.0.92:9123/")
	}
}

func TestRegistryApply_SameNameDifferentAddressIsDuplicate(t *testing.T) {
	registry := NewRegistry(nil)

	if _, err := registry.Apply(resolvedFor("Key Light", "192.168.0.92", 9123)); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	// The light flapped to its link-local IPv6 address; same name, same device
	event, err := registry.Apply(resolvedFor("Key Light", "fe80::1", 9123))
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if event.Kind != "" {
		t.Errorf("Apply(re-resolution) event = %v, want none", event)
	}

	devices := registry.Devices()
	if len(devices) != 1 {
		t.Fatalf("registry has %d devices, want 1", len(devices))
	}
	if devices[0].URL != "http://192.168.0.92:9123/" {
		t.Errorf("device URL = %q, want the first resolution kept", devices[0].URL)
	}
}

func TestRegistryApply_ExitedRemovesMatchingName(t *testing.T) {
	registry := NewRegistry(nil)

	if _, err := registry.Apply(resolvedFor("Key Light A", "192.168.0.92", 9123)); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if _, err := registry.Apply(resolvedFor("Key Light B", "192.168.0.93", 9123)); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	// Removal must take out exactly the named device and leave the other
	event, err := registry.Apply(exitedFor("Key Light A"))
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if event.Kind != EventRemoved {
		t.Fatalf("Apply(exited) event kind = %q, want %q", event.Kind, EventRemoved)
	}
	if event.Device.Name != "Key Light A" {
		t.Errorf("removed device = %q, want %q", event.Device.Name, "Key Light A")
	}

	devices := registry.Devices()
	if len(devices) != 1 {
		t.Fatalf("registry has %d devices, want 1", len(devices))
	}
	if devices[0].Name != "Key Light B" {
		t.Errorf("surviving device = %q, want %q", devices[0].Name, "Key Light B")
	}
}

func TestRegistryApply_ExitedUnknownNameIsNoOp(t *testing.T) {
	registry := NewRegistry(nil)

	if _, err := registry.Apply(resolvedFor("Key Light A", "192.168.0.92", 9123)); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	event, err := registry.Apply(exitedFor("Key Light Z"))
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if event.Kind != "" {
		t.Errorf("Apply(exited unknown) event = %v, want none", event)
	}
	if got := registry.Len(); got != 1 {
		t.Errorf("registry.Len() = %d, want 1", got)
	}
}

func TestRegistryDevices_InsertionOrder(t *testing.T) {
	registry := NewRegistry(nil)

	names := []string{"Key Light C", "Key Light A", "Key Light B"}
	for i, name := range names {
		addr := fmt.Sprintf("192.168.0.%d", 90+i)
		if _, err := registry.Apply(resolvedFor(name, addr, 9123)); err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
	}

	devices := registry.Devices()
	if len(devices) != len(names) {
		t.Fatalf("registry has %d devices, want %d", len(devices), len(names))
	}
	for i, name := range names {
		if devices[i].Name != name {
			t.Errorf("devices[%d].Name = %q, want %q (insertion order)", i, devices[i].Name, name)
		}
	}
}

func TestRegistryDevices_ReturnsCopy(t *testing.T) {
	registry := NewRegistry(nil)
	if _, err := registry.Apply(resolvedFor("Key Light A", "192.168.0.92", 9123)); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	snapshot := registry.Devices()
	snapshot[0].Name = "tampered"

	if got := registry.Devices()[0].Name; got != "Key Light A" {
		t.Errorf("registry device name = %q, want unchanged %q", got, "Key Light A")
	}
}

func TestRegistrySeed(t *testing.T) {
	registry := NewRegistry(nil)

	registry.Seed([]Device{
		{Name: "Key Light A", URL: "http://192.168.0.92:9123/"},
		{Name: "Key Light B", URL: "http://192.168.0.93:9123/"},
		{Name: "Key Light A", URL: "http://10.0.0.1:9123/"},
	})

	devices := registry.Devices()
	if len(devices) != 2 {
		t.Fatalf("registry has %d devices, want 2 (seed deduplicates by name)", len(devices))
	}
	if devices[0].URL != "http://192.168.0.92:9123/" {
		t.Errorf("devices[0].URL = %q, want the first occurrence kept", devices[0].URL)
	}
}

func TestRegistryTryDevices(t *testing.T) {
	registry := NewRegistry(nil)
	if _, err := registry.Apply(resolvedFor("Key Light A", "192.168.0.92", 9123)); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	devices, ok := registry.TryDevices()
	if !ok {
		t.Fatal("TryDevices() not ok with no writer active")
	}
	if len(devices) != 1 {
		t.Errorf("TryDevices() returned %d devices, want 1", len(devices))
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := NewRegistry(nil)

	const iterations = 500
	var wg sync.WaitGroup
	wg.Add(2)

	// Writer cycles one device in and out of the registry
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			if _, err := registry.Apply(resolvedFor("Key Light A", "192.168.0.92", 9123)); err != nil {
				t.Errorf("Apply(resolved) error = %v", err)
				return
			}
			if _, err := registry.Apply(exitedFor("Key Light A")); err != nil {
				t.Errorf("Apply(exited) error = %v", err)
				return
			}
		}
	}()

	// Reader must only ever observe the pre- or post-transition list
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			devices := registry.Devices()
			if len(devices) > 1 {
				t.Errorf("snapshot has %d devices, want at most 1", len(devices))
				return
			}
			if len(devices) == 1 && devices[0].Name != "Key Light A" {
				t.Errorf("snapshot device = %q, want %q", devices[0].Name, "Key Light A")
				return
			}
		}
	}()

	wg.Wait()
}
