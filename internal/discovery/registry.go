package discovery

import (
	"sync"

	"go.uber.org/zap"
)

// EventKind classifies a registry content change
type EventKind string

const (
	// EventAdded is emitted when a device enters the registry
	EventAdded EventKind = "added"
	// EventRemoved is emitted when a device leaves the registry
	EventRemoved EventKind = "removed"
)

// Event describes one registry content change. Apply returns the zero
// Event (empty Kind) for transitions that change nothing.
type Event struct {
	Kind   EventKind `json:"kind"`
	Device Device    `json:"device"`
}

// Registry is the set of currently known devices, unique by name and kept
// in insertion order. A discovery daemon writes to it one announcement at
// a time while any number of readers take snapshots; all access is guarded
// by a reader/writer lock held only for the duration of a single
// transition or copy.
type Registry struct {
	mu      sync.RWMutex
	devices []Device
	logger  *zap.Logger
}

// NewRegistry creates an empty registry. A nil logger disables logging.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{logger: logger}
}

// Apply feeds one announcement through the registry state machine and
// returns the resulting change event, if any.
//
// New announcements are informational and never change contents. A
// resolved announcement adds its device unless a device with the same
// name is already present (re-resolutions are idempotent). An exited
// announcement removes the device whose name equals the announcement's
// hostname; removing an unknown name is a no-op.
func (r *Registry) Apply(ann Announcement) (Event, error) {
	switch a := ann.(type) {
	case *NewAnnouncement:
		r.logger.Debug("service announced",
			zap.String("device", a.Hostname),
			zap.String("family", string(a.Family)),
		)
		return Event{}, nil

	case *ResolvedAnnouncement:
		device, err := DeviceFromAnnouncement(a)
		if err != nil {
			return Event{}, err
		}

		r.mu.Lock()
		defer r.mu.Unlock()

		for _, known := range r.devices {
			if known.Name == device.Name {
				r.logger.Debug("device already in the registry",
					zap.String("device", device.Name),
					zap.String("url", device.URL),
				)
				return Event{}, nil
			}
		}
		r.devices = append(r.devices, *device)
		r.logger.Info("new device found",
			zap.String("device", device.Name),
			zap.String("url", device.URL),
		)
		return Event{Kind: EventAdded, Device: *device}, nil

	case *ExitedAnnouncement:
		r.mu.Lock()
		defer r.mu.Unlock()

		for i, known := range r.devices {
			if known.Name == a.Hostname {
				r.devices = append(r.devices[:i], r.devices[i+1:]...)
				r.logger.Info("device exited",
					zap.String("device", known.Name),
					zap.String("url", known.URL),
				)
				return Event{Kind: EventRemoved, Device: known}, nil
			}
		}
		r.logger.Debug("exited device was not in the registry",
			zap.String("device", a.Hostname),
		)
		return Event{}, nil
	}

	return Event{}, nil
}

// Devices returns a snapshot copy of the current device list in insertion
// order. It blocks while a transition is in flight.
func (r *Registry) Devices() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Device(nil), r.devices...)
}

// TryDevices is the non-blocking variant of Devices for callers that
// prefer a stale answer over waiting out a writer. It reports false when
// the lock could not be taken.
func (r *Registry) TryDevices() ([]Device, bool) {
	if !r.mu.TryRLock() {
		return nil, false
	}
	defer r.mu.RUnlock()
	return append([]Device(nil), r.devices...), true
}

// Len returns the number of known devices
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}

// Seed replaces the registry contents with the given devices, typically a
// one-shot snapshot taken before the daemon starts. Duplicate names keep
// their first occurrence.
func (r *Registry) Seed(devices []Device) {
	seen := make(map[string]struct{}, len(devices))
	unique := make([]Device, 0, len(devices))
	for _, d := range devices {
		if _, ok := seen[d.Name]; ok {
			continue
		}
		seen[d.Name] = struct{}{}
		unique = append(unique, d)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices = unique
}
