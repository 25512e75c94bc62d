package config

import "time"

const (
	// DefaultDiscoveryTimeout bounds one-shot discovery when the config
	// file does not say otherwise, in seconds.
	DefaultDiscoveryTimeout = 10

	// DefaultBridgeListen is the default bridge server listen address.
	// The Key Light API itself sits on 9123, so the bridge takes the
	// neighboring port.
	DefaultBridgeListen = "127.0.0.1:9124"
)

// Config represents the user configuration file. It stores preferences
// only; discovered devices live in the in-memory registry and are never
// written to disk.
type Config struct {
	Version int `yaml:"version"`

	// DefaultDevice is the device name control commands fall back to when
	// --device is not given.
	DefaultDevice string `yaml:"default_device,omitempty"`

	// DiscoveryTimeout is the one-shot discovery budget in seconds.
	DiscoveryTimeout int `yaml:"discovery_timeout,omitempty"`

	// BridgeListen is the listen address for `keylightctl serve`.
	BridgeListen string `yaml:"bridge_listen,omitempty"`

	// Notifications enables desktop notifications for power and level
	// changes.
	Notifications bool `yaml:"notifications"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Version:          1,
		DiscoveryTimeout: DefaultDiscoveryTimeout,
		BridgeListen:     DefaultBridgeListen,
		Notifications:    true,
	}
}

// DiscoveryBudget returns the discovery timeout as a duration, falling back
// to the default when the field is unset or nonsense.
func (c *Config) DiscoveryBudget() time.Duration {
	seconds := c.DiscoveryTimeout
	if seconds <= 0 {
		seconds = DefaultDiscoveryTimeout
	}
	return time.Duration(seconds) * time.Second
}

// ListenAddr returns the bridge listen address, falling back to the default
// when the field is unset.
func (c *Config) ListenAddr() string {
	if c.BridgeListen == "" {
		return DefaultBridgeListen
	}
	return c.BridgeListen
}
