// Package config manages the keylightctl user configuration file.
//
// The file stores preferences only: the default device name, the one-shot
// discovery timeout, the bridge listen address, and whether desktop
// notifications are enabled. Discovered devices are never persisted; they
// are found fresh via mDNS on every run, so the file never goes stale when
// devices change address.
//
// The configuration lives in the OS-appropriate location:
//   - Linux: $XDG_CONFIG_HOME/keylightctl/config.yaml or $HOME/.config/keylightctl/config.yaml
//   - macOS: $HOME/.config/keylightctl/config.yaml
//   - Windows: %LOCALAPPDATA%\keylightctl\config.yaml
//
// Load reads the file once per process and returns defaults when it does
// not exist. Save writes atomically (temp file + rename) so a crash cannot
// leave a corrupt file behind.
package config
