package discovery

import (
	"net"
	"testing"
)

func TestDevice_String(t *testing.T) {
	device := Device{
		Name: "Elgato Key Light 8D7C",
		URL:  "http://192.168.0.92:9123/",
	}

	expected := "Elgato Key Light 8D7C (http://192.168.0.92:9123/)"
	if device.String() != expected {
		t.Errorf("Device.String() = %v, want %v", device.String(), expected)
	}
}

func TestDeviceFromAnnouncement(t *testing.T) {
	base := AnnouncementBase{
		Interface: "enp6s0",
		Family:    FamilyIPv4,
		Hostname:  "Elgato Key Light 8D7C",
		Service:   "_elg._tcp",
		Domain:    "local",
	}

	tests := []struct {
		name string
		ann  Announcement
		want *Device
	}{
		{
			name: "resolved over IPv4",
			ann: &ResolvedAnnouncement{
				AnnouncementBase: base,
				Record: ServiceRecord{
					Name:     "_elg._tcp",
					Hostname: "elgato-key-light-8d7c.local",
					IP:       net.ParseIP("192.168.0.92"),
					Port:     9123,
				},
			},
			want: &Device{
				Name: "Elgato Key Light 8D7C",
				URL:  "http://192.168.0.92:9123/",
			},
		},
		{
			name: "resolved over link-local IPv6 brackets the address",
			ann: &ResolvedAnnouncement{
				AnnouncementBase: base,
				Record: ServiceRecord{
					Name:     "_elg._tcp",
					Hostname: "elgato-key-light-8d7c.local",
					IP:       net.ParseIP("fe80::3e6a:9dff:fe21:b16e"),
					Port:     9123,
				},
			},
			want: &Device{
				Name: "Elgato Key Light 8D7C",
				URL:  "http://[fe80::3e6a:9dff:fe21:b16e]:9123/",
			},
		},
		{
			name: "new announcement carries no device",
			ann:  &NewAnnouncement{AnnouncementBase: base},
			want: nil,
		},
		{
			name: "exited announcement carries no device",
			ann:  &ExitedAnnouncement{AnnouncementBase: base},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeviceFromAnnouncement(tt.ann)
			if err != nil {
				t.Fatalf("DeviceFromAnnouncement() error = %v", err)
			}
			if tt.want == nil {
				if got != nil {
					t.Fatalf("DeviceFromAnnouncement() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("DeviceFromAnnouncement() = nil, want %v", tt.want)
			}
			if *got != *tt.want {
				t.Errorf("DeviceFromAnnouncement() = %v, want %v", got, tt.want)
			}
		})
	}
}
