package discovery

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"unicode/utf8"
)

// AnnouncementMode identifies the lifecycle phase an announcement reports
type AnnouncementMode byte

// Announcement mode characters as they appear at the start of each
// avahi-browse parsable output line
const (
	// ModeNew marks a service that appeared on the network ('+')
	ModeNew AnnouncementMode = '+'
	// ModeResolved marks a service whose address and port are known ('=')
	ModeResolved AnnouncementMode = '='
	// ModeExited marks a service that left the network ('-')
	ModeExited AnnouncementMode = '-'
)

// String returns a human-readable name for the mode
func (m AnnouncementMode) String() string {
	switch m {
	case ModeNew:
		return "new"
	case ModeResolved:
		return "resolved"
	case ModeExited:
		return "exited"
	default:
		return fmt.Sprintf("AnnouncementMode(%q)", byte(m))
	}
}

// AddressFamily identifies the internet protocol an announcement was
// received over
type AddressFamily string

// Address family tokens as printed by avahi-browse
const (
	FamilyIPv4 AddressFamily = "IPv4"
	FamilyIPv6 AddressFamily = "IPv6"
)

// String returns the wire token for the family
func (f AddressFamily) String() string {
	return string(f)
}

// AnnouncementBase holds the fields present in every announcement,
// regardless of mode.
type AnnouncementBase struct {
	// Interface is the network interface the announcement arrived on
	Interface string
	// Family is the internet protocol of the announcement
	Family AddressFamily
	// Hostname is the advertised service name, escape-decoded
	Hostname string
	// Service is the mDNS service type (e.g. "_elg._tcp")
	Service string
	// Domain is the mDNS domain (typically "local")
	Domain string
}

// ServiceRecord holds the resolution data carried only by resolved
// announcements.
type ServiceRecord struct {
	// Name is the service name field of the record
	Name string
	// Hostname is the resolved mDNS hostname (e.g. "elgato-key-light-8d7c.local")
	Hostname string
	// IP is the address serving the service
	IP net.IP
	// Port is the TCP port the service listens on
	Port uint16
	// Data holds any remaining semicolon-delimited fields verbatim,
	// typically the quoted TXT attributes
	Data []string
}

// Announcement is one decoded line of avahi-browse output. The concrete
// type is one of NewAnnouncement, ResolvedAnnouncement or
// ExitedAnnouncement; the set is closed, so a type switch over the three
// covers every value ParseAnnouncement can return.
type Announcement interface {
	// Mode reports which lifecycle phase the announcement describes
	Mode() AnnouncementMode
	// Base returns the fields common to all announcement modes
	Base() AnnouncementBase
	// String returns a human-readable representation for logging
	String() string

	isAnnouncement()
}

// NewAnnouncement reports a service that appeared on the network. It
// carries no resolution data; a ResolvedAnnouncement for the same service
// typically follows.
type NewAnnouncement struct {
	AnnouncementBase
}

func (a *NewAnnouncement) Mode() AnnouncementMode { return ModeNew }
func (a *NewAnnouncement) Base() AnnouncementBase { return a.AnnouncementBase }
func (a *NewAnnouncement) isAnnouncement()        {}

func (a *NewAnnouncement) String() string {
	return fmt.Sprintf("New{iface=%s, family=%s, host=%q, type=%s, domain=%s}",
		a.Interface, a.Family, a.Hostname, a.Service, a.Domain)
}

// ResolvedAnnouncement reports a service together with the address, port
// and TXT data needed to reach it.
type ResolvedAnnouncement struct {
	AnnouncementBase
	// Service record carried by the resolution
	Record ServiceRecord
}

func (a *ResolvedAnnouncement) Mode() AnnouncementMode { return ModeResolved }
func (a *ResolvedAnnouncement) Base() AnnouncementBase { return a.AnnouncementBase }
func (a *ResolvedAnnouncement) isAnnouncement()        {}

func (a *ResolvedAnnouncement) String() string {
	return fmt.Sprintf("Resolved{iface=%s, family=%s, host=%q, addr=%s, port=%d, attrs=%d}",
		a.Interface, a.Family, a.Hostname, a.Record.IP, a.Record.Port, len(a.Record.Data))
}

// ExitedAnnouncement reports a service that left the network.
type ExitedAnnouncement struct {
	AnnouncementBase
}

func (a *ExitedAnnouncement) Mode() AnnouncementMode { return ModeExited }
func (a *ExitedAnnouncement) Base() AnnouncementBase { return a.AnnouncementBase }
func (a *ExitedAnnouncement) isAnnouncement()        {}

func (a *ExitedAnnouncement) String() string {
	return fmt.Sprintf("Exited{iface=%s, family=%s, host=%q, type=%s, domain=%s}",
		a.Interface, a.Family, a.Hostname, a.Service, a.Domain)
}

// ParseAnnouncement decodes one line of avahi-browse parsable output.
//
// Fields are semicolon-separated. Every line carries the mode character,
// interface, address family, escaped service name, service type and
// domain; resolved lines additionally carry the resolved hostname, IP
// address, port and any number of trailing TXT attribute fields. Errors
// are per-line DecodeError values; the caller chooses whether one bad
// line fails a batch or is skipped.
func ParseAnnouncement(line string) (Announcement, error) {
	fields := strings.Split(line, ";")
	pos := 0

	next := func() (string, error) {
		if pos >= len(fields) {
			return "", &DecodeError{Type: ErrTypeMissingField, Line: line}
		}
		f := fields[pos]
		pos++
		return f, nil
	}

	modeField, err := next()
	if err != nil {
		return nil, err
	}
	if modeField == "" {
		return nil, &DecodeError{Type: ErrTypeMissingField, Line: line}
	}
	modeChar, _ := utf8.DecodeRuneInString(modeField)
	var mode AnnouncementMode
	switch modeChar {
	case '+':
		mode = ModeNew
	case '=':
		mode = ModeResolved
	case '-':
		mode = ModeExited
	default:
		return nil, &DecodeError{Type: ErrTypeBadMode, Field: string(modeChar), Line: line}
	}

	iface, err := next()
	if err != nil {
		return nil, err
	}

	familyField, err := next()
	if err != nil {
		return nil, err
	}
	var family AddressFamily
	switch familyField {
	case string(FamilyIPv4):
		family = FamilyIPv4
	case string(FamilyIPv6):
		family = FamilyIPv6
	default:
		return nil, &DecodeError{Type: ErrTypeBadFamily, Field: familyField, Line: line}
	}

	hostField, err := next()
	if err != nil {
		return nil, err
	}
	// Escaped dots come first, then the decimal escapes
	hostname, err := decodeEscapedASCII(strings.ReplaceAll(hostField, `\.`, "."))
	if err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			decodeErr.Line = line
		}
		return nil, err
	}

	serviceType, err := next()
	if err != nil {
		return nil, err
	}

	domain, err := next()
	if err != nil {
		return nil, err
	}

	base := AnnouncementBase{
		Interface: iface,
		Family:    family,
		Hostname:  hostname,
		Service:   serviceType,
		Domain:    domain,
	}

	switch mode {
	case ModeNew:
		return &NewAnnouncement{AnnouncementBase: base}, nil
	case ModeExited:
		return &ExitedAnnouncement{AnnouncementBase: base}, nil
	}

	resolvedHost, err := next()
	if err != nil {
		return nil, err
	}

	addrField, err := next()
	if err != nil {
		return nil, err
	}
	ip := net.ParseIP(addrField)
	if ip == nil {
		return nil, &DecodeError{Type: ErrTypeBadAddress, Field: addrField, Line: line}
	}

	portField, err := next()
	if err != nil {
		return nil, err
	}
	port, err := strconv.ParseUint(portField, 10, 16)
	if err != nil {
		return nil, &DecodeError{Type: ErrTypeBadPort, Field: portField, Line: line, Err: err}
	}

	return &ResolvedAnnouncement{
		AnnouncementBase: base,
		Record: ServiceRecord{
			Name:     serviceType,
			Hostname: resolvedHost,
			IP:       ip,
			Port:     uint16(port),
			Data:     fields[pos:],
		},
	}, nil
}
