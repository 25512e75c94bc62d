package discovery

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of announcement decode failure
type ErrorType int

const (
	// ErrTypeBadMode indicates an unrecognized announcement mode character
	ErrTypeBadMode ErrorType = iota
	// ErrTypeBadFamily indicates an unrecognized address-family token
	ErrTypeBadFamily
	// ErrTypeMissingField indicates a line with too few semicolon-separated fields
	ErrTypeMissingField
	// ErrTypeBadAddress indicates an IP address field that failed to parse
	ErrTypeBadAddress
	// ErrTypeBadPort indicates a port field that is not an unsigned 16-bit integer
	ErrTypeBadPort
	// ErrTypeBadEscape indicates a \DDD escape whose value exceeds a single byte
	ErrTypeBadEscape
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeBadMode:
		return "bad mode"
	case ErrTypeBadFamily:
		return "bad address family"
	case ErrTypeMissingField:
		return "not enough arguments"
	case ErrTypeBadAddress:
		return "bad address"
	case ErrTypeBadPort:
		return "bad port"
	case ErrTypeBadEscape:
		return "bad escape"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DecodeError represents a failure to decode one announcement line.
// It is always a per-line error: callers decide whether one bad line
// fails a whole batch (one-shot snapshots) or is skipped (streaming).
type DecodeError struct {
	// Type is the category of decode failure
	Type ErrorType
	// Field is the offending field value, when one is identifiable
	Field string
	// Line is the full announcement line being decoded
	Line string
	// Err is the underlying parse error, if any
	Err error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	msg := e.Type.String()
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Field)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Err)
	}
	if e.Line != "" {
		msg = fmt.Sprintf("%s in line %q", msg, e.Line)
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err is (or wraps) a DecodeError
func IsDecodeError(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr)
}

// ToolNotFoundError indicates the external discovery utility is not
// installed. This is a user-actionable condition, distinct from decode
// and subprocess failures.
type ToolNotFoundError struct {
	// Tool is the missing executable name
	Tool string
	// Err is the underlying lookup error
	Err error
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("%s not found in PATH\n"+
		"Install on Debian/Ubuntu: sudo apt install avahi-utils\n"+
		"Install on Fedora: sudo dnf install avahi-tools\n"+
		"Install on Arch: sudo pacman -S avahi",
		e.Tool)
}

func (e *ToolNotFoundError) Unwrap() error {
	return e.Err
}

// IsToolNotFound reports whether err is (or wraps) a ToolNotFoundError
func IsToolNotFound(err error) bool {
	var toolErr *ToolNotFoundError
	return errors.As(err, &toolErr)
}

// BrowseError represents a failure to run the external discovery utility
// or to capture its output.
type BrowseError struct {
	// Tool is the executable that failed
	Tool string
	// ExitCode is the subprocess exit code (-1 when it never ran)
	ExitCode int
	// Stderr is the captured stderr output
	Stderr string
	// Err is the underlying error
	Err error
}

func (e *BrowseError) Error() string {
	msg := fmt.Sprintf("%s failed (exit code %d)", e.Tool, e.ExitCode)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Stderr != "" {
		msg = fmt.Sprintf("%s\nstderr: %s", msg, e.Stderr)
	}
	return msg
}

func (e *BrowseError) Unwrap() error {
	return e.Err
}

// ResolveError represents a failure to build a device base URL from an
// otherwise valid resolved announcement.
type ResolveError struct {
	// Name is the device name being resolved
	Name string
	// URL is the malformed URL that was constructed
	URL string
	// Err is the underlying parse error
	Err error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("failed to build URL %q for device %q: %v", e.URL, e.Name, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}
