package discovery

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"
)

const (
	// ServiceType is the mDNS service type Key Lights advertise
	ServiceType = "_elg._tcp"

	// browseTool is the external resolver this package shells out to
	browseTool = "avahi-browse"
)

// browseArgs builds the avahi-browse argument list. One-shot invocations
// pass terminate so the tool exits after the initial enumeration burst;
// streaming invocations leave it running.
func browseArgs(serviceType string, terminate bool) []string {
	args := []string{serviceType, "--parsable", "--resolve"}
	if terminate {
		args = append(args, "--terminate")
	}
	return args
}

// checkBrowseTool verifies avahi-browse is installed before any attempt
// to spawn it, so the not-installed case surfaces as its own error kind.
func checkBrowseTool() error {
	if _, err := exec.LookPath(browseTool); err != nil {
		return &ToolNotFoundError{Tool: browseTool, Err: err}
	}
	return nil
}

// Browse performs one-shot discovery: it runs avahi-browse in
// resolve-and-terminate mode, decodes every line of its output and
// returns the discovered devices deduplicated by name in first-seen
// order.
//
// Browse fails without a partial result when the tool is missing, when
// the subprocess cannot be run, or when any single line fails to decode
// or resolve. A partial and possibly inconsistent snapshot is worse than
// no snapshot. No timeout is imposed beyond the caller's context.
func Browse(ctx context.Context, serviceType string) ([]Device, error) {
	if serviceType == "" {
		serviceType = ServiceType
	}

	if err := checkBrowseTool(); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, browseTool, browseArgs(serviceType, true)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return nil, &BrowseError{
			Tool:     browseTool,
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
	}

	return decodeSnapshot(stdout.String())
}

// decodeSnapshot turns a full one-shot capture into the deduplicated
// device list. Any line that fails to decode or resolve aborts the whole
// batch.
func decodeSnapshot(output string) ([]Device, error) {
	devices := make([]Device, 0)
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		ann, err := ParseAnnouncement(scanner.Text())
		if err != nil {
			return nil, err
		}

		device, err := DeviceFromAnnouncement(ann)
		if err != nil {
			return nil, err
		}
		if device == nil {
			continue
		}

		if _, ok := seen[device.Name]; ok {
			continue
		}
		seen[device.Name] = struct{}{}
		devices = append(devices, *device)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return devices, nil
}
