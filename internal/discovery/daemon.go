package discovery

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// DaemonConfig holds the configuration for a discovery daemon.
type DaemonConfig struct {
	// ServiceType is the mDNS service identifier to browse for.
	// Default: ServiceType ("_elg._tcp")
	ServiceType string

	// EventBuffer is the capacity of the change event channel.
	// Default: 64
	EventBuffer int
}

// DefaultDaemonConfig returns a DaemonConfig with sensible defaults.
func DefaultDaemonConfig() DaemonConfig {
	return DaemonConfig{
		ServiceType: ServiceType,
		EventBuffer: 64,
	}
}

// Daemon keeps a Registry current by running avahi-browse in streaming
// mode and applying every announcement as it arrives.
//
// The subprocess output is consumed on a dedicated goroutine. Each line is
// decoded and, on success, applied to the registry under its write lock;
// malformed lines and failed resolutions are logged and skipped so the
// stream never stops over one bad announcement. Registry change events
// are republished on the Events channel for consumers.
//
// The daemon runs until its context is cancelled (which terminates the
// subprocess) or the output stream ends because the subprocess died.
type Daemon struct {
	config   DaemonConfig
	registry *Registry
	logger   *zap.Logger

	events chan Event
	done   chan struct{}

	// err is set before done closes and must not be read earlier
	err error
}

// NewDaemon creates a daemon that will feed the given registry. A nil
// logger disables logging. Start must be called before the daemon does
// anything.
func NewDaemon(config DaemonConfig, registry *Registry, logger *zap.Logger) *Daemon {
	if config.ServiceType == "" {
		config.ServiceType = ServiceType
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = DefaultDaemonConfig().EventBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Daemon{
		config:   config,
		registry: registry,
		logger:   logger,
		events:   make(chan Event, config.EventBuffer),
		done:     make(chan struct{}),
	}
}

// Start spawns avahi-browse in streaming mode and begins consuming its
// output. It returns once the subprocess is running; the announcement
// stream is then processed in the background until the context is
// cancelled or the stream ends.
func (d *Daemon) Start(ctx context.Context) error {
	if err := checkBrowseTool(); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, browseTool, browseArgs(d.config.ServiceType, false)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", browseTool, err)
	}

	d.logger.Info("discovery daemon started",
		zap.String("service_type", d.config.ServiceType),
		zap.Int("pid", cmd.Process.Pid),
	)

	go d.run(ctx, cmd, stdout, &stderr)
	return nil
}

// run owns the daemon goroutine: it drains the announcement stream, then
// reaps the subprocess and records why the daemon stopped.
func (d *Daemon) run(ctx context.Context, cmd *exec.Cmd, stdout io.Reader, stderr *bytes.Buffer) {
	defer close(d.done)
	defer close(d.events)

	d.consume(stdout)

	err := cmd.Wait()
	switch {
	case ctx.Err() != nil:
		// Cancellation kills the subprocess, so the Wait error is expected
		d.logger.Info("discovery daemon stopped", zap.String("reason", ctx.Err().Error()))
	case err != nil:
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		d.err = &BrowseError{
			Tool:     browseTool,
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
		d.logger.Error("discovery stream ended unexpectedly", zap.Error(d.err))
	default:
		d.logger.Info("discovery stream ended")
	}
}

// consume applies the announcement stream to the registry line by line.
// Decode and resolution failures are logged and skipped; only the end of
// the stream stops the loop.
func (d *Daemon) consume(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		ann, err := ParseAnnouncement(line)
		if err != nil {
			d.logger.Warn("skipping malformed announcement",
				zap.String("line", line),
				zap.Error(err),
			)
			continue
		}
		d.logger.Debug("announcement received", zap.String("announcement", ann.String()))

		event, err := d.registry.Apply(ann)
		if err != nil {
			d.logger.Warn("skipping unresolvable device",
				zap.String("line", line),
				zap.Error(err),
			)
			continue
		}
		if event.Kind == "" {
			continue
		}

		d.publish(event)
	}

	if err := scanner.Err(); err != nil {
		d.logger.Error("error reading discovery stream", zap.Error(err))
	}
}

// publish forwards a change event to the consumer without ever blocking
// the announcement stream: with no consumer, or a stalled one, events are
// dropped once the buffer fills. Consumers that need the exact current
// state read a registry snapshot instead.
func (d *Daemon) publish(event Event) {
	select {
	case d.events <- event:
	default:
		d.logger.Debug("dropping change event, consumer is not keeping up",
			zap.String("kind", string(event.Kind)),
			zap.String("device", event.Device.Name),
		)
	}
}

// Events returns the channel of registry change events. The channel is
// closed when the daemon stops.
func (d *Daemon) Events() <-chan Event {
	return d.events
}

// Done returns a channel closed when the daemon goroutine has terminated.
func (d *Daemon) Done() <-chan struct{} {
	return d.done
}

// Err reports why the daemon stopped. It is valid only after Done is
// closed and is nil for a clean shutdown (context cancellation or end of
// stream).
func (d *Daemon) Err() error {
	return d.err
}

// Wait blocks until the daemon has terminated and returns Err.
func (d *Daemon) Wait() error {
	<-d.done
	return d.err
}
