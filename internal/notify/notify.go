package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"go.uber.org/zap"
)

const (
	notifyTool = "notify-send"

	// expiry for desktop notifications, in milliseconds
	defaultExpiry = "10000"

	// themed icon name, resolved by the desktop's icon theme
	iconName = "display-brightness-symbolic"
)

// Notifier delivers user-facing notifications about light state changes.
type Notifier struct {
	logger *zap.Logger
	out    io.Writer
}

// New creates a Notifier. A nil logger disables logging.
func New(logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		logger: logger,
		out:    os.Stdout,
	}
}

// Send delivers a notification with the given summary and body. It uses
// notify-send when available and falls back to stdout otherwise. Delivery
// is best effort and never returns an error.
func (n *Notifier) Send(ctx context.Context, summary, body string) {
	if _, err := exec.LookPath(notifyTool); err != nil {
		n.logger.Debug("notify-send not found, printing to stdout")
		n.fallback(summary, body)
		return
	}

	cmd := exec.CommandContext(ctx, notifyTool,
		"--expire-time="+defaultExpiry,
		"--icon="+iconName,
		"--app-name=keylightctl",
		summary, body)
	if err := cmd.Run(); err != nil {
		n.logger.Warn("notify-send failed, printing to stdout", zap.Error(err))
		n.fallback(summary, body)
	}
}

func (n *Notifier) fallback(summary, body string) {
	fmt.Fprintf(n.out, "🔔 %s: %s\n", summary, body)
}
