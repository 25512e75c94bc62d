// Keylightctl discovers and controls Elgato Key Lights on the local network.
//
// It finds lights via mDNS (using the system's avahi-browse), controls them
// over their HTTP API, and can run a small daemon that streams discovery
// events to local consumers over WebSocket.
//
// Usage:
//
//	keylightctl [command] [flags]
//
// Running without arguments launches the interactive TUI.
// See 'keylightctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/keylightctl/internal/logging"
	"github.com/muurk/keylightctl/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logging.Sync()
		os.Exit(1)
	}
	logging.Sync()
}

var rootCmd = &cobra.Command{
	Use:   "keylightctl",
	Short: "Elgato Key Light Controller",
	Long: `A controller for Elgato Key Lights on the local network.

Lights are discovered via mDNS and controlled over their HTTP API. Control
commands discover the light automatically; use --device to pick one by name
or --url to skip discovery entirely.

If no command is specified, the interactive TUI will launch automatically.`,
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Silent unless KEYLIGHTCTL_LOG_LEVEL is set; serve overrides this
		// with its --log-level flag.
		return logging.InitializeFromEnv()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the TUI when no subcommand provided
		return runTUI(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("keylightctl %s\n", version.Full())
	},
}
