package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/muurk/keylightctl/internal/bridge"
	"github.com/muurk/keylightctl/internal/config"
	"github.com/muurk/keylightctl/internal/discovery"
	"github.com/muurk/keylightctl/internal/keylight"
	"github.com/muurk/keylightctl/internal/logging"
	"github.com/muurk/keylightctl/internal/notify"
	"github.com/muurk/keylightctl/internal/tui"
)

// Default step for the relative adjustment commands, matching the TUI's
// coarse keys.
const defaultStep = 10

// Command flags
var (
	deviceName string
	deviceURL  string

	scanTimeout int
	statusJSON  bool

	setBrightness  keylight.Brightness
	setTemperature keylight.Temperature

	serveListen   string
	serveLogLevel string
)

func init() {
	// Common flags for device commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&deviceName, "device", "", "Device name as discovered (e.g. \"Elgato Key Light 8D7C\")")
	rootCmd.PersistentFlags().StringVar(&deviceURL, "url", "", "Device base URL (e.g. http://192.168.0.92:9123/), skips discovery")

	// Add subcommands directly to root
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(onCmd)
	rootCmd.AddCommand(offCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(incrBrightnessCmd)
	rootCmd.AddCommand(decrBrightnessCmd)
	rootCmd.AddCommand(incrTemperatureCmd)
	rootCmd.AddCommand(decrTemperatureCmd)
	rootCmd.AddCommand(serveCmd)
}

// discoverCmd takes a one-shot snapshot of the lights on the network
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover Key Lights on the network",
	Long: `Discover Elgato Key Lights using mDNS/DNS-SD.

This command runs one enumeration burst of avahi-browse and displays every
light it resolved, with the HTTP base URL to control it.`,
	Example: `  # Discover with the configured timeout (default 10s)
  keylightctl discover

  # Quick 3-second scan
  keylightctl discover --timeout 3

  # Longer scan for networks with many devices
  keylightctl discover --timeout 30`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().IntVar(&scanTimeout, "timeout", config.DefaultDiscoveryTimeout, "Scan timeout in seconds")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	timeout := cfg.DiscoveryBudget()
	if cmd.Flags().Changed("timeout") {
		timeout = time.Duration(scanTimeout) * time.Second
	}

	fmt.Printf("Browsing for Key Lights (timeout: %s)...\n\n", timeout)

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	devices, err := discovery.Browse(ctx, discovery.ServiceType)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No Key Lights found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the light is powered on and on the same network")
		fmt.Println("  - Check that the Avahi daemon is running (systemctl status avahi-daemon)")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Println("  - Use --url to address the light directly if discovery fails")
		return nil
	}

	fmt.Printf("Found %d device(s):\n\n", len(devices))

	for i, device := range devices {
		fmt.Printf("%d. %s\n", i+1, device.Name)
		fmt.Printf("   URL: %s\n", device.URL)
		fmt.Println()
	}

	fmt.Println("Use 'keylightctl status --device <name>' to view a light's state")
	fmt.Println("Use 'keylightctl' without arguments for the interactive picker")

	return nil
}

// watchCmd runs the discovery daemon in the foreground
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch lights appearing and disappearing",
	Long: `Run the discovery daemon in the foreground and print every registry
change as it happens. Lights entering the network are printed with a leading
"+", lights leaving with a leading "-".

Press Ctrl-C to stop.`,
	Example: `  # Watch until interrupted
  keylightctl watch`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.GetLogger()
	registry := discovery.NewRegistry(logger)
	daemon := discovery.NewDaemon(discovery.DefaultDaemonConfig(), registry, logger)
	if err := daemon.Start(ctx); err != nil {
		return err
	}

	fmt.Println("Watching for Key Lights (Ctrl-C to stop)...")
	for event := range daemon.Events() {
		switch event.Kind {
		case discovery.EventAdded:
			fmt.Printf("+ %s\n", event.Device)
		case discovery.EventRemoved:
			fmt.Printf("- %s\n", event.Device)
		}
	}

	return daemon.Wait()
}

// statusCmd displays the current state of a light
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the light's current state",
	Long: `Display the selected light's power state, brightness, and color
temperature.`,
	Example: `  # Status with auto-discovery (works unattended with one light)
  keylightctl status

  # Status of a specific light
  keylightctl status --device "Elgato Key Light 8D7C"

  # Raw device document for scripting
  keylightctl status --url http://192.168.0.92:9123/ --json`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print the raw device document as JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, label, err := deviceClient(cmd.Context())
	if err != nil {
		return err
	}

	status, err := client.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read status: %w", err)
	}

	if statusJSON {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(label)
	for i, light := range status.Lights {
		if status.NumberOfLights > 1 {
			fmt.Printf("Light %d:\n", i+1)
		}
		fmt.Printf("  Power:       %s\n", light.On)
		fmt.Printf("  Brightness:  %d%%\n", light.Brightness)
		fmt.Printf("  Temperature: %d mired (%d K)\n", light.Temperature, light.Temperature.Kelvin())
	}

	return nil
}

// onCmd turns the light on
var onCmd = &cobra.Command{
	Use:   "on",
	Short: "Turn the light on",
	Example: `  # Turn on the sole light on the network
  keylightctl on

  # Turn on a specific light
  keylightctl on --device "Elgato Key Light 8D7C"`,
	RunE: runOn,
}

func runOn(cmd *cobra.Command, args []string) error {
	return runPower(cmd, keylight.PowerOn)
}

// offCmd turns the light off
var offCmd = &cobra.Command{
	Use:   "off",
	Short: "Turn the light off",
	Example: `  # Turn off the sole light on the network
  keylightctl off`,
	RunE: runOff,
}

func runOff(cmd *cobra.Command, args []string) error {
	return runPower(cmd, keylight.PowerOff)
}

func runPower(cmd *cobra.Command, state keylight.PowerState) error {
	client, label, err := deviceClient(cmd.Context())
	if err != nil {
		return err
	}

	if err := client.SetPower(cmd.Context(), state); err != nil {
		return fmt.Errorf("failed to turn %s: %w", state, err)
	}

	fmt.Printf("Key Light turned %s\n", state)
	sendNotification(cmd.Context(), fmt.Sprintf("%s turned %s", label, state))
	return nil
}

// toggleCmd flips the light's power state
var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle the light on/off",
	Example: `  # Toggle the sole light on the network
  keylightctl toggle`,
	RunE: runToggle,
}

func runToggle(cmd *cobra.Command, args []string) error {
	client, label, err := deviceClient(cmd.Context())
	if err != nil {
		return err
	}

	state, err := client.Toggle(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to toggle: %w", err)
	}

	fmt.Printf("Key Light toggled %s\n", state)
	sendNotification(cmd.Context(), fmt.Sprintf("%s is now %s", label, state))
	return nil
}

// setCmd sets absolute brightness and temperature levels
var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Set brightness and/or color temperature",
	Long: `Set absolute levels on the light. At least one of --brightness and
--temperature must be given. Out-of-range values are rejected before any
request is sent.`,
	Example: `  # Half brightness
  keylightctl set --brightness 50

  # Warmest temperature the hardware supports
  keylightctl set --temperature 344

  # Both at once
  keylightctl set --brightness 20 --temperature 200`,
	RunE: runSet,
}

func init() {
	levelFlags(setCmd.Flags())
}

// levelFlags registers the bounded level flags. The level types implement
// pflag.Value, so out-of-range input fails at parse time with the valid
// range in the message.
func levelFlags(flags *pflag.FlagSet) {
	flags.Var(&setBrightness, "brightness", "Brightness percent (0-100)")
	flags.Var(&setTemperature, "temperature", "Color temperature in mired (143-344)")
}

func runSet(cmd *cobra.Command, args []string) error {
	brightnessGiven := cmd.Flags().Changed("brightness")
	temperatureGiven := cmd.Flags().Changed("temperature")
	if !brightnessGiven && !temperatureGiven {
		return fmt.Errorf("nothing to set: provide --brightness and/or --temperature")
	}

	client, label, err := deviceClient(cmd.Context())
	if err != nil {
		return err
	}

	var changes []string

	if brightnessGiven {
		if err := client.SetBrightness(cmd.Context(), setBrightness); err != nil {
			return fmt.Errorf("failed to set brightness: %w", err)
		}
		fmt.Printf("Brightness set to %d%%\n", setBrightness)
		changes = append(changes, fmt.Sprintf("brightness %d%%", setBrightness))
	}

	if temperatureGiven {
		if err := client.SetTemperature(cmd.Context(), setTemperature); err != nil {
			return fmt.Errorf("failed to set temperature: %w", err)
		}
		fmt.Printf("Temperature set to %d mired (%d K)\n", setTemperature, setTemperature.Kelvin())
		changes = append(changes, fmt.Sprintf("temperature %d mired", setTemperature))
	}

	sendNotification(cmd.Context(), fmt.Sprintf("%s: %s", label, strings.Join(changes, ", ")))
	return nil
}

// incrBrightnessCmd raises brightness by a step
var incrBrightnessCmd = &cobra.Command{
	Use:   "incr-brightness [amount]",
	Short: "Increase brightness",
	Long: `Raise the light's brightness by the given amount (percentage points,
default 10). The result saturates at 100.`,
	Example: `  # One step up
  keylightctl incr-brightness

  # Finer step
  keylightctl incr-brightness 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIncrBrightness,
}

func runIncrBrightness(cmd *cobra.Command, args []string) error {
	return adjustBrightness(cmd, args, 1)
}

// decrBrightnessCmd lowers brightness by a step
var decrBrightnessCmd = &cobra.Command{
	Use:   "decr-brightness [amount]",
	Short: "Decrease brightness",
	Long: `Lower the light's brightness by the given amount (percentage points,
default 10). The result saturates at 0.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDecrBrightness,
}

func runDecrBrightness(cmd *cobra.Command, args []string) error {
	return adjustBrightness(cmd, args, -1)
}

func adjustBrightness(cmd *cobra.Command, args []string, sign int) error {
	amount, err := stepAmount(args)
	if err != nil {
		return err
	}

	client, label, err := deviceClient(cmd.Context())
	if err != nil {
		return err
	}

	value, err := client.AdjustBrightness(cmd.Context(), sign*amount)
	if err != nil {
		return fmt.Errorf("failed to adjust brightness: %w", err)
	}

	fmt.Printf("Brightness is now %d%%\n", value)
	sendNotification(cmd.Context(), fmt.Sprintf("%s brightness is now %d%%", label, value))
	return nil
}

// incrTemperatureCmd warms the light by a step
var incrTemperatureCmd = &cobra.Command{
	Use:   "incr-temperature [amount]",
	Short: "Increase color temperature (warmer)",
	Long: `Raise the light's color temperature by the given amount (mired,
default 10). Higher mired values are warmer. The result saturates at 344.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIncrTemperature,
}

func runIncrTemperature(cmd *cobra.Command, args []string) error {
	return adjustTemperature(cmd, args, 1)
}

// decrTemperatureCmd cools the light by a step
var decrTemperatureCmd = &cobra.Command{
	Use:   "decr-temperature [amount]",
	Short: "Decrease color temperature (cooler)",
	Long: `Lower the light's color temperature by the given amount (mired,
default 10). Lower mired values are cooler. The result saturates at 143.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDecrTemperature,
}

func runDecrTemperature(cmd *cobra.Command, args []string) error {
	return adjustTemperature(cmd, args, -1)
}

func adjustTemperature(cmd *cobra.Command, args []string, sign int) error {
	amount, err := stepAmount(args)
	if err != nil {
		return err
	}

	client, label, err := deviceClient(cmd.Context())
	if err != nil {
		return err
	}

	value, err := client.AdjustTemperature(cmd.Context(), sign*amount)
	if err != nil {
		return fmt.Errorf("failed to adjust temperature: %w", err)
	}

	fmt.Printf("Temperature is now %d mired (%d K)\n", value, value.Kelvin())
	sendNotification(cmd.Context(), fmt.Sprintf("%s temperature is now %d mired", label, value))
	return nil
}

// serveCmd runs the discovery daemon with the bridge server on top
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the discovery daemon and bridge server",
	Long: `Run the streaming discovery daemon and expose the live device registry
over HTTP for local consumers (status bars, scripts, other tools).

Endpoints:
  GET /api/devices   current device list as JSON
  GET /api/events    WebSocket stream of add/remove events
  GET /healthz       liveness check

The server binds to loopback by default and stops cleanly on Ctrl-C or when
the discovery stream dies.`,
	Example: `  # Serve on the default address (127.0.0.1:9124)
  keylightctl serve

  # Custom listen address with debug logging
  keylightctl serve --listen 127.0.0.1:8080 --log-level debug`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (default from config, "+config.DefaultBridgeListen+")")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// The environment variable wins when set and the flag was left at its
	// default.
	level := serveLogLevel
	if env := os.Getenv(logging.LogLevelEnvVar); env != "" && !cmd.Flags().Changed("log-level") {
		level = env
	}
	if err := logging.Initialize(level); err != nil {
		return err
	}
	logger := logging.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	listen := serveListen
	if listen == "" {
		listen = cfg.ListenAddr()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	registry := discovery.NewRegistry(logger)
	daemon := discovery.NewDaemon(discovery.DefaultDaemonConfig(), registry, logger)
	if err := daemon.Start(ctx); err != nil {
		return err
	}

	// The bridge must not outlive the discovery stream feeding it
	go func() {
		<-daemon.Done()
		cancel()
	}()

	server := bridge.New(bridge.Config{ListenAddr: listen}, registry, daemon.Events(), logger)
	if err := server.Run(ctx); err != nil {
		return err
	}

	return daemon.Wait()
}

// runTUI launches the interactive picker/control interface. It is the
// root command's default action.
func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	scan := func() ([]discovery.Device, error) {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.DiscoveryBudget())
		defer cancel()
		return discovery.Browse(ctx, discovery.ServiceType)
	}

	var model tea.Model

	switch {
	case deviceURL != "":
		// Manually addressed light; verify we can reach it before
		// committing the terminal to the TUI
		client := keylight.NewClient(deviceURL)
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		if _, err := client.Status(ctx); err != nil {
			return fmt.Errorf("failed to connect to device at %s: %w", deviceURL, err)
		}

		device := &discovery.Device{Name: deviceURL, URL: deviceURL}
		model = tui.NewAppModel(scan, device)

	case deviceName != "":
		device, err := selectDevice(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		model = tui.NewAppModel(scan, device)

	default:
		// Start with the picker screen (will auto-scan)
		model = tui.NewAppModel(scan, nil)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// selectDevice picks the light to control. Resolution order: --device flag,
// then the config default device, then a sole discovered device. Anything
// else is an error listing the candidates.
func selectDevice(ctx context.Context, cfg *config.Config) (*discovery.Device, error) {
	name := deviceName
	if name == "" {
		name = cfg.DefaultDevice
	}

	browseCtx, cancel := context.WithTimeout(ctx, cfg.DiscoveryBudget())
	defer cancel()

	fmt.Println("Discovering Key Lights...")
	devices, err := discovery.Browse(browseCtx, discovery.ServiceType)
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}

	if name != "" {
		for _, device := range devices {
			if device.Name == name {
				return &device, nil
			}
		}
		return nil, fmt.Errorf("device %q not found. Run 'keylightctl discover' to list devices", name)
	}

	if len(devices) == 0 {
		return nil, fmt.Errorf("no Key Lights found. Use --device or --url to specify one manually")
	}

	if len(devices) > 1 {
		fmt.Printf("Found %d devices:\n", len(devices))
		for i, device := range devices {
			fmt.Printf("%d. %s\n", i+1, device)
		}
		return nil, fmt.Errorf("multiple Key Lights found. Use --device flag to specify which one")
	}

	// Exactly one device found
	device := devices[0]
	fmt.Printf("Found device: %s\n\n", device)
	return &device, nil
}

// deviceClient resolves the target light and returns an API client for it
// plus a human-readable label. --url bypasses discovery entirely.
func deviceClient(ctx context.Context) (*keylight.Client, string, error) {
	if deviceURL != "" {
		return keylight.NewClient(deviceURL), deviceURL, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, "", err
	}

	device, err := selectDevice(ctx, cfg)
	if err != nil {
		return nil, "", err
	}

	return keylight.NewClient(device.URL), device.Name, nil
}

// stepAmount parses the optional positional amount for the relative
// adjustment commands.
func stepAmount(args []string) (int, error) {
	if len(args) == 0 {
		return defaultStep, nil
	}

	amount, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", args[0], err)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive, got %d", amount)
	}
	return amount, nil
}

// sendNotification delivers a desktop notification for a state change when
// enabled in the config. Delivery is best effort.
func sendNotification(ctx context.Context, body string) {
	cfg, err := config.Load()
	if err != nil || !cfg.Notifications {
		return
	}

	notifier := notify.New(logging.GetLogger())
	notifier.Send(ctx, "Key Light Controller", body)
}
