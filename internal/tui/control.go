package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muurk/keylightctl/internal/discovery"
	"github.com/muurk/keylightctl/internal/keylight"
)

// Adjustment step per keypress
const (
	brightnessStep  = 5
	temperatureStep = 10
)

// statusLoadedMsg carries the result of any device operation: every
// command ends with a status read-back so the screen always shows what
// the device actually holds.
type statusLoadedMsg struct {
	status *keylight.Status
	err    error
}

// controlKeyMap defines key bindings for the control screen
type controlKeyMap struct {
	Toggle   key.Binding
	Brighter key.Binding
	Dimmer   key.Binding
	Warmer   key.Binding
	Cooler   key.Binding
	Refresh  key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k controlKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Brighter, k.Dimmer, k.Warmer, k.Cooler, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k controlKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Brighter, k.Dimmer},
		{k.Warmer, k.Cooler, k.Refresh},
		{k.Back, k.Quit},
	}
}

// ControlModel is the single-device control screen: live status plus
// keyboard power, brightness, and temperature adjustments.
type ControlModel struct {
	Device discovery.Device
	Client *keylight.Client

	Status *keylight.Status
	Err    error
	Busy   bool

	BackRequested bool

	Width  int
	Height int

	Spinner    spinner.Model
	Brightness progress.Model
	Help       help.Model
	Keys       controlKeyMap
}

// NewControlModel creates a control screen for the given device.
func NewControlModel(device discovery.Device) ControlModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	meter := progress.New(progress.WithGradient("#626262", "#F5A623"))
	meter.Width = 30

	keys := controlKeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "t"),
			key.WithHelp("space/t", "toggle"),
		),
		Brighter: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "brighter"),
		),
		Dimmer: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "dimmer"),
		),
		Warmer: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "warmer"),
		),
		Cooler: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "cooler"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	return ControlModel{
		Device:     device,
		Client:     keylight.NewClient(device.URL),
		Busy:       true,
		Width:      GetTerminalWidth(),
		Spinner:    s,
		Brightness: meter,
		Help:       help.New(),
		Keys:       keys,
	}
}

// SetSize records the terminal dimensions and fits the brightness
// meter to them.
func (m *ControlModel) SetSize(width, height int) {
	m.Width = width
	m.Height = height

	barWidth := width - 30
	if barWidth > 40 {
		barWidth = 40
	}
	if barWidth < 10 {
		barWidth = 10
	}
	m.Brightness.Width = barWidth
}

// Init fetches the initial status.
func (m ControlModel) Init() tea.Cmd {
	return tea.Batch(refreshCmd(m.Client), m.Spinner.Tick)
}

// refreshCmd reads the device status off the update loop.
func refreshCmd(client *keylight.Client) tea.Cmd {
	return func() tea.Msg {
		status, err := client.Status(context.Background())
		return statusLoadedMsg{status: status, err: err}
	}
}

// toggleCmd flips power on the first light, then reads back the result.
func toggleCmd(client *keylight.Client) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := client.Toggle(ctx); err != nil {
			return statusLoadedMsg{err: err}
		}
		status, err := client.Status(ctx)
		return statusLoadedMsg{status: status, err: err}
	}
}

// brightnessCmd applies a relative brightness change, then reads back
// the result.
func brightnessCmd(client *keylight.Client, delta int) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := client.AdjustBrightness(ctx, delta); err != nil {
			return statusLoadedMsg{err: err}
		}
		status, err := client.Status(ctx)
		return statusLoadedMsg{status: status, err: err}
	}
}

// temperatureCmd applies a relative temperature change, then reads
// back the result.
func temperatureCmd(client *keylight.Client, delta int) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := client.AdjustTemperature(ctx, delta); err != nil {
			return statusLoadedMsg{err: err}
		}
		status, err := client.Status(ctx)
		return statusLoadedMsg{status: status, err: err}
	}
}

// Update handles messages and updates the model
func (m ControlModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case statusLoadedMsg:
		m.Busy = false
		if msg.err != nil {
			// Keep the last known status visible under the error
			m.Err = msg.err
			return m, nil
		}
		m.Err = nil
		m.Status = msg.status
		return m, nil

	case spinner.TickMsg:
		if !m.Busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey handles keyboard input on the control screen.
func (m ControlModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Back):
		m.BackRequested = true
		return m, nil
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit
	}

	// One device operation at a time
	if m.Busy {
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.Keys.Toggle):
		cmd = toggleCmd(m.Client)
	case key.Matches(msg, m.Keys.Brighter):
		cmd = brightnessCmd(m.Client, brightnessStep)
	case key.Matches(msg, m.Keys.Dimmer):
		cmd = brightnessCmd(m.Client, -brightnessStep)
	case key.Matches(msg, m.Keys.Warmer):
		cmd = temperatureCmd(m.Client, temperatureStep)
	case key.Matches(msg, m.Keys.Cooler):
		cmd = temperatureCmd(m.Client, -temperatureStep)
	case key.Matches(msg, m.Keys.Refresh):
		cmd = refreshCmd(m.Client)
	default:
		return m, nil
	}

	m.Busy = true
	return m, tea.Batch(cmd, m.Spinner.Tick)
}

// View renders the control screen
func (m ControlModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + TitleStyle.Render(m.Device.Name))
	b.WriteString("\n")
	b.WriteString("  " + SubtitleStyle.Render(m.Device.URL))
	b.WriteString("\n\n")

	if m.Busy {
		b.WriteString("  " + m.Spinner.View() + " Talking to the light...")
		b.WriteString("\n\n")
	}

	if m.Err != nil {
		b.WriteString("  " + RenderError(m.Err.Error()))
		b.WriteString("\n\n")
	}

	switch {
	case m.Status != nil:
		b.WriteString(m.renderStatus())
	case !m.Busy && m.Err == nil:
		b.WriteString("  " + SubtitleStyle.Render("No status yet, press r to refresh"))
		b.WriteString("\n")
	}

	return RenderFrame(b.String(), m.Help.View(m.Keys), m.Width, m.Height)
}

// renderStatus renders the per-light state panel.
func (m ControlModel) renderStatus() string {
	var b strings.Builder

	for i := range m.Status.Lights {
		light := &m.Status.Lights[i]

		if m.Status.NumberOfLights > 1 {
			b.WriteString("  " + LabelStyle.Render(fmt.Sprintf("Light %d", i+1)))
			b.WriteString("\n")
		}

		badge := OffBadgeStyle.Render("● off")
		if light.On == keylight.PowerOn {
			badge = OnBadgeStyle.Render("● on")
		}
		b.WriteString("  " + LabelStyle.Render("Power        ") + badge)
		b.WriteString("\n")

		b.WriteString("  " + LabelStyle.Render("Brightness   "))
		b.WriteString(m.Brightness.ViewAs(float64(light.Brightness) / float64(keylight.MaxBrightness)))
		b.WriteString("\n")

		b.WriteString("  " + LabelStyle.Render("Temperature  "))
		b.WriteString(ValueStyle.Render(fmt.Sprintf("%d mired (%d K)", light.Temperature, light.Temperature.Kelvin())))
		b.WriteString("\n\n")
	}

	return b.String()
}
