package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muurk/keylightctl/internal/discovery"
)

// Messages for the async scan
type scanStartMsg struct{}

type scanCompleteMsg struct {
	devices []discovery.Device
	err     error
}

// pickerKeyMap defines key bindings when the device list is showing
type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Quit},
	}
}

// scanningKeyMap defines key bindings while a scan is running
type scanningKeyMap struct {
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k scanningKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k scanningKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit}}
}

// emptyKeyMap defines key bindings when a scan found nothing
type emptyKeyMap struct {
	Rescan key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k emptyKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Rescan, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k emptyKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Rescan, k.Quit}}
}

// deviceItem wraps a Device for use with bubbles/list
type deviceItem struct {
	device discovery.Device
}

func (d deviceItem) FilterValue() string { return d.device.Name + " " + d.device.URL }
func (d deviceItem) Title() string       { return d.device.Name }
func (d deviceItem) Description() string { return d.device.URL }

// PickerModel is the device selection screen: it scans once on entry
// and lists what the network answered.
type PickerModel struct {
	Scanning   bool
	DeviceList list.Model
	Selected   bool
	Err        error

	Width  int
	Height int

	Spinner      spinner.Model
	Help         help.Model
	Keys         pickerKeyMap
	ScanningKeys scanningKeyMap
	EmptyKeys    emptyKeyMap

	scan ScanFunc
}

// NewPickerModel creates a picker that discovers devices with scan.
func NewPickerModel(scan ScanFunc) PickerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(PrimaryColor).
		BorderLeftForeground(PrimaryColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(SubtleColor).
		BorderLeftForeground(PrimaryColor)

	deviceList := list.New([]list.Item{}, delegate, 0, 0)
	deviceList.Title = "Key Lights"
	deviceList.SetShowStatusBar(false)
	deviceList.SetFilteringEnabled(true)
	deviceList.Styles.Title = TitleStyle

	keys := pickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "control"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	scanningKeys := scanningKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	emptyKeys := emptyKeyMap{
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	return PickerModel{
		// The first scan starts immediately, so the first frame shows the
		// spinner rather than flashing the empty state
		Scanning:     true,
		Width:        GetTerminalWidth(),
		DeviceList:   deviceList,
		Spinner:      s,
		Help:         help.New(),
		Keys:         keys,
		ScanningKeys: scanningKeys,
		EmptyKeys:    emptyKeys,
		scan:         scan,
	}
}

// SetSize records the terminal dimensions and resizes the device list
// to fit inside the frame.
func (m *PickerModel) SetSize(width, height int) {
	m.Width = width
	m.Height = height

	listHeight := height - 8
	if listHeight < 5 {
		listHeight = 5
	}
	m.DeviceList.SetWidth(width - 6)
	m.DeviceList.SetHeight(listHeight)
}

// Init kicks off the first scan.
func (m PickerModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		scanCmd(m.scan),
		m.Spinner.Tick,
	)
}

// scanCmd runs one network scan off the update loop.
func scanCmd(scan ScanFunc) tea.Cmd {
	return func() tea.Msg {
		devices, err := scan()
		return scanCompleteMsg{devices: devices, err: err}
	}
}

// Update handles messages and updates the model
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case scanStartMsg:
		m.Scanning = true

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, len(msg.devices))
		for i, device := range msg.devices {
			items[i] = deviceItem{device: device}
		}
		m.DeviceList.SetItems(items)

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	if !m.Scanning {
		m.DeviceList, cmd = m.DeviceList.Update(msg)
	}
	return m, cmd
}

// handleKey handles keyboard input outside of list filtering.
func (m PickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The filter input owns the keyboard while active
	if m.DeviceList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.DeviceList, cmd = m.DeviceList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Enter):
		if !m.Scanning && m.DeviceList.SelectedItem() != nil {
			m.Selected = true
		}
		return m, nil

	case key.Matches(msg, m.Keys.Rescan):
		if m.Scanning {
			return m, nil
		}
		m.DeviceList.SetItems([]list.Item{})
		m.Err = nil
		return m, tea.Batch(
			func() tea.Msg { return scanStartMsg{} },
			scanCmd(m.scan),
			m.Spinner.Tick,
		)
	}

	var cmd tea.Cmd
	if !m.Scanning {
		m.DeviceList, cmd = m.DeviceList.Update(msg)
	}
	return m, cmd
}

// SelectedDevice returns the device chosen by the user, if any.
func (m PickerModel) SelectedDevice() *discovery.Device {
	if !m.Selected {
		return nil
	}
	item, ok := m.DeviceList.SelectedItem().(deviceItem)
	if !ok {
		return nil
	}
	device := item.device
	return &device
}

// View renders the picker screen
func (m PickerModel) View() string {
	var content string
	switch {
	case m.Scanning:
		content = m.renderScanning()
	case m.Err != nil:
		content = m.renderScanError()
	case len(m.DeviceList.Items()) == 0:
		content = m.renderEmpty()
	default:
		content = m.DeviceList.View()
	}

	var helpText string
	switch {
	case m.Scanning:
		helpText = m.Help.View(m.ScanningKeys)
	case m.Err != nil || len(m.DeviceList.Items()) == 0:
		helpText = m.Help.View(m.EmptyKeys)
	default:
		helpText = m.Help.View(m.Keys)
	}

	return RenderFrame(content, helpText, m.Width, m.Height)
}

// renderScanning renders the in-progress scan indicator.
func (m PickerModel) renderScanning() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + m.Spinner.View() + " Scanning for Key Lights...")
	b.WriteString("\n\n")
	b.WriteString("  " + SubtitleStyle.Render("Browsing for _elg._tcp services via Avahi"))
	b.WriteString("\n")
	return b.String()
}

// renderScanError renders a failed scan with troubleshooting hints.
func (m PickerModel) renderScanError() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + RenderError("Scan failed"))
	b.WriteString("\n\n")
	b.WriteString("  " + m.Err.Error())
	b.WriteString("\n\n")
	b.WriteString("  Troubleshooting:\n")
	b.WriteString("    • Check that avahi-browse is installed\n")
	b.WriteString("    • Check that the avahi daemon is running\n")
	b.WriteString("    • Press r to try again\n")
	return b.String()
}

// renderEmpty renders the no-devices state.
func (m PickerModel) renderEmpty() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + WarningStyle.Render("⚠ No Key Lights found on your network"))
	b.WriteString("\n\n")
	b.WriteString("  Troubleshooting:\n")
	b.WriteString("    • Make sure the light is powered on\n")
	b.WriteString("    • Make sure this machine is on the same network\n")
	b.WriteString("    • Press r to rescan\n")
	return b.String()
}
