package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/todolist/internal/config"
	"github.com/muurk/todolist/internal/discovery"
)

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	endpoints []*discovery.Endpoint
	err       error
}

// scanTickMsg advances the progress bar while a scan runs
type scanTickMsg time.Time

// endpointItem wraps an Endpoint for use with bubbles/list
type endpointItem struct {
	endpoint *discovery.Endpoint
}

// FilterValue implements list.Item
func (e endpointItem) FilterValue() string {
	return e.endpoint.Instance + " " + e.endpoint.IP + " " + e.endpoint.Host
}

// Title returns the service instance name for list display
func (e endpointItem) Title() string {
	return e.endpoint.Instance
}

// Description returns endpoint details for list display
func (e endpointItem) Description() string {
	desc := e.endpoint.URL()
	if e.endpoint.FeedURL() != "" {
		desc += " • live"
	}
	if v := e.endpoint.GetMetadata("version"); v != "" {
		desc += " • v" + v
	}
	return desc
}

// Target is the collection the user picked
type Target struct {
	URL     string
	FeedURL string
}

// DiscoveryModel is the endpoint discovery screen
type DiscoveryModel struct {
	Scanning     bool
	EndpointList list.Model
	Selected     *Target
	Err          error

	// Manual URL entry state
	ManualMode bool
	URLInput   textinput.Model
	InputErr   error

	Width         int
	Height        int
	Timeout       time.Duration
	Spinner       spinner.Model
	ProgressBar   progress.Model
	ScanStartTime time.Time
	Help          help.Model
	Keys          discoveryKeyMap
	ManualKeys    manualKeyMap

	ctx context.Context
}

// NewDiscoveryModel creates a discovery screen that scans for timeout
func NewDiscoveryModel(ctx context.Context, timeout time.Duration) DiscoveryModel {
	if timeout <= 0 {
		timeout = discovery.DefaultScanTimeout
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	urlInput := textinput.New()
	urlInput.Placeholder = "http://127.0.0.1:8080/todos"
	urlInput.Width = 50

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = 40

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(HighlightColor).BorderForeground(HighlightColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.BorderForeground(HighlightColor)

	endpoints := list.New([]list.Item{}, delegate, MinTerminalWidth, 10)
	endpoints.Title = "Discovered Collections"
	endpoints.SetShowStatusBar(false)
	endpoints.SetShowHelp(false)
	endpoints.SetFilteringEnabled(false)
	endpoints.Styles.Title = TitleStyle

	return DiscoveryModel{
		EndpointList: endpoints,
		URLInput:     urlInput,
		Timeout:      timeout,
		Spinner:      s,
		ProgressBar:  progressBar,
		Help:         help.New(),
		Keys:         newDiscoveryKeyMap(),
		ManualKeys:   newManualKeyMap(),
		ctx:          ctx,
	}
}

// Init starts scanning immediately
func (m DiscoveryModel) Init() tea.Cmd {
	return m.startScan()
}

func (m DiscoveryModel) startScan() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		scanEndpoints(m.ctx, m.Timeout),
		m.Spinner.Tick,
		scanTick(),
	)
}

// Update handles messages and updates the model
func (m DiscoveryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.EndpointList.SetWidth(msg.Width - 4)
		m.EndpointList.SetHeight(max(msg.Height-10, 4)) // Leave room for header/footer
		return m, nil

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()
		return m, nil

	case scanTickMsg:
		if !m.Scanning {
			return m, nil
		}
		return m, scanTick()

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, len(msg.endpoints))
		for i, ep := range msg.endpoints {
			items[i] = endpointItem{endpoint: ep}
		}
		m.EndpointList.SetItems(items)
		return m, nil

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	if m.ManualMode {
		m.URLInput, cmd = m.URLInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// updateNormalMode handles keyboard input in the endpoint list
func (m DiscoveryModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Manual):
		m.ManualMode = true
		m.InputErr = nil
		m.URLInput.SetValue("")
		return m, m.URLInput.Focus()
	}

	if m.Scanning {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Enter):
		if item, ok := m.EndpointList.SelectedItem().(endpointItem); ok {
			m.Selected = &Target{URL: item.endpoint.URL(), FeedURL: item.endpoint.FeedURL()}
		}
		return m, nil

	case key.Matches(msg, m.Keys.Rescan):
		m.EndpointList.SetItems([]list.Item{})
		m.Err = nil
		return m, m.startScan()
	}

	var cmd tea.Cmd
	m.EndpointList, cmd = m.EndpointList.Update(msg)
	return m, cmd
}

// updateManualMode handles keyboard input in manual URL entry mode
func (m DiscoveryModel) updateManualMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.ManualKeys.Cancel):
		m.ManualMode = false
		m.URLInput.Blur()
		return m, nil

	case key.Matches(msg, m.ManualKeys.Confirm):
		target, err := manualTarget(m.URLInput.Value())
		if err != nil {
			m.InputErr = err
			return m, nil
		}
		m.ManualMode = false
		m.URLInput.Blur()
		m.Selected = target
		return m, nil
	}

	var cmd tea.Cmd
	m.URLInput, cmd = m.URLInput.Update(msg)
	return m, cmd
}

// manualTarget validates a typed collection URL. Typed URLs have no feed.
func manualTarget(raw string) (*Target, error) {
	raw = strings.TrimSpace(raw)
	if err := config.ValidateURL(raw, "http", "https"); err != nil {
		return nil, err
	}
	return &Target{URL: raw}, nil
}

// View renders the discovery screen
func (m DiscoveryModel) View() string {
	width := m.Width
	if width == 0 {
		width = MinTerminalWidth
	}

	var content, helpText string
	switch {
	case m.ManualMode:
		content = m.renderManualEntry()
		helpText = m.Help.View(m.ManualKeys)
	case m.Scanning:
		content = m.renderScanning(width)
		helpText = m.Help.View(m.Keys)
	default:
		content = m.renderResults()
		helpText = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(content, helpText, "", m.Width, m.Height)
}

// renderScanning renders a centred progress display
func (m DiscoveryModel) renderScanning(width int) string {
	elapsed := time.Since(m.ScanStartTime)
	fraction := float64(elapsed) / float64(m.Timeout)
	if fraction > 1 {
		fraction = 1
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(fmt.Sprintf("%s SEARCHING FOR COLLECTIONS", m.Spinner.View())),
		SubtitleStyle.Render("Browsing "+discovery.ServiceType+" on the local network..."),
		"",
		m.ProgressBar.ViewAs(fraction),
		"",
		SubtitleStyle.Render(fmt.Sprintf("Elapsed: %ds", int(elapsed.Seconds()))),
		"",
	)

	return lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
}

// renderResults renders the endpoint list or a "none found" message
func (m DiscoveryModel) renderResults() string {
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case m.Err != nil:
		b.WriteString(ErrorTextStyle.Render(fmt.Sprintf("  ✗ Scan failed: %v", m.Err)))
		b.WriteString("\n\n")
		b.WriteString(troubleshooting())

	case len(m.EndpointList.Items()) == 0:
		warning := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		b.WriteString("  ")
		b.WriteString(warning.Render("⚠ No collection servers found on your network"))
		b.WriteString("\n\n")
		b.WriteString(troubleshooting())

	default:
		b.WriteString(m.EndpointList.View())
	}

	return b.String()
}

func troubleshooting() string {
	return "  Troubleshooting:\n" +
		"    • Start a local server with 'todolist-server serve'\n" +
		"    • mDNS does not cross routers or most VPNs\n" +
		"    • Press 'm' to type a collection URL instead\n"
}

// renderManualEntry renders the manual URL entry dialog
func (m DiscoveryModel) renderManualEntry() string {
	var b strings.Builder

	b.WriteString(RenderSubtitle("Enter a collection URL"))
	b.WriteString("\n\n  URL: ")
	b.WriteString(m.URLInput.View())
	b.WriteString("\n\n")

	if m.InputErr != nil {
		b.WriteString(ErrorTextStyle.Render("  " + m.InputErr.Error()))
		b.WriteString("\n")
	}

	return b.String()
}

// scanEndpoints is a command that performs endpoint discovery
func scanEndpoints(ctx context.Context, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		scanner := discovery.NewScanner()
		scanner.Timeout = timeout

		endpoints, err := scanner.Scan(ctx)
		return scanCompleteMsg{endpoints: endpoints, err: err}
	}
}

func scanTick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return scanTickMsg(t)
	})
}
