package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenDiscovery Screen = "discovery"
	ScreenTodos     Screen = "todos"
)

// Connector builds a session for a collection picked on the discovery screen
type Connector func(url string, feedURL string) Session

// Options configure the application
type Options struct {
	// Session is the starting session. Ignored when Discover is set.
	Session Session

	// Discover starts on the discovery screen and connects with Connect
	Discover    bool
	ScanTimeout time.Duration
	Connect     Connector

	// Live subscribes to the endpoint's change feed, when it has one
	Live bool
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	CurrentScreen Screen

	DiscoveryModel DiscoveryModel
	TodoModel      TodoModel

	Width  int
	Height int

	opts Options
	ctx  context.Context
}

// NewAppModel creates the application. ctx bounds all background work.
func NewAppModel(ctx context.Context, opts Options) (AppModel, error) {
	m := AppModel{opts: opts, ctx: ctx}

	if opts.Discover {
		if opts.Connect == nil {
			return m, errors.New("discovery requires a connector")
		}
		m.CurrentScreen = ScreenDiscovery
		m.DiscoveryModel = NewDiscoveryModel(ctx, opts.ScanTimeout)
		return m, nil
	}

	if opts.Session.Controller == nil {
		return m, errors.New("no session to start with")
	}
	m.CurrentScreen = ScreenTodos
	m.TodoModel = NewTodoModel(ctx, opts.Session, opts.Live)
	return m, nil
}

// Init initializes the current screen
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.DiscoveryModel.Init()
	case ScreenTodos:
		return m.TodoModel.Init()
	default:
		return nil
	}
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		// Only the active screen is initialized; connect copies the size over
		return m.updateCurrentScreen(msg)

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenDiscovery:
		updated, c := m.DiscoveryModel.Update(msg)
		m.DiscoveryModel = updated.(DiscoveryModel)
		cmd = c

		if target := m.DiscoveryModel.Selected; target != nil {
			return m.connect(*target)
		}

	case ScreenTodos:
		updated, c := m.TodoModel.Update(msg)
		m.TodoModel = updated.(TodoModel)
		cmd = c
	}

	return m, cmd
}

// connect switches from discovery to the main screen
func (m AppModel) connect(target Target) (tea.Model, tea.Cmd) {
	session := m.opts.Connect(target.URL, target.FeedURL)

	m.TodoModel = NewTodoModel(m.ctx, session, m.opts.Live)
	m.TodoModel.Width = m.Width
	m.TodoModel.Height = m.Height
	m.TodoModel.Help.Width = m.Width
	m.CurrentScreen = ScreenTodos

	return m, m.TodoModel.Init()
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.DiscoveryModel.View()
	case ScreenTodos:
		return m.TodoModel.View()
	default:
		return "Unknown screen"
	}
}

// Run runs the application full screen until the user quits.
// In-flight requests and the feed subscription end when Run returns.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model, err := NewAppModel(ctx, opts)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
