package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/todolist/internal/collection"
	"github.com/muurk/todolist/internal/feed"
	"github.com/muurk/todolist/internal/logging"
	"github.com/muurk/todolist/internal/todo"
)

// Session is one connection to a collection endpoint
type Session struct {
	Controller *todo.Controller
	Alerts     *todo.AlertQueue // must be the controller's alerter
	Endpoint   string
	FeedURL    string // empty when the endpoint has no change feed
}

// focus is a stop in the tab ring
type focus int

const (
	focusInput focus = iota
	focusAdd
	focusUpdate
	focusDelete
	focusList
	focusCount
)

type action string

const (
	actionAdd    action = "add"
	actionUpdate action = "update"
	actionDelete action = "delete"
)

// Messages for async operations
type refreshDoneMsg struct{ err error }
type actionDoneMsg struct{ action action }
type feedEventMsg struct{ event feed.Event }
type feedClosedMsg struct{ err error }

// TodoModel is the main screen: input, action buttons and the record list
type TodoModel struct {
	Session Session
	Live    bool

	Input   textinput.Model
	Spinner spinner.Model
	List    ListView

	Focus  focus
	Cursor int

	// Busy is set while an add/update/delete is in flight
	Busy bool

	// Alerts waiting to be acknowledged, oldest first
	Alerts []string

	LiveStatus string

	Width  int
	Height int

	Help      help.Model
	Keys      todoKeyMap
	AlertKeys alertKeyMap

	ctx    context.Context
	events chan feed.Event
}

// NewTodoModel creates the main screen for a session. ctx bounds every
// request and the feed subscription.
func NewTodoModel(ctx context.Context, session Session, live bool) TodoModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	input := textinput.New()
	input.Placeholder = "Enter a title"
	input.Prompt = "› "
	input.PromptStyle = FocusedInputStyle
	input.Width = 40
	input.Focus()

	m := TodoModel{
		Session:   session,
		Live:      live && session.FeedURL != "",
		Input:     input,
		Spinner:   s,
		List:      ListView{OnSelectItem: session.Controller.HandleSelectItem},
		Focus:     focusInput,
		Help:      help.New(),
		Keys:      newTodoKeyMap(),
		AlertKeys: newAlertKeyMap(),
		ctx:       ctx,
	}
	if m.Live {
		m.events = make(chan feed.Event, 16)
		m.LiveStatus = "live: connecting"
	}
	return m
}

// Init fetches the list (the mount fetch) and starts the feed in live mode
func (m TodoModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.Spinner.Tick, textinput.Blink, m.refreshCmd()}
	if m.Live {
		cmds = append(cmds, subscribeCmd(m.ctx, m.Session.FeedURL, m.events), waitForEvent(m.ctx, m.events))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m TodoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if len(m.Alerts) > 0 {
			if key.Matches(msg, m.AlertKeys.Dismiss) {
				m.Alerts = m.Alerts[1:]
			}
			return m, nil
		}
		return m.updateKeys(msg)

	case refreshDoneMsg:
		m.clampCursor()
		return m, nil

	case actionDoneMsg:
		m.Busy = false
		m.Input.SetValue(m.Session.Controller.Draft().Value())
		m.Input.CursorEnd()
		m.collectAlerts()
		m.clampCursor()
		return m, nil

	case feedEventMsg:
		m.LiveStatus = "live: " + msg.event.String()
		return m, tea.Batch(m.refreshCmd(), waitForEvent(m.ctx, m.events))

	case feedClosedMsg:
		if msg.err != nil && !collection.IsCanceled(msg.err) {
			m.LiveStatus = "live feed unavailable: " + msg.err.Error()
		} else {
			m.LiveStatus = "live feed closed"
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	if m.Focus == focusInput {
		var cmd tea.Cmd
		m.Input, cmd = m.Input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m TodoModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Next):
		m.setFocus((m.Focus + 1) % focusCount)
		return m, nil

	case key.Matches(msg, m.Keys.Prev):
		m.setFocus((m.Focus + focusCount - 1) % focusCount)
		return m, nil

	case key.Matches(msg, m.Keys.Refresh):
		return m, m.refreshCmd()
	}

	if m.Focus == focusList {
		switch {
		case key.Matches(msg, m.Keys.Up):
			if m.Cursor > 0 {
				m.Cursor--
			}
			return m, nil
		case key.Matches(msg, m.Keys.Down):
			if m.Cursor < len(m.visible())-1 {
				m.Cursor++
			}
			return m, nil
		}
	}

	// Everything below mutates the draft or starts an action
	if m.Busy {
		return m, nil
	}

	if key.Matches(msg, m.Keys.Enter) {
		switch m.Focus {
		case focusInput, focusAdd:
			return m.runAction(actionAdd)
		case focusUpdate:
			return m.runAction(actionUpdate)
		case focusDelete:
			return m.runAction(actionDelete)
		case focusList:
			if m.List.Select(m.Session.Controller.Snapshot().Data, m.Cursor) {
				m.Input.SetValue(m.Session.Controller.Draft().Value())
				m.Input.CursorEnd()
			}
			return m, nil
		}
	}

	if m.Focus != focusInput {
		return m, nil
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	m.Session.Controller.Draft().OnChangeText(m.Input.Value())
	return m, cmd
}

func (m *TodoModel) setFocus(f focus) {
	m.Focus = f
	if f == focusInput {
		m.Input.PromptStyle = FocusedInputStyle
		m.Input.Focus()
		return
	}
	m.Input.PromptStyle = BlurredInputStyle
	m.Input.Blur()
}

// runAction starts a mutating action off the UI goroutine
func (m TodoModel) runAction(a action) (tea.Model, tea.Cmd) {
	m.Busy = true
	ctrl, ctx := m.Session.Controller, m.ctx

	return m, func() tea.Msg {
		switch a {
		case actionAdd:
			ctrl.HandleAdd(ctx)
		case actionUpdate:
			ctrl.HandleUpdate(ctx)
		case actionDelete:
			ctrl.HandleDelete(ctx)
		}
		return actionDoneMsg{action: a}
	}
}

func (m TodoModel) refreshCmd() tea.Cmd {
	ctrl, ctx := m.Session.Controller, m.ctx
	return func() tea.Msg {
		return refreshDoneMsg{err: ctrl.Refresh(ctx)}
	}
}

func (m *TodoModel) collectAlerts() {
	if m.Session.Alerts == nil {
		return
	}
	m.Alerts = append(m.Alerts, m.Session.Alerts.Drain()...)
}

func (m TodoModel) visible() []collection.Record {
	return VisibleRecords(m.Session.Controller.Snapshot().Data)
}

func (m *TodoModel) clampCursor() {
	n := len(m.visible())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// subscribeCmd runs the feed subscription until ctx ends or the server closes it
func subscribeCmd(ctx context.Context, url string, events chan<- feed.Event) tea.Cmd {
	return func() tea.Msg {
		err := feed.Subscribe(ctx, url, func(e feed.Event) {
			select {
			case events <- e:
			default:
				// A refresh is already queued; it will pick this change up
				logging.Debug("Dropped feed event", zap.String("event", e.String()))
			}
		})
		return feedClosedMsg{err: err}
	}
}

func waitForEvent(ctx context.Context, events <-chan feed.Event) tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-events:
			return feedEventMsg{event: e}
		case <-ctx.Done():
			return nil
		}
	}
}

// View renders the main screen, or the oldest pending alert over it
func (m TodoModel) View() string {
	if len(m.Alerts) > 0 {
		return m.renderAlert(m.Alerts[0])
	}
	return RenderApplicationContainer(m.buildContent(), m.Help.View(m.Keys), m.Session.Endpoint, m.Width, m.Height)
}

func (m TodoModel) buildContent() string {
	width := m.Width - 6
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	if width > MaxContentWidth {
		width = MaxContentWidth
	}

	snap := m.Session.Controller.Snapshot()
	selected := m.Session.Controller.Selected()

	var b strings.Builder

	b.WriteString(m.Input.View())
	b.WriteString("\n")

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		RenderButton("Add", m.Focus == focusAdd, m.Busy),
		" ",
		RenderButton("Update", m.Focus == focusUpdate, m.Busy),
		" ",
		RenderButton("Delete", m.Focus == focusDelete, m.Busy),
	)
	b.WriteString(buttons)
	b.WriteString("\n")

	b.WriteString(m.statusLine(selected))
	b.WriteString("\n\n")

	cursor := -1
	if m.Focus == focusList {
		cursor = m.Cursor
	}
	selectedID := ""
	if selected != nil {
		selectedID = selected.ID
	}

	b.WriteString(m.List.Render(ListProps{
		Data:       snap.Data,
		Loading:    snap.Loading,
		Err:        snap.Err,
		Cursor:     cursor,
		SelectedID: selectedID,
		Spinner:    m.Spinner.View(),
		Width:      width,
	}))

	return b.String()
}

func (m TodoModel) statusLine(selected *collection.Record) string {
	var parts []string
	if m.Busy {
		parts = append(parts, m.Spinner.View()+" working")
	}
	if selected != nil {
		parts = append(parts, "selected "+SelectedMarkStyle.Render(selected.String()))
	}
	if m.LiveStatus != "" {
		parts = append(parts, LiveStyle.Render(m.LiveStatus))
	}
	if len(parts) == 0 {
		return StatusStyle.Render("tab to move, enter to activate")
	}
	return StatusStyle.Render(strings.Join(parts, " • "))
}

func (m TodoModel) renderAlert(message string) string {
	width := SafeModalWidth(ModalWidth, m.Width)
	body := fmt.Sprintf("%s\n\n%s", message, m.Help.View(m.AlertKeys))
	return RenderModal(AlertBoxStyle.Width(width).Render(body), m.Width, m.Height)
}
