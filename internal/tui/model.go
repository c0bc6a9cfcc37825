package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/stepweaver/internal/config"
	"github.com/aristath/stepweaver/internal/events"
)

// PaneID identifies which pane is focused.
type PaneID int

const (
	PaneWorkers PaneID = iota
	PaneProgress
	paneCount
)

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	workerPane   WorkerPaneModel
	progressPane ProgressPaneModel
	settingsPane SettingsPaneModel
	focusedPane  PaneID
	eventSub     <-chan events.Event
	width        int
	height       int
	quitting     bool
	showSettings bool
}

// New creates a new TUI model.
// It subscribes to all events from the event bus using SubscribeAll.
func New(eventBus *events.EventBus, cfg *config.Config, globalPath, projectPath string) Model {
	return Model{
		workerPane:   NewWorkerPaneModel(cfg.Workers),
		progressPane: NewProgressPaneModel(),
		settingsPane: NewSettingsPaneModel(cfg, globalPath, projectPath),
		focusedPane:  PaneWorkers,
		eventSub:     eventBus.SubscribeAll(1024),
	}
}

// Init initializes the model and returns the initial command.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.eventSub)
}

// waitForEvent returns a command that waits for the next event from the event bus.
func waitForEvent(sub <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-sub
		if !ok {
			return nil // bus closed
		}
		return event
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The settings form is modal
		if m.showSettings {
			var cmd tea.Cmd
			m.settingsPane, cmd = m.settingsPane.Update(msg)
			cmds = append(cmds, cmd)
			if !m.settingsPane.IsVisible() {
				m.showSettings = false
			}
			return m, tea.Batch(cmds...)
		}

		switch msg.String() {
		case KeyQuit, KeyCtrlC:
			m.quitting = true
			return m, tea.Quit

		case KeySettings:
			m.showSettings = true
			m.settingsPane.SetVisible(true)
			cmds = append(cmds, m.settingsPane.Init())

		case KeyTab:
			m.focusedPane = (m.focusedPane + 1) % paneCount
			m.updateFocusStates()

		case KeyShiftTab:
			m.focusedPane = (m.focusedPane + paneCount - 1) % paneCount
			m.updateFocusStates()

		case KeyPane1:
			m.focusedPane = PaneWorkers
			m.updateFocusStates()

		case KeyPane2:
			m.focusedPane = PaneProgress
			m.updateFocusStates()

		default:
			if m.focusedPane == PaneWorkers {
				var cmd tea.Cmd
				m.workerPane, cmd = m.workerPane.Update(msg)
				cmds = append(cmds, cmd)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.computeLayout()
		m.settingsPane.SetSize(msg.Width, msg.Height)

	case events.TaskStartedEvent, events.TaskCompletedEvent,
		events.ScheduleProgressEvent, events.ScheduleFinishedEvent:
		var cmd tea.Cmd
		m.workerPane, cmd = m.workerPane.Update(msg)
		cmds = append(cmds, cmd)
		m.progressPane, cmd = m.progressPane.Update(msg)
		cmds = append(cmds, cmd)
		cmds = append(cmds, waitForEvent(m.eventSub))

	default:
		// Form internals (cursor blink etc.) while the settings overlay is open
		if m.showSettings {
			var cmd tea.Cmd
			m.settingsPane, cmd = m.settingsPane.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	if m.showSettings {
		return m.settingsPane.View()
	}

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, m.workerPane.View(), m.progressPane.View())
	return lipgloss.JoinVertical(lipgloss.Left, mainContent, HelpView())
}

// computeLayout calculates pane dimensions and updates all child models.
func (m *Model) computeLayout() {
	leftWidth := (m.width * 60) / 100
	rightWidth := m.width - leftWidth
	availableHeight := m.height - 1 // help bar

	m.workerPane.SetSize(leftWidth, availableHeight)
	m.progressPane.SetSize(rightWidth, availableHeight)

	m.updateFocusStates()
}

// updateFocusStates updates the focus state of all panes.
func (m *Model) updateFocusStates() {
	m.workerPane.SetFocused(m.focusedPane == PaneWorkers)
	m.progressPane.SetFocused(m.focusedPane == PaneProgress)
}
