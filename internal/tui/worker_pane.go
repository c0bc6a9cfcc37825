package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/stepweaver/internal/events"
)

// SlotState is what one worker slot is doing.
type SlotState struct {
	Task     string // Empty when idle
	Start    int
	Duration int
}

// Remaining returns the ticks left at tick, or 0 for an idle slot.
func (s SlotState) Remaining(tick int) int {
	if s.Task == "" {
		return 0
	}
	return max(0, s.Start+s.Duration-tick)
}

// WorkerPaneModel shows the worker slots and a scrollable event log.
type WorkerPaneModel struct {
	slots    []SlotState
	tick     int
	log      []string
	viewport viewport.Model
	width    int
	height   int
	focused  bool
}

const slotListWidth = 24

// NewWorkerPaneModel creates a pane for the given number of slots.
func NewWorkerPaneModel(workers int) WorkerPaneModel {
	return WorkerPaneModel{
		slots:    make([]SlotState, max(workers, 0)),
		viewport: viewport.New(0, 0),
	}
}

// Update handles messages for the worker pane.
func (m WorkerPaneModel) Update(msg tea.Msg) (WorkerPaneModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.focused {
			m.viewport, cmd = m.viewport.Update(msg)
		}

	case events.TaskStartedEvent:
		m.growTo(msg.Worker + 1)
		m.slots[msg.Worker] = SlotState{Task: msg.ID, Start: msg.Tick, Duration: msg.Duration}
		m.appendLog(fmt.Sprintf("t=%-5d %s started on worker %d (%d ticks)", msg.Tick, msg.ID, msg.Worker, msg.Duration))

	case events.TaskCompletedEvent:
		m.growTo(msg.Worker + 1)
		if m.slots[msg.Worker].Task == msg.ID {
			m.slots[msg.Worker] = SlotState{}
		}
		m.appendLog(fmt.Sprintf("t=%-5d %s completed on worker %d", msg.Tick, msg.ID, msg.Worker))

	case events.ScheduleProgressEvent:
		m.tick = msg.Tick

	case events.ScheduleFinishedEvent:
		m.appendLog(fmt.Sprintf("finished after %d ticks: %s", msg.Ticks, strings.Join(msg.Order, "")))
	}

	return m, cmd
}

// Slots returns a copy of the current slot states.
func (m WorkerPaneModel) Slots() []SlotState {
	return append([]SlotState(nil), m.slots...)
}

// Log returns the event log lines.
func (m WorkerPaneModel) Log() []string {
	return append([]string(nil), m.log...)
}

func (m *WorkerPaneModel) growTo(n int) {
	for len(m.slots) < n {
		m.slots = append(m.slots, SlotState{})
	}
}

func (m *WorkerPaneModel) appendLog(line string) {
	m.log = append(m.log, line)
	m.viewport.SetContent(strings.Join(m.log, "\n"))
	m.viewport.GotoBottom()
}

// View renders the worker pane.
func (m WorkerPaneModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	logWidth := m.width - slotListWidth - 4

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderSlots(),
		lipgloss.NewStyle().
			Width(logWidth).
			Height(m.height-2).
			Render(m.viewport.View()),
	)

	style := StyleUnfocusedBorder
	if m.focused {
		style = StyleFocusedBorder
	}

	return style.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(content)
}

func (m WorkerPaneModel) renderSlots() string {
	var b strings.Builder

	title := StyleTitle.Render(fmt.Sprintf("Workers  t=%d", m.tick))
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", min(slotListWidth, lipgloss.Width(title))))
	b.WriteString("\n\n")

	for i, s := range m.slots {
		if s.Task == "" {
			b.WriteString(fmt.Sprintf("%s W%-2d idle\n", StyleStatusPending.Render("○"), i))
			continue
		}
		b.WriteString(fmt.Sprintf("%s W%-2d %s  %d left\n",
			StyleStatusRunning.Render("●"), i, s.Task, s.Remaining(m.tick)))
	}

	return lipgloss.NewStyle().
		Width(slotListWidth).
		Height(m.height - 2).
		Render(b.String())
}

// SetSize updates the pane dimensions.
func (m *WorkerPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = max(w-slotListWidth-4, 10)
	m.viewport.Height = max(h-4, 5)
}

// SetFocused updates the focus state.
func (m *WorkerPaneModel) SetFocused(focused bool) {
	m.focused = focused
}
