package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/stepweaver/internal/events"
)

// ProgressPaneModel shows schedule progress counters and the completion order.
type ProgressPaneModel struct {
	progress events.ScheduleProgressEvent
	order    []string
	finished bool
	ticks    int
	width    int
	height   int
	focused  bool
}

// NewProgressPaneModel creates a new progress pane model.
func NewProgressPaneModel() ProgressPaneModel {
	return ProgressPaneModel{}
}

// Update handles messages for the progress pane.
func (m ProgressPaneModel) Update(msg tea.Msg) (ProgressPaneModel, tea.Cmd) {
	switch msg := msg.(type) {
	case events.ScheduleProgressEvent:
		m.progress = msg

	case events.TaskCompletedEvent:
		m.order = append(m.order, msg.ID)

	case events.ScheduleFinishedEvent:
		m.finished = true
		m.ticks = msg.Ticks
		m.order = append([]string(nil), msg.Order...)
	}

	return m, nil
}

// View renders the progress pane.
func (m ProgressPaneModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	title := StyleTitle.Render("Schedule Progress")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", lipgloss.Width(title)))
	b.WriteString("\n\n")

	p := m.progress
	b.WriteString(fmt.Sprintf("Tick:      %d\n", p.Tick))
	b.WriteString(fmt.Sprintf("Total:     %d\n", p.Total))
	b.WriteString(fmt.Sprintf("Completed: %s\n", StyleStatusComplete.Render(fmt.Sprintf("%d", p.Completed))))
	b.WriteString(fmt.Sprintf("Running:   %s\n", StyleStatusRunning.Render(fmt.Sprintf("%d", p.Running))))
	b.WriteString(fmt.Sprintf("Ready:     %s\n", StyleStatusReady.Render(fmt.Sprintf("%d", p.Ready))))
	b.WriteString(fmt.Sprintf("Pending:   %s\n", StyleStatusPending.Render(fmt.Sprintf("%d", p.Pending))))
	b.WriteString("\n")

	if p.Total > 0 {
		barWidth := min(m.width-4, 40)
		completedWidth := (p.Completed * barWidth) / p.Total
		runningWidth := (p.Running * barWidth) / p.Total
		readyWidth := (p.Ready * barWidth) / p.Total
		pendingWidth := barWidth - completedWidth - runningWidth - readyWidth

		bar := StyleStatusComplete.Render(strings.Repeat("=", max(0, completedWidth)))
		bar += StyleStatusRunning.Render(strings.Repeat("-", max(0, runningWidth)))
		bar += StyleStatusReady.Render(strings.Repeat("+", max(0, readyWidth)))
		bar += StyleStatusPending.Render(strings.Repeat(".", max(0, pendingWidth)))

		b.WriteString(fmt.Sprintf("[%s]  %d/%d\n\n", bar, p.Completed, p.Total))
	}

	b.WriteString("Order: " + strings.Join(m.order, ""))
	if m.finished {
		b.WriteString(fmt.Sprintf("\nDone in %d ticks", m.ticks))
	}

	style := StyleUnfocusedBorder
	if m.focused {
		style = StyleFocusedBorder
	}

	return style.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(b.String())
}

// Order returns the completion order seen so far.
func (m ProgressPaneModel) Order() string {
	return strings.Join(m.order, "")
}

// SetSize updates the pane dimensions.
func (m *ProgressPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFocused updates the focus state.
func (m *ProgressPaneModel) SetFocused(focused bool) {
	m.focused = focused
}
