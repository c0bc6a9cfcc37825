package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/stepweaver/internal/config"
)

// SettingsPaneModel manages the settings form overlay.
type SettingsPaneModel struct {
	form        *huh.Form
	config      *config.Config
	globalPath  string
	projectPath string
	width       int
	height      int
	visible     bool
	saved       bool
	err         error

	// Form field bindings (strings for Huh)
	saveTarget string
	workers    string
	baseOffset string
	alphabet   string
}

// NewSettingsPaneModel creates a new settings pane.
func NewSettingsPaneModel(cfg *config.Config, globalPath, projectPath string) SettingsPaneModel {
	m := SettingsPaneModel{
		config:      cfg,
		globalPath:  globalPath,
		projectPath: projectPath,
	}
	m.resetFields()
	m.buildForm()
	return m
}

func (m *SettingsPaneModel) resetFields() {
	m.saveTarget = "project"
	m.workers = strconv.Itoa(m.config.Workers)
	m.baseOffset = strconv.Itoa(m.config.BaseOffset)
	m.alphabet = m.config.Alphabet
}

// buildForm constructs the Huh form with all settings fields.
func (m *SettingsPaneModel) buildForm() {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("saveTarget").
				Title("Save To").
				Options(
					huh.NewOption("Project (.stepweaver/config.json)", "project"),
					huh.NewOption("Global (~/.stepweaver/config.json)", "global"),
				).
				Value(&m.saveTarget),
		).Title("Save Target"),

		huh.NewGroup(
			huh.NewInput().
				Key("workers").
				Title("Workers").
				Value(&m.workers).
				Validate(positiveInt).
				Placeholder("5"),

			huh.NewInput().
				Key("baseOffset").
				Title("Base Offset").
				Value(&m.baseOffset).
				Validate(nonNegativeInt).
				Placeholder("60"),

			huh.NewInput().
				Key("alphabet").
				Title("Alphabet").
				Value(&m.alphabet).
				Placeholder("ABCDEFGHIJKLMNOPQRSTUVWXYZ"),
		).Title("Schedule Settings"),
	)
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fmt.Errorf("must be a whole number of at least 1")
	}
	return nil
}

func nonNegativeInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("must be a whole number of at least 0")
	}
	return nil
}

// Init initializes the settings pane.
func (m SettingsPaneModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the settings pane.
func (m SettingsPaneModel) Update(msg tea.Msg) (SettingsPaneModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == KeyEsc {
		m.visible = false
		m.saved = false
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.err = m.apply()
		m.saved = m.err == nil
		if m.saved {
			m.visible = false
		}
	}

	return m, cmd
}

// apply copies the form values into the config and saves it to the chosen target.
func (m *SettingsPaneModel) apply() error {
	next := *m.config
	var err error
	if next.Workers, err = strconv.Atoi(m.workers); err != nil {
		return fmt.Errorf("workers: %w", err)
	}
	if next.BaseOffset, err = strconv.Atoi(m.baseOffset); err != nil {
		return fmt.Errorf("base offset: %w", err)
	}
	next.Alphabet = m.alphabet
	if err := next.Validate(); err != nil {
		return err
	}

	target := m.projectPath
	if m.saveTarget == "global" {
		target = m.globalPath
	}
	if err := config.Save(&next, target); err != nil {
		return err
	}

	*m.config = next
	return nil
}

// View renders the settings pane.
func (m SettingsPaneModel) View() string {
	if !m.visible {
		return ""
	}

	content := m.form.View()
	if m.err != nil {
		content = StyleError.Render(fmt.Sprintf("✗ Error saving: %v", m.err))
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(m.width - 4).
		Height(m.height - 4)

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		Render("⚙ Settings (applies to the next run)")

	return lipgloss.JoinVertical(lipgloss.Left, title, style.Render(content))
}

// SetSize updates the dimensions of the settings pane.
func (m *SettingsPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	if m.form != nil {
		m.form.WithWidth(w - 8).WithHeight(h - 8)
	}
}

// SetVisible shows or hides the settings pane. Showing it rebuilds the
// form from the current config.
func (m *SettingsPaneModel) SetVisible(v bool) {
	m.visible = v
	m.saved = false
	m.err = nil

	if v {
		m.resetFields()
		m.buildForm()
	}
}

// IsVisible returns whether the settings pane is currently visible.
func (m SettingsPaneModel) IsVisible() bool {
	return m.visible
}

// Saved reports whether the last form submission was written to disk.
func (m SettingsPaneModel) Saved() bool {
	return m.saved
}
