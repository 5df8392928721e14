package ui

// inputs.go provides a text input model with the two-box layout.

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputConfig defines configuration for a text input.
type InputConfig struct {
	Title       string             // Main title displayed at top
	Subtitle    string             // Optional subtitle/description
	Placeholder string             // Placeholder text in input field
	HelpText    string             // Help text for footer
	Default     string             // Default value
	Validator   func(string) error // Optional validation function
}

// InputModel is a single-line text input with two-box layout.
type InputModel struct {
	textInput textinput.Model
	config    InputConfig
	layout    Layout
	value     string
	cancelled bool
	err       error
}

// NewInputModel creates a text input with the given configuration.
func NewInputModel(cfg InputConfig) InputModel {
	layout := DefaultLayout()

	ti := textinput.New()
	ti.Placeholder = cfg.Placeholder
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = layout.InnerWidth - 4

	if cfg.Default != "" {
		ti.SetValue(cfg.Default)
	}
	if cfg.HelpText == "" {
		cfg.HelpText = "Enter: confirm | Esc: cancel"
	}

	return InputModel{
		textInput: ti,
		config:    cfg,
		layout:    layout,
	}
}

func (m InputModel) Init() tea.Cmd {
	return tea.Batch(StandardInit(), textinput.Blink)
}

func (m InputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayout(msg.Width, msg.Height)
		m.textInput.Width = m.layout.InnerWidth - 4
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			value := sanitizeInput(strings.TrimSpace(m.textInput.Value()))
			if m.config.Validator != nil {
				if err := m.config.Validator(value); err != nil {
					m.err = err
					return m, nil
				}
			}
			m.value = value
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m InputModel) View() string {
	var content strings.Builder
	content.WriteString(ViewHeaderWithSubtitle(m.config.Title, m.config.Subtitle, m.layout.InnerWidth))
	content.WriteString(m.textInput.View())
	content.WriteString("\n")

	if m.err != nil {
		content.WriteString("\n")
		content.WriteString(RenderError(m.err.Error()))
		content.WriteString("\n")
	}

	return TwoBoxView(content.String(), m.config.HelpText, m.layout)
}

// Value returns the entered value after the input completes.
func (m InputModel) Value() string {
	return m.value
}

// Cancelled returns true if the user pressed Esc.
func (m InputModel) Cancelled() bool {
	return m.cancelled
}

// RunInput runs an input TUI and returns the entered value.
func RunInput(cfg InputConfig) (value string, cancelled bool, err error) {
	p := tea.NewProgram(NewInputModel(cfg), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return "", false, fmt.Errorf("input error: %w", err)
	}
	result := finalModel.(InputModel)
	return result.Value(), result.Cancelled(), nil
}

// PromptForSnapshotName asks for the name to store an import under
func PromptForSnapshotName(defaultName string) (string, bool, error) {
	return RunInput(InputConfig{
		Title:       "Snapshot name",
		Subtitle:    "An existing snapshot with the same name is replaced",
		Placeholder: "audit-2026-10-17",
		Default:     defaultName,
		Validator:   ValidateSnapshotName,
	})
}

// ValidateSnapshotName rejects empty names and names with whitespace
func ValidateSnapshotName(s string) error {
	if s == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.ContainsAny(s, " \t\r\n") {
		return fmt.Errorf("name cannot contain whitespace")
	}
	return nil
}
