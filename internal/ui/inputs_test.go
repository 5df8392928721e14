package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func updateInput(m InputModel, keys ...string) (InputModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var updated tea.Model
		updated, cmd = m.Update(keyMsg(k))
		m = updated.(InputModel)
	}
	return m, cmd
}

func TestInputModelValidates(t *testing.T) {
	m := NewInputModel(InputConfig{
		Title:     "Snapshot name",
		Default:   "two words",
		Validator: ValidateSnapshotName,
	})

	m, _ = updateInput(m, "enter")
	if m.Value() != "" {
		t.Errorf("Value() = %q after a rejected name", m.Value())
	}
	if !strings.Contains(stripEscapeCodes(m.View()), "whitespace") {
		t.Error("view should show the validation error")
	}

	m.textInput.SetValue("")
	for _, r := range "audit-1" {
		m, _ = updateInput(m, string(r))
	}
	m, cmd := updateInput(m, "enter")
	if m.Value() != "audit-1" {
		t.Errorf("Value() = %q, want audit-1", m.Value())
	}
	if cmd == nil {
		t.Error("a valid name should quit the input")
	}
	if m.Cancelled() {
		t.Error("Cancelled() = true after enter")
	}
}

func TestInputModelCancel(t *testing.T) {
	m := NewInputModel(InputConfig{Title: "Snapshot name", Default: "links"})
	m, cmd := updateInput(m, "esc")
	if !m.Cancelled() {
		t.Error("Cancelled() = false after esc")
	}
	if m.Value() != "" {
		t.Errorf("Value() = %q after esc", m.Value())
	}
	if cmd == nil {
		t.Error("esc should quit the input")
	}
}
