package ui

// base_model.go provides common TUI functionality for Bubble Tea models.

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// InitTable creates and configures a table with proper styling and dimensions.
// Use this instead of manually calling table.New() to ensure consistent setup.
//
// Example:
//
//	columns := CalculateColumns(RecordColumns(false), layout.TableWidth)
//	m.table = InitTable(columns, rows, layout)
func InitTable(columns []table.Column, rows []table.Row, layout Layout) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(layout.TableHeight),
	)
	ApplyTableStyles(&t)
	t.GotoTop()
	return t
}

// StandardInit returns the standard Init command for table models.
func StandardInit() tea.Cmd {
	return tea.WindowSize()
}

// HandleQuitKeys returns true and Quit cmd for q/esc/ctrl+c keys.
//
// Example:
//
//	case tea.KeyMsg:
//	    if quit, cmd := HandleQuitKeys(msg.String()); quit {
//	        m.Quitting = true
//	        return m, cmd
//	    }
func HandleQuitKeys(key string) (bool, tea.Cmd) {
	switch key {
	case "q", "esc", "ctrl+c":
		return true, tea.Quit
	}
	return false, nil
}

// HandleNavigationKeys handles standard up/down/j/k navigation.
// Returns new cursor position (clamped to valid range).
func HandleNavigationKeys(key string, cursor, maxItems int) int {
	switch key {
	case "up", "k":
		if cursor > 0 {
			return cursor - 1
		}
	case "down", "j":
		if cursor < maxItems-1 {
			return cursor + 1
		}
	}
	return cursor
}
