package ui

// selectors.go provides the table-based snapshot picker.

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/thesavant42/auditfilter/internal/models"
)

// SnapshotSelectorModel lists stored snapshots and returns the chosen one
type SnapshotSelectorModel struct {
	table     table.Model
	snapshots []models.Snapshot
	layout    Layout
	selected  int // Index of selected snapshot, -1 if cancelled
	quitting  bool
}

// NewSnapshotSelectorModel creates a picker over snapshots
func NewSnapshotSelectorModel(snapshots []models.Snapshot) SnapshotSelectorModel {
	layout := DefaultLayout()
	m := SnapshotSelectorModel{
		snapshots: snapshots,
		layout:    layout,
		selected:  -1,
	}
	m.table = InitTable(CalculateColumns(SnapshotColumns(), layout.TableWidth-4), m.buildRows(), layout)
	return m
}

func (m SnapshotSelectorModel) buildRows() []table.Row {
	rows := make([]table.Row, len(m.snapshots))
	for i, s := range m.snapshots {
		imported := "-"
		if !s.ImportedAt.IsZero() {
			imported = s.ImportedAt.Local().Format("2006-01-02 15:04")
		}
		rows[i] = table.Row{s.Name, s.Screen, strconv.Itoa(s.RecordCount), imported}
	}
	return rows
}

func (m SnapshotSelectorModel) Init() tea.Cmd {
	return StandardInit()
}

func (m SnapshotSelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayout(msg.Width, msg.Height)
		m.table.SetColumns(CalculateColumns(SnapshotColumns(), m.layout.TableWidth-4))
		m.table.SetHeight(m.layout.TableHeight)
		return m, nil

	case tea.KeyMsg:
		if quit, cmd := HandleQuitKeys(msg.String()); quit {
			m.selected = -1
			m.quitting = true
			return m, cmd
		}
		if msg.String() == "enter" && len(m.snapshots) > 0 {
			m.selected = m.table.Cursor()
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m SnapshotSelectorModel) View() string {
	if m.quitting {
		return ""
	}
	content := ViewHeaderWithSubtitle("Snapshots", fmt.Sprintf("%d stored", len(m.snapshots)), m.layout.InnerWidth)
	content += RenderTableWithSelection(m.table, m.layout)
	return TwoBoxView(content, "↑/↓: navigate | Enter: open | Esc: cancel", m.layout)
}

// Selected returns the chosen snapshot, or false if the user cancelled
func (m SnapshotSelectorModel) Selected() (models.Snapshot, bool) {
	if m.selected < 0 || m.selected >= len(m.snapshots) {
		return models.Snapshot{}, false
	}
	return m.snapshots[m.selected], true
}

// RunSnapshotSelector runs the picker and returns the chosen snapshot.
// ok is false if the user cancelled.
func RunSnapshotSelector(snapshots []models.Snapshot) (snapshot models.Snapshot, ok bool, err error) {
	if len(snapshots) == 0 {
		return models.Snapshot{}, false, fmt.Errorf("no snapshots stored")
	}
	p := tea.NewProgram(NewSnapshotSelectorModel(snapshots), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return models.Snapshot{}, false, fmt.Errorf("selector error: %w", err)
	}
	snapshot, ok = finalModel.(SnapshotSelectorModel).Selected()
	return snapshot, ok, nil
}
