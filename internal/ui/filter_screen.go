package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/thesavant42/auditfilter/internal/filter"
	"github.com/thesavant42/auditfilter/internal/models"
)

const statusMsgDuration = 4 * time.Second

// FilterOptions configures the interactive filter screen
type FilterOptions struct {
	Title     string // Defaults to the screen title
	Source    string // File, URL or snapshot name shown under the title
	Logger    *log.Logger
	ExportDir string // Directory for markdown exports ("" = working directory)

	// OnStatusChange runs after the engine recorded a status edit,
	// e.g. to mirror the edit into a loaded page.
	OnStatusChange func(index int, status models.Status)
}

// passRecorder keeps the most recent filter pass for the model to render.
// The engine holds a pointer to it, so it survives Bubble Tea's model copies.
type passRecorder struct {
	pass   filter.Pass
	passes int
}

func (r *passRecorder) Present(p filter.Pass) {
	r.pass = p
	r.passes++
}

type filterViewMode int

const (
	filterViewTable  filterViewMode = iota // Record table
	filterViewSearch                       // Live text search input
)

// FilterModel is the TUI for one filter screen: a record table that follows
// the engine's visibility, with keys for each filter axis and status edits.
type FilterModel struct {
	PageState
	engine    *filter.Engine
	opts      FilterOptions
	table     table.Model
	textInput textinput.Model
	progress  progress.Model
	last      *passRecorder
	rows      []int // table row -> record index

	viewMode   filterViewMode
	searchUndo string // text criterion before entering search mode
	err        error
}

// NewFilterModel wraps engine in a filter screen and runs the first pass
func NewFilterModel(engine *filter.Engine, opts FilterOptions) FilterModel {
	layout := DefaultLayout()

	ti := textinput.New()
	ti.Placeholder = "Search text..."
	ti.CharLimit = 200
	ti.Width = defaultInputWidth

	prog := progress.New(
		progress.WithGradient("#FFFFFF", "#FF0000"),
		progress.WithColorProfile(termenv.TrueColor),
	)
	prog.EmptyColor = "241"
	prog.Width = layout.InnerWidth / 3

	recorder := &passRecorder{}
	engine.AddPresenter(recorder)
	if opts.Logger != nil {
		engine.SetLogger(opts.Logger)
	}

	m := FilterModel{
		PageState: NewPageState(layout),
		engine:    engine,
		opts:      opts,
		textInput: ti,
		progress:  prog,
		last:      recorder,
	}
	m.table = InitTable(m.columns(), nil, layout)

	engine.Recompute()
	m.refreshTable()
	return m
}

// Init implements tea.Model
func (m FilterModel) Init() tea.Cmd {
	return StandardInit()
}

// Update implements tea.Model
func (m FilterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.ClearExpiredStatus()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.UpdateLayout(msg.Width, msg.Height)
		m.table.SetHeight(m.Layout.TableHeight)
		m.table.SetColumns(m.columns())
		m.textInput.Width = m.Layout.InnerWidth - 12
		m.progress.Width = m.Layout.InnerWidth / 3
		m.refreshTable()
		return m, nil

	case tea.KeyMsg:
		if m.viewMode == filterViewSearch {
			return m.handleSearchKeys(msg)
		}
		return m.handleTableKeys(msg)
	}

	return m, nil
}

func (m FilterModel) handleTableKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if quit, cmd := HandleQuitKeys(key); quit {
		m.Quitting = true
		return m, cmd
	}

	screen := m.engine.Screen()
	switch key {
	case "up", "k", "down", "j":
		m.table.SetCursor(HandleNavigationKeys(key, m.table.Cursor(), len(m.rows)))
		return m, nil

	case "pgup", "pgdown", "home", "end", "g", "G":
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case "/":
		m.viewMode = filterViewSearch
		m.searchUndo = m.engine.Criteria().Text
		m.textInput.SetValue(m.searchUndo)
		m.textInput.CursorEnd()
		m.textInput.Focus()
		return m, textinput.Blink

	case "c":
		c := m.engine.Criteria()
		c.Category = nextLabel(screen.Categories, c.Category)
		m.apply(c)
		m.SetStatus("Category: "+labelOrAll(string(c.Category)), statusMsgDuration)
		return m, nil

	case "s":
		c := m.engine.Criteria()
		c.Status = nextLabel(screen.Statuses, c.Status)
		m.apply(c)
		m.SetStatus("Status: "+labelOrAll(string(c.Status)), statusMsgDuration)
		return m, nil

	case "r":
		m.engine.ResetCriteria()
		m.refreshTable()
		m.SetStatus("Filters cleared", statusMsgDuration)
		return m, nil

	case " ":
		if r, _, ok := m.selected(); ok {
			m.setStatus(nextStatus(screen.Statuses, r.Status))
		}
		return m, nil

	case "e":
		filename, err := ExportRecordsToMarkdown(m.opts.ExportDir, screen, m.engine.Criteria(), m.engine.Summary(), m.engine.VisibleRecords())
		if err != nil {
			m.err = err
			m.SetStatus(fmt.Sprintf("Export error: %v", err), statusMsgDuration)
		} else {
			m.SetStatus("Exported to "+filename, statusMsgDuration)
		}
		return m, nil
	}

	// 1..9 pick a status by its position in the screen's status list
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(screen.Statuses) {
		if _, _, ok := m.selected(); ok {
			m.setStatus(screen.Statuses[n-1])
		}
	}
	return m, nil
}

func (m FilterModel) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.viewMode = filterViewTable
		m.textInput.Blur()
		return m, nil

	case "esc":
		c := m.engine.Criteria()
		c.Text = m.searchUndo
		m.apply(c)
		m.viewMode = filterViewTable
		m.textInput.Blur()
		return m, nil

	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)

	// Live filtering: every edit is a new pass
	if c := m.engine.Criteria(); c.Text != m.textInput.Value() {
		c.Text = m.textInput.Value()
		m.apply(c)
	}
	return m, cmd
}

// apply replaces the engine's criteria and recomputes
func (m *FilterModel) apply(c models.Criteria) {
	m.engine.SetCriteria(c)
	m.engine.Recompute()
	m.refreshTable()
}

// setStatus records a status edit on the selected record
func (m *FilterModel) setStatus(status models.Status) {
	r, index, ok := m.selected()
	if !ok || status == "" {
		return
	}
	previous := r.Status
	m.engine.OnRecordStatusChanged(index, status)
	if m.opts.OnStatusChange != nil {
		m.opts.OnStatusChange(index, status)
	}
	if m.opts.Logger != nil {
		m.opts.Logger.Info("record status changed", "id", r.ID, "from", previous, "to", status)
	}
	m.refreshTable()

	name := r.ID
	if name == "" {
		name = fmt.Sprintf("#%d", index+1)
	}
	m.SetStatus(fmt.Sprintf("%s: %s -> %s", name, labelOrAll(string(previous)), status), statusMsgDuration)
}

// selected returns the record under the table cursor and its index
func (m FilterModel) selected() (*models.Record, int, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.rows) {
		return nil, -1, false
	}
	index := m.rows[cursor]
	return m.engine.Records()[index], index, true
}

// refreshTable rebuilds the rows from the most recent pass
func (m *FilterModel) refreshTable() {
	oldCursor := m.table.Cursor()
	columns := m.columns()
	records := m.engine.Records()

	m.rows = m.rows[:0]
	rows := make([]table.Row, 0, m.last.pass.Count)
	for i, visible := range m.last.pass.Visible {
		if !visible || i >= len(records) {
			continue
		}
		r := records[i]
		second := r.ID
		if m.engine.Screen().TargetAttr != "" {
			second = r.Target
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			truncateCell(second, columns[1].Width),
			truncateCell(r.Label, columns[2].Width),
			truncateCell(labelOrDash(string(r.Category)), columns[3].Width),
			truncateCell(labelOrDash(string(r.Status)), columns[4].Width),
		})
		m.rows = append(m.rows, i)
	}

	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	if oldCursor >= len(rows) {
		oldCursor = len(rows) - 1
	}
	if oldCursor < 0 {
		oldCursor = 0
	}
	m.table.SetCursor(oldCursor)
}

func (m FilterModel) columns() []table.Column {
	return CalculateColumns(RecordColumns(m.engine.Screen().TargetAttr != ""), m.Layout.TableWidth-4)
}

// View implements tea.Model
func (m FilterModel) View() string {
	if m.Quitting {
		return ""
	}

	screen := m.engine.Screen()
	title := m.opts.Title
	if title == "" {
		title = screen.Title
	}
	if title == "" {
		title = screen.Name
	}

	builder := NewPageView(m.Layout).Title("  " + title)
	if m.opts.Source != "" {
		builder.Subtitle("  " + m.opts.Source)
	}
	builder.Divider().
		Spacing(1).
		QueryInfo(m.queryInfo()).
		Table(m.table).
		Summary(" " + m.last.pass.Summary)

	if badges := m.badgeLine(); badges != "" {
		builder.Text(" " + badges)
	}
	builder.CustomContent(" " + m.progress.ViewAs(m.visibleRatio()) + "\n")

	if m.viewMode == filterViewSearch {
		builder.CustomContent("\n" + AccentStyle.Render(" Search: ") + m.textInput.View() + "\n")
	}

	return builder.
		Status(m.StatusMsg).
		Error(m.err).
		Help(m.helpText()).
		Build()
}

func (m FilterModel) queryInfo() string {
	c := m.engine.Criteria()
	info := fmt.Sprintf(" Category: %s  |  Status: %s", labelOrAll(string(c.Category)), labelOrAll(string(c.Status)))
	if c.Text != "" {
		info += fmt.Sprintf("  |  Text: '%s'", c.Text)
	}
	row := 0
	if len(m.rows) > 0 {
		row = m.table.Cursor() + 1
	}
	info += fmt.Sprintf("  |  Row %d/%d  |  Total: %d", row, len(m.rows), m.engine.Len())
	return info
}

// badgeLine renders the category badges in the screen's category order
func (m FilterModel) badgeLine() string {
	screen := m.engine.Screen()
	if len(screen.Badges) == 0 {
		return ""
	}
	labels := filter.BadgeLabels(screen, m.last.pass.Badges)
	var parts []string
	for _, c := range screen.Categories {
		if label, ok := labels[c]; ok {
			parts = append(parts, label)
		}
	}
	return strings.Join(parts, "  |  ")
}

func (m FilterModel) visibleRatio() float64 {
	if m.engine.Len() == 0 {
		return 0
	}
	return float64(m.last.pass.Count) / float64(m.engine.Len())
}

func (m FilterModel) helpText() string {
	if m.viewMode == filterViewSearch {
		return "type to filter | Enter: keep | Esc: undo"
	}
	help := "/: search | c: category | s: status | r: reset"
	if len(m.engine.Screen().Statuses) > 0 {
		help += " | space/1-9: set status"
	}
	return help + " | e: export | q: quit"
}

// Engine returns the engine driving the screen
func (m FilterModel) Engine() *filter.Engine {
	return m.engine
}

// nextLabel cycles "" -> first -> ... -> last -> ""
func nextLabel[T ~string](labels []T, current T) T {
	if len(labels) == 0 {
		return ""
	}
	if current == "" {
		return labels[0]
	}
	for i, l := range labels {
		if l == current {
			if i == len(labels)-1 {
				return ""
			}
			return labels[i+1]
		}
	}
	return ""
}

// nextStatus cycles through statuses without an unset step
func nextStatus(statuses []models.Status, current models.Status) models.Status {
	if len(statuses) == 0 {
		return ""
	}
	for i, s := range statuses {
		if s == current {
			return statuses[(i+1)%len(statuses)]
		}
	}
	return statuses[0]
}

func labelOrAll(s string) string {
	if s == "" {
		return "all"
	}
	return s
}

func labelOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// RunFilterScreen runs the interactive filter screen over engine until the user quits
func RunFilterScreen(engine *filter.Engine, opts FilterOptions) error {
	model := NewFilterModel(engine, opts)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("filter screen error: %w", err)
	}
	return nil
}
