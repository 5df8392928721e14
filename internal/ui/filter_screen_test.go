package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/thesavant42/auditfilter/internal/config"
	"github.com/thesavant42/auditfilter/internal/filter"
	"github.com/thesavant42/auditfilter/internal/models"
)

func testRecords() []*models.Record {
	return []*models.Record{
		{ID: "check-1", Label: "Non-text content", Category: models.CategoryManual, Status: models.StatusNotTested, SearchText: "MANUAL-01 Non-text content"},
		{ID: "check-2", Label: "Contrast (minimum)", Category: models.CategoryManual, Status: models.StatusError, SearchText: "MANUAL-02 Contrast (minimum)"},
		{ID: "check-3", Label: "Colour contrast", Category: models.CategoryAxe, Status: models.StatusNotTested, SearchText: "AXE-03 Colour contrast"},
		{ID: "check-4", Label: "Image alt", Category: models.CategoryAxe, Status: models.StatusError, SearchText: "AXE-04 Image alt"},
		{ID: "check-5", Label: "Tagged PDF", Category: models.CategoryPDF, Status: models.StatusNoError, SearchText: "PDF-05 Tagged PDF"},
	}
}

func newTestFilterModel(t *testing.T, opts FilterOptions) FilterModel {
	t.Helper()
	engine := filter.New(config.DefaultScreens()[config.ScreenAuditChecks], testRecords())
	return NewFilterModel(engine, opts)
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func press(m FilterModel, keys ...string) FilterModel {
	for _, k := range keys {
		updated, _ := m.Update(keyMsg(k))
		m = updated.(FilterModel)
	}
	return m
}

func typeText(m FilterModel, text string) FilterModel {
	for _, r := range text {
		m = press(m, string(r))
	}
	return m
}

// TestFilterModelCycles verifies the category and status keys step through
// the screen's enumerations and reset clears them
func TestFilterModelCycles(t *testing.T) {
	m := newTestFilterModel(t, FilterOptions{})
	if len(m.rows) != 5 {
		t.Fatalf("initial rows = %d, want 5", len(m.rows))
	}

	m = press(m, "c")
	if got := m.Engine().Criteria().Category; got != models.CategoryManual {
		t.Errorf("category = %q, want manual", got)
	}
	if len(m.rows) != 2 {
		t.Errorf("manual rows = %d, want 2", len(m.rows))
	}

	m = press(m, "s")
	if got := m.Engine().Criteria().Status; got != models.StatusError {
		t.Errorf("status = %q, want error", got)
	}
	if diff := cmp.Diff([]int{1}, m.rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	m = press(m, "r")
	if !m.Engine().Criteria().IsZero() {
		t.Errorf("criteria after reset = %+v", m.Engine().Criteria())
	}
	if len(m.rows) != 5 {
		t.Errorf("rows after reset = %d, want 5", len(m.rows))
	}
}

// TestFilterModelSearch verifies live filtering while typing and undo on esc
func TestFilterModelSearch(t *testing.T) {
	m := newTestFilterModel(t, FilterOptions{})

	m = press(m, "/")
	if m.viewMode != filterViewSearch {
		t.Fatal("expected search mode")
	}
	m = typeText(m, "contrast")
	if got := m.Engine().Criteria().Text; got != "contrast" {
		t.Errorf("text = %q, want contrast", got)
	}
	if len(m.rows) != 2 {
		t.Errorf("rows while typing = %d, want 2", len(m.rows))
	}

	m = press(m, "esc")
	if m.viewMode != filterViewTable {
		t.Error("esc should leave search mode")
	}
	if got := m.Engine().Criteria().Text; got != "" {
		t.Errorf("text after esc = %q, want empty", got)
	}
	if len(m.rows) != 5 {
		t.Errorf("rows after esc = %d, want 5", len(m.rows))
	}

	m = press(m, "/")
	m = typeText(m, "alt")
	m = press(m, "enter")
	if got := m.Engine().Criteria().Text; got != "alt" {
		t.Errorf("text after enter = %q, want alt", got)
	}
	if len(m.rows) != 1 {
		t.Errorf("rows after enter = %d, want 1", len(m.rows))
	}
}

// TestFilterModelStatusEdit verifies number and space keys edit the selected record
func TestFilterModelStatusEdit(t *testing.T) {
	type change struct {
		index  int
		status models.Status
	}
	var changes []change
	m := newTestFilterModel(t, FilterOptions{
		OnStatusChange: func(index int, status models.Status) {
			changes = append(changes, change{index, status})
		},
	})

	// error is the first status of the audit screen
	m = press(m, "1")
	if got := m.Engine().Records()[0].Status; got != models.StatusError {
		t.Errorf("status after 1 = %q, want error", got)
	}

	m = press(m, " ")
	if got := m.Engine().Records()[0].Status; got != models.StatusNoError {
		t.Errorf("status after space = %q, want no-error", got)
	}

	m = press(m, "down", "3")
	if got := m.Engine().Records()[1].Status; got != models.StatusNotTested {
		t.Errorf("second record status = %q, want not-tested", got)
	}

	// Out of range status numbers are ignored
	press(m, "9")

	want := []change{{0, models.StatusError}, {0, models.StatusNoError}, {1, models.StatusNotTested}}
	if diff := cmp.Diff(want, changes, cmp.AllowUnexported(change{})); diff != "" {
		t.Errorf("status changes mismatch (-want +got):\n%s", diff)
	}
	if m.StatusMsg == "" {
		t.Error("status edit should set a status message")
	}
}

func TestFilterModelEditHidesRecord(t *testing.T) {
	m := newTestFilterModel(t, FilterOptions{})
	m = press(m, "s") // error: check-2, check-4
	if len(m.rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(m.rows))
	}

	m = press(m, "2") // check-2 -> no-error
	if len(m.rows) != 1 {
		t.Errorf("rows after edit = %d, want 1", len(m.rows))
	}
	if got := m.Engine().Count(); got != 1 {
		t.Errorf("Count() = %d, want 1", got)
	}
	if m.table.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", m.table.Cursor())
	}
}

func TestFilterModelQuit(t *testing.T) {
	m := newTestFilterModel(t, FilterOptions{})
	updated, cmd := m.Update(keyMsg("q"))
	m = updated.(FilterModel)

	if !m.Quitting {
		t.Error("q should quit")
	}
	if cmd == nil {
		t.Error("q should return a command")
	}
	if m.View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestFilterModelView(t *testing.T) {
	m := newTestFilterModel(t, FilterOptions{Source: "audit.html"})
	m = press(m, "c")

	view := stripEscapeCodes(m.View())
	for _, want := range []string{
		"Audit checks",
		"audit.html",
		"Category: manual",
		"Showing 2 errors",
		"Manual tests (1 not tested)",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestNextLabel(t *testing.T) {
	labels := []models.Category{models.CategoryManual, models.CategoryAxe, models.CategoryPDF}
	tests := []struct {
		current models.Category
		want    models.Category
	}{
		{"", models.CategoryManual},
		{models.CategoryManual, models.CategoryAxe},
		{models.CategoryPDF, ""},
		{"unknown", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.current), func(t *testing.T) {
			if got := nextLabel(labels, tt.current); got != tt.want {
				t.Errorf("nextLabel(%q) = %q, want %q", tt.current, got, tt.want)
			}
		})
	}

	if got := nextLabel([]models.Category(nil), models.CategoryAxe); got != "" {
		t.Errorf("nextLabel(nil) = %q, want empty", got)
	}
}

func TestNextStatus(t *testing.T) {
	statuses := []models.Status{models.StatusFixed, models.StatusNotFixed, models.StatusNotTested}
	tests := []struct {
		current models.Status
		want    models.Status
	}{
		{"", models.StatusFixed},
		{models.StatusFixed, models.StatusNotFixed},
		{models.StatusNotTested, models.StatusFixed},
	}

	for _, tt := range tests {
		t.Run(string(tt.current), func(t *testing.T) {
			if got := nextStatus(statuses, tt.current); got != tt.want {
				t.Errorf("nextStatus(%q) = %q, want %q", tt.current, got, tt.want)
			}
		})
	}
}
