package filter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/thesavant42/auditfilter/internal/config"
	"github.com/thesavant42/auditfilter/internal/models"
)

// auditRecords builds 78 checks: manual 14 not-tested, 2 error, 1 no-error;
// axe 54 not-tested, 2 error; pdf 4 not-tested, 1 no-error.
// Three of them mention contrast.
func auditRecords() []*models.Record {
	plan := []struct {
		category models.Category
		status   models.Status
		n        int
	}{
		{models.CategoryManual, models.StatusNotTested, 14},
		{models.CategoryManual, models.StatusError, 2},
		{models.CategoryManual, models.StatusNoError, 1},
		{models.CategoryAxe, models.StatusNotTested, 54},
		{models.CategoryAxe, models.StatusError, 2},
		{models.CategoryPDF, models.StatusNotTested, 4},
		{models.CategoryPDF, models.StatusNoError, 1},
	}
	contrast := map[int]string{14: "Contrast (minimum)", 24: "Colour contrast", 75: "Contrast in tagged PDF"}

	var records []*models.Record
	for _, p := range plan {
		for i := 0; i < p.n; i++ {
			n := len(records)
			name := "Keyboard"
			if c, ok := contrast[n]; ok {
				name = c
			}
			records = append(records, &models.Record{
				ID:         fmt.Sprintf("check-%d", n+1),
				Label:      name,
				Category:   p.category,
				Status:     p.status,
				SearchText: fmt.Sprintf("%s-%02d %s %s", strings.ToUpper(string(p.category)), n+1, name, p.category),
			})
		}
	}
	return records
}

// freqLinkRecords builds 8 links: 1 for all case types, 4 simplified, 2 detailed, 1 mobile
func freqLinkRecords() []*models.Record {
	categories := []models.Category{"all", "simplified", "simplified", "simplified", "simplified", "detailed", "detailed", "mobile"}
	records := make([]*models.Record, len(categories))
	for i, c := range categories {
		records[i] = &models.Record{ID: fmt.Sprintf("link-%d", i+1), Category: c, SearchText: fmt.Sprintf("link %d", i+1)}
	}
	return records
}

func auditEngine(t *testing.T) *Engine {
	t.Helper()
	return New(config.DefaultScreens()[config.ScreenAuditChecks], auditRecords())
}

func visibleIDs(e *Engine) []string {
	var ids []string
	for _, r := range e.VisibleRecords() {
		ids = append(ids, r.ID)
	}
	return ids
}

// recorder counts presenter notifications
type recorder struct {
	passes []Pass
}

func (r *recorder) Present(p Pass) {
	r.passes = append(r.passes, p)
}

func TestNoOpFilterShowsEverything(t *testing.T) {
	e := auditEngine(t)
	e.SetCriteria(models.Criteria{})

	if got := e.Recompute(); got != 78 {
		t.Errorf("Recompute() = %d, want 78", got)
	}
	for _, r := range e.Records() {
		if !r.Visible {
			t.Errorf("record %s hidden with no criteria", r.ID)
		}
	}
	if got := e.Summary(); got != "Showing 78 errors" {
		t.Errorf("Summary() = %q, want %q", got, "Showing 78 errors")
	}
}

func TestNewStartsVisible(t *testing.T) {
	records := auditRecords()
	records[3].Visible = false

	e := New(config.DefaultScreens()[config.ScreenAuditChecks], records)
	if e.Count() != len(records) {
		t.Errorf("Count() = %d, want %d", e.Count(), len(records))
	}
	if !records[3].Visible {
		t.Error("New() should reset visibility")
	}
}

func TestCategoryPartition(t *testing.T) {
	tests := []struct {
		name     string
		criteria models.Criteria
		want     int
	}{
		{"manual", models.Criteria{Category: models.CategoryManual}, 17},
		{"axe", models.Criteria{Category: models.CategoryAxe}, 56},
		{"pdf", models.Criteria{Category: models.CategoryPDF}, 5},
		{"axe errors", models.Criteria{Category: models.CategoryAxe, Status: models.StatusError}, 2},
		{"axe not tested", models.Criteria{Category: models.CategoryAxe, Status: models.StatusNotTested}, 54},
		{"manual contrast", models.Criteria{Category: models.CategoryManual, Text: "contrast"}, 1},
		{"pdf errors", models.Criteria{Category: models.CategoryPDF, Status: models.StatusError}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := auditEngine(t)
			e.SetCriteria(tt.criteria)
			got := e.Recompute()
			if got != tt.want {
				t.Errorf("Recompute() = %d, want %d", got, tt.want)
			}

			var want []string
			for _, r := range e.Records() {
				if r.Category == tt.criteria.Category &&
					(tt.criteria.Status == "" || r.Status == tt.criteria.Status) &&
					strings.Contains(strings.ToLower(r.SearchText), tt.criteria.Text) {
					want = append(want, r.ID)
				}
			}
			if diff := cmp.Diff(want, visibleIDs(e)); diff != "" {
				t.Errorf("visible records mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecomputeIdempotent(t *testing.T) {
	e := auditEngine(t)
	e.SetCriteria(models.Criteria{Category: models.CategoryAxe, Text: "contrast"})

	first := e.Recompute()
	firstIDs := visibleIDs(e)
	second := e.Recompute()

	if first != second {
		t.Errorf("counts differ: %d then %d", first, second)
	}
	if diff := cmp.Diff(firstIDs, visibleIDs(e)); diff != "" {
		t.Errorf("visibility changed between passes (-first +second):\n%s", diff)
	}
}

func TestResetRestoresFullSet(t *testing.T) {
	priors := []models.Criteria{
		{Category: models.CategoryPDF},
		{Status: models.StatusError},
		{Text: "contrast"},
		{Category: models.CategoryAxe, Status: models.StatusNoError, Text: "nothing matches this"},
	}

	for _, prior := range priors {
		t.Run(fmt.Sprintf("%+v", prior), func(t *testing.T) {
			e := auditEngine(t)
			e.SetCriteria(prior)
			e.Recompute()

			if got := e.ResetCriteria(); got != 78 {
				t.Errorf("ResetCriteria() = %d, want 78", got)
			}
			if !e.Criteria().IsZero() {
				t.Errorf("Criteria() = %+v, want zero", e.Criteria())
			}
		})
	}
}

func TestStatusChangePropagation(t *testing.T) {
	e := auditEngine(t)
	e.SetCriteria(models.Criteria{Status: models.StatusError})
	if got := e.Recompute(); got != 4 {
		t.Fatalf("Recompute() = %d, want 4", got)
	}

	// check-1 is a manual not-tested record
	index := e.IndexOf("check-1")
	if got := e.OnRecordStatusChanged(index, models.StatusError); got != 5 {
		t.Errorf("OnRecordStatusChanged() = %d, want 5", got)
	}
	if e.Records()[index].Status != models.StatusError {
		t.Errorf("status = %q, want %q", e.Records()[index].Status, models.StatusError)
	}
	if !e.Records()[index].Visible {
		t.Error("changed record should now be visible")
	}

	counts := e.NotTestedByCategory()
	if counts[models.CategoryManual] != 13 {
		t.Errorf("manual not tested = %d, want 13", counts[models.CategoryManual])
	}
}

func TestOutOfRangeStatusChangeIgnored(t *testing.T) {
	e := auditEngine(t)
	rec := &recorder{}
	e.AddPresenter(rec)
	e.Recompute()

	for _, index := range []int{-1, 78, 1000} {
		if got := e.OnRecordStatusChanged(index, models.StatusError); got != 78 {
			t.Errorf("OnRecordStatusChanged(%d) = %d, want 78", index, got)
		}
	}
	if len(rec.passes) != 1 {
		t.Errorf("presenter called %d times, want 1", len(rec.passes))
	}
}

func TestTextFilterCaseInsensitive(t *testing.T) {
	for _, text := range []string{"contrast", "CONTRAST", "Contrast"} {
		t.Run(text, func(t *testing.T) {
			e := auditEngine(t)
			e.SetCriteria(models.Criteria{Text: text})
			if got := e.Recompute(); got != 3 {
				t.Errorf("Recompute() = %d, want 3", got)
			}
		})
	}
}

func TestCountByCategoryIgnoresCriteria(t *testing.T) {
	e := auditEngine(t)
	want := map[models.Category]int{
		models.CategoryManual: 14,
		models.CategoryAxe:    54,
		models.CategoryPDF:    4,
	}

	if diff := cmp.Diff(want, e.NotTestedByCategory()); diff != "" {
		t.Errorf("before filtering (-want +got):\n%s", diff)
	}

	e.SetCriteria(models.Criteria{Category: models.CategoryPDF, Status: models.StatusError, Text: "contrast"})
	e.Recompute()
	if diff := cmp.Diff(want, e.NotTestedByCategory()); diff != "" {
		t.Errorf("after filtering (-want +got):\n%s", diff)
	}

	errors := e.CountByCategory(models.StatusError)
	if diff := cmp.Diff(map[models.Category]int{
		models.CategoryManual: 2,
		models.CategoryAxe:    2,
		models.CategoryPDF:    0,
	}, errors); diff != "" {
		t.Errorf("CountByCategory(error) (-want +got):\n%s", diff)
	}
}

func TestWildcardCategory(t *testing.T) {
	screen := config.DefaultScreens()[config.ScreenFreqLinks]
	tests := []struct {
		category models.Category
		want     int
		summary  string
	}{
		{"", 8, "Showing 8 links"},
		{models.CategorySimplified, 5, "Showing 5 links"},
		{models.CategoryDetailed, 3, "Showing 3 links"},
		{models.CategoryMobile, 2, "Showing 2 links"},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			e := New(screen, freqLinkRecords())
			e.SetCriteria(models.Criteria{Category: tt.category})
			if got := e.Recompute(); got != tt.want {
				t.Errorf("Recompute() = %d, want %d", got, tt.want)
			}
			if got := e.Summary(); got != tt.summary {
				t.Errorf("Summary() = %q, want %q", got, tt.summary)
			}
		})
	}
}

func TestWildcardOnlyWhenConfigured(t *testing.T) {
	screen := config.DefaultScreens()[config.ScreenFreqLinks]
	screen.WildcardCategory = ""

	e := New(screen, freqLinkRecords())
	e.SetCriteria(models.Criteria{Category: models.CategorySimplified})
	if got := e.Recompute(); got != 4 {
		t.Errorf("Recompute() = %d, want 4", got)
	}
}

func TestUnknownLabelsMeanNoFilter(t *testing.T) {
	e := auditEngine(t)
	e.SetCriteria(models.Criteria{Category: "video", Status: "broken"})

	if got := e.Criteria(); !got.IsZero() {
		t.Errorf("Criteria() = %+v, want zero", got)
	}
	if got := e.Recompute(); got != 78 {
		t.Errorf("Recompute() = %d, want 78", got)
	}
}

func TestLabelsKeptWithoutEnumerations(t *testing.T) {
	records := []*models.Record{
		{ID: "a", Category: "x", Status: "open"},
		{ID: "b", Category: "y", Status: "open"},
		{ID: "c", Category: "x", Status: "closed"},
	}
	e := New(models.Screen{Name: "custom"}, records)
	e.SetCriteria(models.Criteria{Category: "x", Status: "open"})

	if got := e.Recompute(); got != 1 {
		t.Errorf("Recompute() = %d, want 1", got)
	}
	if diff := cmp.Diff([]string{"a"}, visibleIDs(e)); diff != "" {
		t.Errorf("visible records mismatch (-want +got):\n%s", diff)
	}
}

func TestUnreadableStatus(t *testing.T) {
	records := auditRecords()
	records[0].Status = "" // manual, was not-tested

	e := New(config.DefaultScreens()[config.ScreenAuditChecks], records)

	e.SetCriteria(models.Criteria{Status: models.StatusNotTested})
	if got := e.Recompute(); got != 71 {
		t.Errorf("not-tested count = %d, want 71", got)
	}
	if records[0].Visible {
		t.Error("record without status should not match a status criterion")
	}

	e.SetCriteria(models.Criteria{Category: models.CategoryManual})
	if got := e.Recompute(); got != 17 {
		t.Errorf("manual count = %d, want 17 (status axis unset)", got)
	}

	if got := e.NotTestedByCategory()[models.CategoryManual]; got != 13 {
		t.Errorf("manual not tested = %d, want 13", got)
	}
}

func TestEmptyCollection(t *testing.T) {
	e := New(config.DefaultScreens()[config.ScreenAuditChecks], nil)
	e.SetCriteria(models.Criteria{Category: models.CategoryAxe})

	if got := e.Recompute(); got != 0 {
		t.Errorf("Recompute() = %d, want 0", got)
	}
	if got := e.Summary(); got != "Showing 0 errors" {
		t.Errorf("Summary() = %q", got)
	}
	if got := e.ResetCriteria(); got != 0 {
		t.Errorf("ResetCriteria() = %d, want 0", got)
	}
}

func TestPresenterNotifiedOncePerPass(t *testing.T) {
	e := auditEngine(t)
	rec := &recorder{}
	e.AddPresenter(rec)

	e.SetCriteria(models.Criteria{Category: models.CategoryManual, Status: models.StatusError})
	if len(rec.passes) != 0 {
		t.Fatalf("SetCriteria should not notify, got %d passes", len(rec.passes))
	}

	e.Recompute()
	e.OnRecordStatusChanged(e.IndexOf("check-1"), models.StatusError)
	e.ResetCriteria()

	if len(rec.passes) != 3 {
		t.Fatalf("presenter called %d times, want 3", len(rec.passes))
	}

	first := rec.passes[0]
	if first.Count != 2 || first.Summary != "Showing 2 errors" {
		t.Errorf("first pass = %d %q, want 2 %q", first.Count, first.Summary, "Showing 2 errors")
	}
	visible := 0
	for _, v := range first.Visible {
		if v {
			visible++
		}
	}
	if visible != first.Count {
		t.Errorf("visible flags = %d, count = %d", visible, first.Count)
	}
	if first.Badges[models.CategoryAxe] != 54 {
		t.Errorf("axe badge = %d, want 54", first.Badges[models.CategoryAxe])
	}

	if got := rec.passes[1].Count; got != 3 {
		t.Errorf("second pass count = %d, want 3", got)
	}
	if got := rec.passes[2].Count; got != 78 {
		t.Errorf("third pass count = %d, want 78", got)
	}
}

func TestSearchSummaryWithoutQuery(t *testing.T) {
	records := []*models.Record{
		{Label: "Case details", SearchText: "One: Search target", Visible: true},
		{Label: "Testing details", SearchText: "Two: Search target", Visible: true},
	}
	e := New(config.DefaultScreens()[config.ScreenSearchInCase], records)
	e.Recompute()
	if got := e.Summary(); got != "Showing 2 results" {
		t.Errorf("Summary() = %q, want %q", got, "Showing 2 results")
	}

	e.SetCriteria(models.Criteria{Text: "two"})
	e.Recompute()
	if got := e.Summary(); got != "Found 1 result for two" {
		t.Errorf("Summary() = %q, want %q", got, "Found 1 result for two")
	}
}
