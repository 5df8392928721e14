package filter

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/auditfilter/internal/models"
)

// Presenter receives the result of each filter pass.
// The DOM adapter and the TUI both implement it.
type Presenter interface {
	Present(p Pass)
}

// Pass is the outcome of one full evaluation of every record
type Pass struct {
	Criteria models.Criteria
	Visible  []bool // Indexed like Engine.Records()
	Count    int
	Summary  string                  // "Showing 8 errors"
	Badges   map[models.Category]int // Records per category in the badge status
}

// Engine maintains visibility flags and a visible count over a fixed record collection
type Engine struct {
	screen     models.Screen
	records    []*models.Record
	lowered    []string // lower-cased SearchText, same order as records
	criteria   models.Criteria
	count      int
	presenters []Presenter
	logger     *log.Logger
}

// New creates an engine over records using the screen's enumerations and wording.
// All records start visible; call Recompute to run the first pass.
func New(screen models.Screen, records []*models.Record) *Engine {
	e := &Engine{
		screen:  screen,
		records: records,
		lowered: make([]string, len(records)),
	}
	for i, r := range records {
		e.lowered[i] = strings.ToLower(r.SearchText)
		r.Visible = true
	}
	e.count = len(records)
	return e
}

// SetLogger enables debug logging of filter passes
func (e *Engine) SetLogger(logger *log.Logger) {
	e.logger = logger
}

// AddPresenter registers p to be notified after every pass
func (e *Engine) AddPresenter(p Presenter) {
	e.presenters = append(e.presenters, p)
}

// Screen returns the screen profile the engine was built with
func (e *Engine) Screen() models.Screen {
	return e.screen
}

// Records returns the records in render order
func (e *Engine) Records() []*models.Record {
	return e.records
}

// Len returns the size of the collection
func (e *Engine) Len() int {
	return len(e.records)
}

// Criteria returns the criteria applied by the most recent SetCriteria
func (e *Engine) Criteria() models.Criteria {
	return e.criteria
}

// Count returns the visible count from the most recent pass
func (e *Engine) Count() int {
	return e.count
}

// Summary formats the visible count from the most recent pass
func (e *Engine) Summary() string {
	return FormatSummary(e.screen, e.count, e.criteria.Text)
}

// IndexOf returns the position of the record with the given id, or -1
func (e *Engine) IndexOf(id string) int {
	for i, r := range e.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// SetCriteria replaces the current criteria wholesale.
// Labels outside the screen's enumerations mean "no filter" on that axis.
func (e *Engine) SetCriteria(c models.Criteria) {
	e.criteria = e.normalize(c)
}

// Recompute evaluates every record against the current criteria,
// notifies presenters once and returns the visible count.
func (e *Engine) Recompute() int {
	needle := strings.ToLower(e.criteria.Text)
	count := 0
	for i, r := range e.records {
		r.Visible = e.matchesCategory(r) && e.matchesStatus(r) && matchesText(e.lowered[i], needle)
		if r.Visible {
			count++
		}
	}
	e.count = count

	if e.logger != nil {
		e.logger.Debug("filter pass",
			"screen", e.screen.Name,
			"category", e.criteria.Category,
			"status", e.criteria.Status,
			"text", e.criteria.Text,
			"visible", count,
			"total", len(e.records))
	}

	e.present()
	return count
}

// OnRecordStatusChanged updates the status of the record at index and recomputes.
// An index outside the collection is ignored.
func (e *Engine) OnRecordStatusChanged(index int, status models.Status) int {
	if index < 0 || index >= len(e.records) {
		if e.logger != nil {
			e.logger.Debug("status change for unknown record ignored", "index", index, "status", status)
		}
		return e.count
	}
	e.records[index].Status = status
	return e.Recompute()
}

// ResetCriteria restores the default criteria and recomputes
func (e *Engine) ResetCriteria() int {
	e.criteria = models.Criteria{}
	return e.Recompute()
}

// CountByCategory counts records in the given status per category over the
// whole collection, regardless of the current criteria. Every screen category
// is present in the result, records without a category are not counted.
func (e *Engine) CountByCategory(status models.Status) map[models.Category]int {
	counts := make(map[models.Category]int, len(e.screen.Categories))
	for _, c := range e.screen.Categories {
		counts[c] = 0
	}
	for _, r := range e.records {
		if r.Category == "" || r.Status == "" || r.Status != status {
			continue
		}
		counts[r.Category]++
	}
	return counts
}

// NotTestedByCategory counts records in the screen's badge status
// ("not-tested" unless configured otherwise) per category.
func (e *Engine) NotTestedByCategory() map[models.Category]int {
	return e.CountByCategory(e.badgeStatus())
}

// VisibleRecords returns the records visible after the most recent pass
func (e *Engine) VisibleRecords() []*models.Record {
	visible := make([]*models.Record, 0, e.count)
	for _, r := range e.records {
		if r.Visible {
			visible = append(visible, r)
		}
	}
	return visible
}

func (e *Engine) badgeStatus() models.Status {
	if e.screen.BadgeStatus != "" {
		return e.screen.BadgeStatus
	}
	return models.StatusNotTested
}

func (e *Engine) normalize(c models.Criteria) models.Criteria {
	if c.Category != "" && len(e.screen.Categories) > 0 && !e.screen.HasCategory(c.Category) {
		c.Category = ""
	}
	if c.Status != "" && len(e.screen.Statuses) > 0 && !e.screen.HasStatus(c.Status) {
		c.Status = ""
	}
	return c
}

func (e *Engine) matchesCategory(r *models.Record) bool {
	if e.criteria.Category == "" {
		return true
	}
	if e.screen.WildcardCategory != "" && r.Category == e.screen.WildcardCategory {
		return true
	}
	return r.Category == e.criteria.Category
}

func (e *Engine) matchesStatus(r *models.Record) bool {
	if e.criteria.Status == "" {
		return true
	}
	return r.Status == e.criteria.Status
}

func matchesText(haystack, needle string) bool {
	return needle == "" || strings.Contains(haystack, needle)
}

func (e *Engine) present() {
	if len(e.presenters) == 0 {
		return
	}
	p := Pass{
		Criteria: e.criteria,
		Visible:  make([]bool, len(e.records)),
		Count:    e.count,
		Summary:  e.Summary(),
		Badges:   e.NotTestedByCategory(),
	}
	for i, r := range e.records {
		p.Visible[i] = r.Visible
	}
	for _, presenter := range e.presenters {
		presenter.Present(p)
	}
}
