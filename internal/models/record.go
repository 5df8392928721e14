package models

import "time"

// Category labels a record's type (e.g. "manual", "axe", "pdf")
type Category string

// Status labels a record's current state (e.g. "error", "not-tested")
type Status string

// Well-known labels used by the built-in screens
const (
	CategoryManual Category = "manual"
	CategoryAxe    Category = "axe"
	CategoryPDF    Category = "pdf"

	CategorySimplified Category = "simplified"
	CategoryDetailed   Category = "detailed"
	CategoryMobile     Category = "mobile"

	StatusError     Status = "error"
	StatusNoError   Status = "no-error"
	StatusNotTested Status = "not-tested"

	StatusFixed    Status = "fixed"
	StatusNotFixed Status = "not-fixed"
)

// Record is one filterable displayed entity (a check result row, a link row)
type Record struct {
	ID         string   // DOM id or other stable key
	Label      string   // Short display text
	Target     string   // URL of the page the record lives on (search results)
	TargetPage string   // Name of that page, shown before the link
	Category   Category // Empty when the record has no category
	Status     Status   // Empty when the status control could not be read
	SearchText string   // Text used for free-text matching
	Visible    bool     // Derived on every filter pass, never stored
}

// Criteria is the current category, status and text filter.
// The zero value means "no filter" on every axis.
type Criteria struct {
	Category Category
	Status   Status
	Text     string
}

// IsZero reports whether no axis is filtered
func (c Criteria) IsZero() bool {
	return c.Category == "" && c.Status == "" && c.Text == ""
}

// Snapshot describes a record collection imported into the snapshot store
type Snapshot struct {
	ID          int64
	Name        string
	Screen      string
	Source      string // File path or URL the records were read from
	RecordCount int
	ImportedAt  time.Time
}
