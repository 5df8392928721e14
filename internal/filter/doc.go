// Package filter provides the list filtering engine behind the audit check,
// retest and frequently-used-link filter screens.
//
// An [Engine] holds a fixed, ordered collection of records and the current
// [models.Criteria]. Every pass evaluates three independent predicates and
// combines them with AND:
//
//   - category: unset, or equal to the record's category
//   - status: unset, or equal to the record's status
//   - text: empty, or a case-insensitive substring of the record's search text
//
// # Usage
//
//	e := filter.New(screen, records)
//	e.AddPresenter(page)
//
//	e.SetCriteria(models.Criteria{Category: models.CategoryAxe})
//	n := e.Recompute()          // visible count, presenters notified once
//
//	e.OnRecordStatusChanged(3, models.StatusFixed)
//	e.ResetCriteria()
//
//	badges := e.NotTestedByCategory() // ignores the current criteria
//
// The engine is not safe for concurrent use. Hosts call it from a single
// event loop (a Bubble Tea Update, a CLI command) and every call runs to
// completion before the next one.
package filter
