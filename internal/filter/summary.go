package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thesavant42/auditfilter/internal/models"
)

// DefaultSummaryFormat is used when a screen does not set one
const DefaultSummaryFormat = "Showing {count} {noun}"

// FormatSummary renders the count line for a screen.
// The noun is singular only when count is exactly 1.
// Placeholders: {count}, {noun}, {query}. A format that needs {query} falls
// back to DefaultSummaryFormat while the query is empty.
func FormatSummary(screen models.Screen, count int, query string) string {
	format := screen.SummaryFormat
	if format == "" || (query == "" && strings.Contains(format, "{query}")) {
		format = DefaultSummaryFormat
	}
	r := strings.NewReplacer(
		"{count}", strconv.Itoa(count),
		"{noun}", Noun(screen, count),
		"{query}", query,
	)
	return r.Replace(format)
}

// Noun returns the singular or plural record noun for count
func Noun(screen models.Screen, count int) string {
	singular := screen.Noun
	if singular == "" {
		singular = "record"
	}
	if count == 1 {
		return singular
	}
	if screen.NounPlural != "" {
		return screen.NounPlural
	}
	return singular + "s"
}

// FormatBadge renders a category badge such as "Manual tests (14 not tested)"
func FormatBadge(text string, count int, status models.Status) string {
	return fmt.Sprintf("%s (%d %s)", text, count, strings.ReplaceAll(string(status), "-", " "))
}

// BadgeLabels renders the badge text for every configured category of the screen
func BadgeLabels(screen models.Screen, counts map[models.Category]int) map[models.Category]string {
	status := screen.BadgeStatus
	if status == "" {
		status = models.StatusNotTested
	}
	labels := make(map[models.Category]string, len(screen.Badges))
	for category, badge := range screen.Badges {
		labels[category] = FormatBadge(badge.Text, counts[category], status)
	}
	return labels
}
