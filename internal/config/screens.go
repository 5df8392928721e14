package config

import "github.com/thesavant42/auditfilter/internal/models"

// Built-in screen names
const (
	ScreenAuditChecks  = "audits_check_filter"
	ScreenRetestChecks = "audits_retest_check_filter"
	ScreenFreqLinks    = "freq_links_filter"
	ScreenSearchInCase = "search_in_case"
)

// DefaultScreens returns the screen profiles for the pages rendered by the
// case-management application
func DefaultScreens() map[string]models.Screen {
	return map[string]models.Screen{
		ScreenAuditChecks: {
			Name:           ScreenAuditChecks,
			Title:          "Audit checks",
			RecordSelector: "div[data-check-type]",
			CategoryAttr:   "data-check-type",
			StatusSelector: `div.govuk-radios input[name*="form-"][name*="-check_result_state"][checked]`,
			SearchAttr:     "data-filter-string",
			TextInput:      "id_name",
			CategoryInput:  "type_filter",
			StatusInput:    "state_filter",
			SummaryID:      "number_of_errors",
			Noun:           "error",
			NounPlural:     "errors",
			Categories:     []models.Category{models.CategoryManual, models.CategoryAxe, models.CategoryPDF},
			Statuses:       []models.Status{models.StatusError, models.StatusNoError, models.StatusNotTested},
			BadgeStatus:    models.StatusNotTested,
			Badges: map[models.Category]models.Badge{
				models.CategoryManual: {LabelFor: "id_type_filter_0", Text: "Manual tests"},
				models.CategoryAxe:    {LabelFor: "id_type_filter_1", Text: "Axe tests"},
				models.CategoryPDF:    {LabelFor: "id_type_filter_2", Text: "PDF"},
			},
		},
		ScreenRetestChecks: {
			Name:           ScreenRetestChecks,
			Title:          "Retest checks",
			RecordSelector: `div[id*="testlist"]`,
			StatusSelector: `div.govuk-radios input[name*="form-"][name*="-retest_state"][checked]`,
			SearchAttr:     "id",
			TextInput:      "id_name",
			StatusInputs: map[models.Status]string{
				models.StatusFixed:     "id_fixed",
				models.StatusNotFixed:  "id_not_fixed",
				models.StatusNotTested: "id_not_retested",
			},
			SummaryID:  "number_of_errors",
			Noun:       "error",
			NounPlural: "errors",
			Statuses:   []models.Status{models.StatusFixed, models.StatusNotFixed, models.StatusNotTested},
		},
		ScreenFreqLinks: {
			Name:             ScreenFreqLinks,
			Title:            "Frequently used links",
			RecordSelector:   "tr[data-case-type]",
			CategoryAttr:     "data-case-type",
			CategoryInput:    "case_type_filter",
			NoneValue:        "none",
			WildcardCategory: "all",
			SummaryID:        "filter_summary",
			Noun:             "link",
			NounPlural:       "links",
			Categories:       []models.Category{models.CategorySimplified, models.CategoryDetailed, models.CategoryMobile},
		},
		ScreenSearchInCase: {
			Name:           ScreenSearchInCase,
			Title:          "Search in case",
			RecordSelector: ".amp-searchable",
			TargetAttr:     "data-search-target-url",
			TargetLabel:    "data-search-target-label",
			TargetPageName: "data-search-target-page-name",
			TextInput:      "id_search_in_case",
			SummaryID:      "id_search_results",
			SummaryFormat:  "Found {count} {noun} for {query}",
			Noun:           "result",
			NounPlural:     "results",
			ResultsPanel:   true,
		},
	}
}
