package models

// Screen describes how one rendered filter page maps onto the filter engine.
// Selectors are CSS selectors evaluated against the page.
type Screen struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`

	// Record discovery
	RecordSelector string `yaml:"record_selector"`
	CategoryAttr   string `yaml:"category_attr"`    // Attribute carrying the category
	StatusSelector string `yaml:"status_selector"`  // Checked status control inside a record
	SearchAttr     string `yaml:"search_attr"`      // "" = text content, "id" = element id
	TargetAttr     string `yaml:"target_attr"`      // Attribute holding a record's page URL
	TargetLabel    string `yaml:"target_label"`     // Attribute holding the link text for TargetAttr
	TargetPageName string `yaml:"target_page_name"` // Attribute holding the page name for TargetAttr

	// Form controls that carry the current criteria
	TextInput     string            `yaml:"text_input"`     // id of the free-text field
	CategoryInput string            `yaml:"category_input"` // name of the category radio group
	StatusInput   string            `yaml:"status_input"`   // name of the status radio group
	StatusInputs  map[Status]string `yaml:"status_inputs"`  // status -> checkbox id (retest page)

	// Outputs
	SummaryID     string `yaml:"summary_id"`
	SummaryFormat string `yaml:"summary_format"` // verbs: count, noun, then query
	Noun          string `yaml:"noun"`
	NounPlural    string `yaml:"noun_plural"`

	// ResultsPanel screens leave records in place and list the matches in
	// the summary element instead, hidden while the text criterion is empty.
	ResultsPanel bool `yaml:"results_panel"`

	// Enumerations used to normalize criteria
	Categories       []Category `yaml:"categories"`
	Statuses         []Status   `yaml:"statuses"`
	WildcardCategory Category   `yaml:"wildcard_category"` // Record category matching every criterion
	NoneValue        string     `yaml:"none_value"`        // Control value meaning "no filter"

	// Category badges ("Manual tests (14 not tested)")
	BadgeStatus Status             `yaml:"badge_status"`
	Badges      map[Category]Badge `yaml:"badges"`
}

// Badge is the per-category counter label written next to a category control
type Badge struct {
	LabelFor string `yaml:"label_for"` // id of the control the label is for
	Text     string `yaml:"text"`      // "Manual tests"
}

// HasCategory reports whether c is one of the screen's categories
func (s Screen) HasCategory(c Category) bool {
	for _, known := range s.Categories {
		if known == c {
			return true
		}
	}
	return false
}

// HasStatus reports whether st is one of the screen's statuses
func (s Screen) HasStatus(st Status) bool {
	for _, known := range s.Statuses {
		if known == st {
			return true
		}
	}
	return false
}
