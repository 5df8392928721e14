package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
)

// PageViewBuilder provides a fluent API for building page views.
// It handles the titles, dividers, spacing, and two-box layout.
//
// Example usage:
//
//	return NewPageView(m.Layout).
//	    Title("Audit checks").
//	    Divider().
//	    Spacing(1).
//	    QueryInfo("Filters: category=axe").
//	    Table(m.table).
//	    Summary("Showing 8 errors").
//	    Status(m.StatusMsg).
//	    Help("/: search | c: category | s: status").
//	    Build()
type PageViewBuilder struct {
	layout     Layout
	content    strings.Builder
	helpText   string
	hadContent bool
}

// NewPageView creates a new PageViewBuilder with the given layout.
func NewPageView(layout Layout) *PageViewBuilder {
	return &PageViewBuilder{layout: layout}
}

// Title adds a title line (bold white).
func (b *PageViewBuilder) Title(title string) *PageViewBuilder {
	return b.line(RenderTitle(title))
}

// Subtitle adds a subtitle line (dim gray).
func (b *PageViewBuilder) Subtitle(subtitle string) *PageViewBuilder {
	return b.line(RenderDim(subtitle))
}

// Divider adds a full-width horizontal divider.
func (b *PageViewBuilder) Divider() *PageViewBuilder {
	return b.line(FullWidthDivider(b.layout.InnerWidth))
}

// Spacing adds blank lines.
func (b *PageViewBuilder) Spacing(lines int) *PageViewBuilder {
	b.content.WriteString(strings.Repeat("\n", lines))
	return b
}

// QueryInfo adds the filter information line (accented yellow).
func (b *PageViewBuilder) QueryInfo(info string) *PageViewBuilder {
	return b.line(AccentStyle.Render(info))
}

// Summary adds the visible-count line (green).
func (b *PageViewBuilder) Summary(summary string) *PageViewBuilder {
	if summary == "" {
		return b
	}
	return b.line(SummaryStyle.Render(summary))
}

// Text adds normal text content.
func (b *PageViewBuilder) Text(text string) *PageViewBuilder {
	return b.line(NormalStyle.Render(text))
}

// CustomContent adds pre-rendered content.
func (b *PageViewBuilder) CustomContent(content string) *PageViewBuilder {
	b.content.WriteString(content)
	b.hadContent = true
	return b
}

// Table adds a table with full-width selection highlighting.
func (b *PageViewBuilder) Table(t table.Model) *PageViewBuilder {
	if b.hadContent {
		b.content.WriteString("\n")
	}
	b.content.WriteString(RenderTableWithSelection(t, b.layout))
	b.content.WriteString("\n")
	b.hadContent = true
	return b
}

// Status adds a status message (if not empty).
func (b *PageViewBuilder) Status(msg string) *PageViewBuilder {
	if msg == "" {
		return b
	}
	return b.line(StatusMsgStyle.Render(msg))
}

// Error adds an error message.
func (b *PageViewBuilder) Error(err error) *PageViewBuilder {
	if err == nil {
		return b
	}
	return b.line(RenderError("Error: " + err.Error()))
}

// Help sets the help text for the footer box.
func (b *PageViewBuilder) Help(helpText string) *PageViewBuilder {
	b.helpText = helpText
	return b
}

// Build constructs the final view string with two-box layout.
func (b *PageViewBuilder) Build() string {
	return TwoBoxView(b.content.String(), b.helpText, b.layout)
}

func (b *PageViewBuilder) line(s string) *PageViewBuilder {
	b.content.WriteString(s)
	b.content.WriteString("\n")
	b.hadContent = true
	return b
}
