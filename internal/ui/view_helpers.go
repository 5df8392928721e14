package ui

// view_helpers.go provides common View() rendering helpers.
// Use these to build consistent two-box layouts across all TUI models.

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
)

// RenderTableWithSelection renders a bubbles table with full-width selection highlight.
// The table's Selected style should use a neutral background,
// and this function applies the visible selection styling.
//
// bubbles/table View() output is the header on line 0 followed by the
// visible data rows; the divider under the header is added here.
func RenderTableWithSelection(t table.Model, layout Layout) string {
	lines := strings.Split(t.View(), "\n")
	result := make([]string, 0, len(lines)+1)

	visibleCursor := t.Cursor() - scrollOffset(t.Cursor(), t.Height(), len(t.Rows()))

	for i, line := range lines {
		if i == 0 {
			result = append(result, NormalStyle.Render(line))
			result = append(result, FullWidthDivider(layout.InnerWidth))
			continue
		}

		// Strip escape codes first so embedded resets don't kill the background
		if i-1 == visibleCursor {
			clean := stripEscapeCodes(line)
			if w := StringWidth(clean); w < layout.InnerWidth {
				clean += strings.Repeat(" ", layout.InnerWidth-w)
			} else if w > layout.InnerWidth {
				clean = truncateToWidth(clean, layout.InnerWidth)
			}
			result = append(result, SelectedStyle.Render(clean))
			continue
		}

		result = append(result, NormalStyle.Render(line))
	}

	return strings.Join(result, "\n")
}

// scrollOffset mirrors the bubbles table viewport: the first visible row
// for a cursor, given the visible height and total rows.
func scrollOffset(cursor, height, total int) int {
	if total <= height || cursor < height {
		return 0
	}
	start := cursor - height + 1
	if maxStart := total - height; start > maxStart {
		start = maxStart
	}
	return start
}

// ViewHeader renders title + full-width divider + spacing.
func ViewHeader(title string, innerWidth int) string {
	return ViewHeaderWithSubtitle(title, "", innerWidth)
}

// ViewHeaderWithSubtitle renders title + subtitle + divider + spacing.
func ViewHeaderWithSubtitle(title, subtitle string, innerWidth int) string {
	var b strings.Builder
	b.WriteString(RenderTitle(title))
	b.WriteString("\n")
	if subtitle != "" {
		b.WriteString(RenderDim(subtitle))
		b.WriteString("\n")
	}
	b.WriteString(FullWidthDivider(innerWidth))
	b.WriteString("\n\n")
	return b.String()
}

// CenterText centers text within given width.
// Uses StringWidth() for ANSI-aware width calculation.
func CenterText(text string, width int) string {
	textW := StringWidth(text)
	if textW >= width {
		return text
	}
	return strings.Repeat(" ", (width-textW)/2) + text
}

// TwoBoxView constructs the standard two-box layout:
//
//	┌────────────────────────┐
//	│ Main content           │  <- Red border
//	└────────────────────────┘
//	┌────────────────────────┐
//	│   Centered help text   │  <- White border, 1 row
//	└────────────────────────┘
func TwoBoxView(content, helpText string, layout Layout) string {
	return BuildTwoBoxView(content, helpText, layout)
}

// FullWidthDivider returns a horizontal divider spanning the inner width.
func FullWidthDivider(innerWidth int) string {
	return strings.Repeat("─", innerWidth)
}

// truncateCell shortens s to fit a table cell of width w
func truncateCell(s string, w int) string {
	if StringWidth(s) <= w {
		return s
	}
	if w <= 3 {
		return truncateToWidth(s, w)
	}
	return truncateToWidth(s, w-3) + "..."
}
