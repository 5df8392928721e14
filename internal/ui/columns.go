package ui

// columns.go provides column width calculation for bubbles/table.
// Use ColumnSpec and CalculateColumns() instead of duplicating percentage-based math.

import (
	"github.com/charmbracelet/bubbles/table"
)

// Fixed column widths shared by the record tables
const (
	ColWidthIndex    = 5
	ColWidthCategory = 12
	ColWidthStatus   = 12
	ColWidthID       = 24
	minTableWidth    = 50
)

// ColumnSpec defines a table column with flexible or fixed width.
// Use FlexRatio for columns that should expand/contract with terminal width.
// Use FixedWidth for columns that should maintain constant width.
type ColumnSpec struct {
	Title      string
	MinWidth   int // Minimum width (0 = no minimum)
	FixedWidth int // If > 0, use this exact width (ignores FlexRatio)
	FlexRatio  int // Relative ratio for flexible columns (0 = fixed-only)
}

// CalculateColumns computes column widths from specs.
// Flexible columns split remaining space by ratio after fixed columns are allocated.
//
// Example:
//
//	columns := CalculateColumns([]ColumnSpec{
//	    {Title: "#", FixedWidth: 5},
//	    {Title: "Label", FlexRatio: 60, MinWidth: 20},
//	    {Title: "Target", FlexRatio: 40, MinWidth: 20},
//	}, layout.TableWidth)
func CalculateColumns(specs []ColumnSpec, totalWidth int) []table.Column {
	if totalWidth < minTableWidth {
		totalWidth = minTableWidth
	}

	fixedTotal := 0
	flexTotal := 0
	for _, s := range specs {
		if s.FixedWidth > 0 {
			fixedTotal += s.FixedWidth
		} else {
			flexTotal += s.FlexRatio
		}
	}

	remaining := totalWidth - fixedTotal
	if remaining < 0 {
		remaining = 0
	}

	columns := make([]table.Column, len(specs))
	for i, s := range specs {
		var width int
		if s.FixedWidth > 0 {
			width = s.FixedWidth
		} else if flexTotal > 0 {
			width = remaining * s.FlexRatio / flexTotal
		}

		if s.MinWidth > 0 && width < s.MinWidth {
			width = s.MinWidth
		}

		columns[i] = table.Column{Title: s.Title, Width: width}
	}

	return columns
}

// RecordColumns returns column specs for the filter screen's record table.
// Screens with a target attribute (search results) show the page URL in
// place of the id column.
func RecordColumns(withTarget bool) []ColumnSpec {
	second := ColumnSpec{Title: "ID", FlexRatio: 30, MinWidth: ColWidthID}
	if withTarget {
		second = ColumnSpec{Title: "Page", FlexRatio: 40, MinWidth: ColWidthID}
	}
	return []ColumnSpec{
		{Title: "#", FixedWidth: ColWidthIndex},
		second,
		{Title: "Label", FlexRatio: 70, MinWidth: 20},
		{Title: "Category", FixedWidth: ColWidthCategory},
		{Title: "Status", FixedWidth: ColWidthStatus},
	}
}

// SnapshotColumns returns column specs for the snapshot picker.
func SnapshotColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "Name", FlexRatio: 40, MinWidth: 16},
		{Title: "Screen", FixedWidth: 22},
		{Title: "Records", FixedWidth: 9},
		{Title: "Imported", FixedWidth: 18},
	}
}
