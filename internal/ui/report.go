package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/thesavant42/auditfilter/internal/filter"
	"github.com/thesavant42/auditfilter/internal/models"
)

var (
	// Color palette
	purple = lipgloss.Color("99")  // for borders
	pink   = lipgloss.Color("205") // for header text
	cyan   = lipgloss.Color("86")
	white  = lipgloss.Color("255")
	green  = lipgloss.Color("82")
	yellow = lipgloss.Color("220")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(pink).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(cyan)

	headerStyle = lipgloss.NewStyle().
			Foreground(pink).
			Bold(true)

	rowStyle = lipgloss.NewStyle().
			Foreground(white)

	hiddenRowStyle = lipgloss.NewStyle().
			Foreground(ColorHidden)

	statStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true)

	borderStyle = lipgloss.NewStyle().
			Foreground(purple)

	highlightStyle = lipgloss.NewStyle().
			Foreground(yellow).
			Bold(true)
)

// PrintHeader prints the screen title and the page it was read from
func PrintHeader(w io.Writer, screen models.Screen, source string, total int) {
	title := screen.Title
	if title == "" {
		title = screen.Name
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(title))
	if source != "" {
		fmt.Fprintln(w, subtitleStyle.Render("Source: "+source))
	}
	fmt.Fprintln(w, subtitleStyle.Render(fmt.Sprintf("Records: %s", statStyle.Render(strconv.Itoa(total)))))
	fmt.Fprintln(w)
}

// PrintRecordTable prints a plain-text table of records.
// Hidden records are dimmed; records whose text contains highlight are accented.
//
// This is a non-interactive report: lipgloss only colors the rows, the table
// structure is plain string formatting. Interactive tables use bubbles/table.
func PrintRecordTable(w io.Writer, records []*models.Record, highlight string) {
	if len(records) == 0 {
		fmt.Fprintln(w, subtitleStyle.Render("No records"))
		return
	}

	colWidths := []int{5, 24, 44, 11, 11} // #, ID, Label, Category, Status
	totalWidth := 2
	for _, cw := range colWidths {
		totalWidth += cw + 3
	}
	totalWidth--
	separator := strings.Repeat("─", totalWidth-2)

	fmt.Fprintln(w, borderStyle.Render("┌"+separator+"┐"))
	fmt.Fprintln(w, headerStyle.Render(formatRow(colWidths, "#", "ID", "Label", "Category", "Status")))
	fmt.Fprintln(w, borderStyle.Render("├"+separator+"┤"))

	highlightLower := strings.ToLower(highlight)
	for i, r := range records {
		row := formatRow(colWidths,
			strconv.Itoa(i+1),
			labelOrDash(r.ID),
			r.Label,
			labelOrDash(string(r.Category)),
			labelOrDash(string(r.Status)))

		switch {
		case !r.Visible:
			fmt.Fprintln(w, hiddenRowStyle.Render(row))
		case highlight != "" && strings.Contains(strings.ToLower(r.SearchText), highlightLower):
			fmt.Fprintln(w, highlightStyle.Render(row))
		default:
			fmt.Fprintln(w, rowStyle.Render(row))
		}
	}

	fmt.Fprintln(w, borderStyle.Render("└"+separator+"┘"))
	fmt.Fprintln(w)
}

func formatRow(widths []int, cells ...string) string {
	var b strings.Builder
	b.WriteString("│")
	for i, cell := range cells {
		cell = truncateCell(cell, widths[i])
		b.WriteString(" ")
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", widths[i]-StringWidth(cell)))
		b.WriteString(" │")
	}
	return b.String()
}

// PrintBadges prints the category badge labels in the screen's category order
func PrintBadges(w io.Writer, screen models.Screen, counts map[models.Category]int) {
	labels := filter.BadgeLabels(screen, counts)
	for _, c := range screen.Categories {
		if label, ok := labels[c]; ok {
			fmt.Fprintln(w, rowStyle.Render(label))
		}
	}
}

// PrintSnapshots prints the stored snapshots
func PrintSnapshots(w io.Writer, snapshots []models.Snapshot) {
	if len(snapshots) == 0 {
		fmt.Fprintln(w, subtitleStyle.Render("No snapshots stored"))
		return
	}
	widths := []int{24, 22, 7, 16}
	fmt.Fprintln(w, headerStyle.Render(formatRow(widths, "Name", "Screen", "Records", "Imported")))
	for _, s := range snapshots {
		imported := "-"
		if !s.ImportedAt.IsZero() {
			imported = s.ImportedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintln(w, rowStyle.Render(formatRow(widths, s.Name, s.Screen, strconv.Itoa(s.RecordCount), imported)))
	}
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintln(w, statStyle.Render(message))
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	fmt.Fprintln(w, ErrorStyle.Render("Error: "+message))
}

// PrintSummary prints the summary line of a filter pass
func PrintSummary(w io.Writer, summary string) {
	summaryStyle := lipgloss.NewStyle().
		Foreground(cyan).
		Italic(true)
	fmt.Fprintln(w, summaryStyle.Render(summary))
}
