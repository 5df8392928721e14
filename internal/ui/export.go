package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/thesavant42/auditfilter/internal/models"
)

// ExportRecordsToMarkdown writes the given records (normally the visible ones)
// to a dated markdown file in dir and returns its path.
func ExportRecordsToMarkdown(dir string, screen models.Screen, criteria models.Criteria, summary string, records []*models.Record) (string, error) {
	timestamp := time.Now().Format("20060102-150405")
	filename := filepath.Join(dir, fmt.Sprintf("%s-%s.md", strings.ReplaceAll(screen.Name, "/", "-"), timestamp))

	if err := os.WriteFile(filename, []byte(RecordsMarkdown(screen, criteria, summary, records)), 0644); err != nil {
		return "", fmt.Errorf("failed to write markdown file: %w", err)
	}
	return filename, nil
}

// RecordsMarkdown renders records as a markdown report
func RecordsMarkdown(screen models.Screen, criteria models.Criteria, summary string, records []*models.Record) string {
	var sb strings.Builder

	title := screen.Title
	if title == "" {
		title = screen.Name
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	if summary != "" {
		sb.WriteString(fmt.Sprintf("**%s**\n\n", summary))
	}
	sb.WriteString(fmt.Sprintf("- Category: %s\n", labelOrAll(string(criteria.Category))))
	sb.WriteString(fmt.Sprintf("- Status: %s\n", labelOrAll(string(criteria.Status))))
	if criteria.Text != "" {
		sb.WriteString(fmt.Sprintf("- Text: %s\n", escapeMarkdownCell(criteria.Text)))
	}
	sb.WriteString(fmt.Sprintf("- Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	if len(records) == 0 {
		sb.WriteString("No records\n")
		return sb.String()
	}

	withTarget := screen.TargetAttr != ""
	if withTarget {
		sb.WriteString("| # | Label | Page | Category | Status |\n")
		sb.WriteString("|---|-------|------|----------|--------|\n")
	} else {
		sb.WriteString("| # | ID | Label | Category | Status |\n")
		sb.WriteString("|---|----|-------|----------|--------|\n")
	}

	for i, r := range records {
		if withTarget {
			target := "-"
			if r.Target != "" {
				target = fmt.Sprintf("[%s](%s)", escapeMarkdownCell(r.Target), r.Target)
			}
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
				i+1, escapeMarkdownCell(r.Label), target, labelOrDash(string(r.Category)), labelOrDash(string(r.Status))))
			continue
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			i+1, escapeMarkdownCell(labelOrDash(r.ID)), escapeMarkdownCell(r.Label), labelOrDash(string(r.Category)), labelOrDash(string(r.Status))))
	}

	return sb.String()
}

// RenderMarkdown renders a markdown report for the terminal, wrapped to width
func RenderMarkdown(md string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

func escapeMarkdownCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

// ExportDatabaseBackup copies the snapshot store to a dated backup file next to it
func ExportDatabaseBackup(currentDBPath string) (string, error) {
	timestamp := time.Now().Format("2006-01-02-150405")
	baseName := strings.TrimSuffix(filepath.Base(currentDBPath), filepath.Ext(currentDBPath))
	backupFilename := filepath.Join(filepath.Dir(currentDBPath), fmt.Sprintf("%s-backup-%s.db", baseName, timestamp))

	src, err := os.Open(currentDBPath)
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(backupFilename)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to copy database: %w", err)
	}

	return backupFilename, nil
}
