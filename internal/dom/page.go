package dom

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/thesavant42/auditfilter/internal/models"
)

const maxLabelLen = 80

// Page is a rendered filter page bound to a screen profile.
// Records are read once at load; visibility, the summary and badge labels
// are written back by Present.
type Page struct {
	doc     *goquery.Document
	screen  models.Screen
	nodes   []*goquery.Selection // record elements, same order as records
	records []*models.Record
	logger  *log.Logger
}

// Parse reads HTML from r and binds the screen's records
func Parse(r io.Reader, screen models.Screen, logger *log.Logger) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	if screen.RecordSelector == "" {
		return nil, fmt.Errorf("screen %q has no record selector", screen.Name)
	}

	p := &Page{
		doc:    doc,
		screen: screen,
		logger: logger,
	}
	p.bindRecords()

	if logger != nil {
		logger.Debug("page bound", "screen", screen.Name, "records", len(p.records))
	}
	return p, nil
}

// Open parses the HTML file at path
func Open(path string, screen models.Screen, logger *log.Logger) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer f.Close()
	return Parse(f, screen, logger)
}

// Screen returns the profile the page was bound with
func (p *Page) Screen() models.Screen {
	return p.screen
}

// Records returns the records found on the page, in document order
func (p *Page) Records() []*models.Record {
	return p.records
}

// Document exposes the parsed document
func (p *Page) Document() *goquery.Document {
	return p.doc
}

func (p *Page) bindRecords() {
	p.doc.Find(p.screen.RecordSelector).Each(func(i int, s *goquery.Selection) {
		r := &models.Record{
			ID:      strings.TrimSpace(s.AttrOr("id", "")),
			Visible: true,
		}

		if p.screen.CategoryAttr != "" {
			r.Category = models.Category(strings.TrimSpace(s.AttrOr(p.screen.CategoryAttr, "")))
		}

		if p.screen.StatusSelector != "" {
			checked := s.Find(p.screen.StatusSelector).First()
			r.Status = models.Status(strings.TrimSpace(checked.AttrOr("value", "")))
			if r.Status == "" && p.logger != nil {
				p.logger.Debug("record has no readable status", "screen", p.screen.Name, "index", i, "id", r.ID)
			}
		}

		text := collapseSpace(s.Text())
		if p.screen.ResultsPanel && text == "" {
			return
		}
		switch p.screen.SearchAttr {
		case "":
			r.SearchText = text
		case "id":
			r.SearchText = r.ID
		default:
			r.SearchText = s.AttrOr(p.screen.SearchAttr, "")
		}

		r.Label = recordLabel(s, text)

		if p.screen.TargetAttr != "" {
			target := s.Closest("[" + p.screen.TargetAttr + "]")
			r.Target = target.AttrOr(p.screen.TargetAttr, "")
			if p.screen.TargetLabel != "" {
				if label := collapseSpace(target.AttrOr(p.screen.TargetLabel, "")); label != "" {
					r.Label = truncate(label, maxLabelLen)
				}
			}
			if p.screen.TargetPageName != "" {
				r.TargetPage = collapseSpace(target.AttrOr(p.screen.TargetPageName, ""))
			}
		}

		p.nodes = append(p.nodes, s)
		p.records = append(p.records, r)
	})
}

// recordLabel picks the first heading or label inside the record, falling
// back to its text content
func recordLabel(s *goquery.Selection, text string) string {
	label := collapseSpace(s.Find("h2, h3, h4, label, legend, a").First().Text())
	if label == "" {
		label = text
	}
	return truncate(label, maxLabelLen)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
