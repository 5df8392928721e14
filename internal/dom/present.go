package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/thesavant42/auditfilter/internal/filter"
	"github.com/thesavant42/auditfilter/internal/models"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Present writes a filter pass back into the document: each record's
// display style, the summary line and the category badge labels.
func (p *Page) Present(pass filter.Pass) {
	if p.screen.ResultsPanel {
		p.presentResults(pass)
		return
	}

	for i, node := range p.nodes {
		if i >= len(pass.Visible) {
			break
		}
		display := "none"
		if pass.Visible[i] {
			display = "block"
		}
		node.SetAttr("style", setDisplay(node.AttrOr("style", ""), display))
	}

	if p.screen.SummaryID != "" {
		p.doc.Find("#" + p.screen.SummaryID).SetText(pass.Summary)
	}

	labels := filter.BadgeLabels(p.screen, pass.Badges)
	for category, badge := range p.screen.Badges {
		if badge.LabelFor == "" {
			continue
		}
		p.doc.Find(`label[for="` + badge.LabelFor + `"]`).SetText(labels[category])
	}
}

// presentResults fills the results panel with the summary and a copy of each
// matching record's children, linked to the record's target page. Matches of
// the query are bolded in text only, never inside tags or attributes.
// An empty text criterion clears and hides the panel.
func (p *Page) presentResults(pass filter.Pass) {
	panel := p.doc.Find("#" + p.screen.SummaryID)
	if panel.Length() == 0 {
		return
	}
	query := pass.Criteria.Text
	if query == "" {
		panel.Empty()
		panel.SetAttr("style", setDisplay(panel.AttrOr("style", ""), "none"))
		return
	}

	var b strings.Builder
	b.WriteString(`<p class="govuk-body">` + summaryHTML(p.screen, pass.Count, query) + `</p>`)
	for i, node := range p.nodes {
		if i >= len(pass.Visible) || !pass.Visible[i] {
			continue
		}
		b.WriteString(`<div class="govuk-grid-row amp-margin-bottom-30"><div class="govuk-grid-column-full">`)
		if r := p.records[i]; r.Target != "" {
			b.WriteString(`<p class="govuk-body amp-margin-bottom-5">`)
			if r.TargetPage != "" {
				b.WriteString(`<b>` + html.EscapeString(r.TargetPage) + `</b> | `)
			}
			b.WriteString(`<a href="` + html.EscapeString(r.Target) +
				`" class="govuk-link govuk-link--no-visited-state">` + html.EscapeString(r.Label) + `</a></p>`)
		}
		node.Children().Each(func(_ int, child *goquery.Selection) {
			copied := child.Clone()
			for _, n := range copied.Nodes {
				highlightMatches(n, query)
			}
			inner, err := copied.Html()
			if err != nil {
				return
			}
			b.WriteString(`<div class="govuk-body amp-margin-bottom-5">` + inner + `</div>`)
		})
		b.WriteString(`</div></div>`)
	}

	panel.SetHtml(b.String())
	panel.SetAttr("style", setDisplay(panel.AttrOr("style", ""), "block"))
}

// queryMark stands in for the query while the summary is escaped
const queryMark = "\uE000"

// summaryHTML renders the escaped summary line with the query in bold
func summaryHTML(screen models.Screen, count int, query string) string {
	summary := html.EscapeString(filter.FormatSummary(screen, count, queryMark))
	return strings.Replace(summary, queryMark, "<b>"+html.EscapeString(query)+"</b>", 1)
}

// highlightMatches wraps every case-insensitive occurrence of query in the
// text nodes below n in a <b> element
func highlightMatches(n *html.Node, query string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.TextNode:
			highlightText(c, query)
		case html.ElementNode:
			if c.DataAtom != atom.Script && c.DataAtom != atom.Style {
				highlightMatches(c, query)
			}
		}
		c = next
	}
}

func highlightText(n *html.Node, query string) {
	parent := n.Parent
	text := n.Data
	for {
		i := indexFold(text, query)
		if i < 0 {
			break
		}
		end := i + len(query)
		if i > 0 {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: text[:i]}, n)
		}
		bold := &html.Node{Type: html.ElementNode, Data: "b", DataAtom: atom.B}
		bold.AppendChild(&html.Node{Type: html.TextNode, Data: text[i:end]})
		parent.InsertBefore(bold, n)
		text = text[end:]
	}
	if text == "" {
		parent.RemoveChild(n)
		return
	}
	n.Data = text
}

// indexFold is strings.Index with Unicode case folding
func indexFold(s, substr string) int {
	if substr == "" {
		return -1
	}
	for i := 0; i+len(substr) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}

// Render serializes the whole document as HTML
func (p *Page) Render(w io.Writer) error {
	if len(p.doc.Nodes) == 0 {
		return fmt.Errorf("empty document")
	}
	if err := html.Render(w, p.doc.Nodes[0]); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

// Summary returns the current text of the summary element
func (p *Page) Summary() string {
	if p.screen.SummaryID == "" {
		return ""
	}
	return strings.TrimSpace(p.doc.Find("#" + p.screen.SummaryID).Text())
}

// Badge returns the current text of the badge label for the given control id
func (p *Page) Badge(labelFor string) string {
	return strings.TrimSpace(p.doc.Find(`label[for="` + labelFor + `"]`).Text())
}

// setDisplay replaces any display declaration in an inline style
func setDisplay(style, display string) string {
	var kept []string
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		prop, _, _ := strings.Cut(decl, ":")
		if strings.EqualFold(strings.TrimSpace(prop), "display") {
			continue
		}
		kept = append(kept, decl)
	}
	kept = append(kept, "display: "+display)
	return strings.Join(kept, "; ")
}
