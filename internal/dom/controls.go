package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/thesavant42/auditfilter/internal/models"
)

// Criteria reads the criteria currently selected by the page's form controls.
// Unset or "none" selections leave that axis unfiltered.
func (p *Page) Criteria() models.Criteria {
	var c models.Criteria

	if p.screen.TextInput != "" {
		c.Text = p.doc.Find("#"+p.screen.TextInput).First().AttrOr("value", "")
	}

	if p.screen.CategoryInput != "" {
		c.Category = models.Category(p.checkedValue(p.screen.CategoryInput))
	}

	switch {
	case p.screen.StatusInput != "":
		c.Status = models.Status(p.checkedValue(p.screen.StatusInput))
	case len(p.screen.StatusInputs) > 0:
		c.Status = p.firstCheckedStatus()
	}

	return c
}

// SetCriteria checks the controls matching c so the rendered page shows the
// same selection the engine applied. Unset axes select the "no filter" option.
func (p *Page) SetCriteria(c models.Criteria) {
	if p.screen.TextInput != "" {
		p.doc.Find("#"+p.screen.TextInput).SetAttr("value", c.Text)
	}
	if p.screen.CategoryInput != "" {
		p.checkRadio(p.screen.CategoryInput, string(c.Category))
	}
	switch {
	case p.screen.StatusInput != "":
		p.checkRadio(p.screen.StatusInput, string(c.Status))
	case len(p.screen.StatusInputs) > 0:
		for status, id := range p.screen.StatusInputs {
			box := p.doc.Find("#" + id)
			if status == c.Status {
				box.SetAttr("checked", "")
			} else {
				box.RemoveAttr("checked")
			}
		}
	}
}

// SetRecordStatus checks the status control with the given value inside the
// record at index. Returns false when the record has no such control.
func (p *Page) SetRecordStatus(index int, status models.Status) bool {
	if index < 0 || index >= len(p.nodes) {
		return false
	}
	radios := p.nodes[index].Find(`input[type="radio"]`)
	target := radios.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr("value", "") == string(status)
	}).First()
	if target.Length() == 0 {
		return false
	}

	name := target.AttrOr("name", "")
	radios.Each(func(_ int, s *goquery.Selection) {
		if s.AttrOr("name", "") == name {
			s.RemoveAttr("checked")
		}
	})
	target.SetAttr("checked", "")
	p.records[index].Status = status
	return true
}

func (p *Page) checkedValue(group string) string {
	value := strings.TrimSpace(p.doc.Find(`input[name="`+group+`"][checked]`).First().AttrOr("value", ""))
	if value == p.screen.NoneValue {
		return ""
	}
	return value
}

func (p *Page) checkRadio(group, value string) {
	if value == "" {
		value = p.screen.NoneValue
	}
	p.doc.Find(`input[name="` + group + `"]`).Each(func(_ int, s *goquery.Selection) {
		if s.AttrOr("value", "") == value {
			s.SetAttr("checked", "")
		} else {
			s.RemoveAttr("checked")
		}
	})
}

// firstCheckedStatus returns the status of the first checked status checkbox
// in document order
func (p *Page) firstCheckedStatus() models.Status {
	byID := make(map[string]models.Status, len(p.screen.StatusInputs))
	for status, id := range p.screen.StatusInputs {
		byID[id] = status
	}

	var found models.Status
	p.doc.Find("input[checked]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if status, ok := byID[s.AttrOr("id", "")]; ok {
			found = status
			return false
		}
		return true
	})
	return found
}
