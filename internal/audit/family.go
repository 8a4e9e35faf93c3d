package audit

import (
	"fmt"

	"github.com/dlclark/regexp2"

	"github.com/dbsmedya/kbaudit/internal/corpus"
)

var familyPatterns = compilePatterns([]patternSpec{
	{expr: `stay-at-home\s+(?:parent|mom|dad|mother|father)`, desc: "stay-at-home family role"},
	{expr: `\bwife\b|\bhusband\b`, desc: "specific spouse reference"},
	{expr: `\bdaughters?\b|\bsons?\b`, desc: "specific child gender"},
	{expr: `\bfather\b|\bmother\b`, desc: "specific parent role"},
	{expr: `\d+\s+(?:year|month)\s+old`, desc: "specific age"},
}, regexp2.IgnoreCase)

// FamilyCheck flags family details that are more specific than allowed,
// reporting how often each kind occurs per document.
type FamilyCheck struct{}

func (FamilyCheck) Name() string  { return "family" }
func (FamilyCheck) Title() string { return "FAMILY DETAIL SPECIFICITY" }

func (ch FamilyCheck) Run(c *corpus.Corpus) Result {
	var diags []string
	for _, doc := range c.Documents() {
		for _, p := range familyPatterns {
			n, err := p.Count(doc.Raw)
			if err != nil {
				diags = append(diags, patternFailure(doc.ID, p, err))
				continue
			}
			if n > 0 {
				diags = append(diags, fmt.Sprintf("%s: %s (%dx)", doc.ID, p.Description, n))
			}
		}
	}
	return newResult(ch, "Family details properly generalized", diags)
}
