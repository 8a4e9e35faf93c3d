package audit

import (
	"fmt"

	"github.com/dlclark/regexp2"

	"github.com/dbsmedya/kbaudit/internal/corpus"
)

var (
	emailPattern = compilePatterns([]patternSpec{
		{expr: `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`, desc: "email"},
	}, regexp2.None)[0]
	phonePattern = compilePatterns([]patternSpec{
		{expr: `(?<!\d)(\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]\d{3}[-.\s]\d{4}(?!\d)`, desc: "phone number"},
	}, regexp2.None)[0]
	ssnPattern = compilePatterns([]patternSpec{
		{expr: `\d{3}-\d{2}-\d{4}`, desc: "SSN"},
	}, regexp2.None)[0]
)

// PIICheck flags email addresses, phone numbers and SSNs. Every email is
// listed; phone numbers and SSNs are flagged once per document.
type PIICheck struct{}

func (PIICheck) Name() string  { return "pii" }
func (PIICheck) Title() string { return "PII EXPOSURE (email, phone, SSN)" }

func (ch PIICheck) Run(c *corpus.Corpus) Result {
	var diags []string
	for _, doc := range c.Documents() {
		emails, err := emailPattern.FindAll(doc.Raw)
		if err != nil {
			diags = append(diags, patternFailure(doc.ID, emailPattern, err))
		}
		for _, addr := range emails {
			diags = append(diags, fmt.Sprintf("%s: email exposed: %s", doc.ID, addr))
		}

		if hit, err := phonePattern.Matches(doc.Raw); err != nil {
			diags = append(diags, patternFailure(doc.ID, phonePattern, err))
		} else if hit {
			diags = append(diags, fmt.Sprintf("%s: phone number exposed", doc.ID))
		}

		if hit, err := ssnPattern.Matches(doc.Raw); err != nil {
			diags = append(diags, patternFailure(doc.ID, ssnPattern, err))
		} else if hit {
			diags = append(diags, fmt.Sprintf("%s: SSN pattern found", doc.ID))
		}
	}
	return newResult(ch, "No email, phone, or SSN exposure", diags)
}
