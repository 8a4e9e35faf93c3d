package audit

import (
	"fmt"

	"github.com/dlclark/regexp2"

	"github.com/dbsmedya/kbaudit/internal/corpus"
)

var privacyTerms = compilePatterns([]patternSpec{
	{expr: `polyamorous`},
	{expr: `polyamory`},
	{expr: `atheist`},
	{expr: `\$60,000`},
	{expr: `\$60000`},
	{expr: `\$1M\b`},
	{expr: `\$1,000,000`},
	{expr: `stabbed`},
	{expr: `stabbing`},
	{expr: `home invasion`},
	{expr: `ethical non-monogamy`},
	{expr: `open relationship`},
	{expr: `OkCupid`},
	{expr: `Tinder`},
	{expr: `Bumble`},
	{expr: `Hinge`},
	{expr: `social_profile`},
	// standalone word only; key names like ethical_boundaries are fine
	{expr: `(?<![_a-z])boundaries(?![_a-z])`},
}, regexp2.IgnoreCase)

// PrivacyCheck flags documents containing terms that must never be published.
type PrivacyCheck struct{}

func (PrivacyCheck) Name() string  { return "privacy" }
func (PrivacyCheck) Title() string { return "PRIVACY EXCLUSION TERMS" }

func (ch PrivacyCheck) Run(c *corpus.Corpus) Result {
	var diags []string
	for _, doc := range c.Documents() {
		for _, term := range privacyTerms {
			found, err := term.Matches(doc.Raw)
			if err != nil {
				diags = append(diags, patternFailure(doc.ID, term, err))
				continue
			}
			if found {
				diags = append(diags, fmt.Sprintf("%s: contains \"%s\"", doc.ID, term.Expr))
			}
		}
	}
	return newResult(ch, "No excluded privacy terms found", diags)
}
