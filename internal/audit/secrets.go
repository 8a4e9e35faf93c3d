package audit

import (
	"fmt"

	"github.com/dlclark/regexp2"

	"github.com/dbsmedya/kbaudit/internal/corpus"
)

var secretPatterns = compilePatterns([]patternSpec{
	{expr: `ghp_[a-zA-Z0-9]{36}`, desc: "GitHub token"},
	{expr: `sk-[a-zA-Z0-9]{20,}`, desc: "API key"},
	{expr: `Bearer\s+[a-zA-Z0-9._-]{20,}`, desc: "Bearer token"},
	{expr: `-----BEGIN.*KEY-----`, desc: "Private key"},
	{expr: `AKIA[0-9A-Z]{16}`, desc: "AWS access key"},
	{expr: `password\s*[:=]\s*\S+`, desc: "Hardcoded password"},
}, regexp2.None)

// SecretsCheck flags credentials and keys committed into documents.
type SecretsCheck struct{}

func (SecretsCheck) Name() string  { return "secrets" }
func (SecretsCheck) Title() string { return "SECRETS & CREDENTIALS" }

func (ch SecretsCheck) Run(c *corpus.Corpus) Result {
	var diags []string
	for _, doc := range c.Documents() {
		for _, p := range secretPatterns {
			found, err := p.Matches(doc.Raw)
			if err != nil {
				diags = append(diags, patternFailure(doc.ID, p, err))
				continue
			}
			if found {
				diags = append(diags, fmt.Sprintf("%s: %s found", doc.ID, p.Description))
			}
		}
	}
	return newResult(ch, "No secrets or credentials detected", diags)
}
