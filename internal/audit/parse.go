package audit

import (
	"fmt"

	"github.com/dbsmedya/kbaudit/internal/corpus"
)

// ParseCheck reports documents whose content could not be decoded.
type ParseCheck struct{}

func (ParseCheck) Name() string  { return "parse" }
func (ParseCheck) Title() string { return "MALFORMED DOCUMENTS" }

func (ch ParseCheck) Run(c *corpus.Corpus) Result {
	var diags []string
	for _, doc := range c.Documents() {
		if doc.Value.Kind == corpus.KindMalformed {
			diags = append(diags, fmt.Sprintf("%s: malformed JSON: %v", doc.ID, doc.Value.Err))
		}
	}
	return newResult(ch, "All documents decoded", diags)
}
