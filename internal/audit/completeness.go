package audit

import (
	"fmt"

	"github.com/dbsmedya/kbaudit/internal/corpus"
)

// CompletenessCheck verifies that every manifest document is present.
type CompletenessCheck struct {
	expected []string
}

// NewCompletenessCheck creates a check over the fixed manifest.
func NewCompletenessCheck() *CompletenessCheck {
	return &CompletenessCheck{expected: ExpectedDocuments()}
}

func (*CompletenessCheck) Name() string  { return "completeness" }
func (*CompletenessCheck) Title() string { return "FILE COMPLETENESS" }

func (ch *CompletenessCheck) Run(c *corpus.Corpus) Result {
	var diags []string
	for _, id := range ch.expected {
		if !c.Has(id) {
			diags = append(diags, "Missing: "+id)
		}
	}
	return newResult(ch, fmt.Sprintf("All %d expected files present", len(ch.expected)), diags)
}
