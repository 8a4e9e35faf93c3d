package audit

import (
	"fmt"

	"github.com/dbsmedya/kbaudit/internal/corpus"
)

// QualityCheck flags documents that decoded to an empty array or object.
type QualityCheck struct{}

func (QualityCheck) Name() string  { return "quality" }
func (QualityCheck) Title() string { return "DATA QUALITY" }

func (ch QualityCheck) Run(c *corpus.Corpus) Result {
	var diags []string
	for _, doc := range c.Documents() {
		if doc.Value.Len() > 0 {
			continue
		}
		switch doc.Value.Kind {
		case corpus.KindSequence:
			diags = append(diags, fmt.Sprintf("%s: empty array", doc.ID))
		case corpus.KindObject:
			diags = append(diags, fmt.Sprintf("%s: empty object", doc.ID))
		}
	}
	return newResult(ch, "No empty files", diags)
}
