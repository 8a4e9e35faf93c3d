// Package audit implements the knowledge base pre-flight checks and the
// runner that executes them in a fixed order.
package audit

import (
	"github.com/dbsmedya/kbaudit/internal/corpus"
)

// Check is one independent rule evaluated against a loaded corpus.
type Check interface {
	Name() string  // short machine name, e.g. "pii"
	Title() string // report section title
	Run(c *corpus.Corpus) Result
}

// Result is the verdict of a single check.
type Result struct {
	Name        string
	Title       string
	Passed      bool
	Diagnostics []string
	PassMessage string
}

// Findings returns the number of diagnostics.
func (r Result) Findings() int {
	return len(r.Diagnostics)
}

func newResult(ch Check, passMessage string, diagnostics []string) Result {
	return Result{
		Name:        ch.Name(),
		Title:       ch.Title(),
		Passed:      len(diagnostics) == 0,
		Diagnostics: diagnostics,
		PassMessage: passMessage,
	}
}
