package audit

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// matchTimeout bounds a single pattern evaluation over one document.
const matchTimeout = 5 * time.Second

// Pattern is a compiled expression with a human-readable description.
type Pattern struct {
	Expr        string
	Description string
	re          *regexp2.Regexp
}

type patternSpec struct {
	expr string
	desc string
}

// compilePatterns compiles a fixed table. The tables are constants of this
// package, so a compile failure is a programming error.
func compilePatterns(specs []patternSpec, opts regexp2.RegexOptions) []*Pattern {
	out := make([]*Pattern, 0, len(specs))
	for _, s := range specs {
		re := regexp2.MustCompile(s.expr, opts)
		re.MatchTimeout = matchTimeout
		desc := s.desc
		if desc == "" {
			desc = s.expr
		}
		out = append(out, &Pattern{Expr: s.expr, Description: desc, re: re})
	}
	return out
}

// Matches reports whether the pattern occurs anywhere in text.
func (p *Pattern) Matches(text string) (bool, error) {
	return p.re.MatchString(text)
}

// FindAll returns every non-overlapping match in text.
func (p *Pattern) FindAll(text string) ([]string, error) {
	var found []string
	m, err := p.re.FindStringMatch(text)
	for m != nil && err == nil {
		found = append(found, m.String())
		m, err = p.re.FindNextMatch(m)
	}
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Count returns the number of non-overlapping matches in text.
func (p *Pattern) Count(text string) (int, error) {
	found, err := p.FindAll(text)
	return len(found), err
}

func patternFailure(docID string, p *Pattern, err error) string {
	return fmt.Sprintf("%s: pattern %q could not be evaluated: %v", docID, p.Expr, err)
}
