package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/dbsmedya/kbaudit/internal/corpus"
	"github.com/dbsmedya/kbaudit/internal/logger"
)

// Observer receives progress callbacks while a run executes. n is the
// section number: 0 for the parse check, 1..7 for the ordered checks.
type Observer interface {
	CheckStarted(n int, ch Check)
	CheckFinished(n int, r Result)
}

// Summary aggregates the results of one run.
type Summary struct {
	Results     []Result // parse check first, then checks in order
	Failed      int
	Documents   int
	Fingerprint string
	StartedAt   time.Time
	Duration    time.Duration
}

// Passed reports whether every check passed.
func (s *Summary) Passed() bool {
	return s.Failed == 0
}

// Result returns the result of the named check.
func (s *Summary) Result(name string) (Result, bool) {
	for _, r := range s.Results {
		if r.Name == name {
			return r, true
		}
	}
	return Result{}, false
}

// Runner executes the parse check followed by the ordered checks.
type Runner struct {
	parse  Check
	checks []Check
	logger *logger.Logger
	now    func() time.Time
}

// NewRunner creates a runner with the standard check order.
func NewRunner(log *logger.Logger) (*Runner, error) {
	g, err := RelationGraph()
	if err != nil {
		return nil, fmt.Errorf("failed to build relation graph: %w", err)
	}
	if log == nil {
		log = logger.NewDefault()
	}

	return &Runner{
		parse: ParseCheck{},
		checks: []Check{
			PrivacyCheck{},
			PIICheck{},
			FamilyCheck{},
			SecretsCheck{},
			NewXrefCheck(g),
			NewCompletenessCheck(),
			QualityCheck{},
		},
		logger: log,
		now:    time.Now,
	}, nil
}

// Checks returns the ordered checks, without the parse check.
func (r *Runner) Checks() []Check {
	out := make([]Check, len(r.checks))
	copy(out, r.checks)
	return out
}

// Run evaluates every check against c. obs may be nil. The only error is
// cancellation of ctx between checks.
func (r *Runner) Run(ctx context.Context, c *corpus.Corpus, obs Observer) (*Summary, error) {
	started := r.now()
	summary := &Summary{
		Documents:   c.Len(),
		Fingerprint: c.Fingerprint(),
		StartedAt:   started,
	}

	r.logger.Debugw("Audit started",
		"documents", summary.Documents,
		"fingerprint", summary.Fingerprint,
	)

	all := append([]Check{r.parse}, r.checks...)
	for n, ch := range all {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("audit interrupted before %s: %w", ch.Name(), err)
		}

		if obs != nil {
			obs.CheckStarted(n, ch)
		}
		res := ch.Run(c)
		if !res.Passed {
			summary.Failed++
		}
		summary.Results = append(summary.Results, res)

		r.logger.WithCheck(ch.Name()).Debugw("Check finished",
			"passed", res.Passed,
			"findings", res.Findings(),
		)
		if obs != nil {
			obs.CheckFinished(n, res)
		}
	}

	summary.Duration = r.now().Sub(started)
	r.logger.Infow("Audit finished",
		"failed_checks", summary.Failed,
		"passed", summary.Passed(),
		"duration", summary.Duration,
	)
	return summary, nil
}
