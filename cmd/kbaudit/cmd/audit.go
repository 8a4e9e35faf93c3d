package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/kbaudit/internal/audit"
	"github.com/dbsmedya/kbaudit/internal/config"
	"github.com/dbsmedya/kbaudit/internal/corpus"
	"github.com/dbsmedya/kbaudit/internal/history"
	"github.com/dbsmedya/kbaudit/internal/logger"
	"github.com/dbsmedya/kbaudit/internal/metrics"
	"github.com/dbsmedya/kbaudit/internal/report"
)

// ErrAuditFailed is returned when at least one check fails.
var ErrAuditFailed = errors.New("knowledge base audit failed")

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run all checks against the knowledge base",
	Long: `Audit loads every document under the corpus root and runs the privacy,
PII, family detail, secrets, cross-reference, completeness and data quality
checks, printing one report section per check.

Files named example.json are ignored. When metrics.textfile is set the
results are also written as Prometheus metrics, and when history is
enabled each run is recorded in MySQL.

Example:
  kbaudit audit --root data/sources/knowledge`,
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := commandContext(cmd)
	a, err := newAuditor(cfg, log)
	if err != nil {
		return err
	}

	summary, err := a.run(ctx, outputWriter)
	if err != nil {
		return err
	}
	if !summary.Passed() {
		return ErrAuditFailed
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// auditor performs complete audit runs: load, check, report and export.
type auditor struct {
	cfg     *config.Config
	log     *logger.Logger
	runner  *audit.Runner
	metrics *metrics.AuditMetrics
}

func newAuditor(cfg *config.Config, log *logger.Logger) (*auditor, error) {
	runner, err := audit.NewRunner(log)
	if err != nil {
		return nil, err
	}
	a := &auditor{cfg: cfg, log: log, runner: runner}
	if cfg.Metrics.Textfile != "" {
		a.metrics = metrics.New()
	}
	return a, nil
}

// run executes one audit and prints the report to w. A nil summary means
// the run could not complete. Export failures are returned alongside a
// summary once the report is printed.
func (a *auditor) run(ctx context.Context, w io.Writer) (*audit.Summary, error) {
	c, err := corpus.NewLoader(&a.cfg.Corpus, a.log).Load(ctx)
	if err != nil {
		return nil, err
	}

	rep := report.New(w, report.Options{
		Color:        a.colorEnabled(w),
		RecordCounts: a.cfg.Report.RecordCounts,
	})
	rep.Header()

	summary, err := a.runner.Run(ctx, c, rep)
	if err != nil {
		return nil, err
	}
	rep.Summary(summary)
	if a.cfg.Report.RecordCounts {
		rep.RecordCounts(c)
	}

	return summary, a.export(ctx, summary)
}

func (a *auditor) colorEnabled(w io.Writer) bool {
	return a.cfg.Report.Color && w == os.Stdout && color.SupportColor()
}

// export writes metrics and history. Every sink is attempted; failures are
// logged and joined.
func (a *auditor) export(ctx context.Context, summary *audit.Summary) error {
	var errs []error

	if a.metrics != nil {
		a.metrics.Observe(summary)
		if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			a.log.Errorw("Metrics export failed", "path", a.cfg.Metrics.Textfile, "error", err)
			errs = append(errs, err)
		}
	}

	if a.cfg.History.Enabled {
		runID, err := history.Save(ctx, &a.cfg.History, summary, a.log)
		if err != nil {
			a.log.Errorw("History write failed", "error", err)
			errs = append(errs, fmt.Errorf("failed to record audit history: %w", err))
		} else {
			a.log.Infow("Audit run recorded", "run_id", runID)
		}
	}

	return errors.Join(errs...)
}
