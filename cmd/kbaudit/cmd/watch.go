package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/kbaudit/internal/watch"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the audit whenever the knowledge base changes",
	Long: `Watch runs the audit once, then watches the corpus root and runs it
again after each burst of changes settles. Runs never overlap.
Press Ctrl+C to stop.

Example:
  kbaudit watch --debounce 1s --metrics-file /var/lib/node_exporter/kbaudit.prom`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0,
		"Override the quiet period before a re-run (e.g. 500ms)")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	if watchDebounce > 0 {
		cfg.Watch.Debounce = watchDebounce
	}

	ctx, stop := watch.SignalContext(commandContext(cmd), func(sig os.Signal) {
		log.Infow("Shutdown signal received", "signal", sig.String())
	})
	defer stop()

	a, err := newAuditor(cfg, log)
	if err != nil {
		return err
	}

	auditAndLog := func(ctx context.Context) {
		summary, err := a.run(ctx, outputWriter)
		if err != nil {
			log.Errorw("Audit run failed", "error", err)
			return
		}
		log.Infow("Audit run complete",
			"passed", summary.Passed(),
			"failed_checks", summary.Failed,
			"fingerprint", summary.Fingerprint,
		)
	}

	auditAndLog(ctx)

	w, err := watch.New(&cfg.Corpus, cfg.Watch.Debounce, log)
	if err != nil {
		return err
	}
	return w.Run(ctx, func(ctx context.Context, changed []string) {
		log.Infow("Re-running audit", "changed", changed)
		auditAndLog(ctx)
	})
}
