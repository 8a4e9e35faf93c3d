package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/kbaudit/internal/audit"
	"github.com/dbsmedya/kbaudit/internal/corpus"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Show the expected documents and whether each is present",
	Long: `Manifest lists the documents the completeness check expects, grouped
by topic, and marks each one as present or missing under the corpus root.

Example:
  kbaudit manifest --root data/sources/knowledge`,
	RunE: runManifest,
}

func init() {
	rootCmd.AddCommand(manifestCmd)
}

func runManifest(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	c, err := corpus.NewLoader(&cfg.Corpus, log).Load(commandContext(cmd))
	if err != nil {
		return err
	}

	m := audit.Manifest()
	total, present := 0, 0

	printHeader("Expected Documents (%s)", cfg.Corpus.Root)
	for el := m.Front(); el != nil; el = el.Next() {
		fmt.Fprintln(outputWriter)
		printSection(el.Key)
		for _, id := range el.Value {
			total++
			if c.Has(id) {
				present++
				fmt.Fprintf(outputWriter, "  [x] %s\n", id)
			} else {
				fmt.Fprintf(outputWriter, "  [ ] %s (missing)\n", id)
			}
		}
	}

	fmt.Fprintln(outputWriter)
	fmt.Fprintf(outputWriter, "%d of %d expected documents present\n", present, total)
	return nil
}

// printHeader prints a formatted header
func printHeader(format string, args ...interface{}) {
	title := fmt.Sprintf(format, args...)
	width := len(title) + 4
	fmt.Fprintln(outputWriter, strings.Repeat("=", width))
	fmt.Fprintf(outputWriter, "  %s\n", title)
	fmt.Fprintln(outputWriter, strings.Repeat("=", width))
}

// printSection prints a section header
func printSection(title string) {
	fmt.Fprintf(outputWriter, "[%s]\n", title)
	fmt.Fprintln(outputWriter, strings.Repeat("-", len(title)+2))
}
