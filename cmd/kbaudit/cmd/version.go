package cmd

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/kbaudit/internal/audit"
	"github.com/dbsmedya/kbaudit/internal/logger"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version and build details, plus the rule set compiled into
this binary: the checks it runs, the manifest size and the number of
cross-reference relations.`,
	Run: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) {
	cmd.Printf("kbaudit version %s\n", Version)
	cmd.Printf("  Commit: %s\n", Commit)
	cmd.Printf("  Go version: %s\n", runtime.Version())
	cmd.Printf("  OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	if r, err := audit.NewRunner(logger.NewNop()); err == nil {
		var names []string
		for _, ch := range r.Checks() {
			names = append(names, ch.Name())
		}
		cmd.Printf("  Checks: %s\n", strings.Join(names, ", "))
	}
	cmd.Printf("  Manifest: %d documents in %d groups\n",
		len(audit.ExpectedDocuments()), audit.Manifest().Len())
	cmd.Printf("  Relations: %d\n", len(audit.Relations))
}
