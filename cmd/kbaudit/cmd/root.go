package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/kbaudit/internal/config"
	"github.com/dbsmedya/kbaudit/internal/logger"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

const defaultConfigFile = "kbaudit.yaml"

// CLI flags that override config file values
var (
	cfgFile     string
	corpusRoot  string
	logLevel    string
	logFormat   string
	noColor     bool
	metricsFile string
	record      bool
)

// outputWriter receives the report; tests replace it.
var outputWriter io.Writer = os.Stdout

func setOutputWriter(w io.Writer) {
	outputWriter = w
}

func resetOutputWriter() {
	outputWriter = os.Stdout
}

var rootCmd = &cobra.Command{
	Use:   "kbaudit",
	Short: "Knowledge base pre-flight audit",
	Long: `kbaudit validates a knowledge base of JSON documents before it is
handed to downstream consumers.

Checks performed, in order:
  [1] Privacy exclusion terms
  [2] PII exposure (email, phone, SSN)
  [3] Family detail specificity
  [4] Secrets and credentials
  [5] Cross-reference integrity and duplicate ids
  [6] File completeness against the expected manifest
  [7] Data quality (empty documents)

Documents that are not valid JSON are reported before section 1.
Running kbaudit without a subcommand is the same as "kbaudit audit".
The exit status is 0 when every check passes and 1 otherwise.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAudit,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, ErrAuditFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile,
		"Path to configuration file (defaults apply when the default file is absent)")
	rootCmd.PersistentFlags().StringVar(&corpusRoot, "root", "",
		"Override the knowledge base root directory")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Output overrides
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored report output")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "",
		"Write Prometheus metrics to this textfile after each run")
	rootCmd.PersistentFlags().BoolVar(&record, "record", false,
		"Record each run in the history database")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() config.Overrides {
	return config.Overrides{
		Root:        corpusRoot,
		LogLevel:    logLevel,
		LogFormat:   logFormat,
		NoColor:     noColor,
		MetricsFile: metricsFile,
		Record:      record,
	}
}

// loadConfig reads the configuration, applies flag overrides and validates
// the result. A missing file is only an error when --config was given.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := GetConfigFile()

	var (
		cfg *config.Config
		err error
	)
	if cmd != nil && cmd.Flags().Changed("config") {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOptional(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.ApplyOverrides(GetCLIOverrides())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads the configuration and builds the logger.
func setup(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}
