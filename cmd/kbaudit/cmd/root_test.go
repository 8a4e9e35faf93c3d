package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/kbaudit/internal/config"
)

func TestRootCommandStructure(t *testing.T) {
	assert.Equal(t, "kbaudit", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotNil(t, rootCmd.RunE, "bare kbaudit runs the audit")
	assert.True(t, rootCmd.SilenceUsage)

	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"audit", "manifest", "relations", "watch", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestPersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()
	for _, name := range []string{"config", "root", "log-level", "log-format", "no-color", "metrics-file", "record"} {
		assert.NotNil(t, flags.Lookup(name), "missing flag --%s", name)
	}
	assert.Equal(t, "c", flags.Lookup("config").Shorthand)
	assert.Equal(t, defaultConfigFile, flags.Lookup("config").DefValue)
}

func TestGetConfigFile(t *testing.T) {
	originalCfgFile := cfgFile
	defer func() {
		cfgFile = originalCfgFile
	}()

	tests := []struct {
		name     string
		cfgValue string
		want     string
	}{
		{"default config file", defaultConfigFile, defaultConfigFile},
		{"custom config file", "/path/to/custom.yaml", "/path/to/custom.yaml"},
		{"config file with spaces", "/path/to/my config.yaml", "/path/to/my config.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgFile = tt.cfgValue
			assert.Equal(t, tt.want, GetConfigFile())
		})
	}
}

func TestGetCLIOverrides(t *testing.T) {
	withFlags(t, "/srv/kb")
	logLevel = "debug"
	logFormat = "json"
	metricsFile = "/tmp/kb.prom"
	record = true

	assert.Equal(t, config.Overrides{
		Root:        "/srv/kb",
		LogLevel:    "debug",
		LogFormat:   "json",
		NoColor:     true,
		MetricsFile: "/tmp/kb.prom",
		Record:      true,
	}, GetCLIOverrides())
}

func TestLoadConfigMissingDefaultFileUsesDefaults(t *testing.T) {
	withFlags(t, "")
	cfgFile = filepath.Join(t.TempDir(), defaultConfigFile)

	cfg, err := loadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultCorpusRoot, cfg.Corpus.Root)
	assert.False(t, cfg.Report.Color, "--no-color applied")
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadConfigRecordRequiresDatabase(t *testing.T) {
	withFlags(t, t.TempDir())
	record = true

	_, err := loadConfig(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history.database.host")
}
