// Package config provides configuration structures and loading for kbaudit.
package config

import "time"

// Config represents the complete application configuration.
type Config struct {
	Corpus  CorpusConfig  `yaml:"corpus" mapstructure:"corpus"`
	Report  ReportConfig  `yaml:"report" mapstructure:"report"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	History HistoryConfig `yaml:"history" mapstructure:"history"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// CorpusConfig locates the knowledge base on disk.
type CorpusConfig struct {
	Root    string   `yaml:"root" mapstructure:"root"`       // directory holding the documents
	Include string   `yaml:"include" mapstructure:"include"` // doublestar glob, relative to root
	Exclude []string `yaml:"exclude" mapstructure:"exclude"` // doublestar globs, relative to root
}

// ReportConfig controls the stdout report.
type ReportConfig struct {
	Color        bool `yaml:"color" mapstructure:"color"`
	RecordCounts bool `yaml:"record_counts" mapstructure:"record_counts"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" mapstructure:"textfile"` // empty disables the export
}

// HistoryConfig controls recording of audit runs into MySQL.
type HistoryConfig struct {
	Enabled        bool           `yaml:"enabled" mapstructure:"enabled"`
	TablePrefix    string         `yaml:"table_prefix" mapstructure:"table_prefix"`
	TimeoutSeconds int            `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	Database       DatabaseConfig `yaml:"database" mapstructure:"database"`
}

// DatabaseConfig represents a MySQL database connection configuration.
type DatabaseConfig struct {
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	TLS                string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"` // quiet period before a re-run
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultCorpusRoot is the knowledge base location used when nothing else is configured.
const DefaultCorpusRoot = "data/sources/knowledge"

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Root:    DefaultCorpusRoot,
			Include: "**/*.json",
			Exclude: []string{"**/example.json"},
		},
		Report: ReportConfig{
			Color:        true,
			RecordCounts: true,
		},
		History: HistoryConfig{
			Enabled:        false,
			TablePrefix:    "kb_audit",
			TimeoutSeconds: 10,
			Database: DatabaseConfig{
				Port:               3306,
				TLS:                "preferred",
				MaxConnections:     2,
				MaxIdleConnections: 1,
			},
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
