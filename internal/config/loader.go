package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified file path.
// It supports YAML files and performs environment variable substitution.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadOptional behaves like Load but falls back to DefaultConfig when the
// file does not exist. An empty path always yields the defaults.
func LoadOptional(configPath string) (*Config, error) {
	if configPath == "" {
		return defaultsWithEnv(), nil
	}
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return defaultsWithEnv(), nil
	}
	return Load(configPath)
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	substituteEnvVars(cfg)
	return cfg, nil
}

func defaultsWithEnv() *Config {
	cfg := DefaultConfig()
	substituteEnvVars(cfg)
	return cfg
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func substituteEnvVars(cfg *Config) {
	cfg.Corpus.Root = expandEnvVar(cfg.Corpus.Root)
	cfg.Metrics.Textfile = expandEnvVar(cfg.Metrics.Textfile)

	db := &cfg.History.Database
	db.Host = expandEnvVar(db.Host)
	db.User = expandEnvVar(db.User)
	db.Password = expandEnvVar(db.Password)
	db.Database = expandEnvVar(db.Database)

	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// Overrides carries CLI flag values that take precedence over the file.
// Zero values leave the loaded configuration untouched.
type Overrides struct {
	Root        string
	LogLevel    string
	LogFormat   string
	NoColor     bool
	MetricsFile string
	Record      bool
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Root != "" {
		c.Corpus.Root = o.Root
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
	if o.NoColor {
		c.Report.Color = false
	}
	if o.MetricsFile != "" {
		c.Metrics.Textfile = o.MetricsFile
	}
	if o.Record {
		c.History.Enabled = true
	}
}
