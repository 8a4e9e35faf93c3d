package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateCorpus()...)

	if c.History.Enabled {
		errors = append(errors, c.validateHistory()...)
	}

	if c.Watch.Debounce < 0 {
		errors = append(errors, ValidationError{
			Field:   "watch.debounce",
			Message: "debounce cannot be negative",
		})
	}

	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateCorpus() ValidationErrors {
	var errors ValidationErrors

	if strings.TrimSpace(c.Corpus.Root) == "" {
		errors = append(errors, ValidationError{
			Field:   "corpus.root",
			Message: "root is required",
		})
	}

	if c.Corpus.Include == "" {
		errors = append(errors, ValidationError{
			Field:   "corpus.include",
			Message: "include pattern is required",
		})
	} else if !doublestar.ValidatePattern(c.Corpus.Include) {
		errors = append(errors, ValidationError{
			Field:   "corpus.include",
			Message: fmt.Sprintf("invalid glob pattern %q", c.Corpus.Include),
		})
	}

	for i, pattern := range c.Corpus.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("corpus.exclude[%d]", i),
				Message: fmt.Sprintf("invalid glob pattern %q", pattern),
			})
		}
	}

	return errors
}

// tablePrefixPattern restricts the history table prefix to plain identifier characters.
var tablePrefixPattern = regexp.MustCompile("^[a-zA-Z0-9_]+$")

func (c *Config) validateHistory() ValidationErrors {
	var errors ValidationErrors
	db := &c.History.Database

	if db.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "history.database.host",
			Message: "host is required when history is enabled",
		})
	}

	if db.Port <= 0 || db.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "history.database.port",
			Message: "port must be between 1 and 65535",
		})
	}

	if db.User == "" {
		errors = append(errors, ValidationError{
			Field:   "history.database.user",
			Message: "user is required when history is enabled",
		})
	}

	if db.Database == "" {
		errors = append(errors, ValidationError{
			Field:   "history.database.database",
			Message: "database name is required when history is enabled",
		})
	}

	validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
	if !validTLS[db.TLS] {
		errors = append(errors, ValidationError{
			Field:   "history.database.tls",
			Message: "tls must be 'disable', 'preferred', or 'required'",
		})
	}

	if !tablePrefixPattern.MatchString(c.History.TablePrefix) {
		errors = append(errors, ValidationError{
			Field:   "history.table_prefix",
			Message: "table_prefix must contain only alphanumeric characters and underscores",
		})
	}

	if c.History.TimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "history.timeout_seconds",
			Message: "timeout_seconds cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
