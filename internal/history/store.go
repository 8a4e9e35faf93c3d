// Package history records audit runs and their findings in MySQL.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dbsmedya/kbaudit/internal/audit"
	"github.com/dbsmedya/kbaudit/internal/config"
	"github.com/dbsmedya/kbaudit/internal/database"
	"github.com/dbsmedya/kbaudit/internal/logger"
)

var validIdentifier = regexp.MustCompile("^[a-zA-Z0-9_]+$")

// InvalidIdentifierError is returned when a table prefix contains characters
// other than letters, digits and underscores.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must contain only alphanumeric characters and underscores)"
}

// quoteIdentifier quotes a MySQL identifier with backticks.
func quoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// execer is the part of *sql.DB and *sql.Conn the store writes through.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Store writes audit runs to the <prefix>_runs and <prefix>_findings tables.
type Store struct {
	db       *sql.DB
	prefix   string
	runs     string
	findings string
	logger   *logger.Logger
}

// NewStore creates a store over db using tables named after prefix.
func NewStore(db *sql.DB, prefix string, log *logger.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database is nil")
	}
	if !validIdentifier.MatchString(prefix) {
		return nil, &InvalidIdentifierError{Name: prefix}
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Store{
		db:       db,
		prefix:   prefix,
		runs:     quoteIdentifier(prefix + "_runs"),
		findings: quoteIdentifier(prefix + "_findings"),
		logger:   log,
	}, nil
}

// EnsureSchema creates the history tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return s.ensureSchema(ctx, s.db)
}

func (s *Store) ensureSchema(ctx context.Context, db execer) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	started_at DATETIME(6) NOT NULL,
	fingerprint CHAR(64) NOT NULL,
	documents INT NOT NULL,
	failed_checks INT NOT NULL,
	passed BOOLEAN NOT NULL,
	KEY idx_started_at (started_at)
) ENGINE=InnoDB`, s.runs),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	run_id BIGINT UNSIGNED NOT NULL,
	check_name VARCHAR(32) NOT NULL,
	position INT NOT NULL,
	message TEXT NOT NULL,
	PRIMARY KEY (run_id, check_name, position)
) ENGINE=InnoDB`, s.findings),
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create history schema: %w", err)
		}
	}
	return nil
}

// Record inserts one run and all of its diagnostics in a single transaction
// and returns the run id.
func (s *Store) Record(ctx context.Context, sum *audit.Summary) (int64, error) {
	return s.record(ctx, s.db, sum)
}

func (s *Store) record(ctx context.Context, db execer, sum *audit.Summary) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (started_at, fingerprint, documents, failed_checks, passed) VALUES (?, ?, ?, ?, ?)", s.runs),
		sum.StartedAt.UTC(), sum.Fingerprint, sum.Documents, sum.Failed, sum.Passed(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	insert := fmt.Sprintf("INSERT INTO %s (run_id, check_name, position, message) VALUES (?, ?, ?, ?)", s.findings)
	findings := 0
	for _, r := range sum.Results {
		for i, msg := range r.Diagnostics {
			if _, err := tx.ExecContext(ctx, insert, runID, r.Name, i, msg); err != nil {
				return 0, fmt.Errorf("failed to insert finding for %s: %w", r.Name, err)
			}
			findings++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	s.logger.Debugw("Audit run recorded",
		"run_id", runID,
		"findings", findings,
	)
	return runID, nil
}

// Save connects using cfg, ensures the schema and records sum. The whole
// operation is bounded by cfg.TimeoutSeconds when it is positive.
func Save(ctx context.Context, cfg *config.HistoryConfig, sum *audit.Summary, log *logger.Logger) (int64, error) {
	if cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	db, err := database.NewConnector(&cfg.Database, log).Connect(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to history database: %w", err)
	}
	defer db.Close()

	store, err := NewStore(db, cfg.TablePrefix, log)
	if err != nil {
		return 0, err
	}
	return store.RecordLocked(ctx, sum, cfg.TimeoutSeconds)
}

// RecordLocked ensures the schema and records sum while holding the
// recorder lock. Everything runs on the one connection that holds the
// lock, so a pool limited to a single connection still completes.
func (s *Store) RecordLocked(ctx context.Context, sum *audit.Summary, waitSeconds int) (int64, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to reserve lock connection: %w", err)
	}
	defer conn.Close()

	lock := NewRecorderLock(conn, s.prefix)
	if err := lock.Acquire(ctx, waitSeconds); err != nil {
		return 0, err
	}
	defer func() {
		if err := lock.Release(context.Background()); err != nil {
			s.logger.Warnw("Failed to release history lock", "lock", lock.LockName(), "error", err)
		}
	}()

	if err := s.ensureSchema(ctx, conn); err != nil {
		return 0, err
	}
	return s.record(ctx, conn, sum)
}
