// Package database opens the MySQL connection used by the audit history store.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/dbsmedya/kbaudit/internal/config"
	"github.com/dbsmedya/kbaudit/internal/logger"
)

// Connector opens and verifies a MySQL connection pool.
type Connector struct {
	cfg        *config.DatabaseConfig
	logger     *logger.Logger
	open       func(driverName, dsn string) (*sql.DB, error)
	maxRetries int
	backoff    time.Duration
}

// NewConnector creates a connector for cfg.
func NewConnector(cfg *config.DatabaseConfig, log *logger.Logger) *Connector {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Connector{
		cfg:        cfg,
		logger:     log,
		open:       sql.Open,
		maxRetries: 3,
		backoff:    time.Second,
	}
}

// Connect opens the pool and pings it, retrying with exponential backoff.
func (c *Connector) Connect(ctx context.Context) (*sql.DB, error) {
	var err error
	backoff := c.backoff

	for i := 0; i < c.maxRetries; i++ {
		var db *sql.DB
		db, err = c.connect()
		if err == nil {
			pingErr := db.PingContext(ctx)
			if pingErr == nil {
				return db, nil
			}
			db.Close()
			err = pingErr
		}

		c.logger.Warnw("Database connection attempt failed",
			"host", c.cfg.Host,
			"attempt", i+1,
			"error", err,
		)

		if i < c.maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}
	}

	return nil, fmt.Errorf("failed after %d retries: %w", c.maxRetries, err)
}

func (c *Connector) connect() (*sql.DB, error) {
	db, err := c.open("mysql", BuildDSN(c.cfg))
	if err != nil {
		return nil, err
	}

	if c.cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(c.cfg.MaxConnections)
	}
	if c.cfg.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(c.cfg.MaxIdleConnections)
	}
	db.SetConnMaxLifetime(10 * time.Minute)

	return db, nil
}

// BuildDSN constructs a MySQL DSN from configuration.
func BuildDSN(cfg *config.DatabaseConfig) string {
	dsn := mysql.NewConfig()
	dsn.User = cfg.User
	dsn.Passwd = cfg.Password
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	dsn.DBName = cfg.Database
	dsn.ParseTime = true

	switch cfg.TLS {
	case "disable":
		dsn.TLSConfig = "false"
	case "required":
		dsn.TLSConfig = "true"
	default:
		dsn.TLSConfig = "preferred"
	}

	return dsn.FormatDSN()
}
