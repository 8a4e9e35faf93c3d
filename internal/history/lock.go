package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrLockTimeout is returned when another recorder holds the history lock
// for longer than the wait allowed.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// AdvisoryLock is a MySQL named lock (GET_LOCK) held on one dedicated
// connection. It keeps concurrent kbaudit processes from creating the
// schema or inserting runs into the same tables at the same time.
type AdvisoryLock struct {
	conn     *sql.Conn
	lockName string
	held     bool
}

// NewRecorderLock creates the lock guarding the tables named after prefix.
// The lock is not acquired until Acquire is called.
func NewRecorderLock(conn *sql.Conn, prefix string) *AdvisoryLock {
	return &AdvisoryLock{
		conn:     conn,
		lockName: "kbaudit:history:" + prefix,
	}
}

// Acquire waits up to timeoutSeconds for the lock. A negative timeout waits
// indefinitely.
//
// GET_LOCK returns 1 when the lock was obtained, 0 on timeout and NULL on
// error.
func (a *AdvisoryLock) Acquire(ctx context.Context, timeoutSeconds int) error {
	if a.held {
		return nil
	}

	var result sql.NullInt64
	if err := a.conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", a.lockName, timeoutSeconds).Scan(&result); err != nil {
		return fmt.Errorf("failed to execute GET_LOCK: %w", err)
	}
	if !result.Valid {
		return fmt.Errorf("GET_LOCK returned NULL for lock %q (possible database error)", a.lockName)
	}

	switch result.Int64 {
	case 1:
		a.held = true
		return nil
	case 0:
		return fmt.Errorf("%w: lock %q is held by another recorder", ErrLockTimeout, a.lockName)
	default:
		return fmt.Errorf("unexpected GET_LOCK return value: %d", result.Int64)
	}
}

// Release releases the lock if it is held. The lock also disappears when
// the connection closes.
func (a *AdvisoryLock) Release(ctx context.Context) error {
	if !a.held {
		return nil
	}
	a.held = false

	var result sql.NullInt64
	if err := a.conn.QueryRowContext(ctx, "SELECT RELEASE_LOCK(?)", a.lockName).Scan(&result); err != nil {
		return fmt.Errorf("failed to execute RELEASE_LOCK: %w", err)
	}
	if !result.Valid || result.Int64 != 1 {
		return fmt.Errorf("lock %q was not held by this connection", a.lockName)
	}
	return nil
}

// IsHeld returns true if this lock is currently held.
func (a *AdvisoryLock) IsHeld() bool {
	return a.held
}

// LockName returns the MySQL lock name.
func (a *AdvisoryLock) LockName() string {
	return a.lockName
}
