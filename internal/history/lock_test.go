package history

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockConn(t *testing.T) (*AdvisoryLock, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	conn, err := db.Conn(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewRecorderLock(conn, "kb_audit"), mock
}

var (
	getLock     = regexp.QuoteMeta("SELECT GET_LOCK(?, ?)")
	releaseLock = regexp.QuoteMeta("SELECT RELEASE_LOCK(?)")
)

func TestRecorderLockName(t *testing.T) {
	lock, _ := newMockConn(t)
	assert.Equal(t, "kbaudit:history:kb_audit", lock.LockName())
	assert.False(t, lock.IsHeld())
}

func TestAcquireAndRelease(t *testing.T) {
	lock, mock := newMockConn(t)

	mock.ExpectQuery(getLock).WithArgs("kbaudit:history:kb_audit", 10).
		WillReturnRows(sqlmock.NewRows([]string{"r"}).AddRow(1))
	mock.ExpectQuery(releaseLock).WithArgs("kbaudit:history:kb_audit").
		WillReturnRows(sqlmock.NewRows([]string{"r"}).AddRow(1))

	require.NoError(t, lock.Acquire(context.Background(), 10))
	assert.True(t, lock.IsHeld())

	// already held: no second query
	require.NoError(t, lock.Acquire(context.Background(), 10))

	require.NoError(t, lock.Release(context.Background()))
	assert.False(t, lock.IsHeld())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquireTimeout(t *testing.T) {
	lock, mock := newMockConn(t)

	mock.ExpectQuery(getLock).WillReturnRows(sqlmock.NewRows([]string{"r"}).AddRow(0))

	err := lock.Acquire(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLockTimeout))
	assert.False(t, lock.IsHeld())
}

func TestAcquireNullResult(t *testing.T) {
	lock, mock := newMockConn(t)

	mock.ExpectQuery(getLock).WillReturnRows(sqlmock.NewRows([]string{"r"}).AddRow(nil))

	err := lock.Acquire(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned NULL")
}

func TestAcquireQueryError(t *testing.T) {
	lock, mock := newMockConn(t)

	mock.ExpectQuery(getLock).WillReturnError(errors.New("connection reset"))

	err := lock.Acquire(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute GET_LOCK")
}

func TestReleaseWithoutAcquire(t *testing.T) {
	lock, mock := newMockConn(t)
	require.NoError(t, lock.Release(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
