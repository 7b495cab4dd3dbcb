package completion

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/coursetrail/coursetrail/internal/domain"
	"github.com/coursetrail/coursetrail/internal/infrastructure/driver"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/require"
)

type execErrConn struct {
	err error
}

func (c *execErrConn) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, c.err
}

func (c *execErrConn) QueryContext(ctx context.Context, query string, args ...interface{}) (driver.ISQLRows, error) {
	return nil, c.err
}

func (c *execErrConn) BeginTx(ctx context.Context, opts *driver.TxOptions) (driver.ITransactionalDB, error) {
	return c, nil
}

func (c *execErrConn) Commit(ctx context.Context) error   { return nil }
func (c *execErrConn) Rollback(ctx context.Context) error { return nil }
func (c *execErrConn) Close(ctx context.Context) error    { return nil }
func (c *execErrConn) Ping() error                        { return nil }

func TestSaveCompletionDuplicateIsNoOp(t *testing.T) {
	now := time.Now()
	record := &domain.CompletionRecord{
		UserID: "u1", CourseKey: "intro", LessonSlug: "a", CreatedAt: &now,
	}

	cases := []struct {
		name string
		err  error
	}{
		{"mysql duplicate entry", &mysql.MySQLError{Number: 1062}},
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := NewCompletionRepository(&execErrConn{err: tc.err})
			require.NoError(t, repo.SaveCompletion(context.Background(), record))
		})
	}
}

func TestSaveCompletionOtherErrorPropagates(t *testing.T) {
	now := time.Now()
	repo := NewCompletionRepository(&execErrConn{err: &pgconn.PgError{Code: "42P01"}})

	err := repo.SaveCompletion(context.Background(), &domain.CompletionRecord{
		UserID: "u1", CourseKey: "intro", LessonSlug: "a", CreatedAt: &now,
	})
	require.Error(t, err)
}
