package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/skiptrace-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return &PostgresStore{pool: mock}, mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS runs`).WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetPage_Hit(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, url, body, fetched_at, expires_at FROM page_cache`).
		WithArgs("u").
		WillReturnRows(pgxmock.NewRows([]string{"id", "url", "body", "fetched_at", "expires_at"}).
			AddRow("id-1", "u", []byte("<html/>"), now, now.Add(time.Hour)))

	pc, err := s.GetPage(context.Background(), "u")
	require.NoError(t, err)
	require.NotNil(t, pc)
	assert.Equal(t, "<html/>", string(pc.Body))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetPage_Miss(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	mock.ExpectQuery(`FROM page_cache`).WithArgs("u").WillReturnError(pgx.ErrNoRows)

	pc, err := s.GetPage(context.Background(), "u")
	require.NoError(t, err)
	assert.Nil(t, pc)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_PutPage_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	mock.ExpectExec(`INSERT INTO page_cache .* ON CONFLICT \(url\) DO UPDATE`).
		WithArgs(pgxmock.AnyArg(), "u", []byte("b"), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.PutPage(context.Background(), "u", []byte("b"), time.Hour))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteExpiredPages(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	mock.ExpectExec(`DELETE FROM page_cache WHERE expires_at <= now\(\)`).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := s.DeleteExpiredPages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateAndCompleteRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	mock.ExpectExec(`INSERT INTO runs`).
		WithArgs(pgxmock.AnyArg(), "in.xlsx", "running", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`UPDATE runs SET summary = \$1, status = \$2`).
		WithArgs(pgxmock.AnyArg(), "complete", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	run, err := s.CreateRun(context.Background(), "in.xlsx")
	require.NoError(t, err)
	require.NoError(t, s.CompleteRun(context.Background(), run.ID, &model.RunSummary{Loaded: 1}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FailRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	mock.ExpectExec(`UPDATE runs SET error = \$1`).
		WithArgs("boom", "failed", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.FailRun(context.Background(), "missing", "boom")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	mock.ExpectQuery(`SELECT id, input, status, summary, error, created_at, updated_at FROM runs WHERE id = \$1`).
		WithArgs("nonexistent-run").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRun(context.Background(), "nonexistent-run")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRuns(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()
	cols := []string{"id", "input", "status", "summary", "error", "created_at", "updated_at"}

	mock.ExpectQuery(`FROM runs WHERE true AND status = \$1 ORDER BY created_at DESC LIMIT \$2`).
		WithArgs("complete", 100).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("r1", "a.xlsx", "complete", []byte(`{"loaded":4,"matched":2}`), "", now, now).
			AddRow("r2", "b.xlsx", "complete", []byte(nil), "", now, now))

	runs, err := s.ListRuns(context.Background(), RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.NotNil(t, runs[0].Summary)
	assert.Equal(t, int64(2), runs[0].Summary.Matched)
	assert.Nil(t, runs[1].Summary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRuns_CreatedAfterAndOffset(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	cutoff := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "input", "status", "summary", "error", "created_at", "updated_at"}

	mock.ExpectQuery(`FROM runs WHERE true AND created_at >= \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(cutoff, 10, 20).
		WillReturnRows(pgxmock.NewRows(cols))

	runs, err := s.ListRuns(context.Background(), RunFilter{CreatedAfter: cutoff, Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
