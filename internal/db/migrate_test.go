package db

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_AppliesPendingInOrder(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	fsys := fstest.MapFS{
		"migrations/002_enrichments.sql": {Data: []byte("CREATE TABLE enrichments ();")},
		"migrations/001_init.sql":        {Data: []byte("CREATE TABLE transcripts ();")},
		"migrations/003_indexes.sql":     {Data: []byte("CREATE INDEX idx ON enrichments (id);")},
		"migrations/README.md":           {Data: []byte("notes")},
	}

	mock.ExpectExec(`SELECT pg_advisory_lock`).WithArgs(migrationLockID).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery(`SELECT filename FROM schema_migrations`).
		WillReturnRows(pgxmock.NewRows([]string{"filename"}).AddRow("001_init.sql"))
	mock.ExpectExec(`CREATE TABLE enrichments`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(`INSERT INTO schema_migrations`).WithArgs("002_enrichments.sql").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`CREATE INDEX idx`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(`INSERT INTO schema_migrations`).WithArgs("003_indexes.sql").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`SELECT pg_advisory_unlock`).WithArgs(migrationLockID).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))

	require.NoError(t, Migrate(context.Background(), mock, fsys, "migrations"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_ApplyFailureReleasesLock(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	fsys := fstest.MapFS{"migrations/001_init.sql": {Data: []byte("CREATE TABLE broken (")}}

	mock.ExpectExec(`SELECT pg_advisory_lock`).WithArgs(migrationLockID).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery(`SELECT filename FROM schema_migrations`).
		WillReturnRows(pgxmock.NewRows([]string{"filename"}))
	mock.ExpectExec(`CREATE TABLE broken`).WillReturnError(assert.AnError)
	mock.ExpectExec(`SELECT pg_advisory_unlock`).WithArgs(migrationLockID).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))

	err = Migrate(context.Background(), mock, fsys, "migrations")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply migration 001_init.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_LockFailure(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`SELECT pg_advisory_lock`).WithArgs(migrationLockID).WillReturnError(assert.AnError)

	err = Migrate(context.Background(), mock, fstest.MapFS{}, "migrations")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquire migration lock")
	assert.NoError(t, mock.ExpectationsWereMet())
}
