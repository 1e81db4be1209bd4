package store

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func contactRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"Id", "SSN", "FirstName", "LastName"})
}

func contactInfoRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"ID", "Info", "ContactID"})
}
