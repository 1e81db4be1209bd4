package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcedureStatement(t *testing.T) {
	p := call("UpdateContactInfo",
		ParamInt("Id", 3),
		ParamNVarChar("Info", "x", 50),
		ParamNullInt("ContactID", nil),
	)

	stmt, args, err := p.statement()
	require.NoError(t, err)
	assert.Equal(t, "CALL UpdateContactInfo(?, ?, ?)", stmt)
	assert.Equal(t, []any{int64(3), "x", nil}, args)
}

func TestProcedureStatementWithoutParams(t *testing.T) {
	stmt, args, err := call("ReadAllContacts").statement()
	require.NoError(t, err)
	assert.Equal(t, "CALL ReadAllContacts()", stmt)
	assert.Empty(t, args)
}

func TestProcedureStatementReportsBindErrors(t *testing.T) {
	_, _, err := call("CreateContact", ParamVarChar("SSN", "far too long for thirteen", 13)).statement()
	assert.ErrorIs(t, err, ErrValueTooLong)
	assert.Contains(t, err.Error(), "@SSN")
}

func TestProcedureOutputDirections(t *testing.T) {
	db, mock := newMockDB(t)

	counter := ParamAny("Counter", int64(5), Int, 0, InputOutput)
	total := ParamOutput("Total", Money)
	ret := ParamReturn(Int)

	mock.ExpectExec("SET @Counter = ?").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CALL Tally(?, @Counter, @Total, @RETURN_VALUE)").
		WithArgs("all").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery("SELECT @Counter, @Total, @RETURN_VALUE").
		WillReturnRows(sqlmock.NewRows([]string{"@Counter", "@Total", "@RETURN_VALUE"}).
			AddRow(int64(8), []byte("12.5000"), int64(0)))

	n, err := withConn(context.Background(), db, func(exec sqlExecutor) (int64, error) {
		return call("Tally", ParamVarChar("Scope", "all", 10), counter, total, ret).exec(context.Background(), exec)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	got, ok, err := counter.Int64()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(8), got)
	assert.Equal(t, []byte("12.5000"), total.Result())

	got, ok, err = ret.Int64()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, got)
}

func TestProcedureQueryReadsRowsBeforeOutputs(t *testing.T) {
	db, mock := newMockDB(t)

	count := ParamOutput("Count", Int)
	mock.ExpectQuery("CALL ListWithCount(@Count)").
		WillReturnRows(contactRows().
			AddRow(int64(1), "111", "Ann", "Bee").
			AddRow(int64(2), "222", "Cid", "Dee"))
	mock.ExpectQuery("SELECT @Count").
		WillReturnRows(sqlmock.NewRows([]string{"@Count"}).AddRow(int64(2)))

	records, err := withConn(context.Background(), db, func(exec sqlExecutor) ([]Record, error) {
		return call("ListWithCount", count).query(context.Background(), exec)
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	ssn, err := records[1].String("SSN")
	require.NoError(t, err)
	assert.Equal(t, "222", ssn)

	n, ok, err := count.Int64()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(2), n)
}
