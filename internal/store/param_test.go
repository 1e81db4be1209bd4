package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamNameNormalization(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "SSN", want: "@SSN"},
		{in: "@SSN", want: "@SSN"},
		{in: "  Id ", want: "@Id"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParamInt(tt.in, 1).Name, "name %q", tt.in)
	}
}

func TestParamNullBindsAsNil(t *testing.T) {
	var (
		id    *int64
		when  *time.Time
		price *float64
	)
	for _, p := range []*Param{
		ParamNullInt("ContactID", id),
		ParamDateTime("Born", when),
		ParamDateTime2("Seen", when),
		ParamMoney("Price", price),
		ParamAny("Anything", nil, VarChar, 10, Input),
		ParamAny("Nullable", sql.NullString{}, NVarChar, 10, Input),
	} {
		require.NoError(t, p.err, p.Name)
		assert.Nil(t, p.Value, p.Name)
	}
}

func TestParamCarriesMetadata(t *testing.T) {
	p := ParamNVarChar("FirstName", "Richard", 50)
	require.NoError(t, p.err)
	assert.Equal(t, "@FirstName", p.Name)
	assert.Equal(t, NVarChar, p.Type)
	assert.Equal(t, Input, p.Direction)
	assert.Equal(t, 50, p.Size)
	assert.Equal(t, "Richard", p.Value)
}

func TestParamTextSizeCountsCharacters(t *testing.T) {
	ok := ParamNChar("Name", "Åsa Öberg", 9)
	require.NoError(t, ok.err)

	tooLong := ParamVarChar("SSN", "18110101-98765", 13)
	assert.ErrorIs(t, tooLong.err, ErrValueTooLong)

	unbounded := ParamChar("Code", "whatever length", 0)
	assert.NoError(t, unbounded.err)
}

func TestParamTypeMismatch(t *testing.T) {
	assert.ErrorIs(t, ParamAny("SSN", 12, VarChar, 13, Input).err, ErrUnsupportedValue)
	assert.ErrorIs(t, ParamAny("Id", "twelve", Int, 0, Input).err, ErrUnsupportedValue)
	assert.ErrorIs(t, ParamAny("When", "today", DateTime, 0, Input).err, ErrUnsupportedValue)
}

func TestParamIntAcceptsPointersAndValuers(t *testing.T) {
	assert.Equal(t, int64(6), ParamNullInt("ContactID", ID(6)).Value)
	assert.Equal(t, int64(7), ParamAny("Id", int32(7), Int, 0, Input).Value)
	assert.Equal(t, int64(8), ParamAny("Id", sql.NullInt64{Int64: 8, Valid: true}, Int, 0, Input).Value)
}

func TestParamDateTimePrecision(t *testing.T) {
	ts := time.Date(2021, time.March, 4, 5, 6, 7, 123456789, time.UTC)

	assert.Equal(t, time.Date(2021, time.March, 4, 5, 6, 7, 0, time.UTC), ParamDateTime("At", &ts).Value)
	assert.Equal(t, time.Date(2021, time.March, 4, 5, 6, 7, 123456000, time.UTC), ParamDateTime2("At", &ts).Value)
}

func TestParamMoneyFormatting(t *testing.T) {
	price := 19.99
	assert.Equal(t, "19.9900", ParamMoney("Price", &price).Value)
	assert.Equal(t, "5.0000", ParamAny("Price", int64(5), Money, 0, Input).Value)
}

func TestParamOutputSlots(t *testing.T) {
	out := ParamOutput("ID", Int)
	require.NoError(t, out.err)
	assert.Equal(t, "@ID", out.Name)
	assert.Equal(t, Output, out.Direction)
	assert.Nil(t, out.Value)

	ret := ParamReturn(Int)
	require.NoError(t, ret.err)
	assert.Equal(t, "@RETURN_VALUE", ret.Name)
	assert.Equal(t, ReturnValue, ret.Direction)

	bad := ParamOutput("ID; DROP TABLE Contact", Int)
	assert.ErrorIs(t, bad.err, ErrInvalidParamName)
}

func TestDBTypeAndDirectionStrings(t *testing.T) {
	assert.Equal(t, "NVARCHAR", NVarChar.String())
	assert.Equal(t, "MONEY", Money.String())
	assert.Equal(t, "DBType(99)", DBType(99).String())
	assert.Equal(t, "InputOutput", InputOutput.String())
}
