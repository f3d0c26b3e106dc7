package odbc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectProduct(t *testing.T) {
	tests := []struct {
		dbms string
		want Product
	}{
		{"Microsoft SQL Server", ProductMsSQL},
		{"MySQL", ProductMySQL},
		{"PostgreSQL", ProductPostgres},
		{"Oracle", ProductOracle},
		{"DB2/LINUXX8664", ProductDb2},
		{"SQLite", ProductSQLite},
		{"ACCESS", ProductMsAccess},
		{"Excel Files", ProductExcel},
		{"HDB", ProductSapHana},
		{"some unknown driver", ProductUnknown},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, detectProduct(tt.dbms), "detectProduct(%q)", tt.dbms)
	}
}

func TestParseODBCVersion(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"03.80.0000", 3},
		{"02.00", 2},
		{"04.00", 4},
		{"", 0},
		{"x.00", 0},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, parseODBCVersion(tt.in), "parseODBCVersion(%q)", tt.in)
	}
}

func TestFirstConversionErrReturnsNilWhenAllNil(t *testing.T) {
	require.NoError(t, firstConversionErr(nil, nil, nil))
}

func TestFirstConversionErrWrapsFirstNonNil(t *testing.T) {
	first := errors.New("boom")
	err := firstConversionErr(nil, first, errors.New("second"))
	require.Error(t, err)
	assert.ErrorIs(t, err, first)
}
