// Package cli is the FFI boundary between the core and the ODBC call-level
// interface (the driver manager, e.g. unixODBC or iODBC). It declares the
// handle types, return codes, and C/SQL type constants named in spec §6 and
// wraps each CLI entry point as a plain Go function. Nothing in this package
// knows about Environment, Database, Table or any other core concept: it is
// pure marshalling, same role as the wire-format helpers in a network
// driver's lowest layer.
package cli

// #cgo linux pkg-config: odbc
// #cgo darwin LDFLAGS: -lodbc
// #cgo windows LDFLAGS: -lodbc32
// #include <sql.h>
// #include <sqlext.h>
// #include <sqltypes.h>
import "C"
import "unsafe"

// Handle is the opaque CLI handle value, one per {Env, Dbc, Stmt, Desc}.
type Handle unsafe.Pointer

// HandleType identifies what kind of CLI handle a Handle value is.
type HandleType int16

const (
	HandleEnv  HandleType = C.SQL_HANDLE_ENV
	HandleDbc  HandleType = C.SQL_HANDLE_DBC
	HandleStmt HandleType = C.SQL_HANDLE_STMT
	HandleDesc HandleType = C.SQL_HANDLE_DESC
)

func (t HandleType) String() string {
	switch t {
	case HandleEnv:
		return "ENV"
	case HandleDbc:
		return "DBC"
	case HandleStmt:
		return "STMT"
	case HandleDesc:
		return "DESC"
	default:
		return "UNKNOWN"
	}
}

// Return is the SQLRETURN code every CLI call produces.
type Return int16

const (
	Success         Return = C.SQL_SUCCESS
	SuccessWithInfo Return = C.SQL_SUCCESS_WITH_INFO
	Error           Return = C.SQL_ERROR
	InvalidHandle   Return = C.SQL_INVALID_HANDLE
	NoData          Return = C.SQL_NO_DATA
	NeedData        Return = C.SQL_NEED_DATA
	StillExecuting  Return = C.SQL_STILL_EXECUTING
)

// IsError reports whether ret represents a non-success/non-info outcome.
// NoData (end of data) is not counted as an error.
func (r Return) IsError() bool {
	switch r {
	case Success, SuccessWithInfo, NoData:
		return false
	default:
		return true
	}
}

// IsSuccess reports Success or SuccessWithInfo.
func (r Return) IsSuccess() bool {
	return r == Success || r == SuccessWithInfo
}

func (r Return) String() string {
	switch r {
	case Success:
		return "SQL_SUCCESS"
	case SuccessWithInfo:
		return "SQL_SUCCESS_WITH_INFO"
	case Error:
		return "SQL_ERROR"
	case InvalidHandle:
		return "SQL_INVALID_HANDLE"
	case NoData:
		return "SQL_NO_DATA"
	case NeedData:
		return "SQL_NEED_DATA"
	case StillExecuting:
		return "SQL_STILL_EXECUTING"
	default:
		return "SQL_UNKNOWN_RETURN"
	}
}

// SQLType is a driver SQL type code (SQL_INTEGER, SQL_VARCHAR, ...).
type SQLType int16

// CType is a host C-type code used in bind/get-data calls (SQL_C_LONG, ...).
type CType int16

const (
	SQLChar          SQLType = C.SQL_CHAR
	SQLVarchar       SQLType = C.SQL_VARCHAR
	SQLLongVarchar   SQLType = C.SQL_LONGVARCHAR
	SQLWChar         SQLType = C.SQL_WCHAR
	SQLWVarchar      SQLType = C.SQL_WVARCHAR
	SQLWLongVarchar  SQLType = C.SQL_WLONGVARCHAR
	SQLDecimal       SQLType = C.SQL_DECIMAL
	SQLNumeric       SQLType = C.SQL_NUMERIC
	SQLSmallInt      SQLType = C.SQL_SMALLINT
	SQLInteger       SQLType = C.SQL_INTEGER
	SQLRealT         SQLType = C.SQL_REAL
	SQLFloat         SQLType = C.SQL_FLOAT
	SQLDouble        SQLType = C.SQL_DOUBLE
	SQLBit           SQLType = C.SQL_BIT
	SQLTinyInt       SQLType = C.SQL_TINYINT
	SQLBigInt        SQLType = C.SQL_BIGINT
	SQLBinary        SQLType = C.SQL_BINARY
	SQLVarbinary     SQLType = C.SQL_VARBINARY
	SQLLongVarbinary SQLType = C.SQL_LONGVARBINARY
	SQLTypeDate      SQLType = C.SQL_TYPE_DATE
	SQLTypeTime      SQLType = C.SQL_TYPE_TIME
	SQLTypeTimestamp SQLType = C.SQL_TYPE_TIMESTAMP
)

const (
	CChar          CType = C.SQL_C_CHAR
	CWChar         CType = C.SQL_C_WCHAR
	CBinary        CType = C.SQL_C_BINARY
	CBit           CType = C.SQL_C_BIT
	CSTinyInt      CType = C.SQL_C_STINYINT
	CUTinyInt      CType = C.SQL_C_UTINYINT
	CSShort        CType = C.SQL_C_SSHORT
	CUShort        CType = C.SQL_C_USHORT
	CSLong         CType = C.SQL_C_SLONG
	CULong         CType = C.SQL_C_ULONG
	CSBigInt       CType = C.SQL_C_SBIGINT
	CUBigInt       CType = C.SQL_C_UBIGINT
	CFloat         CType = C.SQL_C_FLOAT
	CDouble        CType = C.SQL_C_DOUBLE
	CTypeDate      CType = C.SQL_C_TYPE_DATE
	CTypeTime      CType = C.SQL_C_TYPE_TIME
	CTypeTimestamp CType = C.SQL_C_TYPE_TIMESTAMP
	CNumeric       CType = C.SQL_C_NUMERIC
	CDefault       CType = C.SQL_C_DEFAULT
)

// NullData is the length-indicator sentinel meaning "column is NULL".
const NullData = C.SQL_NULL_DATA

// Nullability codes SQLDescribeParam/SQLDescribeCol report: whether the
// driver allows the column or parameter marker to take SQL NULL.
const (
	NoNulls         int16 = C.SQL_NO_NULLS
	Nullable        int16 = C.SQL_NULLABLE
	NullableUnknown int16 = C.SQL_NULLABLE_UNKNOWN
)

// NTS is the length sentinel meaning "the buffer is a null-terminated string".
const NTS = C.SQL_NTS

// NoTotal is returned by SQLGetData when the driver cannot report the total
// remaining length of a piecewise long value.
const NoTotal = C.SQL_NO_TOTAL

// Descriptor field IDs used by the NUMERIC binding dance (spec §4.3): a
// NUMERIC buffer is bound not via SQLBindCol/SQLBindParameter directly
// but by setting these fields on the statement's application row/parameter
// descriptor. setNumericDescFields sets them in the order TYPE, PRECISION,
// SCALE, DATA_PTR, INDICATOR_PTR, OCTET_LENGTH_PTR; DescConciseType is
// not part of that sequence.
const (
	DescType            = C.SQL_DESC_TYPE
	DescConciseType     = C.SQL_DESC_CONCISE_TYPE
	DescScale           = C.SQL_DESC_SCALE
	DescPrecision       = C.SQL_DESC_PRECISION
	DescDataPtr         = C.SQL_DESC_DATA_PTR
	DescIndicatorPtr    = C.SQL_DESC_INDICATOR_PTR
	DescOctetLengthPtr  = C.SQL_DESC_OCTET_LENGTH_PTR
)
