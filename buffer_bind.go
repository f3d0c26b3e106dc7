package odbc

import (
	"github.com/lib/odbc/cli"
	"github.com/lib/odbc/odbcerr"
	"github.com/lib/odbc/sqltype"
)

// NewColumnBufferForKind allocates the concrete ColumnBuffer variant for
// kind, sized from columnSize/decimalDigits where relevant (spec §4.3/§4.4:
// a Sql2BufferTypeMap decides the kind; this is the factory that turns
// that decision into an allocated buffer).
func NewColumnBufferForKind(queryName string, kind sqltype.BufferKind, columnSize uint64, decimalDigits int16) (ColumnBuffer, error) {
	switch kind {
	case sqltype.KindFixedBit, sqltype.KindFixedInt8:
		return newFixedScalar[int8](queryName, kind, cli.CSTinyInt), nil
	case sqltype.KindFixedInt16:
		return newFixedScalar[int16](queryName, kind, cli.CSShort), nil
	case sqltype.KindFixedInt32:
		return newFixedScalar[int32](queryName, kind, cli.CSLong), nil
	case sqltype.KindFixedInt64:
		return newFixedScalar[int64](queryName, kind, cli.CSBigInt), nil
	case sqltype.KindFixedUint64:
		return newFixedScalar[uint64](queryName, kind, cli.CUBigInt), nil
	case sqltype.KindFixedFloat32:
		return newFixedScalar[float32](queryName, kind, cli.CFloat), nil
	case sqltype.KindFixedFloat64:
		return newFixedScalar[float64](queryName, kind, cli.CDouble), nil
	case sqltype.KindDate:
		return NewDateTimeBuffer(queryName, DateTimeDate), nil
	case sqltype.KindTime:
		return NewDateTimeBuffer(queryName, DateTimeTime), nil
	case sqltype.KindDateTime:
		return NewDateTimeBuffer(queryName, DateTimeTimestamp), nil
	case sqltype.KindNumeric:
		return NewNumericBuffer(queryName), nil
	case sqltype.KindCharArray:
		return NewByteArray(queryName, ByteArrayChar, capacityFor(columnSize)), nil
	case sqltype.KindWCharArray:
		return NewByteArray(queryName, ByteArrayWChar, capacityFor(columnSize)), nil
	case sqltype.KindBinaryArray:
		return NewByteArray(queryName, ByteArrayBinary, capacityFor(columnSize)), nil
	default:
		return nil, &odbcerr.NotSupportedError{Kind: "buffer kind", Value: int(kind)}
	}
}

// capacityFor bounds an unreasonable or zero driver-reported column size
// (LOB columns often report 0 or a huge sentinel) to a workable default,
// the same defensive clamp exOdbc's buffer allocation applies.
func capacityFor(columnSize uint64) int {
	const def = 256
	const max = 1 << 20
	if columnSize == 0 {
		return def
	}
	if columnSize > max {
		return max
	}
	return int(columnSize)
}

// bindSelect binds buf as the receiver for result column colNr (1-based)
// on stmt, registers the bidirectional statement/buffer notification, and
// issues either SQLBindCol or the NUMERIC descriptor dance depending on
// buf's kind (spec §4.3/§9).
func bindSelect(stmt *Statement, colNr int16, buf ColumnBuffer) error {
	if nb, ok := buf.(*NumericBuffer); ok {
		props, err := describeBoundColumn(stmt, colNr)
		if err != nil {
			return err
		}
		if err := bindSelectNumeric(stmt, colNr, props.ColumnSize, props.DecimalDigits, nb); err != nil {
			return err
		}
	} else {
		if ret := cli.BindCol(stmt.core.raw(), uint16(colNr), buf.ctype(), buf.bytes(), buf.indicator()); ret.IsError() {
			return odbcerr.NewSqlResult("SQLBindCol", cli.HandleStmt, stmt.core.raw(), ret)
		}
	}
	registerColumnBuffer(stmt, buf)
	return nil
}

// bindParameter binds buf as parameter marker paramNr (1-based), input or
// output per ioType (SQL_PARAM_INPUT == 1, SQL_PARAM_OUTPUT == 4,
// SQL_PARAM_INPUT_OUTPUT == 2).
func bindParameter(stmt *Statement, paramNr int16, ioType int16, props sqltype.ColumnProperties, buf ColumnBuffer) error {
	if nb, ok := buf.(*NumericBuffer); ok {
		if err := bindParameterNumeric(stmt, paramNr, props.ColumnSize, props.DecimalDigits, nb); err != nil {
			return err
		}
	} else {
		ret := cli.BindParameter(stmt.core.raw(), uint16(paramNr), ioType, buf.ctype(), props.SQLType,
			props.ColumnSize, props.DecimalDigits, buf.bytes(), buf.indicator())
		if ret.IsError() {
			return odbcerr.NewSqlResult("SQLBindParameter", cli.HandleStmt, stmt.core.raw(), ret)
		}
	}
	registerColumnBuffer(stmt, buf)
	return nil
}

// registerColumnBuffer wires the bidirectional notification: the buffer
// records which statement and binding id it was registered under (via
// the type assertion to the concrete core-embedding types), and the
// statement records the buffer as an observer to notify on Close.
func registerColumnBuffer(stmt *Statement, buf ColumnBuffer) {
	if ch, ok := buf.(interface{ setBound(*Statement, int) }); ok {
		id := stmt.registerBinding(buf.(statementFreedObserver))
		ch.setBound(stmt, id)
	}
}

// describeBoundColumn supplies the properties bindSelect uses for a
// NUMERIC result column: a fixed NUMERIC with precision 38 and scale 10.
// It does not query the driver or the catalog. table.go binds its NUMERIC
// table columns with their ColumnInfo-derived precision and scale instead,
// so this fallback serves only ad hoc NUMERIC binds against a query this
// package did not itself describe.
func describeBoundColumn(stmt *Statement, colNr int16) (sqltype.ColumnProperties, error) {
	return sqltype.ColumnProperties{SQLType: cli.SQLNumeric, ColumnSize: 38, DecimalDigits: 10}, nil
}
