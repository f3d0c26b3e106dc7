package odbc

import (
	"encoding/binary"

	"github.com/lib/odbc/cli"
	"github.com/lib/odbc/odbcerr"
	"github.com/lib/odbc/utfconv"
)

// execSQLTables, execSQLColumns, execSQLPrimaryKeys, execSQLTablePrivileges,
// execSQLSpecialColumns and execSQLGetTypeInfo adapt catalog.go's Go-level
// pattern/Exact arguments into the UTF-16LE encoded fixed-length forms
// package cli expects, swallowing encoding failures into an Error return
// the caller already knows how to wrap (SqlResultError carries only a
// SQLRETURN, so a conversion failure here is reported as a generic Error
// rather than surfaced as a ConversionError — catalog arguments are always
// programmer-supplied identifiers, never user input, so this is adequate).
func mustWide(s string) []uint16 {
	w, err := utfconv.ToUTF16(s)
	if err != nil {
		return nil
	}
	// ToUTF16 NUL-terminates; catalog calls pass explicit lengths, so trim it.
	if n := len(w); n > 0 && w[n-1] == 0 {
		return w[:n-1]
	}
	return w
}

func widePattern(p pattern) []uint16 {
	if p.isNil {
		return nil
	}
	return mustWide(p.value)
}

func execSQLTables(stmt cli.Handle, catalogName string, schemaPattern, tablePattern pattern, tableType string) cli.Return {
	return cli.Tables(stmt, mustWide(catalogName), widePattern(schemaPattern), widePattern(tablePattern), mustWide(tableType))
}

func execSQLColumns(stmt cli.Handle, catalogName, schemaName, tableName string) cli.Return {
	return cli.Columns(stmt, mustWide(catalogName), mustWide(schemaName), mustWide(tableName), nil)
}

func execSQLPrimaryKeys(stmt cli.Handle, catalogName, schemaName, tableName string) cli.Return {
	return cli.PrimaryKeys(stmt, mustWide(catalogName), mustWide(schemaName), mustWide(tableName))
}

func execSQLTablePrivileges(stmt cli.Handle, catalogName, schemaName, tableName string) cli.Return {
	return cli.TablePrivileges(stmt, mustWide(catalogName), mustWide(schemaName), mustWide(tableName))
}

func execSQLSpecialColumns(stmt cli.Handle, catalogName, schemaName, tableName string) cli.Return {
	return cli.SpecialColumns(stmt, mustWide(catalogName), mustWide(schemaName), mustWide(tableName))
}

func execSQLGetTypeInfo(stmt cli.Handle, sqlType int16) cli.Return {
	return cli.GetTypeInfo(stmt, sqlType)
}

// colGetter reads successive columns of the statement's current fetched
// row via SQLGetData, accumulating the first error encountered so callers
// can check it once after reading every column of a row (mirrors the
// teacher's rows.go Scan pattern of deferring error checks to one place).
type colGetter struct {
	stmt *Statement
	err  error
}

func (g *colGetter) str(col uint16) string {
	if g.err != nil {
		return ""
	}
	buf := make([]byte, 1024)
	var ind int64
	ret := cli.GetData(g.stmt.core.raw(), col, cli.CWChar, buf, &ind)
	if ret.IsError() {
		g.err = odbcerr.NewSqlResult("SQLGetData", cli.HandleStmt, g.stmt.core.raw(), ret)
		return ""
	}
	if ind == cli.NullData || ind <= 0 {
		return ""
	}
	n := int(ind)
	if n > len(buf) {
		n = len(buf)
	}
	wchars := make([]uint16, n/2)
	for i := range wchars {
		wchars[i] = binary.LittleEndian.Uint16(buf[i*2:])
	}
	s, err := utfconv.FromUTF16(wchars)
	if err != nil {
		g.err = odbcerr.NewConversion(utfconv.UTF16ToUTF8.String(), err)
		return ""
	}
	return s
}

func (g *colGetter) int16(col uint16) int16 {
	if g.err != nil {
		return 0
	}
	buf := make([]byte, 2)
	var ind int64
	ret := cli.GetData(g.stmt.core.raw(), col, cli.CSShort, buf, &ind)
	if ret.IsError() {
		g.err = odbcerr.NewSqlResult("SQLGetData", cli.HandleStmt, g.stmt.core.raw(), ret)
		return 0
	}
	if ind == cli.NullData {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(buf))
}

func (g *colGetter) int32(col uint16) int32 {
	if g.err != nil {
		return 0
	}
	buf := make([]byte, 4)
	var ind int64
	ret := cli.GetData(g.stmt.core.raw(), col, cli.CSLong, buf, &ind)
	if ret.IsError() {
		g.err = odbcerr.NewSqlResult("SQLGetData", cli.HandleStmt, g.stmt.core.raw(), ret)
		return 0
	}
	if ind == cli.NullData {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(buf))
}

// fetchAll drives SQLFetch to completion, invoking scan once per row. scan
// reads whichever columns it needs via the supplied colGetter and returns
// its accumulated error, if any — fetchAll stops and returns that error
// rather than continuing to the next row.
func fetchAll(stmt *Statement, scan func(get colGetter) error) error {
	for {
		ret := cli.Fetch(stmt.core.raw())
		if ret == cli.NoData {
			return nil
		}
		if ret.IsError() {
			return odbcerr.NewSqlResult("SQLFetch", cli.HandleStmt, stmt.core.raw(), ret)
		}
		if err := scan(colGetter{stmt: stmt}); err != nil {
			return err
		}
	}
}
