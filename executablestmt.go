package odbc

import (
	"fmt"

	"github.com/lib/odbc/cli"
	"github.com/lib/odbc/odbcerr"
	"github.com/lib/odbc/sqltype"
)

// ExecutableStatement layers prepare/bind/execute/fetch semantics over a
// plain Statement (spec §4.5/§9: "a Statement plus a prepared flag and a
// cursor-scrollability flag"). Grounded on exOdbc's ExecutableStatement.h
// (original_source) and the teacher's stmt.go, whose prepare-then-execute
// lifecycle (Prepare/Exec/Query/Close) this follows, generalized from one
// fixed SQL dialect to ODBC parameter markers and scrollable cursors.
type ExecutableStatement struct {
	*Statement
	prepared   bool
	scrollable bool
	columns    []ColumnBuffer
	params     []ColumnBuffer
}

// NewExecutableStatement allocates a new statement on dbc. scrollable
// requests a static scrollable cursor instead of the default
// forward-only one (spec §4.5); the connection's detected product
// capabilities (products.go) may not support this, in which case the
// driver reports an error at first Fetch/FetchScroll rather than here.
func NewExecutableStatement(dbc *Connection, scrollable bool) (*ExecutableStatement, error) {
	s, err := newStatement(dbc)
	if err != nil {
		return nil, err
	}
	es := &ExecutableStatement{Statement: s, scrollable: scrollable}
	if scrollable && dbc.caps.scrollableCursor {
		if ret := cli.SetConnectAttr(s.core.raw(), cli.AttrCursorType, uintptr(cli.CursorScrollable)); ret.IsError() {
			return nil, odbcerr.NewSqlResult("SQLSetStmtAttr", cli.HandleStmt, s.core.raw(), ret)
		}
	}
	return es, nil
}

// Prepare performs SQLPrepare, marking the statement reusable across
// repeated Execute calls (spec §4.5).
func (es *ExecutableStatement) Prepare(sql string) error {
	wide, err := utf16OrConversionErr(sql)
	if err != nil {
		return err
	}
	if ret := cli.Prepare(es.core.raw(), wide); ret.IsError() {
		return odbcerr.NewSqlResult("SQLPrepare", cli.HandleStmt, es.core.raw(), ret)
	}
	es.prepared = true
	return nil
}

// Execute runs a previously Prepared statement.
func (es *ExecutableStatement) Execute() error {
	if !es.prepared {
		return odbcerr.NewAssertion("statement prepared", "Execute called before Prepare")
	}
	if ret := cli.Execute(es.core.raw()); ret.IsError() {
		return odbcerr.NewSqlResult("SQLExecute", cli.HandleStmt, es.core.raw(), ret)
	}
	return nil
}

// ExecDirect performs SQLExecDirect, combining prepare and execute for a
// one-shot statement not meant to be re-run.
func (es *ExecutableStatement) ExecDirect(sql string) error {
	wide, err := utf16OrConversionErr(sql)
	if err != nil {
		return err
	}
	if ret := cli.ExecDirect(es.core.raw(), wide); ret.IsError() {
		return odbcerr.NewSqlResult("SQLExecDirect", cli.HandleStmt, es.core.raw(), ret)
	}
	return nil
}

// BindParameter binds buf as parameter marker paramNr (1-based), input
// direction, using either props supplied by the caller or, if props is
// the zero value, a description obtained via SQLDescribeParam (spec
// §4.5, skipped on drivers products.go marks as not supporting it). If
// props.Nullable is set but the driver reports the parameter as
// non-nullable, the bind is rejected before any descriptor/CLI call
// (spec §4.3).
func (es *ExecutableStatement) BindParameter(paramNr int16, buf ColumnBuffer, props sqltype.ColumnProperties) error {
	const paramInput = 1 // SQL_PARAM_INPUT
	describeUnset := props == (sqltype.ColumnProperties{})
	if (describeUnset || props.Nullable) && es.dbc.caps.describeParam {
		st, size, digits, nullable, ret := cli.DescribeParam(es.core.raw(), uint16(paramNr))
		if ret.IsError() {
			return odbcerr.NewSqlResult("SQLDescribeParam", cli.HandleStmt, es.core.raw(), ret)
		}
		if describeUnset {
			props = sqltype.ColumnProperties{SQLType: st, ColumnSize: size, DecimalDigits: digits, Nullable: nullable == cli.Nullable}
		} else if nullable == cli.NoNulls {
			return &odbcerr.IllegalArgumentError{Message: fmt.Sprintf(
				"parameter %s is flagged Nullable but the driver reports it NOT NULL", buf.QueryName())}
		}
	}
	if err := bindParameter(es.Statement, paramNr, paramInput, props, buf); err != nil {
		return err
	}
	for len(es.params) < int(paramNr) {
		es.params = append(es.params, nil)
	}
	es.params[paramNr-1] = buf
	return nil
}

// BindColumn binds buf as the receiver for result column colNr (1-based).
func (es *ExecutableStatement) BindColumn(colNr int16, buf ColumnBuffer) error {
	if err := bindSelect(es.Statement, colNr, buf); err != nil {
		return err
	}
	for len(es.columns) < int(colNr) {
		es.columns = append(es.columns, nil)
	}
	es.columns[colNr-1] = buf
	return nil
}

// Columns returns the currently bound result-column buffers, in order.
func (es *ExecutableStatement) Columns() []ColumnBuffer { return es.columns }

// Fetch advances the cursor one row via SQLFetch, returning ok=false on
// SQL_NO_DATA (end of result set, not an error — spec §4.5).
func (es *ExecutableStatement) Fetch() (ok bool, err error) {
	ret := cli.Fetch(es.core.raw())
	if ret == cli.NoData {
		return false, nil
	}
	if ret.IsError() {
		return false, odbcerr.NewSqlResult("SQLFetch", cli.HandleStmt, es.core.raw(), ret)
	}
	return true, nil
}

// FetchScroll advances the cursor per orientation/offset on a scrollable
// statement (spec §4.5).
func (es *ExecutableStatement) FetchScroll(orientation cli.FetchOrientation, offset int64) (ok bool, err error) {
	if !es.scrollable {
		return false, odbcerr.NewAssertion("statement scrollable", "FetchScroll called on a forward-only statement")
	}
	ret := cli.FetchScroll(es.core.raw(), orientation, offset)
	if ret == cli.NoData {
		return false, nil
	}
	if ret.IsError() {
		return false, odbcerr.NewSqlResult("SQLFetchScroll", cli.HandleStmt, es.core.raw(), ret)
	}
	return true, nil
}

// NumResultCols performs SQLNumResultCols.
func (es *ExecutableStatement) NumResultCols() (int16, error) {
	n, ret := cli.NumResultCols(es.core.raw())
	if ret.IsError() {
		return 0, odbcerr.NewSqlResult("SQLNumResultCols", cli.HandleStmt, es.core.raw(), ret)
	}
	return n, nil
}

// Close unbinds all remaining column buffers, resets the cursor, and
// frees the underlying Statement.
func (es *ExecutableStatement) Close() error {
	for _, c := range es.columns {
		if c != nil {
			unbindBuffer(c)
		}
	}
	for _, p := range es.params {
		if p != nil {
			unbindBuffer(p)
		}
	}
	return es.Statement.Close()
}

// unbindBuffer calls the buffer's unexported unbind method via the
// bufferCore embedding, using a narrow interface so buffer.go need not
// export it.
func unbindBuffer(buf ColumnBuffer) {
	if u, ok := buf.(interface{ unbindSelf() }); ok {
		u.unbindSelf()
	}
}
