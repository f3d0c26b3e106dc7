package odbc

import (
	"github.com/lib/odbc/cli"
	"github.com/lib/odbc/odbcerr"
)

const attrAutoCommit = 102  // SQL_ATTR_AUTOCOMMIT
const attrTxnIsolation = 108 // SQL_ATTR_TXN_ISOLATION

const (
	autoCommitOn  = 1
	autoCommitOff = 0
)

// ReadCommitMode reads the connection's current commit mode.
func (c *Connection) ReadCommitMode() (CommitMode, error) {
	v, ret := cli.GetConnectAttr(c.core.raw(), attrAutoCommit)
	if ret.IsError() {
		return 0, odbcerr.NewSqlResult("SQLGetConnectAttr", cli.HandleDbc, c.core.raw(), ret)
	}
	if v == autoCommitOff {
		return ManualCommit, nil
	}
	return AutoCommit, nil
}

// SetCommitMode first rolls back any open transaction, then sets the
// CLI attribute (spec §4.4 "Transaction control"). After this succeeds,
// ReadCommitMode returns the requested mode (spec §8 invariant).
func (c *Connection) SetCommitMode(mode CommitMode) error {
	if c.commitMode == ManualCommit {
		if err := c.RollbackTrans(); err != nil {
			return err
		}
	}
	value := uintptr(autoCommitOn)
	if mode == ManualCommit {
		value = autoCommitOff
	}
	if ret := cli.SetConnectAttr(c.core.raw(), attrAutoCommit, value); ret.IsError() {
		return odbcerr.NewSqlResult("SQLSetConnectAttr", cli.HandleDbc, c.core.raw(), ret)
	}
	c.commitMode = mode
	return nil
}

// SetTransactionIsolationMode closes both internal statements, rolls
// back if manual, then sets the attribute (spec §4.4).
func (c *Connection) SetTransactionIsolationMode(level IsolationLevel) error {
	if err := c.catalogStmt.resetCursor(); err != nil {
		return err
	}
	if err := c.execStmt.resetCursor(); err != nil {
		return err
	}
	if c.commitMode == ManualCommit {
		if err := c.RollbackTrans(); err != nil {
			return err
		}
	}
	var v uintptr
	switch level {
	case ReadUncommitted:
		v = 1
	case ReadCommitted:
		v = 2
	case RepeatableRead:
		v = 4
	case Serializable:
		v = 8
	}
	if ret := cli.SetConnectAttr(c.core.raw(), attrTxnIsolation, v); ret.IsError() {
		return odbcerr.NewSqlResult("SQLSetConnectAttr", cli.HandleDbc, c.core.raw(), ret)
	}
	return nil
}

// CommitTrans calls SQLEndTran(SQL_COMMIT) on the connection handle.
func (c *Connection) CommitTrans() error {
	if ret := cli.EndTran(cli.HandleDbc, c.core.raw(), cli.Commit); ret.IsError() {
		return odbcerr.NewSqlResult("SQLEndTran", cli.HandleDbc, c.core.raw(), ret)
	}
	return nil
}

// RollbackTrans calls SQLEndTran(SQL_ROLLBACK) on the connection handle.
func (c *Connection) RollbackTrans() error {
	if ret := cli.EndTran(cli.HandleDbc, c.core.raw(), cli.Rollback); ret.IsError() {
		return odbcerr.NewSqlResult("SQLEndTran", cli.HandleDbc, c.core.raw(), ret)
	}
	return nil
}

// ExecSql executes sql directly on the connection's dedicated exec
// statement (spec §4.4 step 3: "one for internal catalog queries, one
// dedicated to direct ExecSql" — never the catalog statement, so
// catalog queries never interfere with user SQL per spec §5).
func (c *Connection) ExecSql(sql string) error {
	wide, err := utf16OrConversionErr(sql)
	if err != nil {
		return err
	}
	if err := c.execStmt.resetCursor(); err != nil {
		return err
	}
	if ret := cli.ExecDirect(c.execStmt.core.raw(), wide); ret.IsError() {
		return odbcerr.NewSqlResult("SQLExecDirect", cli.HandleStmt, c.execStmt.core.raw(), ret)
	}
	return nil
}
