package cli

// #include <sql.h>
// #include <sqlext.h>
import "C"
import "unsafe"

func h(v Handle) C.SQLHANDLE { return C.SQLHANDLE(v) }

// AllocHandle allocates a new handle of type typ as a child of parent.
// parent is nil for HandleEnv.
func AllocHandle(typ HandleType, parent Handle) (Handle, Return) {
	var out C.SQLHANDLE
	ret := C.SQLAllocHandle(C.SQLSMALLINT(typ), h(parent), &out)
	return Handle(out), Return(ret)
}

// FreeHandle releases a handle previously returned by AllocHandle.
func FreeHandle(typ HandleType, handle Handle) Return {
	return Return(C.SQLFreeHandle(C.SQLSMALLINT(typ), h(handle)))
}

// FreeStmt applies one of the SQL_CLOSE/SQL_UNBIND/SQL_RESET_PARAMS options
// to a statement handle without freeing the handle itself.
func FreeStmt(stmt Handle, option int16) Return {
	return Return(C.SQLFreeStmt(C.SQLHSTMT(stmt), C.SQLUSMALLINT(option))) // #nosec cgo wrapper
}

const (
	CloseCursor   = 0 // SQL_CLOSE
	UnbindCols    = 2 // SQL_UNBIND
	ResetParams   = 3 // SQL_RESET_PARAMS
	DropStatement = 1 // SQL_DROP (legacy; prefer FreeHandle)
)

// Connect performs SQLConnect against a DSN registered with the driver
// manager. dsn, uid, pwd must already be NUL-terminated UTF-16LE, as
// produced by utfconv.ToUTF16 — this package does no text conversion.
func Connect(dbc Handle, dsn, uid, pwd []uint16) Return {
	return Return(C.SQLConnectW(
		C.SQLHDBC(dbc),
		wcharPtr(dsn), C.SQLSMALLINT(NTS),
		wcharPtr(uid), C.SQLSMALLINT(NTS),
		wcharPtr(pwd), C.SQLSMALLINT(NTS),
	))
}

// DriverConnect performs SQLDriverConnect with a full connection string
// (already UTF-16LE encoded). parentWindow is 0 when driver-prompted
// completion is not requested. The returned slice is the driver's
// completed connection string, still UTF-16LE, for the caller to decode.
func DriverConnect(dbc Handle, connStr []uint16, parentWindow uintptr, completion uint16) ([]uint16, Return) {
	out := make([]uint16, 1024)
	var outLen C.SQLSMALLINT
	ret := C.SQLDriverConnectW(
		C.SQLHDBC(dbc),
		C.SQLHWND(unsafe.Pointer(parentWindow)),
		wcharPtr(connStr), C.SQLSMALLINT(NTS),
		wcharPtr(out), C.SQLSMALLINT(len(out)),
		&outLen,
		C.SQLUSMALLINT(completion),
	)
	if Return(ret).IsError() {
		return nil, Return(ret)
	}
	return out[:outLen], Return(ret)
}

// Disconnect performs SQLDisconnect.
func Disconnect(dbc Handle) Return {
	return Return(C.SQLDisconnect(C.SQLHDBC(dbc)))
}

// SetEnvAttr sets an SQLUINTEGER-valued environment attribute.
func SetEnvAttr(env Handle, attr int32, value uintptr) Return {
	return Return(C.SQLSetEnvAttr(C.SQLHENV(env), C.SQLINTEGER(attr),
		C.SQLPOINTER(unsafe.Pointer(value)), C.SQL_IS_UINTEGER))
}

// GetEnvAttr reads an SQLUINTEGER-valued environment attribute.
func GetEnvAttr(env Handle, attr int32) (uintptr, Return) {
	var out C.SQLUINTEGER
	ret := C.SQLGetEnvAttr(C.SQLHENV(env), C.SQLINTEGER(attr),
		C.SQLPOINTER(unsafe.Pointer(&out)), C.SQL_IS_UINTEGER, nil)
	return uintptr(out), Return(ret)
}

// SetConnectAttr sets an SQLUINTEGER-valued connection attribute.
func SetConnectAttr(dbc Handle, attr int32, value uintptr) Return {
	return Return(C.SQLSetConnectAttr(C.SQLHDBC(dbc), C.SQLINTEGER(attr),
		C.SQLPOINTER(unsafe.Pointer(value)), C.SQL_IS_UINTEGER))
}

// GetConnectAttr reads an SQLUINTEGER-valued connection attribute.
func GetConnectAttr(dbc Handle, attr int32) (uintptr, Return) {
	var out C.SQLUINTEGER
	ret := C.SQLGetConnectAttr(C.SQLHDBC(dbc), C.SQLINTEGER(attr),
		C.SQLPOINTER(unsafe.Pointer(&out)), C.SQL_IS_UINTEGER, nil)
	return uintptr(out), Return(ret)
}

// GetInfoString performs SQLGetInfo for a string-valued info type. The
// returned slice is UTF-16LE; the caller decodes it with utfconv.FromUTF16.
func GetInfoString(dbc Handle, infoType int16) ([]uint16, Return) {
	buf := make([]uint16, 256)
	var outLen C.SQLSMALLINT
	ret := C.SQLGetInfoW(C.SQLHDBC(dbc), C.SQLUSMALLINT(infoType),
		C.SQLPOINTER(wcharPtr(buf)), C.SQLSMALLINT(len(buf)*2), &outLen)
	if Return(ret).IsError() {
		return nil, Return(ret)
	}
	n := int(outLen) / 2
	if n > len(buf) {
		n = len(buf)
	}
	return buf[:n], Return(ret)
}

// GetInfoUint performs SQLGetInfo for a numeric-valued info type.
func GetInfoUint(dbc Handle, infoType int16) (uint32, Return) {
	var out C.SQLUINTEGER
	ret := C.SQLGetInfoW(C.SQLHDBC(dbc), C.SQLUSMALLINT(infoType),
		C.SQLPOINTER(unsafe.Pointer(&out)), C.SQLSMALLINT(unsafe.Sizeof(out)), nil)
	return uint32(out), Return(ret)
}

// Prepare performs SQLPrepare. query must already be UTF-16LE encoded.
func Prepare(stmt Handle, query []uint16) Return {
	return Return(C.SQLPrepareW(C.SQLHSTMT(stmt), wcharPtr(query), C.SQLINTEGER(NTS)))
}

// Execute performs SQLExecute on a previously prepared statement.
func Execute(stmt Handle) Return {
	return Return(C.SQLExecute(C.SQLHSTMT(stmt)))
}

// ExecDirect performs SQLExecDirect, combining prepare+execute for
// one-shot statements. query must already be UTF-16LE encoded.
func ExecDirect(stmt Handle, query []uint16) Return {
	return Return(C.SQLExecDirectW(C.SQLHSTMT(stmt), wcharPtr(query), C.SQLINTEGER(NTS)))
}

// BindCol registers buf (and ind, the length/indicator cell) as the
// receiver of result column colNr (1-based).
func BindCol(stmt Handle, colNr uint16, ctype CType, buf []byte, ind *int64) Return {
	var p unsafe.Pointer
	if len(buf) > 0 {
		p = unsafe.Pointer(&buf[0])
	}
	return Return(C.SQLBindCol(C.SQLHSTMT(stmt), C.SQLUSMALLINT(colNr), C.SQLSMALLINT(ctype),
		C.SQLPOINTER(p), C.SQLLEN(len(buf)), (*C.SQLLEN)(unsafe.Pointer(ind))))
}

// BindParameter registers buf as parameter marker paramNr (1-based).
func BindParameter(stmt Handle, paramNr uint16, ioType int16, ctype CType, sqltype SQLType,
	columnSize uint64, decimalDigits int16, buf []byte, ind *int64) Return {
	var p unsafe.Pointer
	if len(buf) > 0 {
		p = unsafe.Pointer(&buf[0])
	}
	return Return(C.SQLBindParameter(C.SQLHSTMT(stmt), C.SQLUSMALLINT(paramNr),
		C.SQLSMALLINT(ioType), C.SQLSMALLINT(ctype), C.SQLSMALLINT(sqltype),
		C.SQLULEN(columnSize), C.SQLSMALLINT(decimalDigits),
		C.SQLPOINTER(p), C.SQLLEN(len(buf)), (*C.SQLLEN)(unsafe.Pointer(ind))))
}

// DescribeParam performs SQLDescribeParam.
func DescribeParam(stmt Handle, paramNr uint16) (sqltype SQLType, columnSize uint64, decimalDigits int16, nullable int16, ret Return) {
	var st C.SQLSMALLINT
	var cs C.SQLULEN
	var dd, nu C.SQLSMALLINT
	r := C.SQLDescribeParam(C.SQLHSTMT(stmt), C.SQLUSMALLINT(paramNr), &st, &cs, &dd, &nu)
	return SQLType(st), uint64(cs), int16(dd), int16(nu), Return(r)
}

// GetData performs SQLGetData for an unbound or piecewise column fetch.
func GetData(stmt Handle, colNr uint16, ctype CType, buf []byte, ind *int64) Return {
	var p unsafe.Pointer
	if len(buf) > 0 {
		p = unsafe.Pointer(&buf[0])
	}
	return Return(C.SQLGetData(C.SQLHSTMT(stmt), C.SQLUSMALLINT(colNr), C.SQLSMALLINT(ctype),
		C.SQLPOINTER(p), C.SQLLEN(len(buf)), (*C.SQLLEN)(unsafe.Pointer(ind))))
}

// FetchOrientation selects the direction for FetchScroll.
type FetchOrientation int16

const (
	FetchNext     FetchOrientation = C.SQL_FETCH_NEXT
	FetchPrior    FetchOrientation = C.SQL_FETCH_PRIOR
	FetchFirst    FetchOrientation = C.SQL_FETCH_FIRST
	FetchLast     FetchOrientation = C.SQL_FETCH_LAST
	FetchAbsolute FetchOrientation = C.SQL_FETCH_ABSOLUTE
	FetchRelative FetchOrientation = C.SQL_FETCH_RELATIVE
)

// Fetch performs SQLFetch (forward-only, no orientation).
func Fetch(stmt Handle) Return {
	return Return(C.SQLFetch(C.SQLHSTMT(stmt)))
}

// FetchScroll performs SQLFetchScroll for scrollable cursors.
func FetchScroll(stmt Handle, orientation FetchOrientation, offset int64) Return {
	return Return(C.SQLFetchScroll(C.SQLHSTMT(stmt), C.SQLSMALLINT(orientation), C.SQLLEN(offset)))
}

// CompletionType distinguishes commit from rollback for EndTran.
type CompletionType int16

const (
	Commit   CompletionType = C.SQL_COMMIT
	Rollback CompletionType = C.SQL_ROLLBACK
)

// EndTran performs SQLEndTran on env or dbc (whichever is non-nil).
func EndTran(typ HandleType, handle Handle, completion CompletionType) Return {
	return Return(C.SQLEndTran(C.SQLSMALLINT(typ), C.SQLHANDLE(handle), C.SQLSMALLINT(completion)))
}

// NumResultCols performs SQLNumResultCols.
func NumResultCols(stmt Handle) (int16, Return) {
	var n C.SQLSMALLINT
	ret := C.SQLNumResultCols(C.SQLHSTMT(stmt), &n)
	return int16(n), Return(ret)
}

// SetDescField performs SQLSetDescField against an explicit descriptor
// handle, used only by the NUMERIC binding dance (spec §4.3).
func SetDescField(desc Handle, recNr int16, fieldID int16, value uintptr, strLen int32) Return {
	return Return(C.SQLSetDescField(C.SQLHDESC(desc), C.SQLSMALLINT(recNr), C.SQLSMALLINT(fieldID),
		C.SQLPOINTER(unsafe.Pointer(value)), C.SQLINTEGER(strLen)))
}

// GetStmtAttrHandle reads a handle-valued statement attribute (used to
// fetch the implicit row/parameter descriptor handles).
func GetStmtAttrHandle(stmt Handle, attr int32) (Handle, Return) {
	var out C.SQLHANDLE
	ret := C.SQLGetStmtAttr(C.SQLHSTMT(stmt), C.SQLINTEGER(attr),
		C.SQLPOINTER(unsafe.Pointer(&out)), C.SQL_IS_POINTER, nil)
	return Handle(out), Return(ret)
}

const (
	AttrAppRowDesc    = C.SQL_ATTR_APP_ROW_DESC
	AttrAppParamDesc  = C.SQL_ATTR_APP_PARAM_DESC
	AttrImpRowDesc    = C.SQL_ATTR_IMP_ROW_DESC
	AttrImpParamDesc  = C.SQL_ATTR_IMP_PARAM_DESC
	AttrQueryTimeout  = C.SQL_ATTR_QUERY_TIMEOUT
	AttrCursorType    = C.SQL_ATTR_CURSOR_TYPE
	CursorForwardOnly = C.SQL_CURSOR_FORWARD_ONLY
	CursorScrollable  = C.SQL_CURSOR_STATIC
)

// DiagRec performs one SQLGetDiagRec call for record number recNr
// (1-based) against handle. It returns the 5-character SQL state, the
// driver-native error code, the message text (UTF-16LE), and the
// resulting Return — NoData once recNr exceeds the available records.
func DiagRec(typ HandleType, handle Handle, recNr int16) (state [5]uint16, nativeErr int32, message []uint16, ret Return) {
	var st [6]C.SQLWCHAR
	var native C.SQLINTEGER
	msgBuf := make([]C.SQLWCHAR, 1024)
	var msgLen C.SQLSMALLINT
	r := C.SQLGetDiagRecW(C.SQLSMALLINT(typ), C.SQLHANDLE(handle), C.SQLSMALLINT(recNr),
		&st[0], &native, &msgBuf[0], C.SQLSMALLINT(len(msgBuf)), &msgLen)
	for i := 0; i < 5; i++ {
		state[i] = uint16(st[i])
	}
	n := int(msgLen)
	if n > len(msgBuf) {
		n = len(msgBuf)
	}
	if n < 0 {
		n = 0
	}
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(msgBuf[i])
	}
	return state, int32(native), out, Return(r)
}

// Tables performs SQLTables. Each of catalogName/schemaName/tableName is
// either a search pattern or, per ODBC convention, an empty string or the
// single-character "%"/SQL_ALL_* sentinel the caller composed upstream;
// this wrapper forwards byte-for-byte and does no special-casing.
func Tables(stmt Handle, catalogName, schemaName, tableName, tableType []uint16) Return {
	return Return(C.SQLTablesW(C.SQLHSTMT(stmt),
		wcharPtr(catalogName), C.SQLSMALLINT(len(catalogName)),
		wcharPtr(schemaName), C.SQLSMALLINT(len(schemaName)),
		wcharPtr(tableName), C.SQLSMALLINT(len(tableName)),
		wcharPtr(tableType), C.SQLSMALLINT(len(tableType))))
}

// Columns performs SQLColumns.
func Columns(stmt Handle, catalogName, schemaName, tableName, columnName []uint16) Return {
	return Return(C.SQLColumnsW(C.SQLHSTMT(stmt),
		wcharPtr(catalogName), C.SQLSMALLINT(len(catalogName)),
		wcharPtr(schemaName), C.SQLSMALLINT(len(schemaName)),
		wcharPtr(tableName), C.SQLSMALLINT(len(tableName)),
		wcharPtr(columnName), C.SQLSMALLINT(len(columnName))))
}

// PrimaryKeys performs SQLPrimaryKeys.
func PrimaryKeys(stmt Handle, catalogName, schemaName, tableName []uint16) Return {
	return Return(C.SQLPrimaryKeysW(C.SQLHSTMT(stmt),
		wcharPtr(catalogName), C.SQLSMALLINT(len(catalogName)),
		wcharPtr(schemaName), C.SQLSMALLINT(len(schemaName)),
		wcharPtr(tableName), C.SQLSMALLINT(len(tableName))))
}

// TablePrivileges performs SQLTablePrivileges.
func TablePrivileges(stmt Handle, catalogName, schemaName, tableName []uint16) Return {
	return Return(C.SQLTablePrivilegesW(C.SQLHSTMT(stmt),
		wcharPtr(catalogName), C.SQLSMALLINT(len(catalogName)),
		wcharPtr(schemaName), C.SQLSMALLINT(len(schemaName)),
		wcharPtr(tableName), C.SQLSMALLINT(len(tableName))))
}

// SpecialColumns performs SQLSpecialColumns(SQL_BEST_ROWID, ...).
func SpecialColumns(stmt Handle, catalogName, schemaName, tableName []uint16) Return {
	const bestRowID = C.SQL_BEST_ROWID
	const scopeSession = C.SQL_SCOPE_SESSION
	const nullable = C.SQL_NO_NULLS
	return Return(C.SQLSpecialColumnsW(C.SQLHSTMT(stmt), C.SQLUSMALLINT(bestRowID),
		wcharPtr(catalogName), C.SQLSMALLINT(len(catalogName)),
		wcharPtr(schemaName), C.SQLSMALLINT(len(schemaName)),
		wcharPtr(tableName), C.SQLSMALLINT(len(tableName)),
		C.SQLUSMALLINT(scopeSession), C.SQLUSMALLINT(nullable)))
}

// GetTypeInfo performs SQLGetTypeInfo. sqlType is C.SQL_ALL_TYPES (0) to
// enumerate every type the driver supports, or a specific SQLType to look
// up a single entry.
func GetTypeInfo(stmt Handle, sqlType int16) Return {
	return Return(C.SQLGetTypeInfoW(C.SQLHSTMT(stmt), C.SQLSMALLINT(sqlType)))
}

func wcharPtr(s []uint16) *C.SQLWCHAR {
	if len(s) == 0 {
		return nil
	}
	return (*C.SQLWCHAR)(unsafe.Pointer(&s[0]))
}
