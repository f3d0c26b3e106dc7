package odbc

import (
	"github.com/lib/odbc/cli"
	"github.com/lib/odbc/odbcerr"
	"github.com/lib/odbc/sqltype"
)

// ColumnInfo, TableInfo, PrimaryKeyInfo and PrivilegeInfo are the
// catalog-row value types spec §3 names, parsed from SQLColumns,
// SQLTables, SQLPrimaryKeys and SQLTablePrivileges respectively.
type ColumnInfo struct {
	TableCatalog  string
	TableSchema   string
	TableName     string
	ColumnName    string
	SQLType       cli.SQLType
	TypeName      string
	ColumnSize    uint64
	DecimalDigits int16
	Nullable      bool
	OrdinalPos    int
}

type TableInfo struct {
	Catalog string
	Schema  string
	Name    string
	Type    string // "TABLE", "VIEW", "SYSTEM TABLE", ...
	Remarks string
}

// QualifiedName renders the table name the way SQL composition (table.go)
// needs it: schema-qualified when a schema is present.
func (t TableInfo) QualifiedName() string {
	if t.Schema != "" {
		return quoteIdent(t.Schema) + "." + quoteIdent(t.Name)
	}
	return quoteIdent(t.Name)
}

func quoteIdent(s string) string {
	// Minimal identifier quoting: double-quote, doubling embedded quotes.
	// exOdbc and the teacher both leave quoting to the driver dialect in
	// the general case; the core only needs this for its own generated
	// statements, where ANSI double-quoting is the safe common subset.
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' {
			out = append(out, '"', '"')
		} else {
			out = append(out, s[i])
		}
	}
	out = append(out, '"')
	return string(out)
}

type PrimaryKeyInfo struct {
	TableName  string
	ColumnName string
	KeySeq     int16
	PKName     string
}

type PrivilegeInfo struct {
	TableName  string
	ColumnName string
	Grantor    string
	Grantee    string
	Privilege  sqltype.Privilege
	Grantable  bool
}

// Catalog bundles the catalog-query operations conceptually described by
// spec §4.4 as the Database's DatabaseCatalog collaborator.
type Catalog struct {
	c *Connection
}

// Catalog returns the catalog query surface for this connection.
func (c *Connection) Catalog() *Catalog { return &Catalog{c: c} }

// scopedCursor closes any cursor left open on the catalog statement
// before executing, and closes the cursor again on return — every
// catalog query is scoped this way per spec §4.4.
func (cat *Catalog) scopedCursor(fn func(stmt *Statement) error) error {
	stmt := cat.c.catalogStmt
	if err := stmt.resetCursor(); err != nil {
		return err
	}
	defer stmt.resetCursor() //nolint:errcheck // best-effort cleanup, mirrors spec's "close on exit"
	return fn(stmt)
}

// pattern carries spec §4.4's "null means don't filter" convention: Any
// becomes a CLI NULL pointer argument. An empty value also reaches the CLI
// as a NULL pointer (cli passes zero-length strings as NULL), so Exact("")
// and Pattern("") do not filter either; no value here restricts a field
// to empty strings only.
type pattern struct {
	value string
	isNil bool
}

// Any is the "don't filter by this field" sentinel for pattern-valued
// catalog arguments (schema/table name).
var Any = pattern{isNil: true}

// Exact wraps a literal (non-pattern) value, e.g. a catalog name.
func Exact(s string) pattern { return pattern{value: s} }

// Pattern wraps a SQL-wildcard pattern value (schema/table name args).
func Pattern(s string) pattern { return pattern{value: s} }

// Tables performs SQLTables.
func (cat *Catalog) Tables(catalogName string, schemaPattern, tablePattern pattern, tableType string) ([]TableInfo, error) {
	var rows []TableInfo
	err := cat.scopedCursor(func(stmt *Statement) error {
		ret := execSQLTables(stmt.core.raw(), catalogName, schemaPattern, tablePattern, tableType)
		if ret.IsError() {
			return odbcerr.NewSqlResult("SQLTables", cli.HandleStmt, stmt.core.raw(), ret)
		}
		return fetchAll(stmt, func(get colGetter) error {
			var t TableInfo
			t.Catalog = get.str(1)
			t.Schema = get.str(2)
			t.Name = get.str(3)
			t.Type = get.str(4)
			t.Remarks = get.str(5)
			rows = append(rows, t)
			return get.err
		})
	})
	return rows, err
}

// FindOneTable resolves the unique table matching name/schema/catalog/type,
// the entry point Table.Open uses (spec §4.4).
func (cat *Catalog) FindOneTable(name string, schema, catalogName pattern, tableType string) (TableInfo, error) {
	schemaArg := Any
	if !schema.isNil {
		schemaArg = Exact(schema.value)
	}
	rows, err := cat.Tables(catalogName.value, schemaArg, Exact(name), tableType)
	if err != nil {
		return TableInfo{}, err
	}
	switch len(rows) {
	case 0:
		return TableInfo{}, &odbcerr.NotFoundError{What: "table " + name}
	case 1:
		return rows[0], nil
	default:
		return TableInfo{}, &odbcerr.NotFoundError{What: "table " + name, NotOne: true}
	}
}

// ReadTableColumnInfo performs SQLColumns and returns the table's
// columns ordered strictly by ordinal position with no gaps — spec §4.4
// calls this invariant out explicitly because downstream consumers
// (Table.Open's auto-bind order) exploit it.
func (cat *Catalog) ReadTableColumnInfo(tbl TableInfo) ([]ColumnInfo, error) {
	var rows []ColumnInfo
	err := cat.scopedCursor(func(stmt *Statement) error {
		ret := execSQLColumns(stmt.core.raw(), tbl.Catalog, tbl.Schema, tbl.Name)
		if ret.IsError() {
			return odbcerr.NewSqlResult("SQLColumns", cli.HandleStmt, stmt.core.raw(), ret)
		}
		return fetchAll(stmt, func(get colGetter) error {
			var ci ColumnInfo
			ci.TableCatalog = get.str(1)
			ci.TableSchema = get.str(2)
			ci.TableName = get.str(3)
			ci.ColumnName = get.str(4)
			ci.SQLType = cli.SQLType(get.int16(5))
			ci.TypeName = get.str(6)
			ci.ColumnSize = uint64(get.int32(7))
			ci.DecimalDigits = get.int16(9)
			ci.Nullable = get.int16(11) == 1 // SQL_NULLABLE
			ci.OrdinalPos = int(get.int32(17))
			rows = append(rows, ci)
			return get.err
		})
	})
	if err != nil {
		return nil, err
	}
	for i, r := range rows {
		if r.OrdinalPos != i+1 {
			return nil, odbcerr.NewAssertion("ordinal positions contiguous from 1",
				"ReadTableColumnInfo: catalog returned non-monotonic ordinal positions")
		}
	}
	return rows, nil
}

// ReadPrimaryKeyInfo performs SQLPrimaryKeys. A driver reporting HYC00
// here (optional feature not implemented) propagates as a SqlResultError
// the caller can detect with HasState(odbcerr.HYC00) — the scenario the
// well-known constant in spec §4.1 exists for.
func (cat *Catalog) ReadPrimaryKeyInfo(tbl TableInfo) ([]PrimaryKeyInfo, error) {
	var rows []PrimaryKeyInfo
	err := cat.scopedCursor(func(stmt *Statement) error {
		ret := execSQLPrimaryKeys(stmt.core.raw(), tbl.Catalog, tbl.Schema, tbl.Name)
		if ret.IsError() {
			return odbcerr.NewSqlResult("SQLPrimaryKeys", cli.HandleStmt, stmt.core.raw(), ret)
		}
		return fetchAll(stmt, func(get colGetter) error {
			var pk PrimaryKeyInfo
			pk.TableName = get.str(3)
			pk.ColumnName = get.str(4)
			pk.KeySeq = get.int16(5)
			pk.PKName = get.str(6)
			rows = append(rows, pk)
			return get.err
		})
	})
	return rows, err
}

// TablePrivileges performs SQLTablePrivileges.
func (cat *Catalog) TablePrivileges(tbl TableInfo) ([]PrivilegeInfo, error) {
	var rows []PrivilegeInfo
	err := cat.scopedCursor(func(stmt *Statement) error {
		ret := execSQLTablePrivileges(stmt.core.raw(), tbl.Catalog, tbl.Schema, tbl.Name)
		if ret.IsError() {
			return odbcerr.NewSqlResult("SQLTablePrivileges", cli.HandleStmt, stmt.core.raw(), ret)
		}
		return fetchAll(stmt, func(get colGetter) error {
			var p PrivilegeInfo
			p.TableName = get.str(3)
			p.Grantor = get.str(4)
			p.Grantee = get.str(5)
			p.Privilege = sqltype.Privilege(get.str(6))
			p.ColumnName = ""
			p.Grantable = get.str(7) == "YES"
			rows = append(rows, p)
			return get.err
		})
	})
	return rows, err
}

// RowIdentifierColumns performs SQLSpecialColumns(SQL_BEST_ROWID), used
// by Table.Open as a primary-key-discovery fallback when SQLPrimaryKeys
// itself reports HYC00 — recovered from exOdbc's Database.cpp, SPEC_FULL
// §4.
func (cat *Catalog) RowIdentifierColumns(tbl TableInfo) ([]string, error) {
	var names []string
	err := cat.scopedCursor(func(stmt *Statement) error {
		ret := execSQLSpecialColumns(stmt.core.raw(), tbl.Catalog, tbl.Schema, tbl.Name)
		if ret.IsError() {
			return odbcerr.NewSqlResult("SQLSpecialColumns", cli.HandleStmt, stmt.core.raw(), ret)
		}
		return fetchAll(stmt, func(get colGetter) error {
			names = append(names, get.str(2))
			return get.err
		})
	})
	return names, err
}

// ReadCatalogs, ReadSchemas and ReadTableTypes are the thin catalog
// queries recovered from exOdbc's Database.cpp (SPEC_FULL §4): each runs
// one SQLTables call and returns the distinct non-empty values of the
// catalog, schema or table-type column. ReadCatalogs passes "%" as the
// catalog name, ReadSchemas passes "%" as the schema pattern, and
// ReadTableTypes lists all tables with no filter and collects their types.
func (cat *Catalog) ReadCatalogs() ([]string, error) {
	rows, err := cat.Tables("%", Any, Exact(""), "")
	if err != nil {
		return nil, err
	}
	return distinctNonEmpty(rows, func(t TableInfo) string { return t.Catalog }), nil
}

func (cat *Catalog) ReadSchemas() ([]string, error) {
	rows, err := cat.Tables("", Exact("%"), Exact(""), "")
	if err != nil {
		return nil, err
	}
	return distinctNonEmpty(rows, func(t TableInfo) string { return t.Schema }), nil
}

func (cat *Catalog) ReadTableTypes() ([]string, error) {
	rows, err := cat.Tables("", Any, Any, "")
	if err != nil {
		return nil, err
	}
	return distinctNonEmpty(rows, func(t TableInfo) string { return t.Type }), nil
}

func distinctNonEmpty(rows []TableInfo, pick func(TableInfo) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		v := pick(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// readTypeInfo performs spec §4.4 step 10: the full SQLGetTypeInfo list.
func (c *Connection) readTypeInfo() error {
	stmt := c.catalogStmt
	if err := stmt.resetCursor(); err != nil {
		return err
	}
	defer stmt.resetCursor() //nolint:errcheck
	const allTypes = 0 // SQL_ALL_TYPES
	if ret := execSQLGetTypeInfo(stmt.core.raw(), allTypes); ret.IsError() {
		return odbcerr.NewSqlResult("SQLGetTypeInfo", cli.HandleStmt, stmt.core.raw(), ret)
	}
	var types []sqltype.SqlTypeInfo
	err := fetchAll(stmt, func(get colGetter) error {
		var t sqltype.SqlTypeInfo
		t.TypeName = get.str(1)
		t.SQLType = cli.SQLType(get.int16(2))
		t.ColumnSize = uint64(get.int32(3))
		t.LiteralPrefix = get.str(4)
		t.LiteralSuffix = get.str(5)
		t.CreateParams = get.str(6)
		t.Nullable = get.int16(7)
		t.CaseSensitive = get.int16(8) == 1
		t.Searchable = get.int16(9)
		t.UnsignedAttribute = get.int16(10) == 1
		t.FixedPrecScale = get.int16(11) == 1
		t.AutoUniqueValue = get.int16(12) == 1
		t.LocalTypeName = get.str(13)
		t.MinimumScale = get.int16(14)
		t.MaximumScale = get.int16(15)
		types = append(types, t)
		return get.err
	})
	if err != nil {
		return err
	}
	c.typeInfo = types
	return nil
}

// TypeInfo looks up a single SQL type in the cached list, falling back
// to a direct SQLGetTypeInfo(sqlType) call the way exOdbc's Database.cpp
// does when building a column buffer for a type the bulk call omitted
// (SPEC_FULL §4).
func (cat *Catalog) TypeInfo(sqlType cli.SQLType) (sqltype.SqlTypeInfo, bool, error) {
	for _, t := range cat.c.typeInfo {
		if t.SQLType == sqlType {
			return t, true, nil
		}
	}
	stmt := cat.c.catalogStmt
	if err := stmt.resetCursor(); err != nil {
		return sqltype.SqlTypeInfo{}, false, err
	}
	defer stmt.resetCursor() //nolint:errcheck
	if ret := execSQLGetTypeInfo(stmt.core.raw(), int16(sqlType)); ret.IsError() {
		return sqltype.SqlTypeInfo{}, false, odbcerr.NewSqlResult("SQLGetTypeInfo", cli.HandleStmt, stmt.core.raw(), ret)
	}
	var found sqltype.SqlTypeInfo
	ok := false
	err := fetchAll(stmt, func(get colGetter) error {
		found.TypeName = get.str(1)
		found.SQLType = cli.SQLType(get.int16(2))
		found.ColumnSize = uint64(get.int32(3))
		ok = true
		return get.err
	})
	return found, ok, err
}
