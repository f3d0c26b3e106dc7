// Package sqltype holds the value types and the Sql2BufferTypeMap policy
// spec §4.3/§4.4/§9 describe as an injected collaborator: the mapping from
// a driver-reported SQL type to the host C-type the core prefers to bind.
// The core consumes a Sql2BufferTypeMap; it does not hard-code one (spec
// §1), though a default is provided for the common case (spec §4.4 step 6).
package sqltype

import "github.com/lib/odbc/cli"

// ColumnFlags is the bitset spec §3 names: how a column participates in
// generated statements.
type ColumnFlags uint8

const (
	Select ColumnFlags = 1 << iota
	Update
	Insert
	Nullable
	PrimaryKey
)

func (f ColumnFlags) Has(bit ColumnFlags) bool { return f&bit != 0 }

func (f ColumnFlags) String() string {
	names := []struct {
		bit  ColumnFlags
		name string
	}{
		{Select, "Select"}, {Update, "Update"}, {Insert, "Insert"},
		{Nullable, "Nullable"}, {PrimaryKey, "PrimaryKey"},
	}
	s := ""
	for _, n := range names {
		if f.Has(n.bit) {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "(none)"
	}
	return s
}

// ColumnProperties is {sqlType, columnSize, decimalDigits, nullable},
// required for NUMERIC binding and for parameter binding against drivers
// that cannot describe parameters (spec §3, §4.3). Nullable reflects
// whether the caller's buffer is flagged Nullable for this column; it is
// compared against the driver-reported parameter nullability at bind
// time, not forwarded to the CLI itself.
type ColumnProperties struct {
	SQLType       cli.SQLType
	ColumnSize    uint64
	DecimalDigits int16
	Nullable      bool
}

// SqlTypeInfo is one row of the catalog's SQLGetTypeInfo(SQL_ALL_TYPES)
// result, spec §4.4 step 10.
type SqlTypeInfo struct {
	TypeName          string
	SQLType           cli.SQLType
	ColumnSize        uint64
	LiteralPrefix     string
	LiteralSuffix     string
	CreateParams      string
	Nullable          int16
	CaseSensitive     bool
	Searchable        int16
	UnsignedAttribute bool
	FixedPrecScale    bool
	AutoUniqueValue   bool
	LocalTypeName     string
	MinimumScale      int16
	MaximumScale      int16
}

// Privilege is the table-privilege enumeration recovered from
// original_source/branches/sqlCBuffer/exOdbc/include/TablePrivileges.h —
// SPEC_FULL §4 adds this typed enum alongside the PrivilegeInfo value
// type spec.md §3 already names.
type Privilege string

const (
	PrivilegeSelect     Privilege = "SELECT"
	PrivilegeInsert     Privilege = "INSERT"
	PrivilegeUpdate     Privilege = "UPDATE"
	PrivilegeDelete     Privilege = "DELETE"
	PrivilegeReferences Privilege = "REFERENCES"
)

// BufferKind names which ColumnBuffer variant a Sql2BufferTypeMap should
// instantiate for a given SQL type (spec §4.3 / §9 "polymorphic buffer via
// a tagged sum").
type BufferKind int

const (
	KindFixedInt8 BufferKind = iota
	KindFixedInt16
	KindFixedInt32
	KindFixedInt64
	KindFixedUint64
	KindFixedFloat32
	KindFixedFloat64
	KindFixedBit
	KindDateTime
	KindDate
	KindTime
	KindNumeric
	KindCharArray
	KindWCharArray
	KindBinaryArray
)

// Sql2BufferTypeMap maps a driver SQL type to the BufferKind the core
// should bind it as. The core consumes an instance of this interface; it
// never hard-codes the mapping (spec §1).
type Sql2BufferTypeMap interface {
	// BufferKindFor returns the BufferKind for sqlType/columnSize/decimalDigits,
	// or ok=false if this map has no opinion (caller then fails or skips
	// the column per spec §4.5 step 5's SkipUnsupportedColumns).
	BufferKindFor(sqlType cli.SQLType, columnSize uint64, decimalDigits int16) (kind BufferKind, ok bool)
}

// defaultMap is installed when Database.Open receives no injected
// Sql2BufferTypeMap, keyed to the effective ODBC version per spec §4.4
// step 6.
type defaultMap struct {
	odbcVersion int
}

// NewDefaultMap builds the default Sql2BufferTypeMap for the given
// effective ODBC version (2 or 3).
func NewDefaultMap(odbcVersion int) Sql2BufferTypeMap {
	return &defaultMap{odbcVersion: odbcVersion}
}

func (m *defaultMap) BufferKindFor(sqlType cli.SQLType, columnSize uint64, decimalDigits int16) (BufferKind, bool) {
	switch sqlType {
	case cli.SQLBit:
		return KindFixedBit, true
	case cli.SQLTinyInt, cli.SQLSmallInt:
		return KindFixedInt16, true
	case cli.SQLInteger:
		return KindFixedInt32, true
	case cli.SQLBigInt:
		return KindFixedInt64, true
	case cli.SQLRealT:
		return KindFixedFloat32, true
	case cli.SQLFloat, cli.SQLDouble:
		return KindFixedFloat64, true
	case cli.SQLNumeric, cli.SQLDecimal:
		return KindNumeric, true
	case cli.SQLTypeDate:
		return KindDate, true
	case cli.SQLTypeTime:
		return KindTime, true
	case cli.SQLTypeTimestamp:
		return KindDateTime, true
	case cli.SQLChar, cli.SQLVarchar, cli.SQLLongVarchar:
		return KindCharArray, true
	case cli.SQLWChar, cli.SQLWVarchar, cli.SQLWLongVarchar:
		return KindWCharArray, true
	case cli.SQLBinary, cli.SQLVarbinary, cli.SQLLongVarbinary:
		return KindBinaryArray, true
	default:
		return 0, false
	}
}
