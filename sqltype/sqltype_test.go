package sqltype

import (
	"testing"

	"github.com/lib/odbc/cli"
)

func TestDefaultMapBufferKindFor(t *testing.T) {
	m := NewDefaultMap(3)
	tests := []struct {
		sqlType cli.SQLType
		want    BufferKind
	}{
		{cli.SQLInteger, KindFixedInt32},
		{cli.SQLBigInt, KindFixedInt64},
		{cli.SQLDouble, KindFixedFloat64},
		{cli.SQLNumeric, KindNumeric},
		{cli.SQLDecimal, KindNumeric},
		{cli.SQLTypeTimestamp, KindDateTime},
		{cli.SQLVarchar, KindCharArray},
		{cli.SQLWVarchar, KindWCharArray},
		{cli.SQLVarbinary, KindBinaryArray},
	}
	for _, tt := range tests {
		kind, ok := m.BufferKindFor(tt.sqlType, 0, 0)
		if !ok {
			t.Errorf("sqlType %v: expected a mapped kind", tt.sqlType)
			continue
		}
		if kind != tt.want {
			t.Errorf("sqlType %v: have %v, want %v", tt.sqlType, kind, tt.want)
		}
	}
}

func TestDefaultMapUnmappedType(t *testing.T) {
	m := NewDefaultMap(3)
	if _, ok := m.BufferKindFor(cli.SQLType(9999), 0, 0); ok {
		t.Error("expected no mapping for an unrecognised SQL type")
	}
}

func TestColumnFlagsString(t *testing.T) {
	f := Select | PrimaryKey
	s := f.String()
	if s == "" || s == "(none)" {
		t.Errorf("have %q", s)
	}
}

func TestColumnFlagsStringEmpty(t *testing.T) {
	var f ColumnFlags
	if f.String() != "(none)" {
		t.Errorf("have %q, want (none)", f.String())
	}
}
