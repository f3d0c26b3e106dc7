package odbc

import (
	"testing"

	"github.com/lib/odbc/sqltype"
)

func TestAccessFlagsHas(t *testing.T) {
	f := SelectPk | Insert | CountWhere
	if !f.has(SelectPk) || !f.has(Insert) || !f.has(CountWhere) {
		t.Error("expected all three set bits to report has == true")
	}
	if f.has(UpdatePk) || f.has(DeleteWhere) {
		t.Error("expected unset bits to report has == false")
	}
}

func TestOpenFlagsHas(t *testing.T) {
	f := ForwardOnlyCursors | SkipUnsupportedColumns
	if !f.has(ForwardOnlyCursors) || !f.has(SkipUnsupportedColumns) {
		t.Error("expected set bits to report has == true")
	}
	if f.has(CheckExistence) || f.has(IgnoreDbTypeInfos) {
		t.Error("expected unset bits to report has == false")
	}
}

func columnFixture(name string, flags sqltype.ColumnFlags) boundColumn {
	return boundColumn{info: ColumnInfo{ColumnName: name}, flags: flags}
}

func TestTableColumnFilters(t *testing.T) {
	tbl := &Table{columns: []boundColumn{
		columnFixture("id", sqltype.PrimaryKey|sqltype.Select),
		columnFixture("name", sqltype.Select|sqltype.Update|sqltype.Insert),
		columnFixture("created_at", sqltype.Select|sqltype.Insert),
		columnFixture("internal_flag", 0),
	}}

	pks := tbl.pkColumns()
	if len(pks) != 1 || pks[0].info.ColumnName != "id" {
		t.Errorf("pkColumns: have %v", pks)
	}

	upd := tbl.updateColumns()
	if len(upd) != 1 || upd[0].info.ColumnName != "name" {
		t.Errorf("updateColumns: have %v", upd)
	}

	ins := tbl.insertColumns()
	if len(ins) != 2 {
		t.Errorf("insertColumns: have %d, want 2", len(ins))
	}

	sel := tbl.selectColumns()
	if len(sel) != 3 {
		t.Errorf("selectColumns: have %d, want 3", len(sel))
	}
}

func TestTableUpdateColumnsExcludesPrimaryKey(t *testing.T) {
	tbl := &Table{columns: []boundColumn{
		columnFixture("id", sqltype.PrimaryKey|sqltype.Update),
		columnFixture("name", sqltype.Update),
	}}
	upd := tbl.updateColumns()
	if len(upd) != 1 || upd[0].info.ColumnName != "name" {
		t.Errorf("expected primary-key column excluded from update set, have %v", upd)
	}
}

func TestCrossCheckFlagsRejectsUnauthorizedUpdate(t *testing.T) {
	tbl := &Table{
		access:  SelectWhere,
		columns: []boundColumn{columnFixture("name", sqltype.Update)},
	}
	if err := tbl.crossCheckFlags(); err == nil {
		t.Fatal("expected an error for an Update-flagged column without UpdatePk/UpdateWhere access")
	}
}

func TestCrossCheckFlagsAcceptsConsistentFlags(t *testing.T) {
	tbl := &Table{
		access: SelectWhere | UpdateWhere | Insert,
		columns: []boundColumn{
			columnFixture("id", sqltype.Select),
			columnFixture("name", sqltype.Select|sqltype.Update|sqltype.Insert),
		},
	}
	if err := tbl.crossCheckFlags(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSwallowNoData(t *testing.T) {
	if err := swallowNoData(nil, false); err != nil {
		t.Errorf("nil error should stay nil, got %v", err)
	}
}
