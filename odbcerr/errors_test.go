package odbcerr

import (
	"testing"

	"github.com/lib/odbc/cli"
)

func TestSqlResultErrorIsNoData(t *testing.T) {
	e := &SqlResultError{Func: "SQLFetch", Return: cli.NoData}
	if !e.IsNoData() {
		t.Error("expected IsNoData true")
	}
}

func TestSqlResultErrorHasState(t *testing.T) {
	e := &SqlResultError{
		Func: "SQLPrimaryKeys",
		Records: []DiagnosticRecord{
			{State: "01000", Message: "warning"},
			{State: HYC00, Message: "optional feature not implemented"},
		},
	}
	if !e.HasState(HYC00) {
		t.Error("expected HasState(HYC00) true")
	}
	if e.HasState("HY000") {
		t.Error("expected HasState(HY000) false")
	}
}

func TestDiagnosticRecordClass(t *testing.T) {
	d := DiagnosticRecord{State: "HYC00"}
	if d.Class() != "HY" {
		t.Errorf("have %q, want %q", d.Class(), "HY")
	}
}

func TestAssertionErrorMessage(t *testing.T) {
	err := NewAssertion("at least one primary key", "Table requires a PrimaryKey column")
	if err.Error() == "" {
		t.Error("expected non-empty error message")
	}
}

func TestNotFoundErrorDistinguishesNotOne(t *testing.T) {
	notFound := &NotFoundError{What: "table x"}
	notOne := &NotFoundError{What: "table x", NotOne: true}
	if notFound.Error() == notOne.Error() {
		t.Error("expected distinct messages for not-found vs not-unique")
	}
}
