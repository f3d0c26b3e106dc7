package odbcerr

import (
	"fmt"

	"github.com/lib/odbc/cli"
	pkgerrors "github.com/pkg/errors"
)

// SqlResultError is the "the CLI returned a non-success code" kind from
// spec §7: it carries the failing CLI function name, the raw Return, and
// the full diagnostic record vector extracted from the handle involved.
//
// Modeled on the teacher's *pq.Error: one struct, one dominant field
// (there: Code ErrorCode; here: Return plus []DiagnosticRecord), with a
// predicate method analogous to the teacher's Error.Fatal().
type SqlResultError struct {
	Func    string
	Return  cli.Return
	Records []DiagnosticRecord
}

func (e *SqlResultError) Error() string {
	if len(e.Records) == 0 {
		return fmt.Sprintf("odbc: %s returned %s", e.Func, e.Return)
	}
	return fmt.Sprintf("odbc: %s returned %s: %s", e.Func, e.Return, e.Records[0])
}

// IsNoData reports whether this result is the CLI's "no more rows / row
// not found" signal rather than a true error — spec §7 requires callers be
// able to tell these apart.
func (e *SqlResultError) IsNoData() bool {
	return e.Return == cli.NoData
}

// HasState reports whether any diagnostic record carries the given
// five-character SQLSTATE (e.g. HYC00).
func (e *SqlResultError) HasState(state string) bool {
	return HasState(e.Records, state)
}

// NewSqlResult builds a SqlResultError from a just-failed call, extracting
// diagnostics from handle. Call sites use this uniformly, same role as the
// teacher's errorf/handleError funnel for every non-success wire response.
func NewSqlResult(fn string, typ cli.HandleType, handle cli.Handle, ret cli.Return) *SqlResultError {
	return &SqlResultError{
		Func:    fn,
		Return:  ret,
		Records: ExtractDiagnostics(typ, handle),
	}
}

// AssertionError is a failed precondition — "handle not allocated",
// "NUMERIC buffer missing columnSize" — carrying the usual source
// location via github.com/pkg/errors rather than hand-rolled file/line
// bookkeeping.
type AssertionError struct {
	Condition string
	Message   string
	cause     error
}

func (e *AssertionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("odbc: assertion failed (%s): %s", e.Condition, e.Message)
	}
	return fmt.Sprintf("odbc: assertion failed: %s", e.Condition)
}

func (e *AssertionError) Unwrap() error { return e.cause }

// NewAssertion builds an AssertionError with a stack trace attached at the
// call site, the idiomatic-Go stand-in for exOdbc's AssertionException
// (original_source/branches/exOdbc_cMake/include/exodbc/AssertionException.h).
func NewAssertion(condition, message string) error {
	return pkgerrors.WithStack(&AssertionError{Condition: condition, Message: message})
}

// NotSupportedError — a SQL type or C type was encountered for which no
// ColumnBuffer variant exists.
type NotSupportedError struct {
	Kind  string // "sql type" or "buffer kind"
	Value int
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("odbc: unsupported %s %d", e.Kind, e.Value)
}

// ConversionError — a UTF conversion between the core's UTF-8 boundary and
// the CLI's UTF-16 wide calls failed.
type ConversionError struct {
	Direction string
	cause     error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("odbc: %s conversion failed: %v", e.Direction, e.cause)
}

func (e *ConversionError) Unwrap() error { return e.cause }

// NewConversion wraps a utfconv failure with its direction.
func NewConversion(direction string, cause error) error {
	return pkgerrors.WithStack(&ConversionError{Direction: direction, cause: cause})
}

// NullValueError — caller asked for a non-optional value from a buffer
// whose length indicator says NULL; carries the column's query name so
// the caller can tell which bound column misbehaved.
type NullValueError struct {
	QueryName string
}

func (e *NullValueError) Error() string {
	return fmt.Sprintf("odbc: column %q is NULL", e.QueryName)
}

// NotFoundError — a catalog lookup (FindOneTable, ...) found no row, or
// found more than one when exactly one was required.
type NotFoundError struct {
	What   string
	NotOne bool // true means "not unique" rather than "not found"
}

func (e *NotFoundError) Error() string {
	if e.NotOne {
		return fmt.Sprintf("odbc: %s: more than one match", e.What)
	}
	return fmt.Sprintf("odbc: %s: not found", e.What)
}

// IllegalArgumentError is the catch-all for client-side programming
// errors not covered by the more specific kinds above.
type IllegalArgumentError struct {
	Message string
}

func (e *IllegalArgumentError) Error() string {
	return "odbc: illegal argument: " + e.Message
}
