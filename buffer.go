package odbc

import (
	"github.com/lib/odbc/cli"
	"github.com/lib/odbc/odbcerr"
	"github.com/lib/odbc/sqltype"
)

// ColumnBuffer is the polymorphic tagged-variant buffer spec §4.3/§9
// describes: a host-memory cell bound either as a result-column receiver
// (bind_select) or as a parameter marker (bind_parameter), carrying its
// own length/indicator cell. Every concrete variant (FixedScalar[T],
// ByteArray, NumericBuffer, DateTimeBuffer) implements this.
//
// Grounded on exOdbc's SqlCBuffer<T> hierarchy (original_source), adapted
// to Go generics for the fixed-width scalar case instead of the
// original's template specialization, and to a closed set of concrete
// struct types (rather than one fully generic type) for the variable and
// structured kinds.
type ColumnBuffer interface {
	// Kind identifies which concrete variant this is.
	Kind() sqltype.BufferKind
	// QueryName is the column or parameter name this buffer was bound
	// for, used in NullValueError messages.
	QueryName() string
	// IsNull reports whether the most recently fetched/bound value is
	// SQL NULL.
	IsNull() bool
	// ctype is the CLI C-type this buffer presents for bind/get-data.
	ctype() cli.CType
	// bytes is the raw buffer SQLBindCol/SQLBindParameter/SQLGetData
	// writes into or reads from.
	bytes() []byte
	// indicator is the length/indicator cell CLI calls populate.
	indicator() *int64
}

// bufferCore holds the fields every variant shares: the query name,
// the length/indicator cell, and the statement binding id used to
// unregister from the statement on teardown (spec §4.2's bidirectional
// notification).
type bufferCore struct {
	queryName  string
	indicatorV int64
	stmt       *Statement
	bindingID  int
	bound      bool
}

func (b *bufferCore) QueryName() string { return b.queryName }
func (b *bufferCore) IsNull() bool      { return b.indicatorV == cli.NullData }
func (b *bufferCore) indicator() *int64 { return &b.indicatorV }

// onStatementFreed implements statementFreedObserver: once the owning
// Statement is freed, this buffer has nothing left to unbind from.
func (b *bufferCore) onStatementFreed(s *Statement) {
	b.bound = false
	b.stmt = nil
}

// setBound records which statement and binding id this buffer was
// registered under, the other half of the bidirectional notification.
func (b *bufferCore) setBound(s *Statement, id int) {
	b.stmt = s
	b.bindingID = id
	b.bound = true
}

// unbindSelf, if currently bound, notifies the statement it no longer
// needs to track this buffer (the other half of the bidirectional
// notification spec §4.2 describes).
func (b *bufferCore) unbindSelf() {
	if b.bound && b.stmt != nil {
		b.stmt.unregisterBinding(b.bindingID)
	}
	b.bound = false
}

// scalarKind constrains FixedScalar's type parameter to the fixed-width
// numeric kinds the core binds directly as Go values.
type scalarKind interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// FixedScalar is the fixed-width numeric ColumnBuffer variant (spec §4.3:
// "plain machine scalar, no conversion needed beyond endianness"), one Go
// generic type standing in for exOdbc's SqlCBuffer<SQLINTEGER>,
// SqlCBuffer<SQLDOUBLE>, etc.
type FixedScalar[T scalarKind] struct {
	bufferCore
	kind  sqltype.BufferKind
	ct    cli.CType
	value T
	raw   []byte
}

func newFixedScalar[T scalarKind](queryName string, kind sqltype.BufferKind, ct cli.CType) *FixedScalar[T] {
	var zero T
	return &FixedScalar[T]{
		bufferCore: bufferCore{queryName: queryName},
		kind:       kind,
		ct:         ct,
		raw:        make([]byte, scalarWidth(zero)),
	}
}

func scalarWidth(v any) int {
	switch v.(type) {
	case int8:
		return 1
	case int16:
		return 2
	case int32, float32:
		return 4
	case int64, uint64, float64:
		return 8
	default:
		return 8
	}
}

func (b *FixedScalar[T]) Kind() sqltype.BufferKind { return b.kind }
func (b *FixedScalar[T]) ctype() cli.CType         { return b.ct }
func (b *FixedScalar[T]) bytes() []byte            { return b.raw }

// Value returns the bound value, or an error if the column is NULL
// (spec §7's NullValueError — callers that expect NULL-able data should
// check IsNull first).
func (b *FixedScalar[T]) Value() (T, error) {
	if b.IsNull() {
		var zero T
		return zero, &odbcerr.NullValueError{QueryName: b.queryName}
	}
	return decodeScalar[T](b.raw), nil
}

// Set stores v for the next bind_parameter execution.
func (b *FixedScalar[T]) Set(v T) {
	b.value = v
	b.indicatorV = int64(scalarWidth(v))
	encodeScalar(b.raw, v)
}

// SetNull marks this parameter buffer as SQL NULL for the next execution.
func (b *FixedScalar[T]) SetNull() { b.indicatorV = cli.NullData }

// OpaquePointer is the escape hatch variant (spec §4.3) for a driver/host
// type the core has no dedicated kind for: the caller supplies the raw
// buffer and C type directly. Grounded on exOdbc's SqlCBuffer<SQLPOINTER>
// used for driver-specific structures.
type OpaquePointer struct {
	bufferCore
	ct  cli.CType
	raw []byte
}

// NewOpaquePointer builds a buffer of size bytes presented to the CLI as
// ctype, for cases sqltype.Sql2BufferTypeMap has no opinion on.
func NewOpaquePointer(queryName string, ctype cli.CType, size int) *OpaquePointer {
	return &OpaquePointer{bufferCore: bufferCore{queryName: queryName}, ct: ctype, raw: make([]byte, size)}
}

func (b *OpaquePointer) Kind() sqltype.BufferKind { return sqltype.KindBinaryArray }
func (b *OpaquePointer) ctype() cli.CType         { return b.ct }
func (b *OpaquePointer) bytes() []byte            { return b.raw }

// Bytes returns the raw buffer contents for the caller to interpret.
func (b *OpaquePointer) Bytes() []byte { return b.raw }
