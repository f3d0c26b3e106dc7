package odbc

import (
	"encoding/binary"

	"github.com/lib/odbc/cli"
	"github.com/lib/odbc/odbcerr"
	"github.com/lib/odbc/sqltype"
	"github.com/lib/odbc/utfconv"
)

// ByteArrayKind distinguishes the three textual/binary ByteArray flavors
// (spec §4.3: CHAR/VARCHAR, WCHAR/WVARCHAR, BINARY/VARBINARY).
type ByteArrayKind int

const (
	ByteArrayChar ByteArrayKind = iota
	ByteArrayWChar
	ByteArrayBinary
)

// ByteArray is the variable-length ColumnBuffer variant: a fixed-capacity
// byte buffer the driver writes a narrow string, wide string, or raw
// binary value into, bounded by the column's reported size. Grounded on
// exOdbc's SqlCBuffer<SQLCHAR*>/SqlCBuffer<SQLWCHAR*>/SqlCBuffer<SQLCHAR*>
// (binary) (original_source), collapsed into one Go type parameterized by
// ByteArrayKind rather than three near-duplicate generated types.
type ByteArray struct {
	bufferCore
	kind sqltype.BufferKind
	akind ByteArrayKind
	raw  []byte
}

// NewByteArray allocates a ByteArray sized to hold capacity elements of
// kind (bytes for Char/Binary, UTF-16 code units for WChar), plus the NUL
// terminator textual kinds need.
func NewByteArray(queryName string, akind ByteArrayKind, capacity int) *ByteArray {
	b := &ByteArray{bufferCore: bufferCore{queryName: queryName}, akind: akind}
	switch akind {
	case ByteArrayChar:
		b.kind = sqltype.KindCharArray
		b.raw = make([]byte, capacity+1)
	case ByteArrayWChar:
		b.kind = sqltype.KindWCharArray
		b.raw = make([]byte, (capacity+1)*2)
	default:
		b.kind = sqltype.KindBinaryArray
		b.raw = make([]byte, capacity)
	}
	return b
}

func (b *ByteArray) Kind() sqltype.BufferKind { return b.kind }
func (b *ByteArray) bytes() []byte            { return b.raw }

func (b *ByteArray) ctype() cli.CType {
	switch b.akind {
	case ByteArrayChar:
		return cli.CChar
	case ByteArrayWChar:
		return cli.CWChar
	default:
		return cli.CBinary
	}
}

// String decodes the buffer as text (Char or WChar kinds), using the
// indicator cell to find the actual length rather than scanning for NUL —
// SQLGetData/SQLBindCol may leave trailing garbage past a short value.
func (b *ByteArray) String() (string, error) {
	if b.IsNull() {
		return "", &odbcerr.NullValueError{QueryName: b.queryName}
	}
	n := int(b.indicatorV)
	if n < 0 {
		n = 0
	}
	switch b.akind {
	case ByteArrayChar:
		if n > len(b.raw) {
			n = len(b.raw)
		}
		return string(b.raw[:n]), nil
	case ByteArrayWChar:
		if n > len(b.raw) {
			n = len(b.raw)
		}
		wchars := make([]uint16, n/2)
		for i := range wchars {
			wchars[i] = binary.LittleEndian.Uint16(b.raw[i*2:])
		}
		s, err := utfconv.FromUTF16(wchars)
		if err != nil {
			return "", odbcerr.NewConversion(utfconv.UTF16ToUTF8.String(), err)
		}
		return s, nil
	default:
		return "", &odbcerr.IllegalArgumentError{Message: "ByteArray.String called on a binary buffer"}
	}
}

// Bytes returns the raw bound bytes (Binary kind), truncated to the
// indicator's reported length.
func (b *ByteArray) Bytes() ([]byte, error) {
	if b.IsNull() {
		return nil, &odbcerr.NullValueError{QueryName: b.queryName}
	}
	n := int(b.indicatorV)
	if n > len(b.raw) {
		n = len(b.raw)
	}
	return b.raw[:n], nil
}

// SetString encodes s into the buffer for the next bind_parameter
// execution, failing if s does not fit the allocated capacity.
func (b *ByteArray) SetString(s string) error {
	switch b.akind {
	case ByteArrayChar:
		if len(s) > len(b.raw)-1 {
			return &odbcerr.IllegalArgumentError{Message: "value exceeds ByteArray capacity"}
		}
		copy(b.raw, s)
		b.indicatorV = int64(len(s))
		return nil
	case ByteArrayWChar:
		wide, err := utfconv.ToUTF16(s)
		if err != nil {
			return odbcerr.NewConversion(utfconv.UTF8ToUTF16.String(), err)
		}
		wide = wide[:len(wide)-1] // drop NUL terminator added by ToUTF16; indicator carries length
		if len(wide)*2 > len(b.raw)-2 {
			return &odbcerr.IllegalArgumentError{Message: "value exceeds ByteArray capacity"}
		}
		for i, w := range wide {
			binary.LittleEndian.PutUint16(b.raw[i*2:], w)
		}
		b.indicatorV = int64(len(wide) * 2)
		return nil
	default:
		return &odbcerr.IllegalArgumentError{Message: "SetString called on a binary buffer"}
	}
}

// SetBytes encodes raw binary data for the next bind_parameter execution.
func (b *ByteArray) SetBytes(v []byte) error {
	if b.akind != ByteArrayBinary {
		return &odbcerr.IllegalArgumentError{Message: "SetBytes called on a textual buffer"}
	}
	if len(v) > len(b.raw) {
		return &odbcerr.IllegalArgumentError{Message: "value exceeds ByteArray capacity"}
	}
	copy(b.raw, v)
	b.indicatorV = int64(len(v))
	return nil
}

func (b *ByteArray) SetNull() { b.indicatorV = cli.NullData }
