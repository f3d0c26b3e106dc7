package odbc

import (
	"encoding/binary"
	"time"

	"github.com/lib/odbc/cli"
	"github.com/lib/odbc/odbcerr"
	"github.com/lib/odbc/sqltype"
)

// DateTimeBuffer is the ColumnBuffer variant for SQL_TYPE_DATE,
// SQL_TYPE_TIME and SQL_TYPE_TIMESTAMP, binding the CLI's fixed C struct
// layout directly (SQL_DATE_STRUCT: 6 bytes; SQL_TIME_STRUCT: 6 bytes;
// SQL_TIMESTAMP_STRUCT: 16 bytes, all little-endian on every platform
// this core targets). Grounded on exOdbc's SqlCBuffer<SQL_TIMESTAMP_STRUCT>
// et al. (original_source), collapsed into one struct parameterized by
// DateTimeKind rather than three near-duplicate types.
type DateTimeBuffer struct {
	bufferCore
	dkind DateTimeKind
	raw   []byte
}

// DateTimeKind selects which of the three struct layouts this buffer
// presents.
type DateTimeKind int

const (
	DateTimeDate DateTimeKind = iota
	DateTimeTime
	DateTimeTimestamp
)

// NewDateTimeBuffer allocates a buffer for the given kind.
func NewDateTimeBuffer(queryName string, kind DateTimeKind) *DateTimeBuffer {
	size := 16
	switch kind {
	case DateTimeDate, DateTimeTime:
		size = 6
	}
	return &DateTimeBuffer{bufferCore: bufferCore{queryName: queryName}, dkind: kind, raw: make([]byte, size)}
}

func (b *DateTimeBuffer) Kind() sqltype.BufferKind {
	switch b.dkind {
	case DateTimeDate:
		return sqltype.KindDate
	case DateTimeTime:
		return sqltype.KindTime
	default:
		return sqltype.KindDateTime
	}
}

func (b *DateTimeBuffer) bytes() []byte { return b.raw }

func (b *DateTimeBuffer) ctype() cli.CType {
	switch b.dkind {
	case DateTimeDate:
		return cli.CTypeDate
	case DateTimeTime:
		return cli.CTypeTime
	default:
		return cli.CTypeTimestamp
	}
}

// Time decodes the bound struct into a time.Time in UTC (ODBC date/time
// types carry no timezone; the core treats them as wall-clock values,
// same convention as the teacher's time_parse.go did for Postgres
// timestamps without a zone).
func (b *DateTimeBuffer) Time() (time.Time, error) {
	if b.IsNull() {
		return time.Time{}, &odbcerr.NullValueError{QueryName: b.queryName}
	}
	switch b.dkind {
	case DateTimeDate:
		y := int(int16(binary.LittleEndian.Uint16(b.raw[0:])))
		mo := int(binary.LittleEndian.Uint16(b.raw[2:]))
		d := int(binary.LittleEndian.Uint16(b.raw[4:]))
		return time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC), nil
	case DateTimeTime:
		h := int(binary.LittleEndian.Uint16(b.raw[0:]))
		mi := int(binary.LittleEndian.Uint16(b.raw[2:]))
		s := int(binary.LittleEndian.Uint16(b.raw[4:]))
		return time.Date(0, 1, 1, h, mi, s, 0, time.UTC), nil
	default:
		y := int(int16(binary.LittleEndian.Uint16(b.raw[0:])))
		mo := int(binary.LittleEndian.Uint16(b.raw[2:]))
		d := int(binary.LittleEndian.Uint16(b.raw[4:]))
		h := int(binary.LittleEndian.Uint16(b.raw[6:]))
		mi := int(binary.LittleEndian.Uint16(b.raw[8:]))
		s := int(binary.LittleEndian.Uint16(b.raw[10:]))
		frac := binary.LittleEndian.Uint32(b.raw[12:])
		return time.Date(y, time.Month(mo), d, h, mi, s, int(frac), time.UTC), nil
	}
}

// SetTime encodes t into the bound struct for the next bind_parameter
// execution.
func (b *DateTimeBuffer) SetTime(t time.Time) {
	t = t.UTC()
	switch b.dkind {
	case DateTimeDate:
		binary.LittleEndian.PutUint16(b.raw[0:], uint16(int16(t.Year())))
		binary.LittleEndian.PutUint16(b.raw[2:], uint16(t.Month()))
		binary.LittleEndian.PutUint16(b.raw[4:], uint16(t.Day()))
		b.indicatorV = 6
	case DateTimeTime:
		binary.LittleEndian.PutUint16(b.raw[0:], uint16(t.Hour()))
		binary.LittleEndian.PutUint16(b.raw[2:], uint16(t.Minute()))
		binary.LittleEndian.PutUint16(b.raw[4:], uint16(t.Second()))
		b.indicatorV = 6
	default:
		binary.LittleEndian.PutUint16(b.raw[0:], uint16(int16(t.Year())))
		binary.LittleEndian.PutUint16(b.raw[2:], uint16(t.Month()))
		binary.LittleEndian.PutUint16(b.raw[4:], uint16(t.Day()))
		binary.LittleEndian.PutUint16(b.raw[6:], uint16(t.Hour()))
		binary.LittleEndian.PutUint16(b.raw[8:], uint16(t.Minute()))
		binary.LittleEndian.PutUint16(b.raw[10:], uint16(t.Second()))
		binary.LittleEndian.PutUint32(b.raw[12:], uint32(t.Nanosecond()))
		b.indicatorV = 16
	}
}

func (b *DateTimeBuffer) SetNull() { b.indicatorV = cli.NullData }
