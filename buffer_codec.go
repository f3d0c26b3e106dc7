package odbc

import (
	"encoding/binary"
	"math"
)

// encodeScalar and decodeScalar marshal a FixedScalar's Go value to/from
// its little-endian CLI buffer representation. A type switch on `any(v)`
// stands in for exOdbc's per-specialization SqlCBuffer<T>::SetValue.
func encodeScalar[T scalarKind](buf []byte, v T) {
	switch x := any(v).(type) {
	case int8:
		buf[0] = byte(x)
	case int16:
		binary.LittleEndian.PutUint16(buf, uint16(x))
	case int32:
		binary.LittleEndian.PutUint32(buf, uint32(x))
	case int64:
		binary.LittleEndian.PutUint64(buf, uint64(x))
	case uint64:
		binary.LittleEndian.PutUint64(buf, x)
	case float32:
		binary.LittleEndian.PutUint32(buf, math.Float32bits(x))
	case float64:
		binary.LittleEndian.PutUint64(buf, math.Float64bits(x))
	}
}

func decodeScalar[T scalarKind](buf []byte) T {
	var zero T
	switch any(zero).(type) {
	case int8:
		return any(int8(buf[0])).(T)
	case int16:
		return any(int16(binary.LittleEndian.Uint16(buf))).(T)
	case int32:
		return any(int32(binary.LittleEndian.Uint32(buf))).(T)
	case int64:
		return any(int64(binary.LittleEndian.Uint64(buf))).(T)
	case uint64:
		return any(binary.LittleEndian.Uint64(buf)).(T)
	case float32:
		return any(math.Float32frombits(binary.LittleEndian.Uint32(buf))).(T)
	case float64:
		return any(math.Float64frombits(binary.LittleEndian.Uint64(buf))).(T)
	default:
		return zero
	}
}
