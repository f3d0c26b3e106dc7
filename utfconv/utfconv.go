// Package utfconv provides the one pair of UTF-8/UTF-16 conversion helpers
// spec §6 requires at the CLI boundary: callers see UTF-8 throughout, while
// wide CLI symbols (SQLConnectW, SQLPrepareW, ...) speak UTF-16. Every
// conversion crossing that boundary goes through ToUTF16/FromUTF16 so there
// is exactly one place that can get surrogate-pair handling wrong.
package utfconv

import (
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Direction names which way a failed conversion was going; its String form
// is carried by odbcerr.ConversionError.
type Direction int

const (
	UTF8ToUTF16 Direction = iota
	UTF16ToUTF8
)

func (d Direction) String() string {
	if d == UTF8ToUTF16 {
		return "utf8->utf16"
	}
	return "utf16->utf8"
}

var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// ToUTF16 encodes a Go string (UTF-8) into a NUL-terminated UTF-16LE
// uint16 slice suitable for passing to a wide CLI entry point.
func ToUTF16(s string) ([]uint16, error) {
	enc := utf16LE.NewEncoder()
	b, _, err := transform.Bytes(enc, []byte(s))
	if err != nil {
		return nil, errors.Wrap(err, "utfconv: encode to utf16")
	}
	if len(b)%2 != 0 {
		return nil, errors.New("utfconv: odd byte length after utf16 encode")
	}
	out := make([]uint16, len(b)/2+1)
	for i := 0; i < len(b)/2; i++ {
		out[i] = uint16(b[2*i]) | uint16(b[2*i+1])<<8
	}
	out[len(out)-1] = 0
	return out, nil
}

// FromUTF16 decodes a UTF-16LE uint16 slice (no trailing NUL expected) into
// a Go string.
func FromUTF16(s []uint16) (string, error) {
	b := make([]byte, len(s)*2)
	for i, u := range s {
		b[2*i] = byte(u)
		b[2*i+1] = byte(u >> 8)
	}
	dec := utf16LE.NewDecoder()
	out, _, err := transform.Bytes(dec, b)
	if err != nil {
		return "", errors.Wrap(err, "utfconv: decode from utf16")
	}
	return string(out), nil
}

// MustUTF16 is ToUTF16 for call sites that have already validated s (e.g.
// compile-time constants); it panics on error instead of propagating one,
// matching the narrow set of places in the core where failure here would
// indicate a core bug rather than bad input.
func MustUTF16(s string) []uint16 {
	out, err := ToUTF16(s)
	if err != nil {
		panic(err)
	}
	return out
}
