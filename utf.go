package odbc

import (
	"github.com/lib/odbc/odbcerr"
	"github.com/lib/odbc/utfconv"
)

// utf16OrConversionErr is the uniform call-site helper for encoding a Go
// string before passing it to a wide CLI entry point, wrapping a failure
// into the spec §7 Conversion error kind.
func utf16OrConversionErr(s string) ([]uint16, error) {
	w, err := utfconv.ToUTF16(s)
	if err != nil {
		return nil, odbcerr.NewConversion(utfconv.UTF8ToUTF16.String(), err)
	}
	return w, nil
}

func fromUTF16OrConversionErr(s []uint16) (string, error) {
	str, err := utfconv.FromUTF16(s)
	if err != nil {
		return "", odbcerr.NewConversion(utfconv.UTF16ToUTF8.String(), err)
	}
	return str, nil
}
