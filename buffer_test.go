package odbc

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lib/odbc/cli"
	"github.com/lib/odbc/odbcerr"
)

func TestFixedScalarSetValueRoundTrip(t *testing.T) {
	i32 := newFixedScalar[int32]("col", 0, cli.CSLong)
	i32.Set(-12345)
	v, err := i32.Value()
	if err != nil {
		t.Fatal(err)
	}
	if v != -12345 {
		t.Errorf("have %d, want -12345", v)
	}

	f64 := newFixedScalar[float64]("col", 0, cli.CDouble)
	f64.Set(3.25)
	fv, err := f64.Value()
	if err != nil {
		t.Fatal(err)
	}
	if fv != 3.25 {
		t.Errorf("have %v, want 3.25", fv)
	}

	u64 := newFixedScalar[uint64]("col", 0, cli.CUBigInt)
	u64.Set(18446744073709551615)
	uv, err := u64.Value()
	if err != nil {
		t.Fatal(err)
	}
	if uv != 18446744073709551615 {
		t.Errorf("have %d, want max uint64", uv)
	}
}

func TestFixedScalarNullValueError(t *testing.T) {
	b := newFixedScalar[int16]("col", 0, cli.CSShort)
	b.SetNull()
	if _, err := b.Value(); err == nil {
		t.Fatal("expected NullValueError")
	} else if _, ok := err.(*odbcerr.NullValueError); !ok {
		t.Errorf("have %T, want *odbcerr.NullValueError", err)
	}
}

func TestNumericBufferRoundTrip(t *testing.T) {
	tests := []string{"0", "123.45", "-123.45", "99999999999999999999999999999999999999", "-1"}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			d, err := decimal.NewFromString(s)
			if err != nil {
				t.Fatal(err)
			}
			nb := NewNumericBuffer("col")
			if err := nb.SetDecimal(d); err != nil {
				t.Fatalf("SetDecimal(%s): %v", s, err)
			}
			got, err := nb.Decimal()
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(d) {
				t.Errorf("have %s, want %s", got, d)
			}
		})
	}
}

func TestBindParameterNumericRequiresColumnSize(t *testing.T) {
	nb := NewNumericBuffer("amount")
	err := bindParameterNumeric(nil, 1, 0, 0, nb)
	if err == nil {
		t.Fatal("expected an error for columnSize == 0")
	}
	var assertErr *odbcerr.AssertionError
	if !errors.As(err, &assertErr) {
		t.Errorf("have %T, want an *odbcerr.AssertionError in the chain", err)
	}
}

func TestNumericBufferNullValueError(t *testing.T) {
	nb := NewNumericBuffer("col")
	nb.SetNull()
	if _, err := nb.Decimal(); err == nil {
		t.Fatal("expected NullValueError")
	}
}

func TestDateTimeBufferRoundTrip(t *testing.T) {
	date := NewDateTimeBuffer("d", DateTimeDate)
	want := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	date.SetTime(want)
	got, err := date.Time()
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(want) {
		t.Errorf("date: have %v, want %v", got, want)
	}

	ts := NewDateTimeBuffer("t", DateTimeTimestamp)
	wantTs := time.Date(2024, time.March, 15, 13, 45, 30, 123456000, time.UTC)
	ts.SetTime(wantTs)
	gotTs, err := ts.Time()
	if err != nil {
		t.Fatal(err)
	}
	if !gotTs.Equal(wantTs) {
		t.Errorf("timestamp: have %v, want %v", gotTs, wantTs)
	}
}

func TestByteArrayCharRoundTrip(t *testing.T) {
	b := NewByteArray("c", ByteArrayChar, 16)
	if err := b.SetString("hello"); err != nil {
		t.Fatal(err)
	}
	got, err := b.String()
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Errorf("have %q, want %q", got, "hello")
	}
}

func TestByteArrayCharRejectsOverCapacity(t *testing.T) {
	b := NewByteArray("c", ByteArrayChar, 4)
	if err := b.SetString("too long"); err == nil {
		t.Fatal("expected capacity error")
	}
}

func TestByteArrayWCharRoundTrip(t *testing.T) {
	b := NewByteArray("c", ByteArrayWChar, 16)
	if err := b.SetString("café 日本語"); err != nil {
		t.Fatal(err)
	}
	got, err := b.String()
	if err != nil {
		t.Fatal(err)
	}
	if got != "café 日本語" {
		t.Errorf("have %q, want %q", got, "café 日本語")
	}
}

func TestByteArrayBinaryRoundTrip(t *testing.T) {
	b := NewByteArray("c", ByteArrayBinary, 8)
	want := []byte{0x01, 0x02, 0xff, 0x00}
	if err := b.SetBytes(want); err != nil {
		t.Fatal(err)
	}
	got, err := b.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("have %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: have %x, want %x", i, got[i], want[i])
		}
	}
}

func TestByteArrayNullValueError(t *testing.T) {
	b := NewByteArray("c", ByteArrayChar, 8)
	b.SetNull()
	if _, err := b.String(); err == nil {
		t.Fatal("expected NullValueError")
	}
}
