package utfconv

import "testing"

func TestToUTF16NulTerminates(t *testing.T) {
	out, err := ToUTF16("hi")
	if err != nil {
		t.Fatal(err)
	}
	want := []uint16{'h', 'i', 0}
	if len(out) != len(want) {
		t.Fatalf("have %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("index %d: have %d, want %d", i, out[i], want[i])
		}
	}
}

func TestRoundTripASCII(t *testing.T) {
	tests := []string{"", "hello", "SELECT * FROM t WHERE a=?"}
	for _, s := range tests {
		wide, err := ToUTF16(s)
		if err != nil {
			t.Fatalf("ToUTF16(%q): %v", s, err)
		}
		back, err := FromUTF16(wide[:len(wide)-1]) // drop the NUL terminator
		if err != nil {
			t.Fatalf("FromUTF16: %v", err)
		}
		if back != s {
			t.Errorf("round trip: have %q, want %q", back, s)
		}
	}
}

func TestRoundTripNonASCII(t *testing.T) {
	s := "café 日本語"
	wide, err := ToUTF16(s)
	if err != nil {
		t.Fatal(err)
	}
	back, err := FromUTF16(wide[:len(wide)-1])
	if err != nil {
		t.Fatal(err)
	}
	if back != s {
		t.Errorf("have %q, want %q", back, s)
	}
}

func TestDirectionString(t *testing.T) {
	if UTF8ToUTF16.String() != "utf8->utf16" {
		t.Errorf("have %q", UTF8ToUTF16.String())
	}
	if UTF16ToUTF8.String() != "utf16->utf8" {
		t.Errorf("have %q", UTF16ToUTF8.String())
	}
}
