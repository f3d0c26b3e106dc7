package odbc

import "testing"

func TestMustWideTrimsNulTerminator(t *testing.T) {
	w := mustWide("abc")
	if len(w) != 3 {
		t.Fatalf("have len %d, want 3", len(w))
	}
	for i, want := range []uint16{'a', 'b', 'c'} {
		if w[i] != want {
			t.Errorf("index %d: have %d, want %d", i, w[i], want)
		}
	}
}

func TestMustWideEmptyString(t *testing.T) {
	w := mustWide("")
	if len(w) != 0 {
		t.Errorf("have %v, want empty", w)
	}
}

func TestWidePatternAnyIsNil(t *testing.T) {
	if widePattern(Any) != nil {
		t.Error("expected Any to produce a nil pattern")
	}
}

func TestWidePatternExactEncodesValue(t *testing.T) {
	w := widePattern(Exact("tbl"))
	if len(w) != 3 {
		t.Fatalf("have len %d, want 3", len(w))
	}
}
