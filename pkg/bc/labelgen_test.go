package bc

import "testing"

func TestLabelGenMonotonic(t *testing.T) {
	gen := NewLabelGen(3)
	seen := make(map[Label]bool)
	for i := 0; i < 5; i++ {
		l := gen.NextRegular()
		if seen[l] {
			t.Fatalf("generator repeated identity %v", l)
		}
		seen[l] = true
	}
	if l := gen.NextRegular(); l != Regular(8) {
		t.Errorf("next identity = %v, want L8", l)
	}
}

func TestLabelGenReset(t *testing.T) {
	gen := NewLabelGen(0)
	gen.NextRegular()
	gen.Reset()
	if l := gen.NextRegular(); l != Regular(0) {
		t.Errorf("after Reset, next identity = %v, want L0", l)
	}
}

func TestLabelString(t *testing.T) {
	if got := Regular(12).String(); got != "L12" {
		t.Errorf("Regular(12).String() = %q, want L12", got)
	}
	if got := Named("finally").String(); got != "@finally" {
		t.Errorf(`Named("finally").String() = %q, want @finally`, got)
	}
}

func TestRegularID(t *testing.T) {
	if id, ok := RegularID(Regular(4)); !ok || id != 4 {
		t.Errorf("RegularID(L4) = %d, %v", id, ok)
	}
	if _, ok := RegularID(Named("x")); ok {
		t.Error("RegularID resolved a Named label")
	}
}
