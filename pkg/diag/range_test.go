package diag

import "testing"

type aRanger struct {
	Ranging
}

func TestEmbeddingRangingImplementsRanger(t *testing.T) {
	r := Ranging{1, 10}
	s := Ranger(aRanger{Ranging{1, 10}})
	if s.Range() != r {
		t.Errorf("s.Range() = %v, want %v", s.Range(), r)
	}
}

func TestMixedRanging(t *testing.T) {
	a := aRanger{Ranging{1, 10}}
	b := aRanger{Ranging{4, 12}}
	want := Ranging{1, 12}
	if got := MixedRanging(a, b); got != want {
		t.Errorf("MixedRanging(%v, %v) = %v, want %v", a, b, got, want)
	}
}
