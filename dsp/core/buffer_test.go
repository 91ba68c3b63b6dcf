package core

import "testing"

func TestEnsureLen(t *testing.T) {
	buf := make([]float64, 4, 16)

	out := EnsureLen(buf, 8)
	if len(out) != 8 {
		t.Fatalf("len = %d, want 8", len(out))
	}

	if &out[0] != &buf[0] {
		t.Error("capacity should be reused")
	}

	grown := EnsureLen(buf, 32)
	if len(grown) != 32 {
		t.Fatalf("len = %d, want 32", len(grown))
	}

	if got := EnsureLen(buf, 0); len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestZero(t *testing.T) {
	buf := []float64{1, 2, 3}
	Zero(buf)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("index %d not zeroed: %v", i, v)
		}
	}
}
