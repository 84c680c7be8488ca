package curve

import (
	"math"
	"testing"
)

func TestEvalInterpolatesLinearly(t *testing.T) {
	c := New(Key{X: 0, Y: 1.0}, Key{X: 0.3, Y: 0.85}, Key{X: 0.6, Y: 0.35}, Key{X: 1.0, Y: 0.05})

	cases := []struct {
		x, want float64
	}{
		{0, 1.0},
		{0.3, 0.85},
		{0.15, 0.925},
		{0.45, 0.6},
		{1.0, 0.05},
	}
	for _, tc := range cases {
		got := c.Eval(tc.x)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("Eval(%v) = %v, want %v", tc.x, got, tc.want)
		}
	}
}

func TestEvalClampsOutsideRange(t *testing.T) {
	c := New(Key{X: 0, Y: 2}, Key{X: 10, Y: 4})
	if got := c.Eval(-5); got != 2 {
		t.Fatalf("Eval below range = %v, want 2", got)
	}
	if got := c.Eval(99); got != 4 {
		t.Fatalf("Eval above range = %v, want 4", got)
	}
}

func TestEvalUnsortedKeysAreSorted(t *testing.T) {
	c := New(Key{X: 1, Y: 10}, Key{X: 0, Y: 0})
	if got := c.Eval(0.5); math.Abs(got-5) > 1e-9 {
		t.Fatalf("Eval(0.5) = %v, want 5", got)
	}
}

func TestZeroCurve(t *testing.T) {
	var c Curve
	if !c.IsZero() {
		t.Fatal("empty curve should report IsZero")
	}
	if got := c.Eval(3); got != 0 {
		t.Fatalf("zero curve Eval = %v, want 0", got)
	}
}

func TestConstant(t *testing.T) {
	c := Constant(0, 480, 0.006)
	for _, x := range []float64{0, 240, 480} {
		if got := c.Eval(x); got != 0.006 {
			t.Fatalf("Constant.Eval(%v) = %v, want 0.006", x, got)
		}
	}
}
