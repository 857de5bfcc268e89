package fixedpoint

import (
	"errors"
	stdmath "math"
	"testing"

	"cosmossdk.io/math"
)

func TestMulDiv(t *testing.T) {
	testCases := []struct {
		name     string
		a, b, d  uint64
		expected uint64
		err      error
	}{
		{name: "exact", a: 10, b: 20, d: 5, expected: 40},
		{name: "floors", a: 10, b: 1, d: 3, expected: 3},
		{name: "wide intermediate", a: stdmath.MaxUint64, b: 1_000, d: 1_000, expected: stdmath.MaxUint64},
		{name: "1e18 scale", a: 5_000_000, b: Scale18, d: Scale18, expected: 5_000_000},
		{name: "zero divisor", a: 1, b: 1, d: 0, err: ErrDivideByZero},
		{name: "result overflow", a: stdmath.MaxUint64, b: 2, d: 1, err: ErrOverflow},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MulDiv(tc.a, tc.b, tc.d)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected error %v, got %v", tc.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestMulDivUint(t *testing.T) {
	got, err := MulDivUint(math.NewUint(stdmath.MaxUint64), math.NewUint(Scale18), math.NewUint(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := math.NewUint(stdmath.MaxUint64).Mul(math.NewUint(Scale18)).QuoUint64(7)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}

	if _, err := MulDivUint(math.OneUint(), math.OneUint(), math.ZeroUint()); err == nil {
		t.Error("expected divide by zero")
	}
}

func TestToUint64(t *testing.T) {
	if v, err := ToUint64(math.NewUint(42)); err != nil || v != 42 {
		t.Errorf("expected 42, got %d (%v)", v, err)
	}
	big := math.NewUint(stdmath.MaxUint64).AddUint64(1)
	if _, err := ToUint64(big); err == nil {
		t.Error("expected overflow for 2^64")
	}
}

func TestSatSub(t *testing.T) {
	if got := SatSub(math.NewUint(3), math.NewUint(5)); !got.IsZero() {
		t.Errorf("expected 0, got %s", got)
	}
	if got := SatSub(math.NewUint(5), math.NewUint(3)); !got.Equal(math.NewUint(2)) {
		t.Errorf("expected 2, got %s", got)
	}
}

func TestElapsedSeconds(t *testing.T) {
	testCases := []struct {
		name     string
		from, to uint64
		expected uint64
	}{
		{"whole seconds", 1_000, 6_000, 5},
		{"drops partial second", 0, 1_999, 1},
		{"sub-second", 500, 900, 0},
		{"clock behind", 10_000, 5_000, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ElapsedSeconds(tc.from, tc.to); got != tc.expected {
				t.Errorf("expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestCheckedArithmetic(t *testing.T) {
	if _, err := AddChecked(stdmath.MaxUint64, 1); !errors.Is(err, ErrOverflow) {
		t.Errorf("expected overflow, got %v", err)
	}
	if v, err := AddChecked(2, 3); err != nil || v != 5 {
		t.Errorf("expected 5, got %d (%v)", v, err)
	}
	if _, err := SubChecked(2, 3); !errors.Is(err, ErrUnderflow) {
		t.Errorf("expected underflow, got %v", err)
	}
	if v, err := SubChecked(3, 3); err != nil || v != 0 {
		t.Errorf("expected 0, got %d (%v)", v, err)
	}
}
