// Package fixedpoint provides the scaled unsigned-integer helpers shared by
// the custody modules. Every helper multiplies before it divides and rounds
// toward zero, so callers inherit a single rounding direction.
package fixedpoint

import (
	"math/bits"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

const (
	// Scale9 is the display scale used for exchange rates (1.0 == 1e9).
	Scale9 uint64 = 1_000_000_000
	// Scale18 is the accumulator scale used for reward-per-share (1.0 == 1e18).
	Scale18 uint64 = 1_000_000_000_000_000_000

	BasisPoints     uint64 = 10_000
	MillisPerSecond uint64 = 1_000
	SecondsPerYear  uint64 = 31_536_000
)

// MulDiv returns floor(a*b/d) using a 128-bit intermediate.
func MulDiv(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, ErrDivideByZero
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= d {
		return 0, errorsmod.Wrapf(ErrOverflow, "%d * %d / %d exceeds uint64", a, b, d)
	}
	q, _ := bits.Div64(hi, lo, d)
	return q, nil
}

// MustMulDiv is MulDiv for call sites whose operands are already bounded.
func MustMulDiv(a, b, d uint64) uint64 {
	q, err := MulDiv(a, b, d)
	if err != nil {
		panic(err)
	}
	return q
}

// MulDivUint returns floor(a*b/d) without bounding the result to 64 bits.
func MulDivUint(a, b, d math.Uint) (math.Uint, error) {
	if d.IsZero() {
		return math.ZeroUint(), ErrDivideByZero
	}
	return a.Mul(b).Quo(d), nil
}

// ToUint64 narrows x, failing when it does not fit.
func ToUint64(x math.Uint) (uint64, error) {
	if !x.BigInt().IsUint64() {
		return 0, errorsmod.Wrapf(ErrOverflow, "%s exceeds uint64", x.String())
	}
	return x.Uint64(), nil
}

// SatSub returns max(0, a-b).
func SatSub(a, b math.Uint) math.Uint {
	if a.LTE(b) {
		return math.ZeroUint()
	}
	return a.Sub(b)
}

// Elapsed returns to-from, or 0 when the clock reads earlier than from.
func Elapsed(from, to uint64) uint64 {
	if to <= from {
		return 0
	}
	return to - from
}

// ElapsedSeconds converts a millisecond interval into whole seconds.
func ElapsedSeconds(fromMs, toMs uint64) uint64 {
	return Elapsed(fromMs, toMs) / MillisPerSecond
}

// AddChecked adds two balances, rejecting wrap-around.
func AddChecked(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, errorsmod.Wrapf(ErrOverflow, "%d + %d", a, b)
	}
	return sum, nil
}

// SubChecked subtracts b from a balance, rejecting negative results.
func SubChecked(a, b uint64) (uint64, error) {
	if b > a {
		return 0, errorsmod.Wrapf(ErrUnderflow, "%d - %d", a, b)
	}
	return a - b, nil
}

// Min returns the smaller of a and b.
func Min(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
