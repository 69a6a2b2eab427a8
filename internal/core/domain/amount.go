package domain

import (
	"fmt"
	"math/bits"

	"lukechampine.com/uint128"
)

// Amount is an unsigned 128-bit token quantity.
//
// The zero value is 0. Text encoding is a base-10 string so that JSON
// documents never lose precision.
type Amount uint128.Uint128

// ZeroAmount is the zero Amount.
var ZeroAmount = Amount{}

// NewAmount returns v as an Amount.
func NewAmount(v uint64) Amount {
	return Amount(uint128.From64(v))
}

// ParseAmount parses a base-10 unsigned integer.
func ParseAmount(s string) (Amount, error) {
	if s == "" {
		return ZeroAmount, ErrInvalidArgument.WithDetails("empty amount")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return ZeroAmount, ErrInvalidArgument.WithDetails(fmt.Sprintf("amount %q is not a decimal integer", s))
		}
	}
	u, err := uint128.FromString(s)
	if err != nil {
		return ZeroAmount, ErrAmountOverflow.WithCause(err)
	}
	return Amount(u), nil
}

// MustParseAmount is like ParseAmount but panics on error.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) u() uint128.Uint128 { return uint128.Uint128(a) }

// IsZero reports whether a == 0.
func (a Amount) IsZero() bool {
	return a.u().IsZero()
}

// Cmp compares a and b and returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int {
	return a.u().Cmp(b.u())
}

// LessThan reports whether a < b.
func (a Amount) LessThan(b Amount) bool {
	return a.Cmp(b) < 0
}

// Add returns a+b or ErrAmountOverflow.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := a.u().AddWrap(b.u())
	if sum.Cmp(a.u()) < 0 {
		return ZeroAmount, ErrAmountOverflow
	}
	return Amount(sum), nil
}

// Sub returns a-b. The second result is false when b > a.
func (a Amount) Sub(b Amount) (Amount, bool) {
	if a.Cmp(b) < 0 {
		return ZeroAmount, false
	}
	return Amount(a.u().SubWrap(b.u())), true
}

// Mul64 returns a*n or ErrAmountOverflow.
func (a Amount) Mul64(n uint64) (Amount, error) {
	hiHi, hiLo := bits.Mul64(a.Hi, n)
	if hiHi != 0 {
		return ZeroAmount, ErrAmountOverflow
	}
	loHi, loLo := bits.Mul64(a.Lo, n)
	hi, carry := bits.Add64(hiLo, loHi, 0)
	if carry != 0 {
		return ZeroAmount, ErrAmountOverflow
	}
	return Amount{Lo: loLo, Hi: hi}, nil
}

// Float64 returns an approximation of a, for metrics only.
func (a Amount) Float64() float64 {
	return float64(a.Hi)*(1<<64) + float64(a.Lo)
}

// String returns the base-10 representation.
func (a Amount) String() string {
	return a.u().String()
}

// MarshalText implements encoding.TextMarshaler.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(text []byte) error {
	v, err := ParseAmount(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
