// Package num provides the numeric value type used by the analysis engines.
// It wraps shopspring decimals in an immutable value that carries its own
// numeric context, so series computed at different precisions never share
// constants or rounding behaviour.
package num

import (
	"math"

	"github.com/shopspring/decimal"
)

// DefaultPrecision is the number of decimal digits used for division and
// logarithms when a context does not specify its own.
const DefaultPrecision int32 = 32

// Context fixes the precision of the inexact operations (Div, Log) for every
// value created through it.
type Context struct {
	Precision int32
}

// NewContext returns a context with the given precision. Non-positive
// precision falls back to DefaultPrecision.
func NewContext(precision int32) Context {
	return Context{Precision: precision}
}

func (c Context) precision() int32 {
	if c.Precision <= 0 {
		return DefaultPrecision
	}
	return c.Precision
}

// Num is an immutable arbitrary-precision number, or the NaN sentinel.
// The zero value is 0 in the default context.
type Num struct {
	dec  decimal.Decimal
	prec int32
	nan  bool
}

// NaN is the distinguished not-a-number sentinel. It propagates through
// arithmetic and compares equal only to itself.
var NaN = Num{nan: true}

// FromString parses a decimal literal in this context.
func (c Context) FromString(s string) (Num, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return NaN, err
	}
	return Num{dec: d, prec: c.precision()}, nil
}

// RequireFromString is FromString for literals known to be valid; it panics
// on a malformed literal.
func (c Context) RequireFromString(s string) Num {
	return Num{dec: decimal.RequireFromString(s), prec: c.precision()}
}

// FromInt builds a value from an integer.
func (c Context) FromInt(i int64) Num {
	return Num{dec: decimal.NewFromInt(i), prec: c.precision()}
}

// FromDecimal wraps an existing decimal in this context.
func (c Context) FromDecimal(d decimal.Decimal) Num {
	return Num{dec: d, prec: c.precision()}
}

// Zero returns 0 in this context.
func (c Context) Zero() Num {
	return Num{dec: decimal.Zero, prec: c.precision()}
}

// One returns 1 in this context.
func (c Context) One() Num {
	return c.FromInt(1)
}

// Context returns the numeric context the value was created in. NaN carries
// the default context.
func (n Num) Context() Context {
	if n.prec <= 0 {
		return Context{Precision: DefaultPrecision}
	}
	return Context{Precision: n.prec}
}

// IsNaN reports whether the value is the NaN sentinel.
func (n Num) IsNaN() bool {
	return n.nan
}

// Add returns n + o. The result keeps the receiver's context.
func (n Num) Add(o Num) Num {
	if n.nan || o.nan {
		return NaN
	}
	return Num{dec: n.dec.Add(o.dec), prec: n.Context().precision()}
}

// Sub returns n - o.
func (n Num) Sub(o Num) Num {
	if n.nan || o.nan {
		return NaN
	}
	return Num{dec: n.dec.Sub(o.dec), prec: n.Context().precision()}
}

// Mul returns n * o.
func (n Num) Mul(o Num) Num {
	if n.nan || o.nan {
		return NaN
	}
	return Num{dec: n.dec.Mul(o.dec), prec: n.Context().precision()}
}

// Div returns n / o rounded to the context precision. Division by zero
// yields NaN rather than panicking.
func (n Num) Div(o Num) Num {
	if n.nan || o.nan || o.dec.IsZero() {
		return NaN
	}
	prec := n.Context().precision()
	return Num{dec: n.dec.DivRound(o.dec, prec), prec: prec}
}

// Log returns the natural logarithm of n at the context precision, or NaN
// for non-positive values.
func (n Num) Log() Num {
	if n.nan || !n.dec.IsPositive() {
		return NaN
	}
	prec := n.Context().precision()
	d, err := n.dec.Ln(prec)
	if err != nil {
		return NaN
	}
	return Num{dec: d, prec: prec}
}

// Neg returns -n.
func (n Num) Neg() Num {
	if n.nan {
		return NaN
	}
	return Num{dec: n.dec.Neg(), prec: n.Context().precision()}
}

// Abs returns the absolute value of n.
func (n Num) Abs() Num {
	if n.nan {
		return NaN
	}
	return Num{dec: n.dec.Abs(), prec: n.Context().precision()}
}

// Equal reports numeric equality. NaN is equal only to NaN.
func (n Num) Equal(o Num) bool {
	if n.nan || o.nan {
		return n.nan && o.nan
	}
	return n.dec.Equal(o.dec)
}

// GreaterThan reports n > o. Always false when either side is NaN.
func (n Num) GreaterThan(o Num) bool {
	if n.nan || o.nan {
		return false
	}
	return n.dec.GreaterThan(o.dec)
}

// LessThan reports n < o. Always false when either side is NaN.
func (n Num) LessThan(o Num) bool {
	if n.nan || o.nan {
		return false
	}
	return n.dec.LessThan(o.dec)
}

// IsZero reports whether n is exactly zero. False for NaN.
func (n Num) IsZero() bool {
	return !n.nan && n.dec.IsZero()
}

// IsPositive reports whether n > 0. False for NaN.
func (n Num) IsPositive() bool {
	return !n.nan && n.dec.IsPositive()
}

// IsNegative reports whether n < 0. False for NaN.
func (n Num) IsNegative() bool {
	return !n.nan && n.dec.IsNegative()
}

// Decimal returns the underlying decimal and whether the value is numeric.
func (n Num) Decimal() (decimal.Decimal, bool) {
	if n.nan {
		return decimal.Decimal{}, false
	}
	return n.dec, true
}

// InexactFloat64 converts to float64 for presentation purposes only.
func (n Num) InexactFloat64() float64 {
	if n.nan {
		return math.NaN()
	}
	return n.dec.InexactFloat64()
}

func (n Num) String() string {
	if n.nan {
		return "NaN"
	}
	return n.dec.String()
}
