package typegraph

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Numeric is an exact numeric value. Values flagged as bigint render with
// the JavaScript "n" suffix. The zero value is 0.
type Numeric struct {
	rat    *big.Rat
	bigint bool
}

var jsExponentThreshold, _ = new(big.Rat).SetString("1e21")

// ParseNumeric parses a decimal, exponent or fraction literal.
func ParseNumeric(s string) (Numeric, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(s))
	if !ok {
		return Numeric{}, fmt.Errorf("typegraph: invalid numeric literal %q", s)
	}
	return Numeric{rat: r}, nil
}

// MustNumeric is like ParseNumeric but panics on error.
func MustNumeric(s string) Numeric {
	n, err := ParseNumeric(s)
	if err != nil {
		panic(err)
	}
	return n
}

// IntNumeric returns the Numeric for i.
func IntNumeric(i int64) Numeric {
	return Numeric{rat: new(big.Rat).SetInt64(i)}
}

// FloatNumeric returns the Numeric for a finite f. Non-finite values yield 0.
func FloatNumeric(f float64) Numeric {
	r := new(big.Rat)
	if r.SetFloat64(f) == nil {
		return Numeric{}
	}
	return Numeric{rat: r}
}

// NumericOf converts a Go number or Numeric to a Numeric.
func NumericOf(v any) (Numeric, bool) {
	switch v := v.(type) {
	case Numeric:
		return v, true
	case *Numeric:
		if v == nil {
			return Numeric{}, false
		}
		return *v, true
	case int:
		return IntNumeric(int64(v)), true
	case int32:
		return IntNumeric(int64(v)), true
	case int64:
		return IntNumeric(v), true
	case uint64:
		return Numeric{rat: new(big.Rat).SetInt(new(big.Int).SetUint64(v))}, true
	case float32:
		return FloatNumeric(float64(v)), true
	case float64:
		return FloatNumeric(v), true
	default:
		return Numeric{}, false
	}
}

func (n Numeric) r() *big.Rat {
	if n.rat == nil {
		return new(big.Rat)
	}
	return n.rat
}

// BigInt returns a copy of n rendered as a bigint literal.
func (n Numeric) BigInt() Numeric {
	return Numeric{rat: n.rat, bigint: true}
}

// IsBigInt reports whether n renders as a bigint literal.
func (n Numeric) IsBigInt() bool { return n.bigint }

// Cmp compares n and o.
func (n Numeric) Cmp(o Numeric) int { return n.r().Cmp(o.r()) }

// Sign returns -1, 0 or +1.
func (n Numeric) Sign() int { return n.r().Sign() }

// IsInt reports whether n is an integer.
func (n Numeric) IsInt() bool { return n.r().IsInt() }

// Float64 returns the nearest float64 value.
func (n Numeric) Float64() float64 {
	f, _ := n.r().Float64()
	return f
}

// Int64 returns n as an int64 if it is an integer that fits.
func (n Numeric) Int64() (int64, bool) {
	r := n.r()
	if !r.IsInt() || !r.Num().IsInt64() {
		return 0, false
	}
	return r.Num().Int64(), true
}

// String returns the JavaScript source form of n.
func (n Numeric) String() string {
	r := n.r()
	if r.IsInt() {
		if n.bigint {
			return r.Num().String() + "n"
		}
		if new(big.Rat).Abs(r).Cmp(jsExponentThreshold) < 0 {
			return r.Num().String()
		}
	}
	return FormatJSNumber(n.Float64())
}

// MarshalText implements encoding.TextMarshaler.
func (n Numeric) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Numeric) UnmarshalText(b []byte) error {
	s := string(b)
	isBig := strings.HasSuffix(s, "n")
	v, err := ParseNumeric(strings.TrimSuffix(s, "n"))
	if err != nil {
		return err
	}
	v.bigint = isBig
	*n = v
	return nil
}

// FormatJSNumber formats f the way JavaScript's Number#toString does.
func FormatJSNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mant + "e" + exp[:1] + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
