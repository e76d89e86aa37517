package term

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Numeric is a datatype-tagged numeric value. Integer and Decimal carry
// exact (arbitrary precision) values; Float and Double carry float64,
// matching §4.5's "integer-integer arithmetic stays exact" requirement
// while allowing float/double to behave like IEEE doubles, including
// non-finite results.
type Numeric struct {
	Datatype string
	Int      *big.Int // valid when Datatype == XSDInteger
	Dec      *big.Rat // valid when Datatype == XSDDecimal
	Flt      float64  // valid when Datatype == XSDFloat or XSDDouble
}

// ParseNumeric parses a literal's lexical under the given numeric
// datatype. Returns ok=false if the lexical doesn't parse (callers
// treat this as a builtin shape mismatch, i.e. zero solutions, per §7).
func ParseNumeric(lexical, datatype string) (Numeric, bool) {
	switch datatype {
	case XSDInteger:
		i, ok := new(big.Int).SetString(strings.TrimSpace(lexical), 10)
		if !ok {
			return Numeric{}, false
		}
		return Numeric{Datatype: XSDInteger, Int: i}, true
	case XSDDecimal:
		r, ok := new(big.Rat).SetString(strings.TrimSpace(lexical))
		if !ok {
			return Numeric{}, false
		}
		return Numeric{Datatype: XSDDecimal, Dec: r}, true
	case XSDFloat, XSDDouble:
		f, err := strconv.ParseFloat(strings.TrimSpace(lexical), 64)
		if err != nil {
			return Numeric{}, false
		}
		return Numeric{Datatype: datatype, Flt: f}, true
	}
	return Numeric{}, false
}

// AsFloat converts the value to float64, widening exact values.
func (n Numeric) AsFloat() float64 {
	switch n.Datatype {
	case XSDInteger:
		f := new(big.Float).SetInt(n.Int)
		v, _ := f.Float64()
		return v
	case XSDDecimal:
		v, _ := n.Dec.Float64()
		return v
	default:
		return n.Flt
	}
}

// AsRat converts an exact (integer or decimal) value to a big.Rat. Only
// valid when Datatype is XSDInteger or XSDDecimal.
func (n Numeric) AsRat() *big.Rat {
	switch n.Datatype {
	case XSDInteger:
		return new(big.Rat).SetInt(n.Int)
	case XSDDecimal:
		return n.Dec
	}
	return nil
}

// Lexical renders the numeric value back to its canonical lexical form.
func (n Numeric) Lexical() string {
	switch n.Datatype {
	case XSDInteger:
		return n.Int.String()
	case XSDDecimal:
		return decimalString(n.Dec)
	default:
		return formatFloat(n.Flt)
	}
}

func decimalString(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String() + ".0"
	}
	// FloatString with generous precision, trimmed of trailing zeros,
	// keeps decimals exact for the common case of finite-precision inputs.
	s := r.FloatString(20)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}

func formatFloat(f float64) string {
	if f != f { // NaN
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// promote widens a,b to a common numeric datatype per §4.5's ordering
// (integer < decimal < float < double) and returns both values
// represented in that common datatype.
func promote(a, b Numeric) (string, Numeric, Numeric) {
	dt := PromoteDatatype(a.Datatype, b.Datatype)
	return dt, widen(a, dt), widen(b, dt)
}

func widen(n Numeric, to string) Numeric {
	if n.Datatype == to {
		return n
	}
	switch to {
	case XSDDecimal:
		return Numeric{Datatype: XSDDecimal, Dec: n.AsRat()}
	case XSDFloat, XSDDouble:
		return Numeric{Datatype: to, Flt: n.AsFloat()}
	}
	return n
}

// Arith applies a binary exact-or-float arithmetic operation, promoting
// operands to a common datatype first. exactOp is used for
// integer/decimal (kept exact); floatOp is used once either operand is
// float/double. Returns ok=false for non-finite float results (§4.5:
// "non-finite results: zero solutions").
func Arith(a, b Numeric, exactOp func(x, y *big.Rat) *big.Rat, floatOp func(x, y float64) float64) (Numeric, bool) {
	dt, wa, wb := promote(a, b)
	switch dt {
	case XSDInteger:
		ra, rb := wa.AsRat(), wb.AsRat()
		res := exactOp(ra, rb)
		if res == nil {
			return Numeric{}, false
		}
		if !res.IsInt() {
			// e.g. a quotient that isn't exact: promote to decimal.
			return Numeric{Datatype: XSDDecimal, Dec: res}, true
		}
		return Numeric{Datatype: XSDInteger, Int: new(big.Int).Set(res.Num())}, true
	case XSDDecimal:
		ra, rb := wa.AsRat(), wb.AsRat()
		res := exactOp(ra, rb)
		if res == nil {
			return Numeric{}, false
		}
		return Numeric{Datatype: XSDDecimal, Dec: res}, true
	default:
		f := floatOp(wa.Flt, wb.Flt)
		if isNonFinite(f) {
			return Numeric{}, false
		}
		return Numeric{Datatype: dt, Flt: f}, true
	}
}

func isNonFinite(f float64) bool {
	return f != f || f > maxFloat || f < -maxFloat
}

const maxFloat = 1.7976931348623157e+308

// Compare orders two numerics numerically (not lexically), promoting to
// a common representation first. Mixed bigint/float compares go through
// float64 per §4.5.
func Compare(a, b Numeric) int {
	dt, wa, wb := promote(a, b)
	if dt == XSDInteger || dt == XSDDecimal {
		return wa.AsRat().Cmp(wb.AsRat())
	}
	switch {
	case wa.Flt < wb.Flt:
		return -1
	case wa.Flt > wb.Flt:
		return 1
	default:
		return 0
	}
}

func (n Numeric) String() string {
	return fmt.Sprintf("%s(%s)", n.Datatype, n.Lexical())
}
