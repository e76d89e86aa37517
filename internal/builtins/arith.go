package builtins

import (
	"math"
	"math/big"
	"time"

	"n3reason/internal/ns"
	"n3reason/internal/prover"
	"n3reason/internal/subst"
	"n3reason/internal/term"
)

// binaryArith extracts two numeric operands from a goal shaped either
// as `(a b) math:op c` (subject is a 2-element list, object is the
// result) or `a math:op (b c)`-style is not used by this library — the
// subject-list form is the one cwm-derived corpora use throughout.
func binaryArith(goal term.Triple) (a, b term.Numeric, out term.Term, ok bool) {
	elems, isList := asList(goal.Subject)
	if !isList || len(elems) != 2 {
		return term.Numeric{}, term.Numeric{}, nil, false
	}
	na, oka := asNumeric(elems[0])
	nb, okb := asNumeric(elems[1])
	if !oka || !okb {
		return term.Numeric{}, term.Numeric{}, nil, false
	}
	return na, nb, goal.Object, true
}

func unaryArith(goal term.Triple) (a term.Numeric, out term.Term, ok bool) {
	na, oka := asNumeric(goal.Subject)
	if !oka {
		return term.Numeric{}, nil, false
	}
	return na, goal.Object, true
}

func ratOp(f func(z, x, y *big.Rat) *big.Rat) func(x, y *big.Rat) *big.Rat {
	return func(x, y *big.Rat) *big.Rat {
		z := new(big.Rat)
		return f(z, x, y)
	}
}

func addMath(table map[string]prover.BuiltinFunc) {
	bin := func(exact func(x, y *big.Rat) *big.Rat, flt func(x, y float64) float64) prover.BuiltinFunc {
		return func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
			a, b, out, shapeOK := binaryArith(goal)
			if !shapeOK {
				return fail()
			}
			res, okArith := term.Arith(a, b, exact, flt)
			if !okArith {
				return fail()
			}
			return unifyBind(out, numericTerm(ctx.Interner, res))
		}
	}

	table[ns.Q(ns.Math, "sum")] = bin(
		ratOp(func(z, x, y *big.Rat) *big.Rat { return z.Add(x, y) }),
		func(x, y float64) float64 { return x + y },
	)
	table[ns.Q(ns.Math, "difference")] = mathDifference
	table[ns.Q(ns.Math, "product")] = bin(
		ratOp(func(z, x, y *big.Rat) *big.Rat { return z.Mul(x, y) }),
		func(x, y float64) float64 { return x * y },
	)
	table[ns.Q(ns.Math, "quotient")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		a, b, out, shapeOK := binaryArith(goal)
		if !shapeOK {
			return fail()
		}
		res, okArith := term.Arith(a, b, ratOp(func(z, x, y *big.Rat) *big.Rat {
			if y.Sign() == 0 {
				return nil
			}
			return z.Quo(x, y)
		}), func(x, y float64) float64 {
			if y == 0 {
				return math.NaN()
			}
			return x / y
		})
		if !okArith {
			return fail()
		}
		return unifyBind(out, numericTerm(ctx.Interner, res))
	}
	table[ns.Q(ns.Math, "remainder")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		a, b, out, shapeOK := binaryArith(goal)
		if !shapeOK {
			return fail()
		}
		ia, okA := intOf(a)
		ib, okB := intOf(b)
		if !okA || !okB || ib.Sign() == 0 {
			return fail()
		}
		m := new(big.Int).Mod(ia, ib)
		return unifyBind(out, numericTerm(ctx.Interner, term.Numeric{Datatype: term.XSDInteger, Int: m}))
	}
	table[ns.Q(ns.Math, "integerQuotient")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		a, b, out, shapeOK := binaryArith(goal)
		if !shapeOK {
			return fail()
		}
		ia, okA := intOf(a)
		ib, okB := intOf(b)
		if !okA || !okB || ib.Sign() == 0 {
			return fail()
		}
		q := new(big.Int).Quo(ia, ib)
		return unifyBind(out, numericTerm(ctx.Interner, term.Numeric{Datatype: term.XSDInteger, Int: q}))
	}
	table[ns.Q(ns.Math, "exponentiation")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		a, b, out, shapeOK := binaryArith(goal)
		if !shapeOK {
			return fail()
		}
		if a.Datatype == term.XSDInteger && b.Datatype == term.XSDInteger && b.Int.Sign() >= 0 && b.Int.IsInt64() {
			res := new(big.Int).Exp(a.Int, b.Int, nil)
			return unifyBind(out, numericTerm(ctx.Interner, term.Numeric{Datatype: term.XSDInteger, Int: res}))
		}
		f := math.Pow(a.AsFloat(), b.AsFloat())
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fail()
		}
		dt := term.PromoteDatatype(a.Datatype, b.Datatype)
		if dt == term.XSDInteger || dt == term.XSDDecimal {
			dt = term.XSDDouble
		}
		return unifyBind(out, numericTerm(ctx.Interner, term.Numeric{Datatype: dt, Flt: f}))
	}

	unary := func(exact func(x *big.Rat) *big.Rat, flt func(x float64) float64) prover.BuiltinFunc {
		return func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
			a, out, shapeOK := unaryArith(goal)
			if !shapeOK {
				return fail()
			}
			hasExact := exact != nil
			switch {
			case hasExact && (a.Datatype == term.XSDInteger || a.Datatype == term.XSDDecimal):
				r := exact(a.AsRat())
				if r == nil {
					return fail()
				}
				dt := a.Datatype
				if dt == term.XSDInteger && !r.IsInt() {
					dt = term.XSDDecimal
				}
				if dt == term.XSDInteger {
					return unifyBind(out, numericTerm(ctx.Interner, term.Numeric{Datatype: term.XSDInteger, Int: new(big.Int).Set(r.Num())}))
				}
				return unifyBind(out, numericTerm(ctx.Interner, term.Numeric{Datatype: term.XSDDecimal, Dec: r}))
			default:
				f := flt(a.AsFloat())
				if math.IsNaN(f) || math.IsInf(f, 0) {
					return fail()
				}
				dt := a.Datatype
				if dt != term.XSDFloat && dt != term.XSDDouble {
					dt = term.XSDDouble
				}
				return unifyBind(out, numericTerm(ctx.Interner, term.Numeric{Datatype: dt, Flt: f}))
			}
		}
	}

	table[ns.Q(ns.Math, "negation")] = unary(
		func(x *big.Rat) *big.Rat { return new(big.Rat).Neg(x) },
		func(x float64) float64 { return -x },
	)
	table[ns.Q(ns.Math, "absoluteValue")] = unary(
		func(x *big.Rat) *big.Rat { return new(big.Rat).Abs(x) },
		math.Abs,
	)
	table[ns.Q(ns.Math, "rounded")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		a, out, shapeOK := unaryArith(goal)
		if !shapeOK {
			return fail()
		}
		f := a.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fail()
		}
		rounded := int64(math.Round(f))
		return unifyBind(out, numericTerm(ctx.Interner, term.Numeric{Datatype: term.XSDInteger, Int: big.NewInt(rounded)}))
	}
	table[ns.Q(ns.Math, "degrees")] = unary(nil, func(x float64) float64 { return x * 180 / math.Pi })
	table[ns.Q(ns.Math, "sin")] = unary(nil, math.Sin)
	table[ns.Q(ns.Math, "cos")] = unary(nil, math.Cos)
	table[ns.Q(ns.Math, "tan")] = unary(nil, math.Tan)
	table[ns.Q(ns.Math, "sinh")] = unary(nil, math.Sinh)
	table[ns.Q(ns.Math, "cosh")] = unary(nil, math.Cosh)
	table[ns.Q(ns.Math, "tanh")] = unary(nil, math.Tanh)
}

// mathDifference implements math:difference's full contract (§4.5):
// numeric operands subtract as usual; two date/dateTime operands yield
// an xsd:duration; a dateTime and a duration yield a dateTime shifted
// by the duration in UTC.
func mathDifference(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
	elems, isList := asList(goal.Subject)
	if !isList || len(elems) != 2 {
		return fail()
	}
	if na, okA := asNumeric(elems[0]); okA {
		if nb, okB := asNumeric(elems[1]); okB {
			res, okArith := term.Arith(na, nb,
				ratOp(func(z, x, y *big.Rat) *big.Rat { return z.Sub(x, y) }),
				func(x, y float64) float64 { return x - y },
			)
			if !okArith {
				return fail()
			}
			return unifyBind(goal.Object, numericTerm(ctx.Interner, res))
		}
	}
	if ta, okA := parseDateTime(elems[0]); okA {
		if tb, okB := parseDateTime(elems[1]); okB {
			seconds := ta.Sub(tb).Seconds()
			return unifyBind(goal.Object, ctx.Interner.Typed(formatSecondsDuration(seconds), term.XSDDuration))
		}
		if db, okB := parseDuration(elems[1]); okB {
			shifted := applyDuration(ta, negateDuration(db))
			return unifyBind(goal.Object, ctx.Interner.Typed(shifted.Format(time.RFC3339), term.XSDDateTime))
		}
	}
	return fail()
}

// intOf requires an exact integer-family numeric (§4.5's "integer
// arithmetic stays exact"); decimals with integral value are accepted.
func intOf(n term.Numeric) (*big.Int, bool) {
	switch n.Datatype {
	case term.XSDInteger:
		return n.Int, true
	case term.XSDDecimal:
		if n.Dec.IsInt() {
			return n.Dec.Num(), true
		}
	}
	return nil, false
}
