package builtins

import (
	"n3reason/internal/ns"
	"n3reason/internal/prover"
	"n3reason/internal/subst"
	"n3reason/internal/term"
)

// addCompare wires the strictly-Boolean math: comparison tests (§4.5).
// Mixed bigint/float operands compare via float conversion, matching
// term.Compare's promotion rules.
func addCompare(table map[string]prover.BuiltinFunc) {
	cmp := func(accept func(c int) bool) prover.BuiltinFunc {
		return func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
			a, ok1 := asNumeric(goal.Subject)
			b, ok2 := asNumeric(goal.Object)
			if !ok1 || !ok2 {
				return fail()
			}
			if accept(term.Compare(a, b)) {
				return ok()
			}
			return fail()
		}
	}
	table[ns.Q(ns.Math, "equalTo")] = cmp(func(c int) bool { return c == 0 })
	table[ns.Q(ns.Math, "notEqualTo")] = cmp(func(c int) bool { return c != 0 })
	table[ns.Q(ns.Math, "lessThan")] = cmp(func(c int) bool { return c < 0 })
	table[ns.Q(ns.Math, "greaterThan")] = cmp(func(c int) bool { return c > 0 })
	table[ns.Q(ns.Math, "notLessThan")] = cmp(func(c int) bool { return c >= 0 })
	table[ns.Q(ns.Math, "notGreaterThan")] = cmp(func(c int) bool { return c <= 0 })
}
