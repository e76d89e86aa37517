package builtins

import (
	"n3reason/internal/ns"
	"n3reason/internal/prover"
	"n3reason/internal/subst"
	"n3reason/internal/term"
)

// addRDF wires rdf:first and rdf:rest, the RDF-collection counterparts
// of list:first/list:rest, operating on native List terms rather than
// rdf:first/rdf:rest linked-cell triples (§4.5).
func addRDF(table map[string]prover.BuiltinFunc) {
	table[ns.Q(ns.RDF, "first")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		elems, isList := asList(goal.Subject)
		if !isList || len(elems) == 0 {
			return fail()
		}
		return unifyBind(goal.Object, elems[0])
	}
	table[ns.Q(ns.RDF, "rest")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		elems, isList := asList(goal.Subject)
		if !isList || len(elems) == 0 {
			return fail()
		}
		return unifyBind(goal.Object, term.List{Elems: append([]term.Term{}, elems[1:]...)})
	}
}
