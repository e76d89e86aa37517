package builtins

import (
	"math/big"
	"sort"

	"n3reason/internal/ns"
	"n3reason/internal/prover"
	"n3reason/internal/subst"
	"n3reason/internal/term"
)

func addList(table map[string]prover.BuiltinFunc) {
	table[ns.Q(ns.List, "first")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		elems, ok := asList(goal.Subject)
		if !ok || len(elems) == 0 {
			return fail()
		}
		return unifyBind(goal.Object, elems[0])
	}
	table[ns.Q(ns.List, "rest")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		elems, ok := asList(goal.Subject)
		if !ok || len(elems) == 0 {
			return fail()
		}
		return unifyBind(goal.Object, term.List{Elems: append([]term.Term{}, elems[1:]...)})
	}
	table[ns.Q(ns.List, "firstRest")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		elems, ok := asList(goal.Subject)
		if !ok || len(elems) == 0 {
			return fail()
		}
		pair, ok := asList(goal.Object)
		if ok {
			if len(pair) != 2 {
				return fail()
			}
			subst1, ok1 := subst.Unify(pair[0], elems[0], s)
			if !ok1 {
				return fail()
			}
			subst2, ok2 := subst.Unify(pair[1], term.List{Elems: elems[1:]}, subst1)
			if !ok2 {
				return fail()
			}
			delta := subst.New()
			for k, v := range subst2 {
				if _, already := s[k]; !already {
					delta[k] = v
				}
			}
			return []subst.Subst{delta}, nil
		}
		return unifyBind(goal.Object, term.List{Elems: []term.Term{elems[0], term.List{Elems: elems[1:]}}})
	}
	table[ns.Q(ns.List, "last")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		elems, ok := asList(goal.Subject)
		if !ok || len(elems) == 0 {
			return fail()
		}
		return unifyBind(goal.Object, elems[len(elems)-1])
	}
	table[ns.Q(ns.List, "length")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		elems, ok := asList(goal.Subject)
		if !ok {
			return fail()
		}
		return unifyBind(goal.Object, numericTerm(ctx.Interner, term.Numeric{Datatype: term.XSDInteger, Int: big.NewInt(int64(len(elems)))}))
	}
	table[ns.Q(ns.List, "member")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		elems, ok := asList(goal.Object)
		if !ok {
			return fail()
		}
		var deltas []subst.Subst
		for _, e := range elems {
			if merged, ok := subst.Unify(goal.Subject, e, subst.New()); ok {
				deltas = append(deltas, merged)
			}
		}
		return deltas, nil
	}
	table[ns.Q(ns.List, "notMember")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		elems, isList := asList(goal.Object)
		if !isList {
			return fail()
		}
		for _, e := range elems {
			if term.Equal(goal.Subject, e) {
				return fail()
			}
		}
		return ok()
	}
	table[ns.Q(ns.List, "in")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		elems, isList := asList(goal.Object)
		if !isList {
			return fail()
		}
		for _, e := range elems {
			if term.Equal(goal.Subject, e) {
				return ok()
			}
		}
		return fail()
	}
	table[ns.Q(ns.List, "memberAt")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		pair, ok := asList(goal.Subject)
		if !ok || len(pair) != 2 {
			return fail()
		}
		elems, ok := asList(pair[0])
		if !ok {
			return fail()
		}
		idx, ok := asNumeric(pair[1])
		if !ok || idx.Datatype != term.XSDInteger {
			return fail()
		}
		i := int(idx.Int.Int64())
		if i < 0 || i >= len(elems) {
			return fail()
		}
		return unifyBind(goal.Object, elems[i])
	}
	table[ns.Q(ns.List, "iterate")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		elems, ok := asList(goal.Subject)
		if !ok {
			return fail()
		}
		var deltas []subst.Subst
		for i, e := range elems {
			pair := term.List{Elems: []term.Term{
				numericTerm(ctx.Interner, term.Numeric{Datatype: term.XSDInteger, Int: big.NewInt(int64(i))}),
				e,
			}}
			if merged, ok := subst.Unify(goal.Object, pair, subst.New()); ok {
				deltas = append(deltas, merged)
			}
		}
		return deltas, nil
	}
	table[ns.Q(ns.List, "remove")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		pair, ok := asList(goal.Subject)
		if !ok || len(pair) != 2 {
			return fail()
		}
		elems, ok := asList(pair[0])
		if !ok {
			return fail()
		}
		var out []term.Term
		for _, e := range elems {
			if !term.Equal(e, pair[1]) {
				out = append(out, e)
			}
		}
		return unifyBind(goal.Object, term.List{Elems: out})
	}
	table[ns.Q(ns.List, "reverse")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		elems, ok := asList(goal.Subject)
		if !ok {
			return fail()
		}
		out := make([]term.Term, len(elems))
		for i, e := range elems {
			out[len(elems)-1-i] = e
		}
		return unifyBind(goal.Object, term.List{Elems: out})
	}
	table[ns.Q(ns.List, "sort")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		elems, ok := asList(goal.Subject)
		if !ok {
			return fail()
		}
		out := append([]term.Term{}, elems...)
		sort.SliceStable(out, func(i, j int) bool {
			ni, oki := asNumeric(out[i])
			nj, okj := asNumeric(out[j])
			if oki && okj {
				return term.Compare(ni, nj) < 0
			}
			si, oksi := asString(out[i])
			sj, oksj := asString(out[j])
			if oksi && oksj {
				return si < sj
			}
			return out[i].String() < out[j].String()
		})
		return unifyBind(goal.Object, term.List{Elems: out})
	}
	table[ns.Q(ns.List, "append")] = listAppend

	table[ns.Q(ns.List, "map")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		pair, ok := asList(goal.Subject)
		if !ok || len(pair) != 2 {
			return fail()
		}
		elems, ok := asList(pair[0])
		if !ok {
			return fail()
		}
		pred, ok := pair[1].(*term.IRI)
		if !ok {
			return fail()
		}
		fn, ok := ctx.Builtins[pred.Value]
		if !ok {
			return fail()
		}
		var out []term.Term
		for _, e := range elems {
			sub := term.Var("_mapResult")
			deltas, err := fn(ctx, term.Triple{Subject: e, Predicate: pred, Object: sub}, subst.New())
			if err != nil {
				return nil, err
			}
			if len(deltas) == 0 {
				return fail()
			}
			out = append(out, subst.Apply(sub, deltas[0]))
		}
		return unifyBind(goal.Object, term.List{Elems: out})
	}
}

// listAppend implements list:append including the splitting mode
// documented in §4.2: when the result is ground and the parts are
// variables, it enumerates every way to split the result list, using
// the integer/decimal cross-equality exception during part matching.
func listAppend(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
	parts, isList := asList(goal.Subject)
	if isList {
		var out []term.Term
		allLists := true
		for _, p := range parts {
			sub, ok := asList(p)
			if !ok {
				allLists = false
				break
			}
			out = append(out, sub...)
		}
		if allLists {
			return unifyBind(goal.Object, term.List{Elems: out})
		}
	}

	whole, ok := asList(goal.Object)
	if !ok {
		return fail()
	}
	var deltas []subst.Subst
	for i := 0; i <= len(whole); i++ {
		left := term.List{Elems: append([]term.Term{}, whole[:i]...)}
		right := term.List{Elems: append([]term.Term{}, whole[i:]...)}
		if merged, ok := subst.UnifyListSplit(goal.Subject, term.List{Elems: []term.Term{left, right}}, s); ok {
			delta := subst.New()
			for k, v := range merged {
				if _, already := s[k]; !already {
					delta[k] = v
				}
			}
			deltas = append(deltas, delta)
		}
	}
	return deltas, nil
}
