package builtins

import (
	"n3reason/internal/ns"
	"n3reason/internal/prover"
	"n3reason/internal/store"
	"n3reason/internal/subst"
	"n3reason/internal/term"
)

func addLog(table map[string]prover.BuiltinFunc) {
	table[ns.Q(ns.Log, "equalTo")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		if term.Equal(goal.Subject, goal.Object) {
			return ok()
		}
		return fail()
	}
	table[ns.Q(ns.Log, "notEqualTo")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		if !term.Equal(goal.Subject, goal.Object) {
			return ok()
		}
		return fail()
	}

	table[ns.Q(ns.Log, "conjunction")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		elems, isList := asList(goal.Subject)
		if !isList {
			return fail()
		}
		seen := map[string]struct{}{}
		var out []term.Triple
		for _, e := range elems {
			f, isFormula := e.(*term.Formula)
			if !isFormula {
				return fail()
			}
			for _, tr := range f.Triples {
				if k, keyable := fastTripleKey(tr); keyable {
					if _, dup := seen[k]; dup {
						continue
					}
					seen[k] = struct{}{}
				}
				out = append(out, tr)
			}
		}
		return unifyBind(goal.Object, term.NewFormula(out))
	}

	table[ns.Q(ns.Log, "conclusion")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		f, isFormula := goal.Subject.(*term.Formula)
		if !isFormula || ctx.Conclusion == nil {
			return fail()
		}
		derived, err := ctx.Conclusion(f.Triples)
		if err != nil {
			return nil, err
		}
		return unifyBind(goal.Object, term.NewFormula(derived))
	}

	table[ns.Q(ns.Log, "implies")] = impliesLike(false)
	table[ns.Q(ns.Log, "impliedBy")] = impliesLike(true)

	table[ns.Q(ns.Log, "includes")] = includesLike(true)
	table[ns.Q(ns.Log, "notIncludes")] = includesLike(false)

	table[ns.Q(ns.Log, "forAllIn")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		pair, isList := asList(goal.Subject)
		if !isList || len(pair) != 2 {
			return fail()
		}
		where, ok1 := pair[0].(*term.Formula)
		then, ok2 := pair[1].(*term.Formula)
		if !ok1 || !ok2 {
			return fail()
		}
		scoped := ctx.WithStore(ctx.ScopeStore())
		whereSolutions, err := prover.Prove(scoped, where.Triples, subst.New(), 0)
		if err != nil {
			return nil, err
		}
		for _, sol := range whereSolutions {
			thenGoals := subst.ApplyTriples(then.Triples, sol)
			solved, err := prover.Prove(scoped, thenGoals, subst.New(), 1)
			if err != nil {
				return nil, err
			}
			if len(solved) == 0 {
				return fail()
			}
		}
		return ok()
	}

	table[ns.Q(ns.Log, "collectAllIn")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		pair, isList := asList(goal.Subject)
		if !isList || len(pair) != 2 {
			return fail()
		}
		where, ok1 := pair[0].(*term.Formula)
		then, ok2 := pair[1].(*term.Formula)
		if !ok1 || !ok2 {
			return fail()
		}
		scoped := ctx.WithStore(ctx.ScopeStore())
		whereSolutions, err := prover.Prove(scoped, where.Triples, subst.New(), 0)
		if err != nil {
			return nil, err
		}
		var collected []term.Term
		for _, sol := range whereSolutions {
			collected = append(collected, term.NewFormula(subst.ApplyTriples(then.Triples, sol)))
		}
		return unifyBind(goal.Object, term.List{Elems: collected})
	}

	table[ns.Q(ns.Log, "trace")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		str, isStr := asString(goal.Subject)
		if !isStr {
			str = goal.Subject.String()
		}
		if ctx.Trace != nil {
			ctx.Trace(str)
		}
		return ok()
	}

	table[ns.Q(ns.Log, "outputString")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		text, isStr := asString(goal.Object)
		if !isStr {
			return fail()
		}
		if ctx.RecordOutputString != nil {
			ctx.RecordOutputString(goal.Subject.String(), text)
		}
		return ok()
	}

	table[ns.Q(ns.Log, "skolem")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		if !term.Ground(goal.Subject) || ctx.Skolem == nil {
			return fail()
		}
		return unifyBind(goal.Object, ctx.Skolem(goal.Subject))
	}

	table[ns.Q(ns.Log, "uri")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		if iri, isIRI := goal.Subject.(*term.IRI); isIRI {
			return unifyBind(goal.Object, stringTerm(ctx.Interner, iri.Value))
		}
		if str, isStr := asString(goal.Object); isStr {
			return unifyBind(goal.Subject, ctx.Interner.IRI(str))
		}
		return fail()
	}

	table[ns.Q(ns.Log, "dtlit")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		if pair, isList := asList(goal.Subject); isList && len(pair) == 2 {
			lex, ok1 := asString(pair[0])
			dt, ok2 := pair[1].(*term.IRI)
			if !ok1 || !ok2 {
				return fail()
			}
			return unifyBind(goal.Object, ctx.Interner.Typed(lex, dt.Value))
		}
		lit, isLit := goal.Subject.(*term.Literal)
		if !isLit {
			return fail()
		}
		lex, dt, _, err := lit.Decompose()
		if err != nil {
			return fail()
		}
		return unifyBind(goal.Object, term.List{Elems: []term.Term{stringTerm(ctx.Interner, lex), ctx.Interner.IRI(dt)}})
	}

	table[ns.Q(ns.Log, "langlit")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		if pair, isList := asList(goal.Subject); isList && len(pair) == 2 {
			lex, ok1 := asString(pair[0])
			lang, ok2 := asString(pair[1])
			if !ok1 || !ok2 {
				return fail()
			}
			return unifyBind(goal.Object, ctx.Interner.Lang(lex, lang))
		}
		lit, isLit := goal.Subject.(*term.Literal)
		if !isLit {
			return fail()
		}
		lex, _, lang, err := lit.Decompose()
		if err != nil || lang == "" {
			return fail()
		}
		return unifyBind(goal.Object, term.List{Elems: []term.Term{stringTerm(ctx.Interner, lex), stringTerm(ctx.Interner, lang)}})
	}

	table[ns.Q(ns.Log, "rawType")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		var kind string
		switch goal.Subject.(type) {
		case *term.Formula:
			kind = "Formula"
		case *term.Literal:
			kind = "Literal"
		case term.List, term.OpenList:
			kind = "List"
		default:
			kind = "Other"
		}
		return unifyBind(goal.Object, ctx.Interner.IRI(ns.Log+kind))
	}

	table[ns.Q(ns.Log, "content")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		if ctx.SuperRestricted || ctx.FetchContent == nil {
			return fail()
		}
		iri, isIRI := goal.Subject.(*term.IRI)
		if !isIRI {
			return fail()
		}
		content, err := ctx.FetchContent(iri.Value)
		if err != nil {
			return fail()
		}
		return unifyBind(goal.Object, stringTerm(ctx.Interner, content))
	}

	table[ns.Q(ns.Log, "parsedAsN3")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		if ctx.SuperRestricted || ctx.ParseN3 == nil {
			return fail()
		}
		content, isStr := asString(goal.Subject)
		if !isStr {
			return fail()
		}
		f, err := ctx.ParseN3(content)
		if err != nil {
			return fail()
		}
		return unifyBind(goal.Object, f)
	}

	semantics := func(orError bool) prover.BuiltinFunc {
		return func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
			if ctx.SuperRestricted || ctx.FetchContent == nil || ctx.ParseN3 == nil {
				return fail()
			}
			iri, isIRI := goal.Subject.(*term.IRI)
			if !isIRI {
				return fail()
			}
			content, err := ctx.FetchContent(iri.Value)
			if err != nil {
				if orError {
					return unifyBind(goal.Object, stringTerm(ctx.Interner, err.Error()))
				}
				return fail()
			}
			f, err := ctx.ParseN3(content)
			if err != nil {
				if orError {
					return unifyBind(goal.Object, stringTerm(ctx.Interner, err.Error()))
				}
				return fail()
			}
			return unifyBind(goal.Object, f)
		}
	}
	table[ns.Q(ns.Log, "semantics")] = semantics(false)
	table[ns.Q(ns.Log, "semanticsOrError")] = semantics(true)
}

func impliesLike(swapped bool) prover.BuiltinFunc {
	return func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		var deltas []subst.Subst
		consider := func(premise, head *term.Formula) {
			a, b := premise, head
			if swapped {
				a, b = head, premise
			}
			s1, ok1 := subst.Unify(goal.Subject, term.Term(a), subst.New())
			if !ok1 {
				return
			}
			s2, ok2 := subst.Unify(goal.Object, term.Term(b), s1)
			if !ok2 {
				return
			}
			deltas = append(deltas, s2)
		}
		for _, r := range ctx.Forward {
			consider(term.NewFormula(r.Premise), term.NewFormula(r.Conclusion))
		}
		for _, r := range ctx.AllBackward() {
			consider(term.NewFormula(r.Premise), term.NewFormula(r.Conclusion))
		}
		return deltas, nil
	}
}

func includesLike(wantProvable bool) prover.BuiltinFunc {
	return func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		f, isFormula := goal.Object.(*term.Formula)
		if !isFormula {
			return fail()
		}
		worldCtx := ctx.WithStore(worldStore(ctx, goal.Subject))
		solutions, err := prover.Prove(worldCtx, f.Triples, subst.New(), 1)
		if err != nil {
			return nil, err
		}
		provable := len(solutions) > 0
		if provable == wantProvable {
			return ok()
		}
		return fail()
	}
}

// worldStore resolves a log:includes/notIncludes goal's Subject to the
// store its Object formula must be proved against. A formula subject
// defines its own world: a fresh store holding only its ground triples,
// so neither the live store nor the scoped-closure snapshot contributes
// facts to it (backward rules still apply). A Var or scope-level
// integer literal subject carries no world of its own and just selects
// the enclosing scope snapshot (§4.6).
func worldStore(ctx *prover.Context, subject term.Term) *store.Store {
	f, isFormula := subject.(*term.Formula)
	if !isFormula {
		return ctx.ScopeStore()
	}
	world := store.New()
	for _, t := range f.Triples {
		if term.TripleGround(t) {
			world.Add(t)
		}
	}
	return world
}

func fastTripleKey(t term.Triple) (string, bool) {
	sk, ok1 := fastTermKey(t.Subject)
	pk, ok2 := fastTermKey(t.Predicate)
	ok3v, ok3 := fastTermKey(t.Object)
	if !ok1 || !ok2 || !ok3 {
		return "", false
	}
	return sk + "|" + pk + "|" + ok3v, true
}

func fastTermKey(t term.Term) (string, bool) {
	switch x := t.(type) {
	case *term.IRI:
		return "i:" + x.Value, true
	case *term.Literal:
		return "l:" + x.Raw, true
	}
	return "", false
}
