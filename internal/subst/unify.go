package subst

import "n3reason/internal/term"

// Unify performs standard structural unification (§4.2). Literal
// equality is strict within a datatype family (identical lexicals,
// xsd:string/plain aliasing, or same-datatype numeric equality) — it
// does NOT cross integer and decimal. Use UnifyListSplit for the one
// documented exception (list:append splitting).
func Unify(a, b term.Term, s Subst) (Subst, bool) {
	return unify(a, b, s, false)
}

// UnifyListSplit is the list:append-splitting variant that additionally
// treats integer and decimal literals with equal numeric value as equal
// (§4.2).
func UnifyListSplit(a, b term.Term, s Subst) (Subst, bool) {
	return unify(a, b, s, true)
}

func unify(a, b term.Term, s Subst, crossIntDecimal bool) (Subst, bool) {
	a = Apply(a, s)
	b = Apply(b, s)

	if av, ok := a.(term.Var); ok {
		return bindVar(av, b, s)
	}
	if bv, ok := b.(term.Var); ok {
		return bindVar(bv, a, s)
	}

	switch x := a.(type) {
	case *term.IRI:
		y, ok := b.(*term.IRI)
		return s, ok && x == y
	case term.Blank:
		y, ok := b.(term.Blank)
		return s, ok && x == y
	case *term.Literal:
		y, ok := b.(*term.Literal)
		if !ok {
			return nil, false
		}
		if crossIntDecimal {
			return s, literalsEqualCrossIntDecimal(x, y)
		}
		return s, term.LiteralsEqualNoIntDecimal(x, y)
	case term.List:
		return unifyList(x, b, s, crossIntDecimal)
	case term.OpenList:
		return unifyOpenList(x, b, s, crossIntDecimal)
	case *term.Formula:
		y, ok := b.(*term.Formula)
		if !ok {
			return nil, false
		}
		return unifyFormulas(x, y, s)
	}
	return nil, false
}

func literalsEqualCrossIntDecimal(a, b *term.Literal) bool {
	if term.LiteralsEqual(a, b) {
		return true
	}
	_, dta, _, erra := a.Decompose()
	_, dtb, _, errb := b.Decompose()
	if erra != nil || errb != nil {
		return false
	}
	if (dta == term.XSDInteger && dtb == term.XSDDecimal) || (dta == term.XSDDecimal && dtb == term.XSDInteger) {
		la, _, _, _ := a.Decompose()
		lb, _, _, _ := b.Decompose()
		na, oka := term.ParseNumeric(la, dta)
		nb, okb := term.ParseNumeric(lb, dtb)
		return oka && okb && term.Compare(na, nb) == 0
	}
	return false
}

func bindVar(v term.Var, t term.Term, s Subst) (Subst, bool) {
	if tv, ok := t.(term.Var); ok && tv == v {
		return s, true
	}
	if occurs(v, t) {
		return nil, false
	}
	return s.Bind(v, t), true
}

// occurs performs the occurs-check via a structural scan (§4.2).
func occurs(v term.Var, t term.Term) bool {
	switch x := t.(type) {
	case term.Var:
		return x == v
	case term.List:
		for _, e := range x.Elems {
			if occurs(v, e) {
				return true
			}
		}
	case term.OpenList:
		if x.Tail == v {
			return true
		}
		for _, e := range x.Prefix {
			if occurs(v, e) {
				return true
			}
		}
	case *term.Formula:
		for _, tr := range x.Triples {
			if occurs(v, tr.Subject) || occurs(v, tr.Predicate) || occurs(v, tr.Object) {
				return true
			}
		}
	}
	return false
}

func unifyList(x term.List, b term.Term, s Subst, cross bool) (Subst, bool) {
	switch y := b.(type) {
	case term.List:
		if len(x.Elems) != len(y.Elems) {
			return nil, false
		}
		cur := s
		for i := range x.Elems {
			var ok bool
			cur, ok = unify(x.Elems[i], y.Elems[i], cur, cross)
			if !ok {
				return nil, false
			}
		}
		return cur, true
	case term.OpenList:
		return unifyOpenList(y, x, s, cross)
	}
	return nil, false
}

func unifyOpenList(x term.OpenList, b term.Term, s Subst, cross bool) (Subst, bool) {
	switch y := b.(type) {
	case term.List:
		if len(y.Elems) < len(x.Prefix) {
			return nil, false
		}
		cur := s
		for i, p := range x.Prefix {
			var ok bool
			cur, ok = unify(p, y.Elems[i], cur, cross)
			if !ok {
				return nil, false
			}
		}
		rest := term.List{Elems: append([]term.Term{}, y.Elems[len(x.Prefix):]...)}
		return bindVar(x.Tail, rest, cur)
	case term.OpenList:
		if x.Tail == y.Tail && len(x.Prefix) == len(y.Prefix) {
			cur := s
			for i := range x.Prefix {
				var ok bool
				cur, ok = unify(x.Prefix[i], y.Prefix[i], cur, cross)
				if !ok {
					return nil, false
				}
			}
			return cur, true
		}
		return nil, false
	}
	return nil, false
}

// unifyFormulas succeeds only when the two formulas are α-equivalent
// (term.FormulasEqual), leaving s unchanged. It does not bind variables
// of the enclosing substitution to parts of the other formula: a formula
// containing a free var unifies only with a formula that has a var or
// blank in the same place, never with one that has a concrete term there.
func unifyFormulas(x, y *term.Formula, s Subst) (Subst, bool) {
	if term.FormulasEqual(x, y) {
		return s, true
	}
	return nil, false
}
