package builtins

import (
	"n3reason/internal/subst"
	"n3reason/internal/term"
)

// ok wraps a single successful, binding-free match — used by pure tests
// that succeed with no new bindings (§4.5).
func ok() ([]subst.Subst, error) {
	return []subst.Subst{subst.New()}, nil
}

// fail reports a builtin shape mismatch or false test: zero solutions,
// not an error (§4.5).
func fail() ([]subst.Subst, error) {
	return nil, nil
}

// bind reports a single solution binding v to t.
func bind(v term.Var, t term.Term) ([]subst.Subst, error) {
	return []subst.Subst{subst.New().Bind(v, t)}, nil
}

// asList returns the elements of t if it is a closed List, else ok=false.
func asList(t term.Term) ([]term.Term, bool) {
	l, ok := t.(term.List)
	if !ok {
		return nil, false
	}
	return l.Elems, true
}

// asNumeric decomposes t as a numeric literal.
func asNumeric(t term.Term) (term.Numeric, bool) {
	lit, ok := t.(*term.Literal)
	if !ok {
		return term.Numeric{}, false
	}
	lex, dt, _, err := lit.Decompose()
	if err != nil || !term.IsNumericDatatype(dt) {
		return term.Numeric{}, false
	}
	return term.ParseNumeric(lex, dt)
}

// asString returns t's lexical form if t is a string-family literal
// (plain xsd:string or lang-tagged) — not a numeric, date/time, or other
// typed literal whose lexical happens to parse, so e.g.
// string:concatenation can't silently consume an integer's digits.
func asString(t term.Term) (string, bool) {
	lit, ok := t.(*term.Literal)
	if !ok {
		return "", false
	}
	lex, dt, _, err := lit.Decompose()
	if err != nil || (dt != term.XSDString && dt != term.RDFLangStr) {
		return "", false
	}
	return lex, true
}

func numericTerm(in *term.Interner, n term.Numeric) term.Term {
	return in.Typed(n.Lexical(), n.Datatype)
}

func stringTerm(in *term.Interner, s string) term.Term {
	return in.String(s)
}

// unifyBind attempts to unify goal's output position (already resolved)
// against the computed value, producing the corresponding delta.
func unifyBind(output term.Term, computed term.Term) ([]subst.Subst, error) {
	if v, isVar := output.(term.Var); isVar {
		return bind(v, computed)
	}
	if term.Equal(output, computed) {
		return ok()
	}
	return fail()
}
