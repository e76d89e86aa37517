// Package subst implements substitutions and structural unification
// over the term model (§4.2).
package subst

import "n3reason/internal/term"

// Subst is a finite map from variable names to terms.
type Subst map[term.Var]term.Term

// New returns an empty substitution.
func New() Subst {
	return Subst{}
}

// Clone returns a shallow copy, safe to extend independently of σ.
func (s Subst) Clone() Subst {
	cp := make(Subst, len(s))
	for k, v := range s {
		cp[k] = v
	}
	return cp
}

// Bind returns a new substitution extending s with v ↦ t.
func (s Subst) Bind(v term.Var, t term.Term) Subst {
	cp := s.Clone()
	cp[v] = t
	return cp
}

// Apply recursively substitutes σ into t, chasing var→var chains with a
// cycle guard (§4.2).
func Apply(t term.Term, s Subst) term.Term {
	return applyDepth(t, s, 0)
}

const maxChase = 10000

func applyDepth(t term.Term, s Subst, depth int) term.Term {
	switch x := t.(type) {
	case term.Var:
		if depth > maxChase {
			return x
		}
		if bound, ok := s[x]; ok {
			if bv, isVar := bound.(term.Var); isVar && bv == x {
				return x
			}
			return applyDepth(bound, s, depth+1)
		}
		return x
	case term.List:
		elems := make([]term.Term, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = applyDepth(e, s, depth)
		}
		return term.List{Elems: elems}
	case term.OpenList:
		prefix := make([]term.Term, len(x.Prefix))
		for i, e := range x.Prefix {
			prefix[i] = applyDepth(e, s, depth)
		}
		tail := applyDepth(x.Tail, s, depth)
		switch tv := tail.(type) {
		case term.List:
			return term.List{Elems: append(prefix, tv.Elems...)}
		case term.OpenList:
			return term.OpenList{Prefix: append(prefix, tv.Prefix...), Tail: tv.Tail}
		case term.Var:
			return term.OpenList{Prefix: prefix, Tail: tv}
		default:
			// tail bound to something odd; keep structurally as-is.
			return term.OpenList{Prefix: prefix, Tail: x.Tail}
		}
	case *term.Formula:
		triples := make([]term.Triple, len(x.Triples))
		for i, tr := range x.Triples {
			triples[i] = ApplyTriple(tr, s)
		}
		return &term.Formula{Triples: triples}
	default:
		return t
	}
}

// ApplyTriple applies σ across all three positions of a triple.
func ApplyTriple(t term.Triple, s Subst) term.Triple {
	return term.Triple{
		Subject:   Apply(t.Subject, s),
		Predicate: Apply(t.Predicate, s),
		Object:    Apply(t.Object, s),
	}
}

// ApplyTriples applies σ across a triple list.
func ApplyTriples(ts []term.Triple, s Subst) []term.Triple {
	out := make([]term.Triple, len(ts))
	for i, t := range ts {
		out[i] = ApplyTriple(t, s)
	}
	return out
}

// Compose merges outer and delta; when a name is bound in both, the
// bound terms must already be (structurally) equal, otherwise
// composition fails and Compose returns (nil, false) (§4.2).
func Compose(outer, delta Subst) (Subst, bool) {
	merged := outer.Clone()
	for k, v := range delta {
		if existing, ok := merged[k]; ok {
			if !term.Equal(Apply(existing, merged), Apply(v, merged)) {
				return nil, false
			}
			continue
		}
		merged[k] = v
	}
	return merged, true
}

// Project restricts s to the variable names in keep.
func Project(s Subst, keep map[string]struct{}) Subst {
	out := New()
	for k, v := range s {
		if _, ok := keep[string(k)]; ok {
			out[k] = v
		}
	}
	return out
}
