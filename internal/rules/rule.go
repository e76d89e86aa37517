// Package rules implements the Rule type and the normalization passes
// §4.6 requires before a rule participates in the forward engine:
// blank-premise lifting and premise reordering.
package rules

import (
	"fmt"
	"sort"

	"n3reason/internal/ns"
	"n3reason/internal/term"
)

// Rule carries a premise, a conclusion, a direction flag, a fuse flag,
// and the set of blank labels exclusive to the head (§3).
type Rule struct {
	Premise    []term.Triple
	Conclusion []term.Triple
	Forward    bool // true: "=>" ; false: "<="
	Fuse       bool // forward rule whose conclusion is literal false
	HeadBlanks map[string]struct{}

	// Index is the rule's position in the engine's rule list, used as
	// part of the firing key for skolemization (§4.6).
	Index int
}

// NewForward builds a forward rule `{premise} => {conclusion}` and runs
// normalization. A premise of `true` (represented as nil/empty) fires
// unconditionally; a conclusion of literal `false` (represented by the
// caller passing isFuse=true) is a fuse.
func NewForward(premise, conclusion []term.Triple, isFuse bool) (*Rule, error) {
	r := &Rule{Premise: premise, Conclusion: conclusion, Forward: true, Fuse: isFuse}
	if err := r.normalize(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewBackward builds a backward rule `{head} <= {body}` and runs
// normalization. Conclusion holds the head, Premise holds the body.
func NewBackward(head, body []term.Triple) (*Rule, error) {
	r := &Rule{Premise: body, Conclusion: head, Forward: false}
	if err := r.normalize(); err != nil {
		return nil, err
	}
	return r, nil
}

// normalize performs the two passes of §4.6: lifting premise blanks to
// fresh Vars (consistently across premise and conclusion), and
// reordering the premise so constraint-like builtins run last.
func (r *Rule) normalize() error {
	premiseBlanks := blanksIn(r.Premise)
	if len(premiseBlanks) > 0 {
		renaming := make(map[string]term.Var, len(premiseBlanks))
		n := 0
		names := make([]string, 0, len(premiseBlanks))
		for b := range premiseBlanks {
			names = append(names, b)
		}
		sort.Strings(names)
		for _, b := range names {
			renaming[b] = term.Var(fmt.Sprintf("_lifted_%d_%s", n, sanitize(b)))
			n++
		}
		r.Premise = renameBlanks(r.Premise, renaming)
		r.Conclusion = renameBlanks(r.Conclusion, renaming)
	}

	r.HeadBlanks = term.BlanksOfHead(r.Conclusion)
	r.Premise = reorderPremise(r.Premise)
	return nil
}

func sanitize(label string) string {
	out := make([]rune, 0, len(label))
	for _, c := range label {
		if c == ':' || c == '_' {
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

func blanksIn(triples []term.Triple) map[string]struct{} {
	out := map[string]struct{}{}
	var walk func(t term.Term)
	walk = func(t term.Term) {
		switch x := t.(type) {
		case term.Blank:
			out[string(x)] = struct{}{}
		case term.List:
			for _, e := range x.Elems {
				walk(e)
			}
		case term.OpenList:
			for _, e := range x.Prefix {
				walk(e)
			}
		case *term.Formula:
			for _, tr := range x.Triples {
				walk(tr.Subject)
				walk(tr.Predicate)
				walk(tr.Object)
			}
		}
	}
	for _, t := range triples {
		walk(t.Subject)
		walk(t.Predicate)
		walk(t.Object)
	}
	return out
}

func renameBlanks(triples []term.Triple, renaming map[string]term.Var) []term.Triple {
	out := make([]term.Triple, len(triples))
	for i, t := range triples {
		out[i] = term.Triple{
			Subject:   renameBlank(t.Subject, renaming),
			Predicate: renameBlank(t.Predicate, renaming),
			Object:    renameBlank(t.Object, renaming),
		}
	}
	return out
}

func renameBlank(t term.Term, renaming map[string]term.Var) term.Term {
	switch x := t.(type) {
	case term.Blank:
		if v, ok := renaming[string(x)]; ok {
			return v
		}
		return x
	case term.List:
		elems := make([]term.Term, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = renameBlank(e, renaming)
		}
		return term.List{Elems: elems}
	case term.OpenList:
		prefix := make([]term.Term, len(x.Prefix))
		for i, e := range x.Prefix {
			prefix[i] = renameBlank(e, renaming)
		}
		return term.OpenList{Prefix: prefix, Tail: x.Tail}
	case *term.Formula:
		triples := make([]term.Triple, len(x.Triples))
		for i, tr := range x.Triples {
			triples[i] = term.Triple{
				Subject:   renameBlank(tr.Subject, renaming),
				Predicate: renameBlank(tr.Predicate, renaming),
				Object:    renameBlank(tr.Object, renaming),
			}
		}
		return &term.Formula{Triples: triples}
	default:
		return t
	}
}

// constraintPredicates are the "pure test" builtins that §4.6 requires
// to be reordered to the end of a rule's premise, so they only evaluate
// once bindings from earlier goals exist.
var constraintPredicates = map[string]bool{
	ns.Q(ns.Math, "equalTo"):          true,
	ns.Q(ns.Math, "notEqualTo"):       true,
	ns.Q(ns.Math, "lessThan"):         true,
	ns.Q(ns.Math, "greaterThan"):      true,
	ns.Q(ns.Math, "notLessThan"):      true,
	ns.Q(ns.Math, "notGreaterThan"):   true,
	ns.Q(ns.List, "notMember"):        true,
	ns.Q(ns.Log, "notIncludes"):       true,
	ns.Q(ns.Log, "notEqualTo"):        true,
	ns.Q(ns.Log, "outputString"):      true,
	ns.Q(ns.Log, "forAllIn"):          true,
	ns.Q(ns.String, "contains"):       true,
	ns.Q(ns.String, "startsWith"):     true,
	ns.Q(ns.String, "endsWith"):       true,
	ns.Q(ns.String, "matches"):        true,
	ns.Q(ns.String, "notMatches"):     true,
	ns.Q(ns.String, "equalIgnoringCase"):    true,
	ns.Q(ns.String, "notEqualIgnoringCase"): true,
}

func isConstraintGoal(t term.Triple) bool {
	iri, ok := t.Predicate.(*term.IRI)
	if !ok {
		return false
	}
	return constraintPredicates[iri.Value]
}

// reorderPremise is a stable partition: non-constraint goals first (in
// their original relative order), then constraint goals (also in their
// original relative order).
func reorderPremise(premise []term.Triple) []term.Triple {
	var first, last []term.Triple
	for _, t := range premise {
		if isConstraintGoal(t) {
			last = append(last, t)
		} else {
			first = append(first, t)
		}
	}
	return append(first, last...)
}

// StandardizeApart renames every Var in the rule to a fresh name,
// suffixed with a unique generation counter, so the rule's variables
// never collide with a goal's (§4.4). Blanks are left untouched; they
// are handled by the forward engine's skolemization, not the prover.
func (r *Rule) StandardizeApart(gen int) *Rule {
	vars := term.VarsOfTriples(r.Premise)
	for v := range term.VarsOfTriples(r.Conclusion) {
		vars[v] = struct{}{}
	}
	renaming := make(map[string]term.Var, len(vars))
	for v := range vars {
		renaming[v] = term.Var(fmt.Sprintf("%s_%%%d", v, gen))
	}
	return &Rule{
		Premise:    renameVars(r.Premise, renaming),
		Conclusion: renameVars(r.Conclusion, renaming),
		Forward:    r.Forward,
		Fuse:       r.Fuse,
		HeadBlanks: r.HeadBlanks,
		Index:      r.Index,
	}
}

func renameVars(triples []term.Triple, renaming map[string]term.Var) []term.Triple {
	out := make([]term.Triple, len(triples))
	for i, t := range triples {
		out[i] = term.Triple{
			Subject:   renameVar(t.Subject, renaming),
			Predicate: renameVar(t.Predicate, renaming),
			Object:    renameVar(t.Object, renaming),
		}
	}
	return out
}

func renameVar(t term.Term, renaming map[string]term.Var) term.Term {
	switch x := t.(type) {
	case term.Var:
		if v, ok := renaming[string(x)]; ok {
			return v
		}
		return x
	case term.List:
		elems := make([]term.Term, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = renameVar(e, renaming)
		}
		return term.List{Elems: elems}
	case term.OpenList:
		prefix := make([]term.Term, len(x.Prefix))
		for i, e := range x.Prefix {
			prefix[i] = renameVar(e, renaming)
		}
		tail := x.Tail
		if v, ok := renaming[string(x.Tail)]; ok {
			tail = v
		}
		return term.OpenList{Prefix: prefix, Tail: tail}
	case *term.Formula:
		triples := make([]term.Triple, len(x.Triples))
		for i, tr := range x.Triples {
			triples[i] = term.Triple{
				Subject:   renameVar(tr.Subject, renaming),
				Predicate: renameVar(tr.Predicate, renaming),
				Object:    renameVar(tr.Object, renaming),
			}
		}
		return &term.Formula{Triples: triples}
	default:
		return t
	}
}

// HeadIsStrictlyGround reports whether every conclusion triple is
// ground with no vars, blanks, open lists, or nested non-ground parts —
// used by the forward engine to decide whether maxResults=1 suffices
// (§4.6).
func (r *Rule) HeadIsStrictlyGround() bool {
	for _, t := range r.Conclusion {
		if !term.TripleGround(t) {
			return false
		}
		if containsBlank(t.Subject) || containsBlank(t.Predicate) || containsBlank(t.Object) {
			return false
		}
	}
	return true
}

func containsBlank(t term.Term) bool {
	switch x := t.(type) {
	case term.Blank:
		return true
	case term.List:
		for _, e := range x.Elems {
			if containsBlank(e) {
				return true
			}
		}
	case *term.Formula:
		for _, tr := range x.Triples {
			if containsBlank(tr.Subject) || containsBlank(tr.Predicate) || containsBlank(tr.Object) {
				return true
			}
		}
	}
	return false
}
