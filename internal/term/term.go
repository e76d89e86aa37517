// Package term implements the immutable term model of §3: interned IRIs
// and literals, universal variables, blank nodes, lists (closed and
// open-tailed), and quoted formulas.
package term

import "fmt"

// Term is any value that can appear in subject, predicate, or object
// position. The concrete cases are *IRI, *Literal, Var, Blank, List,
// OpenList, and *Formula.
type Term interface {
	isTerm()
	String() string
}

// IRI is an interned absolute resource identifier. Two IRIs with the
// same Value are always the same pointer (see Interner).
type IRI struct {
	Value string
}

func (i *IRI) isTerm()        {}
func (i *IRI) String() string { return fmt.Sprintf("<%s>", i.Value) }

// Var is a universal rule variable, distinct from Blank.
type Var string

func (v Var) isTerm()        {}
func (v Var) String() string { return "?" + string(v) }

// Blank is an existentially scoped node label, e.g. "_:b3". Blanks
// inside a quoted Formula are scoped to that formula.
type Blank string

func (b Blank) isTerm()        {}
func (b Blank) String() string { return string(b) }

// List is a finite, fully-known ordered sequence (an RDF collection).
type List struct {
	Elems []Term
}

func (l List) isTerm() {}
func (l List) String() string {
	s := "("
	for i, e := range l.Elems {
		if i > 0 {
			s += " "
		}
		s += e.String()
	}
	return s + ")"
}

// OpenList is a partially known list: a fixed prefix followed by a
// variable tail, written "(a b | ?t)". Unifying it with a List binds the
// tail to the remaining elements; two Lists of different lengths do not
// unify.
type OpenList struct {
	Prefix []Term
	Tail   Var
}

func (l OpenList) isTerm() {}
func (l OpenList) String() string {
	s := "("
	for _, e := range l.Prefix {
		s += e.String() + " "
	}
	return s + "| " + l.Tail.String() + ")"
}

// Formula is a quoted graph: an unordered multiset of triples, compared
// up to α-renaming of its interior Vars and Blanks (see Equal).
type Formula struct {
	Triples []Triple
}

func (f *Formula) isTerm() {}
func (f *Formula) String() string {
	s := "{"
	for i, t := range f.Triples {
		if i > 0 {
			s += ". "
		}
		s += t.String()
	}
	return s + "}"
}

// Triple is a 3-tuple of terms. Predicates are typically IRIs but may
// be arbitrary terms (e.g. a Var during rule standardization).
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

func (t Triple) String() string {
	return t.Subject.String() + " " + t.Predicate.String() + " " + t.Object.String() + " ."
}

// NewFormula builds a Formula from triples, copying the slice so the
// caller's backing array can't mutate it afterward.
func NewFormula(triples []Triple) *Formula {
	cp := make([]Triple, len(triples))
	copy(cp, triples)
	return &Formula{Triples: cp}
}
