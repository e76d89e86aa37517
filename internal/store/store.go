// Package store implements the append-only fact store and its derived
// indexes (§4.3).
package store

import (
	"sort"

	"n3reason/internal/term"
)

// Store is an append-only sequence of ground triples whose indexes are
// updated on every Add. Facts are never retracted (§3's Lifecycle).
type Store struct {
	facts []term.Triple

	byPredicate map[*term.IRI][]int
	bySubject   map[bucketKey][]int
	byObject    map[bucketKey][]int
	dedup       map[string]struct{}

	// onAppend, if set, is invoked once per newly added fact, in append
	// order.
	onAppend func(term.Triple)
}

type bucketKey struct {
	pred *term.IRI
	key  string
}

// New returns an empty store.
func New() *Store {
	return &Store{
		byPredicate: make(map[*term.IRI][]int),
		bySubject:   make(map[bucketKey][]int),
		byObject:    make(map[bucketKey][]int),
		dedup:       make(map[string]struct{}),
	}
}

// OnAppend registers the append callback.
func (st *Store) OnAppend(fn func(term.Triple)) {
	st.onAppend = fn
}

// Len returns the number of facts currently stored.
func (st *Store) Len() int { return len(st.facts) }

// All returns the full fact slice. Callers must not mutate it.
func (st *Store) All() []term.Triple { return st.facts }

// Snapshot returns a Store sharing no mutable state with st, fixed at
// the current fact count — used to build a scoped-closure snapshot
// (§4.6). Indexes are rebuilt from the copied facts.
func (st *Store) Snapshot() *Store {
	cp := New()
	for _, t := range st.facts {
		cp.Add(t)
	}
	return cp
}

// keyFor renders an IRI or Literal term to an index/dedup key; other
// term kinds (Var, Blank, List, Formula) are not keyed (§4.3).
func keyFor(t term.Term) (string, bool) {
	switch x := t.(type) {
	case *term.IRI:
		return "i:" + x.Value, true
	case *term.Literal:
		return "l:" + x.Raw, true
	}
	return "", false
}

// fastKey computes the dedup key for a fully IRI/literal triple, or
// ("", false) if any position can't be keyed that way (blanks, vars,
// lists, formulas all fall through to strict-equality comparison).
func fastKey(t term.Triple) (string, bool) {
	sk, ok := keyFor(t.Subject)
	if !ok {
		return "", false
	}
	pk, ok := keyFor(t.Predicate)
	if !ok {
		return "", false
	}
	ok2, ok := keyFor(t.Object)
	if !ok {
		return "", false
	}
	return sk + "|" + pk + "|" + ok2, true
}

// Has reports whether t is already present (duplicate detection).
// Fully IRI/literal triples use the O(1) dedup set; triples containing
// blanks use strict structural equality via a linear scan — they are
// not deduplicated modulo blank renaming (§4.3).
func (st *Store) Has(t term.Triple) bool {
	if k, ok := fastKey(t); ok {
		_, present := st.dedup[k]
		return present
	}
	for _, existing := range st.facts {
		if tripleStrictEqual(existing, t) {
			return true
		}
	}
	return false
}

func tripleStrictEqual(a, b term.Triple) bool {
	return term.Equal(a.Subject, b.Subject) && term.Equal(a.Predicate, b.Predicate) && term.Equal(a.Object, b.Object)
}

// Add appends t if it is new and ground, updating all indexes and
// invoking the append callback. Returns whether t was newly added.
func (st *Store) Add(t term.Triple) bool {
	if !term.TripleGround(t) {
		return false
	}
	if st.Has(t) {
		return false
	}
	idx := len(st.facts)
	st.facts = append(st.facts, t)

	if k, ok := fastKey(t); ok {
		st.dedup[k] = struct{}{}
	}
	if pred, ok := t.Predicate.(*term.IRI); ok {
		st.byPredicate[pred] = append(st.byPredicate[pred], idx)
		if sk, ok := keyFor(t.Subject); ok {
			bk := bucketKey{pred: pred, key: "s:" + sk}
			st.bySubject[bk] = append(st.bySubject[bk], idx)
		}
		if ok2, ok := keyFor(t.Object); ok {
			bk := bucketKey{pred: pred, key: "o:" + ok2}
			st.byObject[bk] = append(st.byObject[bk], idx)
		}
	}
	if st.onAppend != nil {
		st.onAppend(t)
	}
	return true
}

// Candidates returns the smallest available index bucket for a goal
// with predicate pred and possibly-ground subject/object (§4.3). Goals
// with a non-IRI predicate fall back to a full scan.
func (st *Store) Candidates(pred, subj, obj term.Term) []term.Triple {
	predIRI, ok := pred.(*term.IRI)
	if !ok {
		return st.facts
	}

	var bySubjIdx, byObjIdx []int
	haveSubj, haveObj := false, false
	if sk, ok := keyFor(subj); ok {
		bySubjIdx, haveSubj = st.bySubject[bucketKey{pred: predIRI, key: "s:" + sk}]
	}
	if ok2, ok := keyFor(obj); ok {
		byObjIdx, haveObj = st.byObject[bucketKey{pred: predIRI, key: "o:" + ok2}]
	}

	var chosen []int
	switch {
	case haveSubj && haveObj:
		if len(bySubjIdx) <= len(byObjIdx) {
			chosen = bySubjIdx
		} else {
			chosen = byObjIdx
		}
	case haveSubj:
		chosen = bySubjIdx
	case haveObj:
		chosen = byObjIdx
	default:
		chosen = st.byPredicate[predIRI]
	}

	out := make([]term.Triple, len(chosen))
	for i, idx := range chosen {
		out[i] = st.facts[idx]
	}
	return out
}

// PredicateCounts returns a sorted summary used by the CLI's --stats
// flag and by closure-idempotence tests (§8).
func (st *Store) PredicateCounts() map[string]int {
	counts := make(map[string]int, len(st.byPredicate))
	for p, idxs := range st.byPredicate {
		counts[p.Value] = len(idxs)
	}
	return counts
}

// SortedPredicates returns predicate IRIs in stable lexical order, for
// deterministic CLI/explain output.
func (st *Store) SortedPredicates() []string {
	counts := st.PredicateCounts()
	out := make([]string, 0, len(counts))
	for p := range counts {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
