// Package prover implements the backward-chaining goal prover (§4.4):
// an explicit-stack depth-first search over facts, backward rules, and
// builtin predicates.
package prover

import (
	"time"

	"n3reason/internal/rules"
	"n3reason/internal/store"
	"n3reason/internal/subst"
	"n3reason/internal/term"
)

// BuiltinFunc resolves a single builtin goal (already σ-applied) against
// the current substitution, returning the deltas — bindings introduced
// by this builtin alone, not yet merged with σ — for each way the
// builtin can succeed. A pure test that succeeds with no new bindings
// returns a single empty delta (subst.New()); zero deltas means the
// goal fails.
type BuiltinFunc func(ctx *Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error)

// Context bundles everything the prover needs to resolve one goal:
// the fact store (possibly a scoped-closure snapshot), the indexed
// backward rules, and the builtin dispatch table. A gen counter is
// shared across nested Contexts (via WithStore) so standardized-apart
// rule variables never collide across a recursive proof.
type Context struct {
	Store            *store.Store
	Backward         map[string][]*rules.Rule
	BackwardWildcard []*rules.Rule
	Builtins         map[string]BuiltinFunc

	// Forward is the live forward-rule list, read (not mutated) by the
	// log:implies/impliedBy enumeration builtins.
	Forward []*rules.Rule

	// Interner is the run's single term interner, needed by builtins
	// that construct new IRIs or literals (arithmetic results, string
	// concatenation, crypto digests, skolem IRIs).
	Interner *term.Interner

	// Now returns the current time for time: builtins; tests and
	// deterministic runs can pin it to a fixed value (§9).
	Now func() time.Time

	// Trace receives diagnostic lines written by log:trace.
	Trace func(line string)

	// RecordOutputString receives key/text pairs written by
	// log:outputString; ordering and collection happen outside the
	// prover (§4.5).
	RecordOutputString func(key, text string)

	// Skolem maps a ground term to a stable IRI in a reserved namespace
	// for the log:skolem builtin, distinct from the forward engine's own
	// head-blank skolemization (§4.6).
	Skolem func(t term.Term) *term.IRI

	// Conclusion computes the deductive closure of a supplied set of
	// premise triples on a fresh store (the current store's facts are not
	// included), for the log:conclusion builtin. Injected by the forward engine so builtins
	// need not import it (which would cycle back to prover).
	Conclusion func(premise []term.Triple) ([]term.Triple, error)

	// FetchContent and ParseN3 are the external collaborators that
	// log:content, log:parsedAsN3, log:semantics, and
	// log:semanticsOrError delegate to (§4.5, §6); nil unless the
	// caller wires a document fetcher and parser in.
	FetchContent func(docIRI string) (string, error)
	ParseN3      func(content string) (*term.Formula, error)

	// SuperRestricted disables every builtin except log:implies and
	// log:impliedBy (§4.5).
	SuperRestricted bool

	// ScopedStore is the forward engine's current scoped-closure
	// snapshot (§4.6), consulted by log:includes/notIncludes/forAllIn/
	// collectAllIn instead of Store. Nil means those builtins test
	// against Store directly, which is correct at scoped-closure level 0.
	ScopedStore *store.Store

	gen *int
}

// ScopeStore returns ScopedStore if set, else Store — the store that
// log:includes/notIncludes/forAllIn/collectAllIn should prove against.
func (ctx *Context) ScopeStore() *store.Store {
	if ctx.ScopedStore != nil {
		return ctx.ScopedStore
	}
	return ctx.Store
}

// NewContext builds a Context from a store, the full backward-rule
// list, and a builtin dispatch table.
func NewContext(st *store.Store, backwardRules []*rules.Rule, builtins map[string]BuiltinFunc) *Context {
	ctx := &Context{
		Store:    st,
		Backward: make(map[string][]*rules.Rule),
		Builtins: builtins,
		gen:      new(int),
	}
	for _, r := range backwardRules {
		ctx.AddBackward(r)
	}
	return ctx
}

// AddBackward indexes a newly derived (rule-as-data) backward rule.
func (ctx *Context) AddBackward(r *rules.Rule) {
	if len(r.Conclusion) == 0 {
		ctx.BackwardWildcard = append(ctx.BackwardWildcard, r)
		return
	}
	if iri, ok := r.Conclusion[0].Predicate.(*term.IRI); ok {
		ctx.Backward[iri.Value] = append(ctx.Backward[iri.Value], r)
		return
	}
	ctx.BackwardWildcard = append(ctx.BackwardWildcard, r)
}

// WithStore returns a Context sharing backward rules, builtins, and the
// variable-generation counter, but proving against a different store —
// used by log:includes/notIncludes/forAllIn/collectAllIn to prove
// against a scoped-closure snapshot (§4.6) instead of the live store.
func (ctx *Context) WithStore(st *store.Store) *Context {
	cp := *ctx
	cp.Store = st
	return &cp
}

// AllBackward flattens every indexed backward rule, for the
// log:implies/log:impliedBy enumeration builtins.
func (ctx *Context) AllBackward() []*rules.Rule {
	out := append([]*rules.Rule{}, ctx.BackwardWildcard...)
	for _, rs := range ctx.Backward {
		out = append(out, rs...)
	}
	return out
}

func (ctx *Context) nextGen() int {
	*ctx.gen++
	return *ctx.gen
}
