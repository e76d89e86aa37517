// Package forward implements the §4.6 forward fixpoint engine: the
// outer scoped-closure loop, the inner per-rule fixpoint, firing-key
// skolemization of head blanks, and rule-as-data promotion of
// log:implies/log:impliedBy conclusions into runtime rules.
package forward

import (
	"errors"
	"fmt"
	"time"

	"n3reason/internal/ns"
	"n3reason/internal/prover"
	"n3reason/internal/rules"
	"n3reason/internal/session"
	"n3reason/internal/store"
	"n3reason/internal/subst"
	"n3reason/internal/term"
)

// ErrFuseTriggered is returned, wrapped with the firing rule's index,
// when a fuse rule (a forward rule whose conclusion is literal false)
// proves at least one solution (§7, §8 scenario 3).
var ErrFuseTriggered = errors.New("forward: fuse triggered")

// Options configures one engine run with the host-level knobs §6 lists.
type Options struct {
	SuperRestricted bool
	Now             func() time.Time
	FetchContent    func(docIRI string) (string, error)
	ParseN3         func(content string) (*term.Formula, error)
	Trace           func(line string)
	RecordOutputString func(key, text string)

	// OnDerived is invoked once per newly materialized derivation, in
	// append order, for the explain sink and CLI streaming (§6).
	OnDerived func(Derivation)

	// MaxIterations bounds the inner fixpoint against non-terminating
	// rule sets; 0 means unlimited (the caller accepts divergence risk
	// per §5's "resource exhaustion is the caller's responsibility").
	MaxIterations int
}

// Derivation records one materialized fact alongside the rule and
// solution that produced it (§4.7).
type Derivation struct {
	Rule      *rules.Rule
	Fact      term.Triple
	Premises  []term.Triple
	Solution  subst.Subst
}

// Engine runs the forward fixpoint over a fact store, a forward-rule
// list, and a backward-rule list, all shared with the backward-chaining
// prover via a common prover.Context.
type Engine struct {
	Store    *store.Store
	Forward  []*rules.Rule
	Backward []*rules.Rule
	Builtins map[string]prover.BuiltinFunc
	Session  *session.Session
	Opts     Options

	Derived []Derivation

	nextRuleIndex int
}

// New builds an Engine. forwardRules/backwardRules are copied into
// fresh slices since Run mutates them when rule-as-data promotion adds
// new rules.
func New(st *store.Store, forwardRules, backwardRules []*rules.Rule, builtins map[string]prover.BuiltinFunc, sess *session.Session, opts Options) *Engine {
	fwd := append([]*rules.Rule{}, forwardRules...)
	bwd := append([]*rules.Rule{}, backwardRules...)
	for i, r := range fwd {
		r.Index = i
	}
	e := &Engine{
		Store:         st,
		Forward:       fwd,
		Backward:      bwd,
		Builtins:      builtins,
		Session:       sess,
		Opts:          opts,
		nextRuleIndex: len(fwd),
	}
	return e
}

// Run executes the outer scoped-closure loop to a fixpoint. Returns
// ErrFuseTriggered (wrapped with the offending rule's index) if a fuse
// fires; the engine's Store and Derived list reflect the state at the
// moment of fusing.
func (e *Engine) Run() error {
	maxPriority := scanMaxPriority(e.Forward)
	level := 0
	var scopedSnapshot *store.Store

	for {
		changed, err := e.innerFixpoint(scopedSnapshot)
		if err != nil {
			return err
		}
		if !changed && level >= maxPriority {
			return nil
		}
		if !changed && level < maxPriority {
			level++
			scopedSnapshot = e.Store.Snapshot()
			continue
		}
		// changed: keep iterating at the current level before advancing.
	}
}

// baseContext builds the prover.Context shared by the inner fixpoint and
// by every builtin invocation in this run.
func (e *Engine) baseContext(scopedSnapshot *store.Store) *prover.Context {
	ctx := prover.NewContext(e.Store, e.Backward, e.Builtins)
	ctx.Forward = e.Forward
	ctx.Interner = e.Session.Interner
	ctx.SuperRestricted = e.Opts.SuperRestricted
	ctx.ScopedStore = scopedSnapshot
	ctx.Trace = e.Opts.Trace
	ctx.RecordOutputString = e.Opts.RecordOutputString
	ctx.FetchContent = e.Opts.FetchContent
	ctx.ParseN3 = e.Opts.ParseN3
	ctx.Skolem = func(t term.Term) *term.IRI { return e.Session.SkolemFor(t) }
	now := e.Opts.Now
	if now == nil {
		now = time.Now
	}
	ctx.Now = now
	ctx.Conclusion = e.conclusionOf
	return ctx
}

// conclusionOf implements log:conclusion: the deductive closure of the
// supplied premise triples alone (the live store's facts are not part of
// it), computed on a fresh store so it cannot fuse-terminate the
// enclosing run or pollute the live store (§9 Open Questions: the source
// leaves the interaction with log:outputString undefined; this
// implementation does not forward outputString side effects from inside
// a conclusion computation).
func (e *Engine) conclusionOf(premise []term.Triple) ([]term.Triple, error) {
	snap := store.New()
	for _, t := range premise {
		if term.TripleGround(t) {
			snap.Add(t)
		}
	}
	inner := &Engine{
		Store:         snap,
		Forward:       e.Forward,
		Backward:      e.Backward,
		Builtins:      e.Builtins,
		Session:       e.Session,
		Opts:          e.Opts,
		nextRuleIndex: e.nextRuleIndex,
	}
	inner.Opts.OnDerived = nil
	inner.Opts.RecordOutputString = nil
	for {
		changed, err := inner.innerFixpoint(nil)
		if err != nil {
			if errors.Is(err, ErrFuseTriggered) {
				break
			}
			return nil, err
		}
		if !changed {
			break
		}
	}
	return snap.All(), nil
}

// innerFixpoint iterates every forward rule to a fixpoint (no new facts
// and no new rules materialized in a full pass), reporting whether
// anything changed overall.
func (e *Engine) innerFixpoint(scopedSnapshot *store.Store) (bool, error) {
	changedOverall := false
	iterations := 0
	for {
		iterations++
		if e.Opts.MaxIterations > 0 && iterations > e.Opts.MaxIterations {
			return changedOverall, nil
		}
		changedThisPass := false
		ctx := e.baseContext(scopedSnapshot)

		for i := 0; i < len(e.Forward); i++ {
			r := e.Forward[i]
			if r.Fuse {
				sols, err := prover.Prove(ctx, r.Premise, subst.New(), 1)
				if err != nil {
					return changedOverall, err
				}
				if len(sols) > 0 {
					return changedOverall, fmt.Errorf("%w: rule %d", ErrFuseTriggered, r.Index)
				}
				continue
			}

			maxResults := 0
			if r.HeadIsStrictlyGround() && allConclusionInStore(e.Store, r.Conclusion) {
				maxResults = 1
			}
			sols, err := prover.Prove(ctx, r.Premise, subst.New(), maxResults)
			if err != nil {
				return changedOverall, err
			}
			for _, sol := range sols {
				added, err := e.fire(r, sol)
				if err != nil {
					return changedOverall, err
				}
				if added {
					changedThisPass = true
				}
			}
		}
		if !changedThisPass {
			return changedOverall, nil
		}
		changedOverall = true
	}
}

func allConclusionInStore(st *store.Store, conclusion []term.Triple) bool {
	for _, t := range conclusion {
		if !st.Has(t) {
			return false
		}
	}
	return true
}

// fire instantiates one rule solution: promotes rule-as-data conclusions
// to runtime rules, skolemizes head blanks for the rest, and appends new
// ground facts to the store. Returns whether anything new was added.
func (e *Engine) fire(r *rules.Rule, sol subst.Subst) (bool, error) {
	instantiatedPremise := subst.ApplyTriples(r.Premise, sol)
	firingKey := firingKeyOf(r.Index, instantiatedPremise)

	changed := false
	for _, headTriple := range r.Conclusion {
		instantiated := subst.ApplyTriple(headTriple, sol)

		if ruleFromData, ok := ruleAsData(instantiated); ok {
			if e.addRuleAsData(ruleFromData) {
				changed = true
			}
			if term.TripleGround(instantiated) && e.Store.Add(instantiated) {
				e.record(r, instantiated, instantiatedPremise, sol)
				changed = true
			}
			continue
		}

		blankRepl := make(map[string]term.Term, len(r.HeadBlanks))
		for label := range r.HeadBlanks {
			blankRepl[label] = e.Session.SkolemForFiringKey(firingKey, label)
		}
		fact := substituteBlanksTriple(instantiated, blankRepl)
		if !term.TripleGround(fact) {
			continue
		}
		if e.Store.Add(fact) {
			e.record(r, fact, instantiatedPremise, sol)
			changed = true
		}
	}
	return changed, nil
}

func (e *Engine) record(r *rules.Rule, fact term.Triple, premises []term.Triple, sol subst.Subst) {
	d := Derivation{Rule: r, Fact: fact, Premises: premises, Solution: sol}
	e.Derived = append(e.Derived, d)
	if e.Opts.OnDerived != nil {
		e.Opts.OnDerived(d)
	}
}

// firingKeyOf is the canonical encoding §4.6 requires: the rule's index
// plus its instantiated premise triples in their fixed textual order, so
// the same rule firing (same bindings) always yields the same key.
func firingKeyOf(ruleIndex int, instantiatedPremise []term.Triple) string {
	key := fmt.Sprintf("rule#%d", ruleIndex)
	for _, t := range instantiatedPremise {
		key += "|" + t.String()
	}
	return key
}

// ruleAsData recognizes a conclusion triple whose predicate is
// log:implies/log:impliedBy with formula-or-true sides (§4.6, §9 Open
// Questions: "true" sugar is accepted only for these two predicates).
func ruleAsData(t term.Triple) (*rules.Rule, bool) {
	iri, ok := t.Predicate.(*term.IRI)
	if !ok {
		return nil, false
	}
	switch iri.Value {
	case ns.LogImplies:
		premise, ok1 := asFormulaOrTrue(t.Subject)
		head, ok2 := asFormulaOrTrue(t.Object)
		if !ok1 || !ok2 {
			return nil, false
		}
		r, err := rules.NewForward(premise, head, false)
		if err != nil {
			return nil, false
		}
		return r, true
	case ns.LogImpliedBy:
		head, ok1 := asFormulaOrTrue(t.Subject)
		body, ok2 := asFormulaOrTrue(t.Object)
		if !ok1 || !ok2 {
			return nil, false
		}
		r, err := rules.NewBackward(head, body)
		if err != nil {
			return nil, false
		}
		return r, true
	}
	return nil, false
}

func asFormulaOrTrue(t term.Term) ([]term.Triple, bool) {
	if f, ok := t.(*term.Formula); ok {
		return f.Triples, true
	}
	if lit, ok := t.(*term.Literal); ok {
		if lex, _, _, err := lit.Decompose(); err == nil && lex == "true" {
			return nil, true
		}
	}
	return nil, false
}

// addRuleAsData adds r to the forward or backward rule set unless an
// α-equivalent rule is already present. A new backward rule is indexed
// by prover.Context.AddBackward when the next pass builds its context.
func (e *Engine) addRuleAsData(r *rules.Rule) bool {
	if r.Forward {
		for _, existing := range e.Forward {
			if ruleEqual(existing, r) {
				return false
			}
		}
		r.Index = e.nextRuleIndex
		e.nextRuleIndex++
		e.Forward = append(e.Forward, r)
		return true
	}
	for _, existing := range e.Backward {
		if ruleEqual(existing, r) {
			return false
		}
	}
	r.Index = e.nextRuleIndex
	e.nextRuleIndex++
	e.Backward = append(e.Backward, r)
	return true
}

func ruleEqual(a, b *rules.Rule) bool {
	return a.Forward == b.Forward &&
		term.FormulasEqual(term.NewFormula(a.Premise), term.NewFormula(b.Premise)) &&
		term.FormulasEqual(term.NewFormula(a.Conclusion), term.NewFormula(b.Conclusion))
}

// substituteBlanks replaces every Blank whose label is a key of repl
// with the corresponding term, recursing into Lists and Formulas.
func substituteBlanks(t term.Term, repl map[string]term.Term) term.Term {
	switch x := t.(type) {
	case term.Blank:
		if v, ok := repl[string(x)]; ok {
			return v
		}
		return x
	case term.List:
		elems := make([]term.Term, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = substituteBlanks(e, repl)
		}
		return term.List{Elems: elems}
	case term.OpenList:
		prefix := make([]term.Term, len(x.Prefix))
		for i, e := range x.Prefix {
			prefix[i] = substituteBlanks(e, repl)
		}
		return term.OpenList{Prefix: prefix, Tail: x.Tail}
	case *term.Formula:
		triples := make([]term.Triple, len(x.Triples))
		for i, tr := range x.Triples {
			triples[i] = term.Triple{
				Subject:   substituteBlanks(tr.Subject, repl),
				Predicate: substituteBlanks(tr.Predicate, repl),
				Object:    substituteBlanks(tr.Object, repl),
			}
		}
		return &term.Formula{Triples: triples}
	default:
		return t
	}
}

func substituteBlanksTriple(t term.Triple, repl map[string]term.Term) term.Triple {
	return term.Triple{
		Subject:   substituteBlanks(t.Subject, repl),
		Predicate: substituteBlanks(t.Predicate, repl),
		Object:    substituteBlanks(t.Object, repl),
	}
}

// scanMaxPriority implements §4.6's scoped-closure priority scan: the
// maximum over every log:includes/notIncludes premise goal whose scope
// argument (the goal's Subject) is a Var (priority 1) or a
// positive-integer literal (priority = that integer); a formula
// argument does not drive the loop. log:forAllIn/collectAllIn are
// excluded here: their Subject is always a (where then) list pair, not
// a scope-level argument, so they never carry a scope level to scan.
func scanMaxPriority(forwardRules []*rules.Rule) int {
	max := 0
	var walk func(t term.Triple)
	walk = func(t term.Triple) {
		if iri, ok := t.Predicate.(*term.IRI); ok && isScopedPredicate(iri.Value) {
			if p := scopeArgPriority(t.Subject); p > max {
				max = p
			}
		}
		if f, ok := t.Subject.(*term.Formula); ok {
			for _, inner := range f.Triples {
				walk(inner)
			}
		}
	}
	for _, r := range forwardRules {
		for _, t := range r.Premise {
			walk(t)
		}
	}
	return max
}

func isScopedPredicate(iri string) bool {
	switch iri {
	case ns.Q(ns.Log, "includes"), ns.Q(ns.Log, "notIncludes"):
		return true
	}
	return false
}

func scopeArgPriority(t term.Term) int {
	switch x := t.(type) {
	case term.Var:
		return 1
	case *term.Literal:
		lex, dt, _, err := x.Decompose()
		if err != nil || dt != term.XSDInteger {
			return 0
		}
		var n int
		if _, scanErr := fmt.Sscanf(lex, "%d", &n); scanErr == nil && n > 0 {
			return n
		}
	}
	return 0
}
