// Package reasoner is the public entry point: load one or more N3
// documents, close them under their forward rules, then run
// backward-chaining queries or explain a derivation against the closed
// result.
package reasoner

import (
	"fmt"
	"time"

	"n3reason/internal/builtins"
	"n3reason/internal/config"
	"n3reason/internal/explain"
	"n3reason/internal/forward"
	"n3reason/internal/logging"
	"n3reason/internal/ndoc"
	"n3reason/internal/prover"
	"n3reason/internal/rules"
	"n3reason/internal/session"
	"n3reason/internal/store"
	"n3reason/internal/subst"
	"n3reason/internal/term"
)

// ErrFuseTriggered re-exports internal/forward's sentinel so callers
// never need to import the internal package to check it with errors.Is.
var ErrFuseTriggered = forward.ErrFuseTriggered

// Options configures one Engine, layering the host-level knobs of
// internal/config onto the external collaborators a run may need (§6).
type Options struct {
	// Config holds the host-level knobs (proof comments, super-restricted
	// mode, enforce-https, deterministic skolem, fixed now, resource
	// caps). Nil means config.DefaultConfig().
	Config *config.Config

	// Fetcher dereferences a document IRI for log:content/semantics. Nil
	// means an ndoc.HTTPFetcher honoring Config.EnforceHTTPS, unless
	// Config.SuperRestricted is set, in which case nothing is fetched.
	Fetcher ndoc.Fetcher

	// Parser parses a loaded document's N3 source. Nil means
	// ndoc.ReferenceParser{}.
	Parser ndoc.Parser
}

// Stats summarizes one completed run, grounded on the teacher's
// mangle.Stats shape.
type Stats struct {
	FactCount       int
	PredicateCounts map[string]int
	RuleCount       int
}

// Result is what Run returns: the closed fact store and every
// derivation recorded along the way, plus summary statistics.
type Result struct {
	Facts       []term.Triple
	Derivations []forward.Derivation
	Stats       Stats
}

// Engine loads N3 documents and closes them to a fixpoint.
type Engine struct {
	opts     Options
	sess     *session.Session
	st       *store.Store
	fwd      []*rules.Rule
	bwd      []*rules.Rule
	builtins map[string]prover.BuiltinFunc
	result   *Result
}

// New builds an Engine. The session's wall clock for time:localTime is
// Options.Config.Now(): Config.FixedNow when set, otherwise the real time
// at which New is called.
func New(opts Options) *Engine {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Parser == nil {
		opts.Parser = ndoc.ReferenceParser{}
	}
	return &Engine{
		opts:     opts,
		sess:     session.New(opts.Config.Now()),
		st:       store.New(),
		builtins: builtins.All(),
	}
}

// Interner returns the run's term interner, so a caller can build goal
// triples (e.g. for Query) interned consistently with the engine's
// loaded terms.
func (e *Engine) Interner() *term.Interner { return e.sess.Interner }

// Parser returns the parser the engine was configured with, so a caller
// can parse a goal pattern the same way loaded documents were parsed.
func (e *Engine) Parser() ndoc.Parser { return e.opts.Parser }

// Load parses one N3 document (base IRI + source text) and merges its
// ground triples and rules into the engine's working set. Call Load for
// every input document before Run.
func (e *Engine) Load(base, text string) error {
	doc, err := e.opts.Parser.Parse(e.sess.Interner, base, text)
	if err != nil {
		return fmt.Errorf("reasoner: parsing %s: %w", base, err)
	}
	for _, t := range doc.Triples {
		if term.TripleGround(t) {
			e.st.Add(t)
		}
	}
	e.fwd = append(e.fwd, doc.Forward...)
	e.bwd = append(e.bwd, doc.Backward...)
	return nil
}

// fetcher resolves the Fetcher to use for this run, honoring
// SuperRestricted by returning nil (disabling log:content/semantics
// entirely, matching ctx.SuperRestricted's own guard belt-and-braces).
func (e *Engine) fetcher() ndoc.Fetcher {
	if e.opts.Config.SuperRestricted {
		return nil
	}
	if e.opts.Fetcher != nil {
		return e.opts.Fetcher
	}
	return ndoc.NewHTTPFetcher(e.opts.Config.EnforceHTTPS)
}

// Run closes the loaded documents under their forward rules to a
// fixpoint. ErrFuseTriggered surfaces wrapped exactly as internal/forward
// returns it (§7); the Result returned alongside it reflects the state at
// the moment of fusing.
func (e *Engine) Run() (*Result, error) {
	fx := e.fetcher()
	var derived []forward.Derivation

	opts := forward.Options{
		SuperRestricted: e.opts.Config.SuperRestricted,
		Now:             func() time.Time { return e.sess.Now },
		Trace:           logging.Trace,
		OnDerived:       func(d forward.Derivation) { derived = append(derived, d) },
	}
	if fx != nil {
		opts.FetchContent = func(docIRI string) (string, error) {
			return e.sess.CacheDereference(docIRI, func() (string, error) { return fx.Fetch(docIRI) })
		}
		opts.ParseN3 = func(content string) (*term.Formula, error) {
			doc, err := e.opts.Parser.Parse(e.sess.Interner, "", content)
			if err != nil {
				return nil, err
			}
			return term.NewFormula(doc.Triples), nil
		}
	}

	eng := forward.New(e.st, e.fwd, e.bwd, e.builtins, e.sess, opts)
	runErr := eng.Run()

	res := &Result{
		Facts:       eng.Store.All(),
		Derivations: eng.Derived,
		Stats: Stats{
			FactCount:       eng.Store.Len(),
			PredicateCounts: eng.Store.PredicateCounts(),
			RuleCount:       len(eng.Forward) + len(eng.Backward),
		},
	}
	e.result = res
	e.fwd, e.bwd = eng.Forward, eng.Backward
	if runErr != nil {
		return res, runErr
	}
	return res, nil
}

// Query runs one backward-chaining goal against the closed result (call
// Run first), returning up to Config.MaxResults solutions. maxResults<=0
// in Config means unlimited.
func (e *Engine) Query(goals []term.Triple) ([]subst.Subst, error) {
	if e.result == nil {
		if _, err := e.Run(); err != nil {
			return nil, err
		}
	}
	ctx := prover.NewContext(e.st, e.bwd, e.builtins)
	ctx.Forward = e.fwd
	ctx.Interner = e.sess.Interner
	ctx.SuperRestricted = e.opts.Config.SuperRestricted
	ctx.Now = func() time.Time { return e.sess.Now }
	ctx.Trace = logging.Trace
	ctx.Skolem = func(t term.Term) *term.IRI { return e.sess.SkolemFor(t) }
	return prover.Prove(ctx, goals, subst.New(), e.opts.Config.MaxResults)
}

// Explain builds the proof tree for one derived goal triple (call Run
// first), walking the run's recorded derivations backward (§4.7).
func (e *Engine) Explain(goal term.Triple) *explain.Tree {
	if e.result == nil {
		return explain.Build(nil, goal)
	}
	return explain.Build(e.result.Derivations, goal)
}
