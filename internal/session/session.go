// Package session owns the per-run mutable caches: the term interner,
// the log:skolem map, the memoized wall clock, and the document
// dereference cache (§3's Lifecycle note, §9's "Global mutable state"
// redesign — these live on a value the caller owns, never as process
// globals).
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"n3reason/internal/term"
)

// SkolemNamespace is the reserved IRI prefix for log:skolem and for
// forward-engine head-blank skolemization (§4.5, §4.6).
const SkolemNamespace = "http://n3reason.invalid/.well-known/skolem/"

// Session bundles the caches that live for exactly one reasoning run.
type Session struct {
	RunID    string
	Interner *term.Interner
	Now      time.Time

	mu         sync.Mutex
	skolem     map[string]*term.IRI
	dereferenced map[string]string
}

// New creates a session with a fresh interner and run id. now pins the
// wall clock used by time:localTime; pass time.Now() for a live run or a
// fixed value for reproducible tests. Skolem IDs do not depend on it.
func New(now time.Time) *Session {
	return &Session{
		RunID:        uuid.NewString(),
		Interner:     term.NewInterner(),
		Now:          now,
		skolem:       make(map[string]*term.IRI),
		dereferenced: make(map[string]string),
	}
}

// SkolemFor returns the stable skolem IRI for a ground term, minting
// one on first use. Used directly by the log:skolem builtin.
func (sess *Session) SkolemFor(t term.Term) *term.IRI {
	return sess.skolemForKey(t.String())
}

// SkolemForFiringKey returns the stable skolem IRI for a forward rule's
// firing key combined with a head-blank label (§4.6): the same rule
// firing — same rule index, same canonical premise encoding — always
// yields the same skolem IRI for a given blank label, which is what
// gives forward-engine fixpoint iteration its termination guarantee.
func (sess *Session) SkolemForFiringKey(firingKey, blankLabel string) *term.IRI {
	return sess.skolemForKey(firingKey + "|" + blankLabel)
}

func (sess *Session) skolemForKey(key string) *term.IRI {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if iri, ok := sess.skolem[key]; ok {
		return iri
	}
	iri := sess.Interner.IRI(SkolemNamespace + deterministicUUID(key))
	sess.skolem[key] = iri
	return iri
}

// deterministicUUID derives a stable 32-hex-digit value from key using
// four parallel FNV-1a-style accumulators seeded differently, formatted
// 8-4-4-4-12 like a UUID (§4.6's "Skolem identity" — the same key must
// yield the same id within and across runs, with no per-run salt).
func deterministicUUID(key string) string {
	const fnvPrime = 16777619
	seeds := [4]uint32{2166136261, 0x9e3779b9, 0x85ebca6b, 0xc2b2ae35}
	for i, seed := range seeds {
		h := seed
		for _, b := range []byte(key) {
			h ^= uint32(b)
			h *= fnvPrime
		}
		seeds[i] = h
	}
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%04x%08x",
		seeds[0],
		seeds[1]>>16, seeds[1]&0xffff,
		seeds[2]>>16,
		seeds[2]&0xffff, seeds[3])
}

// CacheDereference memoizes a fetched document's raw content by IRI,
// so a document referenced from several goals is fetched once per run.
func (sess *Session) CacheDereference(iri string, fetch func() (string, error)) (string, error) {
	sess.mu.Lock()
	if content, ok := sess.dereferenced[iri]; ok {
		sess.mu.Unlock()
		return content, nil
	}
	sess.mu.Unlock()

	content, err := fetch()
	if err != nil {
		return "", err
	}

	sess.mu.Lock()
	sess.dereferenced[iri] = content
	sess.mu.Unlock()
	return content, nil
}
