// Package ndoc defines the external-collaborator contracts the core
// engine consumes (§6: Parser, Fetcher, Printer) plus a reference
// implementation of each good enough to drive tests, the CLI's own file
// loading, and log:parsedAsN3/log:semantics.
package ndoc

import (
	"strings"

	"n3reason/internal/rules"
	"n3reason/internal/term"
)

// PrefixEnv maps short prefixes to base IRIs, plus one default base IRI
// for relative references, per §6's input contract.
type PrefixEnv struct {
	Base     string
	Prefixes map[string]string
}

// NewPrefixEnv returns an empty environment rooted at base.
func NewPrefixEnv(base string) *PrefixEnv {
	return &PrefixEnv{Base: base, Prefixes: make(map[string]string)}
}

// Resolve expands a qname ("prefix:local") against the environment. A
// bare "local" with no colon resolves against Base. An absolute IRI
// ("http://..." or enclosed in <>) passes through unchanged.
func (env *PrefixEnv) Resolve(qname string) (string, bool) {
	qname = strings.TrimSpace(qname)
	if strings.HasPrefix(qname, "<") && strings.HasSuffix(qname, ">") {
		return qname[1 : len(qname)-1], true
	}
	if strings.Contains(qname, "://") {
		return qname, true
	}
	prefix, local, hasColon := strings.Cut(qname, ":")
	if !hasColon {
		return env.Base + qname, true
	}
	base, ok := env.Prefixes[prefix]
	if !ok {
		return "", false
	}
	return base + local, true
}

// Shrink finds a prefix whose base IRI is a prefix of iri, for
// human-readable printing. Returns the full IRI unshortened if none match.
func (env *PrefixEnv) Shrink(iri string) string {
	bestPrefix, bestBase := "", ""
	for prefix, base := range env.Prefixes {
		if strings.HasPrefix(iri, base) && len(base) > len(bestBase) {
			bestPrefix, bestBase = prefix, base
		}
	}
	if bestBase == "" {
		return "<" + iri + ">"
	}
	return bestPrefix + ":" + iri[len(bestBase):]
}

// Document is the parsed form of one N3 source: a prefix environment, a
// ground triple list, and the forward/backward rule lists lifted out of
// any top-level log:implies/log:impliedBy rule-as-data triples (§6).
type Document struct {
	Prefixes *PrefixEnv
	Triples  []term.Triple
	Forward  []*rules.Rule
	Backward []*rules.Rule
}
