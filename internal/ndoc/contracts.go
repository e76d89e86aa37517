package ndoc

import "n3reason/internal/term"

// Parser turns N3 source text into a Document, given a base IRI for
// resolving relative references. Implementations must accept a base
// IRI and produce the same four-tuple (prefixes, triples, forward
// rules, backward rules) as the primary engine input (§6).
type Parser interface {
	Parse(in *term.Interner, base string, text string) (*Document, error)
}

// Fetcher synchronously retrieves the text of a document by IRI (§6):
// HTTP redirects followed up to a fixed cap, non-2xx status treated as
// failure. Implementations are not required to cache; callers typically
// wrap Fetch with session.Session.CacheDereference.
type Fetcher interface {
	Fetch(iri string) (string, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(iri string) (string, error)

func (f FetcherFunc) Fetch(iri string) (string, error) { return f(iri) }
