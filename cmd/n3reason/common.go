package main

import (
	"fmt"
	"os"

	"n3reason/internal/logging"
	"n3reason/internal/ndoc"
	"n3reason/internal/term"
	"n3reason/pkg/reasoner"

	"go.uber.org/zap"
)

// loadEngine builds an Engine from activeConfig and loads every file in
// paths, using each file's path as its base IRI.
func loadEngine(paths []string) (*reasoner.Engine, error) {
	e := reasoner.New(reasoner.Options{Config: activeConfig})
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("n3reason: reading %s: %w", p, err)
		}
		if err := e.Load("file://"+p, string(data)); err != nil {
			return nil, fmt.Errorf("n3reason: %w", err)
		}
	}
	return e, nil
}

// parseGoal parses a quoted-formula pattern like `{ ?s ?p ?o }` using the
// engine's own interner and parser, so the resulting goal triples share
// interned terms with the loaded documents.
func parseGoal(e *reasoner.Engine, pattern string) ([]term.Triple, error) {
	synthetic := fmt.Sprintf("<urn:n3reason:query> <urn:n3reason:query> %s .", pattern)
	doc, err := e.Parser().Parse(e.Interner(), "", synthetic)
	if err != nil {
		return nil, fmt.Errorf("n3reason: parsing goal pattern: %w", err)
	}
	if len(doc.Triples) != 1 {
		return nil, fmt.Errorf("n3reason: goal pattern must be a single quoted formula")
	}
	formula, ok := doc.Triples[0].Object.(*term.Formula)
	if !ok {
		return nil, fmt.Errorf("n3reason: goal pattern must be a quoted formula { ... }")
	}
	return formula.Triples, nil
}

func printer() *ndoc.Printer {
	return ndoc.NewPrinter(ndoc.NewPrefixEnv(""))
}

func logFuseOutcome(err error) {
	if err != nil {
		logging.Get(logging.CategoryForward).Error("run terminated", zap.Error(err))
	}
}
