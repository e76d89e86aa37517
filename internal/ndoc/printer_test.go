package ndoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"n3reason/internal/term"
)

func TestPrinterShrinksIRIsAgainstPrefixEnv(t *testing.T) {
	in := term.NewInterner()
	env := NewPrefixEnv("http://example.org/")
	env.Prefixes[""] = "http://example.org/"

	alice := in.IRI("http://example.org/alice")
	age := in.IRI("http://example.org/age")
	thirty := in.Typed("30", term.XSDInteger)

	p := NewPrinter(env)
	out := p.Triple(term.Triple{Subject: alice, Predicate: age, Object: thirty})
	assert.Equal(t, `:alice :age "30"^^<http://www.w3.org/2001/XMLSchema#integer> .`, out)
}

func TestPrinterRendersFormula(t *testing.T) {
	in := term.NewInterner()
	env := NewPrefixEnv("http://example.org/")
	a := in.IRI("http://example.org/a")
	p1 := in.IRI("http://example.org/p")
	b := in.IRI("http://example.org/b")

	printer := NewPrinter(env)
	f := term.NewFormula([]term.Triple{{Subject: a, Predicate: p1, Object: b}})
	out := printer.Term(f)
	assert.True(t, strings.HasPrefix(out, "{ "))
	assert.True(t, strings.HasSuffix(out, "}"))
	assert.True(t, strings.Contains(out, "<http://example.org/a>"))
}

func TestPrinterFallsBackToFullIRIWithoutPrefixMatch(t *testing.T) {
	in := term.NewInterner()
	p := NewPrinter(nil)
	iri := in.IRI("http://other.org/x")
	assert.Equal(t, "<http://other.org/x>", p.Term(iri))
}
