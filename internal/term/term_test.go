package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterningIsIdentity(t *testing.T) {
	in := NewInterner()
	a := in.IRI("http://example.org/alice")
	b := in.IRI("http://example.org/alice")
	assert.Same(t, a, b)

	l1 := in.String("hello")
	l2 := in.String("hello")
	assert.Same(t, l1, l2)
}

func TestLiteralDecompose(t *testing.T) {
	in := NewInterner()

	l := in.String("hello")
	lex, dt, lang, err := l.Decompose()
	require.NoError(t, err)
	assert.Equal(t, "hello", lex)
	assert.Equal(t, XSDString, dt)
	assert.Empty(t, lang)

	typed := in.Typed("42", XSDInteger)
	lex, dt, _, err = typed.Decompose()
	require.NoError(t, err)
	assert.Equal(t, "42", lex)
	assert.Equal(t, XSDInteger, dt)

	tagged := in.Lang("bonjour", "fr")
	lex, dt, lang, err = tagged.Decompose()
	require.NoError(t, err)
	assert.Equal(t, "bonjour", lex)
	assert.Equal(t, RDFLangStr, dt)
	assert.Equal(t, "fr", lang)
}

func TestLiteralsEqualPlainStringVsXSDString(t *testing.T) {
	in := NewInterner()
	plain := in.String("x")
	typed := in.Typed("x", XSDString)
	assert.True(t, LiteralsEqual(plain, typed))
}

func TestLiteralsEqualNumericPromotion(t *testing.T) {
	in := NewInterner()
	i := in.Typed("3", XSDInteger)
	d := in.Typed("3.0", XSDDecimal)
	assert.True(t, LiteralsEqual(i, d))
	assert.False(t, LiteralsEqualNoIntDecimal(i, d))
}

func TestGround(t *testing.T) {
	in := NewInterner()
	assert.True(t, Ground(in.IRI("http://x")))
	assert.False(t, Ground(Var("X")))
	assert.True(t, Ground(Blank("_:b1")))
	assert.False(t, Ground(OpenList{Tail: "X"}))
	assert.True(t, Ground(List{Elems: []Term{in.IRI("http://x")}}))
	assert.False(t, Ground(List{Elems: []Term{Var("X")}}))
}

func TestFormulasEqualAlphaEquivalence(t *testing.T) {
	in := NewInterner()
	p := in.IRI("http://p")
	f := NewFormula([]Triple{{Subject: Var("X"), Predicate: p, Object: Var("Y")}})
	g := NewFormula([]Triple{{Subject: Var("A"), Predicate: p, Object: Var("B")}})
	assert.True(t, FormulasEqual(f, g))

	h := NewFormula([]Triple{{Subject: Var("A"), Predicate: p, Object: Var("A")}})
	assert.False(t, FormulasEqual(f, h))
}

func TestFormulasEqualUnorderedTriples(t *testing.T) {
	in := NewInterner()
	p, q := in.IRI("http://p"), in.IRI("http://q")
	a, b := in.IRI("http://a"), in.IRI("http://b")
	f := NewFormula([]Triple{
		{Subject: a, Predicate: p, Object: b},
		{Subject: b, Predicate: q, Object: a},
	})
	g := NewFormula([]Triple{
		{Subject: b, Predicate: q, Object: a},
		{Subject: a, Predicate: p, Object: b},
	})
	assert.True(t, FormulasEqual(f, g))
}

func TestBlanksOfHead(t *testing.T) {
	in := NewInterner()
	p := in.IRI("http://p")
	head := []Triple{
		{Subject: Var("X"), Predicate: p, Object: Blank("_:b1")},
		{Subject: Blank("_:b1"), Predicate: p, Object: Blank("_:b2")},
	}
	blanks := BlanksOfHead(head)
	assert.Len(t, blanks, 2)
	_, ok := blanks["_:b1"]
	assert.True(t, ok)
}
