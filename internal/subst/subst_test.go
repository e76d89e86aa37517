package subst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"n3reason/internal/term"
)

func TestUnifyVarBindsTerm(t *testing.T) {
	in := term.NewInterner()
	a := in.IRI("http://a")
	s, ok := Unify(term.Var("X"), a, New())
	require.True(t, ok)
	assert.Equal(t, a, Apply(term.Var("X"), s))
}

func TestUnifyOccursCheck(t *testing.T) {
	_, ok := Unify(term.Var("X"), term.List{Elems: []term.Term{term.Var("X")}}, New())
	assert.False(t, ok)
}

func TestUnifyListsPointwise(t *testing.T) {
	in := term.NewInterner()
	a, b := in.IRI("http://a"), in.IRI("http://b")
	l1 := term.List{Elems: []term.Term{term.Var("X"), b}}
	l2 := term.List{Elems: []term.Term{a, b}}
	s, ok := Unify(l1, l2, New())
	require.True(t, ok)
	assert.Equal(t, a, Apply(term.Var("X"), s))
}

func TestUnifyOpenListVsList(t *testing.T) {
	in := term.NewInterner()
	a, b, c := in.IRI("http://a"), in.IRI("http://b"), in.IRI("http://c")
	open := term.OpenList{Prefix: []term.Term{a}, Tail: "Rest"}
	closed := term.List{Elems: []term.Term{a, b, c}}
	s, ok := Unify(open, closed, New())
	require.True(t, ok)
	rest := Apply(term.Var("Rest"), s)
	assert.Equal(t, term.List{Elems: []term.Term{b, c}}, rest)
}

func TestUnifyFormulasAlphaEquivalent(t *testing.T) {
	in := term.NewInterner()
	p := in.IRI("http://p")
	f := term.NewFormula([]term.Triple{{Subject: term.Var("X"), Predicate: p, Object: term.Var("Y")}})
	g := term.NewFormula([]term.Triple{{Subject: term.Var("A"), Predicate: p, Object: term.Var("B")}})
	_, ok := Unify(f, g, New())
	assert.True(t, ok)
}

func TestComposeConflict(t *testing.T) {
	in := term.NewInterner()
	a, b := in.IRI("http://a"), in.IRI("http://b")
	outer := New().Bind("X", a)
	delta := New().Bind("X", b)
	_, ok := Compose(outer, delta)
	assert.False(t, ok)
}

func TestComposeAgreeing(t *testing.T) {
	in := term.NewInterner()
	a := in.IRI("http://a")
	outer := New().Bind("X", a)
	delta := New().Bind("X", a).Bind("Y", a)
	merged, ok := Compose(outer, delta)
	require.True(t, ok)
	assert.Equal(t, a, Apply(term.Var("Y"), merged))
}

func TestUnifyListSplitCrossIntDecimal(t *testing.T) {
	in := term.NewInterner()
	i := in.Typed("3", term.XSDInteger)
	d := in.Typed("3.0", term.XSDDecimal)
	_, ok := UnifyListSplit(i, d, New())
	assert.True(t, ok)
	_, ok = Unify(i, d, New())
	assert.False(t, ok)
}
