package prover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"n3reason/internal/rules"
	"n3reason/internal/store"
	"n3reason/internal/subst"
	"n3reason/internal/term"
)

func TestProveMatchesFact(t *testing.T) {
	in := term.NewInterner()
	knows := in.IRI("http://knows")
	alice, bob := in.IRI("http://alice"), in.IRI("http://bob")

	st := store.New()
	st.Add(term.Triple{Subject: alice, Predicate: knows, Object: bob})

	ctx := NewContext(st, nil, nil)
	goals := []term.Triple{{Subject: term.Var("X"), Predicate: knows, Object: bob}}
	results, err := Prove(ctx, goals, subst.New(), 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, alice, subst.Apply(term.Var("X"), results[0]))
}

func TestProveChainsThroughBackwardRule(t *testing.T) {
	in := term.NewInterner()
	parent := in.IRI("http://parent")
	grandparent := in.IRI("http://grandparent")
	a, b, c := in.IRI("http://a"), in.IRI("http://b"), in.IRI("http://c")

	st := store.New()
	st.Add(term.Triple{Subject: a, Predicate: parent, Object: b})
	st.Add(term.Triple{Subject: b, Predicate: parent, Object: c})

	r, err := rules.NewBackward(
		[]term.Triple{{Subject: term.Var("X"), Predicate: grandparent, Object: term.Var("Z")}},
		[]term.Triple{
			{Subject: term.Var("X"), Predicate: parent, Object: term.Var("Y")},
			{Subject: term.Var("Y"), Predicate: parent, Object: term.Var("Z")},
		},
	)
	require.NoError(t, err)

	ctx := NewContext(st, []*rules.Rule{r}, nil)
	goals := []term.Triple{{Subject: a, Predicate: grandparent, Object: term.Var("Z")}}
	results, err := Prove(ctx, goals, subst.New(), 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, c, subst.Apply(term.Var("Z"), results[0]))
}

func TestProveDispatchesBuiltin(t *testing.T) {
	in := term.NewInterner()
	equalTo := in.IRI("http://test#equalTo")
	a := in.IRI("http://a")

	builtins := map[string]BuiltinFunc{
		equalTo.Value: func(ctx *Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
			if term.Equal(goal.Subject, goal.Object) {
				return []subst.Subst{subst.New()}, nil
			}
			return nil, nil
		},
	}

	ctx := NewContext(store.New(), nil, builtins)
	goals := []term.Triple{{Subject: a, Predicate: equalTo, Object: a}}
	results, err := Prove(ctx, goals, subst.New(), 0)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestProveLoopProtectionStopsRecursion(t *testing.T) {
	in := term.NewInterner()
	p := in.IRI("http://p")

	r, err := rules.NewBackward(
		[]term.Triple{{Subject: term.Var("X"), Predicate: p, Object: term.Var("Y")}},
		[]term.Triple{{Subject: term.Var("X"), Predicate: p, Object: term.Var("Y")}},
	)
	require.NoError(t, err)

	ctx := NewContext(store.New(), []*rules.Rule{r}, nil)
	goals := []term.Triple{{Subject: term.Var("A"), Predicate: p, Object: term.Var("B")}}
	results, err := Prove(ctx, goals, subst.New(), 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestProveMaxResultsStopsEarly(t *testing.T) {
	in := term.NewInterner()
	color := in.IRI("http://color")
	thing := in.IRI("http://thing")
	red, green := in.IRI("http://red"), in.IRI("http://green")

	st := store.New()
	st.Add(term.Triple{Subject: thing, Predicate: color, Object: red})
	st.Add(term.Triple{Subject: thing, Predicate: color, Object: green})

	ctx := NewContext(st, nil, nil)
	goals := []term.Triple{{Subject: thing, Predicate: color, Object: term.Var("C")}}
	results, err := Prove(ctx, goals, subst.New(), 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
