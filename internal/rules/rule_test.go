package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"n3reason/internal/ns"
	"n3reason/internal/term"
)

func TestNewForwardLiftsPremiseBlanksToVars(t *testing.T) {
	in := term.NewInterner()
	knows := in.IRI("http://knows")
	friendOf := in.IRI("http://friendOf")

	premise := []term.Triple{{Subject: term.Var("X"), Predicate: knows, Object: term.Blank("_:y")}}
	conclusion := []term.Triple{{Subject: term.Var("X"), Predicate: friendOf, Object: term.Blank("_:y")}}

	r, err := NewForward(premise, conclusion, false)
	require.NoError(t, err)

	_, isBlank := r.Premise[0].Object.(term.Blank)
	assert.False(t, isBlank, "premise blank should be lifted to a Var")
	assert.Equal(t, r.Premise[0].Object, r.Conclusion[0].Object, "lifted var must match across premise and conclusion")
}

func TestNewForwardHeadBlanksExcludesLifted(t *testing.T) {
	in := term.NewInterner()
	p := in.IRI("http://p")
	q := in.IRI("http://q")

	premise := []term.Triple{{Subject: term.Var("X"), Predicate: p, Object: term.Blank("_:shared")}}
	conclusion := []term.Triple{
		{Subject: term.Var("X"), Predicate: q, Object: term.Blank("_:shared")},
		{Subject: term.Blank("_:fresh"), Predicate: q, Object: term.Var("X")},
	}

	r, err := NewForward(premise, conclusion, false)
	require.NoError(t, err)

	assert.Len(t, r.HeadBlanks, 1)
	_, ok := r.HeadBlanks["_:fresh"]
	assert.True(t, ok, "only the head-exclusive blank should survive skolemization eligibility")
}

func TestNewForwardReordersConstraintsLast(t *testing.T) {
	in := term.NewInterner()
	age := in.IRI("http://age")
	lessThan := in.IRI(ns.Q(ns.Math, "lessThan"))
	adult := in.IRI("http://adult")

	premise := []term.Triple{
		{Subject: term.Var("X"), Predicate: lessThan, Object: term.Var("Y")},
		{Subject: term.Var("X"), Predicate: age, Object: term.Var("Y")},
	}
	conclusion := []term.Triple{{Subject: term.Var("X"), Predicate: adult, Object: adult}}

	r, err := NewForward(premise, conclusion, false)
	require.NoError(t, err)

	require.Len(t, r.Premise, 2)
	assert.Equal(t, age, r.Premise[0].Predicate, "non-constraint goal should run first")
	assert.Equal(t, lessThan, r.Premise[1].Predicate, "constraint goal should be moved last")
}

func TestStandardizeApartProducesDistinctVars(t *testing.T) {
	in := term.NewInterner()
	p := in.IRI("http://p")
	r, err := NewBackward(
		[]term.Triple{{Subject: term.Var("X"), Predicate: p, Object: term.Var("Y")}},
		[]term.Triple{{Subject: term.Var("X"), Predicate: p, Object: term.Var("Y")}},
	)
	require.NoError(t, err)

	r1 := r.StandardizeApart(1)
	r2 := r.StandardizeApart(2)
	assert.NotEqual(t, r1.Premise[0].Subject, r2.Premise[0].Subject)
	assert.Equal(t, r1.Premise[0].Subject, r1.Conclusion[0].Subject, "standardization must stay consistent within one rename")
}

func TestHeadIsStrictlyGround(t *testing.T) {
	in := term.NewInterner()
	a, p, b := in.IRI("http://a"), in.IRI("http://p"), in.IRI("http://b")
	grounded, err := NewForward(nil, []term.Triple{{Subject: a, Predicate: p, Object: b}}, false)
	require.NoError(t, err)
	assert.True(t, grounded.HeadIsStrictlyGround())

	withBlank, err := NewForward(nil, []term.Triple{{Subject: a, Predicate: p, Object: term.Blank("_:x")}}, false)
	require.NoError(t, err)
	assert.False(t, withBlank.HeadIsStrictlyGround())
}
