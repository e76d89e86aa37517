package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"n3reason/internal/term"
)

func TestAddDedup(t *testing.T) {
	in := term.NewInterner()
	a, p, b := in.IRI("http://a"), in.IRI("http://p"), in.IRI("http://b")
	st := New()
	tr := term.Triple{Subject: a, Predicate: p, Object: b}
	require.True(t, st.Add(tr))
	require.False(t, st.Add(tr))
	assert.Equal(t, 1, st.Len())
}

func TestAddRejectsNonGround(t *testing.T) {
	in := term.NewInterner()
	p := in.IRI("http://p")
	st := New()
	tr := term.Triple{Subject: term.Var("X"), Predicate: p, Object: p}
	assert.False(t, st.Add(tr))
	assert.Equal(t, 0, st.Len())
}

func TestCandidatesUsesSmallestBucket(t *testing.T) {
	in := term.NewInterner()
	p := in.IRI("http://p")
	a1, a2, b := in.IRI("http://a1"), in.IRI("http://a2"), in.IRI("http://b")
	st := New()
	st.Add(term.Triple{Subject: a1, Predicate: p, Object: b})
	st.Add(term.Triple{Subject: a2, Predicate: p, Object: b})

	cands := st.Candidates(p, a1, nil)
	require.Len(t, cands, 1)
	assert.Equal(t, a1, cands[0].Subject)
}

func TestBlankTriplesNotDedupedByFastKey(t *testing.T) {
	in := term.NewInterner()
	p := in.IRI("http://p")
	st := New()
	tr := term.Triple{Subject: term.Blank("_:b1"), Predicate: p, Object: p}
	require.True(t, st.Add(tr))
	require.False(t, st.Add(tr)) // still caught by the strict-equality scan
	assert.Equal(t, 1, st.Len())
}

func TestOnAppendCallback(t *testing.T) {
	in := term.NewInterner()
	p, a, b := in.IRI("http://p"), in.IRI("http://a"), in.IRI("http://b")
	st := New()
	var seen []term.Triple
	st.OnAppend(func(tr term.Triple) { seen = append(seen, tr) })
	st.Add(term.Triple{Subject: a, Predicate: p, Object: b})
	require.Len(t, seen, 1)
}
