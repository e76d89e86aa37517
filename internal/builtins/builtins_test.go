package builtins

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"n3reason/internal/ns"
	"n3reason/internal/prover"
	"n3reason/internal/rules"
	"n3reason/internal/store"
	"n3reason/internal/subst"
	"n3reason/internal/term"
)

func newCtx(in *term.Interner) *prover.Context {
	ctx := prover.NewContext(store.New(), nil, All())
	ctx.Interner = in
	return ctx
}

func intLit(in *term.Interner, n int64) *term.Literal {
	return in.Typed(big.NewInt(n).String(), term.XSDInteger)
}

func TestMathSumProducesExactInteger(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	goal := term.Triple{
		Subject:   term.List{Elems: []term.Term{intLit(in, 2), intLit(in, 3)}},
		Predicate: in.IRI(ns.Q(ns.Math, "sum")),
		Object:    term.Var("X"),
	}
	deltas, err := ctx.Builtins[goal.Predicate.(*term.IRI).Value](ctx, goal, subst.New())
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	result := subst.Apply(term.Var("X"), deltas[0]).(*term.Literal)
	lex, dt, _, err := result.Decompose()
	require.NoError(t, err)
	assert.Equal(t, term.XSDInteger, dt)
	assert.Equal(t, "5", lex)
}

func TestMathQuotientByZeroFails(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	goal := term.Triple{
		Subject:   term.List{Elems: []term.Term{intLit(in, 1), intLit(in, 0)}},
		Predicate: in.IRI(ns.Q(ns.Math, "quotient")),
		Object:    term.Var("X"),
	}
	deltas, err := ctx.Builtins[ns.Q(ns.Math, "quotient")](ctx, goal, subst.New())
	require.NoError(t, err)
	assert.Empty(t, deltas)
}

func TestCompareLessThan(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	goal := term.Triple{Subject: intLit(in, 2), Predicate: in.IRI(ns.Q(ns.Math, "lessThan")), Object: intLit(in, 3)}
	deltas, err := ctx.Builtins[ns.Q(ns.Math, "lessThan")](ctx, goal, subst.New())
	require.NoError(t, err)
	assert.Len(t, deltas, 1)
}

func TestStringConcatenation(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	goal := term.Triple{
		Subject:   term.List{Elems: []term.Term{in.String("foo"), in.String("bar")}},
		Predicate: in.IRI(ns.Q(ns.String, "concatenation")),
		Object:    term.Var("X"),
	}
	deltas, err := ctx.Builtins[ns.Q(ns.String, "concatenation")](ctx, goal, subst.New())
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	result := subst.Apply(term.Var("X"), deltas[0]).(*term.Literal)
	lex, _, _, _ := result.Decompose()
	assert.Equal(t, "foobar", lex)
}

func TestStringMatches(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	goal := term.Triple{Subject: in.String("hello world"), Predicate: in.IRI(ns.Q(ns.String, "matches")), Object: in.String("^hello")}
	deltas, err := ctx.Builtins[ns.Q(ns.String, "matches")](ctx, goal, subst.New())
	require.NoError(t, err)
	assert.Len(t, deltas, 1)
}

func TestListMember(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	a, b := in.IRI("http://a"), in.IRI("http://b")
	goal := term.Triple{
		Subject:   term.Var("X"),
		Predicate: in.IRI(ns.Q(ns.List, "member")),
		Object:    term.List{Elems: []term.Term{a, b}},
	}
	deltas, err := ctx.Builtins[ns.Q(ns.List, "member")](ctx, goal, subst.New())
	require.NoError(t, err)
	require.Len(t, deltas, 2)
}

func TestListAppendSplitsAllWays(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	a, b := in.IRI("http://a"), in.IRI("http://b")
	goal := term.Triple{
		Subject:   term.List{Elems: []term.Term{term.Var("Front"), term.Var("Back")}},
		Predicate: in.IRI(ns.Q(ns.List, "append")),
		Object:    term.List{Elems: []term.Term{a, b}},
	}
	deltas, err := listAppend(ctx, goal, subst.New())
	require.NoError(t, err)
	assert.Len(t, deltas, 3) // split at 0, 1, 2
}

func TestListSort(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	goal := term.Triple{
		Subject:   term.List{Elems: []term.Term{intLit(in, 3), intLit(in, 1), intLit(in, 2)}},
		Predicate: in.IRI(ns.Q(ns.List, "sort")),
		Object:    term.Var("X"),
	}
	deltas, err := ctx.Builtins[ns.Q(ns.List, "sort")](ctx, goal, subst.New())
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	out := subst.Apply(term.Var("X"), deltas[0]).(term.List)
	require.Len(t, out.Elems, 3)
	lex0, _, _, _ := out.Elems[0].(*term.Literal).Decompose()
	assert.Equal(t, "1", lex0)
}

func TestCryptoSHA256(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	goal := term.Triple{Subject: in.String(""), Predicate: in.IRI(ns.Q(ns.Crypto, "sha256")), Object: term.Var("X")}
	deltas, err := ctx.Builtins[ns.Q(ns.Crypto, "sha256")](ctx, goal, subst.New())
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	result := subst.Apply(term.Var("X"), deltas[0]).(*term.Literal)
	lex, _, _, _ := result.Decompose()
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", lex)
}

func TestTimeYearExtractsFromDateTime(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	dt := in.Typed("2024-03-15T10:00:00Z", term.XSDDateTime)
	goal := term.Triple{Subject: dt, Predicate: in.IRI(ns.Q(ns.Time, "year")), Object: term.Var("X")}
	deltas, err := ctx.Builtins[ns.Q(ns.Time, "year")](ctx, goal, subst.New())
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	result := subst.Apply(term.Var("X"), deltas[0]).(*term.Literal)
	lex, _, _, _ := result.Decompose()
	assert.Equal(t, "2024", lex)
}

func TestTimeLocalTimeUsesInjectedClock(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	fixed := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	ctx.Now = func() time.Time { return fixed }
	goal := term.Triple{Subject: in.IRI("http://doesnotmatter"), Predicate: in.IRI(ns.Q(ns.Time, "localTime")), Object: term.Var("X")}
	deltas, err := ctx.Builtins[ns.Q(ns.Time, "localTime")](ctx, goal, subst.New())
	require.NoError(t, err)
	require.Len(t, deltas, 1)
}

func TestMathDifferenceOfTwoDateTimesYieldsDuration(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	a := in.Typed("2024-03-15T12:00:30Z", term.XSDDateTime)
	b := in.Typed("2024-03-15T10:00:00Z", term.XSDDateTime)
	goal := term.Triple{
		Subject:   term.List{Elems: []term.Term{a, b}},
		Predicate: in.IRI(ns.Q(ns.Math, "difference")),
		Object:    term.Var("X"),
	}
	deltas, err := ctx.Builtins[ns.Q(ns.Math, "difference")](ctx, goal, subst.New())
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	result := subst.Apply(term.Var("X"), deltas[0]).(*term.Literal)
	lex, dt, _, err := result.Decompose()
	require.NoError(t, err)
	assert.Equal(t, term.XSDDuration, dt)
	assert.Equal(t, "PT7230S", lex)
}

func TestMathDifferenceOfDateTimeAndDurationShiftsInUTC(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	dt := in.Typed("2024-03-15T12:00:00Z", term.XSDDateTime)
	dur := in.Typed("PT1H30M", term.XSDDuration)
	goal := term.Triple{
		Subject:   term.List{Elems: []term.Term{dt, dur}},
		Predicate: in.IRI(ns.Q(ns.Math, "difference")),
		Object:    term.Var("X"),
	}
	deltas, err := ctx.Builtins[ns.Q(ns.Math, "difference")](ctx, goal, subst.New())
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	result := subst.Apply(term.Var("X"), deltas[0]).(*term.Literal)
	lex, resultDt, _, err := result.Decompose()
	require.NoError(t, err)
	assert.Equal(t, term.XSDDateTime, resultDt)
	assert.Equal(t, "2024-03-15T10:30:00Z", lex)
}

func TestStringEqualIsCaseSensitive(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	goal := term.Triple{Subject: in.String("Hello"), Predicate: in.IRI(ns.Q(ns.String, "equal")), Object: in.String("hello")}
	deltas, err := ctx.Builtins[ns.Q(ns.String, "equal")](ctx, goal, subst.New())
	require.NoError(t, err)
	assert.Empty(t, deltas)

	goal.Object = in.String("Hello")
	deltas, err = ctx.Builtins[ns.Q(ns.String, "equal")](ctx, goal, subst.New())
	require.NoError(t, err)
	assert.Len(t, deltas, 1)
}

func TestStringNotEqual(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	goal := term.Triple{Subject: in.String("Hello"), Predicate: in.IRI(ns.Q(ns.String, "notEqual")), Object: in.String("hello")}
	deltas, err := ctx.Builtins[ns.Q(ns.String, "notEqual")](ctx, goal, subst.New())
	require.NoError(t, err)
	assert.Len(t, deltas, 1)
}

func TestStringConcatenationRejectsNonStringLiteral(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	goal := term.Triple{
		Subject:   term.List{Elems: []term.Term{in.String("count: "), intLit(in, 5)}},
		Predicate: in.IRI(ns.Q(ns.String, "concatenation")),
		Object:    term.Var("X"),
	}
	deltas, err := ctx.Builtins[ns.Q(ns.String, "concatenation")](ctx, goal, subst.New())
	require.NoError(t, err)
	assert.Empty(t, deltas, "an integer literal's lexical must not be silently consumed as a string")
}

func TestLogEqualTo(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	a := in.IRI("http://a")
	goal := term.Triple{Subject: a, Predicate: in.IRI(ns.Q(ns.Log, "equalTo")), Object: a}
	deltas, err := ctx.Builtins[ns.Q(ns.Log, "equalTo")](ctx, goal, subst.New())
	require.NoError(t, err)
	assert.Len(t, deltas, 1)
}

func TestLogTraceInvokesHook(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	var captured string
	ctx.Trace = func(line string) { captured = line }
	goal := term.Triple{Subject: in.String("hello"), Predicate: in.IRI(ns.Q(ns.Log, "trace")), Object: in.IRI("http://unused")}
	_, err := ctx.Builtins[ns.Q(ns.Log, "trace")](ctx, goal, subst.New())
	require.NoError(t, err)
	assert.Equal(t, "hello", captured)
}

func TestLogSkolemUsesInjectedHook(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	wantIRI := in.IRI("http://skolem/1")
	ctx.Skolem = func(t term.Term) *term.IRI { return wantIRI }
	goal := term.Triple{Subject: in.IRI("http://a"), Predicate: in.IRI(ns.Q(ns.Log, "skolem")), Object: term.Var("X")}
	deltas, err := ctx.Builtins[ns.Q(ns.Log, "skolem")](ctx, goal, subst.New())
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.Equal(t, wantIRI, subst.Apply(term.Var("X"), deltas[0]))
}

func TestLogNotIncludesTestsTheSubjectFormulaAsTheWorldNotTheStore(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	a, b := in.IRI("http://a"), in.IRI("http://b")
	p, q := in.IRI("http://p"), in.IRI("http://q")

	// The live store has neither triple; it must play no part in the
	// world the subject formula defines.
	world := term.NewFormula([]term.Triple{{Subject: a, Predicate: p, Object: b}})
	excluded := term.NewFormula([]term.Triple{{Subject: a, Predicate: q, Object: b}})
	goal := term.Triple{Subject: world, Predicate: in.IRI(ns.Q(ns.Log, "notIncludes")), Object: excluded}

	deltas, err := ctx.Builtins[ns.Q(ns.Log, "notIncludes")](ctx, goal, subst.New())
	require.NoError(t, err)
	assert.Len(t, deltas, 1, "world doesn't entail :a :q :b, notIncludes should succeed")

	entailingWorld := term.NewFormula([]term.Triple{
		{Subject: a, Predicate: p, Object: b},
		{Subject: a, Predicate: q, Object: b},
	})
	goal.Subject = entailingWorld
	deltas, err = ctx.Builtins[ns.Q(ns.Log, "notIncludes")](ctx, goal, subst.New())
	require.NoError(t, err)
	assert.Empty(t, deltas, "world entails :a :q :b, notIncludes must fail")
}

func TestLogImpliesEnumeratesForwardRules(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	p, q := in.IRI("http://p"), in.IRI("http://q")
	r, err := rules.NewForward(
		[]term.Triple{{Subject: term.Var("X"), Predicate: p, Object: term.Var("Y")}},
		[]term.Triple{{Subject: term.Var("X"), Predicate: q, Object: term.Var("Y")}},
		false,
	)
	require.NoError(t, err)
	ctx.Forward = []*rules.Rule{r}

	premise := term.NewFormula([]term.Triple{{Subject: term.Var("A"), Predicate: p, Object: term.Var("B")}})
	head := term.NewFormula([]term.Triple{{Subject: term.Var("A"), Predicate: q, Object: term.Var("B")}})
	goal := term.Triple{Subject: premise, Predicate: in.IRI(ns.Q(ns.Log, "implies")), Object: head}
	deltas, err := ctx.Builtins[ns.Q(ns.Log, "implies")](ctx, goal, subst.New())
	require.NoError(t, err)
	assert.Len(t, deltas, 1)
}

func TestRDFFirstRest(t *testing.T) {
	in := term.NewInterner()
	ctx := newCtx(in)
	a, b := in.IRI("http://a"), in.IRI("http://b")
	list := term.List{Elems: []term.Term{a, b}}

	firstGoal := term.Triple{Subject: list, Predicate: in.IRI(ns.Q(ns.RDF, "first")), Object: term.Var("X")}
	deltas, err := ctx.Builtins[ns.Q(ns.RDF, "first")](ctx, firstGoal, subst.New())
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.Equal(t, a, subst.Apply(term.Var("X"), deltas[0]))

	restGoal := term.Triple{Subject: list, Predicate: in.IRI(ns.Q(ns.RDF, "rest")), Object: term.Var("X")}
	deltas, err = ctx.Builtins[ns.Q(ns.RDF, "rest")](ctx, restGoal, subst.New())
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	rest := subst.Apply(term.Var("X"), deltas[0]).(term.List)
	assert.Equal(t, []term.Term{b}, rest.Elems)
}
