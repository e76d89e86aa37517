package ndoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"n3reason/internal/term"
)

func TestParseGroundTriple(t *testing.T) {
	in := term.NewInterner()
	src := `@prefix : <http://example.org/> .
:alice :age 30 .
`
	doc, err := ReferenceParser{}.Parse(in, "http://example.org/", src)
	require.NoError(t, err)
	require.Len(t, doc.Triples, 1)
	tr := doc.Triples[0]
	assert.Equal(t, "http://example.org/alice", tr.Subject.(*term.IRI).Value)
	assert.Equal(t, "http://example.org/age", tr.Predicate.(*term.IRI).Value)
	lit := tr.Object.(*term.Literal)
	lex, dt, _, err := lit.Decompose()
	require.NoError(t, err)
	assert.Equal(t, "30", lex)
	assert.Equal(t, term.XSDInteger, dt)
}

func TestParseForwardRule(t *testing.T) {
	in := term.NewInterner()
	src := `@prefix : <http://example.org/> .
{ ?x :wantsPet true } => { ?x :hasPet _:p . _:p :kind :Cat } .
`
	doc, err := ReferenceParser{}.Parse(in, "http://example.org/", src)
	require.NoError(t, err)
	require.Len(t, doc.Forward, 1)
	r := doc.Forward[0]
	assert.Len(t, r.Premise, 1)
	assert.Len(t, r.Conclusion, 2)
	assert.False(t, r.Fuse)
}

func TestParseFuseRule(t *testing.T) {
	in := term.NewInterner()
	src := `@prefix : <http://example.org/> .
@prefix math: <http://www.w3.org/2000/10/swap/math#> .
{ ?x :age ?n . ?n math:lessThan 0 } => false .
`
	doc, err := ReferenceParser{}.Parse(in, "http://example.org/", src)
	require.NoError(t, err)
	require.Len(t, doc.Forward, 1)
	assert.True(t, doc.Forward[0].Fuse)
	assert.Empty(t, doc.Forward[0].Conclusion)
}

func TestParseBackwardRule(t *testing.T) {
	in := term.NewInterner()
	src := `@prefix : <http://example.org/> .
{ ?x :ancestor ?z } <= { ?x :parent ?z } .
`
	doc, err := ReferenceParser{}.Parse(in, "http://example.org/", src)
	require.NoError(t, err)
	require.Len(t, doc.Backward, 1)
	assert.Len(t, doc.Backward[0].Conclusion, 1) // head
	assert.Len(t, doc.Backward[0].Premise, 1)    // body
}

func TestParseRuleAsDataTripleIsLiftedAndKept(t *testing.T) {
	in := term.NewInterner()
	src := `@prefix : <http://example.org/> .
@prefix log: <http://www.w3.org/2000/10/swap/log#> .
{ ?x :p ?y } log:implies { ?x :q ?y } .
`
	doc, err := ReferenceParser{}.Parse(in, "http://example.org/", src)
	require.NoError(t, err)
	require.Len(t, doc.Triples, 1, "the rule-as-data triple itself is kept")
	require.Len(t, doc.Forward, 1, "and also lifted into the forward rule list")
}

func TestParseListAndDecimalLiteral(t *testing.T) {
	in := term.NewInterner()
	src := `@prefix : <http://example.org/> .
:p :nums (1 2.5 3) .
`
	doc, err := ReferenceParser{}.Parse(in, "http://example.org/", src)
	require.NoError(t, err)
	require.Len(t, doc.Triples, 1)
	list, ok := doc.Triples[0].Object.(term.List)
	require.True(t, ok)
	require.Len(t, list.Elems, 3)
	lex, dt, _, err := list.Elems[1].(*term.Literal).Decompose()
	require.NoError(t, err)
	assert.Equal(t, "2.5", lex)
	assert.Equal(t, term.XSDDecimal, dt)
}

func TestParsePrefixlessLocalResolvesAgainstBase(t *testing.T) {
	in := term.NewInterner()
	src := `alice age 30 .`
	doc, err := ReferenceParser{}.Parse(in, "http://example.org/", src)
	require.NoError(t, err)
	require.Len(t, doc.Triples, 1)
	assert.Equal(t, "http://example.org/alice", doc.Triples[0].Subject.(*term.IRI).Value)
}

func TestParseUnknownPrefixErrors(t *testing.T) {
	in := term.NewInterner()
	src := `foo:bar foo:baz foo:qux .`
	_, err := ReferenceParser{}.Parse(in, "http://example.org/", src)
	assert.Error(t, err)
}
