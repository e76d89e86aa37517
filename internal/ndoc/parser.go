package ndoc

import (
	"fmt"

	"n3reason/internal/ns"
	"n3reason/internal/rules"
	"n3reason/internal/term"
)

// ReferenceParser is a minimal line-oriented N3 subset parser: ground
// triples, "=>"/"<=" rule statements, nested quoted formulas, lists, and
// @prefix/@base directives. It is good enough to drive
// log:parsedAsN3/log:semantics and the CLI's own file loading; a full
// N3/Turtle grammar is out of scope (spec.md §1's Non-goals).
//
// Grounded on the recursive-descent read/readOp structure of a Prolog
// term reader, adapted to a single-threaded, non-channel-based form —
// N3's reference subset has no operator-precedence table to resolve.
type ReferenceParser struct{}

func (p ReferenceParser) Parse(in *term.Interner, base string, text string) (*Document, error) {
	ps := &parseState{lx: newLexer(text), in: in, env: NewPrefixEnv(base)}
	return ps.document()
}

type parseState struct {
	lx  *lexer
	in  *term.Interner
	env *PrefixEnv
}

func (ps *parseState) document() (*Document, error) {
	doc := &Document{Prefixes: ps.env}
	for {
		tok := ps.lx.peek()
		switch tok.kind {
		case tokEOF:
			return doc, nil
		case tokErr:
			return nil, fmt.Errorf("ndoc: %s", tok.text)
		case tokAtPrefix:
			if err := ps.directivePrefix(); err != nil {
				return nil, err
			}
		case tokAtBase:
			if err := ps.directiveBase(); err != nil {
				return nil, err
			}
		default:
			if err := ps.statement(doc, true); err != nil {
				return nil, err
			}
		}
	}
}

func (ps *parseState) directivePrefix() error {
	ps.lx.next() // @prefix
	nameTok := ps.lx.next()
	if nameTok.kind != tokQName {
		return fmt.Errorf("ndoc: %d:%d: expected prefix name after @prefix", nameTok.line, nameTok.col)
	}
	prefix := nameTok.text
	if len(prefix) > 0 && prefix[len(prefix)-1] == ':' {
		prefix = prefix[:len(prefix)-1]
	}
	iriTok := ps.lx.next()
	if iriTok.kind != tokIRI {
		return fmt.Errorf("ndoc: %d:%d: expected IRI in @prefix declaration", iriTok.line, iriTok.col)
	}
	ps.env.Prefixes[prefix] = iriTok.text
	return ps.expect(tokDot, ".")
}

func (ps *parseState) directiveBase() error {
	ps.lx.next() // @base
	iriTok := ps.lx.next()
	if iriTok.kind != tokIRI {
		return fmt.Errorf("ndoc: %d:%d: expected IRI in @base declaration", iriTok.line, iriTok.col)
	}
	ps.env.Base = iriTok.text
	return ps.expect(tokDot, ".")
}

func (ps *parseState) expect(kind tokenKind, what string) error {
	tok := ps.lx.next()
	if tok.kind != kind {
		return fmt.Errorf("ndoc: %d:%d: expected %q", tok.line, tok.col, what)
	}
	return nil
}

// endStatement consumes the "." that ends a statement. Inside a quoted
// formula the last statement may instead end at the closing "}", which
// is left for formula() to consume.
func (ps *parseState) endStatement(topLevel bool) error {
	if !topLevel && ps.lx.peek().kind == tokBraceClose {
		return nil
	}
	return ps.expect(tokDot, ".")
}

// statement parses one "...".", either a plain triple or a
// "{premise} => {conclusion}"/"{head} <= {body}" rule, and appends the
// result to doc. Rule-as-data triples (an explicit log:implies/
// log:impliedBy predicate) are lifted into the rule lists too (§6), at
// the top level only.
func (ps *parseState) statement(doc *Document, topLevel bool) error {
	left, err := ps.term()
	if err != nil {
		return err
	}
	switch ps.lx.peek().kind {
	case tokImplies:
		ps.lx.next()
		right, err := ps.term()
		if err != nil {
			return err
		}
		premise, ok1 := formulaTriples(left)
		if !ok1 {
			return fmt.Errorf("ndoc: '=>' requires a formula premise")
		}
		var conclusion []term.Triple
		isFuse := isFalseLiteral(right)
		if !isFuse {
			var ok2 bool
			conclusion, ok2 = formulaTriples(right)
			if !ok2 {
				return fmt.Errorf("ndoc: '=>' requires a formula or 'false' conclusion")
			}
		}
		r, err := rules.NewForward(premise, conclusion, isFuse)
		if err != nil {
			return fmt.Errorf("ndoc: %w", err)
		}
		doc.Forward = append(doc.Forward, r)
		return ps.endStatement(topLevel)
	case tokImpliedBy:
		ps.lx.next()
		right, err := ps.term()
		if err != nil {
			return err
		}
		head, ok1 := formulaTriples(left)
		body, ok2 := formulaTriples(right)
		if !ok1 || !ok2 {
			return fmt.Errorf("ndoc: '<=' requires formula operands")
		}
		r, err := rules.NewBackward(head, body)
		if err != nil {
			return fmt.Errorf("ndoc: %w", err)
		}
		doc.Backward = append(doc.Backward, r)
		return ps.endStatement(topLevel)
	default:
		pred, err := ps.term()
		if err != nil {
			return err
		}
		obj, err := ps.term()
		if err != nil {
			return err
		}
		t := term.Triple{Subject: left, Predicate: pred, Object: obj}
		doc.Triples = append(doc.Triples, t)
		if topLevel {
			if err := liftRuleAsData(doc, t); err != nil {
				return err
			}
		}
		return ps.endStatement(topLevel)
	}
}

// liftRuleAsData recognizes a top-level triple whose predicate is
// log:implies/log:impliedBy and promotes it into doc's rule lists, in
// addition to keeping the plain triple (§6, §4.6's rule-as-data
// mechanism applies identically to statements parsed this way).
func liftRuleAsData(doc *Document, t term.Triple) error {
	iri, ok := t.Predicate.(*term.IRI)
	if !ok {
		return nil
	}
	switch iri.Value {
	case ns.LogImplies:
		premise, ok1 := formulaTriples(t.Subject)
		if !ok1 {
			return nil
		}
		var conclusion []term.Triple
		isFuse := isFalseLiteral(t.Object)
		if !isFuse {
			var ok2 bool
			conclusion, ok2 = formulaTriples(t.Object)
			if !ok2 {
				return nil
			}
		}
		r, err := rules.NewForward(premise, conclusion, isFuse)
		if err != nil {
			return fmt.Errorf("ndoc: %w", err)
		}
		doc.Forward = append(doc.Forward, r)
	case ns.LogImpliedBy:
		head, ok1 := formulaTriples(t.Subject)
		body, ok2 := formulaTriples(t.Object)
		if !ok1 || !ok2 {
			return nil
		}
		r, err := rules.NewBackward(head, body)
		if err != nil {
			return fmt.Errorf("ndoc: %w", err)
		}
		doc.Backward = append(doc.Backward, r)
	}
	return nil
}

// isFalseLiteral reports whether t is the bare literal false, the
// syntax for a fuse rule's conclusion (spec.md §8 scenario 3).
func isFalseLiteral(t term.Term) bool {
	lit, ok := t.(*term.Literal)
	if !ok {
		return false
	}
	lex, _, _, err := lit.Decompose()
	return err == nil && lex == "false"
}

// formulaTriples accepts a quoted formula's triples, or the literal
// "true" as empty-formula sugar (spec.md §9's Open Question, honored
// only for log:implies/log:impliedBy operands).
func formulaTriples(t term.Term) ([]term.Triple, bool) {
	if f, ok := t.(*term.Formula); ok {
		return f.Triples, true
	}
	if lit, ok := t.(*term.Literal); ok {
		if lex, _, _, err := lit.Decompose(); err == nil && lex == "true" {
			return nil, true
		}
	}
	return nil, false
}

func (ps *parseState) term() (term.Term, error) {
	tok := ps.lx.next()
	switch tok.kind {
	case tokIRI:
		return ps.in.IRI(resolveRaw(ps.env, tok.text)), nil
	case tokQName:
		return ps.qnameTerm(tok)
	case tokVar:
		return term.Var(tok.text), nil
	case tokBlank:
		return term.Blank(tok.text), nil
	case tokLiteral:
		return ps.in.Literal(tok.text), nil
	case tokParenOpen:
		return ps.list()
	case tokBraceOpen:
		return ps.formula()
	case tokErr:
		return nil, fmt.Errorf("ndoc: %s", tok.text)
	default:
		return nil, fmt.Errorf("ndoc: %d:%d: unexpected token %q", tok.line, tok.col, tok.text)
	}
}

func (ps *parseState) qnameTerm(tok token) (term.Term, error) {
	switch tok.text {
	case "true":
		return ps.in.Typed("true", term.XSDBoolean), nil
	case "false":
		return ps.in.Typed("false", term.XSDBoolean), nil
	}
	if dt, ok := numericDatatype(tok.text); ok {
		return ps.in.Typed(tok.text, dt), nil
	}
	resolved, ok := ps.env.Resolve(tok.text)
	if !ok {
		return nil, fmt.Errorf("ndoc: %d:%d: unknown prefix in %q", tok.line, tok.col, tok.text)
	}
	return ps.in.IRI(resolved), nil
}

func (ps *parseState) list() (term.Term, error) {
	var elems []term.Term
	for {
		if ps.lx.peek().kind == tokParenClose {
			ps.lx.next()
			return term.List{Elems: elems}, nil
		}
		if ps.lx.peek().kind == tokBar {
			ps.lx.next()
			tail, err := ps.term()
			if err != nil {
				return nil, err
			}
			tailVar, isVar := tail.(term.Var)
			if !isVar {
				return nil, fmt.Errorf("ndoc: list tail after '|' must be a variable")
			}
			if err := ps.expect(tokParenClose, ")"); err != nil {
				return nil, err
			}
			return term.OpenList{Prefix: elems, Tail: tailVar}, nil
		}
		e, err := ps.term()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
}

func (ps *parseState) formula() (term.Term, error) {
	var triples []term.Triple
	for {
		if ps.lx.peek().kind == tokBraceClose {
			ps.lx.next()
			return term.NewFormula(triples), nil
		}
		inner := &Document{Prefixes: ps.env}
		if err := ps.statement(inner, false); err != nil {
			return nil, err
		}
		triples = append(triples, inner.Triples...)
		for _, r := range inner.Forward {
			triples = append(triples, term.Triple{
				Subject:   term.NewFormula(r.Premise),
				Predicate: ps.in.IRI(ns.LogImplies),
				Object:    term.NewFormula(r.Conclusion),
			})
		}
		for _, r := range inner.Backward {
			triples = append(triples, term.Triple{
				Subject:   term.NewFormula(r.Conclusion),
				Predicate: ps.in.IRI(ns.LogImpliedBy),
				Object:    term.NewFormula(r.Premise),
			})
		}
	}
}

func resolveRaw(env *PrefixEnv, raw string) string {
	if containsScheme(raw) {
		return raw
	}
	return env.Base + raw
}

func containsScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ':':
			return i > 0
		case '/', '#':
			return false
		}
	}
	return false
}

func numericDatatype(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	i := 0
	if s[0] == '-' || s[0] == '+' {
		i = 1
	}
	if i >= len(s) {
		return "", false
	}
	sawDigit, sawDot := false, false
	for ; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			sawDigit = true
		case s[i] == '.' && !sawDot:
			sawDot = true
		default:
			return "", false
		}
	}
	if !sawDigit {
		return "", false
	}
	if sawDot {
		return term.XSDDecimal, true
	}
	return term.XSDInteger, true
}
