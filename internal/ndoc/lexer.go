package ndoc

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokErr
	tokIRI        // <...>
	tokQName      // prefix:local or bare local
	tokVar        // ?x
	tokBlank      // _:b
	tokLiteral    // "..." with optional ^^<dt> or @lang suffix
	tokDot        // .
	tokBraceOpen  // {
	tokBraceClose // }
	tokParenOpen  // (
	tokParenClose // )
	tokBar        // |
	tokImplies    // =>
	tokImpliedBy  // <=
	tokAtPrefix   // @prefix
	tokAtBase     // @base
)

type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

// lexer is a hand-rolled scanner over the whole source text; N3's
// reference subset here has no operator-precedence ambiguity, so unlike
// a Prolog tokenizer there is no need to stream tokens through a
// channel — a single pass with lookahead is enough.
type lexer struct {
	src        string
	pos        int
	line, col  int
	peeked     *token
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (lx *lexer) errorf(format string, args ...interface{}) token {
	return token{kind: tokErr, text: fmt.Sprintf("%d:%d: %s", lx.line, lx.col, fmt.Sprintf(format, args...)), line: lx.line, col: lx.col}
}

func (lx *lexer) peekByte() byte {
	if lx.pos >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos]
}

func (lx *lexer) advance() byte {
	b := lx.src[lx.pos]
	lx.pos++
	if b == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return b
}

func (lx *lexer) skipSpaceAndComments() {
	for lx.pos < len(lx.src) {
		c := lx.peekByte()
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			lx.advance()
		case c == '#':
			for lx.pos < len(lx.src) && lx.peekByte() != '\n' {
				lx.advance()
			}
		default:
			return
		}
	}
}

func isNameByte(c byte) bool {
	return c == '_' || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (lx *lexer) peek() token {
	if lx.peeked == nil {
		t := lx.scan()
		lx.peeked = &t
	}
	return *lx.peeked
}

func (lx *lexer) next() token {
	if lx.peeked != nil {
		t := *lx.peeked
		lx.peeked = nil
		return t
	}
	return lx.scan()
}

func (lx *lexer) scan() token {
	lx.skipSpaceAndComments()
	if lx.pos >= len(lx.src) {
		return token{kind: tokEOF, line: lx.line, col: lx.col}
	}
	startLine, startCol := lx.line, lx.col
	c := lx.peekByte()

	switch {
	case c == '.':
		lx.advance()
		return token{kind: tokDot, text: ".", line: startLine, col: startCol}
	case c == '{':
		lx.advance()
		return token{kind: tokBraceOpen, text: "{", line: startLine, col: startCol}
	case c == '}':
		lx.advance()
		return token{kind: tokBraceClose, text: "}", line: startLine, col: startCol}
	case c == '(':
		lx.advance()
		return token{kind: tokParenOpen, text: "(", line: startLine, col: startCol}
	case c == ')':
		lx.advance()
		return token{kind: tokParenClose, text: ")", line: startLine, col: startCol}
	case c == '|':
		lx.advance()
		return token{kind: tokBar, text: "|", line: startLine, col: startCol}
	case c == '<':
		return lx.scanIRIOrImpliedBy(startLine, startCol)
	case c == '=':
		lx.advance()
		if lx.peekByte() == '>' {
			lx.advance()
			return token{kind: tokImplies, text: "=>", line: startLine, col: startCol}
		}
		return lx.errorf("unexpected '='")
	case c == '?':
		lx.advance()
		name := lx.scanName()
		return token{kind: tokVar, text: name, line: startLine, col: startCol}
	case c == '"':
		return lx.scanLiteral(startLine, startCol)
	case c == '@':
		lx.advance()
		kw := lx.scanName()
		switch kw {
		case "prefix":
			return token{kind: tokAtPrefix, text: kw, line: startLine, col: startCol}
		case "base":
			return token{kind: tokAtBase, text: kw, line: startLine, col: startCol}
		}
		return lx.errorf("unknown directive @%s", kw)
	default:
		return lx.scanBareword(startLine, startCol)
	}
}

func (lx *lexer) scanIRIOrImpliedBy(line, col int) token {
	lx.advance() // consume '<'
	if lx.peekByte() == '=' {
		lx.advance()
		return token{kind: tokImpliedBy, text: "<=", line: line, col: col}
	}
	var sb strings.Builder
	for lx.pos < len(lx.src) && lx.peekByte() != '>' {
		sb.WriteByte(lx.advance())
	}
	if lx.pos >= len(lx.src) {
		return lx.errorf("unterminated IRI")
	}
	lx.advance() // consume '>'
	return token{kind: tokIRI, text: sb.String(), line: line, col: col}
}

func (lx *lexer) scanLiteral(line, col int) token {
	var sb strings.Builder
	sb.WriteByte(lx.advance()) // opening quote
	for lx.pos < len(lx.src) {
		c := lx.peekByte()
		if c == '\\' {
			sb.WriteByte(lx.advance())
			if lx.pos < len(lx.src) {
				sb.WriteByte(lx.advance())
			}
			continue
		}
		sb.WriteByte(lx.advance())
		if c == '"' {
			break
		}
	}
	// optional ^^<dt> or @lang suffix, no intervening space
	if lx.peekByte() == '^' && lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] == '^' {
		sb.WriteByte(lx.advance())
		sb.WriteByte(lx.advance())
		if lx.peekByte() == '<' {
			for lx.pos < len(lx.src) {
				c := lx.advance()
				sb.WriteByte(c)
				if c == '>' {
					break
				}
			}
		}
	} else if lx.peekByte() == '@' {
		sb.WriteByte(lx.advance())
		for lx.pos < len(lx.src) && isNameByte(lx.peekByte()) {
			sb.WriteByte(lx.advance())
		}
	}
	return token{kind: tokLiteral, text: sb.String(), line: line, col: col}
}

func (lx *lexer) scanName() string {
	var sb strings.Builder
	for lx.pos < len(lx.src) && isNameByte(lx.peekByte()) {
		sb.WriteByte(lx.advance())
	}
	return sb.String()
}

func (lx *lexer) scanBareword(line, col int) token {
	if strings.HasPrefix(lx.src[lx.pos:], "_:") {
		lx.advance()
		lx.advance()
		label := lx.scanName()
		return token{kind: tokBlank, text: label, line: line, col: col}
	}
	first := lx.peekByte()
	var sb strings.Builder
	for lx.pos < len(lx.src) {
		c := lx.peekByte()
		if c == ':' {
			sb.WriteByte(lx.advance())
			continue
		}
		// A '.' is only part of a bareword when it is a decimal point
		// (followed by a digit); otherwise it is the statement terminator.
		if c == '.' && lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] >= '0' && lx.src[lx.pos+1] <= '9' {
			sb.WriteByte(lx.advance())
			continue
		}
		if isNameByte(c) || c == '+' {
			sb.WriteByte(lx.advance())
			continue
		}
		break
	}
	if sb.Len() == 0 {
		return lx.errorf("unexpected character %q", string(first))
	}
	return token{kind: tokQName, text: sb.String(), line: line, col: col}
}
