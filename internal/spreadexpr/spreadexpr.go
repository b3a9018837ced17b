// Package spreadexpr parses and evaluates user-supplied spread formulas over
// the two named variables asset1 and asset2. The grammar is deliberately
// tiny: the four arithmetic operators, parentheses, numeric literals, and the
// two variables. Anything else is rejected at parse time, so a formula is
// validated once at configuration time and evaluated as data afterwards.
package spreadexpr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Expr is a parsed spread formula. Evaluation is pure and cannot fail;
// division by zero follows IEEE semantics and produces a non-finite value
// that the analytics layer treats as an undefined point.
type Expr struct {
	root node
	src  string
}

// String returns the original formula text.
func (e *Expr) String() string { return e.src }

// Eval evaluates the formula against one day's prices.
func (e *Expr) Eval(asset1, asset2 float64) float64 {
	return e.root.eval(asset1, asset2)
}

type node interface {
	eval(asset1, asset2 float64) float64
}

type literal float64

func (l literal) eval(_, _ float64) float64 { return float64(l) }

type variable int

const (
	varAsset1 variable = iota
	varAsset2
)

func (v variable) eval(asset1, asset2 float64) float64 {
	if v == varAsset1 {
		return asset1
	}
	return asset2
}

type binary struct {
	op          byte
	left, right node
}

func (b binary) eval(a1, a2 float64) float64 {
	l := b.left.eval(a1, a2)
	r := b.right.eval(a1, a2)
	switch b.op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	default:
		return l / r
	}
}

type negate struct{ child node }

func (n negate) eval(a1, a2 float64) float64 { return -n.child.eval(a1, a2) }

// ---------------------------------------------------------------------------
// Lexer
// ---------------------------------------------------------------------------

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp     // + - * /
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '+' || c == '-' || c == '*' || c == '/':
			toks = append(toks, token{tokOp, string(c), i})
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "(", i})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")", i})
			i++
		case c >= '0' && c <= '9' || c == '.':
			start := i
			for i < len(src) && (src[i] >= '0' && src[i] <= '9' || src[i] == '.') {
				i++
			}
			text := src[start:i]
			if _, err := strconv.ParseFloat(text, 64); err != nil {
				return nil, fmt.Errorf("spreadexpr: invalid number %q at position %d", text, start)
			}
			toks = append(toks, token{tokNumber, text, start})
		case unicode.IsLetter(rune(c)) || c == '_':
			start := i
			for i < len(src) && (unicode.IsLetter(rune(src[i])) || unicode.IsDigit(rune(src[i])) || src[i] == '_') {
				i++
			}
			toks = append(toks, token{tokIdent, src[start:i], start})
		default:
			return nil, fmt.Errorf("spreadexpr: unexpected character %q at position %d", string(c), i)
		}
	}
	toks = append(toks, token{tokEOF, "", len(src)})
	return toks, nil
}

// ---------------------------------------------------------------------------
// Recursive-descent parser
//
//	expr   := term (('+'|'-') term)*
//	term   := unary (('*'|'/') unary)*
//	unary  := ('+'|'-') unary | atom
//	atom   := NUMBER | 'asset1' | 'asset2' | '(' expr ')'
// ---------------------------------------------------------------------------

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

// Parse validates and compiles a spread formula. It fails fast with the
// offending token position so malformed formulas are rejected at
// configuration time rather than mid-computation.
func Parse(src string) (*Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("spreadexpr: empty formula")
	}
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("spreadexpr: unexpected %q at position %d", t.text, t.pos)
	}
	return &Expr{root: root, src: src}, nil
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binary{op: t.text[0], left: left, right: right}
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "*" && t.text != "/") {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binary{op: t.text[0], left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	t := p.peek()
	if t.kind == tokOp && (t.text == "-" || t.text == "+") {
		p.next()
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if t.text == "-" {
			return negate{child: child}, nil
		}
		return child, nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		f, _ := strconv.ParseFloat(t.text, 64)
		return literal(f), nil
	case tokIdent:
		switch t.text {
		case "asset1":
			return variable(varAsset1), nil
		case "asset2":
			return variable(varAsset2), nil
		default:
			return nil, fmt.Errorf("spreadexpr: unknown variable %q at position %d (only asset1 and asset2 are allowed)", t.text, t.pos)
		}
	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokRParen {
			return nil, fmt.Errorf("spreadexpr: missing closing parenthesis at position %d", c.pos)
		}
		return inner, nil
	case tokEOF:
		return nil, fmt.Errorf("spreadexpr: unexpected end of formula")
	default:
		return nil, fmt.Errorf("spreadexpr: unexpected %q at position %d", t.text, t.pos)
	}
}
