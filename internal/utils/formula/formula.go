// Package formula evaluates template quantity formulas.
//
// The language is deliberately tiny: decimal numbers, the identifiers
// itemsCount, totalWeight and totalVolume, the four basic operators,
// unary minus and parentheses. There are no function calls and no way to
// reach anything outside the supplied variable set.
package formula

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// MaxLength bounds accepted formula strings.
const MaxLength = 256

// Vars is the fixed variable set available to quantity formulas.
type Vars struct {
	ItemsCount  decimal.Decimal
	TotalWeight decimal.Decimal
	TotalVolume decimal.Decimal
}

func (v Vars) lookup(name string) (decimal.Decimal, bool) {
	switch name {
	case "itemsCount":
		return v.ItemsCount, true
	case "totalWeight":
		return v.TotalWeight, true
	case "totalVolume":
		return v.TotalVolume, true
	}
	return decimal.Zero, false
}

// Eval parses and evaluates expr against vars.
func Eval(expr string, vars Vars) (decimal.Decimal, error) {
	if strings.TrimSpace(expr) == "" {
		return decimal.Zero, fmt.Errorf("empty formula")
	}
	if len(expr) > MaxLength {
		return decimal.Zero, fmt.Errorf("formula longer than %d characters", MaxLength)
	}

	p := &parser{input: []rune(expr), vars: vars}
	result, err := p.parseExpr()
	if err != nil {
		return decimal.Zero, err
	}
	p.skipSpaces()
	if p.pos < len(p.input) {
		return decimal.Zero, fmt.Errorf("unexpected character %q at position %d", p.input[p.pos], p.pos)
	}
	return result, nil
}

// parser is a recursive-descent evaluator with the grammar
//
//	expr    := term (('+' | '-') term)*
//	term    := unary (('*' | '/') unary)*
//	unary   := '-' unary | primary
//	primary := number | identifier | '(' expr ')'
type parser struct {
	input []rune
	pos   int
	vars  Vars
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.input) && unicode.IsSpace(p.input[p.pos]) {
		p.pos++
	}
}

func (p *parser) peek() (rune, bool) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *parser) parseExpr() (decimal.Decimal, error) {
	left, err := p.parseTerm()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '+' && op != '-') {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '+' {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}
}

func (p *parser) parseTerm() (decimal.Decimal, error) {
	left, err := p.parseUnary()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '*' && op != '/') {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '*' {
			left = left.Mul(right)
		} else {
			if right.IsZero() {
				return decimal.Zero, fmt.Errorf("division by zero")
			}
			left = left.Div(right)
		}
	}
}

func (p *parser) parseUnary() (decimal.Decimal, error) {
	if ch, ok := p.peek(); ok && ch == '-' {
		p.pos++
		val, err := p.parseUnary()
		if err != nil {
			return decimal.Zero, err
		}
		return val.Neg(), nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (decimal.Decimal, error) {
	ch, ok := p.peek()
	if !ok {
		return decimal.Zero, fmt.Errorf("unexpected end of formula")
	}

	switch {
	case ch == '(':
		p.pos++
		val, err := p.parseExpr()
		if err != nil {
			return decimal.Zero, err
		}
		closing, ok := p.peek()
		if !ok || closing != ')' {
			return decimal.Zero, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return val, nil

	case unicode.IsDigit(ch) || ch == '.':
		return p.parseNumber()

	case unicode.IsLetter(ch):
		return p.parseIdentifier()

	default:
		return decimal.Zero, fmt.Errorf("unexpected character %q at position %d", ch, p.pos)
	}
}

func (p *parser) parseNumber() (decimal.Decimal, error) {
	start := p.pos
	seenDot := false
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if ch == '.' {
			if seenDot {
				return decimal.Zero, fmt.Errorf("malformed number at position %d", start)
			}
			seenDot = true
			p.pos++
			continue
		}
		if !unicode.IsDigit(ch) {
			break
		}
		p.pos++
	}
	lit := string(p.input[start:p.pos])
	val, err := decimal.NewFromString(lit)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed number %q", lit)
	}
	return val, nil
}

func (p *parser) parseIdentifier() (decimal.Decimal, error) {
	start := p.pos
	for p.pos < len(p.input) && (unicode.IsLetter(p.input[p.pos]) || unicode.IsDigit(p.input[p.pos])) {
		p.pos++
	}
	name := string(p.input[start:p.pos])

	// A '(' after an identifier would be a call; there are none here.
	if ch, ok := p.peek(); ok && ch == '(' {
		return decimal.Zero, fmt.Errorf("function calls are not allowed: %q", name)
	}

	val, ok := p.vars.lookup(name)
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown identifier %q", name)
	}
	return val, nil
}
