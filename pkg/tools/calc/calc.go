// Package calc evaluates arithmetic expressions for the math_calculator
// tool. The evaluator is a small precedence-climbing parser over + - * / %
// ^, parentheses, and unary minus; anything else in the input is an error
// rather than a guess.
package calc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Evaluate computes the expression and returns it in the fixed
// "<expression> = <result>" form the conversation record expects.
func Evaluate(expression string) (string, error) {
	expr := strings.TrimSpace(expression)
	if expr == "" {
		return "", fmt.Errorf("expression cannot be empty")
	}

	p := &parser{input: expr}
	value, err := p.parseExpression(0)
	if err != nil {
		return "", err
	}
	p.skipSpaces()
	if p.pos < len(p.input) {
		return "", fmt.Errorf("unexpected character %q at position %d", p.input[p.pos], p.pos)
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return "", fmt.Errorf("expression %q has no finite result", expr)
	}

	return fmt.Sprintf("%s = %s", expr, formatNumber(value)), nil
}

// formatNumber prints whole results without a decimal point and keeps
// fractional results compact.
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'g', 12, 64)
}

type parser struct {
	input string
	pos   int
}

// binding powers per operator; ^ binds tightest and is right-associative.
var precedence = map[byte]int{
	'+': 1,
	'-': 1,
	'*': 2,
	'/': 2,
	'%': 2,
	'^': 3,
}

func (p *parser) parseExpression(minPrec int) (float64, error) {
	left, err := p.parseOperand()
	if err != nil {
		return 0, err
	}

	for {
		p.skipSpaces()
		if p.pos >= len(p.input) {
			return left, nil
		}
		op := p.input[p.pos]
		prec, ok := precedence[op]
		if !ok || prec < minPrec {
			return left, nil
		}
		p.pos++

		nextMin := prec + 1
		if op == '^' { // right-associative
			nextMin = prec
		}
		right, err := p.parseExpression(nextMin)
		if err != nil {
			return 0, err
		}

		left, err = apply(op, left, right)
		if err != nil {
			return 0, err
		}
	}
}

func (p *parser) parseOperand() (float64, error) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0, fmt.Errorf("unexpected end of expression")
	}

	switch c := p.input[p.pos]; {
	case c == '-':
		p.pos++
		v, err := p.parseOperand()
		return -v, err
	case c == '(':
		p.pos++
		v, err := p.parseExpression(0)
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if p.pos >= len(p.input) || p.input[p.pos] != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()
	default:
		return 0, fmt.Errorf("unexpected character %q at position %d", c, p.pos)
	}
}

func (p *parser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c < '0' || c > '9') && c != '.' {
			break
		}
		p.pos++
	}

	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", p.input[start:p.pos])
	}
	return v, nil
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func apply(op byte, left, right float64) (float64, error) {
	switch op {
	case '+':
		return left + right, nil
	case '-':
		return left - right, nil
	case '*':
		return left * right, nil
	case '/':
		if right == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return left / right, nil
	case '%':
		if right == 0 {
			return 0, fmt.Errorf("modulo by zero")
		}
		return math.Mod(left, right), nil
	case '^':
		return math.Pow(left, right), nil
	default:
		return 0, fmt.Errorf("unknown operator %q", op)
	}
}
