package action

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CalcProvider evaluates arithmetic locally: either a free-form
// expression over + - * / ( ) or a named operation with one or two
// operands. No outbound calls.
type CalcProvider struct{}

// NewCalcProvider creates the calculate capability.
func NewCalcProvider() *CalcProvider { return &CalcProvider{} }

func (c *CalcProvider) Name() string { return "calculate" }

func (c *CalcProvider) Validate(params map[string]any) error {
	if stringParam(params, "expression") != "" {
		return nil
	}
	if stringParam(params, "operation") != "" {
		if _, ok := numberParam(params, "a"); ok {
			return nil
		}
	}
	return missingParam("calculate", "'expression' or 'operation' with 'a' (and optionally 'b')")
}

func (c *CalcProvider) Invoke(_ context.Context, params map[string]any) (any, error) {
	var (
		result   float64
		calcType string
		input    any
		err      error
	)

	if expr := stringParam(params, "expression"); expr != "" {
		calcType = "expression"
		input = expr
		result, err = evaluateExpression(expr)
	} else {
		op := stringParam(params, "operation")
		a, _ := numberParam(params, "a")
		b, hasB := numberParam(params, "b")
		calcType = "operation"
		if hasB {
			input = map[string]any{"operation": op, "a": a, "b": b}
		} else {
			input = map[string]any{"operation": op, "a": a}
		}
		result, err = applyOperation(op, a, b, hasB)
	}
	if err != nil {
		return nil, err
	}

	if !isFinite(result) {
		return nil, errors.New("result is not a finite number")
	}

	return map[string]any{
		"result":           result,
		"formatted":        formatNumber(result),
		"calculation_type": calcType,
		"input":            input,
		"properties": map[string]any{
			"is_integer":     result == math.Trunc(result),
			"is_positive":    result > 0,
			"is_negative":    result < 0,
			"is_zero":        result == 0,
			"absolute_value": math.Abs(result),
		},
	}, nil
}

func (c *CalcProvider) Format(result any) (string, bool) {
	m, ok := result.(map[string]any)
	if !ok {
		return "", false
	}
	v, ok := m["result"]
	if !ok {
		return "", false
	}
	switch n := v.(type) {
	case float64:
		return "Result: " + formatNumber(n), true
	case int:
		return "Result: " + strconv.Itoa(n), true
	default:
		return "", false
	}
}

// binary operations keyed by name. Unary ones live in unaryOps.
var binaryOps = map[string]func(a, b float64) (float64, error){
	"add":      func(a, b float64) (float64, error) { return a + b, nil },
	"subtract": func(a, b float64) (float64, error) { return a - b, nil },
	"multiply": func(a, b float64) (float64, error) { return a * b, nil },
	"divide": func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, errors.New("division by zero")
		}
		return a / b, nil
	},
	"power":  func(a, b float64) (float64, error) { return math.Pow(a, b), nil },
	"modulo": func(a, b float64) (float64, error) { return math.Mod(a, b), nil },
}

var unaryOps = map[string]func(a float64) (float64, error){
	"sqrt": func(a float64) (float64, error) {
		if a < 0 {
			return 0, errors.New("cannot calculate square root of negative number")
		}
		return math.Sqrt(a), nil
	},
	"abs": func(a float64) (float64, error) { return math.Abs(a), nil },
	"sin": func(a float64) (float64, error) { return math.Sin(a), nil },
	"cos": func(a float64) (float64, error) { return math.Cos(a), nil },
	"tan": func(a float64) (float64, error) { return math.Tan(a), nil },
	"log": func(a float64) (float64, error) {
		if a <= 0 {
			return 0, errors.New("logarithm of non-positive number")
		}
		return math.Log(a), nil
	},
	"log10": func(a float64) (float64, error) {
		if a <= 0 {
			return 0, errors.New("logarithm of non-positive number")
		}
		return math.Log10(a), nil
	},
	"ceil":  func(a float64) (float64, error) { return math.Ceil(a), nil },
	"floor": func(a float64) (float64, error) { return math.Floor(a), nil },
	"round": func(a float64) (float64, error) { return math.Round(a), nil },
}

func applyOperation(op string, a, b float64, hasB bool) (float64, error) {
	if fn, ok := unaryOps[op]; ok {
		return fn(a)
	}
	if fn, ok := binaryOps[op]; ok {
		if !hasB {
			return 0, fmt.Errorf("operation %s requires both 'a' and 'b'", op)
		}
		return fn(a, b)
	}
	return 0, fmt.Errorf("unsupported operation: %s", op)
}

// evaluateExpression parses and evaluates an arithmetic expression with
// a small recursive-descent parser. Only digits, + - * / . ( ) are
// accepted; anything else is rejected before parsing.
func evaluateExpression(expr string) (float64, error) {
	expr = strings.ReplaceAll(expr, " ", "")
	if expr == "" {
		return 0, errors.New("empty expression")
	}
	for _, r := range expr {
		if !strings.ContainsRune("0123456789+-*/.()", r) {
			return 0, errors.New("invalid characters in expression: only numbers and basic operators (+, -, *, /, ()) are allowed")
		}
	}
	if err := checkParentheses(expr); err != nil {
		return 0, err
	}

	p := &exprParser{input: expr}
	result, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.input) {
		return 0, errors.New("invalid mathematical expression")
	}
	return result, nil
}

func checkParentheses(expr string) error {
	depth := 0
	for _, r := range expr {
		if r == '(' {
			depth++
		}
		if r == ')' {
			depth--
		}
		if depth < 0 {
			return errors.New("unbalanced parentheses")
		}
	}
	if depth != 0 {
		return errors.New("unbalanced parentheses")
	}
	return nil
}

// exprParser implements:
//
//	expr   := term (('+'|'-') term)*
//	term   := factor (('*'|'/') factor)*
//	factor := '-' factor | '(' expr ')' | number
type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) peek() byte {
	if p.pos < len(p.input) {
		return p.input[p.pos]
	}
	return 0
}

func (p *exprParser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for p.peek() == '+' || p.peek() == '-' {
		op := p.peek()
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
	return left, nil
}

func (p *exprParser) parseTerm() (float64, error) {
	left, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for p.peek() == '*' || p.peek() == '/' {
		op := p.peek()
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			left *= right
		} else {
			if right == 0 {
				return 0, errors.New("division by zero is not allowed")
			}
			left /= right
		}
	}
	return left, nil
}

func (p *exprParser) parseFactor() (float64, error) {
	if p.peek() == '-' {
		p.pos++
		v, err := p.parseFactor()
		return -v, err
	}
	if p.peek() == '(' {
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, errors.New("unbalanced parentheses")
		}
		p.pos++
		return v, nil
	}
	return p.parseNumber()
}

func (p *exprParser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}
	if start == p.pos {
		return 0, errors.New("invalid mathematical expression")
	}
	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, errors.New("invalid mathematical expression")
	}
	return v, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// formatNumber renders a float without trailing zero noise.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
