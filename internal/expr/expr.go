// Package expr compiles user-supplied payoff expressions into callables for
// the Monte Carlo pricer.
//
// Expressions are evaluated by govaluate against a fixed allow-list of
// variables and helper functions; there is no access to anything else, so a
// payoff coming from a web form or config file can never execute arbitrary
// code. Unknown variables and unknown functions are rejected at compile
// time.
//
// Supported variables:
//   - S or spot: the simulated terminal price
//   - K or strike: the strike bound at compile time
//
// Supported functions: abs, max, min, exp, log, sqrt.
//
// Example: max(S - K, 0) is a European call payoff.
package expr

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/contactkeval/option-pricer/internal/pricing"
)

// Typed errors allow callers and tests to detect failure categories
// without string matching.
var (
	ErrEmptyExpression   = errors.New("payoff expression cannot be empty")
	ErrUnknownVariable   = errors.New("unknown variable in payoff expression")
	ErrInvalidExpression = errors.New("invalid payoff expression")
)

// allowedVars are the only identifiers an expression may reference.
var allowedVars = map[string]bool{
	"S":      true,
	"spot":   true,
	"K":      true,
	"strike": true,
}

// functions is the fixed helper namespace. Each wrapper coerces its
// arguments and reports a descriptive error on misuse; govaluate surfaces
// that error from Evaluate.
var functions = map[string]govaluate.ExpressionFunction{
	"abs":  unary("abs", math.Abs),
	"exp":  unary("exp", math.Exp),
	"log":  unary("log", math.Log),
	"sqrt": unary("sqrt", math.Sqrt),
	"max":  variadic("max", math.Max),
	"min":  variadic("min", math.Min),
}

func unary(name string, fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(args))
		}
		x, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("%s expects a numeric argument", name)
		}
		return fn(x), nil
	}
}

func variadic(name string, fn func(float64, float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) < 2 {
			return nil, fmt.Errorf("%s expects at least 2 arguments, got %d", name, len(args))
		}
		acc, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("%s expects numeric arguments", name)
		}
		for _, a := range args[1:] {
			x, ok := a.(float64)
			if !ok {
				return nil, fmt.Errorf("%s expects numeric arguments", name)
			}
			acc = fn(acc, x)
		}
		return acc, nil
	}
}

// Compile parses a payoff expression and binds the strike, returning a
// pricing.PayoffFunc that evaluates it at a terminal price.
//
// Compile rejects: empty expressions, expressions that fail to parse
// (including calls to functions outside the allow-list), expressions
// referencing variables other than S/spot/K/strike, and expressions whose
// probe evaluation does not produce a number.
//
// The returned func has no error channel; if an evaluation fails at
// simulation time (e.g. a helper applied to a boolean subexpression) it
// yields NaN, which propagates visibly into the price estimate rather than
// being silently dropped.
func Compile(expression string, strike float64) (pricing.PayoffFunc, error) {
	clean := strings.TrimSpace(expression)
	if clean == "" {
		return nil, ErrEmptyExpression
	}

	compiled, err := govaluate.NewEvaluableExpressionWithFunctions(clean, functions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	for _, v := range compiled.Vars() {
		if !allowedVars[v] {
			return nil, fmt.Errorf("%w: %q (use S/spot and K/strike)", ErrUnknownVariable, v)
		}
	}

	eval := func(terminal float64) (float64, error) {
		params := map[string]interface{}{
			"S":      terminal,
			"spot":   terminal,
			"K":      strike,
			"strike": strike,
		}
		out, err := compiled.Evaluate(params)
		if err != nil {
			return 0, err
		}
		v, ok := out.(float64)
		if !ok {
			return 0, fmt.Errorf("%w: result is %T, not a number", ErrInvalidExpression, out)
		}
		return v, nil
	}

	// Probe once at S = strike so obviously broken expressions fail the
	// pricing call up front instead of poisoning every path.
	if _, err := eval(strike); err != nil {
		return nil, err
	}

	return func(terminal float64) float64 {
		v, err := eval(terminal)
		if err != nil {
			return math.NaN()
		}
		return v
	}, nil
}
