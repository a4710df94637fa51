// Package expression evaluates action guard expressions. Expressions are
// compiled by expr-lang into a restricted arithmetic/comparison/logical
// program with no access to application code, replacing the historical
// practice of eval-ing interpolated text.
package expression

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// EvalBool compiles and runs a boolean guard expression. The env exposes the
// entity fields so authors can reference them directly; template-interpolated
// literals work as well. Any non-boolean result is an error.
func EvalBool(expression string, env map[string]any) (bool, error) {
	if env == nil {
		env = map[string]any{}
	}

	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AsBool(),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to compile expression %q: %w", expression, err)
	}

	output, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate expression %q: %w", expression, err)
	}

	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("expression %q did not evaluate to a boolean (got %T)", expression, output)
	}

	return result, nil
}
