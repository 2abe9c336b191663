package rules

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// NewExprGuard builds a Guard whose predicate is a boolean expression,
// compiled once at construction time, evaluated against the map env
// produces from the current RuleContext. It panics if exprString fails to
// compile, consistent with the engine's fail-fast-at-construction policy
// for malformed rules.
//
// Some guards are more natural to author as data (an expression string
// loaded from configuration) than as a Go closure; this is that path.
func NewExprGuard(description, exprString string, env func(RuleContext) map[string]any) *Guard {
	program, err := expr.Compile(exprString, expr.AsBool())
	if err != nil {
		panic(&ConfigurationError{Message: fmt.Sprintf("invalid guard expression %q: %v", exprString, err)})
	}
	return &Guard{
		Description: description,
		predicate: func(ctx RuleContext) (bool, error) {
			out, err := expr.Run(program, env(ctx))
			if err != nil {
				return false, err
			}
			return out.(bool), nil
		},
	}
}
