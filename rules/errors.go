package rules

import "fmt"

// ConfigurationError indicates a rule, guard, or network was built
// incorrectly — a programmer error detected at construction time rather
// than at evaluation time. Engine construction panics with this type;
// callers are expected to build engines once, at startup, and treat a
// panic here as a fatal configuration bug rather than a runtime condition
// to recover from.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return "rules: configuration error: " + e.Message }

// EvaluationError wraps a failure raised by user rule code (a condition,
// output function, or guard returning an error) during an evaluation. It
// carries the name of the rule that failed so callers can correlate it
// against trace output.
type EvaluationError struct {
	RuleName string
	Err      error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("rules: rule %q failed: %v", e.RuleName, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// ModeMismatchError is returned by Evaluate when the engine contains any
// async producer or validator: such an engine must be run with
// EvaluateAsync.
type ModeMismatchError struct{}

func (e *ModeMismatchError) Error() string {
	return "rules: engine contains async rules; use async evaluation"
}

// MaxIterationsExceededError is raised when the phase driver or the
// fallback loop crosses Config.MaxIterations without reaching a fixpoint.
type MaxIterationsExceededError struct {
	Iterations    int
	MaxIterations int
}

func (e *MaxIterationsExceededError) Error() string {
	return fmt.Sprintf("rules: exceeded max iterations (%d > %d)", e.Iterations, e.MaxIterations)
}
