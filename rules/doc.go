// Package rules implements a forward-chaining production rules engine.
//
// An Engine is a static, immutable description of rules compiled into a
// Rete-style discrimination network. Each call to Evaluate or
// EvaluateAsync spawns a fresh session that owns its own working memory
// and drives the compiled network to a fixpoint, phase by phase, before
// running validators against the final set of facts.
package rules
