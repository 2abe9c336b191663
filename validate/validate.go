// Package validate implements a flat, single-fact validation layer separate
// from the core engine: a RuleSet is a list of predicates evaluated against
// one fact, with no priorities, guards, or network — just the
// Verdict/Failure shapes the core engine also uses.
package validate

import "github.com/block/verdikt/rules"

// Predicate is one named check over a fact of type T.
type Predicate[T any] struct {
	Name     string
	Check    func(T) bool
	Reason   func(T) any
}

// RuleSet is an ordered list of predicates evaluated against a single fact.
type RuleSet[T any] struct {
	predicates []Predicate[T]
}

// NewRuleSet builds a RuleSet from predicates, preserving declaration order.
func NewRuleSet[T any](predicates ...Predicate[T]) *RuleSet[T] {
	return &RuleSet[T]{predicates: predicates}
}

// Validate runs every predicate against fact, collecting a Failure for each
// one that returns false, in declaration order.
func (rs *RuleSet[T]) Validate(fact T) rules.Verdict {
	var failures []rules.Failure
	for _, p := range rs.predicates {
		if p.Check(fact) {
			continue
		}
		var reason any
		if p.Reason != nil {
			reason = p.Reason(fact)
		}
		failures = append(failures, rules.Failure{RuleName: p.Name, Fact: fact, Reason: reason})
	}
	return rules.Verdict{Failures: failures}
}
