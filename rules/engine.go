package rules

import (
	"context"
	"sync"
)

// Engine is a static, immutable description of rules compiled into a
// per-phase discrimination network. It is safe to reuse across goroutines:
// the compiled networks hold mutable per-session state (alpha memories,
// fired_for sets, pending queues), so Evaluate and EvaluateAsync serialize
// on mu, resetting every phase's network before each session runs.
type Engine struct {
	mu       sync.Mutex
	config   Config
	phases   []*Phase
	compiled []*compiledPhase
	hasAsync bool
}

// Phases returns the engine's phases in declaration order, the implicit
// default phase first if one was used.
func (e *Engine) Phases() []*Phase { return e.phases }

// FactProducerNames returns every producer name, flattened across phases in
// declaration order.
func (e *Engine) FactProducerNames() []string {
	var names []string
	for _, p := range e.phases {
		for _, prod := range p.Producers {
			names = append(names, prod.Name)
		}
	}
	return names
}

// ValidationRuleNames returns every validator name, flattened across phases
// in declaration order.
func (e *Engine) ValidationRuleNames() []string {
	var names []string
	for _, p := range e.phases {
		for _, v := range p.Validators {
			names = append(names, v.Name)
		}
	}
	return names
}

// Size returns the total number of rules (producers plus validators) the
// engine holds.
func (e *Engine) Size() int {
	return len(e.FactProducerNames()) + len(e.ValidationRuleNames())
}

// HasAsyncRules reports whether any producer or validator requires async
// evaluation.
func (e *Engine) HasAsyncRules() bool { return e.hasAsync }

// Evaluate runs a synchronous evaluation. It returns a *ModeMismatchError
// without running anything if the engine contains any async rule.
func (e *Engine) Evaluate(ctx context.Context, facts []any, ruleCtx RuleContext, collector Collector) (*EngineResult, error) {
	if e.hasAsync {
		return nil, &ModeMismatchError{}
	}
	return e.run(ctx, facts, ruleCtx, collector)
}

// EvaluateAsync runs an evaluation that awaits every async condition and
// output function, and drives async-only producers through the fallback
// loop after each phase's synchronous fixpoint.
func (e *Engine) EvaluateAsync(ctx context.Context, facts []any, ruleCtx RuleContext, collector Collector) (*EngineResult, error) {
	return e.run(ctx, facts, ruleCtx, collector)
}

func (e *Engine) run(ctx context.Context, facts []any, ruleCtx RuleContext, collector Collector) (*EngineResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess := newSession(e, ruleCtx, collector)

	for _, fact := range facts {
		if sess.wm.Add(fact) {
			emitFactInserted(collector, fact, false)
		}
	}

	for _, cp := range e.compiled {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := sess.runPhase(ctx, cp); err != nil {
			return nil, err
		}
	}

	if err := sess.runValidation(ctx); err != nil {
		return nil, err
	}

	result := sess.result()
	emitCompleted(collector, result)
	return result, nil
}
