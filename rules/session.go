package rules

import "context"

// session owns one evaluation's mutable state: working memory, counters,
// skip/trace/warning accumulators. Sessions are never shared across calls
// or goroutines.
type session struct {
	engine    *Engine
	ctx       RuleContext
	collector Collector

	wm *WorkingMemory

	skipped         map[string]string
	trace           []RuleActivation
	warnings        []string
	verdictFailures []Failure
	iterations      int
	ruleActivations int
	warnedRunaway   bool
}

func newSession(e *Engine, ruleCtx RuleContext, collector Collector) *session {
	return &session{
		engine:    e,
		ctx:       ruleCtx,
		collector: collector,
		wm:        newWorkingMemory(),
		skipped:   make(map[string]string),
	}
}

// runPhase drives one phase's compiled network to a fixpoint, firing the
// highest-priority eligible output node on each pass until none remain
// pending, then runs that phase's async fallback producers if any are
// present.
func (s *session) runPhase(ctx context.Context, cp *compiledPhase) error {
	net := cp.net
	net.reset()

	skippedIDs := make(map[string]bool)
	for _, out := range net.outputs {
		producer := cp.phase.findProducer(out.ruleName)
		if producer.Guard == nil {
			continue
		}
		allowed, err := producer.Guard.evaluate(s.ctx)
		if err != nil {
			return &EvaluationError{RuleName: out.ruleName, Err: err}
		}
		if !allowed {
			s.skipped[out.ruleName] = producer.Guard.Description
			skippedIDs[out.id] = true
			emitRuleSkipped(s.collector, out.ruleName, producer.Guard.Description)
		}
	}

	for _, fact := range s.wm.All() {
		if _, err := net.activate(ctx, fact); err != nil {
			return err
		}
	}

	for net.hasPendingActivations() {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.iterations++
		if s.iterations > s.engine.config.MaxIterations {
			return &MaxIterationsExceededError{Iterations: s.iterations, MaxIterations: s.engine.config.MaxIterations}
		}

		target := s.firstEligible(net, skippedIDs)
		if target == nil {
			for _, out := range net.outputs {
				if skippedIDs[out.id] {
					out.firePendingDiscard()
				}
			}
			break
		}

		results, err := target.firePendingWithInputs(ctx)
		if err != nil {
			return err
		}
		for _, res := range results {
			var added []any
			for _, out := range res.outputs {
				if s.wm.Add(out) {
					s.wm.markDerived(out)
					s.ruleActivations++
					added = append(added, out)
					emitFactInserted(s.collector, out, true)
					if _, err := net.activate(ctx, out); err != nil {
						return err
					}
				}
			}
			if len(added) > 0 {
				if s.engine.config.EnableTracing {
					s.trace = append(s.trace, RuleActivation{
						RuleName:    target.ruleName,
						InputFact:   res.input,
						OutputFacts: added,
						Priority:    target.priority,
					})
				}
				emitRuleFired(s.collector, target.ruleName, res.input, added, target.priority)
			}
		}
	}

	if len(cp.fallback) > 0 {
		return s.runFallback(ctx, cp.fallback)
	}
	return nil
}

// firstEligible returns the highest-priority output node (declaration order
// breaking ties) that has pending activations and was not guard-skipped, or
// nil if none qualifies.
func (s *session) firstEligible(net *network, skippedIDs map[string]bool) *outputNode {
	for _, out := range net.outputNodesByPriority() {
		if skippedIDs[out.id] {
			continue
		}
		if out.hasPending() {
			return out
		}
	}
	return nil
}

func (s *session) result() *EngineResult {
	return &EngineResult{
		facts:           s.wm,
		Verdict:         Verdict{Failures: s.verdictFailures},
		Skipped:         s.skipped,
		RuleActivations: s.ruleActivations,
		Iterations:      s.iterations,
		Trace:           s.trace,
		Warnings:        s.warnings,
	}
}
