package rules

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// runFallback drives async-only producers in a naive do/while loop: each
// pass evaluates every not-yet-processed fact of every producer's type
// concurrently (one goroutine per producer, via errgroup), merges newly
// produced facts back into working memory in producer declaration order,
// and repeats until a whole pass adds nothing.
func (s *session) runFallback(ctx context.Context, producers []*Producer) error {
	processed := make(map[string]*factSet, len(producers))
	skippedNames := make(map[string]bool, len(producers))
	for _, p := range producers {
		processed[p.Name] = newFactSet()
		if p.Guard == nil {
			continue
		}
		allowed, err := p.Guard.evaluate(s.ctx)
		if err != nil {
			return &EvaluationError{RuleName: p.Name, Err: err}
		}
		if !allowed {
			s.skipped[p.Name] = p.Guard.Description
			skippedNames[p.Name] = true
			emitRuleSkipped(s.collector, p.Name, p.Guard.Description)
		}
	}

	type passResult struct {
		producer *Producer
		outputs  []any
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.iterations++
		if s.iterations > s.engine.config.MaxIterations {
			return &MaxIterationsExceededError{Iterations: s.iterations, MaxIterations: s.engine.config.MaxIterations}
		}

		results := make([]passResult, len(producers))
		g, gctx := errgroup.WithContext(ctx)
		for i, p := range producers {
			i, p := i, p
			if skippedNames[p.Name] {
				continue
			}
			g.Go(func() error {
				var outs []any
				for _, fact := range s.wm.ofType(p.inputType) {
					if processed[p.Name].contains(fact) {
						continue
					}
					processed[p.Name].add(fact)
					matched, err := p.matchFact(gctx, fact)
					if err != nil {
						return &EvaluationError{RuleName: p.Name, Err: err}
					}
					if !matched {
						continue
					}
					out, produced, err := p.callProduce(gctx, fact)
					if err != nil {
						return &EvaluationError{RuleName: p.Name, Err: err}
					}
					if produced {
						outs = append(outs, out)
					}
				}
				results[i] = passResult{producer: p, outputs: outs}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		addedAny := false
		for _, r := range results {
			if r.producer == nil {
				continue
			}
			var added []any
			for _, out := range r.outputs {
				if s.wm.Add(out) {
					s.wm.markDerived(out)
					s.ruleActivations++
					added = append(added, out)
					addedAny = true
					emitFactInserted(s.collector, out, true)
				}
			}
			if len(added) == 0 {
				continue
			}
			if s.engine.config.EnableTracing {
				s.trace = append(s.trace, RuleActivation{
					RuleName:    r.producer.Name,
					OutputFacts: added,
					Priority:    r.producer.Priority,
				})
			}
			emitRuleFired(s.collector, r.producer.Name, nil, added, r.producer.Priority)
		}

		if !addedAny {
			break
		}

		if s.iterations > 100 && !s.warnedRunaway && s.ruleActivations > s.iterations*len(producers)*2 {
			msg := fmt.Sprintf(
				"runaway execution detected: %d rule activations after %d iterations across %d fallback producers; tighten rule conditions",
				s.ruleActivations, s.iterations, len(producers))
			s.warnings = append(s.warnings, msg)
			Logger.Warn().Msg(msg)
			s.warnedRunaway = true
		}
	}
	return nil
}
