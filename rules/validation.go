package rules

import "context"

// runValidation runs every validator pooled across every phase, in
// declaration order, against the final working memory.
func (s *session) runValidation(ctx context.Context) error {
	for _, cp := range s.engine.compiled {
		for _, v := range cp.phase.Validators {
			if err := ctx.Err(); err != nil {
				return err
			}
			if v.Guard != nil {
				allowed, err := v.Guard.evaluate(s.ctx)
				if err != nil {
					return &EvaluationError{RuleName: v.Name, Err: err}
				}
				if !allowed {
					s.skipped[v.Name] = v.Guard.Description
					emitRuleSkipped(s.collector, v.Name, v.Guard.Description)
					continue
				}
			}

			for _, fact := range s.wm.ofType(v.inputType) {
				ok, err := v.evaluate(ctx, fact)
				if err != nil {
					return &EvaluationError{RuleName: v.Name, Err: err}
				}
				if ok {
					emitValidationPassed(s.collector, v.Name, fact)
					continue
				}
				reason, err := v.failureReason(ctx, fact)
				if err != nil {
					return &EvaluationError{RuleName: v.Name, Err: err}
				}
				s.verdictFailures = append(s.verdictFailures, Failure{RuleName: v.Name, Fact: fact, Reason: reason})
				emitValidationFailed(s.collector, v.Name, fact, reason)
			}
		}
	}
	return nil
}
