package rules

import "context"

// outputNode is the terminal node for one producer: it tracks the
// at-most-once firing invariant and the FIFO queue of input facts awaiting
// a firing pass.
type outputNode struct {
	id       string
	ruleName string
	priority int
	producer *Producer

	firedFor *factSet
	pending  []any
}

func newOutputNode(p *Producer) *outputNode {
	return &outputNode{
		id:       newNodeID(),
		ruleName: p.Name,
		priority: p.Priority,
		producer: p,
		firedFor: newFactSet(),
		pending:  nil,
	}
}

// leftActivate queues fact for firing unless it has already fired (or is
// already queued) for this node.
func (o *outputNode) leftActivate(fact any) {
	if o.firedFor.contains(fact) {
		return
	}
	o.firedFor.add(fact)
	o.pending = append(o.pending, fact)
}

func (o *outputNode) hasPending() bool { return len(o.pending) > 0 }

// firingResult pairs the input that triggered a firing with the outputs it
// produced: zero elements if the producer declined, one otherwise.
type firingResult struct {
	input   any
	outputs []any
}

// firePendingWithInputs drains the pending queue, invoking the producer's
// output function for every queued input tuple.
func (o *outputNode) firePendingWithInputs(ctx context.Context) ([]firingResult, error) {
	batch := o.pending
	o.pending = nil
	results := make([]firingResult, 0, len(batch))
	for _, in := range batch {
		out, produced, err := o.producer.produce(ctx, in)
		if err != nil {
			return nil, &EvaluationError{RuleName: o.ruleName, Err: err}
		}
		if !produced {
			results = append(results, firingResult{input: in})
			continue
		}
		results = append(results, firingResult{input: in, outputs: []any{out}})
	}
	return results, nil
}

// firePendingDiscard drains the pending queue without invoking the
// producer, used when an output node's rule was guard-skipped: its alpha
// node still queues activations, since the network does not consult the
// skip set.
func (o *outputNode) firePendingDiscard() { o.pending = nil }

func (o *outputNode) reset() {
	o.firedFor = newFactSet()
	o.pending = nil
}
