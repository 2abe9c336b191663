package rules

import (
	"context"
	"reflect"
)

// alphaNode type-filters and condition-tests facts for one producer, then
// fans accepted facts out to its successor output nodes.
type alphaNode struct {
	id         string
	inputType  reflect.Type
	producer   *Producer
	memory     *factSet
	successors []*outputNode
}

func newAlphaNode(p *Producer) *alphaNode {
	return &alphaNode{
		id:        newNodeID(),
		inputType: p.inputType,
		producer:  p,
		memory:    newFactSet(),
	}
}

// activate runs the type filter, memoization check, and condition test for
// fact, propagating to successors on acceptance. The condition-false case
// is deliberately not memoized: the same fact instance may later be
// re-offered to this node (e.g. after being re-derived through another
// path), and it must be allowed another chance.
func (a *alphaNode) activate(ctx context.Context, fact any) (bool, error) {
	ft := reflect.TypeOf(fact)
	if ft == nil || !instanceOf(ft, a.inputType) {
		return false, nil
	}
	if a.memory.contains(fact) {
		return false, nil
	}
	ok, err := a.producer.matchFact(ctx, fact)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	a.memory.add(fact)
	for _, succ := range a.successors {
		succ.leftActivate(fact)
	}
	return true, nil
}

func (a *alphaNode) reset() { a.memory = newFactSet() }

// instanceOf reports whether a value of runtime type concrete should be
// accepted by a node declared over declared: an exact match, or, when
// declared is an interface, satisfaction of it.
func instanceOf(concrete, declared reflect.Type) bool {
	if concrete == declared {
		return true
	}
	if declared.Kind() == reflect.Interface {
		return concrete.Implements(declared)
	}
	return false
}
