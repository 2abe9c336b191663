package rules

import "reflect"

// WorkingMemory is the per-session fact store. It deduplicates facts by
// structural equality and indexes them by concrete runtime type so that an
// exact-type query is O(1); a query for an interface (trait) type falls
// back to a linear scan testing instance membership.
type WorkingMemory struct {
	members   *factSet
	order     []any
	typeIndex map[reflect.Type][]any
	derived   *factSet
}

func newWorkingMemory() *WorkingMemory {
	return &WorkingMemory{
		members:   newFactSet(),
		typeIndex: make(map[reflect.Type][]any),
		derived:   newFactSet(),
	}
}

// Add inserts fact into working memory, returning true if it was newly
// added (i.e. no structurally-equal fact was already present).
func (wm *WorkingMemory) Add(fact any) bool {
	if !wm.members.add(fact) {
		return false
	}
	wm.order = append(wm.order, fact)
	t := reflect.TypeOf(fact)
	wm.typeIndex[t] = append(wm.typeIndex[t], fact)
	return true
}

// Contains reports whether a structurally-equal fact is already present.
func (wm *WorkingMemory) Contains(fact any) bool {
	return wm.members.contains(fact)
}

// All returns every fact currently in working memory, in insertion order.
func (wm *WorkingMemory) All() []any {
	return append([]any(nil), wm.order...)
}

// Size returns the number of facts in working memory.
func (wm *WorkingMemory) Size() int { return len(wm.order) }

func (wm *WorkingMemory) markDerived(fact any) { wm.derived.add(fact) }

func (wm *WorkingMemory) derivedFacts() []any {
	var out []any
	for _, f := range wm.order {
		if wm.derived.contains(f) {
			out = append(out, f)
		}
	}
	return out
}

// ofType returns the facts assignable to t.
func (wm *WorkingMemory) ofType(t reflect.Type) []any {
	if t.Kind() == reflect.Interface {
		var out []any
		for _, f := range wm.order {
			ft := reflect.TypeOf(f)
			if ft != nil && ft.Implements(t) {
				out = append(out, f)
			}
		}
		return out
	}
	return append([]any(nil), wm.typeIndex[t]...)
}

// OfType returns the facts of type T. T may be a concrete fact type (an O(1)
// index lookup) or an interface implemented by a subset of stored facts (a
// linear scan).
func OfType[T any](wm *WorkingMemory) []T {
	t := typeOf[T]()
	var out []T
	for _, f := range wm.ofType(t) {
		out = append(out, f.(T))
	}
	return out
}

// FilterByInstance is an alias for OfType, named for readers thinking in
// terms of a trait/supertype query rather than a concrete type lookup.
func FilterByInstance[T any](wm *WorkingMemory) []T {
	return OfType[T](wm)
}
