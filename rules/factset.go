package rules

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/hashstructure/v2"
)

// factHash returns a structural hash for v. Facts (and fact tuples, which
// are represented as []any) are hashed field-by-field so that two values
// with equal content hash equally, the precondition for treating every
// fact as structurally comparable.
func factHash(v any) uint64 {
	h, err := hashstructure.Hash(v, hashstructure.FormatV2, nil)
	if err != nil {
		// v contains something hashstructure can't walk (a func, a chan).
		// Fall back to its formatted representation so it can still be
		// deduplicated, rather than letting one malformed fact abort hashing.
		h, _ = hashstructure.Hash(fmt.Sprintf("%#v", v), hashstructure.FormatV2, nil)
	}
	return h
}

// factSet deduplicates arbitrary values by structural equality, resolving
// hash collisions with reflect.DeepEqual. It backs working memory, alpha
// node memory, output node fired_for sets, and the fallback driver's
// per-rule processed-fact sets.
type factSet struct {
	buckets map[uint64][]any
}

func newFactSet() *factSet {
	return &factSet{buckets: make(map[uint64][]any)}
}

func (s *factSet) contains(v any) bool {
	for _, x := range s.buckets[factHash(v)] {
		if reflect.DeepEqual(x, v) {
			return true
		}
	}
	return false
}

// add inserts v, returning true if it was not already present.
func (s *factSet) add(v any) bool {
	h := factHash(v)
	for _, x := range s.buckets[h] {
		if reflect.DeepEqual(x, v) {
			return false
		}
	}
	s.buckets[h] = append(s.buckets[h], v)
	return true
}
