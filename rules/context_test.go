package rules

import "testing"

func TestRuleContextGetAbsent(t *testing.T) {
	key := NewContextKey[string]("tier")
	if _, ok := Get(EMPTY, key); ok {
		t.Error("expected absent key to report false")
	}
}

func TestRuleContextWithIsImmutable(t *testing.T) {
	key := NewContextKey[string]("tier")
	base := EMPTY
	next := With(base, key, "gold")

	if _, ok := Get(base, key); ok {
		t.Error("With must not mutate its receiver")
	}
	got, ok := Get(next, key)
	if !ok || got != "gold" {
		t.Errorf("Get(next, key) = (%v, %v), want (gold, true)", got, ok)
	}
}

func TestRuleContextGetOrDefault(t *testing.T) {
	key := NewContextKey[int]("count")
	if got := GetOrDefault(EMPTY, key, 7); got != 7 {
		t.Errorf("GetOrDefault on empty context = %d, want 7", got)
	}
	ctx := With(EMPTY, key, 3)
	if got := GetOrDefault(ctx, key, 7); got != 3 {
		t.Errorf("GetOrDefault on populated context = %d, want 3", got)
	}
}

func TestRuleContextDistinctKeysSameName(t *testing.T) {
	a := NewContextKey[string]("tier")
	b := NewContextKey[string]("tier")
	ctx := With(EMPTY, a, "gold")

	if Contains(ctx, b) {
		t.Error("two keys built from the same name must remain distinct")
	}
}
