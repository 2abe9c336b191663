package rules

import "testing"

type point struct{ X, Y int }

func TestFactSetAdd(t *testing.T) {
	cases := []struct {
		name    string
		initial []any
		next    any
		wantNew bool
	}{
		{"first insert is new", nil, point{1, 2}, true},
		{"structural duplicate is not new", []any{point{1, 2}}, point{1, 2}, false},
		{"different field value is new", []any{point{1, 2}}, point{1, 3}, true},
		{"value of a different type is new", []any{point{1, 2}}, "not a point", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newFactSet()
			for _, v := range tc.initial {
				s.add(v)
			}
			got := s.add(tc.next)
			if got != tc.wantNew {
				t.Errorf("add(%v) = %v, want %v", tc.next, got, tc.wantNew)
			}
		})
	}
}

func TestFactSetContains(t *testing.T) {
	s := newFactSet()
	s.add(point{1, 2})

	if !s.contains(point{1, 2}) {
		t.Error("expected contains to find structurally-equal value")
	}
	if s.contains(point{2, 1}) {
		t.Error("expected contains to reject a different value")
	}
}
