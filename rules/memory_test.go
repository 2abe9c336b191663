package rules

import "testing"

type widget struct{ Name string }
type named interface{ GetName() string }

func (w widget) GetName() string { return w.Name }

func TestWorkingMemoryAdd(t *testing.T) {
	wm := newWorkingMemory()

	if !wm.Add(widget{Name: "a"}) {
		t.Fatal("first add should report true")
	}
	if wm.Add(widget{Name: "a"}) {
		t.Fatal("duplicate add should report false")
	}
	if wm.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", wm.Size())
	}
}

func TestWorkingMemoryOfTypeExact(t *testing.T) {
	wm := newWorkingMemory()
	wm.Add(widget{Name: "a"})
	wm.Add(widget{Name: "b"})
	wm.Add("not a widget")

	got := OfType[widget](wm)
	if len(got) != 2 {
		t.Fatalf("OfType[widget] returned %d facts, want 2", len(got))
	}
}

func TestWorkingMemoryOfTypeInterface(t *testing.T) {
	wm := newWorkingMemory()
	wm.Add(widget{Name: "a"})
	wm.Add("not a widget")

	got := FilterByInstance[named](wm)
	if len(got) != 1 || got[0].GetName() != "a" {
		t.Fatalf("FilterByInstance[named] = %v, want exactly the one widget", got)
	}
}

func TestWorkingMemoryDerivedTracking(t *testing.T) {
	wm := newWorkingMemory()
	wm.Add(widget{Name: "inserted"})
	wm.Add(widget{Name: "derived"})
	wm.markDerived(widget{Name: "derived"})

	derived := wm.derivedFacts()
	if len(derived) != 1 || derived[0].(widget).Name != "derived" {
		t.Fatalf("derivedFacts() = %v, want only the marked fact", derived)
	}
}
