package kernel

import "testing"

func newEmptyTestTable() *Table {
	return &Table{pcbs: make([]pcb, 5)}
}

func TestListAddSingle(t *testing.T) {
	tbl := newEmptyTestTable()
	l := &stateList{tag: Runnable}
	tbl.listAdd(l, ref(1))
	if l.head != ref(1) || l.tail != ref(1) {
		t.Fatalf("expected head=tail=1, got head=%d tail=%d", l.head, l.tail)
	}
	if tbl.pcb(ref(1)).next != noRef {
		t.Fatalf("expected single-entry next to be noRef, got %d", tbl.pcb(ref(1)).next)
	}
}

func TestListAddAppendsToTail(t *testing.T) {
	tbl := newEmptyTestTable()
	l := &stateList{tag: Runnable}
	tbl.listAdd(l, ref(1))
	tbl.listAdd(l, ref(2))
	tbl.listAdd(l, ref(3))

	if l.head != ref(1) || l.tail != ref(3) {
		t.Fatalf("expected head=1 tail=3, got head=%d tail=%d", l.head, l.tail)
	}
	var order []ref
	tbl.forEachInList(l, func(r ref) { order = append(order, r) })
	want := []ref{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("expected order %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestListRemoveHead(t *testing.T) {
	tbl := newEmptyTestTable()
	l := &stateList{tag: Runnable}
	tbl.listAdd(l, ref(1))
	tbl.listAdd(l, ref(2))
	tbl.listRemove(l, ref(1))
	if l.head != ref(2) {
		t.Fatalf("expected head=2 after removing head, got %d", l.head)
	}
}

func TestListRemoveTail(t *testing.T) {
	tbl := newEmptyTestTable()
	l := &stateList{tag: Runnable}
	tbl.listAdd(l, ref(1))
	tbl.listAdd(l, ref(2))
	tbl.listRemove(l, ref(2))
	if l.tail != ref(1) {
		t.Fatalf("expected tail=1 after removing tail, got %d", l.tail)
	}
	if tbl.pcb(ref(1)).next != noRef {
		t.Fatalf("expected new tail's next to be noRef, got %d", tbl.pcb(ref(1)).next)
	}
}

func TestListRemoveMiddle(t *testing.T) {
	tbl := newEmptyTestTable()
	l := &stateList{tag: Runnable}
	tbl.listAdd(l, ref(1))
	tbl.listAdd(l, ref(2))
	tbl.listAdd(l, ref(3))
	tbl.listRemove(l, ref(2))

	var order []ref
	tbl.forEachInList(l, func(r ref) { order = append(order, r) })
	if len(order) != 2 || order[0] != 1 || order[1] != 3 {
		t.Fatalf("expected [1 3] after removing middle, got %v", order)
	}
}

func TestListRemoveMissingPanics(t *testing.T) {
	tbl := newEmptyTestTable()
	l := &stateList{tag: Runnable}
	tbl.listAdd(l, ref(1))

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic removing a ref not in the list")
		}
	}()
	tbl.listRemove(l, ref(2))
}

func TestTransitionMovesBetweenLists(t *testing.T) {
	tbl := newEmptyTestTable()
	tbl.lists[Runnable] = stateList{tag: Runnable}
	tbl.lists[Running] = stateList{tag: Running}
	tbl.pcb(ref(1)).state = Runnable
	tbl.listAdd(&tbl.lists[Runnable], ref(1))

	tbl.transition(ref(1), Runnable, Running)

	if tbl.pcb(ref(1)).state != Running {
		t.Fatalf("expected state Running, got %s", tbl.pcb(ref(1)).state)
	}
	if tbl.lists[Runnable].head != noRef {
		t.Fatalf("expected Runnable list empty after transition")
	}
	if tbl.lists[Running].head != ref(1) {
		t.Fatalf("expected Running list to contain pcb 1")
	}
}

func TestAssertStateMismatchPanics(t *testing.T) {
	tbl := newEmptyTestTable()
	tbl.pcb(ref(1)).state = Runnable

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on state mismatch")
		}
	}()
	tbl.assertState(ref(1), Running)
}

func TestForEachNonUnusedSkipsUnused(t *testing.T) {
	tbl := newEmptyTestTable()
	for s := range tbl.lists {
		tbl.lists[s] = stateList{tag: State(s)}
	}
	tbl.pcb(ref(1)).state = Unused
	tbl.listAdd(&tbl.lists[Unused], ref(1))
	tbl.pcb(ref(2)).state = Runnable
	tbl.listAdd(&tbl.lists[Runnable], ref(2))

	var seen []ref
	tbl.forEachNonUnused(func(r ref) { seen = append(seen, r) })
	if len(seen) != 1 || seen[0] != ref(2) {
		t.Fatalf("expected only pcb 2 visited, got %v", seen)
	}
}
