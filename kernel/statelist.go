package kernel

import "fmt"

// stateList is a singly-linked list of pcbs, all sharing one lifecycle
// state, threaded through the pcb arena via the next ref rather than a
// pointer. head/tail make append O(1).
type stateList struct {
	tag   State
	head  ref
	tail  ref
}

// listAdd appends p to the tail of the list in O(1). Per the original's
// stateListAdd, the newly appended entry's next is always cleared, even
// though that entry may already be mid-list in some other representation
// — callers must ensure p has already been unlinked from any prior list.
func (t *Table) listAdd(l *stateList, r ref) {
	p := t.pcb(r)
	p.next = noRef
	if l.head == noRef {
		l.head = r
		l.tail = r
		return
	}
	t.pcb(l.tail).next = r
	l.tail = r
}

// listRemove unhooks r from l via a linear scan, fixing head/tail, and nulls
// r's next link. It panics if r is not a member of l: removal of an
// absent element is a programmer bug, not a recoverable condition.
func (t *Table) listRemove(l *stateList, r ref) {
	if l.head == noRef {
		panic(fmt.Sprintf("kernel: listRemove: list %s is empty", l.tag))
	}
	if l.head == r {
		l.head = t.pcb(r).next
		if l.tail == r {
			l.tail = noRef
		}
		t.pcb(r).next = noRef
		return
	}
	prev := l.head
	for cur := t.pcb(prev).next; cur != noRef; cur = t.pcb(prev).next {
		if cur == r {
			t.pcb(prev).next = t.pcb(cur).next
			if l.tail == cur {
				l.tail = prev
			}
			t.pcb(cur).next = noRef
			return
		}
		prev = cur
	}
	panic(fmt.Sprintf("kernel: listRemove: pcb not found in list %s", l.tag))
}

// assertState panics unless p's state is expected. A debug helper callers
// use before removing p from a list, to catch state/list-membership
// mismatches as early as possible.
func (t *Table) assertState(r ref, expected State) {
	p := t.pcb(r)
	if p.state != expected {
		panic(fmt.Sprintf("kernel: assertState: pcb pid=%d has state %s, expected %s", p.pid, p.state, expected))
	}
}

// transition moves r from list `from` to list `to`, asserting the state
// matches `from`, then sets r's state to `to`'s tag. Callers must hold the
// table lock.
func (t *Table) transition(r ref, from, to State) {
	t.assertState(r, from)
	t.listRemove(&t.lists[from], r)
	t.pcb(r).state = to
	t.listAdd(&t.lists[to], r)
}

// forEachInList walks l calling fn for each member, in head-to-tail order.
func (t *Table) forEachInList(l *stateList, fn func(ref)) {
	for r := l.head; r != noRef; r = t.pcb(r).next {
		fn(r)
	}
}

// forEachNonUnused walks every list except UNUSED, in state-tag order.
func (t *Table) forEachNonUnused(fn func(ref)) {
	for s := Embryo; s <= Zombie; s++ {
		t.forEachInList(&t.lists[s], fn)
	}
}
