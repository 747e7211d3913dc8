package kernel

import (
	"testing"

	"github.com/arctir/kernsim/kernel/fsfake"
	"github.com/arctir/kernsim/kernel/memfake"
	"github.com/arctir/kernsim/kernel/vmfake"
)

func newAllocTestTable(size int) *Table {
	collabs := Collaborators{
		Pages: memfake.NewAllocator(0),
		VM:    vmfake.NewManager(),
		Files: fsfake.NewFS(),
		Clock: NewTickClock(),
	}
	return NewTable(TableConfig{Size: size, CPUs: 1}, collabs)
}

func TestAllocAssignsIncreasingPIDs(t *testing.T) {
	tbl := newAllocTestTable(4)

	r1, err := tbl.alloc()
	if err != nil {
		t.Fatalf("alloc: %s", err)
	}
	r2, err := tbl.alloc()
	if err != nil {
		t.Fatalf("alloc: %s", err)
	}
	if tbl.pcb(r1).pid == tbl.pcb(r2).pid {
		t.Fatalf("expected distinct pids, got %d and %d", tbl.pcb(r1).pid, tbl.pcb(r2).pid)
	}
	if tbl.pcb(r2).pid <= tbl.pcb(r1).pid {
		t.Fatalf("expected increasing pids, got %d then %d", tbl.pcb(r1).pid, tbl.pcb(r2).pid)
	}
}

func TestAllocTransitionsToEmbryo(t *testing.T) {
	tbl := newAllocTestTable(4)
	r, err := tbl.alloc()
	if err != nil {
		t.Fatalf("alloc: %s", err)
	}
	if tbl.pcb(r).state != Embryo {
		t.Fatalf("expected EMBRYO, got %s", tbl.pcb(r).state)
	}
	if tbl.pcb(r).kstack == nil {
		t.Fatal("expected kstack to be allocated")
	}
}

func TestAllocSetsStartTicksAtAllocationTime(t *testing.T) {
	tbl := newAllocTestTable(4)
	tbl.Tick(7)

	r, err := tbl.alloc()
	if err != nil {
		t.Fatalf("alloc: %s", err)
	}
	if tbl.pcb(r).startTicks != 7 {
		t.Fatalf("expected startTicks=7 at allocation, got %d", tbl.pcb(r).startTicks)
	}

	tbl.Tick(100)
	if tbl.pcb(r).startTicks != 7 {
		t.Fatalf("expected startTicks to stay fixed at 7, got %d", tbl.pcb(r).startTicks)
	}
}

func TestAllocTableFull(t *testing.T) {
	tbl := newAllocTestTable(1)
	if _, err := tbl.alloc(); err != nil {
		t.Fatalf("first alloc: %s", err)
	}
	if _, err := tbl.alloc(); err != ErrTableFull {
		t.Fatalf("expected ErrTableFull, got %v", err)
	}
}

func TestAllocStackFailureRollsBackToUnused(t *testing.T) {
	// capacity 0 means unbounded in memfake, so exhaust a one-page
	// allocator first to force the next AllocPage call to fail.
	pages := memfake.NewAllocator(1)
	if _, err := pages.AllocPage(); err != nil {
		t.Fatalf("priming alloc: %s", err)
	}

	collabs := Collaborators{
		Pages: pages,
		VM:    vmfake.NewManager(),
		Files: fsfake.NewFS(),
		Clock: NewTickClock(),
	}
	tbl := NewTable(TableConfig{Size: 2, CPUs: 1}, collabs)

	r, err := tbl.alloc()
	if err != ErrStackAlloc {
		t.Fatalf("expected ErrStackAlloc, got %v (ref %d)", err, r)
	}
	if tbl.lists[Unused].head == noRef {
		t.Fatal("expected a slot back on the UNUSED list after rollback")
	}
}
