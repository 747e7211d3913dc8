package kernel

import (
	"testing"
	"time"

	"github.com/arctir/kernsim/kernel/fsfake"
	"github.com/arctir/kernsim/kernel/memfake"
	"github.com/arctir/kernsim/kernel/vmfake"
)

func newTestTable(t *testing.T, cfg TableConfig) *Table {
	t.Helper()
	collabs := Collaborators{
		Pages: memfake.NewAllocator(0),
		VM:    vmfake.NewManager(),
		Files: fsfake.NewFS(),
		Clock: NewTickClock(),
	}
	return NewTable(cfg, collabs)
}

// waitFor polls cond until it's true or the deadline passes, failing the
// test otherwise. The scheduler here runs on its own goroutines with no
// external clock to drive, so tests must poll rather than single-step.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for: %s", msg)
}

// TestForkWaitExit runs a single CPU through init forking a child, the
// child exiting immediately, and init reaping it via Wait — the same
// interleaving procdump/ps would see in the original: the child transitions
// RUNNABLE->RUNNING->ZOMBIE while init is parked SLEEPING on its own ref,
// and the child's Exit wakes init back to RUNNABLE.
func TestForkWaitExit(t *testing.T) {
	table := newTestTable(t, TableConfig{Size: 8, CPUs: 1})

	childPID := make(chan PID, 1)
	reapedPID := make(chan PID, 1)
	reapedErr := make(chan error, 1)

	initBody := func(proc *Proc) {
		pid, err := proc.Fork(func(child *Proc) {
			childPID <- child.PID()
		})
		if err != nil {
			t.Errorf("fork failed: %s", err)
			return
		}
		got, err := proc.Wait()
		reapedPID <- got
		reapedErr <- err
		_ = pid
	}

	if _, err := table.Userinit(initBody); err != nil {
		t.Fatalf("userinit failed: %s", err)
	}

	go table.CPUs()[0].Run(table)

	var wantChild PID
	select {
	case wantChild = <-childPID:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for child to run")
	}

	var gotPID PID
	var gotErr error
	select {
	case gotPID = <-reapedPID:
		gotErr = <-reapedErr
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for wait() to reap the child")
	}

	if gotErr != nil {
		t.Fatalf("wait() returned error: %s", gotErr)
	}
	if gotPID != wantChild {
		t.Fatalf("wait() reaped pid %d, want %d", gotPID, wantChild)
	}

	waitFor(t, func() bool {
		return table.pcb(ref(2)).state == Unused
	}, "child pcb recycled to UNUSED after reap")
}

// TestWaitNoChildrenReturnsErrNoChildren exercises the base case: a process
// with no children calling Wait returns immediately with ErrNoChildren
// rather than blocking forever.
func TestWaitNoChildrenReturnsErrNoChildren(t *testing.T) {
	table := newTestTable(t, TableConfig{Size: 4, CPUs: 1})

	done := make(chan error, 1)
	initBody := func(proc *Proc) {
		_, err := proc.Wait()
		done <- err
	}
	if _, err := table.Userinit(initBody); err != nil {
		t.Fatalf("userinit failed: %s", err)
	}

	go table.CPUs()[0].Run(table)

	select {
	case err := <-done:
		if err != ErrNoChildren {
			t.Fatalf("wait() returned %v, want ErrNoChildren", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for wait() to return")
	}
}

// TestYieldReturnsToRunnable confirms Yield round-trips RUNNING->RUNNABLE
// and back without wedging the CPU's dispatch loop — a process that never
// yields is invisible to this protocol bug class, since Run only ever
// hands off to sched() at sleep/exit otherwise.
func TestYieldReturnsToRunnable(t *testing.T) {
	table := newTestTable(t, TableConfig{Size: 4, CPUs: 1})

	yields := make(chan struct{}, 3)
	done := make(chan struct{})
	initBody := func(proc *Proc) {
		for i := 0; i < 3; i++ {
			proc.Yield()
			yields <- struct{}{}
		}
		close(done)
	}
	if _, err := table.Userinit(initBody); err != nil {
		t.Fatalf("userinit failed: %s", err)
	}

	go table.CPUs()[0].Run(table)

	for i := 0; i < 3; i++ {
		select {
		case <-yields:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for yield %d", i)
		}
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for body to finish")
	}
}

// TestSleepWakeup drives SleepTicks via Table.Tick and confirms the
// process actually blocks until the clock advances far enough.
func TestSleepWakeup(t *testing.T) {
	table := newTestTable(t, TableConfig{Size: 4, CPUs: 1})

	woke := make(chan struct{})
	initBody := func(proc *Proc) {
		proc.SleepTicks(5)
		close(woke)
	}
	if _, err := table.Userinit(initBody); err != nil {
		t.Fatalf("userinit failed: %s", err)
	}

	go table.CPUs()[0].Run(table)

	waitFor(t, func() bool {
		return table.pcb(ref(1)).state == Sleeping
	}, "init asleep on the tick channel")

	select {
	case <-woke:
		t.Fatal("process woke before enough ticks elapsed")
	case <-time.After(50 * time.Millisecond):
	}

	table.Tick(5)

	select {
	case <-woke:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for sleep to return after ticks advanced")
	}
}

// TestKillWakesSleeper confirms Kill flips a sleeping process's killed flag
// and moves it back to RUNNABLE so it can observe the flag and exit, rather
// than sleeping forever.
func TestKillWakesSleeper(t *testing.T) {
	table := newTestTable(t, TableConfig{Size: 4, CPUs: 1})

	childDone := make(chan struct{})
	var childPID PID
	pidReady := make(chan struct{})

	initBody := func(proc *Proc) {
		_, err := proc.Fork(func(child *Proc) {
			childPID = child.PID()
			close(pidReady)
			for !child.Killed() {
				child.Sleep("never-woken")
			}
			close(childDone)
		})
		if err != nil {
			t.Errorf("fork failed: %s", err)
		}
		proc.Wait()
	}
	if _, err := table.Userinit(initBody); err != nil {
		t.Fatalf("userinit failed: %s", err)
	}

	go table.CPUs()[0].Run(table)

	select {
	case <-pidReady:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for child pid")
	}

	waitFor(t, func() bool {
		return table.pcb(ref(2)).state == Sleeping
	}, "child asleep before kill")

	if err := table.Kill(childPID); err != nil {
		t.Fatalf("kill failed: %s", err)
	}

	select {
	case <-childDone:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for killed child to exit")
	}
}
