package kernel

import (
	"fmt"
	"time"
)

// sched is the cooperative hand-off used by Yield and Sleep: the caller
// must hold the table lock with exactly one level of nesting and must
// already have moved p off RUNNING. sched hands the CPU back to the
// dispatch loop, releasing the table lock as it does so (a process's body
// always resumes running unlocked), and blocks until this pcb is
// dispatched again.
func (t *Table) sched(p *pcb) {
	if p.cpu == nil {
		panic("kernel: sched: pcb not attached to a CPU")
	}
	if p.cpu.ncli != 1 {
		panic(fmt.Sprintf("kernel: sched: ncli is %d, expected 1", p.cpu.ncli))
	}
	if p.state == Running {
		panic("kernel: sched: pcb still RUNNING")
	}
	savedIntena := p.cpu.intena
	p.cpuTicksTotal += t.collabs.Clock.Ticks() - p.cpuTicksIn
	p.cpu.ncli--
	p.handoffCh <- struct{}{}
	t.lock.Unlock()
	<-p.resumeCh
	p.cpu.intena = savedIntena
}

// schedExit is sched's one-way variant for a process that has just
// transitioned to ZOMBIE: it releases the table lock and hands control
// back to the CPU without ever expecting to be resumed. The caller's
// goroutine ends immediately afterward.
func (t *Table) schedExit(p *pcb) {
	if p.cpu.ncli != 1 {
		panic(fmt.Sprintf("kernel: schedExit: ncli is %d, expected 1", p.cpu.ncli))
	}
	if p.state != Zombie {
		panic("kernel: schedExit: pcb not ZOMBIE")
	}
	p.cpuTicksTotal += t.collabs.Clock.Ticks() - p.cpuTicksIn
	p.cpu.ncli--
	p.handoffCh <- struct{}{}
	t.lock.Unlock()
}

// dispatchPick returns the RUNNABLE head, if any, without removing it (Run
// then transitions it to RUNNING). Callers must hold the table lock. Because stateListAdd always nulls the moved entry's next,
// at most one process is ever dispatched per acquisition here — the
// repeated dispatch comes from Run's outer loop, not from iterating the
// RUNNABLE list in one pass. This reproduces the original scheduler()'s
// actual behavior rather than the batch dispatch its inner for loop
// suggests at a glance.
func (t *Table) dispatchPick() ref {
	return t.lists[Runnable].head
}

// Run is a simulated CPU's dispatch loop. It never returns; call it in its
// own goroutine per CPU.
//
// The table lock is held only while picking a process and flipping it to
// RUNNING; it is released before the process is resumed, so the process's
// body always runs unlocked and other CPUs can keep dispatching and
// mutating the table while it does. sched/schedExit release the lock again
// on the process's behalf the instant it yields, sleeps, or exits, and Run
// reacquires it briefly afterward to record the process leaving the CPU.
func (c *CPU) Run(t *Table) {
	for {
		t.lock.Lock()
		c.ncli++
		r := t.dispatchPick()
		if r == noRef {
			c.ncli--
			t.lock.Unlock()
			time.Sleep(c.IdleBackoff)
			continue
		}
		t.assertState(r, Runnable)
		p := t.pcb(r)
		if err := t.collabs.VM.SwitchUVM(p.pgdir); err != nil {
			panic(fmt.Sprintf("kernel: switchuvm failed for pid %d: %s", p.pid, err))
		}
		t.transition(r, Runnable, Running)
		p.cpuTicksIn = t.collabs.Clock.Ticks()
		p.cpu = c
		c.current = r
		c.ncli--
		t.lock.Unlock()

		p.resumeCh <- struct{}{}
		<-p.handoffCh

		t.lock.Lock()
		c.ncli++
		if err := t.collabs.VM.SwitchKVM(); err != nil {
			panic(fmt.Sprintf("kernel: switchkvm failed: %s", err))
		}
		c.current = noRef
		c.ncli--
		t.lock.Unlock()
	}
}

// Yield voluntarily gives up the CPU: RUNNING->RUNNABLE, tail of the
// runnable list, then sched().
func (proc *Proc) Yield() {
	t := proc.t
	r := proc.r
	p := t.pcb(r)
	t.lock.Lock()
	p.cpu.ncli++
	t.transition(r, Running, Runnable)
	t.sched(p)
}
