package kernel

import "sync/atomic"

// Proc is the handle a workload's "user-mode" body code is given: it
// identifies one pcb within one Table and exposes the system-call surface
// (Fork, Exit, Wait, Sleep, Yield, Growproc; kill is Table.Kill). It is the simulation's
// analogue of "the trap frame arguments for the currently running
// process".
type Proc struct {
	t *Table
	r ref
}

// PID returns the process's pid.
func (proc *Proc) PID() PID {
	return proc.t.pcb(proc.r).pid
}

// Name returns the process's short label.
func (proc *Proc) Name() string {
	return proc.t.pcb(proc.r).name
}

// SetName sets the process's short printable label, truncated to the
// buffer size a real PCB would carry.
func (proc *Proc) SetName(name string) {
	p := proc.t.pcb(proc.r)
	if len(name) > nameLen-1 {
		name = name[:nameLen-1]
	}
	p.name = name
}

func (t *Table) newProc(r ref) *Proc {
	return &Proc{t: t, r: r}
}

// runProcess spawns the goroutine backing a pcb's lifetime. It blocks on
// the pcb's first resume signal (standing in for forkret/trapret; Run has
// already released the table lock by the time the signal arrives, so the
// body runs unlocked from its very first instruction), runs the process's
// body, and falls back to Exit if the body returns without calling it
// itself.
func (t *Table) runProcess(r ref, body func(*Proc)) {
	p := t.pcb(r)
	p.body = body
	pid := p.pid
	proc := t.newProc(r)
	go func() {
		<-p.resumeCh
		if atomic.CompareAndSwapInt32(&t.firstRun, 1, 0) {
			// Stand-in for forkret's one-time iinit/initlog call: the
			// collaborators are already constructed by the time NewTable
			// returns, so there is nothing further to do here beyond
			// flipping the flag; kept for parity with the original's
			// first-run hook shape. Tested outside t.lock since multiple
			// CPUs resume processes concurrently, hence the CAS rather
			// than a bare read-then-write.
		}
		if body != nil {
			body(proc)
		}
		// A body that called Exit itself has left RUNNING (and its slot may
		// since have been reaped and reused under a newer pid).
		t.lock.Lock()
		live := p.pid == pid && p.state == Running
		t.lock.Unlock()
		if live {
			proc.Exit(0)
		}
	}()
}
