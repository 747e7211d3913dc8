package kernel

// Kill marks the process with the given pid for termination: it sets the
// killed flag and, if the process is currently SLEEPING, wakes it so it
// can observe the flag and exit on its own. Kill does not end the process
// itself: Wait returns ErrKilled to a killed caller, and a body sees the
// flag through Killed(); Sleep and Yield do not check it.
// Returns ErrNoSuchProcess if no non-UNUSED pcb has this pid.
func (t *Table) Kill(pid PID) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	found := noRef
	t.forEachNonUnused(func(r ref) {
		if found == noRef && t.pcb(r).pid == pid {
			found = r
		}
	})
	if found == noRef {
		return ErrNoSuchProcess
	}

	p := t.pcb(found)
	p.killed = true
	if p.state == Sleeping {
		t.transition(found, Sleeping, Runnable)
	}
	return nil
}

// Killed reports whether the calling process has been marked for
// termination. Workload bodies poll this between steps and call Exit (or
// return, after which Exit runs for them) once it is true, the same way
// user code checks proc->killed after a system call returns.
func (proc *Proc) Killed() bool {
	return proc.t.pcb(proc.r).killed
}

// Setpriority and Getpriority are stand-ins for the scheduler's priority
// knobs. Priority-based scheduling is out of scope here (the dispatch
// order is strictly FIFO via the RUNNABLE list), so both are stubs that
// report the feature is unavailable rather than silently no-op.
func (proc *Proc) Setpriority(priority int) error {
	return ErrNotImplemented
}

func (proc *Proc) Getpriority() (int, error) {
	return 0, ErrNotImplemented
}
