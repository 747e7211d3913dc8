package kernel

// Userinit creates the first process: allocates its pcb, builds a fresh
// address space, and transitions it EMBRYO->RUNNABLE. body is run as the
// init process's "user-mode" program once a CPU dispatches it. Must be
// called exactly once. CPUs may already be running: the pcb is made
// RUNNABLE only after its goroutine has been started.
func (t *Table) Userinit(body func(*Proc)) (*Proc, error) {
	r, err := t.alloc()
	if err != nil {
		return nil, err
	}
	p := t.pcb(r)

	as, err := t.collabs.VM.SetupKVM()
	if err != nil {
		return nil, ErrAddressSpace
	}
	if err := t.collabs.VM.InitUVM(as, 0); err != nil {
		return nil, ErrAddressSpace
	}
	p.pgdir = as
	p.sz = 0
	p.name = "init"
	p.cwd = nil

	t.initRef = r
	t.runProcess(r, body)

	t.lock.Lock()
	t.transition(r, Embryo, Runnable)
	t.lock.Unlock()

	return t.newProc(r), nil
}

// Fork creates a child of proc: copies the parent's address space, size,
// open files, cwd, name, and credentials, then transitions the child
// EMBRYO->RUNNABLE. Returns the child's pid.
func (proc *Proc) Fork(body func(*Proc)) (PID, error) {
	t := proc.t
	parent := t.pcb(proc.r)

	cr, err := t.alloc()
	if err != nil {
		return 0, err
	}
	child := t.pcb(cr)

	as, err := t.collabs.VM.CopyUVM(parent.pgdir, parent.sz)
	if err != nil {
		t.lock.Lock()
		t.collabs.Pages.FreePage(child.kstack)
		t.transition(cr, Embryo, Unused)
		child.pid = 0
		t.lock.Unlock()
		return 0, ErrAddressSpace
	}
	child.pgdir = as
	child.sz = parent.sz
	child.parent = proc.r
	child.uid = parent.uid
	child.gid = parent.gid
	child.name = parent.name

	for i, f := range parent.ofile {
		if f != nil {
			child.ofile[i] = t.collabs.Files.Dup(f)
		}
	}
	if parent.cwd != nil {
		child.cwd = t.collabs.Files.IDup(parent.cwd)
	}

	t.runProcess(cr, body)

	t.lock.Lock()
	t.transition(cr, Embryo, Runnable)
	t.lock.Unlock()

	return child.pid, nil
}

// Exit tears the calling process down: closes its files, releases its
// cwd, wakes its parent (if waiting), reparents its own children to init
// (waking init if one of them is already a zombie), then transitions
// RUNNING->ZOMBIE and hands off to the scheduler for the last time. Unlike
// the original, whose sched() never returns because the C stack frame is
// simply abandoned, schedExit here does return once it has handed the CPU
// back — there is no way to "not return" from a Go function call — but by
// then there is nothing left for this goroutine to do, so Exit's return is
// also runProcess's goroutine's return.
func (proc *Proc) Exit(status int) {
	t := proc.t
	r := proc.r
	p := t.pcb(r)

	for i, f := range p.ofile {
		if f != nil {
			t.collabs.Files.Close(f)
			p.ofile[i] = nil
		}
	}
	if p.cwd != nil {
		t.collabs.Files.IPut(p.cwd)
		p.cwd = nil
	}

	t.lock.Lock()
	p.cpu.ncli++

	t.wakeup1Locked(p.parent)

	t.forEachNonUnused(func(cr ref) {
		c := t.pcb(cr)
		if c.parent == r {
			c.parent = t.initRef
			if c.state == Zombie {
				t.wakeup1Locked(t.initRef)
			}
		}
	})

	p.exitStatus = status
	t.transition(r, Running, Zombie)
	t.schedExit(p)
}

// Wait blocks until a child exits, reaps it, and returns its pid. Returns
// ErrNoChildren if the caller has no children, ErrKilled if the caller has
// been killed while it had none ready.
func (proc *Proc) Wait() (PID, error) {
	t := proc.t
	r := proc.r
	p := t.pcb(r)

	for {
		t.lock.Lock()
		p.cpu.ncli++
		haveChildren := false
		var zombie ref = noRef
		t.forEachNonUnused(func(cr ref) {
			if t.pcb(cr).parent == r {
				haveChildren = true
				if t.pcb(cr).state == Zombie && zombie == noRef {
					zombie = cr
				}
			}
		})

		if zombie != noRef {
			c := t.pcb(zombie)
			pid := c.pid
			t.collabs.Pages.FreePage(c.kstack)
			t.collabs.VM.FreeVM(c.pgdir)
			c.pid = 0
			c.parent = noRef
			c.name = ""
			c.killed = false
			c.exitStatus = 0
			c.kstack = nil
			c.pgdir = nil
			t.transition(zombie, Zombie, Unused)
			p.cpu.ncli--
			t.lock.Unlock()
			return pid, nil
		}

		if !haveChildren || p.killed {
			p.cpu.ncli--
			t.lock.Unlock()
			return 0, errIfKilled(p)
		}

		t.sleepLocked(r, r)
	}
}

func errIfKilled(p *pcb) error {
	if p.killed {
		return ErrKilled
	}
	return ErrNoChildren
}

// Growproc adjusts the process's user image size by n bytes (positive to
// grow, negative to shrink) and re-activates its address space. It does
// not take the table lock: a process only ever grows itself.
func (proc *Proc) Growproc(n int) error {
	t := proc.t
	p := t.pcb(proc.r)

	oldSz := p.sz
	newSz := oldSz + n
	var actual int
	var err error
	if n >= 0 {
		actual, err = t.collabs.VM.AllocUVM(p.pgdir, oldSz, newSz)
	} else {
		actual, err = t.collabs.VM.DeallocUVM(p.pgdir, oldSz, newSz)
	}
	if err != nil {
		return ErrGrowFailed
	}
	p.sz = actual
	return t.collabs.VM.SwitchUVM(p.pgdir)
}
