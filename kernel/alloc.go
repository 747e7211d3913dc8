package kernel

// alloc pops the first UNUSED pcb, assigns it a pid, transitions it to
// EMBRYO, and allocates its kernel stack with the lock released (so a
// blocking allocator call never holds the table lock). On stack-allocation
// failure it rolls the slot back to UNUSED and returns ErrStackAlloc.
func (t *Table) alloc() (ref, error) {
	t.lock.Lock()
	r := t.lists[Unused].head
	if r == noRef {
		t.lock.Unlock()
		return noRef, ErrTableFull
	}
	t.transition(r, Unused, Embryo)
	t.nextPID++
	p := t.pcb(r)
	p.pid = t.nextPID
	p.killed = false
	p.exitStatus = 0
	p.waitChain = nil
	p.cpuTicksIn = 0
	p.cpuTicksTotal = 0
	p.startTicks = t.collabs.Clock.Ticks()
	p.resumeCh = make(chan struct{})
	p.handoffCh = make(chan struct{})
	t.lock.Unlock()

	stack, err := t.collabs.Pages.AllocPage()
	if err != nil {
		t.lock.Lock()
		t.transition(r, Embryo, Unused)
		p.pid = 0
		t.lock.Unlock()
		return noRef, ErrStackAlloc
	}
	p.kstack = stack
	// context points at forkret, which in turn returns to trapret; there is
	// no real register frame to lay out in the simulation, so this is
	// recorded only for introspection/debug dumps.
	p.context = "forkret"
	return r, nil
}
