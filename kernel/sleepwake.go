package kernel

import "strconv"

// sleepLocked transitions r from RUNNING to SLEEPING on channel ch and
// hands off to the CPU via sched. Callers must already hold the table
// lock with ncli bumped for this call (sched releases both on their
// behalf). Unlike the original, there is only ever one lock in this
// simulation (there is no separate caller lock to release-then-reacquire
// around the sleep), so the `lk != tableLock` branch of the source sleep()
// never applies here and is omitted.
func (t *Table) sleepLocked(r ref, ch any) {
	p := t.pcb(r)
	t.transition(r, Running, Sleeping)
	p.channel = ch
	p.waitChain = append(p.waitChain, channelLabel(ch))
	if len(p.waitChain) > 10 {
		p.waitChain = p.waitChain[len(p.waitChain)-10:]
	}
	t.sched(p)
	p.channel = nil
}

// Sleep suspends the calling process until a matching Wakeup. ch is an
// opaque identity: equality is raw identity, compared with ==.
func (proc *Proc) Sleep(ch any) {
	t := proc.t
	p := t.pcb(proc.r)
	t.lock.Lock()
	p.cpu.ncli++
	t.sleepLocked(proc.r, ch)
}

// wakeup1Locked walks the SLEEPING list and moves every pcb waiting on ch
// to RUNNABLE. Callers must hold the table lock.
func (t *Table) wakeup1Locked(ch any) {
	var woken []ref
	t.forEachInList(&t.lists[Sleeping], func(r ref) {
		if t.pcb(r).channel == ch {
			woken = append(woken, r)
		}
	})
	for _, r := range woken {
		t.transition(r, Sleeping, Runnable)
	}
}

// Wakeup wakes every process sleeping on ch.
func (t *Table) Wakeup(ch any) {
	t.lock.Lock()
	t.wakeup1Locked(ch)
	t.lock.Unlock()
}

func channelLabel(ch any) string {
	if s, ok := ch.(string); ok {
		return s
	}
	if r, ok := ch.(ref); ok {
		return "pcb#" + strconv.Itoa(int(r))
	}
	return "chan"
}
