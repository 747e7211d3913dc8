package kernel

import "github.com/davecgh/go-spew/spew"

// ProcInfo is a read-only snapshot of one pcb's introspectable fields — the
// simulation's analogue of uproc in the original, the struct getprocs()
// fills in for the ps utility so it never touches ptable directly.
type ProcInfo struct {
	PID           PID
	Name          string
	UID, GID      int
	PPID          PID
	State         State
	Size          int
	ElapsedTicks  uint64
	CPUTicksTotal uint64
	WaitChain     []string
}

func (t *Table) snapshot(r ref) ProcInfo {
	p := t.pcb(r)
	ppid := p.pid
	if p.parent != noRef {
		ppid = t.pcb(p.parent).pid
	}
	elapsed := uint64(0)
	if now := t.collabs.Clock.Ticks(); now > p.startTicks {
		elapsed = now - p.startTicks
	}
	chain := make([]string, len(p.waitChain))
	copy(chain, p.waitChain)
	return ProcInfo{
		PID:           p.pid,
		Name:          p.name,
		UID:           p.uid,
		GID:           p.gid,
		PPID:          ppid,
		State:         p.state,
		Size:          p.sz,
		ElapsedTicks:  elapsed,
		CPUTicksTotal: p.cpuTicksTotal,
		WaitChain:     chain,
	}
}

// Getprocs fills up to max ProcInfo entries by walking every non-UNUSED,
// non-EMBRYO pcb, per spec.md's resolved direction (the original's
// getprocs instead walks ptable.proc[0..max) and skips UNUSED/EMBRYO
// in place, which silently truncates once EMBRYO/UNUSED slots push live
// processes past index max; walking the live processes directly avoids
// that).
func (t *Table) Getprocs(max int) []ProcInfo {
	t.lock.Lock()
	defer t.lock.Unlock()

	var out []ProcInfo
	t.forEachNonUnused(func(r ref) {
		if len(out) >= max || t.pcb(r).state == Embryo {
			return
		}
		out = append(out, t.snapshot(r))
	})
	return out
}

// dumpList snapshots every pcb currently on the named state list, in list
// order — the building block behind Readydump/Freedump/Sleepdump/
// Zombiedump.
func (t *Table) dumpList(s State) []ProcInfo {
	t.lock.Lock()
	defer t.lock.Unlock()
	var out []ProcInfo
	t.forEachInList(&t.lists[s], func(r ref) {
		out = append(out, t.snapshot(r))
	})
	return out
}

// Readydump snapshots every pcb on the RUNNABLE list.
func (t *Table) Readydump() []ProcInfo { return t.dumpList(Runnable) }

// Freedump snapshots every pcb on the UNUSED (free) list.
func (t *Table) Freedump() []ProcInfo { return t.dumpList(Unused) }

// Sleepdump snapshots every pcb on the SLEEPING list.
func (t *Table) Sleepdump() []ProcInfo { return t.dumpList(Sleeping) }

// Zombiedump snapshots every pcb on the ZOMBIE list.
func (t *Table) Zombiedump() []ProcInfo { return t.dumpList(Zombie) }

// Procdump snapshots every live (non-UNUSED) pcb by walking the arena
// directly, in slot order — the simulation's analogue of proc.c's
// procdump, which walks ptable.proc[0..NPROC) rather than any per-state
// list. Unlike Getprocs, it includes EMBRYO processes too (the original's
// procdump skips only UNUSED).
//
// Deliberately lock-free: this is the one diagnostic path meant to still
// work from a panic-adjacent console handler even if some other goroutine
// panicked mid-mutation while holding t.lock. It never touches the
// per-state lists (listAdd/listRemove are not safe to walk unlocked);
// it reads each pcb's state directly off the arena instead.
func (t *Table) Procdump() []ProcInfo {
	var out []ProcInfo
	for i := 1; i < len(t.pcbs); i++ {
		r := ref(i)
		if t.pcb(r).state == Unused {
			continue
		}
		out = append(out, t.snapshot(r))
	}
	return out
}

// ProcdumpVerbose is Procdump's --spew-backed sibling: it renders the exact
// same snapshot set with spew.Sdump instead of the ps table, for a dump
// command invoked with a verbose flag where a reader wants every field of
// every live ProcInfo spelled out rather than column-aligned.
func (t *Table) ProcdumpVerbose() string {
	return spew.Sdump(t.Procdump())
}
