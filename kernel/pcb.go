// Package kernel implements the process subsystem of a small educational
// multiprocessor kernel simulator: a fixed-size pool of process control
// blocks, the per-state lists that index them, the table lock that
// serializes every mutation, and the scheduler/sleep/wakeup/kill machinery
// that moves a process between states on each simulated CPU.
package kernel

import "fmt"

// State is one of the six lifecycle states a PCB can occupy.
type State int

const (
	Unused State = iota
	Embryo
	Sleeping
	Runnable
	Running
	Zombie
)

func (s State) String() string {
	switch s {
	case Unused:
		return "UNUSED"
	case Embryo:
		return "EMBRYO"
	case Sleeping:
		return "SLEEPING"
	case Runnable:
		return "RUNNABLE"
	case Running:
		return "RUNNING"
	case Zombie:
		return "ZOMBIE"
	}
	return fmt.Sprintf("STATE(%d)", int(s))
}

// PID is a process identifier. Zero means "not yet assigned / recycled".
type PID int

// ref is a 1-based index into a Table's pcb arena; zero means "none". PCBs
// are addressed by index rather than pointer so the table can live as a
// single contiguous arena, per the fixed-capacity-pool design.
type ref int

const noRef ref = 0

// NOFILE bounds the number of simultaneously open file handles per process.
const NOFILE = 16

// nameLen bounds the length of a process's printable label.
const nameLen = 16

// pcb is one process control block. Its state and list link may only be
// changed by code holding the owning Table's lock (per-process fields such
// as sz and name are set by the owning process without it), and a state
// change must always be paired with moving the PCB between state lists.
type pcb struct {
	state State
	pid   PID
	// parent is a ref to another pcb, or noRef for the initial process.
	parent ref

	kstack Page
	pgdir  AddressSpace
	sz     int

	// context stands in for the trap frame and saved kernel context
	// xv6 keeps on the kernel stack. There is no real register state to
	// save in a goroutine-backed simulation; context instead records the
	// symbolic resume point, matching allocproc's practice of pointing a
	// fresh context at forkret.
	context string

	// channel is the opaque wakeup key a SLEEPING pcb is waiting on.
	// Equality is raw identity, per the sleep/wakeup channel contract.
	channel any

	killed bool

	ofile [NOFILE]FileHandle
	cwd   InodeHandle

	name string

	startTicks      uint64
	cpuTicksIn      uint64
	cpuTicksTotal   uint64
	uid, gid        int

	// waitChain records, in order, the channel names this process has
	// slept on over its lifetime (capped at 10 entries). It stands in for
	// the original's saved caller-PC walk on SLEEPING procdump rows: there
	// is no machine call stack to walk for a simulated process, so this
	// records "what it's waited for" instead of "who called it".
	waitChain []string

	// next threads this pcb through exactly one state list at a time.
	next ref

	// resumeCh and handoffCh are the goroutine-handoff stand-in for the
	// swtch assembly primitive: resumeCh wakes the process's goroutine
	// ("run now"), handoffCh wakes the CPU's scheduler loop ("I've given
	// up the CPU"). See Run and sched in kernel/scheduler.go.
	resumeCh  chan struct{}
	handoffCh chan struct{}

	// cpu is the CPU this pcb is currently dispatched on, set for the
	// duration of a RUNNING span; used only to check the sched()
	// preconditions (ncli, interrupt state).
	cpu *CPU

	// body is the simulated "user-mode program" run in this process's
	// goroutine. A nil body falls back to an immediate Exit.
	body func(*Proc)

	// exitStatus is recorded at Zombie and cleared when reaped.
	exitStatus int
}
