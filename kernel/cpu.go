package kernel

import "time"

// CPU is one simulated processor: its own scheduler loop, its own lock
// nesting counter, and its own saved interrupt-enable flag. The original
// struct cpu's ncli/intena fields are properties of the kernel thread of
// execution currently using this CPU, not of the silicon, and are modeled
// here exactly that way.
type CPU struct {
	ID int

	// ncli counts nested table-lock acquisitions made while this CPU is
	// "active" (dispatching or being dispatched into). sched() insists on
	// ncli == 1 so that returning to the scheduler restores interrupt
	// enablement correctly.
	ncli int
	// intena is the interrupt-enable flag sched saves before handing off
	// and restores on resume. Nothing in the simulation sets it when the
	// table lock is acquired; it keeps whatever value it already has.
	intena bool

	// current is the pcb presently RUNNING on this CPU, or noRef if idle.
	current ref

	// IdleBackoff is how long Run sleeps between passes that find no
	// runnable process, standing in for "halt until next interrupt".
	IdleBackoff time.Duration
}

// NewCPU returns a CPU ready to run.
func NewCPU(id int) *CPU {
	return &CPU{ID: id, IdleBackoff: time.Millisecond}
}

// acquire locks the table on behalf of this CPU, tracking nesting depth.
func (c *CPU) acquire(t *Table) {
	t.lock.Lock()
	c.ncli++
}

// release unlocks the table on behalf of this CPU.
func (c *CPU) release(t *Table) {
	c.ncli--
	t.lock.Unlock()
}
