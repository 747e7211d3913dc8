package kernel

import "sync/atomic"

// TickClock is the default Clock: a monotonic counter advanced explicitly
// by Tick, standing in for the timer ISR incrementing the original's
// global `ticks`. Driven externally (by a workload's time-stepping, or by
// a background goroutine ticking on a real interval) rather than tied to
// wall-clock time, so simulations are reproducible.
type TickClock struct {
	ticks uint64
}

// NewTickClock returns a TickClock starting at zero.
func NewTickClock() *TickClock {
	return &TickClock{}
}

// Ticks returns the current tick count.
func (c *TickClock) Ticks() uint64 {
	return atomic.LoadUint64(&c.ticks)
}

// Tick advances the clock by n ticks and returns the new value. Also wakes
// anything sleeping on the "ticks" channel identity, the simulation's
// analogue of the timer ISR's `wakeup(&ticks)` call.
func (t *Table) Tick(n uint64) uint64 {
	v := atomic.AddUint64(&t.tickClock().ticks, n)
	t.Wakeup(tickChannel)
	return v
}

// tickChannel is the well-known sleep/wakeup identity used by anything
// that wants to block until the clock advances (e.g. a workload step that
// simulates "sleep 1 tick").
var tickChannel = "ticks"

// SleepTicks blocks the calling process until the clock has advanced by at
// least n ticks from now, the simulation's analogue of xv6's `sys_sleep`.
func (proc *Proc) SleepTicks(n uint64) {
	t := proc.t
	target := t.tickClock().Ticks() + n
	for t.tickClock().Ticks() < target {
		proc.Sleep(tickChannel)
	}
}

func (t *Table) tickClock() *TickClock {
	tc, ok := t.collabs.Clock.(*TickClock)
	if !ok {
		panic("kernel: Tick called but table's Clock is not a *TickClock")
	}
	return tc
}
