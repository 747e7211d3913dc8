// Package workload builds the fake collaborators a standalone simulation
// needs and runs the scripted fork/exit/wait/kill/sleep/yield scenarios a
// demo or test drives the kernel with — standing in for the shell scripts
// and test harnesses that exercise a real xv6 build, generalized from
// plib/linux_test.go's fixture-builder-function idiom ("build a sample
// sequence of kernel calls" instead of "build sample procfs data").
package workload

import (
	"fmt"
	"time"

	"github.com/arctir/kernsim/kernel"
	"github.com/arctir/kernsim/kernel/fsfake"
	"github.com/arctir/kernsim/kernel/memfake"
	"github.com/arctir/kernsim/kernel/vmfake"
)

// NewSimTable wires a fresh kernel.Table against the fake collaborators, the
// way a scripted demo or test boots a standalone simulation with no real
// memory, filesystem, or hardware clock underneath it.
func NewSimTable(cfg kernel.TableConfig) *kernel.Table {
	collabs := kernel.Collaborators{
		Pages: memfake.NewAllocator(0),
		VM:    vmfake.NewManager(),
		Files: fsfake.NewFS(),
		Clock: kernel.NewTickClock(),
	}
	return kernel.NewTable(cfg, collabs)
}

// StartCPUs launches Run on every one of the table's simulated CPUs in its
// own goroutine. They run until the process exits; there is no Stop, matching
// a real scheduler core that never returns.
func StartCPUs(t *kernel.Table) {
	for _, c := range t.CPUs() {
		go c.Run(t)
	}
}

// Boot stands up a table running the same init+shell pair as BootShell (see
// scenarios.go) and returns it live, for callers (the CLI's run/ps/dump/
// console subcommands) that want a populated simulation to inspect rather
// than a single scenario's one-shot report.
func Boot(cfg kernel.TableConfig) (*kernel.Table, error) {
	if cfg.Size <= 0 {
		cfg.Size = 8
	}
	if cfg.CPUs <= 0 {
		cfg.CPUs = 1
	}
	table := NewSimTable(cfg)
	StartCPUs(table)

	ready := make(chan struct{})
	_, err := table.Userinit(func(proc *kernel.Proc) {
		proc.SetName("init")
		proc.Fork(func(shell *kernel.Proc) {
			shell.SetName("sh")
			shell.Sleep("shell-terminal-input")
		})
		close(ready)
		for {
			proc.Yield()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("workload: boot: userinit: %w", err)
	}

	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		return nil, fmt.Errorf("workload: boot: timed out waiting for init to settle")
	}
	return table, nil
}

// awaitState polls until pred is true or timeout elapses, returning whether
// it succeeded. Scenarios use this to observe scheduler state transitions
// from outside the table lock without adding test-only hooks to kernel.
func awaitState(timeout time.Duration, pred func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if pred() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return pred()
}
