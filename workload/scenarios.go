package workload

import (
	"fmt"
	"sync"
	"time"

	"github.com/arctir/kernsim/kernel"
	"github.com/arctir/kernsim/ps"
)

const defaultScenarioTimeout = 2 * time.Second

// BootShellReport is the result of BootShell.
type BootShellReport struct {
	InitPID  kernel.PID
	ShellPID kernel.PID
	Snapshot []kernel.ProcInfo
}

// BootShell is spec.md §8 scenario 1: userinit places exactly one PCB on
// RUNNABLE; once scheduled it forks a shell. The parent keeps running
// (repeatedly yielding, standing in for an idle shell prompt loop) and the
// shell sleeps on a channel nobody wakes (standing in for blocking on
// terminal input), so a ps snapshot taken shortly after shows one process
// RUNNING/RUNNABLE and one SLEEPING.
func BootShell() (*BootShellReport, error) {
	table := NewSimTable(kernel.TableConfig{Size: 8, CPUs: 1})
	StartCPUs(table)

	shellPID := make(chan kernel.PID, 1)
	initProc, err := table.Userinit(func(proc *kernel.Proc) {
		pid, err := proc.Fork(func(shell *kernel.Proc) {
			shell.SetName("sh")
			shell.Sleep("shell-terminal-input")
		})
		if err != nil {
			return
		}
		proc.SetName("init")
		shellPID <- pid
		for {
			proc.Yield()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("workload: bootshell: userinit: %w", err)
	}

	var pid kernel.PID
	select {
	case pid = <-shellPID:
	case <-time.After(defaultScenarioTimeout):
		return nil, fmt.Errorf("workload: bootshell: timed out waiting for fork")
	}

	ok := awaitState(defaultScenarioTimeout, func() bool {
		return len(table.Getprocs(10)) >= 2
	})
	if !ok {
		return nil, fmt.Errorf("workload: bootshell: ps never showed both processes")
	}

	return &BootShellReport{
		InitPID:  initProc.PID(),
		ShellPID: pid,
		Snapshot: table.Getprocs(10),
	}, nil
}

// ForkExhaustReport is the result of ForkExhaust.
type ForkExhaustReport struct {
	ChildrenForked int
	LastForkErr    error
	ReapedPIDs     []kernel.PID
}

// ForkExhaust is spec.md §8 scenario 2: a table sized for exactly N PCBs
// (one parent plus N-1 children) forks children until the table is full;
// the N-th fork fails with ErrTableFull; every child exits immediately and
// is reaped in FIFO order; afterward every child slot is back on UNUSED and
// the pid counter has advanced by exactly N.
func ForkExhaust(n int) (*ForkExhaustReport, error) {
	table := NewSimTable(kernel.TableConfig{Size: n, CPUs: 1})
	StartCPUs(table)

	report := &ForkExhaustReport{}
	done := make(chan struct{})

	_, err := table.Userinit(func(proc *kernel.Proc) {
		for i := 0; i < n; i++ {
			if _, err := proc.Fork(func(*kernel.Proc) {}); err != nil {
				report.LastForkErr = err
				break
			}
			report.ChildrenForked++
		}
		for i := 0; i < report.ChildrenForked; i++ {
			pid, err := proc.Wait()
			if err != nil {
				break
			}
			report.ReapedPIDs = append(report.ReapedPIDs, pid)
		}
		close(done)
	})
	if err != nil {
		return nil, fmt.Errorf("workload: forkexhaust: userinit: %w", err)
	}

	select {
	case <-done:
	case <-time.After(defaultScenarioTimeout):
		return nil, fmt.Errorf("workload: forkexhaust: timed out")
	}

	if report.LastForkErr == nil {
		return nil, fmt.Errorf("workload: forkexhaust: expected the N-th fork to fail, all %d succeeded", n)
	}
	return report, nil
}

// LostWakeupStressReport is the result of LostWakeupStress.
type LostWakeupStressReport struct {
	ReapedPID kernel.PID
}

// LostWakeupStress is spec.md §8 scenario 3: a parent calls Wait while its
// child Exits concurrently, potentially on a different simulated CPU. The
// table lock serializes the child's wakeup1Locked(parent) call against the
// parent's own re-acquisition in its Wait loop, so the wakeup can never be
// missed regardless of which CPU runs which process.
func LostWakeupStress() (*LostWakeupStressReport, error) {
	table := NewSimTable(kernel.TableConfig{Size: 4, CPUs: 2})
	StartCPUs(table)

	reaped := make(chan kernel.PID, 1)
	reapErr := make(chan error, 1)

	_, err := table.Userinit(func(proc *kernel.Proc) {
		if _, err := proc.Fork(func(child *kernel.Proc) {}); err != nil {
			reapErr <- err
			return
		}
		pid, err := proc.Wait()
		reaped <- pid
		reapErr <- err
	})
	if err != nil {
		return nil, fmt.Errorf("workload: lostwakeupstress: userinit: %w", err)
	}

	select {
	case err := <-reapErr:
		if err != nil {
			return nil, fmt.Errorf("workload: lostwakeupstress: wait: %w", err)
		}
	case <-time.After(defaultScenarioTimeout):
		return nil, fmt.Errorf("workload: lostwakeupstress: wait never returned")
	}

	return &LostWakeupStressReport{ReapedPID: <-reaped}, nil
}

// KillSleepingReport is the result of KillSleeping.
type KillSleepingReport struct {
	VictimPID kernel.PID
	ReapedPID kernel.PID
}

// KillSleeping is spec.md §8 scenario 4: a process sleeps on a channel
// nobody will ever wake; the scenario's own goroutine (not a simulated
// process) calls Table.Kill on it; the victim
// transitions SLEEPING->RUNNABLE, runs, observes Killed(), exits; the
// parent's Wait then returns its pid.
func KillSleeping() (*KillSleepingReport, error) {
	table := NewSimTable(kernel.TableConfig{Size: 4, CPUs: 1})
	StartCPUs(table)

	victimPID := make(chan kernel.PID, 1)
	reaped := make(chan kernel.PID, 1)
	reapErr := make(chan error, 1)

	_, err := table.Userinit(func(proc *kernel.Proc) {
		pid, err := proc.Fork(func(child *kernel.Proc) {
			victimPID <- child.PID()
			for !child.Killed() {
				child.Sleep("never-woken")
			}
		})
		if err != nil {
			reapErr <- err
			return
		}
		reapedPID, err := proc.Wait()
		reaped <- reapedPID
		reapErr <- err
		_ = pid
	})
	if err != nil {
		return nil, fmt.Errorf("workload: killsleeping: userinit: %w", err)
	}

	var vpid kernel.PID
	select {
	case vpid = <-victimPID:
	case <-time.After(defaultScenarioTimeout):
		return nil, fmt.Errorf("workload: killsleeping: timed out waiting for fork")
	}

	ok := awaitState(defaultScenarioTimeout, func() bool {
		for _, p := range table.Sleepdump() {
			if p.PID == vpid {
				return true
			}
		}
		return false
	})
	if !ok {
		return nil, fmt.Errorf("workload: killsleeping: victim never reached SLEEPING")
	}

	if err := table.Kill(vpid); err != nil {
		return nil, fmt.Errorf("workload: killsleeping: kill: %w", err)
	}

	select {
	case err := <-reapErr:
		if err != nil {
			return nil, fmt.Errorf("workload: killsleeping: wait: %w", err)
		}
	case <-time.After(defaultScenarioTimeout):
		return nil, fmt.Errorf("workload: killsleeping: wait never returned after kill")
	}

	return &KillSleepingReport{VictimPID: vpid, ReapedPID: <-reaped}, nil
}

// YieldFairnessReport is the result of YieldFairness.
type YieldFairnessReport struct {
	Order []kernel.PID
}

// YieldFairness is spec.md §8 scenario 5: three CPU-bound processes sharing
// one simulated CPU, each repeatedly Yield-ing, must be dispatched in strict
// FIFO-on-the-RUNNABLE-list order: every full round visits each pid exactly
// once, in the order they first became RUNNABLE.
func YieldFairness(rounds int) (*YieldFairnessReport, error) {
	table := NewSimTable(kernel.TableConfig{Size: 8, CPUs: 1})
	StartCPUs(table)

	var mu sync.Mutex
	var order []kernel.PID
	var wg sync.WaitGroup
	wg.Add(3)

	_, err := table.Userinit(func(proc *kernel.Proc) {
		for i := 0; i < 3; i++ {
			if _, err := proc.Fork(func(child *kernel.Proc) {
				defer wg.Done()
				for r := 0; r < rounds; r++ {
					mu.Lock()
					order = append(order, child.PID())
					mu.Unlock()
					child.Yield()
				}
			}); err != nil {
				wg.Done()
			}
		}
		// init itself steps aside immediately by sleeping forever, so it
		// never competes for the CPU against the three children.
		proc.Sleep("init-parked")
	})
	if err != nil {
		return nil, fmt.Errorf("workload: yieldfairness: userinit: %w", err)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(defaultScenarioTimeout):
		return nil, fmt.Errorf("workload: yieldfairness: timed out")
	}

	mu.Lock()
	defer mu.Unlock()
	return &YieldFairnessReport{Order: append([]kernel.PID(nil), order...)}, nil
}

// TimeTrueReport is the result of TimeTrue.
type TimeTrueReport struct {
	Elapsed   time.Duration
	Formatted string
}

// TimeTrue is spec.md §8 scenario 6: run a trivial command (a child that
// does nothing and exits immediately), measure the elapsed simulated ticks,
// and format them the way `kernsim time` would.
func TimeTrue() (*TimeTrueReport, error) {
	table := NewSimTable(kernel.TableConfig{Size: 4, CPUs: 1})
	StartCPUs(table)

	done := make(chan kernel.PID, 1)
	_, err := table.Userinit(func(proc *kernel.Proc) {
		proc.Fork(func(*kernel.Proc) {})
		pid, _ := proc.Wait()
		done <- pid
	})
	if err != nil {
		return nil, fmt.Errorf("workload: timetrue: userinit: %w", err)
	}

	start := table.Tick(0)
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			elapsed := table.Tick(0) - start
			return &TimeTrueReport{
				Elapsed:   time.Duration(elapsed) * time.Millisecond,
				Formatted: fmt.Sprintf("/bin/true executed in %ss", ps.FormatTicks(elapsed)),
			}, nil
		case <-ticker.C:
			table.Tick(1)
		case <-time.After(defaultScenarioTimeout):
			return nil, fmt.Errorf("workload: timetrue: timed out")
		}
	}
}
