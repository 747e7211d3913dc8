// Package cmd builds the kernsim cobra command tree.
package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/arctir/kernsim/console"
	"github.com/arctir/kernsim/kernel"
	"github.com/arctir/kernsim/ps"
	"github.com/arctir/kernsim/topology"
	"github.com/arctir/kernsim/workload"
	"github.com/spf13/cobra"
)

// SetupCLI constructs the cobra hierarchy for the kernsim CLI.
func SetupCLI() *cobra.Command {
	kernsimCmd.AddCommand(runCmd)
	kernsimCmd.AddCommand(psCmd)
	kernsimCmd.AddCommand(timeCmd)
	kernsimCmd.AddCommand(dumpCmd)
	kernsimCmd.AddCommand(consoleCmd)
	return kernsimCmd
}

// runKernsim defines what should occur when `kernsim ...` is run with no
// subcommand.
func runKernsim(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cmd.Help()
		os.Exit(0)
	}
}

// tableConfig resolves the table size/CPU count a subcommand should boot
// with: an explicit flag wins, then the on-disk config file newOptions
// already folded in, then a computed or hardcoded fallback.
func tableConfig(opts kernsimOpts) kernel.TableConfig {
	cpus := opts.cpus
	if cpus <= 0 {
		reader := topology.NewLinuxReader(topology.LinuxReaderConfig{})
		cpus = topology.DefaultCPUCount(&reader)
	}
	size := opts.size
	if size <= 0 {
		size = 8
	}
	return kernel.TableConfig{Size: size, CPUs: cpus}
}

// runRun defines the behavior of `kernsim run`: boot the table, run the demo
// workload, print the final ps table.
func runRun(cmd *cobra.Command, args []string) {
	opts := newOptions(cmd.Flags())
	table, err := workload.Boot(tableConfig(opts))
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed booting simulation: %s", err))
	}
	procs := table.Getprocs(table.Size())
	out, err := createProcsOutput(procs, opts)
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed creating output: %s", err))
	}
	output(out)
}

// runPs defines the behavior of `kernsim ps [max]`: boot a demo simulation
// (there is no long-lived daemon to attach to) and print its process table,
// capped at max if given. With no argument, only the header prints —
// matching the original ps tool's bare-header behavior.
func runPs(cmd *cobra.Command, args []string) {
	opts := newOptions(cmd.Flags())
	if len(args) == 0 {
		ps.Render(os.Stdout, nil)
		return
	}
	max, err := strconv.Atoi(args[0])
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("please pass a valid max (int); we received: %s", args[0]))
	}

	table, err := workload.Boot(tableConfig(opts))
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed booting simulation: %s", err))
	}
	procs := table.Getprocs(max)
	out, err := createProcsOutput(procs, opts)
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed creating output: %s", err))
	}
	output(out)
}

// runTime defines the behavior of `kernsim time -- <scenario>`: run one
// named workload scenario and print a one-line summary of its result. The
// default scenario, "true", measures elapsed simulated ticks in the original
// time tool's phrasing; the rest report the condition their name promises.
func runTime(cmd *cobra.Command, args []string) {
	scenario := "true"
	if len(args) > 0 {
		scenario = args[0]
	}

	var line string
	switch scenario {
	case "true":
		report, err := workload.TimeTrue()
		if err != nil {
			outputErrorAndFail(fmt.Sprintf("failed running scenario %q: %s", scenario, err))
		}
		line = report.Formatted
	case "bootshell":
		report, err := workload.BootShell()
		if err != nil {
			outputErrorAndFail(fmt.Sprintf("failed running scenario %q: %s", scenario, err))
		}
		line = fmt.Sprintf("init pid %d forked shell pid %d; %d processes live", report.InitPID, report.ShellPID, len(report.Snapshot))
	case "forkexhaust":
		report, err := workload.ForkExhaust(8)
		if err != nil {
			outputErrorAndFail(fmt.Sprintf("failed running scenario %q: %s", scenario, err))
		}
		line = fmt.Sprintf("forked %d children before %s; reaped %d", report.ChildrenForked, report.LastForkErr, len(report.ReapedPIDs))
	case "lostwakeupstress":
		report, err := workload.LostWakeupStress()
		if err != nil {
			outputErrorAndFail(fmt.Sprintf("failed running scenario %q: %s", scenario, err))
		}
		line = fmt.Sprintf("reaped child pid %d with no lost wakeup", report.ReapedPID)
	case "killsleeping":
		report, err := workload.KillSleeping()
		if err != nil {
			outputErrorAndFail(fmt.Sprintf("failed running scenario %q: %s", scenario, err))
		}
		line = fmt.Sprintf("killed sleeping pid %d; reaped pid %d", report.VictimPID, report.ReapedPID)
	case "yieldfairness":
		report, err := workload.YieldFairness(4)
		if err != nil {
			outputErrorAndFail(fmt.Sprintf("failed running scenario %q: %s", scenario, err))
		}
		line = fmt.Sprintf("dispatch order: %v", report.Order)
	default:
		outputErrorAndFail(fmt.Sprintf("unknown scenario %q; want one of true, bootshell, forkexhaust, lostwakeupstress, killsleeping, yieldfairness", scenario))
	}
	output([]byte(line + "\n"))
}

// runDump defines the behavior of `kernsim dump {proc|ready|free|sleep|zombie}`.
func runDump(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cmd.Help()
		os.Exit(0)
	}
	opts := newOptions(cmd.Flags())
	table, err := workload.Boot(tableConfig(opts))
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed booting simulation: %s", err))
	}

	var procs []kernel.ProcInfo
	switch args[0] {
	case "proc":
		procs = table.Procdump()
	case "ready":
		procs = table.Readydump()
	case "free":
		procs = table.Freedump()
	case "sleep":
		procs = table.Sleepdump()
	case "zombie":
		procs = table.Zombiedump()
	default:
		outputErrorAndFail(fmt.Sprintf("unknown dump target %q; want one of proc, ready, free, sleep, zombie", args[0]))
	}

	if opts.verbose {
		output([]byte(table.ProcdumpVerbose()))
		return
	}
	out, err := createProcsOutput(procs, opts)
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed creating output: %s", err))
	}
	output(out)
}

// runConsole defines the behavior of `kernsim console`: boot a demo
// simulation and serve the http debug console over it.
func runConsole(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString(addrFlag)
	table, err := workload.Boot(kernel.TableConfig{Size: 16, CPUs: 2})
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed booting simulation: %s", err))
	}
	console.New(table, addr).Run()
}

func createProcsOutput(procs []kernel.ProcInfo, opts kernsimOpts) ([]byte, error) {
	if opts.outType == jsonOut {
		out, err := json.Marshal(procs)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	var buf bytes.Buffer
	ps.Render(&buf, ps.RowsFromProcInfo(procs))
	return buf.Bytes(), nil
}

func output(out []byte) {
	fmt.Printf("%s", out)
}

func outputErrorAndFail(msg string) {
	fmt.Println(msg)
	os.Exit(1)
}
