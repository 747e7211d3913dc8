package cmd

import (
	"github.com/spf13/cobra"
)

var kernsimCmd = &cobra.Command{
	Use:   "kernsim",
	Short: "A multi-CPU simulator of an xv6-style process subsystem.",
	Run:   runKernsim,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Boot the simulated table, run the demo workload, and print the final ps table.",
	Run:   runRun,
}

var psCmd = &cobra.Command{
	Use:   "ps [max]",
	Short: "Print the process table, in the original ps tool's column layout.",
	Run:   runPs,
}

var timeCmd = &cobra.Command{
	Use:   "time -- <scenario>",
	Short: "Run one named workload scenario and print a one-line summary (elapsed simulated ticks for the default \"true\").",
	Run:   runTime,
}

var dumpCmd = &cobra.Command{
	Use:   "dump {proc|ready|free|sleep|zombie}",
	Short: "Dump one of the process table's state lists.",
	Run:   runDump,
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the http debug console over a running simulation.",
	Run:   runConsole,
}
