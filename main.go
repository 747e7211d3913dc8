package main

import (
	"fmt"
	"os"

	"github.com/arctir/kernsim/cmd"
)

func main() {
	kernsimCmd := cmd.SetupCLI()
	if err := kernsimCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
