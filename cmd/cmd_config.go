package cmd

import (
	"encoding/json"
	"os"

	"github.com/adrg/xdg"
	"github.com/spf13/pflag"
)

type outputType int

const (
	tableOut outputType = iota
	jsonOut
)

const (
	outputFlag  = "output"
	cpusFlag    = "cpus"
	sizeFlag    = "size"
	verboseFlag = "spew"
	addrFlag    = "addr"
)

type kernsimOpts struct {
	outType outputType
	cpus    int
	size    int
	verbose bool
}

// CLI flags to initialize
func init() {
	runCmd.Flags().StringP(outputFlag, "o", "table", "Output type for command [table (default), json].")
	psCmd.Flags().StringP(outputFlag, "o", "table", "Output type for command [table (default), json].")
	dumpCmd.Flags().StringP(outputFlag, "o", "table", "Output type for command [table (default), json].")

	runCmd.Flags().Int(cpusFlag, 0, "Number of simulated CPUs (default: host CPU count, capped at 8).")
	psCmd.Flags().Int(cpusFlag, 0, "Number of simulated CPUs (default: host CPU count, capped at 8).")
	dumpCmd.Flags().Int(cpusFlag, 0, "Number of simulated CPUs (default: host CPU count, capped at 8).")

	runCmd.Flags().Int(sizeFlag, 0, "PCB pool size (default 8).")
	psCmd.Flags().Int(sizeFlag, 0, "PCB pool size (default 8).")
	dumpCmd.Flags().Int(sizeFlag, 0, "PCB pool size (default 8).")

	dumpCmd.Flags().Bool(verboseFlag, false, "Render a deep structural dump (via go-spew) instead of a table.")
	consoleCmd.Flags().StringP(addrFlag, "a", ":8080", "Address the debug console listens on.")
}

func newOptions(fs *pflag.FlagSet) kernsimOpts {
	ot := resolveOutputType(fs)
	cpus, _ := fs.GetInt(cpusFlag)
	size, _ := fs.GetInt(sizeFlag)
	verbose, _ := fs.GetBool(verboseFlag)

	if cpus <= 0 || size <= 0 {
		fd := loadFileDefaults()
		if cpus <= 0 {
			cpus = fd.CPUs
		}
		if size <= 0 {
			size = fd.Size
		}
	}

	return kernsimOpts{outType: ot, cpus: cpus, size: size, verbose: verbose}
}

// fileDefaults is the shape of the optional on-disk config kernsim reads
// for cpus/size defaults when either flag is not given.
type fileDefaults struct {
	CPUs int `json:"cpus"`
	Size int `json:"size"`
}

// loadFileDefaults reads $XDG_CONFIG_HOME/kernsim/config.json, if present,
// following the teacher's NewX(conf Config) pattern of "zero values get
// filled with sane defaults" — here the file itself is optional, and a
// missing or unparsable file simply yields zero values the caller's own
// defaulting then takes over from.
func loadFileDefaults() fileDefaults {
	path, err := xdg.ConfigFile("kernsim/config.json")
	if err != nil {
		return fileDefaults{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fileDefaults{}
	}
	var fd fileDefaults
	if err := json.Unmarshal(data, &fd); err != nil {
		return fileDefaults{}
	}
	return fd
}

func resolveOutputType(fs *pflag.FlagSet) outputType {
	of, err := fs.GetString(outputFlag)
	// default if there are ever issues finding flag
	if err != nil {
		return tableOut
	}
	switch of {
	case "json":
		return jsonOut
	case "table":
		return tableOut
	}

	// default OutputType
	return tableOut
}
