// Package topology reports facts about the real host the simulator runs
// on — CPU count and architecture. Only the CPU count is used elsewhere,
// to pick a default for the simulated multiprocessor (how many kernel.CPU
// workers to start). None of it feeds the simulation's semantics.
package topology

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

const (
	DefaultProcRoot = "/proc"
	CPUInfoFilePath = "cpuinfo"
	UnknownKey      = "UNKNOWN"
)

// Hardware describes the real host's processor topology.
type Hardware struct {
	CPUCount     int
	Architecture string
}

// Reader retrieves host hardware details. Modeled as an interface (rather
// than a bare function) so a fake implementation can stand in for it in
// tests that want deterministic CPU counts.
type Reader interface {
	GetHardware() (*Hardware, error)
}

// LinuxReader reads /proc to determine CPU count and uses uname(2) for
// architecture.
type LinuxReader struct {
	procDir string
}

type LinuxReaderConfig struct {
	ProcDirPath string
}

func NewLinuxReader(conf LinuxReaderConfig) LinuxReader {
	if conf.ProcDirPath == "" {
		conf.ProcDirPath = DefaultProcRoot
	}
	return LinuxReader{procDir: conf.ProcDirPath}
}

func (r *LinuxReader) GetHardware() (*Hardware, error) {
	return &Hardware{
		CPUCount:     r.getCPUCount(),
		Architecture: getArch(),
	}, nil
}

// getCPUCount counts "processor" lines in /proc/cpuinfo. Returns 0 (not an
// error) if the file can't be read, leaving the caller to fall back to a
// sane default — a simulator shouldn't fail to start just because it can't
// introspect the host it happens to run on.
func (r *LinuxReader) getCPUCount() int {
	cpuInfoPath := filepath.Join(r.procDir, CPUInfoFilePath)
	f, err := os.Open(cpuInfoPath)
	if err != nil {
		return 0
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(bufio.NewReader(f))
	for scanner.Scan() {
		kv := strings.SplitN(scanner.Text(), ":", 2)
		if len(kv) != 2 {
			continue
		}
		if strings.TrimSpace(kv[0]) == "processor" {
			count++
		}
	}
	return count
}

// getArch calls the equivalent of uname -m to get the architecture (e.g.
// x86_64 or aarch64).
func getArch() string {
	var utsname unix.Utsname
	if err := unix.Uname(&utsname); err != nil {
		return UnknownKey
	}
	return machineString(utsname.Machine)
}

func machineString(machine [65]byte) string {
	n := 0
	for n < len(machine) && machine[n] != 0 {
		n++
	}
	return string(machine[:n])
}

// DefaultCPUCount returns a usable --cpus default: the host's real
// processor count, capped at 8 (the simulation has no need to model more
// CPUs than that, and a low-end default keeps dispatch interleaving easy
// to follow in console output), falling back to 1 if detection fails.
func DefaultCPUCount(r Reader) int {
	hw, err := r.GetHardware()
	if err != nil || hw.CPUCount <= 0 {
		return 1
	}
	if hw.CPUCount > 8 {
		return 8
	}
	return hw.CPUCount
}

func (hw *Hardware) String() string {
	return fmt.Sprintf("%s (%d host cpus)", hw.Architecture, hw.CPUCount)
}
