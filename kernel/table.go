package kernel

import "sync"

// TableConfig configures a Table. Zero values are filled with sane
// defaults by NewTable, following the teacher's NewX(conf Config)
// constructor shape (plib.LinuxInspectorConfig, host.LinuxReaderConfig).
type TableConfig struct {
	// Size is the number of pcb slots in the table. Defaults to 64. The
	// table never grows past Size — dynamic growth is explicitly out of
	// scope.
	Size int
	// CPUs is the number of simulated CPUs to construct. Defaults to 1.
	CPUs int
}

const defaultTableSize = 64

// Table is the ProcessTable: a fixed arena of pcbs, the six state lists
// that index them, the nextpid counter, and the single lock guarding all
// of it. Created once at boot and passed by reference to every operation.
type Table struct {
	lock sync.Mutex

	pcbs  []pcb // index 0 unused; real slots are 1..Size
	lists [6]stateList

	nextPID PID
	initRef ref

	// firstRun is tested-and-cleared with atomic.CompareAndSwapInt32, never
	// under t.lock: multiple CPUs resume processes concurrently, each
	// running runProcess's goroutine after t.lock has already been
	// released, so a bare bool read-then-write here would race.
	firstRun int32

	collabs Collaborators
	cpus    []*CPU
}

// NewTable constructs a Table with cfg's sizing and the given
// collaborators, with every slot seeded onto the UNUSED list
// (initProcessLists + initFreeList in the original).
func NewTable(cfg TableConfig, collabs Collaborators) *Table {
	if cfg.Size <= 0 {
		cfg.Size = defaultTableSize
	}
	if cfg.CPUs <= 0 {
		cfg.CPUs = 1
	}
	t := &Table{
		pcbs:     make([]pcb, cfg.Size+1),
		collabs:  collabs,
		firstRun: 1,
	}
	for s := range t.lists {
		t.lists[s] = stateList{tag: State(s)}
	}
	for i := 1; i <= cfg.Size; i++ {
		r := ref(i)
		t.pcbs[i].state = Unused
		t.listAdd(&t.lists[Unused], r)
	}
	t.cpus = make([]*CPU, cfg.CPUs)
	for i := range t.cpus {
		t.cpus[i] = NewCPU(i)
	}
	return t
}

// CPUs returns the table's simulated processors.
func (t *Table) CPUs() []*CPU { return t.cpus }

func (t *Table) pcb(r ref) *pcb {
	return &t.pcbs[r]
}

// Size reports the capacity of the pcb arena (not the number in use).
func (t *Table) Size() int { return len(t.pcbs) - 1 }
