// Package console serves a small http debug view over a running
// kernel.Table: the all-processes table, a per-process detail page, and a
// parent-chain hierarchy view, refreshed from a live snapshot rather than
// read off disk the way the teacher's dashboard read /proc.
package console

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/arctir/kernsim/kernel"
)

const (
	defaultAddr       = ":8080"
	refreshPath       = "/refresh"
	processesPath     = "/process/"
	processesTreePath = "/tree/"
)

// Console is the http debug view. It holds its own cached snapshot so
// concurrent requests see a stable picture between refreshes, the same way
// the teacher's UI cached plib.Processes between explicit /refresh hits.
type Console struct {
	table *kernel.Table
	addr  string

	mu   sync.Mutex
	data Data
}

// Data is the template context for the all-processes view.
type Data struct {
	LastRefresh time.Time
	Procs       map[int]kernel.ProcInfo
}

// DetailKV is one field/value row in the process-detail view, built via
// reflection over kernel.ProcInfo the same way the teacher's UI reflected
// over plib.Process.
type DetailKV struct {
	Field string
	Value string
}

// New returns a Console serving snapshots of table. addr defaults to
// ":8080" when empty.
func New(table *kernel.Table, addr string) *Console {
	if addr == "" {
		addr = defaultAddr
	}
	return &Console{table: table, addr: addr}
}

// Run registers the handlers and blocks serving http, panicking on
// listener failure the way the teacher's RunUI did — there is no graceful
// shutdown path for a debug console.
func (c *Console) Run() {
	mux := http.NewServeMux()
	mux.HandleFunc("/", c.handleAllProcesses)
	mux.HandleFunc(refreshPath, c.handleRefresh)
	mux.HandleFunc(processesPath, c.handleProcessDetails)
	mux.HandleFunc(processesTreePath, c.handleProcessTree)

	log.Printf("console: serving at %s", c.addr)
	panic(http.ListenAndServe(c.addr, mux))
}

func (c *Console) refresh() {
	procs := c.table.Getprocs(c.table.Size())
	byPID := make(map[int]kernel.ProcInfo, len(procs))
	for _, p := range procs {
		byPID[int(p.PID)] = p
	}
	c.mu.Lock()
	c.data = Data{LastRefresh: time.Now(), Procs: byPID}
	c.mu.Unlock()
}

func (c *Console) snapshot() Data {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

func (c *Console) handleAllProcesses(w http.ResponseWriter, r *http.Request) {
	c.refresh()
	t, err := createTemplate(allProcessesView)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if err := t.Execute(w, c.snapshot()); err != nil {
		writeFailure(w, err)
	}
}

func (c *Console) handleRefresh(w http.ResponseWriter, r *http.Request) {
	c.refresh()
	log.Println("console: refreshed process snapshot")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (c *Console) handleProcessDetails(w http.ResponseWriter, r *http.Request) {
	pid, err := pidFromPath(r.URL.Path, processesPath)
	if err != nil {
		writeFailure(w, err)
		return
	}
	data := c.snapshot()
	proc, ok := data.Procs[pid]
	if !ok {
		writeFailure(w, fmt.Errorf("process %d does not exist", pid))
		return
	}
	t, err := createTemplate(viewProcessDetails)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if err := t.Execute(w, proc); err != nil {
		writeFailure(w, err)
	}
}

func (c *Console) handleProcessTree(w http.ResponseWriter, r *http.Request) {
	pid, err := pidFromPath(r.URL.Path, processesTreePath)
	if err != nil {
		writeFailure(w, err)
		return
	}
	data := c.snapshot()
	if _, ok := data.Procs[pid]; !ok {
		writeFailure(w, fmt.Errorf("process %d does not exist", pid))
		return
	}
	hierarchy := processHierarchy(data.Procs, pid)
	t, err := createTemplate(viewTreeDetails)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if err := t.Execute(w, hierarchy); err != nil {
		writeFailure(w, err)
	}
}

func pidFromPath(path, prefix string) (int, error) {
	return strconv.Atoi(strings.TrimPrefix(path, prefix))
}

// processDetails reflects over a kernel.ProcInfo to build the detail table
// rows, the console's analogue of the teacher's getProcessDetails.
func processDetails(proc kernel.ProcInfo) []DetailKV {
	result := []DetailKV{}
	t := reflect.TypeOf(proc)
	v := reflect.ValueOf(proc)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		result = append(result, DetailKV{field.Name, fmt.Sprintf("%v", v.Field(i).Interface())})
	}
	return result
}

// processHierarchy walks the parent chain starting at pid, most-child
// first, the console's analogue of the teacher's getProcessHierarchy —
// generalized from a real-OS ParentProcess field to kernel.ProcInfo's PPID.
func processHierarchy(procs map[int]kernel.ProcInfo, pid int) []kernel.ProcInfo {
	result := []kernel.ProcInfo{}
	current := procs[pid]
	seen := map[int]bool{}
	for {
		result = append(result, current)
		seen[int(current.PID)] = true
		parent, ok := procs[int(current.PPID)]
		if !ok || seen[int(parent.PID)] {
			break
		}
		current = parent
	}
	return result
}

// stateClass maps a kernel.State to the CSS class that colors its table
// row/tree node, so a reader can tell RUNNING apart from SLEEPING at a
// glance instead of reading the State column text.
func stateClass(s kernel.State) string {
	return "state-" + strings.ToLower(s.String())
}

func createTemplate(body string) (*template.Template, error) {
	return template.New("response").
		Funcs(template.FuncMap{"pDeets": processDetails, "stateClass": stateClass}).
		Parse(uiHeader + body + uiFooter)
}

func writeFailure(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	t, tErr := createTemplate(errorView)
	if tErr != nil {
		return
	}
	t.Execute(w, err.Error())
}
