package ps

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/arctir/kernsim/kernel"
)

// Header is the exact column set printed by `kernsim ps`, in the order
// the original's ps.c HEADER macro lists them.
var Header = []string{"PID", "Name", "UID", "GID", "PPID", "Elapsed", "CPU", "State", "Size"}

// Row is one process's printable ps columns.
type Row struct {
	PID     kernel.PID
	Name    string
	UID     int
	GID     int
	PPID    kernel.PID
	Elapsed string
	CPU     string
	State   string
	Size    int
}

// RowsFromProcInfo converts raw process snapshots into printable rows,
// formatting tick counts with FormatTicks.
func RowsFromProcInfo(procs []kernel.ProcInfo) []Row {
	rows := make([]Row, len(procs))
	for i, p := range procs {
		rows[i] = Row{
			PID:     p.PID,
			Name:    p.Name,
			UID:     p.UID,
			GID:     p.GID,
			PPID:    p.PPID,
			Elapsed: FormatTicks(p.ElapsedTicks),
			CPU:     FormatTicks(p.CPUTicksTotal),
			State:   p.State.String(),
			Size:    p.Size,
		}
	}
	return rows
}

// Render writes rows as a table to w. Called with a nil/empty rows slice,
// it still prints the header — `kernsim ps` with no max argument does
// exactly this, matching the original's bare HEADER print with no
// getprocs call.
func Render(w io.Writer, rows []Row) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(Header)
	table.SetAutoFormatHeaders(false)
	for _, r := range rows {
		table.Append([]string{
			strconv.Itoa(int(r.PID)),
			r.Name,
			strconv.Itoa(r.UID),
			strconv.Itoa(r.GID),
			strconv.Itoa(int(r.PPID)),
			r.Elapsed,
			r.CPU,
			r.State,
			strconv.Itoa(r.Size),
		})
	}
	table.Render()
}
