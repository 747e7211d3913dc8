package ps

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arctir/kernsim/kernel"
)

func TestRowsFromProcInfo(t *testing.T) {
	procs := []kernel.ProcInfo{
		{PID: 2, Name: "init", UID: 0, GID: 0, PPID: 2, State: kernel.Runnable, Size: 4096, ElapsedTicks: 1500, CPUTicksTotal: 250},
	}
	rows := RowsFromProcInfo(procs)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Elapsed != "1.500" {
		t.Errorf("expected Elapsed 1.500, got %s", rows[0].Elapsed)
	}
	if rows[0].State != "RUNNABLE" {
		t.Errorf("expected State RUNNABLE, got %s", rows[0].State)
	}
}

func TestRenderEmptyStillPrintsHeader(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, nil)
	out := buf.String()
	for _, col := range Header {
		if !strings.Contains(out, col) {
			t.Errorf("expected header output to contain %q, got:\n%s", col, out)
		}
	}
}

func TestRenderIncludesRowData(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, []Row{{PID: 3, Name: "sh", State: "RUNNING"}})
	out := buf.String()
	if !strings.Contains(out, "sh") {
		t.Errorf("expected rendered table to contain process name, got:\n%s", out)
	}
}
