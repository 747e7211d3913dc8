package kernel

import "testing"

func TestNewCPUDefaults(t *testing.T) {
	c := NewCPU(3)
	if c.ID != 3 {
		t.Fatalf("expected ID=3, got %d", c.ID)
	}
	if c.IdleBackoff <= 0 {
		t.Fatal("expected a positive default idle backoff")
	}
	if c.current != noRef {
		t.Fatalf("expected a fresh CPU to have no current process, got %d", c.current)
	}
}

func TestAcquireReleaseTracksNcli(t *testing.T) {
	tbl := &Table{pcbs: make([]pcb, 2)}
	c := NewCPU(0)

	c.acquire(tbl)
	if c.ncli != 1 {
		t.Fatalf("expected ncli=1 after acquire, got %d", c.ncli)
	}
	c.release(tbl)
	if c.ncli != 0 {
		t.Fatalf("expected ncli=0 after release, got %d", c.ncli)
	}
}
