package fsfake

import "testing"

func TestNameiResolvesRegisteredPath(t *testing.T) {
	fs := NewFS()
	fs.RegisterInode("/bin/true")

	in, err := fs.Namei("/bin/true")
	if err != nil {
		t.Fatalf("Namei failed: %s", err)
	}
	if in == nil {
		t.Fatal("expected non-nil inode handle")
	}
}

func TestNameiMissingPath(t *testing.T) {
	fs := NewFS()
	if _, err := fs.Namei("/nope"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDupAndCloseFile(t *testing.T) {
	fs := NewFS()
	f := fs.OpenFile("/dev/console")
	dup := fs.Dup(f)
	if dup != f {
		t.Error("expected Dup to return the same handle")
	}
	if err := fs.Close(f); err != nil {
		t.Fatalf("Close failed: %s", err)
	}
	if err := fs.Close(dup); err != nil {
		t.Fatalf("second Close failed: %s", err)
	}
}

func TestIDupAndIPut(t *testing.T) {
	fs := NewFS()
	fs.RegisterInode("/etc/passwd")
	in, err := fs.Namei("/etc/passwd")
	if err != nil {
		t.Fatalf("Namei failed: %s", err)
	}
	dup := fs.IDup(in)
	if err := fs.IPut(dup); err != nil {
		t.Fatalf("IPut failed: %s", err)
	}
	if err := fs.IPut(in); err != nil {
		t.Fatalf("IPut failed: %s", err)
	}
}

func TestBeginEndOp(t *testing.T) {
	fs := NewFS()
	fs.BeginOp()
	fs.BeginOp()
	fs.EndOp()
	fs.EndOp()
	if fs.logOps != 0 {
		t.Errorf("expected logOps to settle at 0, got %d", fs.logOps)
	}
}

func TestCloseNilIsNoop(t *testing.T) {
	fs := NewFS()
	if err := fs.Close(nil); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if err := fs.IPut(nil); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}
