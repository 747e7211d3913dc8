package memfake

import "testing"

func TestAllocFreeRoundTrip(t *testing.T) {
	a := NewAllocator(2)

	p1, err := a.AllocPage()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(p1.([]byte)) != PageSize {
		t.Errorf("expected page of size %d, got %d", PageSize, len(p1.([]byte)))
	}

	if _, err := a.AllocPage(); err != nil {
		t.Fatalf("unexpected error on second alloc: %s", err)
	}
	if a.InUse() != 2 {
		t.Errorf("expected InUse 2, got %d", a.InUse())
	}

	if _, err := a.AllocPage(); err != ErrOutOfPages {
		t.Errorf("expected ErrOutOfPages, got %v", err)
	}

	a.FreePage(p1)
	if a.InUse() != 1 {
		t.Errorf("expected InUse 1 after free, got %d", a.InUse())
	}

	if _, err := a.AllocPage(); err != nil {
		t.Errorf("expected alloc to succeed after a free, got %s", err)
	}
}

func TestFreeNilIsNoop(t *testing.T) {
	a := NewAllocator(0)
	a.FreePage(nil)
	if a.InUse() != 0 {
		t.Errorf("expected InUse 0, got %d", a.InUse())
	}
}

func TestUnboundedCapacity(t *testing.T) {
	a := NewAllocator(0)
	for i := 0; i < 100; i++ {
		if _, err := a.AllocPage(); err != nil {
			t.Fatalf("unexpected error on alloc %d: %s", i, err)
		}
	}
}
