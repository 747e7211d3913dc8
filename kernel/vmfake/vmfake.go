// Package vmfake is a fake kernel.VirtualMemory: it tracks each process's
// user image size and a "currently active" address space per call, in
// place of the original's page-table walking (setupkvm/allocuvm/
// deallocuvm/switchuvm/switchkvm in vm.c). No real memory is mapped; the
// point is to exercise the same call sequence the core issues.
package vmfake

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrFreed is returned by InitUVM, CopyUVM, AllocUVM, DeallocUVM and
// SwitchUVM against an address space that has already been torn down by
// FreeVM.
var ErrFreed = errors.New("vmfake: address space already freed")

// MaxUserBytes bounds how large a fake user image may grow, standing in
// for running out of physical pages to back it.
const MaxUserBytes = 1 << 24

// ErrOutOfMemory is returned when growth would exceed MaxUserBytes.
var ErrOutOfMemory = errors.New("vmfake: out of memory")

type space struct {
	id    int64
	size  int
	freed bool
}

// Manager is the fake VirtualMemory implementation. The zero value is
// ready to use.
type Manager struct {
	mu       sync.Mutex
	nextID   int64
	active   int64 // id of the address space last switched onto the (single, fake) CPU MMU
	switches int
}

// NewManager returns a ready Manager.
func NewManager() *Manager {
	return &Manager{}
}

// SetupKVM allocates a fresh, empty address space — the kernel-only page
// table a process starts with before InitUVM maps its first page.
func (m *Manager) SetupKVM() (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	return &space{id: m.nextID}, nil
}

// InitUVM installs bytes of initial user image into as.
func (m *Manager) InitUVM(as any, bytes int) error {
	s, err := asSpace(as)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.freed {
		return ErrFreed
	}
	s.size = bytes
	return nil
}

// CopyUVM duplicates an address space of size sz (Fork's page-table
// copy-on-write stand-in: here, a real copy since nothing is ever
// written through these handles).
func (m *Manager) CopyUVM(as any, sz int) (any, error) {
	s, err := asSpace(as)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.freed {
		return nil, ErrFreed
	}
	m.nextID++
	return &space{id: m.nextID, size: sz}, nil
}

// AllocUVM grows as from oldSz to newSz, returning the new actual size.
func (m *Manager) AllocUVM(as any, oldSz, newSz int) (int, error) {
	s, err := asSpace(as)
	if err != nil {
		return 0, err
	}
	if newSz > MaxUserBytes {
		return 0, ErrOutOfMemory
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.freed {
		return 0, ErrFreed
	}
	s.size = newSz
	return newSz, nil
}

// DeallocUVM shrinks as from oldSz to newSz, returning the new actual
// size.
func (m *Manager) DeallocUVM(as any, oldSz, newSz int) (int, error) {
	s, err := asSpace(as)
	if err != nil {
		return 0, err
	}
	if newSz < 0 {
		newSz = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.freed {
		return 0, ErrFreed
	}
	s.size = newSz
	return newSz, nil
}

// FreeVM tears as down; any further operation against it fails.
func (m *Manager) FreeVM(as any) error {
	s, err := asSpace(as)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s.freed = true
	if atomic.LoadInt64(&m.active) == s.id {
		atomic.StoreInt64(&m.active, 0)
	}
	return nil
}

// SwitchUVM activates as as the address space backing the currently
// dispatched process.
func (m *Manager) SwitchUVM(as any) error {
	s, err := asSpace(as)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.freed {
		return ErrFreed
	}
	atomic.StoreInt64(&m.active, s.id)
	m.switches++
	return nil
}

// SwitchKVM deactivates any user address space, returning to the kernel's
// own page table — the scheduler's resting state between processes.
func (m *Manager) SwitchKVM() error {
	atomic.StoreInt64(&m.active, 0)
	return nil
}

func asSpace(as any) (*space, error) {
	s, ok := as.(*space)
	if !ok {
		return nil, errors.New("vmfake: not an address space created by this Manager")
	}
	return s, nil
}
