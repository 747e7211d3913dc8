package kernel

import "errors"

// ErrTableFull is returned by alloc when no UNUSED pcb is available.
var ErrTableFull = errors.New("kernel: process table full")

// ErrStackAlloc is returned when the kernel-stack page allocator fails.
var ErrStackAlloc = errors.New("kernel: failed allocating kernel stack")

// ErrAddressSpace is returned when address-space setup or copy fails.
var ErrAddressSpace = errors.New("kernel: failed setting up address space")

// ErrNoChildren is returned by Wait when the caller has no children.
var ErrNoChildren = errors.New("kernel: no children")

// ErrKilled is returned by Wait when the caller has been killed.
var ErrKilled = errors.New("kernel: killed while waiting")

// ErrNoSuchProcess is returned by Kill when no pcb has the given pid.
var ErrNoSuchProcess = errors.New("kernel: no such process")

// ErrGrowFailed is returned by Growproc when the address-space allocator
// cannot satisfy the requested change in size.
var ErrGrowFailed = errors.New("kernel: growproc failed")

// ErrNotImplemented is returned by the priority-scheduling stubs; no
// scheduling logic backs them, matching the original's stub constant -1
// return.
var ErrNotImplemented = errors.New("kernel: not implemented")
