package kernel

// This file is the boundary of the core: the collaborator contracts spec.md
// treats as external (virtual memory, the page allocator, the file/inode
// layer, and the tick counter). The core only ever talks to these through
// the interfaces below; fake implementations sufficient to run a
// standalone simulation live in the sibling vmfake/memfake/fsfake packages.

// Page is an opaque handle to one unit of kernel memory, as returned by a
// PageAllocator. The core never dereferences it. Declared as an alias
// (rather than a defined type) so a fake collaborator package can
// implement PageAllocator/VirtualMemory/FileTable using plain `any` in its
// method signatures without importing this package just to name its own
// return types.
type Page = any

// PageAllocator hands out and reclaims fixed-size pages of kernel memory,
// used for process kernel stacks.
type PageAllocator interface {
	AllocPage() (Page, error)
	FreePage(Page)
}

// AddressSpace is an opaque handle to a user address-space descriptor
// (xv6's pgdir), as returned by a VirtualMemory implementation.
type AddressSpace = any

// VirtualMemory manages user address spaces: creation, copy-on-fork,
// growth, and activation on a CPU.
type VirtualMemory interface {
	SetupKVM() (AddressSpace, error)
	InitUVM(as AddressSpace, bytes int) error
	CopyUVM(as AddressSpace, sz int) (AddressSpace, error)
	AllocUVM(as AddressSpace, oldSz, newSz int) (int, error)
	DeallocUVM(as AddressSpace, oldSz, newSz int) (int, error)
	FreeVM(as AddressSpace) error
	SwitchUVM(as AddressSpace) error
	SwitchKVM() error
}

// FileHandle is an opaque reference to an open file, as duplicated/closed
// by a FileTable.
type FileHandle = any

// InodeHandle is an opaque reference to a filesystem inode.
type InodeHandle = any

// FileTable is the file-descriptor and filesystem collaborator: open-file
// duplication, inode release, and the log transaction bracket.
type FileTable interface {
	Dup(FileHandle) FileHandle
	Close(FileHandle) error
	IDup(InodeHandle) InodeHandle
	IPut(InodeHandle) error
	Namei(path string) (InodeHandle, error)
	BeginOp()
	EndOp()
}

// Clock is the monotonic tick counter a timer ISR would otherwise
// increment; it is trivial enough (a single counter) that the core ships a
// default implementation directly rather than requiring a fake
// sub-package, while still depending on it only through this interface.
type Clock interface {
	Ticks() uint64
}

// Collaborators bundles every external dependency the core needs to run.
type Collaborators struct {
	Pages PageAllocator
	VM    VirtualMemory
	Files FileTable
	Clock Clock
}
