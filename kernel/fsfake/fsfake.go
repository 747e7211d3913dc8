// Package fsfake is a fake kernel.FileTable: open-file duplication
// (refcounted), inode lookup/release, and a no-op log transaction
// bracket, standing in for the original's file.c/fs.c/log.c.
package fsfake

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by Namei for any path not pre-registered.
var ErrNotFound = errors.New("fsfake: no such file")

type file struct {
	mu   sync.Mutex
	path string
	refs int
}

type inode struct {
	mu   sync.Mutex
	path string
	refs int
}

// FS is the fake filesystem + open-file table. Construct it with NewFS
// (RegisterInode writes into the inode map NewFS allocates); RegisterInode
// seeds it with named inodes a workload can then Namei, and OpenFile
// creates open-file handles.
type FS struct {
	mu     sync.Mutex
	inodes map[string]*inode
	logOps int
}

// NewFS returns an empty FS.
func NewFS() *FS {
	return &FS{inodes: map[string]*inode{}}
}

// RegisterInode seeds path into the fake filesystem so Namei can find it.
func (fs *FS) RegisterInode(path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.inodes[path]; !ok {
		fs.inodes[path] = &inode{path: path}
	}
}

// OpenFile creates a fresh, singly-referenced open-file handle for path
// (the fake's analogue of sys_open, which the core does not model
// directly — workloads call this to seed a process's initial fd table).
func (fs *FS) OpenFile(path string) any {
	return &file{path: path, refs: 1}
}

// Dup bumps the refcount on an open file and returns the same handle
// (xv6's filedup: no real duplication, just another reference).
func (fs *FS) Dup(f any) any {
	if f == nil {
		return nil
	}
	fl := f.(*file)
	fl.mu.Lock()
	defer fl.mu.Unlock()
	fl.refs++
	return fl
}

// Close drops a reference to an open file.
func (fs *FS) Close(f any) error {
	if f == nil {
		return nil
	}
	fl, ok := f.(*file)
	if !ok {
		return errors.New("fsfake: not a file handle created by this FS")
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.refs > 0 {
		fl.refs--
	}
	return nil
}

// IDup bumps the refcount on an inode handle and returns it.
func (fs *FS) IDup(i any) any {
	if i == nil {
		return nil
	}
	in := i.(*inode)
	in.mu.Lock()
	defer in.mu.Unlock()
	in.refs++
	return in
}

// IPut drops a reference to an inode handle.
func (fs *FS) IPut(i any) error {
	if i == nil {
		return nil
	}
	in, ok := i.(*inode)
	if !ok {
		return errors.New("fsfake: not an inode handle created by this FS")
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.refs > 0 {
		in.refs--
	}
	return nil
}

// Namei resolves path to an inode handle, bumping its refcount.
func (fs *FS) Namei(path string) (any, error) {
	fs.mu.Lock()
	in, ok := fs.inodes[path]
	fs.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	in.mu.Lock()
	in.refs++
	in.mu.Unlock()
	return in, nil
}

// BeginOp and EndOp bracket a filesystem transaction. The original's
// log.c batches writes across concurrent transactions and commits only
// once the last one ends; there is no real disk here, so these simply
// track the number of outstanding transactions for introspection/tests.
func (fs *FS) BeginOp() {
	fs.mu.Lock()
	fs.logOps++
	fs.mu.Unlock()
}

func (fs *FS) EndOp() {
	fs.mu.Lock()
	if fs.logOps > 0 {
		fs.logOps--
	}
	fs.mu.Unlock()
}
