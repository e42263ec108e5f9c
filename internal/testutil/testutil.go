package testutil

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
)

// Tree describes a directory layout: slash separated relative paths mapped to
// file sizes. A path ending in "/" is created as a directory and its size is ignored.
type Tree map[string]int64

// CreateTree materialises tree under root on the OS filesystem
func CreateTree(t *testing.T, root string, tree Tree) {
	t.Helper()
	BuildTree(t, afero.NewOsFs(), root, tree)
}

// BuildTree materialises tree under root on fsys
func BuildTree(t *testing.T, fsys afero.Fs, root string, tree Tree) {
	t.Helper()

	if err := fsys.MkdirAll(root, 0755); err != nil {
		t.Fatalf("failed to create root %s: %v", root, err)
	}

	for rel, size := range tree {
		full := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(rel, "/")))
		if strings.HasSuffix(rel, "/") {
			if err := fsys.MkdirAll(full, 0755); err != nil {
				t.Fatalf("failed to create directory %s: %v", full, err)
			}
			continue
		}

		if err := fsys.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", full, err)
		}
		if err := afero.WriteFile(fsys, full, bytes.Repeat([]byte("x"), int(size)), 0644); err != nil {
			t.Fatalf("failed to create test file %s: %v", full, err)
		}
	}
}

// FaultyFs wraps an afero.Fs and fails chosen operations on chosen paths.
// It lets tests reproduce permission and I/O failures that an unprivileged
// test run cannot create on a real filesystem.
type FaultyFs struct {
	afero.Fs

	mu       sync.RWMutex
	statErrs map[string]error
	openErrs map[string]error
}

// NewFaultyFs wraps base
func NewFaultyFs(base afero.Fs) *FaultyFs {
	return &FaultyFs{
		Fs:       base,
		statErrs: make(map[string]error),
		openErrs: make(map[string]error),
	}
}

// FailStat makes Stat and Lstat of path fail with err wrapped in a *fs.PathError
func (f *FaultyFs) FailStat(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statErrs[filepath.Clean(path)] = err
}

// FailOpen makes Open of path fail with err wrapped in a *fs.PathError
func (f *FaultyFs) FailOpen(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.openErrs[filepath.Clean(path)] = err
}

func (f *FaultyFs) lookup(m map[string]error, op, path string) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if err, ok := m[filepath.Clean(path)]; ok {
		return &fs.PathError{Op: op, Path: path, Err: err}
	}
	return nil
}

// Stat implements afero.Fs
func (f *FaultyFs) Stat(name string) (os.FileInfo, error) {
	if err := f.lookup(f.statErrs, "stat", name); err != nil {
		return nil, err
	}
	return f.Fs.Stat(name)
}

// LstatIfPossible implements afero.Lstater
func (f *FaultyFs) LstatIfPossible(name string) (os.FileInfo, bool, error) {
	if err := f.lookup(f.statErrs, "lstat", name); err != nil {
		return nil, true, err
	}
	if l, ok := f.Fs.(afero.Lstater); ok {
		return l.LstatIfPossible(name)
	}
	info, err := f.Fs.Stat(name)
	return info, false, err
}

// Open implements afero.Fs
func (f *FaultyFs) Open(name string) (afero.File, error) {
	if err := f.lookup(f.openErrs, "open", name); err != nil {
		return nil, err
	}
	return f.Fs.Open(name)
}
