package domain

import "errors"

// Orchestration errors
var (
	// ErrThreadFailure indicates a tree walker could not be joined (it panicked
	// or was otherwise lost). No partial diff is returned alongside it.
	ErrThreadFailure = errors.New("tree walker failed")

	// ErrNoRoots indicates a diff was requested without any root
	ErrNoRoots = errors.New("no roots to compare")
)

// Traversal errors
var (
	// ErrSymlinkLoop indicates a followed symlink points back at one of its
	// ancestors. It carries no I/O cause.
	ErrSymlinkLoop = errors.New("file system loop detected")

	// ErrInvalidPattern indicates an exclusion glob could not be compiled
	ErrInvalidPattern = errors.New("invalid exclude pattern")
)

// Config errors
var (
	// ErrConfigNotFound indicates config file not found
	ErrConfigNotFound = errors.New("config file not found")

	// ErrConfigInvalid indicates config file is malformed
	ErrConfigInvalid = errors.New("invalid config")
)
