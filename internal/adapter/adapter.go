package adapter

import (
	"context"
	"errors"

	"github.com/Ning0612/Dirdiff/internal/domain"
)

// SkipDir can be returned by a VisitFunc on a directory item to skip its children
var SkipDir = errors.New("skip this directory")

// VisitFunc receives every item produced by a traversal.
// Returning SkipDir prunes the directory, any other error aborts the walk.
type VisitFunc func(item domain.WalkItem) error

// WalkOptions controls how a Traverser enumerates a subtree
type WalkOptions struct {
	// SortByName visits siblings in file name order
	SortByName bool

	// FollowSymlinks reads metadata through symlinks and descends into
	// linked directories, reporting loops as traversal failures
	FollowSymlinks bool
}

// Traverser is the recursive directory enumeration primitive.
// Implementations never fail on per-node errors: those are handed to visit
// as WalkItems. Walk only returns an error when visit does or ctx is done.
type Traverser interface {
	// Walk enumerates root and everything below it.
	// Every node is visited before its children.
	Walk(ctx context.Context, root string, opts WalkOptions, visit VisitFunc) error
}
