package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/Ning0612/Dirdiff/internal/adapter"
	"github.com/Ning0612/Dirdiff/internal/domain"
)

// Adapter implements adapter.Traverser on top of an afero filesystem
type Adapter struct {
	fs afero.Fs
}

// New creates a traverser over the given filesystem
func New(fs afero.Fs) *Adapter {
	return &Adapter{fs: fs}
}

// NewOS creates a traverser over the real operating system filesystem
func NewOS() *Adapter {
	return New(afero.NewOsFs())
}

// Walk enumerates root depth-first, visiting each node before its children
func (a *Adapter) Walk(ctx context.Context, root string, opts adapter.WalkOptions, visit adapter.VisitFunc) error {
	root = filepath.Clean(root)

	// The root is always resolved through symlinks so a linked root can be compared
	info, err := a.fs.Stat(root)
	if err != nil {
		return skipOrAbort(visit(domain.WalkItem{Path: root, Err: err}))
	}

	return skipOrAbort(a.walk(ctx, root, info, nil, opts, visit))
}

// walk visits path and descends into it when it is a directory.
// ancestors holds the metadata of every directory above path and is only
// consulted when following symlinks.
func (a *Adapter) walk(
	ctx context.Context,
	path string,
	info os.FileInfo,
	ancestors []os.FileInfo,
	opts adapter.WalkOptions,
	visit adapter.VisitFunc,
) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if opts.FollowSymlinks && info.IsDir() {
		for _, ancestor := range ancestors {
			if os.SameFile(ancestor, info) {
				return skipOrAbort(visit(domain.WalkItem{
					Path: path,
					Err:  fmt.Errorf("%w: %s", domain.ErrSymlinkLoop, path),
				}))
			}
		}
	}

	if err := visit(domain.WalkItem{Path: path, Info: info}); err != nil {
		if errors.Is(err, adapter.SkipDir) && info.IsDir() {
			return nil
		}
		return err
	}

	if !info.IsDir() {
		return nil
	}

	names, err := a.readDirNames(path)
	if err != nil {
		// Reported after the directory itself, so it replaces the directory's entry
		return skipOrAbort(visit(domain.WalkItem{Path: path, Err: err}))
	}

	if opts.SortByName {
		sort.Strings(names)
	}

	children := append(ancestors[:len(ancestors):len(ancestors)], info)
	for _, name := range names {
		child := filepath.Join(path, name)

		childInfo, err := a.stat(child, opts.FollowSymlinks)
		if err != nil {
			if err := skipOrAbort(visit(domain.WalkItem{Path: child, MetadataErr: err})); err != nil {
				return err
			}
			continue
		}

		if err := a.walk(ctx, child, childInfo, children, opts, visit); err != nil {
			return err
		}
	}

	return nil
}

// readDirNames lists the names in a directory in the order the filesystem returns them
func (a *Adapter) readDirNames(path string) ([]string, error) {
	dir, err := a.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer dir.Close()

	return dir.Readdirnames(-1)
}

// stat reads metadata for path, through symlinks only when follow is set
func (a *Adapter) stat(path string, follow bool) (os.FileInfo, error) {
	if follow {
		return a.fs.Stat(path)
	}
	if lstater, ok := a.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		return info, err
	}
	return a.fs.Stat(path)
}

// skipOrAbort swallows SkipDir returned for items that have no children to skip
func skipOrAbort(err error) error {
	if errors.Is(err, adapter.SkipDir) {
		return nil
	}
	return err
}

var _ adapter.Traverser = (*Adapter)(nil)
