package walker

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/Ning0612/Dirdiff/internal/adapter"
	"github.com/Ning0612/Dirdiff/internal/core/classify"
	"github.com/Ning0612/Dirdiff/internal/domain"
	"github.com/Ning0612/Dirdiff/internal/logger"
	"github.com/Ning0612/Dirdiff/internal/progress"
)

// Options controls how every root is scanned
type Options struct {
	// SortByName makes the traversal order deterministic
	SortByName bool

	// FollowSymlinks descends into linked directories
	FollowSymlinks bool

	// Exclude holds glob patterns matched against relative paths and base names
	Exclude []string
}

// Walker scans one root at a time into a RootTree.
// A single Walker may be used by several goroutines at once; it holds no per-walk state.
type Walker struct {
	traverser adapter.Traverser
	opts      Options
	excludes  *Matcher
	reporter  progress.Reporter
}

// Option configures a Walker
type Option func(*Walker)

// WithReporter sets the progress reporter notified for every recorded entry
func WithReporter(r progress.Reporter) Option {
	return func(w *Walker) {
		if r != nil {
			w.reporter = r
		}
	}
}

// New creates a walker. It fails only when an exclusion pattern is invalid.
func New(traverser adapter.Traverser, opts Options, options ...Option) (*Walker, error) {
	matcher, err := NewMatcher(opts.Exclude)
	if err != nil {
		return nil, err
	}

	w := &Walker{
		traverser: traverser,
		opts:      opts,
		excludes:  matcher,
		reporter:  progress.NullReporter{},
	}
	for _, o := range options {
		o(w)
	}
	return w, nil
}

// Walk scans root and returns its relative path mapping.
//
// Per-entry failures never abort the walk, they become Entry variants. The
// only error returned is the context's when the walk is cancelled. A path
// that cannot be expressed relative to root is a logic error and panics.
func (w *Walker) Walk(ctx context.Context, root string) (*domain.RootTree, error) {
	root = filepath.Clean(root)
	tree := domain.NewRootTree(root)
	log := logger.With("root", root)

	w.reporter.StartRoot(root)
	log.Debug("walking root")

	var failures int
	walkOpts := adapter.WalkOptions{
		SortByName:     w.opts.SortByName,
		FollowSymlinks: w.opts.FollowSymlinks,
	}

	err := w.traverser.Walk(ctx, root, walkOpts, func(item domain.WalkItem) error {
		if !item.HasPath() {
			// Cannot be located in the tree
			log.Debug("dropping unattributed traversal error", "error", item.Err)
			return nil
		}

		rel := RelativePath(root, item.Path)
		if rel != domain.RootPath && w.excludes.Match(rel) {
			if item.Info != nil && item.Info.IsDir() {
				return adapter.SkipDir
			}
			return nil
		}

		entry := classify.Classify(item)
		if entry.Kind != domain.EntryMetadata {
			failures++
			log.Debug("recording failed entry", "path", rel, "entry", entry.String())
		}

		tree.Entries[rel] = &entry
		w.reporter.Entry(root, rel)
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.Warn("walk cancelled", "entries", tree.Len())
		}
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	w.reporter.CompleteRoot(root, tree.Len())
	log.Debug("walk finished", "entries", tree.Len(), "failures", failures)

	return tree, nil
}

// RelativePath returns p relative to root as a slash separated path, with
// domain.RootPath for the root itself. Every traversal item lies under its
// root, so any other outcome panics.
func RelativePath(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		panic(fmt.Sprintf("path %q is not relative to root %q: %v", p, root, err))
	}

	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		panic(fmt.Sprintf("path %q escapes root %q", p, root))
	}

	return path.Clean(rel)
}
