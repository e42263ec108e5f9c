package service

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/Ning0612/Dirdiff/internal/adapter"
	"github.com/Ning0612/Dirdiff/internal/adapter/local"
	"github.com/Ning0612/Dirdiff/internal/config"
	"github.com/Ning0612/Dirdiff/internal/core/diff"
	"github.com/Ning0612/Dirdiff/internal/core/walker"
	"github.com/Ning0612/Dirdiff/internal/domain"
	"github.com/Ning0612/Dirdiff/internal/logger"
	"github.com/Ning0612/Dirdiff/internal/progress"
)

// TreeWalker scans one root into a RootTree.
// BuildDiff calls it from several goroutines at once.
type TreeWalker interface {
	Walk(ctx context.Context, root string) (*domain.RootTree, error)
}

// DiffService orchestrates concurrent scans of every root
type DiffService struct {
	walker   TreeWalker
	reporter progress.Reporter
}

// NewDiffService creates a diff service over the local filesystem
func NewDiffService(cfg *config.Config, reporter progress.Reporter) (*DiffService, error) {
	return NewDiffServiceWithTraverser(cfg, local.NewOS(), reporter)
}

// NewDiffServiceWithTraverser creates a diff service over any traversal backend
func NewDiffServiceWithTraverser(cfg *config.Config, traverser adapter.Traverser, reporter progress.Reporter) (*DiffService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if reporter == nil {
		reporter = progress.NullReporter{}
	}

	w, err := walker.New(traverser, walker.Options{
		SortByName:     cfg.SortEntries,
		FollowSymlinks: cfg.FollowSymlinks,
		Exclude:        cfg.Exclude,
	}, walker.WithReporter(reporter))
	if err != nil {
		return nil, fmt.Errorf("failed to create walker: %w", err)
	}

	return NewDiffServiceWithWalker(w, reporter), nil
}

// NewDiffServiceWithWalker creates a diff service around an existing walker
func NewDiffServiceWithWalker(w TreeWalker, reporter progress.Reporter) *DiffService {
	if reporter == nil {
		reporter = progress.NullReporter{}
	}
	return &DiffService{walker: w, reporter: reporter}
}

// BuildDiff scans every root concurrently and returns their trees in input order.
//
// Roots are made absolute; the same root may appear more than once. The
// result is all or nothing: a walker that panics yields domain.ErrThreadFailure,
// a cancelled ctx yields its error, and in both cases no Diff is returned.
func (s *DiffService) BuildDiff(ctx context.Context, roots []string) (*diff.Diff, error) {
	if len(roots) == 0 {
		return nil, domain.ErrNoRoots
	}

	absRoots := make([]string, len(roots))
	for i, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
		}
		absRoots[i] = abs
	}

	log := logger.With("roots", len(absRoots))
	log.Info("building diff")
	s.reporter.SetTotal(len(absRoots))

	trees := make([]*domain.RootTree, len(absRoots))
	g, gctx := errgroup.WithContext(ctx)
	for i, root := range absRoots {
		i, root := i, root
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: walker for %s: %v", domain.ErrThreadFailure, root, r)
				}
			}()

			tree, err := s.walker.Walk(gctx, root)
			if err != nil {
				return err
			}
			// Each goroutine owns exactly one slot
			trees[i] = tree
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("diff aborted", "error", err)
		return nil, err
	}

	log.Info("diff built")
	return diff.New(trees), nil
}
