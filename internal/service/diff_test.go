package service

import (
	"context"
	"errors"
	"io/fs"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ning0612/Dirdiff/internal/adapter/local"
	"github.com/Ning0612/Dirdiff/internal/config"
	"github.com/Ning0612/Dirdiff/internal/domain"
	"github.com/Ning0612/Dirdiff/internal/testutil"
)

func memService(t *testing.T, fsys afero.Fs) *DiffService {
	t.Helper()
	svc, err := NewDiffServiceWithTraverser(config.Default(), local.New(fsys), nil)
	require.NoError(t, err)
	return svc
}

func paths(records []domain.DiffRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Path)
	}
	return out
}

func TestNewDiffService_NilConfig(t *testing.T) {
	_, err := NewDiffService(nil, nil)
	assert.Error(t, err)
}

func TestNewDiffService_InvalidExclude(t *testing.T) {
	cfg := config.Default()
	cfg.Exclude = []string{"["}

	_, err := NewDiffService(cfg, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidPattern)
}

func TestBuildDiff_NoRoots(t *testing.T) {
	d, err := memService(t, afero.NewMemMapFs()).BuildDiff(context.Background(), nil)
	assert.Nil(t, d)
	assert.ErrorIs(t, err, domain.ErrNoRoots)
}

func TestBuildDiff_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		a, b   testutil.Tree
		faults func(fsys *testutil.FaultyFs)
		want   []string
	}{
		{
			name: "file size differs",
			a:    testutil.Tree{"x": 10},
			b:    testutil.Tree{"x": 20},
			want: []string{"x"},
		},
		{
			name: "missing directory suppresses its contents",
			a:    testutil.Tree{"dir/a.txt": 1},
			b:    testutil.Tree{},
			want: []string{"dir"},
		},
		{
			name: "identical directories",
			a:    testutil.Tree{"dir/a.txt": 5},
			b:    testutil.Tree{"dir/a.txt": 5},
			want: nil,
		},
		{
			name: "permission error on metadata",
			a:    testutil.Tree{"p": 1},
			b:    testutil.Tree{"p": 1},
			faults: func(fsys *testutil.FaultyFs) {
				fsys.FailStat("/b/p", fs.ErrPermission)
			},
			want: []string{"p"},
		},
		{
			name: "identical listing failures",
			a:    testutil.Tree{"locked/x": 1},
			b:    testutil.Tree{"locked/y": 2},
			faults: func(fsys *testutil.FaultyFs) {
				fsys.FailOpen("/a/locked", fs.ErrPermission)
				fsys.FailOpen("/b/locked", fs.ErrPermission)
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := testutil.NewFaultyFs(afero.NewMemMapFs())
			testutil.BuildTree(t, fsys, "/a", tt.a)
			testutil.BuildTree(t, fsys, "/b", tt.b)
			if tt.faults != nil {
				tt.faults(fsys)
			}

			d, err := memService(t, fsys).BuildDiff(context.Background(), []string{"/a", "/b"})
			require.NoError(t, err)

			records := d.ComputeRecords(true)
			if tt.want == nil {
				assert.Empty(t, records)
				return
			}
			assert.Equal(t, tt.want, paths(records))
		})
	}
}

func TestBuildDiff_Reflexive(t *testing.T) {
	fsys := testutil.NewFaultyFs(afero.NewMemMapFs())
	testutil.BuildTree(t, fsys, "/a", testutil.Tree{"d/e/f": 3, "g": 0, "empty/": 0, "locked/x": 1})
	fsys.FailOpen("/a/locked", fs.ErrPermission)

	d, err := memService(t, fsys).BuildDiff(context.Background(), []string{"/a", "/a"})
	require.NoError(t, err)

	assert.Empty(t, d.ComputeRecords(false))
	assert.Empty(t, d.ComputeRecords(true))
	assert.Equal(t, []string{"/a", "/a"}, d.Roots())
}

func TestBuildDiff_Deterministic(t *testing.T) {
	fsys := afero.NewMemMapFs()
	testutil.BuildTree(t, fsys, "/a", testutil.Tree{"x": 1, "y/z": 2, "only-a": 1})
	testutil.BuildTree(t, fsys, "/b", testutil.Tree{"x": 2, "y/z": 3, "only-b/q": 1})
	svc := memService(t, fsys)

	first, err := svc.BuildDiff(context.Background(), []string{"/a", "/b"})
	require.NoError(t, err)
	want := first.ComputeRecords(true)
	assert.Equal(t, []string{"only-a", "only-b", "x", "y/z"}, paths(want))

	for i := 0; i < 5; i++ {
		d, err := svc.BuildDiff(context.Background(), []string{"/a", "/b"})
		require.NoError(t, err)
		assert.Equal(t, want, d.ComputeRecords(true))
	}
}

// fakeWalker returns an empty tree per root after an optional per-root delay
type fakeWalker struct {
	delays map[string]time.Duration
	panics map[string]bool
	calls  atomic.Int32
}

func (f *fakeWalker) Walk(ctx context.Context, root string) (*domain.RootTree, error) {
	f.calls.Add(1)
	if f.panics[root] {
		panic("walker exploded")
	}
	select {
	case <-time.After(f.delays[root]):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	tree := domain.NewRootTree(root)
	e := domain.NewMetadata(domain.FileTypeDirectory, 0)
	tree.Entries[domain.RootPath] = &e
	return tree, nil
}

func TestBuildDiff_PreservesInputOrder(t *testing.T) {
	w := &fakeWalker{delays: map[string]time.Duration{
		"/first":  30 * time.Millisecond,
		"/second": 10 * time.Millisecond,
		"/third":  0,
	}}

	d, err := NewDiffServiceWithWalker(w, nil).BuildDiff(context.Background(), []string{"/first", "/second", "/third"})
	require.NoError(t, err)

	assert.Equal(t, []string{"/first", "/second", "/third"}, d.Roots())
	assert.Equal(t, int32(3), w.calls.Load())
}

func TestBuildDiff_PanicIsThreadFailure(t *testing.T) {
	w := &fakeWalker{
		delays: map[string]time.Duration{"/ok": time.Second},
		panics: map[string]bool{"/bad": true},
	}

	d, err := NewDiffServiceWithWalker(w, nil).BuildDiff(context.Background(), []string{"/ok", "/bad"})
	assert.Nil(t, d)
	require.ErrorIs(t, err, domain.ErrThreadFailure)
	assert.Contains(t, err.Error(), "walker exploded")
}

func TestBuildDiff_Cancelled(t *testing.T) {
	w := &fakeWalker{delays: map[string]time.Duration{"/slow": time.Minute}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	d, err := NewDiffServiceWithWalker(w, nil).BuildDiff(ctx, []string{"/slow", "/slow"})
	assert.Nil(t, d)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestBuildDiff_RelativeRootsMadeAbsolute(t *testing.T) {
	w := &fakeWalker{}

	d, err := NewDiffServiceWithWalker(w, nil).BuildDiff(context.Background(), []string{"rel/a", "/abs"})
	require.NoError(t, err)

	roots := d.Roots()
	assert.NotEqual(t, "rel/a", roots[0])
	assert.Contains(t, roots[0], "rel/a")
	assert.Equal(t, "/abs", roots[1])
}
