package diff

import (
	"path"
	"sort"
	"strings"

	"github.com/Ning0612/Dirdiff/internal/domain"
)

// Diff holds the scanned trees of every root, in the order the roots were given.
// Column order in every record follows that order, and adjacent trees are the
// pairs that get compared.
type Diff struct {
	trees    []*domain.RootTree
	comparer Comparer
}

// Option configures a Diff
type Option func(*Diff)

// WithComparer replaces the default pairwise comparison rules
func WithComparer(c Comparer) Option {
	return func(d *Diff) {
		if c != nil {
			d.comparer = c
		}
	}
}

// New creates a Diff over trees. The slice is copied; the trees are not.
func New(trees []*domain.RootTree, opts ...Option) *Diff {
	d := &Diff{
		trees:    append([]*domain.RootTree(nil), trees...),
		comparer: NewDefaultComparer(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Trees returns the scanned trees in root order
func (d *Diff) Trees() []*domain.RootTree {
	return d.trees
}

// Roots returns the root paths in order
func (d *Diff) Roots() []string {
	roots := make([]string, len(d.trees))
	for i, t := range d.trees {
		roots[i] = t.Root
	}
	return roots
}

// ComputeRecords returns one record per differing path, ordered by path.
//
// A path differs when it is absent from any tree, or when any two adjacent
// trees disagree on it. With filterDescendants set, nothing below a differing
// directory is reported.
func (d *Diff) ComputeRecords(filterDescendants bool) []domain.DiffRecord {
	paths := d.unionPaths()
	filtered := make(map[string]struct{})

	var records []domain.DiffRecord
	for _, p := range paths {
		if filterDescendants && p != domain.RootPath {
			if _, ok := filtered[path.Dir(p)]; ok {
				// Grandchildren look up their parent, so skipped paths are filtered too
				filtered[p] = struct{}{}
				continue
			}
		}

		record, differs := d.row(p)
		if !differs {
			continue
		}

		if filterDescendants && record.HasDir() {
			filtered[p] = struct{}{}
		}
		records = append(records, record)
	}

	return records
}

// row builds the record for p and reports whether it differs
func (d *Diff) row(p string) (domain.DiffRecord, bool) {
	record := domain.DiffRecord{
		Path:    p,
		Columns: make([]domain.Column, len(d.trees)),
	}

	differs := false
	for i, t := range d.trees {
		record.Columns[i] = domain.Column{Root: t.Root, Entry: t.Get(p)}
		if record.Columns[i].Absent() {
			differs = true
		}
	}

	for i := 0; !differs && i+1 < len(record.Columns); i++ {
		if d.comparer.Compare(record.Columns[i].Entry, record.Columns[i+1].Entry).Differs() {
			differs = true
		}
	}

	return record, differs
}

// unionPaths collects every relative path of every tree in ComparePaths order
func (d *Diff) unionPaths() []string {
	seen := make(map[string]struct{})
	for _, t := range d.trees {
		for p := range t.Entries {
			seen[p] = struct{}{}
		}
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		return ComparePaths(paths[i], paths[j]) < 0
	})
	return paths
}

// ComparePaths orders relative paths segment by segment, so a directory
// sorts directly before its contents and domain.RootPath sorts first.
// It returns -1, 0 or +1.
func ComparePaths(a, b string) int {
	if a == b {
		return 0
	}
	if a == domain.RootPath {
		return -1
	}
	if b == domain.RootPath {
		return 1
	}

	as := strings.Split(a, "/")
	bs := strings.Split(b, "/")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := strings.Compare(as[i], bs[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	default:
		return 0
	}
}

// Summary counts records for reporting
func (d *Diff) Summary(records []domain.DiffRecord) domain.DiffStats {
	stats := domain.DiffStats{
		Roots:   len(d.trees),
		Records: len(records),
	}

	for _, r := range records {
		missing := false
		for _, c := range r.Columns {
			if c.Absent() {
				missing = true
				break
			}
		}
		if missing {
			stats.Missing++
		} else {
			stats.Changed++
		}
	}
	return stats
}
