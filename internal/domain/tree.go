package domain

// RootPath is the relative path under which a root stores its own entry
const RootPath = "."

// RootTree is one scanned subtree.
// Entries is keyed by slash separated paths relative to Root.
// It is built once by a walker and only read afterwards.
type RootTree struct {
	Root    string
	Entries map[string]*Entry
}

// NewRootTree creates an empty tree for root
func NewRootTree(root string) *RootTree {
	return &RootTree{
		Root:    root,
		Entries: make(map[string]*Entry),
	}
}

// Get returns the entry stored at relPath, or nil if the tree has none
func (t *RootTree) Get(relPath string) *Entry {
	return t.Entries[relPath]
}

// Len returns the number of entries in the tree
func (t *RootTree) Len() int {
	return len(t.Entries)
}

// Column is one root's view of a path in a DiffRecord.
// A nil Entry means the path is absent from that root.
type Column struct {
	Root  string
	Entry *Entry
}

// Absent reports whether the path is missing from this root
func (c Column) Absent() bool {
	return c.Entry == nil
}

// DiffRecord is one reported path together with every root's entry for it,
// in root order. Entries are shared with the Diff they were computed from.
type DiffRecord struct {
	Path    string
	Columns []Column
}

// HasDir reports whether any column holds a directory
func (r DiffRecord) HasDir() bool {
	for _, c := range r.Columns {
		if c.Entry != nil && c.Entry.IsDir() {
			return true
		}
	}
	return false
}

// DiffStats summarises a set of records
type DiffStats struct {
	// Roots is the number of compared trees
	Roots int

	// Records is the number of differing paths reported
	Records int

	// Missing counts records absent from at least one root
	Missing int

	// Changed counts records present in every root that still differ
	Changed int
}
