package diff

import "github.com/Ning0612/Dirdiff/internal/domain"

// DiffResult represents the comparison result between two entries
type DiffResult int

const (
	// EntriesIdentical indicates the entries are judged equal
	EntriesIdentical DiffResult = iota
	// EntryChanged indicates the path exists in both trees but differs
	EntryChanged
	// EntryOnlyInLeft indicates the path only exists in the left tree
	EntryOnlyInLeft
	// EntryOnlyInRight indicates the path only exists in the right tree
	EntryOnlyInRight
	// EntryAbsent indicates the path exists in neither tree of the pair
	EntryAbsent
)

// String returns a short label for the result
func (r DiffResult) String() string {
	switch r {
	case EntriesIdentical:
		return "identical"
	case EntryChanged:
		return "changed"
	case EntryOnlyInLeft:
		return "only-left"
	case EntryOnlyInRight:
		return "only-right"
	case EntryAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// Differs reports whether the pair counts as a difference
func (r DiffResult) Differs() bool {
	return r != EntriesIdentical
}

// Comparer compares the entries two adjacent trees hold for one path.
// A nil entry means the path is absent from that tree.
type Comparer interface {
	Compare(left, right *domain.Entry) DiffResult
}

// DefaultComparer compares file type and regular file size.
//
// Directory sizes are never compared. Two failures of the same variant are
// equal when their error kinds match, and two EntryError values are always
// equal. Mixed variants always differ.
type DefaultComparer struct{}

// NewDefaultComparer creates a new DefaultComparer
func NewDefaultComparer() *DefaultComparer {
	return &DefaultComparer{}
}

// Compare implements the Comparer interface
func (c *DefaultComparer) Compare(left, right *domain.Entry) DiffResult {
	switch {
	case left == nil && right == nil:
		// Absent from both sides still means absent from the row
		return EntryAbsent
	case right == nil:
		return EntryOnlyInLeft
	case left == nil:
		return EntryOnlyInRight
	}

	if left.Kind != right.Kind {
		return EntryChanged
	}

	switch left.Kind {
	case domain.EntryMetadata:
		if left.FileType != right.FileType {
			return EntryChanged
		}
		if left.FileType != domain.FileTypeDirectory && left.Size != right.Size {
			return EntryChanged
		}
		return EntriesIdentical

	case domain.EntryMetadataError, domain.EntryIOError:
		if left.ErrKind != right.ErrKind {
			return EntryChanged
		}
		return EntriesIdentical

	case domain.EntryError:
		return EntriesIdentical
	}

	return EntryChanged
}

var _ Comparer = (*DefaultComparer)(nil)
