package domain

import "io/fs"

// FileType represents the type of a filesystem entry
type FileType int

const (
	FileTypeRegular FileType = iota
	FileTypeDirectory
	FileTypeSymlink
	FileTypeOther
)

// String returns the short name used in reports
func (t FileType) String() string {
	switch t {
	case FileTypeRegular:
		return "file"
	case FileTypeDirectory:
		return "dir"
	case FileTypeSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// FileTypeFromMode maps a file mode onto a FileType.
// Devices, sockets and pipes all collapse into FileTypeOther.
func FileTypeFromMode(mode fs.FileMode) FileType {
	switch {
	case mode.IsRegular():
		return FileTypeRegular
	case mode.IsDir():
		return FileTypeDirectory
	case mode&fs.ModeSymlink != 0:
		return FileTypeSymlink
	default:
		return FileTypeOther
	}
}

// WalkItem is one result yielded by a traversal.
//
// Exactly one of three shapes is produced:
//   - success: Info is set
//   - metadata failure: the node was found but MetadataErr prevented reading it
//   - traversal failure: Err is set and Path may be empty when it could not be attributed
type WalkItem struct {
	// Path is the absolute path of the node, empty when unknown
	Path string

	// Info is the node metadata on success
	Info fs.FileInfo

	// MetadataErr is set when the node was listed but its metadata could not be read
	MetadataErr error

	// Err is set when the traversal itself failed at this node
	Err error
}

// HasPath reports whether the item can be located in a tree
func (w WalkItem) HasPath() bool {
	return w.Path != ""
}
