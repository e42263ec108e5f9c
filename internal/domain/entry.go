package domain

import "fmt"

// EntryKind selects the active variant of an Entry
type EntryKind int

const (
	// EntryMetadata is a node whose metadata was read successfully
	EntryMetadata EntryKind = iota
	// EntryMetadataError is a node found during traversal whose metadata could not be read
	EntryMetadataError
	// EntryIOError is a node where the traversal itself failed with an I/O error,
	// typically a directory that could not be listed
	EntryIOError
	// EntryError is a traversal failure without any classifiable detail
	EntryError
)

// String returns the variant name
func (k EntryKind) String() string {
	switch k {
	case EntryMetadata:
		return "metadata"
	case EntryMetadataError:
		return "metadata-error"
	case EntryIOError:
		return "io-error"
	case EntryError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrorKind is a coarse I/O error classification
type ErrorKind int

const (
	// ErrorKindUnknown is used for failures that carry no I/O cause
	ErrorKindUnknown ErrorKind = iota
	ErrorKindNotFound
	ErrorKindPermissionDenied
	ErrorKindNotDirectory
	ErrorKindLoop
	ErrorKindOther
)

// String returns a human readable description of the kind
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindNotFound:
		return "not found"
	case ErrorKindPermissionDenied:
		return "permission denied"
	case ErrorKindNotDirectory:
		return "not a directory"
	case ErrorKindLoop:
		return "too many levels of symbolic links"
	case ErrorKindOther:
		return "other"
	default:
		return "unknown"
	}
}

// Entry is the classified outcome for one node of a walk.
//
// Kind selects the active variant. FileType and Size are only meaningful for
// EntryMetadata, ErrKind only for EntryMetadataError and EntryIOError.
// Entries are never modified once created.
type Entry struct {
	Kind     EntryKind
	FileType FileType
	Size     int64
	ErrKind  ErrorKind
}

// NewMetadata creates an EntryMetadata entry
func NewMetadata(fileType FileType, size int64) Entry {
	return Entry{Kind: EntryMetadata, FileType: fileType, Size: size}
}

// NewMetadataError creates an EntryMetadataError entry
func NewMetadataError(kind ErrorKind) Entry {
	return Entry{Kind: EntryMetadataError, ErrKind: kind}
}

// NewIOError creates an EntryIOError entry
func NewIOError(kind ErrorKind) Entry {
	return Entry{Kind: EntryIOError, ErrKind: kind}
}

// NewEntryError creates an EntryError entry
func NewEntryError() Entry {
	return Entry{Kind: EntryError}
}

// IsDir returns true if this entry is a successfully read directory
func (e Entry) IsDir() bool {
	return e.Kind == EntryMetadata && e.FileType == FileTypeDirectory
}

// String renders the entry for logs and text reports
func (e Entry) String() string {
	switch e.Kind {
	case EntryMetadata:
		if e.FileType == FileTypeDirectory {
			return e.FileType.String()
		}
		return fmt.Sprintf("%s (%d bytes)", e.FileType, e.Size)
	case EntryMetadataError:
		return fmt.Sprintf("metadata error: %s", e.ErrKind)
	case EntryIOError:
		return fmt.Sprintf("io error: %s", e.ErrKind)
	case EntryError:
		return "entry error"
	default:
		return "unknown entry"
	}
}
