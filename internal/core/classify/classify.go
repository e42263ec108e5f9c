package classify

import (
	"errors"
	"io/fs"
	"os"
	"syscall"

	"github.com/Ning0612/Dirdiff/internal/domain"
)

// Classify turns one traversal item into exactly one Entry variant.
// It never fails: every failure state has a variant.
func Classify(item domain.WalkItem) domain.Entry {
	if item.Err != nil {
		if kind, ok := KindOf(item.Err); ok {
			return domain.NewIOError(kind)
		}
		return domain.NewEntryError()
	}

	if item.MetadataErr != nil {
		kind, _ := KindOf(item.MetadataErr)
		return domain.NewMetadataError(kind)
	}

	if item.Info == nil {
		return domain.NewEntryError()
	}

	return domain.NewMetadata(domain.FileTypeFromMode(item.Info.Mode()), item.Info.Size())
}

// KindOf classifies err and reports whether it had an I/O cause at all.
// Errors without one map to ErrorKindUnknown and false.
func KindOf(err error) (domain.ErrorKind, bool) {
	if err == nil {
		return domain.ErrorKindUnknown, false
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return domain.ErrorKindNotFound, true
	case errors.Is(err, fs.ErrPermission):
		return domain.ErrorKindPermissionDenied, true
	}

	if kind, ok := errnoKind(err); ok {
		return kind, true
	}

	if isIOError(err) {
		return domain.ErrorKindOther, true
	}

	return domain.ErrorKindUnknown, false
}

// isIOError reports whether err originates from a filesystem call
func isIOError(err error) bool {
	var pathErr *fs.PathError
	var linkErr *os.LinkError
	var syscallErr *os.SyscallError
	var errno syscall.Errno

	return errors.As(err, &pathErr) ||
		errors.As(err, &linkErr) ||
		errors.As(err, &syscallErr) ||
		errors.As(err, &errno)
}
