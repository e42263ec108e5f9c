//go:build unix

package classify

import (
	"errors"

	"golang.org/x/sys/unix"

	"github.com/Ning0612/Dirdiff/internal/domain"
)

func errnoKind(err error) (domain.ErrorKind, bool) {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return domain.ErrorKindUnknown, false
	}

	switch errno {
	case unix.ENOTDIR:
		return domain.ErrorKindNotDirectory, true
	case unix.ELOOP:
		return domain.ErrorKindLoop, true
	case unix.ENOENT:
		return domain.ErrorKindNotFound, true
	case unix.EACCES, unix.EPERM:
		return domain.ErrorKindPermissionDenied, true
	}
	return domain.ErrorKindOther, true
}
