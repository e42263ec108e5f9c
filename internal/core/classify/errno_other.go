//go:build !unix

package classify

import "github.com/Ning0612/Dirdiff/internal/domain"

func errnoKind(err error) (domain.ErrorKind, bool) {
	return domain.ErrorKindUnknown, false
}
