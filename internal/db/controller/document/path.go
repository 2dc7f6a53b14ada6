package document

import (
	"strings"

	"github.com/pkg/errors"
)

// ValidatePath checks that p addresses a document: an even number of
// non-empty slash separated segments (collection/doc[/collection/doc...]).
func ValidatePath(p string) error {
	if p == "" {
		return errors.Wrap(ErrInvalidPath, "empty path")
	}

	segments := strings.Split(p, "/")

	if len(segments)%2 != 0 {
		return errors.Wrapf(ErrInvalidPath, "%q points at a collection", p)
	}

	for _, s := range segments {
		if s == "" {
			return errors.Wrapf(ErrInvalidPath, "%q has an empty segment", p)
		}
	}

	return nil
}

// Collection returns the parent collection path of a document path.
func Collection(p string) string {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return ""
	}

	return p[:i]
}
