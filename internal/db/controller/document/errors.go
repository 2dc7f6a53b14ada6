package document

import "errors"

var (
	// ErrNotFound is returned when no document exists at the path.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidPath is returned for paths that do not address a document.
	ErrInvalidPath = errors.New("invalid document path")
	// ErrReadOnly is returned when a client handle attempts a write.
	ErrReadOnly = errors.New("document handle is read-only")
	// ErrCredentials is returned when the admin handle could not be created.
	ErrCredentials = errors.New("admin credentials unavailable")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrNotObject is returned when a document body is not a JSON object.
	ErrNotObject = errors.New("document body must be a JSON object")
	// ErrWatchUnsupported is returned by Watch on backends without change listeners.
	ErrWatchUnsupported = errors.New("document backend has no change listener")
)
