package trash

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by the trash subsystem
var (
	// ErrNotFound is returned when the input path does not exist
	ErrNotFound = errors.New("no such file or directory")

	// ErrUnsupportedVolume is returned when no usable trash directory
	// exists (and none can be created) on the volume holding a path
	ErrUnsupportedVolume = errors.New("no usable trash directory on volume")

	// ErrAllocation is returned when a collision-free entry name could not
	// be secured within the retry bound
	ErrAllocation = errors.New("failed to allocate trash entry")

	// ErrConflict is returned when a restore target already exists and the
	// conflict policy is abort
	ErrConflict = errors.New("restore target already exists")

	// ErrRestore is returned when the restore destination cannot be prepared
	ErrRestore = errors.New("cannot prepare restore destination")

	// ErrUnreadable is returned when an entry's metadata record is missing
	// required fields or cannot be decoded
	ErrUnreadable = errors.New("trash metadata is unreadable")
)

// OpError wraps an error with the failing operation and path
type OpError struct {
	// Op is the operation that failed (e.g., "put", "restore", "empty")
	Op string

	// Path is the path of the file that caused the error
	Path string

	// Err is the underlying error
	Err error
}

func (e *OpError) Error() string {
	if e.Path == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// NewOpError creates a new OpError
func NewOpError(op, path string, err error) error {
	return &OpError{Op: op, Path: path, Err: err}
}

// IsNotFound returns true if the error is ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict returns true if the error is ErrConflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsUnsupportedVolume returns true if the error is ErrUnsupportedVolume
func IsUnsupportedVolume(err error) bool {
	return errors.Is(err, ErrUnsupportedVolume)
}

// Failure records one entry that could not be processed during a batch
// operation.
type Failure struct {
	// Name is the trash entry name
	Name string

	// Path is the path involved, if known
	Path string

	// Err is the underlying error
	Err error
}

// PartialError aggregates per-entry failures from a batch operation that
// continued past them. Successes are reported separately by the caller.
type PartialError struct {
	Failures []Failure
}

func (e *PartialError) Error() string {
	var s strings.Builder
	fmt.Fprintf(&s, "%d entries failed:", len(e.Failures))
	for _, f := range e.Failures {
		fmt.Fprintf(&s, "\n  %s: %v", f.Name, f.Err)
	}
	return s.String()
}

// AsPartial returns the PartialError wrapped in err, if any
func AsPartial(err error) (*PartialError, bool) {
	var pe *PartialError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
