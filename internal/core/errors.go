package core

import (
	"errors"
	"fmt"
	"io/fs"
)

// Error kinds surfaced at the command boundary.
var (
	ErrInvalidName            = errors.New("invalid environment name")
	ErrDuplicateName          = errors.New("environment already exists")
	ErrNotFound               = errors.New("environment not found")
	ErrEntryNotFound          = errors.New("entry not found")
	ErrInvalidEntry           = errors.New("invalid host entry")
	ErrCorruptConfig          = errors.New("corrupt configuration")
	ErrMalformedManagedRegion = errors.New("malformed managed region")
	ErrIO                     = errors.New("i/o error")
	ErrPermissionDenied       = errors.New("permission denied")
)

// CorruptConfigError reports a configuration file that exists but cannot be
// trusted. The file is left in place for the user to inspect.
type CorruptConfigError struct {
	Path string
	Err  error
}

func (e *CorruptConfigError) Error() string {
	return fmt.Sprintf("corrupt configuration file %s: %v (inspect or remove it manually)", e.Path, e.Err)
}

func (e *CorruptConfigError) Unwrap() error { return e.Err }

func (e *CorruptConfigError) Is(target error) bool { return target == ErrCorruptConfig }

// IOError wraps a filesystem failure with the operation and path involved.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// NewIOError wraps err unless it is nil or already an *IOError.
func NewIOError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return err
	}
	return &IOError{Op: op, Path: path, Err: err}
}

func (e *IOError) Error() string {
	if e.PermissionDenied() {
		return fmt.Sprintf("permission denied: cannot %s %s (re-run with sudo or as administrator)", e.Op, e.Path)
	}
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool {
	switch target {
	case ErrIO:
		return true
	case ErrPermissionDenied:
		return e.PermissionDenied()
	}
	return false
}

// PermissionDenied reports whether the underlying cause is an access error.
func (e *IOError) PermissionDenied() bool {
	return errors.Is(e.Err, fs.ErrPermission)
}

// ManagedRegionError describes an unbalanced pair of sentinel lines.
type ManagedRegionError struct {
	Line   int
	Reason string
}

func (e *ManagedRegionError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed managed region at line %d: %s", e.Line, e.Reason)
	}
	return "malformed managed region: " + e.Reason
}

func (e *ManagedRegionError) Is(target error) bool { return target == ErrMalformedManagedRegion }
