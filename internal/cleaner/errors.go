package cleaner

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// ErrorReason categorizes why a deletion failed
type ErrorReason int

const (
	ErrorPermissionDenied ErrorReason = iota
	ErrorFileInUse
	ErrorFileNotFound
	ErrorNotRegular
	ErrorUnknown
)

// String returns a human-readable error reason
func (e ErrorReason) String() string {
	switch e {
	case ErrorPermissionDenied:
		return "permission denied"
	case ErrorFileInUse:
		return "file in use"
	case ErrorFileNotFound:
		return "already gone"
	case ErrorNotRegular:
		return "not a regular file"
	default:
		return "unknown error"
	}
}

// DeletionError represents a categorized per-file deletion failure
type DeletionError struct {
	Path      string
	Reason    ErrorReason
	Original  error
	Retryable bool
}

// Error implements the error interface
func (e *DeletionError) Error() string {
	return fmt.Sprintf("%s: %s (%v)", e.Path, e.Reason, e.Original)
}

// Unwrap returns the underlying error
func (e *DeletionError) Unwrap() error {
	return e.Original
}

// CategorizeError analyzes a deletion error and returns a DeletionError.
// File-in-use conditions are marked retryable; everything else is final.
func CategorizeError(path string, err error) *DeletionError {
	if err == nil {
		return nil
	}

	delErr := &DeletionError{
		Path:     path,
		Original: err,
		Reason:   ErrorUnknown,
	}

	if os.IsNotExist(err) {
		delErr.Reason = ErrorFileNotFound
		return delErr
	}
	if os.IsPermission(err) {
		delErr.Reason = ErrorPermissionDenied
		return delErr
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES, syscall.EPERM:
			delErr.Reason = ErrorPermissionDenied
		case syscall.EBUSY, syscall.ETXTBSY:
			delErr.Reason = ErrorFileInUse
			delErr.Retryable = true
		case syscall.ENOENT:
			delErr.Reason = ErrorFileNotFound
		}
	}
	return delErr
}

// GroupErrors groups deletion errors by reason
func GroupErrors(errs []*DeletionError) map[ErrorReason][]*DeletionError {
	grouped := make(map[ErrorReason][]*DeletionError)
	for _, err := range errs {
		grouped[err.Reason] = append(grouped[err.Reason], err)
	}
	return grouped
}

// FormatErrorSummary creates a user-friendly summary of deletion errors
func FormatErrorSummary(errs []*DeletionError) string {
	if len(errs) == 0 {
		return ""
	}

	grouped := GroupErrors(errs)
	summary := "\nIssues encountered:\n"

	if perms, ok := grouped[ErrorPermissionDenied]; ok {
		summary += fmt.Sprintf("  permission denied: %d file(s)\n", len(perms))
	}
	if busy, ok := grouped[ErrorFileInUse]; ok {
		summary += fmt.Sprintf("  file in use: %d file(s) (close the application and retry)\n", len(busy))
	}
	if gone, ok := grouped[ErrorFileNotFound]; ok {
		summary += fmt.Sprintf("  already gone: %d file(s)\n", len(gone))
	}
	if irregular, ok := grouped[ErrorNotRegular]; ok {
		summary += fmt.Sprintf("  no longer regular files: %d file(s)\n", len(irregular))
	}
	if unknown, ok := grouped[ErrorUnknown]; ok {
		summary += fmt.Sprintf("  other errors: %d file(s)\n", len(unknown))
	}

	return summary
}
