package scanner

import (
	"fmt"
	"os"
	"time"
)

// FileInfo represents a file found during the walk. It is immutable once
// created; Digest is populated during candidate grouping.
type FileInfo struct {
	Path    string    `json:"path" yaml:"path"`
	Size    int64     `json:"size" yaml:"size"`
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
	Digest  string    `json:"digest,omitempty" yaml:"digest,omitempty"`

	// seq is the walk encounter index, used for deterministic ordering
	// and tie-breaking.
	seq int
}

// DuplicateGroup is a set of files verified byte-identical. All members
// share the same size and digest; member order is walk encounter order.
type DuplicateGroup struct {
	Size  int64      `json:"size" yaml:"size"`
	Files []FileInfo `json:"files" yaml:"files"`
}

// Wasted returns the bytes reclaimable by keeping one member of the group.
func (g DuplicateGroup) Wasted() int64 {
	return int64(len(g.Files)-1) * g.Size
}

// Summary aggregates the outcome of a scan.
type Summary struct {
	GroupCount       int   `json:"group_count" yaml:"group_count"`
	DuplicateCount   int   `json:"duplicate_count" yaml:"duplicate_count"`
	ReclaimableBytes int64 `json:"reclaimable_bytes" yaml:"reclaimable_bytes"`
}

// Result is the output of one scan: duplicate groups in walk order, the
// per-file failures encountered along the way, and summary statistics.
type Result struct {
	Groups  []DuplicateGroup `json:"groups" yaml:"groups"`
	Errors  []*ScanError     `json:"errors,omitempty" yaml:"errors,omitempty"`
	Summary Summary          `json:"summary" yaml:"summary"`
}

// ErrorKind classifies a per-file scan failure.
type ErrorKind int

const (
	ErrNotReadable ErrorKind = iota
	ErrVanished
	ErrHashFailure
	ErrDeleteFailure
)

// String returns a human-readable error kind
func (k ErrorKind) String() string {
	switch k {
	case ErrNotReadable:
		return "not readable"
	case ErrVanished:
		return "vanished"
	case ErrHashFailure:
		return "hash failure"
	case ErrDeleteFailure:
		return "delete failure"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so kinds render as names
// in JSON and YAML reports.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ScanError records a non-fatal per-file failure. The scan always continues
// past these; they are reported alongside the duplicate groups so partial
// failures are never silently absorbed.
type ScanError struct {
	Path string    `json:"path" yaml:"path"`
	Op   string    `json:"op" yaml:"op"` // walk, stat, hash, compare, remove
	Kind ErrorKind `json:"kind" yaml:"kind"`
	Err  error     `json:"-" yaml:"-"`
}

// Error implements the error interface
func (e *ScanError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
}

// Unwrap returns the underlying error
func (e *ScanError) Unwrap() error {
	return e.Err
}

// pathError classifies an I/O failure on path: a file that disappeared
// between enumeration and use is Vanished, anything else NotReadable.
func pathError(path, op string, err error) *ScanError {
	kind := ErrNotReadable
	if os.IsNotExist(err) {
		kind = ErrVanished
	}
	return &ScanError{Path: path, Op: op, Kind: kind, Err: err}
}
