package scanner

import (
	"fmt"
	"runtime"
)

// Config holds the options for one scan. It is passed by value into the
// pipeline stages and never mutated after Validate.
type Config struct {
	Recursive      bool
	FollowSymlinks bool
	MinSize        int64 // inclusive lower bound in bytes
	MaxSize        int64 // inclusive upper bound in bytes; 0 means unlimited
	Algorithm      Algorithm
	AllBytes       bool // group by byte comparison alone, skipping hashing
	ChunkSize      int  // read size for hashing and comparison; 0 means DefaultChunkSize
	Workers        int  // hashing concurrency; 0 means DefaultWorkers()
}

// DefaultConfig returns a Config with the standard defaults: recursive,
// symlinks not followed, no size bounds, SHA-256.
func DefaultConfig() Config {
	return Config{
		Recursive: true,
		Algorithm: SHA256,
	}
}

// Validate checks the configuration before a scan begins. An invalid
// Config is the one fatal condition besides an empty root list.
func (c Config) Validate() error {
	if c.MinSize < 0 {
		return fmt.Errorf("min size must be >= 0, got %d", c.MinSize)
	}
	if c.MaxSize < 0 {
		return fmt.Errorf("max size must be >= 0, got %d", c.MaxSize)
	}
	if c.MaxSize > 0 && c.MinSize > c.MaxSize {
		return fmt.Errorf("min size %d exceeds max size %d", c.MinSize, c.MaxSize)
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("chunk size must be >= 0, got %d", c.ChunkSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if _, err := ParseAlgorithm(string(c.Algorithm)); err != nil {
		return err
	}
	return nil
}

// chunkSize returns the effective read size.
func (c Config) chunkSize() int {
	if c.ChunkSize > 0 {
		return c.ChunkSize
	}
	return DefaultChunkSize
}

// workers returns the effective hashing concurrency.
func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return DefaultWorkers()
}

// includeSize reports whether a file size falls within the inclusive bounds.
func (c Config) includeSize(size int64) bool {
	if size < c.MinSize {
		return false
	}
	if c.MaxSize > 0 && size > c.MaxSize {
		return false
	}
	return true
}

// DefaultWorkers sizes the hashing pool to available I/O concurrency:
// one worker per CPU, clamped to [4, 16].
func DefaultWorkers() int {
	n := runtime.NumCPU()
	if n < 4 {
		n = 4
	}
	if n > 16 {
		n = 16
	}
	return n
}
