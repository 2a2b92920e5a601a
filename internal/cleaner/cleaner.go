// Package cleaner applies removal plans to the filesystem: one kept copy
// per duplicate group, everything else deleted (or merely reported, in
// dry-run mode). Deletion attempts are independent; one failure never
// blocks siblings or aborts the run.
package cleaner

import (
	"context"
	"os"
	"time"
)

// Result represents the outcome of a purge operation
type Result struct {
	Removed      []string
	RemovedBytes int64
	WouldRemove  []string // populated in dry-run mode
	Errors       []*DeletionError
	DryRun       bool
}

// Cleaner deletes removable duplicates with per-file error capture
type Cleaner struct {
	dryRun      bool
	maxRetries  int
	retryDelays []time.Duration
}

// New creates a Cleaner. With dryRun set, Purge records intended deletions
// without touching the filesystem.
func New(dryRun bool) *Cleaner {
	return &Cleaner{
		dryRun:     dryRun,
		maxRetries: 3,
		retryDelays: []time.Duration{
			100 * time.Millisecond,
			500 * time.Millisecond,
			2 * time.Second,
		},
	}
}

// Purge executes the removal plans. The kept file of each plan is never
// touched. Each removable is deleted independently: failures are
// categorized and recorded, and the run continues with the remaining
// files. Cancellation stops before the next deletion, never mid-file.
func (c *Cleaner) Purge(ctx context.Context, plans []RemovalPlan) (*Result, error) {
	result := &Result{DryRun: c.dryRun}

	for _, plan := range plans {
		for _, file := range plan.Removable {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			if c.dryRun {
				result.WouldRemove = append(result.WouldRemove, file.Path)
				continue
			}

			if delErr := c.removeWithRetry(file.Path); delErr != nil {
				result.Errors = append(result.Errors, delErr)
				continue
			}
			result.Removed = append(result.Removed, file.Path)
			result.RemovedBytes += file.Size
		}
	}

	return result, nil
}

// removeWithRetry deletes one file, retrying transient file-in-use
// failures with backoff.
func (c *Cleaner) removeWithRetry(path string) *DeletionError {
	var lastErr *DeletionError

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		lastErr = c.remove(path)
		if lastErr == nil || !lastErr.Retryable {
			return lastErr
		}
		if attempt < c.maxRetries-1 {
			time.Sleep(c.retryDelays[attempt])
		}
	}
	return lastErr
}

// remove deletes a single file. Only regular files are removed: if the
// path changed to a symlink or directory since the scan, it is left alone.
func (c *Cleaner) remove(path string) *DeletionError {
	info, err := os.Lstat(path)
	if err != nil {
		return CategorizeError(path, err)
	}
	if !info.Mode().IsRegular() {
		return &DeletionError{
			Path:     path,
			Reason:   ErrorNotRegular,
			Original: os.ErrInvalid,
		}
	}

	if err := os.Remove(path); err != nil {
		return CategorizeError(path, err)
	}
	return nil
}
