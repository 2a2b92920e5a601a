// Package progress provides thread-safe progress reporting for the scan
// pipeline. Stages publish updates; listeners (the TUI, plain-text output)
// subscribe without blocking the pipeline.
package progress

import (
	"sync"
	"time"
)

// Phase represents the current phase of a scan
type Phase string

const (
	PhaseWalking   Phase = "walking"
	PhaseHashing   Phase = "hashing"
	PhaseVerifying Phase = "verifying"
	PhaseComplete  Phase = "complete"
)

// ScanProgress represents a snapshot of scan progress
type ScanProgress struct {
	Phase       Phase
	CurrentPath string
	FilesSeen   int   // files yielded by the walker
	BytesSeen   int64 // total size of files seen
	Candidates  int   // files in multi-member size buckets
	Hashed      int   // candidate files hashed so far
	Groups      int   // verified duplicate groups so far
	Errors      int   // per-file errors so far
	StartTime   time.Time
}

// Reporter provides thread-safe progress reporting
type Reporter struct {
	mu        sync.Mutex
	latest    ScanProgress
	listeners []chan ScanProgress
}

// NewReporter creates a new progress reporter
func NewReporter() *Reporter {
	return &Reporter{}
}

// Subscribe returns a channel that receives progress updates. The channel
// is closed when the reporter is closed.
func (r *Reporter) Subscribe() <-chan ScanProgress {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan ScanProgress, 16)
	r.listeners = append(r.listeners, ch)
	return ch
}

// Update publishes a progress snapshot to all listeners. Slow listeners
// miss intermediate updates rather than blocking the pipeline. The
// complete-phase snapshot is never dropped: listeners gate their exit on
// it, and a missed final update would strand them.
func (r *Reporter) Update(p ScanProgress) {
	r.mu.Lock()
	r.latest = p
	listeners := make([]chan ScanProgress, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, ch := range listeners {
		if p.Phase == PhaseComplete {
			sendEvicting(ch, p)
			continue
		}
		select {
		case ch <- p:
		default:
		}
	}
}

// sendEvicting delivers a snapshot to a full listener by discarding its
// oldest buffered updates until the send succeeds.
func sendEvicting(ch chan ScanProgress, p ScanProgress) {
	for {
		select {
		case ch <- p:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Latest returns the most recent progress snapshot
func (r *Reporter) Latest() ScanProgress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest
}

// Close closes all listener channels
func (r *Reporter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.listeners {
		close(ch)
	}
	r.listeners = nil
}
