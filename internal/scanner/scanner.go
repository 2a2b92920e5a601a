// Package scanner implements the duplicate-detection engine: a funnel of
// strictly cheaper-to-stricter filters. Files are enumerated, partitioned
// by exact size, narrowed by content digest, and finally verified
// byte-for-byte, so the resulting groups are free of hash-collision false
// positives.
package scanner

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/fenilsonani/dedup/internal/progress"
)

// Scanner coordinates one scan over a set of root paths.
type Scanner struct {
	cfg   Config
	hash  hashFunc
	track *tracker
}

// New creates a Scanner. The configuration is validated up front; an
// invalid Config is fatal before the walk begins.
func New(cfg Config) (*Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scanner{cfg: cfg, hash: hashFile, track: &tracker{}}, nil
}

// SetReporter attaches a progress reporter. Must be called before Scan.
func (s *Scanner) SetReporter(r *progress.Reporter) {
	s.track.r = r
}

// Scan runs the full pipeline over roots and returns the verified
// duplicate groups in walk-encounter order, together with all non-fatal
// per-file errors and summary statistics. Only an empty root list or a
// cancelled context abort the scan.
func (s *Scanner) Scan(ctx context.Context, roots []string) (*Result, error) {
	if len(roots) == 0 {
		return nil, errors.New("no root paths to scan")
	}

	s.track.start()
	defer s.track.finish()

	result := &Result{}
	fail := func(e *ScanError) {
		result.Errors = append(result.Errors, e)
		s.track.update(func(p *progress.ScanProgress) { p.Errors++ })
	}

	// Phase 1: enumerate and bucket by size.
	buckets := newSizeBuckets()
	walker := NewWalker(s.cfg)
	err := walker.Walk(ctx, roots, func(fi FileInfo) {
		buckets.Add(fi)
		s.track.update(func(p *progress.ScanProgress) {
			p.FilesSeen++
			p.BytesSeen += fi.Size
			p.CurrentPath = fi.Path
		})
	}, fail)
	if err != nil {
		return nil, err
	}

	candidates := buckets.Candidates()
	nCandidates := 0
	for _, b := range candidates {
		nCandidates += len(b)
	}
	// All-bytes mode has no hashing stage to report.
	groupPhase := progress.PhaseHashing
	if s.cfg.AllBytes {
		groupPhase = progress.PhaseVerifying
	}
	s.track.update(func(p *progress.ScanProgress) {
		p.Phase = groupPhase
		p.Candidates = nCandidates
	})

	// Phases 2 and 3: digest grouping, then byte-exact verification.
	for _, bucket := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var hashGroups [][]FileInfo
		if s.cfg.AllBytes {
			// Byte-comparison mode partitions the bucket directly.
			hashGroups = [][]FileInfo{bucket}
		} else {
			hashGroups = s.groupByDigest(ctx, bucket, fail)
		}

		s.track.update(func(p *progress.ScanProgress) { p.Phase = progress.PhaseVerifying })
		for _, g := range hashGroups {
			for _, verified := range partitionByEquality(ctx, g, s.cfg.chunkSize(), fail) {
				result.Groups = append(result.Groups, DuplicateGroup{
					Size:  verified[0].Size,
					Files: verified,
				})
				s.track.update(func(p *progress.ScanProgress) { p.Groups++ })
			}
		}
		s.track.update(func(p *progress.ScanProgress) { p.Phase = groupPhase })
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Report order is derived from the walk sequence, never from worker
	// completion order.
	sort.SliceStable(result.Groups, func(i, j int) bool {
		return result.Groups[i].Files[0].seq < result.Groups[j].Files[0].seq
	})

	for _, g := range result.Groups {
		result.Summary.GroupCount++
		result.Summary.DuplicateCount += len(g.Files) - 1
		result.Summary.ReclaimableBytes += g.Wasted()
	}
	return result, nil
}

// tracker accumulates a progress snapshot under a lock and forwards it to
// an optional reporter. Workers call update concurrently.
type tracker struct {
	mu sync.Mutex
	p  progress.ScanProgress
	r  *progress.Reporter
}

func (t *tracker) start() {
	t.mu.Lock()
	t.p = progress.ScanProgress{Phase: progress.PhaseWalking, StartTime: time.Now()}
	t.mu.Unlock()
	t.publish()
}

func (t *tracker) finish() {
	t.update(func(p *progress.ScanProgress) { p.Phase = progress.PhaseComplete })
}

func (t *tracker) update(fn func(*progress.ScanProgress)) {
	t.mu.Lock()
	fn(&t.p)
	t.mu.Unlock()
	t.publish()
}

func (t *tracker) publish() {
	if t.r == nil {
		return
	}
	t.mu.Lock()
	snap := t.p
	t.mu.Unlock()
	t.r.Update(snap)
}
