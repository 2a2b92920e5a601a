package scanner

import (
	"context"
	"sync"

	"github.com/fenilsonani/dedup/internal/progress"
)

// hashFunc computes a file digest. Swappable in tests to simulate
// colliding digests.
type hashFunc func(ctx context.Context, path string, algo Algorithm, chunkSize int) (string, *ScanError)

// groupByDigest hashes every member of a size bucket on a bounded worker
// pool and groups members sharing a digest. Files within a bucket have no
// data dependency, so hashing runs concurrently; grouping afterwards walks
// the bucket in its original order so the result is independent of worker
// scheduling. Members whose digest fails are excluded and reported, never
// blocking the rest of the bucket.
func (s *Scanner) groupByDigest(ctx context.Context, bucket []FileInfo, fail func(*ScanError)) [][]FileInfo {
	digests := make([]string, len(bucket))
	failed := make([]*ScanError, len(bucket))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.cfg.workers())
	for i := range bucket {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			digests[i], failed[i] = s.hash(ctx, bucket[i].Path, s.cfg.Algorithm, s.cfg.chunkSize())
			s.track.update(func(p *progress.ScanProgress) {
				p.Hashed++
				p.CurrentPath = bucket[i].Path
			})
		}(i)
	}
	wg.Wait()

	// Aggregate in walk order, preserving first-seen digest order.
	var order []string
	byDigest := make(map[string][]FileInfo)
	for i, fi := range bucket {
		if failed[i] != nil {
			fail(failed[i])
			continue
		}
		fi.Digest = digests[i]
		if _, ok := byDigest[fi.Digest]; !ok {
			order = append(order, fi.Digest)
		}
		byDigest[fi.Digest] = append(byDigest[fi.Digest], fi)
	}

	var groups [][]FileInfo
	for _, d := range order {
		if files := byDigest[d]; len(files) >= 2 {
			groups = append(groups, files)
		}
	}
	return groups
}
