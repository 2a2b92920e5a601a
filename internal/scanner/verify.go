package scanner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
)

// filesIdentical compares two files with synchronized fixed-size chunked
// reads. It assumes equal sizes (guaranteed by the size bucket) but does
// not rely on it for correctness.
func filesIdentical(ctx context.Context, a, b string, chunkSize int) (bool, *ScanError) {
	fa, err := os.Open(a)
	if err != nil {
		return false, pathError(a, "compare", err)
	}
	defer fa.Close()

	fb, err := os.Open(b)
	if err != nil {
		return false, pathError(b, "compare", err)
	}
	defer fb.Close()

	bufA := make([]byte, chunkSize)
	bufB := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return false, &ScanError{Path: a, Op: "compare", Kind: ErrNotReadable, Err: err}
		}

		na, errA := io.ReadFull(fa, bufA)
		nb, errB := io.ReadFull(fb, bufB)
		if na != nb || !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}
		if errA == io.EOF && errB == io.EOF {
			return true, nil
		}
		if errA != nil && !atEOF(errA) {
			return false, pathError(a, "compare", errA)
		}
		if errB != nil && !atEOF(errB) {
			return false, pathError(b, "compare", errB)
		}
		// A short final chunk reads as ErrUnexpectedEOF on both sides;
		// the next iteration observes EOF/EOF and returns.
	}
}

func atEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// partitionByEquality splits files into byte-identical sub-groups of at
// least two members, preserving order. The first unprocessed member seeds
// each sub-group and every remaining member is compared against it, so a
// file that differs from one representative can still seed or join a later
// group; genuinely-equal subsets are never dropped. A comparison failure
// excludes only the affected candidate and is recorded via fail.
func partitionByEquality(ctx context.Context, files []FileInfo, chunkSize int, fail func(*ScanError)) [][]FileInfo {
	var groups [][]FileInfo
	processed := make([]bool, len(files))

	for i := range files {
		if processed[i] {
			continue
		}
		processed[i] = true
		group := []FileInfo{files[i]}

		for j := i + 1; j < len(files); j++ {
			if processed[j] {
				continue
			}
			same, serr := filesIdentical(ctx, files[i].Path, files[j].Path, chunkSize)
			if serr != nil {
				fail(serr)
				continue
			}
			if same {
				processed[j] = true
				group = append(group, files[j])
			}
		}

		if len(group) >= 2 {
			groups = append(groups, group)
		}
	}
	return groups
}
