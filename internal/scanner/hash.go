package scanner

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// Algorithm identifies a supported digest function.
type Algorithm string

const (
	MD5    Algorithm = "md5"
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
	SHA512 Algorithm = "sha512"
)

// DefaultChunkSize is the read size for hashing and byte comparison.
// Peak memory per worker stays at one chunk regardless of file size.
const DefaultChunkSize = 64 * 1024

// Algorithms lists the supported algorithm names.
func Algorithms() []string {
	return []string{string(MD5), string(SHA1), string(SHA256), string(SHA512)}
}

// ParseAlgorithm validates an algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(name))); a {
	case MD5, SHA1, SHA256, SHA512:
		return a, nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm %q (supported: %s)",
			name, strings.Join(Algorithms(), ", "))
	}
}

// digest returns a fresh accumulator for the algorithm.
func (a Algorithm) digest() hash.Hash {
	switch a {
	case MD5:
		return md5.New()
	case SHA1:
		return sha1.New()
	case SHA512:
		return sha512.New()
	default:
		return sha256.New()
	}
}

// hashFile computes the hex digest of path, streaming fixed-size chunks
// through the accumulator. It is cancellable between chunks; a read failure
// mid-stream is a per-file HashFailure, never a process abort.
func hashFile(ctx context.Context, path string, algo Algorithm, chunkSize int) (string, *ScanError) {
	f, err := os.Open(path)
	if err != nil {
		return "", pathError(path, "hash", err)
	}
	defer f.Close()

	h := algo.digest()
	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return "", &ScanError{Path: path, Op: "hash", Kind: ErrHashFailure, Err: err}
		}

		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &ScanError{Path: path, Op: "hash", Kind: ErrHashFailure, Err: err}
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
