package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
)

// Walker enumerates candidate files under a set of root paths in a
// deterministic encounter order: roots in argument order, directory
// entries in lexical order. Traversal is iterative with an explicit
// work stack, so deep trees cannot exhaust the call stack and a context
// cancellation takes effect between entries.
type Walker struct {
	cfg Config

	seq  int
	seen map[string]bool // absolute paths already yielded
	// canonical paths of visited directories, tracked while following
	// symlinks so cycles terminate
	visited map[string]bool
}

// NewWalker creates a Walker for the given configuration.
func NewWalker(cfg Config) *Walker {
	return &Walker{
		cfg:     cfg,
		seen:    make(map[string]bool),
		visited: make(map[string]bool),
	}
}

// Walk visits every regular file under roots whose size falls within the
// configured inclusive bounds. yield receives files in encounter order;
// fail receives non-fatal per-path errors. The walk continues past
// unreadable entries and stops early only when ctx is cancelled.
func (w *Walker) Walk(ctx context.Context, roots []string, yield func(FileInfo), fail func(*ScanError)) error {
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return err
		}

		abs, err := filepath.Abs(root)
		if err != nil {
			fail(pathError(root, "walk", err))
			continue
		}

		info, err := os.Lstat(abs)
		if err != nil {
			fail(pathError(abs, "walk", err))
			continue
		}

		if info.Mode()&os.ModeSymlink != 0 {
			if !w.cfg.FollowSymlinks {
				continue
			}
			if info, err = os.Stat(abs); err != nil {
				fail(pathError(abs, "walk", err))
				continue
			}
		}

		switch {
		case info.Mode().IsRegular():
			// File roots are always included directly.
			w.emit(abs, info, yield)
		case info.IsDir():
			if !w.markVisited(abs, fail) {
				continue
			}
			if err := w.walkDir(ctx, abs, yield, fail); err != nil {
				return err
			}
		}
	}
	return nil
}

// walkDir traverses one directory root with an explicit stack of pending
// directories. Subdirectories are pushed in reverse so they are visited
// in lexical order.
func (w *Walker) walkDir(ctx context.Context, root string, yield func(FileInfo), fail func(*ScanError)) error {
	stack := []string{root}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			fail(pathError(dir, "walk", err))
			continue
		}

		var subdirs []string
		for _, ent := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}

			path := filepath.Join(dir, ent.Name())

			if ent.Type()&fs.ModeSymlink != 0 {
				if !w.cfg.FollowSymlinks {
					continue
				}
				target, err := os.Stat(path)
				if err != nil {
					fail(pathError(path, "walk", err))
					continue
				}
				switch {
				case target.IsDir():
					if w.cfg.Recursive && w.markVisited(path, fail) {
						subdirs = append(subdirs, path)
					}
				case target.Mode().IsRegular():
					w.emit(path, target, yield)
				}
				continue
			}

			if ent.IsDir() {
				if w.cfg.Recursive && w.markVisited(path, fail) {
					subdirs = append(subdirs, path)
				}
				continue
			}

			if !ent.Type().IsRegular() {
				continue
			}

			info, err := ent.Info()
			if err != nil {
				fail(pathError(path, "stat", err))
				continue
			}
			w.emit(path, info, yield)
		}

		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}
	return nil
}

// emit yields a file once, applying the size filter. Overlapping roots or
// symlink aliases must not produce the same path twice: a path paired with
// itself would look like a removable duplicate.
func (w *Walker) emit(path string, info os.FileInfo, yield func(FileInfo)) {
	if w.seen[path] || !w.cfg.includeSize(info.Size()) {
		return
	}
	w.seen[path] = true

	yield(FileInfo{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		seq:     w.seq,
	})
	w.seq++
}

// markVisited records a directory's canonical path and reports whether it
// is new. Without symlink following the tree is acyclic, so the check is
// skipped.
func (w *Walker) markVisited(dir string, fail func(*ScanError)) bool {
	if !w.cfg.FollowSymlinks {
		return true
	}

	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		fail(pathError(dir, "walk", err))
		return false
	}
	if w.visited[canonical] {
		return false
	}
	w.visited[canonical] = true
	return true
}
