package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fenilsonani/dedup/internal/testutil"
)

func collectWalk(t *testing.T, cfg Config, roots ...string) ([]FileInfo, []*ScanError) {
	t.Helper()

	var files []FileInfo
	var errs []*ScanError
	w := NewWalker(cfg)
	err := w.Walk(context.Background(), roots,
		func(fi FileInfo) { files = append(files, fi) },
		func(e *ScanError) { errs = append(errs, e) })
	if err != nil {
		t.Fatalf("Walk returned fatal error: %v", err)
	}
	return files, errs
}

func walkPaths(files []FileInfo) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}

func TestWalkRecursive(t *testing.T) {
	f := testutil.NewFixture(t)
	f.WriteFile("b.txt", []byte("b"))
	f.WriteFile("a/nested.txt", []byte("nested"))
	f.WriteFile("a/deep/leaf.txt", []byte("leaf"))

	files, errs := collectWalk(t, DefaultConfig(), f.Root)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	want := []string{
		f.Path("b.txt"),
		f.Path("a/nested.txt"),
		f.Path("a/deep/leaf.txt"),
	}
	got := walkPaths(files)
	if len(got) != len(want) {
		t.Fatalf("got %d files, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("file %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestWalkNonRecursive(t *testing.T) {
	f := testutil.NewFixture(t)
	f.WriteFile("top.txt", []byte("top"))
	f.WriteFile("sub/nested.txt", []byte("nested"))

	cfg := DefaultConfig()
	cfg.Recursive = false

	files, _ := collectWalk(t, cfg, f.Root)
	if len(files) != 1 || files[0].Path != f.Path("top.txt") {
		t.Fatalf("non-recursive walk got %v, want only top.txt", walkPaths(files))
	}
}

func TestWalkFileRootIncludedDirectly(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.WriteFile("standalone.txt", []byte("content"))

	files, _ := collectWalk(t, DefaultConfig(), path)
	if len(files) != 1 || files[0].Path != path {
		t.Fatalf("file root not included: %v", walkPaths(files))
	}
}

func TestWalkSizeBoundsInclusive(t *testing.T) {
	f := testutil.NewFixture(t)
	f.WriteFile("below.bin", make([]byte, 9))
	f.WriteFile("atmin.bin", make([]byte, 10))
	f.WriteFile("atmax.bin", make([]byte, 20))
	f.WriteFile("above.bin", make([]byte, 21))

	cfg := DefaultConfig()
	cfg.MinSize = 10
	cfg.MaxSize = 20

	files, _ := collectWalk(t, cfg, f.Root)
	got := map[string]bool{}
	for _, fi := range files {
		got[filepath.Base(fi.Path)] = true
	}

	for _, name := range []string{"atmin.bin", "atmax.bin"} {
		if !got[name] {
			t.Errorf("%s excluded but within inclusive bounds", name)
		}
	}
	for _, name := range []string{"below.bin", "above.bin"} {
		if got[name] {
			t.Errorf("%s included but outside bounds", name)
		}
	}
}

func TestWalkZeroMaxSizeMeansUnlimited(t *testing.T) {
	f := testutil.NewFixture(t)
	f.WriteRandom("big.bin", 128*1024, 1)

	files, _ := collectWalk(t, DefaultConfig(), f.Root)
	if len(files) != 1 {
		t.Fatalf("large file excluded with no max bound: %v", walkPaths(files))
	}
}

func TestWalkSymlinksSkippedByDefault(t *testing.T) {
	f := testutil.NewFixture(t)
	target := f.WriteFile("real.txt", []byte("real"))
	f.Symlink(target, "link.txt")

	files, _ := collectWalk(t, DefaultConfig(), f.Root)
	if len(files) != 1 || files[0].Path != target {
		t.Fatalf("symlink not skipped: %v", walkPaths(files))
	}
}

func TestWalkFollowSymlinks(t *testing.T) {
	f := testutil.NewFixture(t)
	f.WriteFile("dir/inside.txt", []byte("inside"))
	f.Symlink(f.Path("dir"), "dirlink")

	cfg := DefaultConfig()
	cfg.FollowSymlinks = true

	files, errs := collectWalk(t, cfg, f.Root)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	// inside.txt is reachable via dir and dirlink, but each directory is
	// visited only once.
	if len(files) != 1 {
		t.Fatalf("expected exactly one visit to inside.txt, got %v", walkPaths(files))
	}
}

func TestWalkSymlinkCycleTerminates(t *testing.T) {
	f := testutil.NewFixture(t)
	f.WriteFile("dirA/fileA.txt", []byte("A"))
	f.WriteFile("dirB/fileB.txt", []byte("B"))
	f.Symlink(f.Path("dirB"), "dirA/link")
	f.Symlink(f.Path("dirA"), "dirB/link")

	cfg := DefaultConfig()
	cfg.FollowSymlinks = true

	files, _ := collectWalk(t, cfg, f.Root)
	if len(files) != 2 {
		t.Fatalf("cycle walk visited %d files, want 2: %v", len(files), walkPaths(files))
	}
}

func TestWalkOverlappingRootsYieldOnce(t *testing.T) {
	f := testutil.NewFixture(t)
	f.WriteFile("sub/file.txt", []byte("x"))

	files, _ := collectWalk(t, DefaultConfig(), f.Root, f.Path("sub"), f.Root)
	if len(files) != 1 {
		t.Fatalf("overlapping roots yielded %d entries, want 1: %v", len(files), walkPaths(files))
	}
}

func TestWalkMissingRootReportsVanished(t *testing.T) {
	f := testutil.NewFixture(t)
	f.WriteFile("present.txt", []byte("x"))

	files, errs := collectWalk(t, DefaultConfig(), f.Path("nope"), f.Root)
	if len(files) != 1 {
		t.Fatalf("good root not walked after bad root: %v", walkPaths(files))
	}
	if len(errs) != 1 || errs[0].Kind != ErrVanished {
		t.Fatalf("expected one Vanished error, got %v", errs)
	}
}

func TestWalkUnreadableDirContinues(t *testing.T) {
	testutil.RequireNotRoot(t)

	f := testutil.NewFixture(t)
	f.WriteFile("ok/file.txt", []byte("x"))
	locked := f.Mkdir("locked")
	f.WriteFile("locked/hidden.txt", []byte("y"))
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	files, errs := collectWalk(t, DefaultConfig(), f.Root)
	if len(files) != 1 || files[0].Path != f.Path("ok/file.txt") {
		t.Fatalf("walk did not continue past unreadable dir: %v", walkPaths(files))
	}
	if len(errs) != 1 || errs[0].Kind != ErrNotReadable {
		t.Fatalf("expected one NotReadable error, got %v", errs)
	}
}

func TestWalkCancellation(t *testing.T) {
	f := testutil.NewFixture(t)
	for i := 0; i < 10; i++ {
		f.WriteFile(filepath.Join("d", string(rune('a'+i))+".txt"), []byte("x"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWalker(DefaultConfig())
	err := w.Walk(ctx, []string{f.Root}, func(FileInfo) {}, func(*ScanError) {})
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
