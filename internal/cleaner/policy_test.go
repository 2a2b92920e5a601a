package cleaner

import (
	"testing"

	"github.com/fenilsonani/dedup/internal/scanner"
)

func group(paths ...string) scanner.DuplicateGroup {
	g := scanner.DuplicateGroup{Size: 100}
	for _, p := range paths {
		g.Files = append(g.Files, scanner.FileInfo{Path: p, Size: 100})
	}
	return g
}

func TestPlanRemoval(t *testing.T) {
	tests := []struct {
		name     string
		group    scanner.DuplicateGroup
		wantKept string
	}{
		{
			name:     "shortest base name wins",
			group:    group("/data/report_backup.txt", "/data/report.txt", "/other/report_old.txt"),
			wantKept: "/data/report.txt",
		},
		{
			name:     "directory length is irrelevant",
			group:    group("/a/file.txt", "/very/long/nested/path/f.txt"),
			wantKept: "/very/long/nested/path/f.txt",
		},
		{
			name:     "equal lengths keep first encountered",
			group:    group("/one/copy.txt", "/two/copy.txt", "/three/copy.txt"),
			wantKept: "/one/copy.txt",
		},
		{
			name:     "later shorter name beats earlier longer",
			group:    group("/x/aaaa.txt", "/y/aa.txt", "/z/aaa.txt"),
			wantKept: "/y/aa.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanRemoval(tt.group)
			if plan.Kept.Path != tt.wantKept {
				t.Errorf("kept %s, want %s", plan.Kept.Path, tt.wantKept)
			}
			if len(plan.Removable) != len(tt.group.Files)-1 {
				t.Fatalf("removable count = %d, want %d", len(plan.Removable), len(tt.group.Files)-1)
			}
			for _, f := range plan.Removable {
				if f.Path == tt.wantKept {
					t.Errorf("kept file %s also listed as removable", f.Path)
				}
			}
		})
	}
}

func TestPlanRemovalPreservesOrder(t *testing.T) {
	plan := PlanRemoval(group("/b/longer_name.txt", "/a/x.txt", "/c/longer_two.txt"))
	if plan.Kept.Path != "/a/x.txt" {
		t.Fatalf("kept %s, want /a/x.txt", plan.Kept.Path)
	}
	if plan.Removable[0].Path != "/b/longer_name.txt" || plan.Removable[1].Path != "/c/longer_two.txt" {
		t.Errorf("removable order changed: %v", plan.Removable)
	}
}

func TestPlanRemovalDeterministic(t *testing.T) {
	g := group("/one/copy.txt", "/two/copy.txt")
	first := PlanRemoval(g)
	for i := 0; i < 5; i++ {
		if again := PlanRemoval(g); again.Kept.Path != first.Kept.Path {
			t.Fatalf("selection changed between runs: %s vs %s", again.Kept.Path, first.Kept.Path)
		}
	}
}

func TestReclaimableBytes(t *testing.T) {
	plan := PlanRemoval(group("/a/f.txt", "/b/file_copy.txt", "/c/file_copy2.txt"))
	if got := plan.ReclaimableBytes(); got != 200 {
		t.Errorf("ReclaimableBytes = %d, want 200", got)
	}
}

func TestPlanAll(t *testing.T) {
	groups := []scanner.DuplicateGroup{
		group("/a/one.txt", "/b/one_copy.txt"),
		group("/a/two.txt", "/b/two_copy.txt"),
	}
	plans := PlanAll(groups)
	if len(plans) != 2 {
		t.Fatalf("got %d plans, want 2", len(plans))
	}
	if plans[0].Kept.Path != "/a/one.txt" || plans[1].Kept.Path != "/a/two.txt" {
		t.Errorf("plan order does not follow group order: %+v", plans)
	}
}
