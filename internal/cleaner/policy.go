package cleaner

import (
	"path/filepath"

	"github.com/fenilsonani/dedup/internal/scanner"
)

// RemovalPlan partitions a verified duplicate group into the single kept
// copy and the removable remainder. Computed once per group and immutable
// thereafter.
type RemovalPlan struct {
	Kept      scanner.FileInfo
	Removable []scanner.FileInfo
}

// ReclaimableBytes returns the bytes freed by executing the plan.
func (p RemovalPlan) ReclaimableBytes() int64 {
	var n int64
	for _, f := range p.Removable {
		n += f.Size
	}
	return n
}

// PlanRemoval designates the kept member of a duplicate group: the file
// with the shortest base name wins, and on equal lengths the member
// encountered first during the walk. A pure function of the group's
// ordered member list, so repeated runs select identically.
func PlanRemoval(group scanner.DuplicateGroup) RemovalPlan {
	keep := 0
	for i := 1; i < len(group.Files); i++ {
		if len(filepath.Base(group.Files[i].Path)) < len(filepath.Base(group.Files[keep].Path)) {
			keep = i
		}
	}

	plan := RemovalPlan{Kept: group.Files[keep]}
	for i, f := range group.Files {
		if i != keep {
			plan.Removable = append(plan.Removable, f)
		}
	}
	return plan
}

// PlanAll computes removal plans for every group, in group order.
func PlanAll(groups []scanner.DuplicateGroup) []RemovalPlan {
	plans := make([]RemovalPlan, 0, len(groups))
	for _, g := range groups {
		plans = append(plans, PlanRemoval(g))
	}
	return plans
}
