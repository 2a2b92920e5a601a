package reporter

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/dedup/internal/cleaner"
	"github.com/fenilsonani/dedup/internal/scanner"
)

func sampleResult() (*scanner.Result, []cleaner.RemovalPlan) {
	group := scanner.DuplicateGroup{
		Size: 100,
		Files: []scanner.FileInfo{
			{Path: "/data/report_backup.txt", Size: 100, Digest: "abc123"},
			{Path: "/data/report.txt", Size: 100, Digest: "abc123"},
		},
	}
	result := &scanner.Result{
		Groups: []scanner.DuplicateGroup{group},
		Summary: scanner.Summary{
			GroupCount:       1,
			DuplicateCount:   1,
			ReclaimableBytes: 100,
		},
	}
	return result, cleaner.PlanAll(result.Groups)
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"groups", "summary", "json", "yaml"} {
		if _, err := ParseFormat(name); err != nil {
			t.Errorf("ParseFormat(%q): %v", name, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat accepted unsupported format")
	}
}

func TestReportGroups(t *testing.T) {
	result, plans := sampleResult()

	var buf bytes.Buffer
	if err := New(&buf, FormatGroups).Report(result, plans); err != nil {
		t.Fatalf("Report: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "/data/report.txt [KEEP]") {
		t.Errorf("kept file not marked:\n%s", out)
	}
	if !strings.Contains(out, "/data/report_backup.txt [DUPLICATE]") {
		t.Errorf("duplicate not marked:\n%s", out)
	}
	if !strings.Contains(out, "100 B") {
		t.Errorf("wasted size missing:\n%s", out)
	}
}

func TestReportGroupsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, FormatGroups).Report(&scanner.Result{}, nil); err != nil {
		t.Fatalf("Report: %v", err)
	}
	if !strings.Contains(buf.String(), "No duplicate files found") {
		t.Errorf("empty result message missing:\n%s", buf.String())
	}
}

func TestReportGroupsListsSkippedPaths(t *testing.T) {
	result, plans := sampleResult()
	result.Errors = append(result.Errors, &scanner.ScanError{
		Path: "/locked/dir",
		Op:   "walk",
		Kind: scanner.ErrNotReadable,
	})

	var buf bytes.Buffer
	if err := New(&buf, FormatGroups).Report(result, plans); err != nil {
		t.Fatalf("Report: %v", err)
	}
	if !strings.Contains(buf.String(), "Skipped 1 path(s)") || !strings.Contains(buf.String(), "/locked/dir") {
		t.Errorf("skipped paths not reported:\n%s", buf.String())
	}
}

func TestReportSummary(t *testing.T) {
	result, _ := sampleResult()

	var buf bytes.Buffer
	if err := New(&buf, FormatSummary).Report(result, nil); err != nil {
		t.Fatalf("Report: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Duplicate groups: 1") || !strings.Contains(out, "Duplicate files:  1") {
		t.Errorf("summary counts missing:\n%s", out)
	}
}

func TestReportJSON(t *testing.T) {
	result, plans := sampleResult()

	var buf bytes.Buffer
	if err := New(&buf, FormatJSON).Report(result, plans); err != nil {
		t.Fatalf("Report: %v", err)
	}

	var report struct {
		Summary scanner.Summary `json:"summary"`
		Groups  []struct {
			Size      int64    `json:"size"`
			Digest    string   `json:"digest"`
			Kept      string   `json:"kept"`
			Removable []string `json:"removable"`
		} `json:"groups"`
	}
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}

	if report.Summary.ReclaimableBytes != 100 {
		t.Errorf("reclaimable = %d, want 100", report.Summary.ReclaimableBytes)
	}
	if len(report.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(report.Groups))
	}
	g := report.Groups[0]
	if g.Kept != "/data/report.txt" {
		t.Errorf("kept = %s, want /data/report.txt", g.Kept)
	}
	if len(g.Removable) != 1 || g.Removable[0] != "/data/report_backup.txt" {
		t.Errorf("removable = %v", g.Removable)
	}
	if g.Digest != "abc123" {
		t.Errorf("digest = %s, want abc123", g.Digest)
	}
}

func TestReportYAML(t *testing.T) {
	result, plans := sampleResult()

	var buf bytes.Buffer
	if err := New(&buf, FormatYAML).Report(result, plans); err != nil {
		t.Fatalf("Report: %v", err)
	}

	var report struct {
		Groups []struct {
			Kept string `yaml:"kept"`
		} `yaml:"groups"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("invalid YAML output: %v\n%s", err, buf.String())
	}
	if len(report.Groups) != 1 || report.Groups[0].Kept != "/data/report.txt" {
		t.Errorf("unexpected YAML report: %+v", report)
	}
}

func TestSaveToFile(t *testing.T) {
	result, plans := sampleResult()
	path := t.TempDir() + "/report.json"

	if err := SaveToFile(result, plans, path, FormatJSON); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !json.Valid(data) {
		t.Errorf("saved report is not valid JSON:\n%s", data)
	}
}
