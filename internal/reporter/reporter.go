// Package reporter renders scan results for humans (group listings,
// summaries) and machines (JSON, YAML).
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/dedup/internal/cleaner"
	"github.com/fenilsonani/dedup/internal/scanner"
	"github.com/fenilsonani/dedup/pkg/utils"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatGroups  OutputFormat = "groups"
	FormatSummary OutputFormat = "summary"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
)

// ParseFormat validates an output format name.
func ParseFormat(name string) (OutputFormat, error) {
	switch f := OutputFormat(name); f {
	case FormatGroups, FormatSummary, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (supported: groups, summary, json, yaml)", name)
	}
}

// Reporter handles report generation
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{writer: writer, format: format}
}

// Report renders the scan result with its removal plans. plans must be
// parallel to result.Groups.
func (r *Reporter) Report(result *scanner.Result, plans []cleaner.RemovalPlan) error {
	switch r.format {
	case FormatGroups:
		return r.reportGroups(result, plans)
	case FormatSummary:
		return r.reportSummary(result)
	case FormatJSON:
		return r.reportJSON(result, plans)
	case FormatYAML:
		return r.reportYAML(result, plans)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

// reportGroups lists every duplicate group with its keep/remove partition.
func (r *Reporter) reportGroups(result *scanner.Result, plans []cleaner.RemovalPlan) error {
	if len(result.Groups) == 0 {
		fmt.Fprintln(r.writer, "No duplicate files found.")
		r.reportErrors(result)
		return nil
	}

	fmt.Fprintf(r.writer, "Found %d duplicate group(s) with %d duplicate file(s).\n",
		result.Summary.GroupCount, result.Summary.DuplicateCount)
	fmt.Fprintf(r.writer, "Total space that could be saved: %s\n\n",
		utils.FormatBytes(result.Summary.ReclaimableBytes))

	for i, group := range result.Groups {
		fmt.Fprintf(r.writer, "Group %d (%d files, %s each, %s wasted):\n",
			i+1, len(group.Files), utils.FormatBytes(group.Size), utils.FormatBytes(group.Wasted()))

		kept := ""
		if i < len(plans) {
			kept = plans[i].Kept.Path
		}
		for _, f := range group.Files {
			marker := " [DUPLICATE]"
			if f.Path == kept {
				marker = " [KEEP]"
			}
			fmt.Fprintf(r.writer, "  %s%s\n", f.Path, marker)
		}
		fmt.Fprintln(r.writer)
	}

	r.reportErrors(result)
	return nil
}

// reportSummary prints totals only.
func (r *Reporter) reportSummary(result *scanner.Result) error {
	fmt.Fprintf(r.writer, "=== Duplicate Scan Summary ===\n")
	fmt.Fprintf(r.writer, "Duplicate groups: %d\n", result.Summary.GroupCount)
	fmt.Fprintf(r.writer, "Duplicate files:  %d\n", result.Summary.DuplicateCount)
	fmt.Fprintf(r.writer, "Reclaimable:      %s\n", utils.FormatBytes(result.Summary.ReclaimableBytes))
	r.reportErrors(result)
	return nil
}

// reportErrors lists skipped/failed paths so partial failures are never
// silently absorbed into "no duplicates found".
func (r *Reporter) reportErrors(result *scanner.Result) {
	if len(result.Errors) == 0 {
		return
	}
	fmt.Fprintf(r.writer, "\nSkipped %d path(s):\n", len(result.Errors))
	for _, e := range result.Errors {
		fmt.Fprintf(r.writer, "  %s (%s during %s): %v\n", e.Path, e.Kind, e.Op, e.Err)
	}
}

// machineReport is the JSON/YAML report shape.
type machineReport struct {
	Timestamp string               `json:"timestamp" yaml:"timestamp"`
	Summary   scanner.Summary      `json:"summary" yaml:"summary"`
	Groups    []machineGroup       `json:"groups" yaml:"groups"`
	Errors    []*scanner.ScanError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

type machineGroup struct {
	Size      int64    `json:"size" yaml:"size"`
	Digest    string   `json:"digest,omitempty" yaml:"digest,omitempty"`
	Kept      string   `json:"kept" yaml:"kept"`
	Removable []string `json:"removable" yaml:"removable"`
}

func buildMachineReport(result *scanner.Result, plans []cleaner.RemovalPlan) machineReport {
	report := machineReport{
		Timestamp: time.Now().Format(time.RFC3339),
		Summary:   result.Summary,
		Errors:    result.Errors,
	}
	for i, group := range result.Groups {
		mg := machineGroup{
			Size:   group.Size,
			Digest: group.Files[0].Digest,
		}
		if i < len(plans) {
			mg.Kept = plans[i].Kept.Path
			for _, f := range plans[i].Removable {
				mg.Removable = append(mg.Removable, f.Path)
			}
		}
		report.Groups = append(report.Groups, mg)
	}
	return report
}

func (r *Reporter) reportJSON(result *scanner.Result, plans []cleaner.RemovalPlan) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildMachineReport(result, plans))
}

func (r *Reporter) reportYAML(result *scanner.Result, plans []cleaner.RemovalPlan) error {
	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(buildMachineReport(result, plans))
}

// SaveToFile writes the report to a file
func SaveToFile(result *scanner.Result, plans []cleaner.RemovalPlan, path string, format OutputFormat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return New(file, format).Report(result, plans)
}
