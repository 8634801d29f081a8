package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/revscan-dev/revscan/internal/scan"
	"github.com/revscan-dev/revscan/internal/scanner"
	"github.com/revscan-dev/revscan/internal/stats"
)

type ScanSummary struct {
	Mode         string `json:"mode"`
	ScanID       string `json:"scan_id"`
	RootPath     string `json:"root_path"`
	FilesScanned int    `json:"files_scanned"`
	FilesFlagged int    `json:"files_flagged"`
	Projects     int    `json:"projects"`
	Safe         int    `json:"safe_usages"`
	Partial      int    `json:"partial_usages"`
	Unsafe       int    `json:"unsafe_usages"`
	Issues       int    `json:"issues"`
	CSVPath      string `json:"csv_path,omitempty"`
	JSONLPath    string `json:"jsonl_path,omitempty"`
	Interrupted  bool   `json:"interrupted,omitempty"`
	DurationMS   int64  `json:"duration_ms"`
}

type scanReport struct {
	ScanSummary
	FileRows    []stats.FileStats    `json:"files,omitempty"`
	ProjectRows []stats.ProjectStats `json:"project_stats,omitempty"`
}

// PrintScanSummary emits the machine-readable run summary. With detailed
// set, the per-file and per-project rows ride along.
func PrintScanSummary(w io.Writer, summary ScanSummary, result *scan.Result, detailed bool) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if !detailed {
		return encoder.Encode(summary)
	}
	return encoder.Encode(scanReport{
		ScanSummary: summary,
		FileRows:    result.Files,
		ProjectRows: result.Projects,
	})
}

// ReportIssues prints non-fatal per-file diagnostics to stderr.
func ReportIssues(issues []scanner.Issue) {
	for _, issue := range issues {
		location := issue.File
		if issue.Line > 0 {
			location = fmt.Sprintf("%s:%d", issue.File, issue.Line)
		}
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", issue.Severity, location, issue.Message)
	}
}
