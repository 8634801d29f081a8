// Package report renders scan results: the per-file CSV consumed by
// downstream tooling, JSONL rows, and the human-readable summary.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/revscan-dev/revscan/internal/fileutil"
	"github.com/revscan-dev/revscan/internal/stats"
)

// CSVHeader is the fixed column layout of the per-file report.
var CSVHeader = []string{"org", "repo", "file", "safe_usages", "partial_usages", "unsafe_usages"}

// EncodeCSV renders one row per file that contained at least one recognized
// call. Rows arrive pre-sorted from the aggregator, keeping output stable
// across runs.
func EncodeCSV(files []stats.FileStats) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(CSVHeader); err != nil {
		return nil, err
	}
	for _, f := range files {
		record := []string{
			f.Org,
			f.Repo,
			f.Path,
			strconv.Itoa(f.Safe),
			strconv.Itoa(f.Partial),
			strconv.Itoa(f.Unsafe),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSVFile writes the per-file report, leaving an up-to-date file
// untouched.
func WriteCSVFile(path string, files []stats.FileStats) error {
	data, err := EncodeCSV(files)
	if err != nil {
		return err
	}
	return fileutil.WriteIfChanged(path, data)
}

// EncodeJSONLFile renders the per-file rows as JSONL.
func EncodeJSONLFile(files []stats.FileStats) ([]byte, error) {
	return fileutil.EncodeJSONL(files)
}

// WriteJSONLFile writes the per-file rows as JSONL.
func WriteJSONLFile(path string, files []stats.FileStats) error {
	data, err := EncodeJSONLFile(files)
	if err != nil {
		return err
	}
	return fileutil.WriteIfChanged(path, data)
}

// PrintSummary writes the scan-wide counters in the classic summary block.
func PrintSummary(w io.Writer, totals stats.Totals, projects []stats.ProjectStats) {
	var safeProjects, partialProjects, unsafeProjects int
	for _, p := range projects {
		switch p.Status() {
		case "safe":
			safeProjects++
		case "partially_safe":
			partialProjects++
		default:
			unsafeProjects++
		}
	}

	fmt.Fprintln(w, "====== Scan Summary ======")
	fmt.Fprintf(w, "Safe usages (pinned to commit hash): %d\n", totals.Safe)
	fmt.Fprintf(w, "Partially safe usages: %d\n", totals.Partial)
	fmt.Fprintf(w, "Unsafe usages (unpinned): %d\n", totals.Unsafe)
	fmt.Fprintf(w, "Safe projects: %d\n", safeProjects)
	fmt.Fprintf(w, "Partially safe projects: %d\n", partialProjects)
	fmt.Fprintf(w, "Unsafe projects: %d\n", unsafeProjects)
}

// PrintProjects writes the per-project status table shown by --detailed.
func PrintProjects(w io.Writer, projects []stats.ProjectStats) {
	fmt.Fprintln(w, "\n====== Project Status ======")
	for _, p := range projects {
		fmt.Fprintf(w, "%-20s/%-20s %-15s safe=%d partial=%d unsafe=%d files=%d ratio=%.2f\n",
			p.Org, p.Repo, p.Status(), p.Safe, p.Partial, p.Unsafe, p.FileCount, p.SafetyRatio())
	}
}
