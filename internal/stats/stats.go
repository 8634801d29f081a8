// Package stats folds per-call classifications into per-file and
// per-project counters. Merging is commutative and associative, so files
// may be scanned in any order or in parallel batches.
package stats

import (
	"sort"
	"strings"
	"sync"

	"github.com/revscan-dev/revscan/internal/classify"
)

// FileStats counts classifications for one scanned file.
type FileStats struct {
	Path    string `json:"file"`
	Org     string `json:"org"`
	Repo    string `json:"repo"`
	Safe    int    `json:"safe_usages"`
	Partial int    `json:"partial_usages"`
	Unsafe  int    `json:"unsafe_usages"`
}

// Add increments the counter matching the classification.
func (f *FileStats) Add(c classify.Classification) {
	switch c {
	case classify.Safe:
		f.Safe++
	case classify.Partial:
		f.Partial++
	case classify.Unsafe:
		f.Unsafe++
	}
}

// Total returns the number of classified calls in the file.
func (f FileStats) Total() int {
	return f.Safe + f.Partial + f.Unsafe
}

// ProjectStats aggregates all files sharing an (org, repo) key.
type ProjectStats struct {
	Org       string `json:"org"`
	Repo      string `json:"repo"`
	Safe      int    `json:"safe_usages"`
	Partial   int    `json:"partial_usages"`
	Unsafe    int    `json:"unsafe_usages"`
	FileCount int    `json:"file_count"`
}

// Status derives the overall project verdict: any unsafe usage marks the
// project unsafe, otherwise any partial usage marks it partially safe.
func (p ProjectStats) Status() string {
	switch {
	case p.Unsafe > 0:
		return "unsafe"
	case p.Partial > 0:
		return "partially_safe"
	default:
		return "safe"
	}
}

// SafetyRatio is safe/(safe+partial+unsafe), or 0 when the project has no
// usages.
func (p ProjectStats) SafetyRatio() float64 {
	total := p.Safe + p.Partial + p.Unsafe
	if total == 0 {
		return 0
	}
	return float64(p.Safe) / float64(total)
}

// Totals is the scan-wide usage count.
type Totals struct {
	Safe    int `json:"safe_usages"`
	Partial int `json:"partial_usages"`
	Unsafe  int `json:"unsafe_usages"`
}

type projectKey struct {
	org  string
	repo string
}

// Aggregator merges FileStats produced by concurrent per-file scans.
// All methods are safe for concurrent use.
type Aggregator struct {
	mu       sync.Mutex
	projects map[projectKey]*ProjectStats
	files    []FileStats
	seen     map[string]bool
	totals   Totals
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		projects: make(map[projectKey]*ProjectStats),
		seen:     make(map[string]bool),
	}
}

// MergeFile folds one file's counters into the project keyed by its
// (org, repo). Files without any classified call are ignored, and a file
// path contributes to file_count at most once.
func (a *Aggregator) MergeFile(fs FileStats) {
	if fs.Total() == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.seen[fs.Path] {
		return
	}
	a.seen[fs.Path] = true
	a.files = append(a.files, fs)

	key := projectKey{org: fs.Org, repo: fs.Repo}
	project, ok := a.projects[key]
	if !ok {
		project = &ProjectStats{Org: fs.Org, Repo: fs.Repo}
		a.projects[key] = project
	}
	project.Safe += fs.Safe
	project.Partial += fs.Partial
	project.Unsafe += fs.Unsafe
	project.FileCount++

	a.totals.Safe += fs.Safe
	a.totals.Partial += fs.Partial
	a.totals.Unsafe += fs.Unsafe
}

// Files returns the merged per-file rows sorted by org, repo, path.
func (a *Aggregator) Files() []FileStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := append([]FileStats(nil), a.files...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Org != out[j].Org {
			return out[i].Org < out[j].Org
		}
		if out[i].Repo != out[j].Repo {
			return out[i].Repo < out[j].Repo
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// Projects returns the aggregated projects sorted by org, repo.
func (a *Aggregator) Projects() []ProjectStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]ProjectStats, 0, len(a.projects))
	for _, project := range a.projects {
		out = append(out, *project)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Org != out[j].Org {
			return out[i].Org < out[j].Org
		}
		return out[i].Repo < out[j].Repo
	})
	return out
}

// Totals returns the scan-wide usage counters.
func (a *Aggregator) Totals() Totals {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totals
}

// SplitOrgRepo derives the (org, repo) project key from the first two
// segments of a slash-separated path relative to the scan root. Paths with
// fewer than three segments cannot name a project and map to unknown.
func SplitOrgRepo(relPath string) (org, repo string) {
	segments := strings.Split(strings.Trim(relPath, "/"), "/")
	if len(segments) < 3 {
		return "unknown", "unknown"
	}
	return segments[0], segments[1]
}
