// Package scan runs the per-file tokenize/parse/classify pipeline across a
// worker pool and merges the results. Each file's pipeline is a pure
// computation over its text, so files can be processed in any order or in
// parallel without changing the final totals.
package scan

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/revscan-dev/revscan/internal/classify"
	"github.com/revscan-dev/revscan/internal/pyargs"
	"github.com/revscan-dev/revscan/internal/scanner"
	"github.com/revscan-dev/revscan/internal/stats"
)

// Input is one file to scan: a slash-separated path relative to the scan
// root and a loader for its contents. The text is read exactly once, at the
// start of the file's pipeline.
type Input struct {
	Path string
	Load func() ([]byte, error)
}

// Options configures a scan run.
type Options struct {
	Functions []string
	Rules     *classify.Rules
	Workers   int
	Logger    *slog.Logger
	Progress  func(path string, done int)
}

// Result is the merged outcome of a scan run.
type Result struct {
	FilesScanned int
	Files        []stats.FileStats
	Projects     []stats.ProjectStats
	Totals       stats.Totals
	Issues       []scanner.Issue
}

type fileResult struct {
	stats  stats.FileStats
	issues []scanner.Issue
}

// Run scans every input and aggregates the classifications. Cancellation
// takes effect at file granularity: files merged before the context is done
// stay in the returned result, which is reported alongside ctx.Err().
func Run(ctx context.Context, inputs []Input, opts Options) (*Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(inputs) && len(inputs) > 0 {
		workers = len(inputs)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	rules := opts.Rules
	if rules == nil {
		rules = classify.DefaultRules()
	}

	tok := scanner.New(opts.Functions)
	agg := stats.NewAggregator()

	jobs := make(chan Input)
	results := make(chan fileResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for in := range jobs {
				results <- scanOne(tok, rules, in, logger)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, in := range inputs {
			select {
			case <-ctx.Done():
				return
			case jobs <- in:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	result := &Result{}
	var issues []scanner.Issue
	for res := range results {
		result.FilesScanned++
		issues = append(issues, res.issues...)
		agg.MergeFile(res.stats)
		if opts.Progress != nil {
			opts.Progress(res.stats.Path, result.FilesScanned)
		}
	}

	sort.Slice(issues, func(i, j int) bool {
		if issues[i].File != issues[j].File {
			return issues[i].File < issues[j].File
		}
		return issues[i].Message < issues[j].Message
	})

	result.Files = agg.Files()
	result.Projects = agg.Projects()
	result.Totals = agg.Totals()
	result.Issues = issues

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// scanOne runs the full pipeline for a single file.
func scanOne(tok *scanner.Tokenizer, rules *classify.Rules, in Input, logger *slog.Logger) fileResult {
	fs := stats.FileStats{Path: in.Path}
	fs.Org, fs.Repo = stats.SplitOrgRepo(in.Path)

	data, err := in.Load()
	if err != nil {
		return fileResult{
			stats: fs,
			issues: []scanner.Issue{{
				File:     in.Path,
				Severity: "error",
				Message:  fmt.Sprintf("unreadable file: %v", err),
			}},
		}
	}

	candidates, issues := tok.Scan(in.Path, data)
	for _, cand := range candidates {
		args := pyargs.Parse(cand.RawArgs)
		verdict := rules.Classify(args)
		fs.Add(verdict)
		logger.Debug("classified call",
			"file", in.Path,
			"line", cand.Line,
			"function", cand.Function,
			"verdict", verdict.String())
	}

	return fileResult{stats: fs, issues: issues}
}
