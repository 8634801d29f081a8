package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/revscan-dev/revscan/internal/config"
	"github.com/revscan-dev/revscan/internal/ignore"
	"github.com/revscan-dev/revscan/internal/report"
	"github.com/revscan-dev/revscan/internal/scan"
	"github.com/revscan-dev/revscan/internal/walker"
)

func RunScan(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}
	detailed, err := cmd.Flags().GetBool("detailed")
	if err != nil {
		return fmt.Errorf("failed to read --detailed flag: %w", err)
	}
	csvPath, err := OptionalStringFlag(cmd, "csv")
	if err != nil {
		return err
	}
	jsonlPath, err := OptionalStringFlag(cmd, "jsonl")
	if err != nil {
		return err
	}
	configPath, err := OptionalStringFlag(cmd, "config")
	if err != nil {
		return err
	}
	workers, err := cmd.Flags().GetInt("workers")
	if err != nil {
		return fmt.Errorf("failed to read --workers flag: %w", err)
	}

	logger, err := NewLogger(cmd)
	if err != nil {
		return err
	}

	rootPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path %q: %w", path, err)
	}
	info, err := os.Stat(rootPath)
	if err != nil {
		return fmt.Errorf("failed to access path %q: %w", rootPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path %q is not a directory", rootPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}

	userRules, err := walker.LoadIgnoreRules(rootPath)
	if err != nil {
		return err
	}
	matcher := ignore.NewMatcher(append(ignore.DirRules(cfg.ExcludeDirs), userRules...))

	start := time.Now()
	inputs, walkIssues := walker.Collect(rootPath, matcher, cfg.Extensions)
	logger.Debug("collected files", "root", rootPath, "count", len(inputs))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := newScanProgressReporter("scan", len(inputs), asJSON)
	result, scanErr := scan.Run(ctx, inputs, scan.Options{
		Functions: cfg.Functions,
		Rules:     rules,
		Workers:   cfg.Workers,
		Logger:    logger,
		Progress:  progress.Update,
	})
	progress.Done(result.FilesScanned)

	issues := append(walkIssues, result.Issues...)
	ReportIssues(issues)

	if csvPath != "" {
		if err := report.WriteCSVFile(csvPath, result.Files); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
	}
	if jsonlPath != "" {
		if err := report.WriteJSONLFile(jsonlPath, result.Files); err != nil {
			return fmt.Errorf("failed to write JSONL: %w", err)
		}
	}

	summary := ScanSummary{
		Mode:         "scan",
		ScanID:       uuid.NewString(),
		RootPath:     rootPath,
		FilesScanned: result.FilesScanned,
		FilesFlagged: len(result.Files),
		Projects:     len(result.Projects),
		Safe:         result.Totals.Safe,
		Partial:      result.Totals.Partial,
		Unsafe:       result.Totals.Unsafe,
		Issues:       len(issues),
		CSVPath:      csvPath,
		JSONLPath:    jsonlPath,
		Interrupted:  scanErr != nil,
		DurationMS:   time.Since(start).Milliseconds(),
	}

	if asJSON {
		return PrintScanSummary(os.Stdout, summary, result, detailed)
	}

	report.PrintSummary(os.Stdout, result.Totals, result.Projects)
	if detailed {
		report.PrintProjects(os.Stdout, result.Projects)
	}
	if csvPath != "" {
		fmt.Printf("CSV written to: %s\n", csvPath)
	}
	if jsonlPath != "" {
		fmt.Printf("JSONL written to: %s\n", jsonlPath)
	}
	if summary.Interrupted {
		fmt.Println("scan interrupted: partial results above")
	}
	return nil
}
