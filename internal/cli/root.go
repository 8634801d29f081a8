package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "revscan",
		Short: "Audit source trees for unpinned model/dataset loader calls",
		Long: `Revscan scans source trees for calls to model and dataset loading APIs
that fetch remote artifacts without pinning an immutable revision.
Each call site is classified safe, partial, or unsafe and the results
are aggregated per file and per org/repo project.`,
	}

	scanCmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a directory tree and report revision-pinning safety",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunScan,
	}
	scanCmd.Flags().String("csv", "", "Write per-file results to a CSV file")
	scanCmd.Flags().String("jsonl", "", "Write per-file results to a JSONL file")
	scanCmd.Flags().Bool("detailed", false, "Print per-project status after the summary")
	scanCmd.Flags().Bool("json", false, "Print machine-readable run summary")
	scanCmd.Flags().IntP("workers", "w", 0, "Worker count (default: one per CPU)")
	scanCmd.Flags().String("config", "", "Config file (default: ./.revscan.yaml if present)")
	scanCmd.Flags().String("log-level", "warn", "Log level: debug|info|warn|error")

	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the active loader functions and rule constants",
		RunE:  RunRules,
	}
	rulesCmd.Flags().Bool("json", false, "Print machine-readable rule table")
	rulesCmd.Flags().String("config", "", "Config file (default: ./.revscan.yaml if present)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("revscan %s\n", version)
		},
	}

	rootCmd.AddCommand(
		scanCmd,
		rulesCmd,
		versionCmd,
	)

	return rootCmd
}
