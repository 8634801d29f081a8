package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/revscan-dev/revscan/internal/config"
)

// RunRules prints the active configuration table so operators can verify
// which loader APIs and rule constants a scan will apply.
func RunRules(cmd *cobra.Command, args []string) error {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}
	configPath, err := OptionalStringFlag(cmd, "config")
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rulesView{
			Functions:          cfg.Functions,
			RevisionKeyword:    cfg.RevisionKeyword,
			AuthKeywords:       cfg.AuthKeywords,
			LocalFlagKeywords:  cfg.LocalFlagKeywords,
			IdentifierKeywords: cfg.IdentifierKeywords,
			ShaPattern:         cfg.ShaPattern,
			Extensions:         cfg.Extensions,
			ExcludeDirs:        cfg.ExcludeDirs,
		})
	}

	fmt.Printf("functions: %s\n", strings.Join(cfg.Functions, ", "))
	fmt.Printf("revision keyword: %s\n", cfg.RevisionKeyword)
	fmt.Printf("auth keywords: %s\n", strings.Join(cfg.AuthKeywords, ", "))
	fmt.Printf("local flag keywords: %s\n", strings.Join(cfg.LocalFlagKeywords, ", "))
	fmt.Printf("identifier keywords: %s\n", strings.Join(cfg.IdentifierKeywords, ", "))
	fmt.Printf("sha pattern: %s\n", cfg.ShaPattern)
	fmt.Printf("extensions: %s\n", strings.Join(cfg.Extensions, ", "))
	fmt.Printf("excluded dirs: %s\n", strings.Join(cfg.ExcludeDirs, ", "))
	return nil
}

type rulesView struct {
	Functions          []string `json:"functions"`
	RevisionKeyword    string   `json:"revision_keyword"`
	AuthKeywords       []string `json:"auth_keywords"`
	LocalFlagKeywords  []string `json:"local_flag_keywords"`
	IdentifierKeywords []string `json:"identifier_keywords"`
	ShaPattern         string   `json:"sha_pattern"`
	Extensions         []string `json:"extensions"`
	ExcludeDirs        []string `json:"exclude_dirs"`
}
