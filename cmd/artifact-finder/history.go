// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/artifact-finder/internal/catalog"
	"github.com/pdiddy/artifact-finder/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or export recent artifact lookups",
	Long: `History lists lookups recorded by find, newest first. Successful
lookups also serve as hints: the next search for the same artifact fetches
the package it was last found in first.

Use --export to write the full history to a YAML file.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return fmt.Errorf("history.path is not set")
	}

	store, err := history.NewStore(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	if path, _ := cmd.Flags().GetString("export"); path != "" {
		n, err := store.ExportYAML(cmd.Context(), path)
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d lookups to %s\n", n, path)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		if entries == nil {
			entries = []history.Entry{}
		}
		return catalog.FormatJSON(entries, os.Stdout)
	}
	if len(entries) == 0 {
		fmt.Println("No lookups recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-30s  %-16s  %-10s  %-24s  %s\n",
		"When", "Name", "Type", "State", "Package", "Searched")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 115))
	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "%-20s  %-30s  %-16s  %-10s  %-24s  %d/%d\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			truncate(e.Name, 30), truncate(e.Type, 16), e.State,
			truncate(e.Collection.String(), 24), e.Searched, e.Total)
	}
	fmt.Fprintf(os.Stdout, "\n%d lookups\n", len(entries))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum lookups to show")
	historyCmd.Flags().String("export", "", "write every recorded lookup to this YAML file")
	historyCmd.Flags().Bool("json", false, "output lookups as JSON")

	rootCmd.AddCommand(historyCmd)
}
