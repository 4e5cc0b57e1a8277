// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/artifact-finder/internal/catalog"
)

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "List content packages in the catalog",
	Long: `Packages lists every content package with its display name, technical
ID and version. Use --search to keep only packages whose display name or
technical ID contains a term, ignoring case.`,
	Args: cobra.NoArgs,
	RunE: runPackages,
}

func runPackages(cmd *cobra.Command, args []string) error {
	cfg, err := requireCatalog()
	if err != nil {
		return err
	}
	search, _ := cmd.Flags().GetString("search")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	client := catalog.New(cfg, log.Logger)
	records, err := client.ListPackages(cmd.Context(), search)
	if err != nil {
		return err
	}

	if jsonOutput {
		return catalog.FormatJSON(records, os.Stdout)
	}
	if len(records) == 0 {
		if search != "" {
			fmt.Printf("No packages match %q.\n", search)
		} else {
			fmt.Println("No packages found.")
		}
		return nil
	}
	fmt.Println(catalog.JoinEntries(records, catalog.FormatPackage))
	fmt.Fprintf(os.Stdout, "\n%d packages\n", len(records))
	return nil
}

func init() {
	packagesCmd.Flags().String("search", "", "keep packages whose name or ID contains this term")
	packagesCmd.Flags().Bool("json", false, "output packages as JSON")

	rootCmd.AddCommand(packagesCmd)
}
