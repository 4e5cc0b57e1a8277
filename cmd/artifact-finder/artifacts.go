// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/artifact-finder/internal/catalog"
)

var artifactsCmd = &cobra.Command{
	Use:   "artifacts <package-id>",
	Short: "List the artifacts of one content package",
	Long: `Artifacts lists every artifact of the package with the given technical
ID: name, type, version, display name and description. Use --type to keep
only artifacts whose type contains a term, ignoring case.`,
	Args: cobra.ExactArgs(1),
	RunE: runArtifacts,
}

func runArtifacts(cmd *cobra.Command, args []string) error {
	cfg, err := requireCatalog()
	if err != nil {
		return err
	}
	artifactType, _ := cmd.Flags().GetString("type")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	client := catalog.New(cfg, log.Logger)
	records, err := client.ListArtifacts(cmd.Context(), args[0], artifactType)
	if err != nil {
		return err
	}

	if jsonOutput {
		return catalog.FormatJSON(records, os.Stdout)
	}
	if len(records) == 0 {
		fmt.Printf("No artifacts found in package %s.\n", args[0])
		return nil
	}
	fmt.Println(catalog.JoinEntries(records, catalog.FormatArtifact))
	fmt.Fprintf(os.Stdout, "\n%d artifacts\n", len(records))
	return nil
}

func init() {
	artifactsCmd.Flags().String("type", "", "keep artifacts whose type contains this term")
	artifactsCmd.Flags().Bool("json", false, "output artifacts as JSON")

	rootCmd.AddCommand(artifactsCmd)
}
