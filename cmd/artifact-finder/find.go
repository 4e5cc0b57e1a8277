// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/artifact-finder/internal/catalog"
	"github.com/pdiddy/artifact-finder/internal/finder"
	"github.com/pdiddy/artifact-finder/internal/history"
	"github.com/pdiddy/artifact-finder/pkg/types"
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Locate an artifact by name and type across all packages",
	Long: `Find enumerates every content package and searches them concurrently
for an artifact whose name and type match, ignoring case. At most
--concurrency packages are fetched at once. The first match ends the search
and cancels the fetches still running.

Failed package fetches are logged and counted but do not stop the search.
If the package list cannot be read, find falls back to one flat listing of
all artifacts. Not finding the artifact is a normal outcome; the command
fails only when neither the package list nor the flat listing is readable.

Use --from with a file written by --output to repeat a saved search.
Interrupting the command (Ctrl-C) aborts the search.`,
	Args: cobra.NoArgs,
	RunE: runFind,
}

func runFind(cmd *cobra.Command, args []string) error {
	cfg, err := requireCatalog()
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	typ, _ := cmd.Flags().GetString("type")
	from, _ := cmd.Flags().GetString("from")
	target, err := resolveTarget(name, typ, from, &cfg.Finder)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Finder.Concurrency, _ = cmd.Flags().GetInt("concurrency")
		if cfg.Finder.Concurrency < 1 {
			return fmt.Errorf("--concurrency must be at least 1")
		}
	}
	noHistory, _ := cmd.Flags().GetBool("no-history")
	if noHistory {
		cfg.History.Enabled = false
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f := finder.New(catalog.New(cfg, log.Logger), cfg.Finder, log.Logger)

	var store *history.Store
	if cfg.History.Enabled && cfg.History.Path != "" {
		store, err = history.NewStore(cfg.History)
		if err != nil {
			log.Warn().Err(err).Msg("lookup history unavailable")
		} else {
			defer store.Close()
			f.Hints = store
		}
	}

	res, err := f.Find(ctx, target)
	if err != nil {
		return err
	}

	if store != nil {
		// The search context may be cancelled; the record is still written.
		if err := store.Record(context.WithoutCancel(ctx), res); err != nil {
			log.Warn().Err(err).Msg("recording lookup")
		}
	}

	if out, _ := cmd.Flags().GetString("output"); out != "" {
		if err := finder.WriteResultFile(out, res, cfg.Finder); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Result written to", out)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return printResult(os.Stdout, res, jsonOutput)
}

// resolveTarget builds the search target from --name and --type, or from a
// result file written by an earlier --output. A result file also restores
// the concurrency and page limit that search ran with.
func resolveTarget(name, typ, from string, cfg *types.FinderConfig) (finder.Target, error) {
	if from == "" {
		if name == "" || typ == "" {
			return finder.Target{}, fmt.Errorf("--name and --type are required unless --from is given")
		}
		return finder.NewTarget(name, typ)
	}
	if name != "" || typ != "" {
		return finder.Target{}, fmt.Errorf("--from cannot be combined with --name or --type")
	}

	rf, err := finder.ReadResultFile(from)
	if err != nil {
		return finder.Target{}, err
	}
	target, err := rf.Target.ToTarget()
	if err != nil {
		return finder.Target{}, fmt.Errorf("result file %s: %w", from, err)
	}
	if rf.Config.Concurrency > 0 {
		cfg.Concurrency = rf.Config.Concurrency
	}
	if rf.Config.PageLimit > 0 {
		cfg.PageLimit = rf.Config.PageLimit
	}
	return target, nil
}

// findOutput is the JSON shape of a search result.
type findOutput struct {
	SearchID    string         `json:"search_id"`
	Found       bool           `json:"found"`
	State       string         `json:"state"`
	Collection  string         `json:"collection,omitempty"`
	Record      map[string]any `json:"record,omitempty"`
	Total       int            `json:"total"`
	Searched    int            `json:"searched"`
	Failures    int            `json:"failures"`
	Skipped     int            `json:"skipped"`
	ViaFallback bool           `json:"via_fallback,omitempty"`
	Cause       string         `json:"cause,omitempty"`
	ElapsedMs   int64          `json:"elapsed_ms"`
}

func printResult(w io.Writer, res finder.Result, jsonOutput bool) error {
	if jsonOutput {
		out := findOutput{
			SearchID:    res.SearchID,
			Found:       res.Found(),
			State:       res.State.String(),
			Collection:  res.Collection.String(),
			Record:      res.Record,
			Total:       res.Total,
			Searched:    res.Searched,
			Failures:    res.Failures,
			Skipped:     res.Skipped,
			ViaFallback: res.ViaFallback,
			ElapsedMs:   res.Elapsed.Milliseconds(),
		}
		if res.Cause != nil {
			out.Cause = res.Cause.Error()
		}
		return catalog.FormatJSON(out, w)
	}

	if !res.Found() {
		fmt.Fprintln(w, res.Summary())
		return nil
	}
	where := res.Collection.String()
	if where == "" {
		where = "(flat listing)"
	}
	fmt.Fprintf(w, "Package: %s\n%s\n\n%s\n", where, catalog.FormatArtifact(res.Record), res.Summary())
	return nil
}

func init() {
	findCmd.Flags().String("name", "", "artifact name")
	findCmd.Flags().String("type", "", "artifact type, e.g. IntegrationFlow")
	findCmd.Flags().String("from", "", "re-run the search saved in this result file")
	findCmd.Flags().Int("concurrency", 0, "maximum concurrent package fetches (default from finder.concurrency)")
	findCmd.Flags().String("output", "", "write the result to this YAML file")
	findCmd.Flags().Bool("json", false, "output the result as JSON")
	findCmd.Flags().Bool("no-history", false, "neither consult nor record lookup history")

	rootCmd.AddCommand(findCmd)
}
