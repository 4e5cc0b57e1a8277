// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the artifact-finder CLI. It lists
// packages and artifacts of an OData design-time catalog and locates a named
// artifact across every package with a bounded number of concurrent fetches.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/artifact-finder/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the artifact-finder CLI.
var rootCmd = &cobra.Command{
	Use:   "artifact-finder",
	Short: "Browse an integration content catalog and locate artifacts",
	Long: `artifact-finder talks to the OData design-time API of an integration
content catalog. It lists content packages and the artifacts they hold, and
finds a single artifact by name and type by searching every package
concurrently, stopping as soon as one package reports a match.

The catalog is addressed by catalog.base_url (flag --base-url, environment
ARTIFACT_FINDER_CATALOG_BASE_URL, or the config file).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		setupLogging(verbose)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./artifact-finder.yaml or ~/.config/artifact-finder/config.yaml)")
	rootCmd.PersistentFlags().String("base-url", "", "catalog API base URL")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	_ = viper.BindPFlag("catalog.base_url", rootCmd.PersistentFlags().Lookup("base-url"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("artifact-finder")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "artifact-finder"))
		}
	}

	setDefaults(viper.GetViper(), types.DefaultConfig())

	viper.SetEnvPrefix("ARTIFACT_FINDER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so that environment variables and
// Unmarshal see keys absent from the config file.
func setDefaults(v *viper.Viper, d types.Config) {
	v.SetDefault("catalog.base_url", d.Catalog.BaseURL)
	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("http.max_retries", d.HTTP.MaxRetries)
	v.SetDefault("finder.concurrency", d.Finder.Concurrency)
	v.SetDefault("finder.page_limit", d.Finder.PageLimit)
	v.SetDefault("finder.flat_limit", d.Finder.FlatLimit)
	v.SetDefault("finder.search_timeout", d.Finder.SearchTimeout)
	v.SetDefault("finder.grace_period", d.Finder.GracePeriod)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
}

// loadConfig decodes the merged viper settings into a Config.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Catalog.BaseURL = strings.TrimSpace(cfg.Catalog.BaseURL)
	return cfg, nil
}

// requireCatalog loads the config and checks that a catalog is addressed.
func requireCatalog() (types.Config, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return cfg, err
	}
	if cfg.Catalog.BaseURL == "" {
		return cfg, fmt.Errorf("catalog base URL is not set: use --base-url or catalog.base_url")
	}
	return cfg, nil
}

func setupLogging(verbose bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
