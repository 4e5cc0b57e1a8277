// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Defaults applied when a configuration value is unset.
const (
	DefaultBaseURL       = "https://api.sap.com/odata/1.0/catalog.svc"
	DefaultUserAgent     = "artifact-finder/0.1"
	DefaultHTTPTimeout   = 300 * time.Second
	DefaultMaxRetries    = 3
	DefaultConcurrency   = 20
	DefaultPageLimit     = 1000
	DefaultFlatLimit     = 50000
	DefaultSearchTimeout = 5 * time.Minute
	DefaultGracePeriod   = 5 * time.Second
	DefaultHistoryPath   = "artifact-finder.db"
)

// HTTPConfig holds shared HTTP settings used by the catalog client.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout. The catalog can be slow to
	// answer unfiltered listings, so the default is generous.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on HTTP 429/503 inside one call.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// CatalogConfig locates the remote catalog service.
type CatalogConfig struct {
	// BaseURL is the OData service root, without a trailing slash.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
}

// FinderConfig holds settings for the first-match artifact search.
type FinderConfig struct {
	// Concurrency is the gate capacity K: how many collection fetches may be
	// in flight at once.
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`

	// PageLimit is the page-size ceiling for one collection fetch.
	PageLimit int `json:"page_limit" yaml:"page_limit" mapstructure:"page_limit"`

	// FlatLimit is the page-size ceiling for the flat fallback fetch used
	// when collections cannot be enumerated.
	FlatLimit int `json:"flat_limit" yaml:"flat_limit" mapstructure:"flat_limit"`

	// SearchTimeout bounds one whole search. Zero disables the bound.
	SearchTimeout time.Duration `json:"search_timeout" yaml:"search_timeout" mapstructure:"search_timeout"`

	// GracePeriod bounds how long outstanding tasks are drained after a
	// match or an abort before they are abandoned.
	GracePeriod time.Duration `json:"grace_period" yaml:"grace_period" mapstructure:"grace_period"`
}

// HistoryConfig holds settings for the local lookup history database.
type HistoryConfig struct {
	// Enabled turns recording and hinting on or off.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// Config groups all configuration sections.
type Config struct {
	Catalog CatalogConfig `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	HTTP    HTTPConfig    `json:"http" yaml:"http" mapstructure:"http"`
	Finder  FinderConfig  `json:"finder" yaml:"finder" mapstructure:"finder"`
	History HistoryConfig `json:"history" yaml:"history" mapstructure:"history"`
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() Config {
	return Config{
		Catalog: CatalogConfig{BaseURL: DefaultBaseURL},
		HTTP: HTTPConfig{
			Timeout:    DefaultHTTPTimeout,
			UserAgent:  DefaultUserAgent,
			MaxRetries: DefaultMaxRetries,
		},
		Finder: FinderConfig{
			Concurrency:   DefaultConcurrency,
			PageLimit:     DefaultPageLimit,
			FlatLimit:     DefaultFlatLimit,
			SearchTimeout: DefaultSearchTimeout,
			GracePeriod:   DefaultGracePeriod,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    DefaultHistoryPath,
		},
	}
}

// WithDefaults returns a copy of c where zero values are replaced by
// defaults. Booleans are left as-is.
func (c FinderConfig) WithDefaults() FinderConfig {
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.PageLimit <= 0 {
		c.PageLimit = DefaultPageLimit
	}
	if c.FlatLimit <= 0 {
		c.FlatLimit = DefaultFlatLimit
	}
	if c.GracePeriod <= 0 {
		c.GracePeriod = DefaultGracePeriod
	}
	return c
}
