// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog is the HTTP client for the remote OData catalog of content
// packages and their artifacts. It lists packages, lists a package's
// artifacts, and serves the page fetches the artifact finder fans out.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/artifact-finder/internal/httputil"
	"github.com/pdiddy/artifact-finder/pkg/types"
)

const (
	packagesPath  = "ContentPackages"
	artifactsPath = "Artifacts"
	packageSelect = types.FieldTechnicalName + "," + types.FieldDisplayName + "," + types.FieldVersion
)

// Client queries the catalog service. The zero value is not usable; build
// one with New.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
	// MaxRetries bounds retries of throttled responses within one call.
	MaxRetries int
	Logger     zerolog.Logger
}

// New returns a Client configured from cfg.
func New(cfg types.Config, logger zerolog.Logger) *Client {
	timeout := cfg.HTTP.Timeout
	if timeout <= 0 {
		timeout = types.DefaultHTTPTimeout
	}
	ua := cfg.HTTP.UserAgent
	if ua == "" {
		ua = types.DefaultUserAgent
	}
	base := cfg.Catalog.BaseURL
	if base == "" {
		base = types.DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(base, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		UserAgent:  ua,
		MaxRetries: cfg.HTTP.MaxRetries,
		Logger:     logger.With().Str("component", "catalog").Logger(),
	}
}

// get issues one GET against path (relative to BaseURL) and decodes the
// entity list. op names the operation in errors and logs.
func (c *Client) get(ctx context.Context, op, path string, params url.Values) ([]types.Record, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("$format", "json")
	reqURL := c.BaseURL + "/" + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.Logger.Debug().Str("op", op).Str("url", reqURL).Msg("catalog request")

	retrier := httputil.Retrier{MaxRetries: c.MaxRetries, Logger: c.Logger}
	resp, err := retrier.Do(ctx, c.HTTPClient, req)
	if err != nil {
		return nil, &TransportError{Op: op, URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteError{
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Body:       httputil.ErrorBody(resp.Body),
		}
	}

	body, err := httputil.ReadResponse(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, URL: reqURL, Err: fmt.Errorf("reading body: %w", err)}
	}
	records, err := decodeRecords(body)
	if err != nil {
		return nil, &RemoteError{URL: reqURL, Err: err}
	}
	return records, nil
}

// ListPackages returns content packages (technical name, display name,
// version). A non-empty searchTerm keeps packages whose display name or
// technical name contains it, case-insensitively.
func (c *Client) ListPackages(ctx context.Context, searchTerm string) ([]types.Record, error) {
	params := url.Values{"$select": {packageSelect}}
	records, err := c.get(ctx, "list packages", packagesPath, params)
	if err != nil {
		return nil, err
	}
	if searchTerm == "" {
		return records, nil
	}
	return filterContains(records, searchTerm, types.FieldDisplayName, types.FieldTechnicalName), nil
}

// ListArtifacts returns every artifact of one package. A non-empty
// artifactType keeps artifacts whose Type contains it, case-insensitively.
func (c *Client) ListArtifacts(ctx context.Context, packageID, artifactType string) ([]types.Record, error) {
	if strings.TrimSpace(packageID) == "" {
		return nil, fmt.Errorf("package id is empty")
	}
	records, err := c.get(ctx, "list artifacts", artifactsOf(types.CollectionRef(packageID)), nil)
	if err != nil {
		return nil, err
	}
	if artifactType == "" {
		return records, nil
	}
	return filterContains(records, artifactType, types.FieldType), nil
}

// ListCollections returns the technical names of all packages, in catalog
// order. Entries without a technical name are skipped.
func (c *Client) ListCollections(ctx context.Context) ([]types.CollectionRef, error) {
	records, err := c.ListPackages(ctx, "")
	if err != nil {
		return nil, err
	}
	refs := make([]types.CollectionRef, 0, len(records))
	for _, r := range records {
		if name := r.TechnicalName(); name != "" {
			refs = append(refs, types.CollectionRef(name))
		}
	}
	return refs, nil
}

// FetchPage returns up to limit artifacts of one package in a single
// request. It never retries beyond the throttling backoff.
func (c *Client) FetchPage(ctx context.Context, ref types.CollectionRef, limit int) ([]types.Record, error) {
	return c.get(ctx, "fetch page", artifactsOf(ref), topParams(limit))
}

// FetchAllFlat returns up to limit artifacts from the flat artifact
// listing, across all packages.
func (c *Client) FetchAllFlat(ctx context.Context, limit int) ([]types.Record, error) {
	return c.get(ctx, "fetch flat", artifactsPath, topParams(limit))
}

func artifactsOf(ref types.CollectionRef) string {
	return packagesPath + "(" + quoteKey(ref.String()) + ")/" + artifactsPath
}

func topParams(limit int) url.Values {
	params := url.Values{}
	if limit > 0 {
		params.Set("$top", strconv.Itoa(limit))
	}
	return params
}
