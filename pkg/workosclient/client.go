package workosclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/workos-client/internal/client"
	"github.com/fivetwenty-io/workos-client/internal/constants"
	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

// New creates a WorkOS API client. The config is copied; later changes to it do
// not affect the returned client.
func New(ctx context.Context, config *workos.Config) (workos.Client, error) {
	if config == nil {
		return nil, workos.ErrConfigRequired
	}

	if config.APIKey == "" {
		return nil, workos.ErrAPIKeyRequired
	}

	baseURL, err := NormalizeBaseURL(config.BaseURL)
	if err != nil {
		return nil, err
	}

	normalized := *config
	normalized.BaseURL = baseURL

	workosClient, err := client.New(ctx, &normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return workosClient, nil
}

// NewWithAPIKey creates a client for the default origin.
func NewWithAPIKey(ctx context.Context, apiKey string) (workos.Client, error) {
	return New(ctx, &workos.Config{
		APIKey: apiKey,
	})
}

// NormalizeBaseURL applies the default origin, adds "https://" when no scheme is
// given and trims trailing slashes. The result is a bare origin: paths, queries,
// fragments and userinfo are rejected with ErrInvalidBaseURL.
func NormalizeBaseURL(raw string) (string, error) {
	baseURL := strings.TrimSpace(raw)
	if baseURL == "" {
		return constants.DefaultBaseURL, nil
	}

	if !strings.Contains(baseURL, "://") {
		baseURL = "https://" + baseURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", workos.ErrInvalidBaseURL, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: %q", workos.ErrUnsupportedScheme, parsed.Scheme)
	}

	if parsed.Host == "" {
		return "", fmt.Errorf("%w: %q has no host", workos.ErrInvalidBaseURL, raw)
	}

	if parsed.User != nil || parsed.RawQuery != "" || parsed.ForceQuery || parsed.Fragment != "" {
		return "", fmt.Errorf("%w: %q must not carry userinfo, query or fragment", workos.ErrInvalidBaseURL, raw)
	}

	if strings.Trim(parsed.Path, "/") != "" {
		return "", fmt.Errorf("%w: %q must be an origin without a path", workos.ErrInvalidBaseURL, raw)
	}

	return strings.TrimRight(baseURL, "/"), nil
}
