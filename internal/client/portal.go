package client

import (
	"context"

	"github.com/fivetwenty-io/workos-client/internal/http"
	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

// PortalClient implements workos.PortalClient.
type PortalClient struct {
	httpClient *http.Client
}

// NewPortalClient creates a new Admin Portal client.
func NewPortalClient(httpClient *http.Client) *PortalClient {
	return &PortalClient{
		httpClient: httpClient,
	}
}

// GenerateLink implements workos.PortalClient.GenerateLink.
func (c *PortalClient) GenerateLink(ctx context.Context, params *workos.GeneratePortalLinkParams) (*workos.PortalLink, error) {
	err := requireParams(params, "generating portal link")
	if err != nil {
		return nil, err
	}

	return doJSON[workos.PortalLink](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   "/portal/generate_link",
		Body:   params,
	}, "generating portal link")
}

// WidgetsClient implements workos.WidgetsClient.
type WidgetsClient struct {
	httpClient *http.Client
}

// NewWidgetsClient creates a new widgets client.
func NewWidgetsClient(httpClient *http.Client) *WidgetsClient {
	return &WidgetsClient{
		httpClient: httpClient,
	}
}

// GetToken implements workos.WidgetsClient.GetToken.
func (c *WidgetsClient) GetToken(ctx context.Context, params *workos.WidgetTokenParams) (*workos.WidgetToken, error) {
	err := requireParams(params, "getting widget token")
	if err != nil {
		return nil, err
	}

	return doJSON[workos.WidgetToken](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   "/widgets/token",
		Body:   params,
	}, "getting widget token")
}
