package client

import (
	"context"

	"github.com/fivetwenty-io/workos-client/internal/auth"
	"github.com/fivetwenty-io/workos-client/internal/constants"
	"github.com/fivetwenty-io/workos-client/internal/http"
	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

// Client implements the workos.Client interface. Every field is set once in New.
type Client struct {
	httpClient *http.Client
	baseURL    string

	// Resource clients
	fga                 workos.FGAClient
	organizations       workos.OrganizationsClient
	organizationDomains workos.OrganizationDomainsClient
	userManagement      workos.UserManagementClient
	directorySync       workos.DirectorySyncClient
	mfa                 workos.MFAClient
	portal              workos.PortalClient
	widgets             workos.WidgetsClient
	events              workos.EventsClient
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *workos.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPClient != nil {
		httpOpts = append(httpOpts, http.WithHTTPClient(config.HTTPClient))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, http.WithInterceptors(config.Interceptors))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.ExtendedRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// New creates a client for an already validated config. BaseURL must be the
// normalized origin.
func New(ctx context.Context, config *workos.Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, workos.ErrAPIKeyRequired
	}

	httpClient := http.NewClient(config.BaseURL, auth.NewStaticCredential(config.APIKey), createHTTPClientOptions(config)...)

	client := &Client{
		httpClient: httpClient,
		baseURL:    config.BaseURL,
	}

	client.initializeResourceClients()

	return client, nil
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.fga = NewFGAClient(c.httpClient)
	c.organizations = NewOrganizationsClient(c.httpClient)
	c.organizationDomains = NewOrganizationDomainsClient(c.httpClient)
	c.userManagement = NewUserManagementClient(c.httpClient)
	c.directorySync = NewDirectorySyncClient(c.httpClient)
	c.mfa = NewMFAClient(c.httpClient)
	c.portal = NewPortalClient(c.httpClient)
	c.widgets = NewWidgetsClient(c.httpClient)
	c.events = NewEventsClient(c.httpClient)
}

// BaseURL returns the origin every request is sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Resource client accessors

// FGA implements workos.Client.FGA.
func (c *Client) FGA() workos.FGAClient {
	return c.fga
}

// Organizations implements workos.Client.Organizations.
func (c *Client) Organizations() workos.OrganizationsClient {
	return c.organizations
}

// OrganizationDomains implements workos.Client.OrganizationDomains.
func (c *Client) OrganizationDomains() workos.OrganizationDomainsClient {
	return c.organizationDomains
}

// UserManagement implements workos.Client.UserManagement.
func (c *Client) UserManagement() workos.UserManagementClient {
	return c.userManagement
}

// DirectorySync implements workos.Client.DirectorySync.
func (c *Client) DirectorySync() workos.DirectorySyncClient {
	return c.directorySync
}

// MFA implements workos.Client.MFA.
func (c *Client) MFA() workos.MFAClient {
	return c.mfa
}

// Portal implements workos.Client.Portal.
func (c *Client) Portal() workos.PortalClient {
	return c.portal
}

// Widgets implements workos.Client.Widgets.
func (c *Client) Widgets() workos.WidgetsClient {
	return c.widgets
}

// Events implements workos.Client.Events.
func (c *Client) Events() workos.EventsClient {
	return c.events
}

var _ workos.Client = (*Client)(nil)
