package client

import (
	"context"

	"github.com/fivetwenty-io/workos-client/internal/http"
	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

const organizationDomainsPath = "/organization_domains"

// OrganizationDomainsClient implements workos.OrganizationDomainsClient.
type OrganizationDomainsClient struct {
	httpClient *http.Client
}

// NewOrganizationDomainsClient creates a new organization domains client.
func NewOrganizationDomainsClient(httpClient *http.Client) *OrganizationDomainsClient {
	return &OrganizationDomainsClient{
		httpClient: httpClient,
	}
}

// Create implements workos.OrganizationDomainsClient.Create.
func (c *OrganizationDomainsClient) Create(ctx context.Context, params *workos.CreateOrganizationDomainParams) (*workos.OrganizationDomain, error) {
	err := requireParams(params, "creating organization domain")
	if err != nil {
		return nil, err
	}

	return doJSON[workos.OrganizationDomain](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   organizationDomainsPath,
		Body:   params,
	}, "creating organization domain")
}

// Get implements workos.OrganizationDomainsClient.Get.
func (c *OrganizationDomainsClient) Get(ctx context.Context, id string) (*workos.OrganizationDomain, error) {
	return doJSON[workos.OrganizationDomain](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   resourcePath(organizationDomainsPath, id),
	}, "getting organization domain")
}

// Verify implements workos.OrganizationDomainsClient.Verify.
func (c *OrganizationDomainsClient) Verify(ctx context.Context, id string) (*workos.OrganizationDomain, error) {
	return doJSON[workos.OrganizationDomain](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   resourcePath(organizationDomainsPath, id, "verify"),
	}, "verifying organization domain")
}

// Delete implements workos.OrganizationDomainsClient.Delete.
func (c *OrganizationDomainsClient) Delete(ctx context.Context, id string) error {
	return doEmpty(ctx, c.httpClient, &http.Request{
		Method: "DELETE",
		Path:   resourcePath(organizationDomainsPath, id),
	}, "deleting organization domain")
}
