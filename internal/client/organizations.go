package client

import (
	"context"

	"github.com/fivetwenty-io/workos-client/internal/http"
	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

const organizationsPath = "/organizations"

// OrganizationsClient implements workos.OrganizationsClient.
type OrganizationsClient struct {
	httpClient *http.Client
}

// NewOrganizationsClient creates a new organizations client.
func NewOrganizationsClient(httpClient *http.Client) *OrganizationsClient {
	return &OrganizationsClient{
		httpClient: httpClient,
	}
}

// List implements workos.OrganizationsClient.List.
func (c *OrganizationsClient) List(ctx context.Context, params *workos.ListOrganizationsParams) (*workos.List[workos.Organization], error) {
	return listPage[workos.Organization](ctx, c.httpClient, organizationsPath, params, nil, "listing organizations")
}

// Get implements workos.OrganizationsClient.Get.
func (c *OrganizationsClient) Get(ctx context.Context, id string) (*workos.Organization, error) {
	return doJSON[workos.Organization](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   resourcePath(organizationsPath, id),
	}, "getting organization")
}

// GetByExternalID implements workos.OrganizationsClient.GetByExternalID. The
// external ID is path-escaped.
func (c *OrganizationsClient) GetByExternalID(ctx context.Context, externalID string) (*workos.Organization, error) {
	return doJSON[workos.Organization](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   resourcePath(organizationsPath+"/external_id", externalID),
	}, "getting organization by external id")
}

// Create implements workos.OrganizationsClient.Create.
func (c *OrganizationsClient) Create(ctx context.Context, params *workos.CreateOrganizationParams) (*workos.Organization, error) {
	err := requireParams(params, "creating organization")
	if err != nil {
		return nil, err
	}

	return doJSON[workos.Organization](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   organizationsPath,
		Body:   params,
	}, "creating organization")
}

// Update implements workos.OrganizationsClient.Update.
func (c *OrganizationsClient) Update(ctx context.Context, id string, params *workos.UpdateOrganizationParams) (*workos.Organization, error) {
	err := requireParams(params, "updating organization")
	if err != nil {
		return nil, err
	}

	return doJSON[workos.Organization](ctx, c.httpClient, &http.Request{
		Method: "PUT",
		Path:   resourcePath(organizationsPath, id),
		Body:   params,
	}, "updating organization")
}

// Delete implements workos.OrganizationsClient.Delete.
func (c *OrganizationsClient) Delete(ctx context.Context, id string) error {
	return doEmpty(ctx, c.httpClient, &http.Request{
		Method: "DELETE",
		Path:   resourcePath(organizationsPath, id),
	}, "deleting organization")
}
