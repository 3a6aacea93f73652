package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/workos-client/internal/http"
	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

const (
	fgaResourcesPath     = "/fga/v1/resources"
	fgaResourceTypesPath = "/fga/v1/resource-types"
	fgaWarrantsPath      = "/fga/v1/warrants"
	fgaPoliciesPath      = "/fga/v1/policies"
	fgaSchemaPath        = "/fga/v1/schema"
	fgaCheckPath         = "/fga/v1/check"
	fgaQueryPath         = "/fga/v1/query"
)

// FGAClient implements workos.FGAClient.
type FGAClient struct {
	httpClient *http.Client
}

// NewFGAClient creates a new FGA client.
func NewFGAClient(httpClient *http.Client) *FGAClient {
	return &FGAClient{
		httpClient: httpClient,
	}
}

// ListResources implements workos.FGAClient.ListResources.
func (c *FGAClient) ListResources(ctx context.Context, params *workos.ListResourcesParams) (*workos.List[workos.Resource], error) {
	return listPage[workos.Resource](ctx, c.httpClient, fgaResourcesPath, params, nil, "listing resources")
}

// GetResource implements workos.FGAClient.GetResource.
func (c *FGAClient) GetResource(ctx context.Context, resourceType, resourceID string) (*workos.Resource, error) {
	return doJSON[workos.Resource](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   resourcePath(fgaResourcesPath, resourceType, resourceID),
	}, "getting resource")
}

// CreateResource implements workos.FGAClient.CreateResource.
func (c *FGAClient) CreateResource(ctx context.Context, params *workos.CreateResourceParams) (*workos.Resource, error) {
	err := requireParams(params, "creating resource")
	if err != nil {
		return nil, err
	}

	return doJSON[workos.Resource](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   fgaResourcesPath,
		Body:   params,
	}, "creating resource")
}

// UpdateResource implements workos.FGAClient.UpdateResource.
func (c *FGAClient) UpdateResource(ctx context.Context, params *workos.UpdateResourceParams) (*workos.Resource, error) {
	err := requireParams(params, "updating resource")
	if err != nil {
		return nil, err
	}

	return doJSON[workos.Resource](ctx, c.httpClient, &http.Request{
		Method: "PUT",
		Path:   resourcePath(fgaResourcesPath, params.ResourceType, params.ResourceID),
		Body:   params,
	}, "updating resource")
}

// DeleteResource implements workos.FGAClient.DeleteResource.
func (c *FGAClient) DeleteResource(ctx context.Context, resourceType, resourceID string) error {
	return doEmpty(ctx, c.httpClient, &http.Request{
		Method: "DELETE",
		Path:   resourcePath(fgaResourcesPath, resourceType, resourceID),
	}, "deleting resource")
}

// BatchWriteResources implements workos.FGAClient.BatchWriteResources.
func (c *FGAClient) BatchWriteResources(ctx context.Context, writes []workos.ResourceWrite) error {
	return doEmpty(ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   fgaResourcesPath + "/batch",
		Body:   map[string][]workos.ResourceWrite{"writes": writes},
	}, "writing resources")
}

// ListResourceTypes implements workos.FGAClient.ListResourceTypes.
func (c *FGAClient) ListResourceTypes(ctx context.Context, params *workos.PaginationParams) (*workos.List[workos.ResourceType], error) {
	return listPage[workos.ResourceType](ctx, c.httpClient, fgaResourceTypesPath, params, nil, "listing resource types")
}

// GetResourceType implements workos.FGAClient.GetResourceType.
func (c *FGAClient) GetResourceType(ctx context.Context, resourceType string) (*workos.ResourceType, error) {
	return doJSON[workos.ResourceType](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   resourcePath(fgaResourceTypesPath, resourceType),
	}, "getting resource type")
}

// CreateResourceType implements workos.FGAClient.CreateResourceType.
func (c *FGAClient) CreateResourceType(ctx context.Context, resourceType *workos.ResourceType) (*workos.ResourceType, error) {
	err := requireParams(resourceType, "creating resource type")
	if err != nil {
		return nil, err
	}

	return doJSON[workos.ResourceType](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   fgaResourceTypesPath,
		Body:   resourceType,
	}, "creating resource type")
}

// UpdateResourceType implements workos.FGAClient.UpdateResourceType.
func (c *FGAClient) UpdateResourceType(ctx context.Context, resourceType *workos.ResourceType) (*workos.ResourceType, error) {
	err := requireParams(resourceType, "updating resource type")
	if err != nil {
		return nil, err
	}

	return doJSON[workos.ResourceType](ctx, c.httpClient, &http.Request{
		Method: "PUT",
		Path:   resourcePath(fgaResourceTypesPath, resourceType.Type),
		Body:   resourceType,
	}, "updating resource type")
}

// DeleteResourceType implements workos.FGAClient.DeleteResourceType.
func (c *FGAClient) DeleteResourceType(ctx context.Context, resourceType string) error {
	return doEmpty(ctx, c.httpClient, &http.Request{
		Method: "DELETE",
		Path:   resourcePath(fgaResourceTypesPath, resourceType),
	}, "deleting resource type")
}

// ApplyResourceTypes implements workos.FGAClient.ApplyResourceTypes. The set
// replaces every resource type in the environment.
func (c *FGAClient) ApplyResourceTypes(ctx context.Context, resourceTypes []workos.ResourceType) ([]workos.ResourceType, error) {
	result, err := doJSON[[]workos.ResourceType](ctx, c.httpClient, &http.Request{
		Method: "PUT",
		Path:   fgaResourceTypesPath,
		Body:   map[string][]workos.ResourceType{"resource_types": resourceTypes},
	}, "applying resource types")
	if err != nil {
		return nil, err
	}

	return *result, nil
}

// ListWarrants implements workos.FGAClient.ListWarrants.
func (c *FGAClient) ListWarrants(ctx context.Context, params *workos.ListWarrantsParams) (*workos.List[workos.Warrant], error) {
	var headers map[string]string
	if params != nil {
		headers = warrantTokenHeader(params.WarrantToken)
	}

	return listPage[workos.Warrant](ctx, c.httpClient, fgaWarrantsPath, params, headers, "listing warrants")
}

// CreateWarrant implements workos.FGAClient.CreateWarrant.
func (c *FGAClient) CreateWarrant(ctx context.Context, params *workos.WarrantParams) (*workos.Warrant, error) {
	err := requireParams(params, "creating warrant")
	if err != nil {
		return nil, err
	}

	return doJSON[workos.Warrant](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   fgaWarrantsPath,
		Body:   params,
	}, "creating warrant")
}

// DeleteWarrant implements workos.FGAClient.DeleteWarrant.
func (c *FGAClient) DeleteWarrant(ctx context.Context, params *workos.WarrantParams) error {
	return doEmpty(ctx, c.httpClient, &http.Request{
		Method: "DELETE",
		Path:   fgaWarrantsPath,
		Body:   params,
	}, "deleting warrant")
}

// BatchWriteWarrants implements workos.FGAClient.BatchWriteWarrants.
func (c *FGAClient) BatchWriteWarrants(ctx context.Context, writes []workos.WarrantParams) error {
	return doEmpty(ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   fgaWarrantsPath + "/batch",
		Body:   map[string][]workos.WarrantParams{"writes": writes},
	}, "writing warrants")
}

// ListPolicies implements workos.FGAClient.ListPolicies.
func (c *FGAClient) ListPolicies(ctx context.Context, params *workos.PaginationParams) (*workos.List[workos.Policy], error) {
	err := requireParams(params, "deleting warrant")
	if err != nil {
		return nil, err
	}

	return listPage[workos.Policy](ctx, c.httpClient, fgaPoliciesPath, params, nil, "listing policies")
}

// GetPolicy implements workos.FGAClient.GetPolicy.
func (c *FGAClient) GetPolicy(ctx context.Context, name string) (*workos.Policy, error) {
	return doJSON[workos.Policy](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   resourcePath(fgaPoliciesPath, name),
	}, "getting policy")
}

// CreatePolicy implements workos.FGAClient.CreatePolicy.
func (c *FGAClient) CreatePolicy(ctx context.Context, params *workos.PolicyParams) (*workos.Policy, error) {
	err := requireParams(params, "creating policy")
	if err != nil {
		return nil, err
	}

	return doJSON[workos.Policy](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   fgaPoliciesPath,
		Body:   params,
	}, "creating policy")
}

// UpdatePolicy implements workos.FGAClient.UpdatePolicy.
func (c *FGAClient) UpdatePolicy(ctx context.Context, params *workos.PolicyParams) (*workos.Policy, error) {
	err := requireParams(params, "updating policy")
	if err != nil {
		return nil, err
	}

	return doJSON[workos.Policy](ctx, c.httpClient, &http.Request{
		Method: "PUT",
		Path:   resourcePath(fgaPoliciesPath, params.Name),
		Body:   params,
	}, "updating policy")
}

// DeletePolicy implements workos.FGAClient.DeletePolicy.
func (c *FGAClient) DeletePolicy(ctx context.Context, name string) error {
	return doEmpty(ctx, c.httpClient, &http.Request{
		Method: "DELETE",
		Path:   resourcePath(fgaPoliciesPath, name),
	}, "deleting policy")
}

// GetSchema implements workos.FGAClient.GetSchema.
func (c *FGAClient) GetSchema(ctx context.Context) (*workos.Schema, error) {
	return doJSON[workos.Schema](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   fgaSchemaPath,
	}, "getting schema")
}

// ApplySchema implements workos.FGAClient.ApplySchema. The schema text is sent
// unchanged.
func (c *FGAClient) ApplySchema(ctx context.Context, schema string) error {
	return doEmpty(ctx, c.httpClient, &http.Request{
		Method:      "PUT",
		Path:        fgaSchemaPath,
		Raw:         []byte(schema),
		ContentType: "application/json",
	}, "applying schema")
}

// checkResponse accepts both the boolean and the string form of a check answer.
type checkResponse struct {
	Allowed *bool   `json:"allowed"`
	Result  *string `json:"result"`
}

// Check implements workos.FGAClient.Check. A response that carries no answer is
// an operation error matching workos.ErrNotAllowed.
func (c *FGAClient) Check(ctx context.Context, params *workos.CheckParams) (bool, error) {
	err := requireParams(params, "checking warrant")
	if err != nil {
		return false, err
	}

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method: "POST",
		Path:   fgaCheckPath,
		Body:   params,
	})
	if err != nil {
		return false, fmt.Errorf("checking warrant: %w", err)
	}

	var answer checkResponse

	err = json.Unmarshal(resp.Body, &answer)
	if err != nil {
		return false, fmt.Errorf("checking warrant: %w", workos.NewNetworkError(err))
	}

	switch {
	case answer.Allowed != nil:
		return *answer.Allowed, nil
	case answer.Result != nil:
		return *answer.Result == "authorized", nil
	default:
		return false, fmt.Errorf("checking warrant: %w", workos.NewOperationError(resp.StatusCode, workos.ErrNotAllowed))
	}
}

// BatchCheck implements workos.FGAClient.BatchCheck.
func (c *FGAClient) BatchCheck(ctx context.Context, checks []workos.CheckParams) ([]workos.CheckResult, error) {
	result, err := doJSON[[]workos.CheckResult](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   fgaCheckPath + "/batch",
		Body:   map[string][]workos.CheckParams{"checks": checks},
	}, "checking warrants")
	if err != nil {
		return nil, err
	}

	return *result, nil
}

// Query implements workos.FGAClient.Query.
func (c *FGAClient) Query(ctx context.Context, params *workos.QueryParams) (*workos.List[workos.QueryResult], error) {
	err := requireParams(params, "running query")
	if err != nil {
		return nil, err
	}

	query, err := http.EncodeQuery(params)
	if err != nil {
		return nil, fmt.Errorf("running query: %w", err)
	}

	return doJSON[workos.List[workos.QueryResult]](ctx, c.httpClient, &http.Request{
		Method:  "GET",
		Path:    fgaQueryPath,
		Query:   query,
		Headers: warrantTokenHeader(params.WarrantToken),
		Token:   params.Token,
	}, "running query")
}
