package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/workos-client/internal/constants"
	"github.com/fivetwenty-io/workos-client/internal/http"
	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

const (
	usersPath       = "/user_management/users"
	membershipsPath = "/user_management/organization_memberships"
)

// UserManagementClient implements workos.UserManagementClient.
type UserManagementClient struct {
	httpClient *http.Client
}

// NewUserManagementClient creates a new user management client.
func NewUserManagementClient(httpClient *http.Client) *UserManagementClient {
	return &UserManagementClient{
		httpClient: httpClient,
	}
}

// GetUser implements workos.UserManagementClient.GetUser.
func (c *UserManagementClient) GetUser(ctx context.Context, id string) (*workos.User, error) {
	return doJSON[workos.User](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   resourcePath(usersPath, id),
	}, "getting user")
}

// ListUsers implements workos.UserManagementClient.ListUsers.
func (c *UserManagementClient) ListUsers(ctx context.Context, params *workos.ListUsersParams) (*workos.List[workos.User], error) {
	return listPage[workos.User](ctx, c.httpClient, usersPath, params, nil, "listing users")
}

// ListOrganizationMemberships implements workos.UserManagementClient.ListOrganizationMemberships.
func (c *UserManagementClient) ListOrganizationMemberships(
	ctx context.Context,
	params *workos.ListOrganizationMembershipsParams,
) (*workos.List[workos.OrganizationMembership], error) {
	return listPage[workos.OrganizationMembership](ctx, c.httpClient, membershipsPath, params, nil, "listing organization memberships")
}

// GetOrganizationMembership implements workos.UserManagementClient.GetOrganizationMembership.
func (c *UserManagementClient) GetOrganizationMembership(ctx context.Context, id string) (*workos.OrganizationMembership, error) {
	return doJSON[workos.OrganizationMembership](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   resourcePath(membershipsPath, id),
	}, "getting organization membership")
}

// CreateOrganizationMembership implements workos.UserManagementClient.CreateOrganizationMembership.
func (c *UserManagementClient) CreateOrganizationMembership(
	ctx context.Context,
	params *workos.CreateOrganizationMembershipParams,
) (*workos.OrganizationMembership, error) {
	err := requireParams(params, "creating organization membership")
	if err != nil {
		return nil, err
	}

	return doJSON[workos.OrganizationMembership](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   membershipsPath,
		Body:   params,
	}, "creating organization membership")
}

// UpdateOrganizationMembership implements workos.UserManagementClient.UpdateOrganizationMembership.
func (c *UserManagementClient) UpdateOrganizationMembership(
	ctx context.Context,
	id string,
	params *workos.UpdateOrganizationMembershipParams,
) (*workos.OrganizationMembership, error) {
	err := requireParams(params, "updating organization membership")
	if err != nil {
		return nil, err
	}

	return doJSON[workos.OrganizationMembership](ctx, c.httpClient, &http.Request{
		Method: "PUT",
		Path:   resourcePath(membershipsPath, id),
		Body:   params,
	}, "updating organization membership")
}

// DeleteOrganizationMembership implements workos.UserManagementClient.DeleteOrganizationMembership.
func (c *UserManagementClient) DeleteOrganizationMembership(ctx context.Context, id string) error {
	return doEmpty(ctx, c.httpClient, &http.Request{
		Method: "DELETE",
		Path:   resourcePath(membershipsPath, id),
	}, "deleting organization membership")
}

// DeactivateOrganizationMembership implements workos.UserManagementClient.DeactivateOrganizationMembership.
func (c *UserManagementClient) DeactivateOrganizationMembership(ctx context.Context, id string) (*workos.OrganizationMembership, error) {
	return doJSON[workos.OrganizationMembership](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   resourcePath(membershipsPath, id, "deactivate"),
	}, "deactivating organization membership")
}

// ReactivateOrganizationMembership implements workos.UserManagementClient.ReactivateOrganizationMembership.
func (c *UserManagementClient) ReactivateOrganizationMembership(ctx context.Context, id string) (*workos.OrganizationMembership, error) {
	return doJSON[workos.OrganizationMembership](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   resourcePath(membershipsPath, id, "reactivate"),
	}, "reactivating organization membership")
}

// GetDeviceAuthorizationURL implements workos.UserManagementClient.GetDeviceAuthorizationURL.
func (c *UserManagementClient) GetDeviceAuthorizationURL(
	ctx context.Context,
	params *workos.DeviceAuthorizationParams,
) (*workos.DeviceAuthorization, error) {
	if params == nil || params.ClientID == "" {
		return nil, workos.NewURLError(workos.ErrClientIDRequired)
	}

	form, err := http.EncodeQuery(params)
	if err != nil {
		return nil, fmt.Errorf("starting device authorization: %w", err)
	}

	return doJSON[workos.DeviceAuthorization](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   "/user_management/authorize/device",
		Form:   form,
	}, "starting device authorization")
}

// deviceCodeRequest is the body of the device code token exchange.
type deviceCodeRequest struct {
	GrantType  string `json:"grant_type"`
	ClientID   string `json:"client_id"`
	DeviceCode string `json:"device_code"`
}

// AuthenticateWithDeviceCode implements workos.UserManagementClient.AuthenticateWithDeviceCode.
// The exchange is unauthenticated; the client ID identifies the caller.
func (c *UserManagementClient) AuthenticateWithDeviceCode(
	ctx context.Context,
	params *workos.AuthenticateWithDeviceCodeParams,
) (*workos.AuthenticationResponse, error) {
	if params == nil || params.ClientID == "" {
		return nil, workos.NewURLError(workos.ErrClientIDRequired)
	}

	return doJSON[workos.AuthenticationResponse](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   "/user_management/authenticate",
		Body: deviceCodeRequest{
			GrantType:  constants.DeviceCodeGrantType,
			ClientID:   params.ClientID,
			DeviceCode: params.DeviceCode,
		},
		NoAuth:   true,
		Classify: workos.ClassifyDeviceCodeResponse,
	}, "authenticating with device code")
}
