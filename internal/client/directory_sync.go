package client

import (
	"context"

	"github.com/fivetwenty-io/workos-client/internal/http"
	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

const (
	directoriesPath     = "/directories"
	directoryUsersPath  = "/directory_users"
	directoryGroupsPath = "/directory_groups"
)

// DirectorySyncClient implements workos.DirectorySyncClient.
type DirectorySyncClient struct {
	httpClient *http.Client
}

// NewDirectorySyncClient creates a new directory sync client.
func NewDirectorySyncClient(httpClient *http.Client) *DirectorySyncClient {
	return &DirectorySyncClient{
		httpClient: httpClient,
	}
}

// ListDirectories implements workos.DirectorySyncClient.ListDirectories.
func (c *DirectorySyncClient) ListDirectories(ctx context.Context, params *workos.ListDirectoriesParams) (*workos.List[workos.Directory], error) {
	return listPage[workos.Directory](ctx, c.httpClient, directoriesPath, params, nil, "listing directories")
}

// GetDirectory implements workos.DirectorySyncClient.GetDirectory.
func (c *DirectorySyncClient) GetDirectory(ctx context.Context, id string) (*workos.Directory, error) {
	return doJSON[workos.Directory](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   resourcePath(directoriesPath, id),
	}, "getting directory")
}

// DeleteDirectory implements workos.DirectorySyncClient.DeleteDirectory.
func (c *DirectorySyncClient) DeleteDirectory(ctx context.Context, id string) error {
	return doEmpty(ctx, c.httpClient, &http.Request{
		Method: "DELETE",
		Path:   resourcePath(directoriesPath, id),
	}, "deleting directory")
}

// ListUsers implements workos.DirectorySyncClient.ListUsers.
func (c *DirectorySyncClient) ListUsers(ctx context.Context, params *workos.ListDirectoryUsersParams) (*workos.List[workos.DirectoryUser], error) {
	return listPage[workos.DirectoryUser](ctx, c.httpClient, directoryUsersPath, params, nil, "listing directory users")
}

// GetUser implements workos.DirectorySyncClient.GetUser.
func (c *DirectorySyncClient) GetUser(ctx context.Context, id string) (*workos.DirectoryUser, error) {
	return doJSON[workos.DirectoryUser](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   resourcePath(directoryUsersPath, id),
	}, "getting directory user")
}

// ListGroups implements workos.DirectorySyncClient.ListGroups.
func (c *DirectorySyncClient) ListGroups(ctx context.Context, params *workos.ListDirectoryGroupsParams) (*workos.List[workos.DirectoryGroup], error) {
	return listPage[workos.DirectoryGroup](ctx, c.httpClient, directoryGroupsPath, params, nil, "listing directory groups")
}

// GetGroup implements workos.DirectorySyncClient.GetGroup.
func (c *DirectorySyncClient) GetGroup(ctx context.Context, id string) (*workos.DirectoryGroup, error) {
	return doJSON[workos.DirectoryGroup](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   resourcePath(directoryGroupsPath, id),
	}, "getting directory group")
}
