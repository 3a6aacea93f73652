package workos

import (
	"context"
)

// DirectorySyncClient defines operations for directories, directory users and groups.
type DirectorySyncClient interface {
	ListDirectories(ctx context.Context, params *ListDirectoriesParams) (*List[Directory], error)
	GetDirectory(ctx context.Context, id string) (*Directory, error)
	DeleteDirectory(ctx context.Context, id string) error

	ListUsers(ctx context.Context, params *ListDirectoryUsersParams) (*List[DirectoryUser], error)
	GetUser(ctx context.Context, id string) (*DirectoryUser, error)

	ListGroups(ctx context.Context, params *ListDirectoryGroupsParams) (*List[DirectoryGroup], error)
	GetGroup(ctx context.Context, id string) (*DirectoryGroup, error)
}

// DirectoryState is the link state of a directory.
type DirectoryState string

// Directory states.
const (
	DirectoryStateLinked             DirectoryState = "linked"
	DirectoryStateUnlinked           DirectoryState = "unlinked"
	DirectoryStateInvalidCredentials DirectoryState = "invalid_credentials"
	DirectoryStateDeleting           DirectoryState = "deleting"
)

// IsKnown implements Enum.
func (s DirectoryState) IsKnown() bool {
	switch s {
	case DirectoryStateLinked, DirectoryStateUnlinked, DirectoryStateInvalidCredentials, DirectoryStateDeleting:
		return true
	default:
		return false
	}
}

// Directory is a directory sync connection.
type Directory struct {
	ID             string                         `json:"id"                        yaml:"id"`
	OrganizationID *string                        `json:"organization_id,omitempty" yaml:"organization_id,omitempty"`
	Name           string                         `json:"name"                      yaml:"name"`
	Domain         *string                        `json:"domain,omitempty"          yaml:"domain,omitempty"`
	Type           string                         `json:"type"                      yaml:"type"`
	State          KnownOrUnknown[DirectoryState] `json:"state"                     yaml:"state"`
	Timestamps     `yaml:",inline"`
}

// ListDirectoriesParams filters ListDirectories.
type ListDirectoriesParams struct {
	PaginationParams

	OrganizationID string `url:"organization_id,omitempty"`
	Search         string `url:"search,omitempty"`
}

// DirectoryUserState is the provisioning state of a directory user.
type DirectoryUserState string

// Directory user states.
const (
	DirectoryUserActive    DirectoryUserState = "active"
	DirectoryUserInactive  DirectoryUserState = "inactive"
	DirectoryUserSuspended DirectoryUserState = "suspended"
)

// IsKnown implements Enum.
func (s DirectoryUserState) IsKnown() bool {
	switch s {
	case DirectoryUserActive, DirectoryUserInactive, DirectoryUserSuspended:
		return true
	default:
		return false
	}
}

// DirectoryUserEmail is one email of a directory user.
type DirectoryUserEmail struct {
	Primary *bool   `json:"primary,omitempty" yaml:"primary,omitempty"`
	Type    *string `json:"type,omitempty"    yaml:"type,omitempty"`
	Value   *string `json:"value,omitempty"   yaml:"value,omitempty"`
}

// DirectoryUser is a user provisioned from a directory.
type DirectoryUser struct {
	ID               string                             `json:"id"                        yaml:"id"`
	IdpID            string                             `json:"idp_id"                    yaml:"idp_id"`
	DirectoryID      string                             `json:"directory_id"              yaml:"directory_id"`
	OrganizationID   *string                            `json:"organization_id,omitempty" yaml:"organization_id,omitempty"`
	FirstName        *string                            `json:"first_name,omitempty"      yaml:"first_name,omitempty"`
	LastName         *string                            `json:"last_name,omitempty"       yaml:"last_name,omitempty"`
	Emails           []DirectoryUserEmail               `json:"emails"                    yaml:"emails"`
	Groups           []DirectoryGroup                   `json:"groups"                    yaml:"groups"`
	State            KnownOrUnknown[DirectoryUserState] `json:"state"                     yaml:"state"`
	CustomAttributes map[string]any                     `json:"custom_attributes"         yaml:"custom_attributes"`
	Role             *RoleSlug                          `json:"role,omitempty"            yaml:"role,omitempty"`
	Timestamps       `yaml:",inline"`
}

// PrimaryEmail returns the primary email, or "" when none is marked primary.
func (u *DirectoryUser) PrimaryEmail() string {
	for _, email := range u.Emails {
		if email.Primary != nil && *email.Primary && email.Value != nil {
			return *email.Value
		}
	}

	return ""
}

// ListDirectoryUsersParams filters ListUsers. Set one of Directory and Group.
type ListDirectoryUsersParams struct {
	PaginationParams

	Directory string `url:"directory,omitempty"`
	Group     string `url:"group,omitempty"`
}

// DirectoryGroup is a group provisioned from a directory.
type DirectoryGroup struct {
	ID             string         `json:"id"                        yaml:"id"`
	IdpID          string         `json:"idp_id"                    yaml:"idp_id"`
	DirectoryID    string         `json:"directory_id"              yaml:"directory_id"`
	OrganizationID *string        `json:"organization_id,omitempty" yaml:"organization_id,omitempty"`
	Name           string         `json:"name"                      yaml:"name"`
	RawAttributes  map[string]any `json:"raw_attributes,omitempty"  yaml:"raw_attributes,omitempty"`
	Timestamps     `yaml:",inline"`
}

// ListDirectoryGroupsParams filters ListGroups. Set one of Directory and User.
type ListDirectoryGroupsParams struct {
	PaginationParams

	Directory string `url:"directory,omitempty"`
	User      string `url:"user,omitempty"`
}
