package workos

import (
	"context"
	"time"
)

// UserManagementClient defines operations for users, organization memberships and
// the device authorization flow.
type UserManagementClient interface {
	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context, params *ListUsersParams) (*List[User], error)

	ListOrganizationMemberships(ctx context.Context, params *ListOrganizationMembershipsParams) (*List[OrganizationMembership], error)
	GetOrganizationMembership(ctx context.Context, id string) (*OrganizationMembership, error)
	CreateOrganizationMembership(ctx context.Context, params *CreateOrganizationMembershipParams) (*OrganizationMembership, error)
	UpdateOrganizationMembership(ctx context.Context, id string, params *UpdateOrganizationMembershipParams) (*OrganizationMembership, error)
	DeleteOrganizationMembership(ctx context.Context, id string) error
	DeactivateOrganizationMembership(ctx context.Context, id string) (*OrganizationMembership, error)
	ReactivateOrganizationMembership(ctx context.Context, id string) (*OrganizationMembership, error)

	// GetDeviceAuthorizationURL starts a device authorization flow.
	GetDeviceAuthorizationURL(ctx context.Context, params *DeviceAuthorizationParams) (*DeviceAuthorization, error)
	// AuthenticateWithDeviceCode performs one token exchange attempt. While the user
	// has not finished, the error matches ErrAuthorizationPending or ErrSlowDown and
	// the caller decides when to try again.
	AuthenticateWithDeviceCode(ctx context.Context, params *AuthenticateWithDeviceCodeParams) (*AuthenticationResponse, error)
}

// User is an AuthKit user.
type User struct {
	ID                string     `json:"id"                            yaml:"id"`
	Email             string     `json:"email"                         yaml:"email"`
	EmailVerified     bool       `json:"email_verified"                yaml:"email_verified"`
	FirstName         *string    `json:"first_name,omitempty"          yaml:"first_name,omitempty"`
	LastName          *string    `json:"last_name,omitempty"           yaml:"last_name,omitempty"`
	ProfilePictureURL *string    `json:"profile_picture_url,omitempty" yaml:"profile_picture_url,omitempty"`
	LastSignInAt      *time.Time `json:"last_sign_in_at,omitempty"     yaml:"last_sign_in_at,omitempty"`
	ExternalID        *string    `json:"external_id,omitempty"         yaml:"external_id,omitempty"`
	Metadata          Metadata   `json:"metadata,omitempty"            yaml:"metadata,omitempty"`
	Timestamps        `yaml:",inline"`
}

// ListUsersParams filters ListUsers.
type ListUsersParams struct {
	PaginationParams

	Email          string `url:"email,omitempty"`
	OrganizationID string `url:"organization_id,omitempty"`
}

// OrganizationMembershipStatus is the status of a membership.
type OrganizationMembershipStatus string

// Organization membership statuses.
const (
	OrganizationMembershipActive   OrganizationMembershipStatus = "active"
	OrganizationMembershipInactive OrganizationMembershipStatus = "inactive"
	OrganizationMembershipPending  OrganizationMembershipStatus = "pending"
)

// IsKnown implements Enum.
func (s OrganizationMembershipStatus) IsKnown() bool {
	switch s {
	case OrganizationMembershipActive, OrganizationMembershipInactive, OrganizationMembershipPending:
		return true
	default:
		return false
	}
}

// RoleSlug references a role by slug.
type RoleSlug struct {
	Slug string `json:"slug" yaml:"slug"`
}

// OrganizationMembership links a user to an organization.
type OrganizationMembership struct {
	ID             string                                       `json:"id"              yaml:"id"`
	UserID         string                                       `json:"user_id"         yaml:"user_id"`
	OrganizationID string                                       `json:"organization_id" yaml:"organization_id"`
	Role           RoleSlug                                     `json:"role"            yaml:"role"`
	Status         KnownOrUnknown[OrganizationMembershipStatus] `json:"status"          yaml:"status"`
	Timestamps     `yaml:",inline"`
}

// ListOrganizationMembershipsParams filters ListOrganizationMemberships. Set exactly
// one of OrganizationID and UserID.
type ListOrganizationMembershipsParams struct {
	PaginationParams

	OrganizationID string `url:"organization_id,omitempty"`
	UserID         string `url:"user_id,omitempty"`
	// Statuses are sent comma-joined.
	Statuses []OrganizationMembershipStatus `url:"statuses,comma,omitempty"`
}

// CreateOrganizationMembershipParams is the body of CreateOrganizationMembership.
type CreateOrganizationMembershipParams struct {
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	RoleSlug       string `json:"role_slug,omitempty"`
}

// UpdateOrganizationMembershipParams is the body of UpdateOrganizationMembership.
type UpdateOrganizationMembershipParams struct {
	RoleSlug string `json:"role_slug"`
}

// DeviceAuthorizationParams is the form body of GetDeviceAuthorizationURL.
type DeviceAuthorizationParams struct {
	ClientID string `url:"client_id"`
}

// DeviceAuthorization is the start of a device authorization flow.
type DeviceAuthorization struct {
	DeviceCode              string `json:"device_code"               yaml:"device_code"`
	UserCode                string `json:"user_code"                 yaml:"user_code"`
	VerificationURI         string `json:"verification_uri"          yaml:"verification_uri"`
	VerificationURIComplete string `json:"verification_uri_complete" yaml:"verification_uri_complete"`
	// ExpiresIn and Interval are in seconds.
	ExpiresIn int `json:"expires_in" yaml:"expires_in"`
	Interval  int `json:"interval"   yaml:"interval"`
}

// AuthenticateWithDeviceCodeParams identifies the device code to exchange.
type AuthenticateWithDeviceCodeParams struct {
	ClientID   string `json:"client_id"`
	DeviceCode string `json:"device_code"`
}

// Impersonator describes who is impersonating the user, when applicable.
type Impersonator struct {
	Email  string  `json:"email"            yaml:"email"`
	Reason *string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// AuthenticationResponse is the result of a successful authentication.
type AuthenticationResponse struct {
	User                 User          `json:"user"                            yaml:"user"`
	OrganizationID       *string       `json:"organization_id,omitempty"       yaml:"organization_id,omitempty"`
	AccessToken          string        `json:"access_token"                    yaml:"access_token"`
	RefreshToken         string        `json:"refresh_token"                   yaml:"refresh_token"`
	AuthenticationMethod string        `json:"authentication_method,omitempty" yaml:"authentication_method,omitempty"`
	Impersonator         *Impersonator `json:"impersonator,omitempty"          yaml:"impersonator,omitempty"`
}
