package workos

import (
	"context"
	"time"
)

// OrganizationsClient defines operations for organizations.
type OrganizationsClient interface {
	List(ctx context.Context, params *ListOrganizationsParams) (*List[Organization], error)
	Get(ctx context.Context, id string) (*Organization, error)
	GetByExternalID(ctx context.Context, externalID string) (*Organization, error)
	Create(ctx context.Context, params *CreateOrganizationParams) (*Organization, error)
	Update(ctx context.Context, id string, params *UpdateOrganizationParams) (*Organization, error)
	Delete(ctx context.Context, id string) error
}

// OrganizationDomainsClient defines operations for organization domains.
type OrganizationDomainsClient interface {
	Create(ctx context.Context, params *CreateOrganizationDomainParams) (*OrganizationDomain, error)
	Get(ctx context.Context, id string) (*OrganizationDomain, error)
	Verify(ctx context.Context, id string) (*OrganizationDomain, error)
	Delete(ctx context.Context, id string) error
}

// Timestamps are the creation and update times carried by most objects.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Metadata is caller-defined key/value data attached to an object.
type Metadata map[string]string

// Organization represents a WorkOS organization.
type Organization struct {
	ID                               string               `json:"id"                                  yaml:"id"`
	Name                             string               `json:"name"                                yaml:"name"`
	AllowProfilesOutsideOrganization bool                 `json:"allow_profiles_outside_organization" yaml:"allow_profiles_outside_organization"`
	Domains                          []OrganizationDomain `json:"domains"                             yaml:"domains"`
	StripeCustomerID                 *string              `json:"stripe_customer_id,omitempty"        yaml:"stripe_customer_id,omitempty"`
	ExternalID                       *string              `json:"external_id,omitempty"               yaml:"external_id,omitempty"`
	Metadata                         Metadata             `json:"metadata,omitempty"                  yaml:"metadata,omitempty"`
	Timestamps                       `yaml:",inline"`
}

// ListOrganizationsParams filters List.
type ListOrganizationsParams struct {
	PaginationParams

	Domains []string `url:"domains,omitempty"`
}

// DomainData is a domain submitted with an organization.
type DomainData struct {
	Domain string                  `json:"domain"`
	State  OrganizationDomainState `json:"state,omitempty"`
}

// CreateOrganizationParams is the body of Create.
type CreateOrganizationParams struct {
	Name       string       `json:"name"`
	DomainData []DomainData `json:"domain_data,omitempty"`
	ExternalID string       `json:"external_id,omitempty"`
	Metadata   Metadata     `json:"metadata,omitempty"`
}

// UpdateOrganizationParams is the body of Update.
type UpdateOrganizationParams struct {
	Name             string       `json:"name,omitempty"`
	DomainData       []DomainData `json:"domain_data,omitempty"`
	StripeCustomerID string       `json:"stripe_customer_id,omitempty"`
	ExternalID       string       `json:"external_id,omitempty"`
	Metadata         Metadata     `json:"metadata,omitempty"`
}

// OrganizationDomainState is the verification state of a domain.
type OrganizationDomainState string

// Organization domain states.
const (
	OrganizationDomainPending            OrganizationDomainState = "pending"
	OrganizationDomainVerified           OrganizationDomainState = "verified"
	OrganizationDomainFailed             OrganizationDomainState = "failed"
	OrganizationDomainLegacyVerified     OrganizationDomainState = "legacy_verified"
	OrganizationDomainVerificationFailed OrganizationDomainState = "verification_failed"
)

// IsKnown implements Enum.
func (s OrganizationDomainState) IsKnown() bool {
	switch s {
	case OrganizationDomainPending, OrganizationDomainVerified, OrganizationDomainFailed,
		OrganizationDomainLegacyVerified, OrganizationDomainVerificationFailed:
		return true
	default:
		return false
	}
}

// VerificationStrategy is how a domain is verified.
type VerificationStrategy string

// Verification strategies.
const (
	VerificationStrategyDNS    VerificationStrategy = "dns"
	VerificationStrategyManual VerificationStrategy = "manual"
)

// IsKnown implements Enum.
func (s VerificationStrategy) IsKnown() bool {
	return s == VerificationStrategyDNS || s == VerificationStrategyManual
}

// OrganizationDomain is a domain associated with an organization.
type OrganizationDomain struct {
	ID                   string                                 `json:"id"                              yaml:"id"`
	OrganizationID       string                                 `json:"organization_id"                 yaml:"organization_id"`
	Domain               string                                 `json:"domain"                          yaml:"domain"`
	State                KnownOrUnknown[OrganizationDomainState] `json:"state"                           yaml:"state"`
	VerificationStrategy *KnownOrUnknown[VerificationStrategy]   `json:"verification_strategy,omitempty" yaml:"verification_strategy,omitempty"`
	VerificationToken    *string                                `json:"verification_token,omitempty"    yaml:"verification_token,omitempty"`
	Timestamps           `yaml:",inline"`
}

// CreateOrganizationDomainParams is the body of OrganizationDomainsClient.Create.
type CreateOrganizationDomainParams struct {
	OrganizationID string `json:"organization_id"`
	Domain         string `json:"domain"`
}
