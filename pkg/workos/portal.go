package workos

import "context"

// PortalClient defines Admin Portal operations.
type PortalClient interface {
	GenerateLink(ctx context.Context, params *GeneratePortalLinkParams) (*PortalLink, error)
}

// WidgetsClient defines widget token operations.
type WidgetsClient interface {
	GetToken(ctx context.Context, params *WidgetTokenParams) (*WidgetToken, error)
}

// PortalIntent selects what the Admin Portal session is for.
type PortalIntent string

// Admin Portal intents.
const (
	PortalIntentSSO                PortalIntent = "sso"
	PortalIntentDirectorySync      PortalIntent = "dsync"
	PortalIntentAuditLogs          PortalIntent = "audit_logs"
	PortalIntentLogStreams         PortalIntent = "log_streams"
	PortalIntentDomainVerification PortalIntent = "domain_verification"
	PortalIntentCertificateRenewal PortalIntent = "certificate_renewal"
)

// PortalIntents lists every intent.
var PortalIntents = []PortalIntent{
	PortalIntentSSO,
	PortalIntentDirectorySync,
	PortalIntentAuditLogs,
	PortalIntentLogStreams,
	PortalIntentDomainVerification,
	PortalIntentCertificateRenewal,
}

// IsKnown implements Enum.
func (i PortalIntent) IsKnown() bool {
	for _, known := range PortalIntents {
		if i == known {
			return true
		}
	}

	return false
}

// GeneratePortalLinkParams is the body of GenerateLink.
type GeneratePortalLinkParams struct {
	OrganizationID string       `json:"organization"`
	Intent         PortalIntent `json:"intent"`
	ReturnURL      string       `json:"return_url,omitempty"`
	SuccessURL     string       `json:"success_url,omitempty"`
}

// PortalLink is an ephemeral Admin Portal link.
type PortalLink struct {
	Link string `json:"link" yaml:"link"`
}

// WidgetScope grants a widget token access to one widget.
type WidgetScope string

// Widget scopes.
const (
	WidgetScopeUsersTableManage         WidgetScope = "widgets:users-table:manage"
	WidgetScopeSSOManage                WidgetScope = "widgets:sso:manage"
	WidgetScopeDomainVerificationManage WidgetScope = "widgets:domain-verification:manage"
)

// IsKnown implements Enum.
func (s WidgetScope) IsKnown() bool {
	switch s {
	case WidgetScopeUsersTableManage, WidgetScopeSSOManage, WidgetScopeDomainVerificationManage:
		return true
	default:
		return false
	}
}

// WidgetTokenParams is the body of GetToken.
type WidgetTokenParams struct {
	OrganizationID string        `json:"organization_id"`
	UserID         string        `json:"user_id,omitempty"`
	Scopes         []WidgetScope `json:"scopes,omitempty"`
}

// WidgetToken is a short-lived token for embedding widgets.
type WidgetToken struct {
	Token string `json:"token" yaml:"token"`
}
