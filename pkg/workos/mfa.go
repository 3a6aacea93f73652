package workos

import (
	"context"
	"time"
)

// MFAClient defines operations for multi-factor authentication factors.
type MFAClient interface {
	EnrollFactor(ctx context.Context, params *EnrollFactorParams) (*AuthenticationFactor, error)
	ChallengeFactor(ctx context.Context, factorID string, params *ChallengeFactorParams) (*AuthenticationChallenge, error)
	VerifyChallenge(ctx context.Context, challengeID string, code string) (*VerifyChallengeResponse, error)
	GetFactor(ctx context.Context, id string) (*AuthenticationFactor, error)
	DeleteFactor(ctx context.Context, id string) error
}

// AuthenticationFactorType is the kind of factor.
type AuthenticationFactorType string

// Factor types.
const (
	FactorTypeTOTP AuthenticationFactorType = "totp"
	FactorTypeSMS  AuthenticationFactorType = "sms"
)

// IsKnown implements Enum.
func (t AuthenticationFactorType) IsKnown() bool {
	return t == FactorTypeTOTP || t == FactorTypeSMS
}

// TOTPFactor holds the enrollment details of a TOTP factor. Secret, QRCode and URI
// are only returned on enrollment.
type TOTPFactor struct {
	Issuer string `json:"issuer"            yaml:"issuer"`
	User   string `json:"user"              yaml:"user"`
	QRCode string `json:"qr_code,omitempty" yaml:"qr_code,omitempty"`
	Secret string `json:"secret,omitempty"  yaml:"secret,omitempty"`
	URI    string `json:"uri,omitempty"     yaml:"uri,omitempty"`
}

// SMSFactor holds the phone number of an SMS factor.
type SMSFactor struct {
	PhoneNumber string `json:"phone_number" yaml:"phone_number"`
}

// AuthenticationFactor is an enrolled factor.
type AuthenticationFactor struct {
	ID         string                                   `json:"id"                yaml:"id"`
	Type       KnownOrUnknown[AuthenticationFactorType] `json:"type"              yaml:"type"`
	UserID     *string                                  `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	TOTP       *TOTPFactor                              `json:"totp,omitempty"    yaml:"totp,omitempty"`
	SMS        *SMSFactor                               `json:"sms,omitempty"     yaml:"sms,omitempty"`
	Timestamps `yaml:",inline"`
}

// EnrollFactorParams is the body of EnrollFactor.
type EnrollFactorParams struct {
	Type        AuthenticationFactorType `json:"type"`
	TOTPIssuer  string                   `json:"totp_issuer,omitempty"`
	TOTPUser    string                   `json:"totp_user,omitempty"`
	PhoneNumber string                   `json:"phone_number,omitempty"`
}

// ChallengeFactorParams is the body of ChallengeFactor.
type ChallengeFactorParams struct {
	SMSTemplate string `json:"sms_template,omitempty"`
}

// AuthenticationChallenge is an outstanding challenge against a factor.
type AuthenticationChallenge struct {
	ID                     string     `json:"id"                         yaml:"id"`
	AuthenticationFactorID string     `json:"authentication_factor_id"   yaml:"authentication_factor_id"`
	ExpiresAt              *time.Time `json:"expires_at,omitempty"       yaml:"expires_at,omitempty"`
	Code                   *string    `json:"code,omitempty"             yaml:"code,omitempty"`
	Timestamps             `yaml:",inline"`
}

// VerifyChallengeResponse reports whether the submitted code was valid.
type VerifyChallengeResponse struct {
	Challenge AuthenticationChallenge `json:"challenge" yaml:"challenge"`
	Valid     bool                    `json:"valid"     yaml:"valid"`
}
