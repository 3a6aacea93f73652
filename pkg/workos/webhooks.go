package workos

import (
	"encoding/json"
	"fmt"
)

// VerificationType is the kind of verification reported by a webhook.
type VerificationType string

// Verification types.
const (
	VerificationTypeEmailVerification VerificationType = "email_verification"
)

// IsKnown implements Enum.
func (t VerificationType) IsKnown() bool {
	return t == VerificationTypeEmailVerification
}

// VerificationStatus is the outcome of a verification.
type VerificationStatus string

// Verification statuses.
const (
	VerificationSucceeded VerificationStatus = "succeeded"
	VerificationFailed    VerificationStatus = "failed"
	VerificationPending   VerificationStatus = "pending"
	VerificationCancelled VerificationStatus = "cancelled"
	VerificationExpired   VerificationStatus = "expired"
)

// IsKnown implements Enum.
func (s VerificationStatus) IsKnown() bool {
	switch s {
	case VerificationSucceeded, VerificationFailed, VerificationPending, VerificationCancelled, VerificationExpired:
		return true
	default:
		return false
	}
}

// Verification is the data of a verification webhook.
type Verification struct {
	Type      KnownOrUnknown[VerificationType]   `json:"type"            yaml:"type"`
	Status    KnownOrUnknown[VerificationStatus] `json:"status"          yaml:"status"`
	UserID    string                             `json:"user_id"         yaml:"user_id"`
	Email     *string                            `json:"email,omitempty" yaml:"email,omitempty"`
	IPAddress string                             `json:"ip_address"      yaml:"ip_address"`
	UserAgent string                             `json:"user_agent"      yaml:"user_agent"`
}

// ParseWebhook decodes a webhook request body. The signature header must be checked
// by the caller before trusting the result.
func ParseWebhook(body []byte) (*Event, error) {
	var event Event

	err := json.Unmarshal(body, &event)
	if err != nil {
		return nil, fmt.Errorf("parsing webhook: %w", err)
	}

	return &event, nil
}
