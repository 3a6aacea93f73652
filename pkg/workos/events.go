package workos

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// EventsClient defines operations for the events API.
type EventsClient interface {
	List(ctx context.Context, params *ListEventsParams) (*List[Event], error)
}

// EventName is the "event" discriminant of an event.
type EventName string

// Event names with typed payloads.
const (
	EventOrganizationDomainCreated            EventName = "organization_domain.created"
	EventOrganizationDomainUpdated            EventName = "organization_domain.updated"
	EventOrganizationDomainDeleted            EventName = "organization_domain.deleted"
	EventOrganizationDomainVerificationFailed EventName = "organization_domain.verification_failed"
)

// IsKnown implements Enum.
func (n EventName) IsKnown() bool {
	switch n {
	case EventOrganizationDomainCreated, EventOrganizationDomainUpdated,
		EventOrganizationDomainDeleted, EventOrganizationDomainVerificationFailed:
		return true
	default:
		return false
	}
}

// Event is an event from the events API or a webhook delivery. Data is kept raw;
// Payload decodes it for known event names.
type Event struct {
	ID        string                    `json:"id"         yaml:"id"`
	Event     KnownOrUnknown[EventName] `json:"event"      yaml:"event"`
	Data      json.RawMessage           `json:"data"       yaml:"-"`
	CreatedAt time.Time                 `json:"created_at" yaml:"created_at"`
}

// OrganizationDomainCreatedEvent is the payload of organization_domain.created.
type OrganizationDomainCreatedEvent struct{ OrganizationDomain }

// OrganizationDomainUpdatedEvent is the payload of organization_domain.updated.
type OrganizationDomainUpdatedEvent struct{ OrganizationDomain }

// OrganizationDomainDeletedEvent is the payload of organization_domain.deleted.
type OrganizationDomainDeletedEvent struct{ OrganizationDomain }

// OrganizationDomainVerificationFailedEvent is the payload of
// organization_domain.verification_failed.
type OrganizationDomainVerificationFailedEvent struct{ OrganizationDomain }

// Payload decodes Data into the typed payload for the event name. Unknown event
// names return the raw data unchanged.
func (e *Event) Payload() (any, error) {
	var (
		target any
		domain OrganizationDomain
	)

	err := json.Unmarshal(e.Data, &domain)

	name, _ := e.Event.Known()
	switch name {
	case EventOrganizationDomainCreated:
		target = &OrganizationDomainCreatedEvent{domain}
	case EventOrganizationDomainUpdated:
		target = &OrganizationDomainUpdatedEvent{domain}
	case EventOrganizationDomainDeleted:
		target = &OrganizationDomainDeletedEvent{domain}
	case EventOrganizationDomainVerificationFailed:
		target = &OrganizationDomainVerificationFailedEvent{domain}
	default:
		return e.Data, nil
	}

	if err != nil {
		return nil, fmt.Errorf("decoding %s payload: %w", e.Event, err)
	}

	return target, nil
}

// ListEventsParams filters List. The events API pages forward only.
type ListEventsParams struct {
	Events         []string  `url:"events,omitempty"`
	OrganizationID string    `url:"organization_id,omitempty"`
	RangeStart     time.Time `url:"range_start,omitempty"`
	RangeEnd       time.Time `url:"range_end,omitempty"`
	Limit          int       `url:"limit,omitempty"`
	After          string    `url:"after,omitempty"`
}
