package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action names the registry operation an audit event records.
type Action string

const (
	ActionAgreementCreated     Action = "agreement_created"
	ActionAgreementUpdated     Action = "agreement_updated"
	ActionAuthoritySet         Action = "authority_set"
	ActionCreationFeeChanged   Action = "creation_fee_changed"
	ActionMaxAgreementsChanged Action = "max_agreements_changed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Action      Action    `json:"action"`
	Actor       string    `json:"actor"`
	AgreementID uint64    `json:"agreement_id,omitempty"`
	Height      uint64    `json:"height,omitempty"`
	Detail      string    `json:"detail,omitempty"`
}

// NewEvent stamps an event with an id and the current time.
func NewEvent(action Action, actor string) Event {
	return Event{
		ID:        uuid.New(),
		Timestamp: time.Now(),
		Action:    action,
		Actor:     actor,
	}
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// Publisher delivers events to a sink. Implementations decide whether
// delivery is best effort or fail-closed; the registry treats audit
// emission as best effort and never fails an admitted operation over it.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}
