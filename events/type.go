package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	RoleAssigned       EventType = "user.role_assigned"
	MentorProfileSaved EventType = "mentor_profile.saved"
	RequestCreated     EventType = "request.created"
	RequestAccepted    EventType = "request.accepted"
	RequestRejected    EventType = "request.rejected"
)

// Event describes a change that dashboards of the involved users should
// reload. It carries identifiers only; ids that do not apply are the nil
// UUID.
type Event struct {
	Type       EventType `json:"type"`
	UserID     uuid.UUID `json:"user_id"`
	RequestID  uuid.UUID `json:"request_id"`
	SessionID  uuid.UUID `json:"session_id"`
	MentorID   uuid.UUID `json:"mentor_id"`
	SeekerID   uuid.UUID `json:"seeker_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Recipients returns the users whose views are affected by the event.
func (e Event) Recipients() []uuid.UUID {
	var out []uuid.UUID
	for _, id := range []uuid.UUID{e.UserID, e.MentorID, e.SeekerID} {
		if id == uuid.Nil {
			continue
		}
		dup := false
		for _, seen := range out {
			if seen == id {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, id)
		}
	}
	return out
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to every publisher and returns the first error.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var first error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
