package models

import "github.com/google/uuid"

// Party is the presentation data of one side of a request or session.
type Party struct {
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Image       string    `json:"image"`
	ProfileName string    `json:"profile_name,omitempty"`
	Area        string    `json:"area,omitempty"`
}

// RequestView is a request joined with the party on the other side.
type RequestView struct {
	Request
	Counterpart Party `json:"counterpart"`
}

type SessionView struct {
	Session
	Mentor Party `json:"mentor"`
	Seeker Party `json:"seeker"`
}

// AllModels lists every persisted model in migration order.
func AllModels() []any {
	return []any{
		&User{},
		&MentorProfile{},
		&SeekerProfile{},
		&Request{},
		&Session{},
	}
}

// TableNames are the tables checked by health and diagnostics.
var TableNames = []string{"users", "mentor_profiles", "solicitante_profiles", "solicitudes", "sesiones"}
