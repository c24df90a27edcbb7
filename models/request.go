package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// IsTerminal reports whether no further transition is possible.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestAccepted || s == RequestRejected
}

// Request is a seeker's ask to one mentor, stored in the solicitudes table.
type Request struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	SeekerID    uuid.UUID     `gorm:"column:solicitante_id;type:uuid;not null;index" json:"seeker_id"`
	MentorID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"mentor_id"`
	Status      RequestStatus `gorm:"column:estado;type:varchar(20);not null" json:"status"`
	Message     string        `gorm:"column:mensaje;type:text;not null" json:"message"`
	MeetingLink *string       `gorm:"column:enlace_meet;type:text" json:"meeting_link,omitempty"`
	SessionDate *time.Time    `gorm:"column:fecha_sesion" json:"session_date,omitempty"`
	CreatedAt   time.Time     `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime" json:"updated_at"`

	Seeker *User `gorm:"foreignKey:SeekerID;constraint:OnDelete:CASCADE;" json:"-"`
	Mentor *User `gorm:"foreignKey:MentorID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (Request) TableName() string { return "solicitudes" }

func (r *Request) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
