package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// Session is the meeting created when a request is accepted. Stored in the
// sesiones table, one row per accepted request.
type Session struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID   uuid.UUID     `gorm:"column:solicitud_id;type:uuid;uniqueIndex;not null" json:"request_id"`
	MentorID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"mentor_id"`
	SeekerID    uuid.UUID     `gorm:"column:solicitante_id;type:uuid;not null;index" json:"seeker_id"`
	Date        time.Time     `gorm:"column:fecha;not null" json:"date"`
	MeetingLink string        `gorm:"column:enlace_meet;type:text;not null" json:"meeting_link"`
	Status      SessionStatus `gorm:"column:estado;type:varchar(20);not null" json:"status"`
	Notes       *string       `gorm:"column:notas;type:text" json:"notes,omitempty"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime" json:"updated_at"`

	Request *Request `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (Session) TableName() string { return "sesiones" }

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
