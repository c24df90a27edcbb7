package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MentorProfile struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Name         string    `gorm:"column:nombre;size:150;not null" json:"name"`
	Photo        string    `gorm:"column:foto;type:text" json:"photo"`
	Area         string    `gorm:"column:area_experiencia;size:150;not null" json:"area"`
	Years        int       `gorm:"column:anos_experiencia;not null" json:"years"`
	Availability Weekdays  `gorm:"column:disponibilidad" json:"availability"`
	Bio          string    `gorm:"column:descripcion;type:text" json:"bio"`
	Active       bool      `gorm:"column:activo;not null" json:"active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`
}

func (MentorProfile) TableName() string { return "mentor_profiles" }

func (p *MentorProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// SeekerProfile is persisted in the solicitante_profiles table.
type SeekerProfile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Name      string    `gorm:"column:nombre;size:150;not null" json:"name"`
	Age       int       `gorm:"column:edad;not null" json:"age"`
	Interest  string    `gorm:"column:area_interes;size:150;not null" json:"interest"`
	Bio       string    `gorm:"column:descripcion;type:text" json:"bio"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`
}

func (SeekerProfile) TableName() string { return "solicitante_profiles" }

func (p *SeekerProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
