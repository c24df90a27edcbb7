package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/mentorship-backend/models"
)

type SessionService struct {
	db *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db}
}

// ListForUser returns the sessions userID takes part in on either side,
// soonest first, with both parties attached.
func (s *SessionService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.SessionView, error) {
	db := s.db.WithContext(ctx)

	var sessions []models.Session
	if err := db.Where("mentor_id = ? OR solicitante_id = ?", userID, userID).
		Order("fecha ASC").
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	mentorIDs := make([]uuid.UUID, 0, len(sessions))
	seekerIDs := make([]uuid.UUID, 0, len(sessions))
	for _, sess := range sessions {
		mentorIDs = append(mentorIDs, sess.MentorID)
		seekerIDs = append(seekerIDs, sess.SeekerID)
	}
	mentors, err := loadParties(db, mentorIDs, models.RoleMentor)
	if err != nil {
		return nil, err
	}
	seekers, err := loadParties(db, seekerIDs, models.RoleSeeker)
	if err != nil {
		return nil, err
	}

	views := make([]models.SessionView, 0, len(sessions))
	for _, sess := range sessions {
		views = append(views, models.SessionView{
			Session: sess,
			Mentor:  mentors[sess.MentorID],
			Seeker:  seekers[sess.SeekerID],
		})
	}
	return views, nil
}
