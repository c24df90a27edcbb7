package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/mentorship-backend/events"
	"github.com/vnkhanh/mentorship-backend/models"
)

// SessionDateLayout is the layout of a datetime-local form value.
const SessionDateLayout = "2006-01-02T15:04"

const meetingLinkBase = "https://meet.google.com/"

type CreateRequestInput struct {
	MentorID uuid.UUID `json:"mentor_id"`
	Message  string    `json:"message" validate:"required,max=2000"`
}

type RequestService struct {
	db      *gorm.DB
	events  events.Publisher
	now     func() time.Time
	loc     *time.Location
	newLink func() string
}

func NewRequestService(db *gorm.DB, publisher events.Publisher, now func() time.Time, loc *time.Location) *RequestService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &RequestService{db: db, events: publisher, now: now, loc: loc, newLink: NewMeetingLink}
}

// NewMeetingLink returns a placeholder video call URL with a random code in
// the xxx-xxxx-xxx shape.
func NewMeetingLink() string {
	code := strings.ReplaceAll(uuid.NewString(), "-", "")
	return meetingLinkBase + code[0:3] + "-" + code[3:7] + "-" + code[7:10]
}

// Create records a pending request from a seeker to a mentor.
func (s *RequestService) Create(ctx context.Context, seekerID uuid.UUID, in CreateRequestInput) (*models.Request, error) {
	in.Message = strings.TrimSpace(in.Message)
	vErr := checkStruct(in)
	if in.MentorID == uuid.Nil {
		vErr.add("mentor_id", "is required")
	}
	if vErr.HasErrors() {
		return nil, vErr
	}

	db := s.db.WithContext(ctx)
	var seeker models.User
	if err := db.First(&seeker, "id = ?", seekerID).Error; err != nil {
		return nil, notFound(err, "load seeker")
	}
	if seeker.Role != models.RoleSeeker {
		return nil, ErrForbidden
	}

	var mentor models.User
	if err := db.First(&mentor, "id = ?", in.MentorID).Error; err != nil {
		return nil, notFound(err, "load mentor")
	}
	if mentor.Role != models.RoleMentor {
		return nil, ErrNotFound
	}
	var active int64
	if err := db.Model(&models.MentorProfile{}).Where("user_id = ? AND activo = ?", mentor.ID, true).Count(&active).Error; err != nil {
		return nil, fmt.Errorf("check mentor profile: %w", err)
	}
	if active == 0 {
		return nil, ErrNotFound
	}

	request := models.Request{
		SeekerID:  seeker.ID,
		MentorID:  mentor.ID,
		Status:    models.RequestPending,
		Message:   in.Message,
		CreatedAt: s.now(),
	}
	if err := db.Create(&request).Error; err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	publish(ctx, s.events, events.Event{
		Type:       events.RequestCreated,
		RequestID:  request.ID,
		MentorID:   request.MentorID,
		SeekerID:   request.SeekerID,
		OccurredAt: s.now(),
	})
	return &request, nil
}

// Reject moves a pending request addressed to mentorID to rejected.
func (s *RequestService) Reject(ctx context.Context, mentorID, requestID uuid.UUID) (*models.Request, error) {
	var request models.Request
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Request{}).
			Where("id = ? AND mentor_id = ? AND estado = ?", requestID, mentorID, models.RequestPending).
			Update("estado", models.RequestRejected)
		if res.Error != nil {
			return fmt.Errorf("reject request: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return explainMiss(tx, mentorID, requestID)
		}
		return tx.First(&request, "id = ?", requestID).Error
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.events, events.Event{
		Type:       events.RequestRejected,
		RequestID:  request.ID,
		MentorID:   request.MentorID,
		SeekerID:   request.SeekerID,
		OccurredAt: s.now(),
	})
	return &request, nil
}

// Accept moves a pending request to accepted and creates its scheduled
// session in the same transaction. Both carry the same meeting link and date.
func (s *RequestService) Accept(ctx context.Context, mentorID, requestID uuid.UUID, sessionDate string) (*models.Request, *models.Session, error) {
	date, vErr := s.parseSessionDate(sessionDate)
	if vErr.HasErrors() {
		return nil, nil, vErr
	}
	link := s.newLink()

	var (
		request models.Request
		session models.Session
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Request{}).
			Where("id = ? AND mentor_id = ? AND estado = ?", requestID, mentorID, models.RequestPending).
			Updates(map[string]any{
				"estado":       models.RequestAccepted,
				"enlace_meet":  link,
				"fecha_sesion": date,
			})
		if res.Error != nil {
			return fmt.Errorf("accept request: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return explainMiss(tx, mentorID, requestID)
		}
		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			return fmt.Errorf("reload request: %w", err)
		}

		session = models.Session{
			RequestID:   request.ID,
			MentorID:    request.MentorID,
			SeekerID:    request.SeekerID,
			Date:        date,
			MeetingLink: link,
			Status:      models.SessionScheduled,
		}
		if err := tx.Create(&session).Error; err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	publish(ctx, s.events, events.Event{
		Type:       events.RequestAccepted,
		RequestID:  request.ID,
		SessionID:  session.ID,
		MentorID:   request.MentorID,
		SeekerID:   request.SeekerID,
		OccurredAt: s.now(),
	})
	return &request, &session, nil
}

// ListByMentor returns the requests addressed to mentorID, newest first,
// each joined with the seeker.
func (s *RequestService) ListByMentor(ctx context.Context, mentorID uuid.UUID) ([]models.RequestView, error) {
	return s.list(ctx, "mentor_id = ?", mentorID, func(r models.Request) uuid.UUID { return r.SeekerID }, models.RoleSeeker)
}

// ListBySeeker returns the requests sent by seekerID, newest first, each
// joined with the mentor.
func (s *RequestService) ListBySeeker(ctx context.Context, seekerID uuid.UUID) ([]models.RequestView, error) {
	return s.list(ctx, "solicitante_id = ?", seekerID, func(r models.Request) uuid.UUID { return r.MentorID }, models.RoleMentor)
}

func (s *RequestService) list(ctx context.Context, where string, id uuid.UUID, counterpart func(models.Request) uuid.UUID, role models.Role) ([]models.RequestView, error) {
	db := s.db.WithContext(ctx)
	var requests []models.Request
	if err := db.Where(where, id).Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, counterpart(r))
	}
	parties, err := loadParties(db, ids, role)
	if err != nil {
		return nil, err
	}

	views := make([]models.RequestView, 0, len(requests))
	for _, r := range requests {
		views = append(views, models.RequestView{Request: r, Counterpart: parties[counterpart(r)]})
	}
	return views, nil
}

func (s *RequestService) parseSessionDate(raw string) (time.Time, *ValidationError) {
	vErr := &ValidationError{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		vErr.add("session_date", "is required")
		return time.Time{}, vErr
	}
	date, err := time.ParseInLocation(SessionDateLayout, raw, s.loc)
	if err != nil {
		date, err = time.Parse(time.RFC3339, raw)
	}
	if err != nil {
		vErr.add("session_date", "must look like 2025-03-01T15:00")
		return time.Time{}, vErr
	}
	if !date.After(s.now()) {
		vErr.add("session_date", "must be in the future")
	}
	return date, vErr
}

// explainMiss works out why a conditional transition matched no row.
func explainMiss(tx *gorm.DB, mentorID, requestID uuid.UUID) error {
	var request models.Request
	if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
		return notFound(err, "load request")
	}
	if request.MentorID != mentorID {
		return ErrForbidden
	}
	if request.Status != models.RequestPending {
		return fmt.Errorf("request is %s: %w", request.Status, ErrInvalidTransition)
	}
	return errors.New("request changed concurrently")
}

// loadParties fetches display data for users and, for the given role, the
// name and area from their profile.
func loadParties(db *gorm.DB, ids []uuid.UUID, role models.Role) (map[uuid.UUID]models.Party, error) {
	parties := make(map[uuid.UUID]models.Party, len(ids))
	if len(ids) == 0 {
		return parties, nil
	}

	var users []models.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for _, u := range users {
		parties[u.ID] = models.Party{UserID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image}
	}

	switch role {
	case models.RoleMentor:
		var profiles []models.MentorProfile
		if err := db.Where("user_id IN ?", ids).Find(&profiles).Error; err != nil {
			return nil, fmt.Errorf("load mentor profiles: %w", err)
		}
		for _, p := range profiles {
			party := parties[p.UserID]
			party.ProfileName, party.Area = p.Name, p.Area
			parties[p.UserID] = party
		}
	case models.RoleSeeker:
		var profiles []models.SeekerProfile
		if err := db.Where("user_id IN ?", ids).Find(&profiles).Error; err != nil {
			return nil, fmt.Errorf("load seeker profiles: %w", err)
		}
		for _, p := range profiles {
			party := parties[p.UserID]
			party.ProfileName, party.Area = p.Name, p.Interest
			parties[p.UserID] = party
		}
	}
	return parties, nil
}
