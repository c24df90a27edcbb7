package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vnkhanh/mentorship-backend/events"
	"github.com/vnkhanh/mentorship-backend/models"
)

type MentorProfileInput struct {
	Name         string   `json:"name" validate:"required,max=150"`
	Photo        string   `json:"photo" validate:"omitempty,url"`
	Area         string   `json:"area" validate:"required,max=150"`
	Years        int      `json:"years" validate:"gt=0"`
	Availability []string `json:"availability"`
	Bio          string   `json:"bio" validate:"max=2000"`
	Active       *bool    `json:"active"`
}

type SeekerProfileInput struct {
	Name     string `json:"name" validate:"required,max=150"`
	Age      int    `json:"age" validate:"gte=16,lte=100"`
	Interest string `json:"interest" validate:"required,max=150"`
	Bio      string `json:"bio" validate:"max=2000"`
}

type ProfileService struct {
	db     *gorm.DB
	cache  MentorCache
	events events.Publisher
	now    func() time.Time
}

func NewProfileService(db *gorm.DB, cache MentorCache, publisher events.Publisher, now func() time.Time) *ProfileService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if now == nil {
		now = time.Now
	}
	return &ProfileService{db: db, cache: cache, events: publisher, now: now}
}

// UpsertMentorProfile creates or replaces the mentor profile owned by userID.
// An empty photo keeps the stored one.
func (s *ProfileService) UpsertMentorProfile(ctx context.Context, userID uuid.UUID, in MentorProfileInput) (*models.MentorProfile, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Area = strings.TrimSpace(in.Area)
	in.Photo = strings.TrimSpace(in.Photo)
	in.Bio = strings.TrimSpace(in.Bio)

	vErr := checkStruct(in)
	days, err := models.NormalizeWeekdays(in.Availability)
	if err != nil {
		vErr.add("availability", err.Error())
	}
	if vErr.HasErrors() {
		return nil, vErr
	}
	if err := s.requireRole(ctx, userID, models.RoleMentor); err != nil {
		return nil, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}
	profile := models.MentorProfile{
		UserID:       userID,
		Name:         in.Name,
		Photo:        in.Photo,
		Area:         in.Area,
		Years:        in.Years,
		Availability: days,
		Bio:          in.Bio,
		Active:       active,
	}
	columns := []string{"nombre", "area_experiencia", "anos_experiencia", "disponibilidad", "descripcion", "activo", "updated_at"}
	if in.Photo != "" {
		columns = append(columns, "foto")
	}

	var saved models.MentorProfile
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).Create(&profile).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).First(&saved).Error
	})
	if err != nil {
		return nil, fmt.Errorf("save mentor profile: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	publish(ctx, s.events, events.Event{Type: events.MentorProfileSaved, UserID: userID, OccurredAt: s.now()})
	return &saved, nil
}

// SetMentorPhoto stores the URL of an uploaded photo on an existing profile.
func (s *ProfileService) SetMentorPhoto(ctx context.Context, userID uuid.UUID, photoURL string) (*models.MentorProfile, error) {
	db := s.db.WithContext(ctx)
	res := db.Model(&models.MentorProfile{}).Where("user_id = ?", userID).Update("foto", photoURL)
	if res.Error != nil {
		return nil, fmt.Errorf("update mentor photo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return s.GetMentorProfile(ctx, userID)
}

// UpsertSeekerProfile creates or replaces the seeker profile owned by userID.
func (s *ProfileService) UpsertSeekerProfile(ctx context.Context, userID uuid.UUID, in SeekerProfileInput) (*models.SeekerProfile, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Interest = strings.TrimSpace(in.Interest)
	in.Bio = strings.TrimSpace(in.Bio)
	if vErr := checkStruct(in); vErr.HasErrors() {
		return nil, vErr
	}
	if err := s.requireRole(ctx, userID, models.RoleSeeker); err != nil {
		return nil, err
	}

	profile := models.SeekerProfile{
		UserID:   userID,
		Name:     in.Name,
		Age:      in.Age,
		Interest: in.Interest,
		Bio:      in.Bio,
	}
	var saved models.SeekerProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"nombre", "edad", "area_interes", "descripcion", "updated_at"}),
		}).Create(&profile).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).First(&saved).Error
	})
	if err != nil {
		return nil, fmt.Errorf("save seeker profile: %w", err)
	}
	return &saved, nil
}

func (s *ProfileService) GetMentorProfile(ctx context.Context, userID uuid.UUID) (*models.MentorProfile, error) {
	var profile models.MentorProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, notFound(err, "load mentor profile")
	}
	return &profile, nil
}

func (s *ProfileService) GetSeekerProfile(ctx context.Context, userID uuid.UUID) (*models.SeekerProfile, error) {
	var profile models.SeekerProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, notFound(err, "load seeker profile")
	}
	return &profile, nil
}

// ListActiveMentors returns active profiles of users whose role is still
// mentor, with their users, ordered by name. A non-empty query keeps profiles whose name or area contains it,
// ignoring case.
func (s *ProfileService) ListActiveMentors(ctx context.Context, query string) ([]models.MentorProfile, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" && s.cache != nil {
		if mentors, ok := s.cache.GetMentors(ctx); ok {
			return mentors, nil
		}
	}

	db := s.db.WithContext(ctx)
	mentorIDs := db.Model(&models.User{}).Select("id").Where("role = ?", models.RoleMentor)
	tx := db.Preload("User").Where("user_id IN (?)", mentorIDs)
	if q == "" {
		tx = tx.Where("activo = ?", true)
	} else {
		like := "%" + escapeLike(q) + "%"
		tx = tx.Where(`activo = ? AND (LOWER(nombre) LIKE ? ESCAPE '\' OR LOWER(area_experiencia) LIKE ? ESCAPE '\')`, true, like, like)
	}

	mentors := []models.MentorProfile{}
	if err := tx.Order("nombre ASC").Find(&mentors).Error; err != nil {
		return nil, fmt.Errorf("list mentors: %w", err)
	}
	if q == "" && s.cache != nil {
		s.cache.SetMentors(ctx, mentors)
	}
	return mentors, nil
}

func (s *ProfileService) requireRole(ctx context.Context, userID uuid.UUID, role models.Role) error {
	var user models.User
	if err := s.db.WithContext(ctx).Select("id", "role").First(&user, "id = ?", userID).Error; err != nil {
		return notFound(err, "load user")
	}
	if user.Role != role {
		return ErrForbidden
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
