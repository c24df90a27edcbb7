package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vnkhanh/mentorship-backend/events"
	"github.com/vnkhanh/mentorship-backend/logging"
	"github.com/vnkhanh/mentorship-backend/models"
)

// Identity is what the identity provider tells us about a signed-in person.
type Identity struct {
	Email string `json:"email" validate:"required,email,max=150"`
	Name  string `json:"name" validate:"max=150"`
	Image string `json:"image"`
}

type UserService struct {
	db     *gorm.DB
	cache  MentorCache
	events events.Publisher
	now    func() time.Time
}

// NewUserService accepts a nil cache. When set, the mentor directory is
// dropped on every role change.
func NewUserService(db *gorm.DB, cache MentorCache, publisher events.Publisher, now func() time.Time) *UserService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{db: db, cache: cache, events: publisher, now: now}
}

// ResolveIdentity returns the user owning the email, creating it with no
// role on first sight. Name and image are refreshed on every call.
func (s *UserService) ResolveIdentity(ctx context.Context, identity Identity) (*models.User, error) {
	identity.Email = strings.ToLower(strings.TrimSpace(identity.Email))
	identity.Name = strings.TrimSpace(identity.Name)
	identity.Image = strings.TrimSpace(identity.Image)
	if vErr := checkStruct(identity); vErr.HasErrors() {
		return nil, vErr
	}

	db := s.db.WithContext(ctx)
	var user models.User
	err := db.Where("email = ?", identity.Email).First(&user).Error
	switch {
	case err == nil:
		if user.Name == identity.Name && user.Image == identity.Image {
			return &user, nil
		}
		if err := db.Model(&user).Updates(map[string]any{
			"name":  identity.Name,
			"image": identity.Image,
		}).Error; err != nil {
			return nil, fmt.Errorf("refresh user %s: %w", user.ID, err)
		}
		user.Name = identity.Name
		user.Image = identity.Image
		return &user, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		created := models.User{Email: identity.Email, Name: identity.Name, Image: identity.Image}
		// A concurrent sign-in may insert the same email first.
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).Create(&created).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		if err := db.Where("email = ?", identity.Email).First(&user).Error; err != nil {
			return nil, fmt.Errorf("user %s not found after insert: %w", identity.Email, err)
		}
		logging.FromContext(ctx).InfoContext(ctx, "user created", "user_id", user.ID)
		return &user, nil

	default:
		return nil, fmt.Errorf("find user by email: %w", err)
	}
}

// AssignRole sets the role of an existing user. Changing an already chosen
// role is allowed.
func (s *UserService) AssignRole(ctx context.Context, userID uuid.UUID, role models.Role) (*models.User, error) {
	if !role.IsSet() {
		vErr := &ValidationError{}
		vErr.add("role", "must be mentor or seeker")
		return nil, vErr
	}

	db := s.db.WithContext(ctx)
	res := db.Model(&models.User{}).Where("id = ?", userID).Update("role", role)
	if res.Error != nil {
		return nil, fmt.Errorf("update role: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, events.Event{Type: events.RoleAssigned, UserID: user.ID, OccurredAt: s.now()})
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, notFound(err, "load user")
	}
	return &user, nil
}

func notFound(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// publish delivers an event. Delivery failures are logged and never fail the
// caller.
func publish(ctx context.Context, publisher events.Publisher, event events.Event) {
	if err := publisher.Publish(ctx, event); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "event not delivered", "type", event.Type, "error", err)
	}
}
