package client

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vnkhanh/mentorship-backend/models"
)

// Snapshot is the data one dashboard shows. Fields that do not apply to
// the role are left empty.
type Snapshot struct {
	Role          models.Role
	MentorProfile *models.MentorProfile
	SeekerProfile *models.SeekerProfile
	Mentors       []models.MentorProfile
	Requests      []models.RequestView
	Sessions      []models.SessionView
	LoadedAt      time.Time
}

// Repository caches the caller's dashboard data. Load serves the cached
// snapshot until Invalidate is called; every mutation made through the
// repository invalidates it.
type Repository struct {
	api  *Client
	role models.Role
	now  func() time.Time

	mu       sync.Mutex
	snapshot *Snapshot
}

func NewRepository(api *Client, role models.Role, now func() time.Time) *Repository {
	if now == nil {
		now = time.Now
	}
	return &Repository{api: api, role: role, now: now}
}

// Load returns the cached snapshot or fetches a fresh one.
func (r *Repository) Load(ctx context.Context) (*Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.snapshot != nil {
		return r.snapshot, nil
	}

	snap := &Snapshot{Role: r.role}
	var err error
	switch r.role {
	case models.RoleMentor:
		snap.MentorProfile, err = optional(r.api.MentorProfile(ctx))
		if err != nil {
			return nil, err
		}
		if snap.Requests, err = r.api.MentorRequests(ctx); err != nil {
			return nil, err
		}
	case models.RoleSeeker:
		snap.SeekerProfile, err = optional(r.api.SeekerProfile(ctx))
		if err != nil {
			return nil, err
		}
		if snap.Mentors, err = r.api.Mentors(ctx, ""); err != nil {
			return nil, err
		}
		if snap.Requests, err = r.api.SeekerRequests(ctx); err != nil {
			return nil, err
		}
	}
	if r.role.IsSet() {
		if snap.Sessions, err = r.api.Sessions(ctx); err != nil {
			return nil, err
		}
	}

	snap.LoadedAt = r.now()
	r.snapshot = snap
	return snap, nil
}

// Invalidate drops the cached snapshot.
func (r *Repository) Invalidate() {
	r.mu.Lock()
	r.snapshot = nil
	r.mu.Unlock()
}

func (r *Repository) SaveMentorProfile(ctx context.Context, in MentorProfileInput) (*models.MentorProfile, error) {
	defer r.Invalidate()
	return r.api.SaveMentorProfile(ctx, in)
}

func (r *Repository) SaveSeekerProfile(ctx context.Context, in SeekerProfileInput) (*models.SeekerProfile, error) {
	defer r.Invalidate()
	return r.api.SaveSeekerProfile(ctx, in)
}

func (r *Repository) CreateRequest(ctx context.Context, mentorID uuid.UUID, message string) (*models.Request, error) {
	defer r.Invalidate()
	return r.api.CreateRequest(ctx, mentorID, message)
}

func (r *Repository) AcceptRequest(ctx context.Context, requestID uuid.UUID, sessionDate string) (*models.Request, *models.Session, error) {
	defer r.Invalidate()
	return r.api.AcceptRequest(ctx, requestID, sessionDate)
}

func (r *Repository) RejectRequest(ctx context.Context, requestID uuid.UUID) (*models.Request, error) {
	defer r.Invalidate()
	return r.api.RejectRequest(ctx, requestID)
}

// optional turns a 404 into a nil value.
func optional[T any](v *T, err error) (*T, error) {
	if IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	return v, err
}
