package testfixtures

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/mentorship-backend/config"
	"github.com/vnkhanh/mentorship-backend/controllers"
	"github.com/vnkhanh/mentorship-backend/events"
	"github.com/vnkhanh/mentorship-backend/models"
	"github.com/vnkhanh/mentorship-backend/routes"
	"github.com/vnkhanh/mentorship-backend/services"
	"github.com/vnkhanh/mentorship-backend/utils"
	"github.com/vnkhanh/mentorship-backend/ws"
)

const testSecret = "test-session-secret"

// IdentityProvider is an in-memory services.IdentityProvider keyed by
// authorization code and ID token.
type IdentityProvider struct {
	Codes    map[string]services.Identity
	IDTokens map[string]services.Identity
}

func (p *IdentityProvider) AuthURL(state string) string {
	return "https://accounts.example.com/o/oauth2/auth?state=" + state
}

func (p *IdentityProvider) ExchangeCode(_ context.Context, code string) (services.Identity, error) {
	if id, ok := p.Codes[code]; ok {
		return id, nil
	}
	return services.Identity{}, fmt.Errorf("%w: unknown code", services.ErrIdentityRejected)
}

func (p *IdentityProvider) VerifyIDToken(_ context.Context, raw string) (services.Identity, error) {
	if id, ok := p.IDTokens[raw]; ok {
		return id, nil
	}
	return services.Identity{}, fmt.Errorf("%w: unknown token", services.ErrIdentityRejected)
}

// PhotoStore records uploads and deletions in memory.
type PhotoStore struct {
	mu      sync.Mutex
	Deleted []string
}

func (s *PhotoStore) UploadPhoto(_ context.Context, userID uuid.UUID, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Header.Get("Content-Type") != "image/png" {
		return "", utils.ErrUnsupportedPhoto
	}
	return fmt.Sprintf("https://cdn.example.com/mentors/%s/%s", userID, fileHeader.Filename), nil
}

func (s *PhotoStore) DeletePhoto(_ context.Context, publicURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deleted = append(s.Deleted, publicURL)
	return nil
}

// App is a fully wired router over a temporary SQLite database.
type App struct {
	DB       *gorm.DB
	Clock    *Clock
	Events   *events.Recorder
	Tokens   *utils.TokenIssuer
	Provider *IdentityProvider
	Photos   *PhotoStore
	Hub      *ws.Hub
	Config   *config.Config
	Router   *gin.Engine
}

func NewApp(tb testing.TB) *App {
	tb.Helper()
	gin.SetMode(gin.TestMode)

	db := NewDB(tb)
	clock := NewClock(time.Time{})
	recorder := &events.Recorder{}
	hub := ws.NewHub(nil)
	publisher := events.Multi{recorder, hub}
	cfg := &config.Config{
		Env:           "test",
		SessionSecret: testSecret,
		SessionMaxAge: 30 * 24 * time.Hour,
		SupabaseURL:   "https://project.supabase.co",
		Location:      time.UTC,
	}

	users := services.NewUserService(db, nil, publisher, clock.Now)
	profiles := services.NewProfileService(db, nil, publisher, clock.Now)
	requests := services.NewRequestService(db, publisher, clock.Now, time.UTC)
	sessions := services.NewSessionService(db)
	tokens := utils.NewTokenIssuer(testSecret, cfg.SessionMaxAge, clock.Now)
	provider := &IdentityProvider{Codes: map[string]services.Identity{}, IDTokens: map[string]services.Identity{}}
	photos := &PhotoStore{}

	r := gin.New()
	routes.SetupRouter(r, routes.Deps{
		Tokens:   tokens,
		Auth:     controllers.NewAuthController(users, provider, tokens, controllers.NewStateStore(testSecret, false), false),
		Profiles: controllers.NewProfileController(profiles, photos),
		Requests: controllers.NewRequestController(requests),
		Sessions: controllers.NewSessionController(sessions),
		Health:   controllers.NewHealthController(services.NewHealthService(db), cfg, hub, clock.Now),
		Pages:    controllers.NewPageController(users, profiles, requests, sessions, false),
		Hub:      hub,
		Upgrader: ws.NewUpgrader(nil),
	})

	return &App{
		DB:       db,
		Clock:    clock,
		Events:   recorder,
		Tokens:   tokens,
		Provider: provider,
		Photos:   photos,
		Hub:      hub,
		Config:   cfg,
		Router:   r,
	}
}

// TokenFor issues a session token for user with its current role.
func (a *App) TokenFor(tb testing.TB, user *models.User) string {
	tb.Helper()
	token, err := a.Tokens.GenerateToken(user)
	if err != nil {
		tb.Fatalf("failed to issue token: %v", err)
	}
	return token
}
