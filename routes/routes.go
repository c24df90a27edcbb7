package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vnkhanh/mentorship-backend/controllers"
	"github.com/vnkhanh/mentorship-backend/middleware"
	"github.com/vnkhanh/mentorship-backend/models"
	"github.com/vnkhanh/mentorship-backend/ws"
)

// Deps are the handlers and collaborators the router wires together.
type Deps struct {
	Logger       *slog.Logger
	Tokens       middleware.TokenVerifier
	SecureCookie bool

	Auth     *controllers.AuthController
	Profiles *controllers.ProfileController
	Requests *controllers.RequestController
	Sessions *controllers.SessionController
	Health   *controllers.HealthController
	Pages    *controllers.PageController

	Hub      *ws.Hub
	Upgrader *websocket.Upgrader
}

func SetupRouter(r *gin.Engine, d Deps) *gin.Engine {
	r.Use(
		middleware.RequestLogger(d.Logger),
		gin.CustomRecovery(d.Pages.Recovery),
		middleware.Metrics(),
	)

	r.GET("/metrics", middleware.MetricsHandler())
	r.NoRoute(d.Pages.NotFound)

	api := r.Group("/api")
	api.GET("/health", d.Health.HealthCheck)
	api.GET("/diagnostics", d.Health.Diagnostics)

	// Auth
	auth := api.Group("/auth")
	{
		auth.GET("/google/login", d.Auth.GoogleLogin)
		auth.GET("/google/callback", d.Auth.GoogleCallback)
		auth.POST("/google", d.Auth.GoogleIDTokenLogin)
		auth.POST("/logout", d.Auth.Logout)

		authed := auth.Group("", middleware.AuthMiddleware(d.Tokens))
		authed.POST("/role", d.Auth.SelectRole)
		authed.POST("/session/refresh", d.Auth.RefreshSession)
	}

	user := api.Group("", middleware.AuthMiddleware(d.Tokens))
	{
		user.GET("/sessions", d.Sessions.List)
		user.GET("/mentors", d.Profiles.ListMentors)
	}

	// Mentor
	mentor := api.Group("/mentor", middleware.AuthMiddleware(d.Tokens), middleware.RequireRoles(models.RoleMentor))
	{
		mentor.GET("/profile", d.Profiles.GetMentorProfile)
		mentor.PUT("/profile", d.Profiles.UpsertMentorProfile)
		mentor.POST("/profile/photo", d.Profiles.UploadMentorPhoto)
		mentor.GET("/requests", d.Requests.ListForMentor)
	}

	// Seeker
	seeker := api.Group("/seeker", middleware.AuthMiddleware(d.Tokens), middleware.RequireRoles(models.RoleSeeker))
	{
		seeker.GET("/profile", d.Profiles.GetSeekerProfile)
		seeker.PUT("/profile", d.Profiles.UpsertSeekerProfile)
		seeker.GET("/requests", d.Requests.ListForSeeker)
	}

	requests := api.Group("/requests", middleware.AuthMiddleware(d.Tokens))
	{
		requests.POST("", middleware.RequireRoles(models.RoleSeeker), d.Requests.Create)
		requests.POST("/:id/accept", middleware.RequireRoles(models.RoleMentor), d.Requests.Accept)
		requests.POST("/:id/reject", middleware.RequireRoles(models.RoleMentor), d.Requests.Reject)
	}

	// Pages
	pages := r.Group("", middleware.RouteGuard(d.Tokens, d.SecureCookie))
	{
		pages.GET(middleware.LoginPath, d.Pages.Login)
		pages.GET(middleware.SelectRolePath, d.Pages.SelectRole)
		pages.GET("/", d.Pages.Home)
		pages.GET("/dashboard/mentor", d.Pages.MentorDashboard)
		pages.GET("/dashboard/seeker", d.Pages.SeekerDashboard)
	}

	if d.Hub != nil {
		r.GET("/ws/dashboard", ws.HandleDashboardWebSocket(d.Hub, d.Tokens, d.Upgrader))
	}

	return r
}
