package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/mentorship-backend/logging"
	"github.com/vnkhanh/mentorship-backend/middleware"
	"github.com/vnkhanh/mentorship-backend/models"
	"github.com/vnkhanh/mentorship-backend/services"
)

// PageController serves the JSON page models of the navigable pages.
type PageController struct {
	users        *services.UserService
	profiles     *services.ProfileService
	requests     *services.RequestService
	sessions     *services.SessionService
	secureCookie bool
}

func NewPageController(users *services.UserService, profiles *services.ProfileService, requests *services.RequestService, sessions *services.SessionService, secureCookie bool) *PageController {
	return &PageController{
		users:        users,
		profiles:     profiles,
		requests:     requests,
		sessions:     sessions,
		secureCookie: secureCookie,
	}
}

type RequestCounts struct {
	Pending  int `json:"pending"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

func countRequests(requests []models.RequestView) RequestCounts {
	var counts RequestCounts
	for _, r := range requests {
		switch r.Status {
		case models.RequestPending:
			counts.Pending++
		case models.RequestAccepted:
			counts.Accepted++
		case models.RequestRejected:
			counts.Rejected++
		}
	}
	return counts
}

func (p *PageController) Login(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":      "login",
		"providers": []string{"google"},
		"login_url": "/api/auth/google/login",
		"error":     c.Query("error"),
	})
}

func (p *PageController) SelectRole(c *gin.Context) {
	user, ok := p.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":  "select-role",
		"user":  user,
		"roles": []models.Role{models.RoleMentor, models.RoleSeeker},
	})
}

// Home sends the user to the page matching the stored role.
func (p *PageController) Home(c *gin.Context) {
	user, ok := p.currentUser(c)
	if !ok {
		return
	}
	c.Redirect(http.StatusFound, user.Role.DashboardPath())
}

func (p *PageController) MentorDashboard(c *gin.Context) {
	user, ok := p.currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	profile, err := p.profiles.GetMentorProfile(ctx, user.ID)
	if err != nil && !errors.Is(err, services.ErrNotFound) {
		respondError(c, err, "load")
		return
	}
	requests, err := p.requests.ListByMentor(ctx, user.ID)
	if err != nil {
		respondError(c, err, "load")
		return
	}
	sessions, err := p.sessions.ListForUser(ctx, user.ID)
	if err != nil {
		respondError(c, err, "load")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":     "dashboard/mentor",
		"user":     user,
		"profile":  profile,
		"requests": requests,
		"counts":   countRequests(requests),
		"sessions": sessions,
	})
}

func (p *PageController) SeekerDashboard(c *gin.Context) {
	user, ok := p.currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	profile, err := p.profiles.GetSeekerProfile(ctx, user.ID)
	if err != nil && !errors.Is(err, services.ErrNotFound) {
		respondError(c, err, "load")
		return
	}
	mentors, err := p.profiles.ListActiveMentors(ctx, c.Query("q"))
	if err != nil {
		respondError(c, err, "load")
		return
	}
	requests, err := p.requests.ListBySeeker(ctx, user.ID)
	if err != nil {
		respondError(c, err, "load")
		return
	}
	sessions, err := p.sessions.ListForUser(ctx, user.ID)
	if err != nil {
		respondError(c, err, "load")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":     "dashboard/seeker",
		"user":     user,
		"profile":  profile,
		"mentors":  mentors,
		"requests": requests,
		"counts":   countRequests(requests),
		"sessions": sessions,
	})
}

func (p *PageController) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"page":  "not-found",
		"error": "page not found",
		"home":  "/",
	})
}

// Recovery turns a panic into the generic error page.
func (p *PageController) Recovery(c *gin.Context, recovered any) {
	ctx := c.Request.Context()
	logging.FromContext(ctx).ErrorContext(ctx, "panic recovered", "panic", recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"page":  "error",
		"error": "something went wrong",
		"retry": c.Request.URL.RequestURI(),
	})
}

// currentUser loads the caller from the store. A session whose user is gone
// is cleared and sent to sign-in.
func (p *PageController) currentUser(c *gin.Context) (*models.User, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return nil, false
	}
	user, err := p.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			middleware.ClearSessionCookie(c, p.secureCookie)
			c.Redirect(http.StatusFound, middleware.LoginPath)
			return nil, false
		}
		respondError(c, err, "load")
		return nil, false
	}
	return user, true
}
