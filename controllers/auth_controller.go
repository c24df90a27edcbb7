package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/vnkhanh/mentorship-backend/logging"
	"github.com/vnkhanh/mentorship-backend/middleware"
	"github.com/vnkhanh/mentorship-backend/models"
	"github.com/vnkhanh/mentorship-backend/services"
	"github.com/vnkhanh/mentorship-backend/utils"
)

const (
	oauthSessionName = "oauth_state"
	oauthStateKey    = "state"
)

type AuthController struct {
	users        *services.UserService
	provider     services.IdentityProvider
	tokens       *utils.TokenIssuer
	store        sessions.Store
	secureCookie bool
}

func NewAuthController(users *services.UserService, provider services.IdentityProvider, tokens *utils.TokenIssuer, store sessions.Store, secureCookie bool) *AuthController {
	return &AuthController{
		users:        users,
		provider:     provider,
		tokens:       tokens,
		store:        store,
		secureCookie: secureCookie,
	}
}

// NewStateStore returns the signed cookie store that keeps the OAuth state
// between the login redirect and the callback.
func NewStateStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/api/auth",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

type GoogleIDTokenInput struct {
	IDToken string `json:"id_token" binding:"required"`
}

type SelectRoleInput struct {
	Role string `json:"role" binding:"required"`
}

// GoogleLogin redirects to the Google consent screen.
func (a *AuthController) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	session, _ := a.store.Get(c.Request, oauthSessionName)
	session.Values[oauthStateKey] = state
	if err := session.Save(c.Request, c.Writer); err != nil {
		respondError(c, err, "start sign-in")
		return
	}
	c.Redirect(http.StatusFound, a.provider.AuthURL(state))
}

// GoogleCallback finishes the code flow and lands the user on "/".
func (a *AuthController) GoogleCallback(c *gin.Context) {
	ctx := c.Request.Context()
	session, _ := a.store.Get(c.Request, oauthSessionName)
	expected, _ := session.Values[oauthStateKey].(string)
	delete(session.Values, oauthStateKey)
	session.Options.MaxAge = -1
	_ = session.Save(c.Request, c.Writer)

	if expected == "" || c.Query("state") != expected {
		middleware.LoginAttempts.WithLabelValues("failure", "oauth").Inc()
		c.Redirect(http.StatusFound, middleware.LoginPath+"?error=state")
		return
	}

	identity, err := a.provider.ExchangeCode(ctx, c.Query("code"))
	if err != nil {
		middleware.LoginAttempts.WithLabelValues("failure", "oauth").Inc()
		logging.FromContext(ctx).WarnContext(ctx, "google code exchange failed", "error", err)
		c.Redirect(http.StatusFound, middleware.LoginPath+"?error=provider")
		return
	}

	user, err := a.users.ResolveIdentity(ctx, identity)
	if err != nil {
		middleware.LoginAttempts.WithLabelValues("failure", "oauth").Inc()
		respondError(c, err, "sign in")
		return
	}
	if _, ok := a.issueSession(c, user); !ok {
		return
	}
	middleware.LoginAttempts.WithLabelValues("success", "oauth").Inc()
	c.Redirect(http.StatusFound, "/")
}

// GoogleIDTokenLogin signs in with a Google ID token obtained by the client.
func (a *AuthController) GoogleIDTokenLogin(c *gin.Context) {
	var input GoogleIDTokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	identity, err := a.provider.VerifyIDToken(ctx, input.IDToken)
	if err != nil {
		middleware.LoginAttempts.WithLabelValues("failure", "id_token").Inc()
		if errors.Is(err, services.ErrIdentityRejected) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid Google token"})
			return
		}
		respondError(c, err, "sign in")
		return
	}

	user, err := a.users.ResolveIdentity(ctx, identity)
	if err != nil {
		middleware.LoginAttempts.WithLabelValues("failure", "id_token").Inc()
		respondError(c, err, "sign in")
		return
	}
	token, ok := a.issueSession(c, user)
	if !ok {
		return
	}
	middleware.LoginAttempts.WithLabelValues("success", "id_token").Inc()
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user, "redirect": user.Role.DashboardPath()})
}

func (a *AuthController) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c, a.secureCookie)
	c.JSON(http.StatusOK, gin.H{"message": "signed out", "redirect": middleware.LoginPath})
}

// SelectRole assigns the caller's role and re-issues the session token so
// the new role is visible to the route guard right away.
func (a *AuthController) SelectRole(c *gin.Context) {
	var input SelectRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	role, err := models.ParseRole(input.Role)
	if err != nil {
		fieldError(c, "role", "must be mentor or seeker")
		return
	}

	userID, _ := middleware.CurrentUserID(c)
	user, err := a.users.AssignRole(c.Request.Context(), userID, role)
	if err != nil {
		respondError(c, err, "save")
		return
	}
	token, ok := a.issueSession(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user, "redirect": role.DashboardPath()})
}

// RefreshSession re-issues the token from the stored user.
func (a *AuthController) RefreshSession(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	user, err := a.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			middleware.ClearSessionCookie(c, a.secureCookie)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user no longer exists"})
			return
		}
		respondError(c, err, "load")
		return
	}
	token, ok := a.issueSession(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (a *AuthController) issueSession(c *gin.Context, user *models.User) (string, bool) {
	token, err := a.tokens.GenerateToken(user)
	if err != nil {
		respondError(c, err, "sign in")
		return "", false
	}
	middleware.SetSessionCookie(c, token, a.tokens.MaxAge(), a.secureCookie)
	return token, true
}
