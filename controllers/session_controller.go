package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/mentorship-backend/middleware"
	"github.com/vnkhanh/mentorship-backend/services"
)

type SessionController struct {
	sessions *services.SessionService
}

func NewSessionController(sessions *services.SessionService) *SessionController {
	return &SessionController{sessions: sessions}
}

// List returns the caller's sessions, soonest first.
func (s *SessionController) List(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	sessions, err := s.sessions.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "load")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
