package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/mentorship-backend/middleware"
	"github.com/vnkhanh/mentorship-backend/services"
)

type RequestController struct {
	requests *services.RequestService
}

func NewRequestController(requests *services.RequestService) *RequestController {
	return &RequestController{requests: requests}
}

type CreateRequestBody struct {
	MentorID string `json:"mentor_id"`
	Message  string `json:"message"`
}

type AcceptRequestBody struct {
	SessionDate string `json:"session_date"`
}

func (r *RequestController) Create(c *gin.Context) {
	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	var mentorID uuid.UUID
	if raw := strings.TrimSpace(body.MentorID); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			fieldError(c, "mentor_id", "is invalid")
			return
		}
		mentorID = parsed
	}

	seekerID, _ := middleware.CurrentUserID(c)
	request, err := r.requests.Create(c.Request.Context(), seekerID, services.CreateRequestInput{
		MentorID: mentorID,
		Message:  body.Message,
	})
	if err != nil {
		respondError(c, err, "save")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request": request})
}

func (r *RequestController) ListForMentor(c *gin.Context) {
	mentorID, _ := middleware.CurrentUserID(c)
	requests, err := r.requests.ListByMentor(c.Request.Context(), mentorID)
	if err != nil {
		respondError(c, err, "load")
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (r *RequestController) ListForSeeker(c *gin.Context) {
	seekerID, _ := middleware.CurrentUserID(c)
	requests, err := r.requests.ListBySeeker(c.Request.Context(), seekerID)
	if err != nil {
		respondError(c, err, "load")
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// Accept schedules the session for a pending request addressed to the caller.
func (r *RequestController) Accept(c *gin.Context) {
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}
	var body AcceptRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	mentorID, _ := middleware.CurrentUserID(c)
	request, session, err := r.requests.Accept(c.Request.Context(), mentorID, requestID, body.SessionDate)
	if err != nil {
		respondError(c, err, "save")
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": request, "session": session})
}

func (r *RequestController) Reject(c *gin.Context) {
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}
	mentorID, _ := middleware.CurrentUserID(c)
	request, err := r.requests.Reject(c.Request.Context(), mentorID, requestID)
	if err != nil {
		respondError(c, err, "save")
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": request})
}

func requestIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return uuid.Nil, false
	}
	return id, true
}
