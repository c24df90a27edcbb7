package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/mentorship-backend/logging"
	"github.com/vnkhanh/mentorship-backend/middleware"
	"github.com/vnkhanh/mentorship-backend/services"
	"github.com/vnkhanh/mentorship-backend/utils"
)

type ProfileController struct {
	profiles *services.ProfileService
	photos   utils.PhotoStore
}

// NewProfileController accepts a nil photo store; uploads then answer 503.
func NewProfileController(profiles *services.ProfileService, photos utils.PhotoStore) *ProfileController {
	return &ProfileController{profiles: profiles, photos: photos}
}

func (p *ProfileController) GetMentorProfile(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	profile, err := p.profiles.GetMentorProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "load")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (p *ProfileController) UpsertMentorProfile(c *gin.Context) {
	var input services.MentorProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	userID, _ := middleware.CurrentUserID(c)
	profile, err := p.profiles.UpsertMentorProfile(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err, "save")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UploadMentorPhoto stores the multipart "photo" file and points the
// profile at it. The previous photo is removed on a best effort basis.
func (p *ProfileController) UploadMentorPhoto(c *gin.Context) {
	if p.photos == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo storage is not configured"})
		return
	}
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		fieldError(c, "photo", "is required")
		return
	}

	ctx := c.Request.Context()
	userID, _ := middleware.CurrentUserID(c)
	current, err := p.profiles.GetMentorProfile(ctx, userID)
	if err != nil {
		respondError(c, err, "load")
		return
	}

	url, err := p.photos.UploadPhoto(ctx, userID, fileHeader)
	if err != nil {
		if errors.Is(err, utils.ErrUnsupportedPhoto) {
			fieldError(c, "photo", err.Error())
			return
		}
		respondError(c, err, "save")
		return
	}
	profile, err := p.profiles.SetMentorPhoto(ctx, userID, url)
	if err != nil {
		respondError(c, err, "save")
		return
	}

	if current.Photo != "" && current.Photo != url {
		if err := p.photos.DeletePhoto(ctx, current.Photo); err != nil {
			logging.FromContext(ctx).WarnContext(ctx, "old photo not deleted", "url", current.Photo, "error", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (p *ProfileController) GetSeekerProfile(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	profile, err := p.profiles.GetSeekerProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "load")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (p *ProfileController) UpsertSeekerProfile(c *gin.Context) {
	var input services.SeekerProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	userID, _ := middleware.CurrentUserID(c)
	profile, err := p.profiles.UpsertSeekerProfile(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err, "save")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// ListMentors returns active mentors, optionally filtered by ?q=.
func (p *ProfileController) ListMentors(c *gin.Context) {
	mentors, err := p.profiles.ListActiveMentors(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err, "load")
		return
	}
	c.JSON(http.StatusOK, gin.H{"mentors": mentors})
}
