package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/mentorship-backend/models"
	"github.com/vnkhanh/mentorship-backend/utils"
)

func newAuthRouter(issuer *utils.TokenIssuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(issuer), func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		role, _ := CurrentRole(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	r.GET("/mentor-only", AuthMiddleware(issuer), RequireRoles(models.RoleMentor), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	now := time.Date(2025, time.February, 20, 9, 0, 0, 0, time.UTC)
	issuer := utils.NewTokenIssuer("secret", time.Hour, func() time.Time { return now })
	user := &models.User{ID: uuid.New(), Email: "ana@example.com", Role: models.RoleSeeker}
	token, err := issuer.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	r := newAuthRouter(issuer)

	tests := []struct {
		name   string
		path   string
		header map[string]string
		cookie string
		want   int
	}{
		{name: "no token", path: "/me", want: http.StatusUnauthorized},
		{name: "bearer", path: "/me", header: map[string]string{"Authorization": "Bearer " + token}, want: http.StatusOK},
		{name: "cookie", path: "/me", cookie: token, want: http.StatusOK},
		{name: "x-auth-token", path: "/me", header: map[string]string{"X-Auth-Token": token}, want: http.StatusOK},
		{name: "garbage", path: "/me", header: map[string]string{"Authorization": "Bearer nope"}, want: http.StatusUnauthorized},
		{name: "wrong role", path: "/mentor-only", cookie: token, want: http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tc.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Errorf("expected %d, got %d: %s", tc.want, w.Code, w.Body.String())
			}
		})
	}

	now = now.Add(2 * time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected expired token to be rejected, got %d", w.Code)
	}
}
