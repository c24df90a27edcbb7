package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/mentorship-backend/middleware"
	"github.com/vnkhanh/mentorship-backend/models"
	"github.com/vnkhanh/mentorship-backend/testfixtures"
)

func getPage(t *testing.T, h http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func expectRedirect(t *testing.T, w *httptest.ResponseRecorder, want string) {
	t.Helper()
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect to %s, got status %d: %s", want, w.Code, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != want {
		t.Fatalf("expected redirect to %s, got %s", want, got)
	}
}

func TestPages_RouteGuard(t *testing.T) {
	app := testfixtures.NewApp(t)
	mentor, _ := testfixtures.CreateMentor(t, app.DB, "Carlos", "Marketing", 6)
	seeker, _ := testfixtures.CreateSeeker(t, app.DB, "Ana", "Design", 25)
	fresh := testfixtures.CreateUser(t, app.DB, "Beto", models.RoleUnset)

	tests := []struct {
		name  string
		path  string
		user  *models.User
		want  string
		allow bool
	}{
		{name: "anonymous dashboard", path: "/dashboard/mentor", want: "/login"},
		{name: "anonymous home", path: "/", want: "/login"},
		{name: "anonymous login page", path: "/login", allow: true},
		{name: "seeker on mentor dashboard", path: "/dashboard/mentor", user: seeker, want: "/dashboard/seeker"},
		{name: "mentor on seeker dashboard", path: "/dashboard/seeker", user: mentor, want: "/dashboard/mentor"},
		{name: "no role on dashboard", path: "/dashboard/seeker", user: fresh, want: "/select-role"},
		{name: "role already chosen", path: "/select-role", user: mentor, want: "/dashboard/mentor"},
		{name: "no role chooses", path: "/select-role", user: fresh, allow: true},
		{name: "home with role", path: "/", user: seeker, want: "/dashboard/seeker"},
		{name: "home without role", path: "/", user: fresh, want: "/select-role"},
		{name: "own dashboard", path: "/dashboard/mentor", user: mentor, allow: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			token := ""
			if tc.user != nil {
				token = app.TokenFor(t, tc.user)
			}
			w := getPage(t, app.Router, tc.path, token)
			if tc.allow {
				expectStatus(t, w, http.StatusOK)
				return
			}
			expectRedirect(t, w, tc.want)
		})
	}
}

func TestPages_BadTokenClearsCookie(t *testing.T) {
	app := testfixtures.NewApp(t)

	w := getPage(t, app.Router, "/dashboard/seeker", "not-a-token")
	expectRedirect(t, w, "/login")
	cookie := findCookie(w, middleware.SessionCookieName)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Fatalf("expected the session cookie to be cleared, got %+v", cookie)
	}
}

func TestPages_DeletedUserIsSignedOut(t *testing.T) {
	app := testfixtures.NewApp(t)
	seeker := testfixtures.CreateUser(t, app.DB, "Ana", models.RoleSeeker)
	token := app.TokenFor(t, seeker)
	if err := app.DB.Delete(seeker).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}

	w := getPage(t, app.Router, "/dashboard/seeker", token)
	expectRedirect(t, w, "/login")
	if findCookie(w, middleware.SessionCookieName) == nil {
		t.Error("expected the session cookie to be cleared")
	}
}

func TestPages_SeekerDashboard(t *testing.T) {
	app := testfixtures.NewApp(t)
	seeker, _ := testfixtures.CreateSeeker(t, app.DB, "Ana", "Design", 25)
	testfixtures.CreateMentor(t, app.DB, "Carlos", "Marketing", 6)
	testfixtures.CreateMentor(t, app.DB, "Beatriz", "Data", 4)

	w := getPage(t, app.Router, "/dashboard/seeker?q=data", app.TokenFor(t, seeker))
	expectStatus(t, w, http.StatusOK)
	body := decode(t, w)
	if body["page"] != "dashboard/seeker" {
		t.Errorf("unexpected page %v", body["page"])
	}
	mentors, _ := body["mentors"].([]any)
	if len(mentors) != 1 || mentors[0].(map[string]any)["name"] != "Beatriz" {
		t.Errorf("expected only Beatriz, got %v", mentors)
	}
	counts, _ := body["counts"].(map[string]any)
	if counts["pending"] != float64(0) {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestPages_MentorDashboardWithoutProfile(t *testing.T) {
	app := testfixtures.NewApp(t)
	mentor := testfixtures.CreateUser(t, app.DB, "Carlos", models.RoleMentor)

	w := getPage(t, app.Router, "/dashboard/mentor", app.TokenFor(t, mentor))
	expectStatus(t, w, http.StatusOK)
	if profile := decode(t, w)["profile"]; profile != nil {
		t.Errorf("expected no profile, got %v", profile)
	}
}

func TestPages_NotFoundAndRecovery(t *testing.T) {
	app := testfixtures.NewApp(t)
	app.Router.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := getPage(t, app.Router, "/no/such/page", "")
	expectStatus(t, w, http.StatusNotFound)
	if page := decode(t, w)["page"]; page != "not-found" {
		t.Errorf("unexpected page %v", page)
	}

	w = getPage(t, app.Router, "/boom?x=1", "")
	expectStatus(t, w, http.StatusInternalServerError)
	body := decode(t, w)
	if body["page"] != "error" || body["retry"] != "/boom?x=1" {
		t.Errorf("unexpected error page %v", body)
	}
}
