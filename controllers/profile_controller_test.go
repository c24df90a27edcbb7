package controllers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/vnkhanh/mentorship-backend/models"
	"github.com/vnkhanh/mentorship-backend/testfixtures"
)

func TestProfiles_MentorProfileRoundTrip(t *testing.T) {
	app := testfixtures.NewApp(t)
	carlos := testfixtures.CreateUser(t, app.DB, "Carlos", models.RoleMentor)
	token := app.TokenFor(t, carlos)

	w := doJSON(t, app.Router, http.MethodGet, "/api/mentor/profile", token, nil)
	expectStatus(t, w, http.StatusNotFound)

	w = doJSON(t, app.Router, http.MethodPut, "/api/mentor/profile", token, map[string]any{
		"name":         "Carlos",
		"area":         "Marketing",
		"years":        0,
		"availability": []string{"Lunes"},
	})
	expectStatus(t, w, http.StatusUnprocessableEntity)
	fields, _ := decode(t, w)["fields"].(map[string]any)
	if fields["years"] == nil {
		t.Errorf("expected years error, got %v", fields)
	}

	w = doJSON(t, app.Router, http.MethodPut, "/api/mentor/profile", token, map[string]any{
		"name":         "Carlos",
		"area":         "Marketing",
		"years":        6,
		"availability": []string{"Lunes", "Viernes"},
	})
	expectStatus(t, w, http.StatusOK)

	w = doJSON(t, app.Router, http.MethodGet, "/api/mentor/profile", token, nil)
	expectStatus(t, w, http.StatusOK)
	profile, _ := decode(t, w)["profile"].(map[string]any)
	if profile["area"] != "Marketing" || profile["active"] != true {
		t.Errorf("unexpected profile %v", profile)
	}
	days, _ := profile["availability"].([]any)
	if len(days) != 2 || days[0] != "monday" || days[1] != "friday" {
		t.Errorf("unexpected availability %v", days)
	}
}

func TestProfiles_RoleGate(t *testing.T) {
	app := testfixtures.NewApp(t)
	ana := testfixtures.CreateUser(t, app.DB, "Ana", models.RoleSeeker)
	token := app.TokenFor(t, ana)

	w := doJSON(t, app.Router, http.MethodPut, "/api/mentor/profile", token, map[string]any{"name": "Ana", "area": "x", "years": 1})
	expectStatus(t, w, http.StatusForbidden)

	w = doJSON(t, app.Router, http.MethodGet, "/api/mentor/profile", "", nil)
	expectStatus(t, w, http.StatusUnauthorized)

	w = doJSON(t, app.Router, http.MethodPut, "/api/seeker/profile", token, map[string]any{"name": "Ana", "age": 25, "interest": "Design"})
	expectStatus(t, w, http.StatusOK)
}

func TestProfiles_ListMentors(t *testing.T) {
	app := testfixtures.NewApp(t)
	testfixtures.CreateMentor(t, app.DB, "Carlos", "Marketing", 6)
	testfixtures.CreateMentor(t, app.DB, "Beatriz", "Data", 4)
	ana := testfixtures.CreateUser(t, app.DB, "Ana", models.RoleSeeker)

	w := doJSON(t, app.Router, http.MethodGet, "/api/mentors?q=MARK", app.TokenFor(t, ana), nil)
	expectStatus(t, w, http.StatusOK)
	mentors, _ := decode(t, w)["mentors"].([]any)
	if len(mentors) != 1 {
		t.Fatalf("expected one mentor, got %v", mentors)
	}
	if m := mentors[0].(map[string]any); m["name"] != "Carlos" || m["user"] == nil {
		t.Errorf("unexpected mentor %v", m)
	}
}

func photoRequest(t *testing.T, token, filename, contentType string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="photo"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write([]byte("\x89PNG fake image"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/mentor/profile/photo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestProfiles_UploadMentorPhoto(t *testing.T) {
	app := testfixtures.NewApp(t)
	carlos, profile := testfixtures.CreateMentor(t, app.DB, "Carlos", "Marketing", 6)
	app.DB.Model(profile).Update("foto", "https://cdn.example.com/old.png")
	token := app.TokenFor(t, carlos)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, photoRequest(t, token, "carlos.gif", "image/gif"))
	expectStatus(t, w, http.StatusUnprocessableEntity)

	w = httptest.NewRecorder()
	app.Router.ServeHTTP(w, photoRequest(t, token, "carlos.png", "image/png"))
	expectStatus(t, w, http.StatusOK)

	updated, _ := decode(t, w)["profile"].(map[string]any)
	want := "https://cdn.example.com/mentors/" + carlos.ID.String() + "/carlos.png"
	if updated["photo"] != want {
		t.Errorf("expected photo %s, got %v", want, updated["photo"])
	}
	if len(app.Photos.Deleted) != 1 || app.Photos.Deleted[0] != "https://cdn.example.com/old.png" {
		t.Errorf("expected old photo to be deleted, got %v", app.Photos.Deleted)
	}
}
