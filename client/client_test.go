package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vnkhanh/mentorship-backend/client"
	"github.com/vnkhanh/mentorship-backend/models"
	"github.com/vnkhanh/mentorship-backend/testfixtures"
)

func newServer(t *testing.T) (*testfixtures.App, *httptest.Server) {
	t.Helper()
	app := testfixtures.NewApp(t)
	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)
	return app, srv
}

func TestClient_ValidationError(t *testing.T) {
	app, srv := newServer(t)
	carlos := testfixtures.CreateUser(t, app.DB, "Carlos", models.RoleMentor)
	api := client.New(srv.URL, app.TokenFor(t, carlos), srv.Client())

	_, err := api.SaveMentorProfile(context.Background(), client.MentorProfileInput{Name: "Carlos", Years: 3})
	if !client.IsStatus(err, http.StatusUnprocessableEntity) {
		t.Fatalf("expected 422, got %v", err)
	}
	apiErr := err.(*client.APIError)
	if apiErr.Fields["area"] == "" {
		t.Errorf("expected an area error, got %v", apiErr.Fields)
	}

	if _, err := api.WithToken("").Sessions(context.Background()); !client.IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("expected 401 without a token, got %v", err)
	}
}

func TestClient_SelectRole(t *testing.T) {
	app, srv := newServer(t)
	beto := testfixtures.CreateUser(t, app.DB, "Beto", models.RoleUnset)
	api := client.New(srv.URL, app.TokenFor(t, beto), srv.Client())

	session, err := api.SelectRole(context.Background(), models.RoleSeeker)
	if err != nil {
		t.Fatalf("select role: %v", err)
	}
	if session.User.Role != models.RoleSeeker || session.Redirect != "/dashboard/seeker" || session.Token == "" {
		t.Errorf("unexpected session %+v", session)
	}
	if _, err := api.WithToken(session.Token).SeekerRequests(context.Background()); err != nil {
		t.Errorf("re-issued token should reach seeker routes: %v", err)
	}
}

func TestRepository_InvalidatesOnMutation(t *testing.T) {
	app, srv := newServer(t)
	ctx := context.Background()
	ana, _ := testfixtures.CreateSeeker(t, app.DB, "Ana", "Design", 25)
	carlos, _ := testfixtures.CreateMentor(t, app.DB, "Carlos", "Marketing", 6)

	seekerAPI := client.New(srv.URL, app.TokenFor(t, ana), srv.Client())
	mentorAPI := client.New(srv.URL, app.TokenFor(t, carlos), srv.Client())
	seekerRepo := client.NewRepository(seekerAPI, models.RoleSeeker, app.Clock.Now)
	mentorRepo := client.NewRepository(mentorAPI, models.RoleMentor, app.Clock.Now)

	snap, err := seekerRepo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.SeekerProfile == nil || len(snap.Mentors) != 1 || len(snap.Requests) != 0 {
		t.Fatalf("unexpected seeker snapshot %+v", snap)
	}

	created, err := seekerRepo.CreateRequest(ctx, carlos.ID, "Hola Carlos")
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	snap, err = seekerRepo.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(snap.Requests) != 1 || snap.Requests[0].Status != models.RequestPending {
		t.Fatalf("expected the new request after a mutation, got %+v", snap.Requests)
	}

	mentorSnap, err := mentorRepo.Load(ctx)
	if err != nil {
		t.Fatalf("mentor load: %v", err)
	}
	if mentorSnap.MentorProfile == nil || len(mentorSnap.Requests) != 1 || len(mentorSnap.Sessions) != 0 {
		t.Fatalf("unexpected mentor snapshot %+v", mentorSnap)
	}

	if _, _, err := mentorRepo.AcceptRequest(ctx, created.ID, "2025-03-01T15:00"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	mentorSnap, err = mentorRepo.Load(ctx)
	if err != nil {
		t.Fatalf("mentor reload: %v", err)
	}
	if len(mentorSnap.Sessions) != 1 || mentorSnap.Requests[0].Status != models.RequestAccepted {
		t.Errorf("expected an accepted request with a session, got %+v", mentorSnap)
	}

	stale, err := seekerRepo.Load(ctx)
	if err != nil {
		t.Fatalf("cached load: %v", err)
	}
	if stale.Requests[0].Status != models.RequestPending {
		t.Error("expected the seeker snapshot to stay cached until invalidated")
	}
	seekerRepo.Invalidate()
	fresh, err := seekerRepo.Load(ctx)
	if err != nil {
		t.Fatalf("fresh load: %v", err)
	}
	if fresh.Requests[0].Status != models.RequestAccepted || len(fresh.Sessions) != 1 {
		t.Errorf("unexpected fresh snapshot %+v", fresh)
	}
}

func TestRepository_MissingProfile(t *testing.T) {
	app, srv := newServer(t)
	carlos := testfixtures.CreateUser(t, app.DB, "Carlos", models.RoleMentor)
	repo := client.NewRepository(client.New(srv.URL, app.TokenFor(t, carlos), srv.Client()), models.RoleMentor, nil)

	snap, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.MentorProfile != nil {
		t.Errorf("expected no profile, got %+v", snap.MentorProfile)
	}
}

func TestClient_Health(t *testing.T) {
	_, srv := newServer(t)
	report, ok, err := client.New(srv.URL, "", srv.Client()).Health(context.Background())
	if err != nil || !ok {
		t.Fatalf("health: ok=%v err=%v", ok, err)
	}
	if report["status"] != "ok" {
		t.Errorf("unexpected report %v", report)
	}
}
