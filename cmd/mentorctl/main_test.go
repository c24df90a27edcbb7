package main

import (
	"net/http/httptest"
	"testing"

	"github.com/vnkhanh/mentorship-backend/models"
	"github.com/vnkhanh/mentorship-backend/testfixtures"
)

func TestRun(t *testing.T) {
	app := testfixtures.NewApp(t)
	srv := httptest.NewServer(app.Router)
	defer srv.Close()
	ana := testfixtures.CreateUser(t, app.DB, "Ana", models.RoleSeeker)
	testfixtures.CreateMentor(t, app.DB, "Carlos", "Marketing", 6)
	base := []string{"--url", srv.URL, "--token", app.TokenFor(t, ana)}

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "health", args: []string{"health"}},
		{name: "mentors", args: []string{"mentors", "--q", "mark"}},
		{name: "seeker requests", args: []string{"requests", "--role", "seeker"}},
		{name: "sessions", args: []string{"sessions"}},
		{name: "mentor requests as seeker", args: []string{"requests", "--role", "mentor"}, wantErr: true},
		{name: "bad role", args: []string{"requests", "--role", "admin"}, wantErr: true},
		{name: "reject without id", args: []string{"reject"}, wantErr: true},
		{name: "accept bad id", args: []string{"accept", "nope", "--date", "2025-03-01T15:00"}, wantErr: true},
		{name: "unknown command", args: []string{"launch"}, wantErr: true},
		{name: "no command", args: nil, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := run(append(append([]string{}, base...), tc.args...))
			if (err != nil) != tc.wantErr {
				t.Errorf("run(%v) error = %v, wantErr %v", tc.args, err, tc.wantErr)
			}
		})
	}
}

func TestRun_MissingCommandPrintsUsage(t *testing.T) {
	err := run(nil)
	if err == nil || err.Error() != "missing command" {
		t.Errorf("expected missing command error, got %v", err)
	}
}
