package middleware

import (
	"testing"

	"github.com/vnkhanh/mentorship-backend/models"
)

func TestIsPublicPath(t *testing.T) {
	tests := map[string]bool{
		"/login":                    true,
		"/login/":                   true,
		"/api/auth/google/callback": true,
		"/api/health":               true,
		"/static/app.css":           true,
		"/loginx":                   false,
		"/":                         false,
		"/dashboard/mentor":         false,
		"/api/healthcheck":          false,
	}
	for path, want := range tests {
		if got := IsPublicPath(path); got != want {
			t.Errorf("IsPublicPath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestEvaluate(t *testing.T) {
	mentor := &Visitor{Role: models.RoleMentor}
	seeker := &Visitor{Role: models.RoleSeeker}
	unset := &Visitor{}

	tests := []struct {
		name    string
		path    string
		visitor *Visitor
		want    string
	}{
		{"public without session", "/login", nil, ""},
		{"public with session", "/api/auth/logout", mentor, ""},
		{"protected without session", "/dashboard/seeker", nil, LoginPath},
		{"home without session", "/", nil, LoginPath},
		{"home with session", "/", unset, ""},
		{"select role without role", SelectRolePath, unset, ""},
		{"select role as mentor", SelectRolePath, mentor, "/dashboard/mentor"},
		{"select role as seeker", SelectRolePath, seeker, "/dashboard/seeker"},
		{"mentor on own dashboard", "/dashboard/mentor", mentor, ""},
		{"mentor on nested page", "/dashboard/mentor/requests", mentor, ""},
		{"mentor on seeker dashboard", "/dashboard/seeker", mentor, "/dashboard/mentor"},
		{"seeker on mentor dashboard", "/dashboard/mentor", seeker, "/dashboard/seeker"},
		{"seeker on dashboard root", "/dashboard", seeker, "/dashboard/seeker"},
		{"no role on dashboard", "/dashboard/mentor", unset, SelectRolePath},
		{"other page with session", "/profile", unset, ""},
		{"lookalike prefix", "/dashboards", seeker, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.path, tc.visitor)
			if got.Redirect != tc.want {
				t.Errorf("Evaluate(%q) redirect = %q, want %q", tc.path, got.Redirect, tc.want)
			}
			if got.Allowed() != (tc.want == "") {
				t.Errorf("Allowed() = %v for redirect %q", got.Allowed(), got.Redirect)
			}
		})
	}
}
