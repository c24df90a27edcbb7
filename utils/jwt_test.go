package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vnkhanh/mentorship-backend/models"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	now := time.Date(2025, time.February, 20, 9, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("secret", 24*time.Hour, func() time.Time { return now })
	user := &models.User{ID: uuid.New(), Email: "carlos@example.com", Role: models.RoleMentor}

	token, err := issuer.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := issuer.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email || claims.Role != models.RoleMentor {
		t.Errorf("unexpected claims %+v", claims)
	}
	if claims.Subject != user.ID.String() {
		t.Errorf("unexpected subject %s", claims.Subject)
	}
	if !claims.ExpiresAt.Time.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("unexpected expiry %v", claims.ExpiresAt)
	}

	now = now.Add(25 * time.Hour)
	if _, err := issuer.VerifyToken(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestTokenIssuer_UnsetRole(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour, nil)
	token, err := issuer.GenerateToken(&models.User{ID: uuid.New(), Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := issuer.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Role != models.RoleUnset {
		t.Errorf("expected unset role, got %q", claims.Role)
	}
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour, nil)
	other := NewTokenIssuer("other-secret", time.Hour, nil)
	user := &models.User{ID: uuid.New(), Email: "ana@example.com", Role: models.RoleSeeker}

	forged, _ := other.GenerateToken(user)
	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: user.ID,
		Role:   models.RoleSeeker,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	badRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: user.ID,
		Role:   models.Role("admin"),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	noUser, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))

	for name, token := range map[string]string{
		"wrong secret": forged,
		"alg none":     unsigned,
		"unknown role": badRole,
		"no user":      noUser,
		"garbage":      "not.a.token",
	} {
		if _, err := issuer.VerifyToken(token); err == nil {
			t.Errorf("%s: expected token to be rejected", name)
		}
	}
}
