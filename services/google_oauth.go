package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/auth/credentials/idtoken"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// ErrIdentityRejected is returned when the provider does not vouch for the
// presented credential.
var ErrIdentityRejected = errors.New("services: identity rejected by provider")

// IdentityProvider turns provider credentials into an Identity.
type IdentityProvider interface {
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (Identity, error)
	VerifyIDToken(ctx context.Context, rawToken string) (Identity, error)
}

type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type GoogleOAuthService struct {
	oauth2Config *oauth2.Config
	userInfoURL  string
}

func NewGoogleOAuthService(clientID, clientSecret, redirectURL string) *GoogleOAuthService {
	return &GoogleOAuthService{
		oauth2Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (s *GoogleOAuthService) AuthURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// ExchangeCode trades an authorization code for the user's profile.
func (s *GoogleOAuthService) ExchangeCode(ctx context.Context, code string) (Identity, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: exchange code: %v", ErrIdentityRejected, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return Identity{}, err
	}
	resp, err := s.oauth2Config.Client(ctx, token).Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("get user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("userinfo request failed with status: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return Identity{}, fmt.Errorf("parse user info: %w", err)
	}
	if !info.VerifiedEmail {
		return Identity{}, fmt.Errorf("%w: email not verified", ErrIdentityRejected)
	}
	return Identity{Email: info.Email, Name: info.Name, Image: info.Picture}, nil
}

// VerifyIDToken validates a Google ID token issued for this client.
func (s *GoogleOAuthService) VerifyIDToken(ctx context.Context, rawToken string) (Identity, error) {
	payload, err := idtoken.Validate(ctx, rawToken, s.oauth2Config.ClientID)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrIdentityRejected, err)
	}
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return Identity{}, fmt.Errorf("%w: email not verified", ErrIdentityRejected)
	}
	return Identity{Email: email, Name: name, Image: picture}, nil
}
