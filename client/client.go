// Package client is a typed HTTP client for the mentorship API and a small
// read-through repository of the data a dashboard shows.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vnkhanh/mentorship-backend/models"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int               `json:"-"`
	Message string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d: %s %v", e.Status, e.Message, e.Fields)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New returns a client that authenticates with a session token.
func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

// WithToken returns a copy of c that sends token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

type SessionResponse struct {
	Token    string      `json:"token"`
	User     models.User `json:"user"`
	Redirect string      `json:"redirect"`
}

// SelectRole assigns the caller's role and returns the re-issued token.
func (c *Client) SelectRole(ctx context.Context, role models.Role) (*SessionResponse, error) {
	var out SessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/role", map[string]string{"role": string(role)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type MentorProfileInput struct {
	Name         string   `json:"name"`
	Photo        string   `json:"photo,omitempty"`
	Area         string   `json:"area"`
	Years        int      `json:"years"`
	Availability []string `json:"availability"`
	Bio          string   `json:"bio,omitempty"`
	Active       *bool    `json:"active,omitempty"`
}

type SeekerProfileInput struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Interest string `json:"interest"`
	Bio      string `json:"bio,omitempty"`
}

func (c *Client) MentorProfile(ctx context.Context) (*models.MentorProfile, error) {
	var out struct {
		Profile *models.MentorProfile `json:"profile"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/mentor/profile", nil, &out); err != nil {
		return nil, err
	}
	return out.Profile, nil
}

func (c *Client) SaveMentorProfile(ctx context.Context, in MentorProfileInput) (*models.MentorProfile, error) {
	var out struct {
		Profile *models.MentorProfile `json:"profile"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/mentor/profile", in, &out); err != nil {
		return nil, err
	}
	return out.Profile, nil
}

func (c *Client) SeekerProfile(ctx context.Context) (*models.SeekerProfile, error) {
	var out struct {
		Profile *models.SeekerProfile `json:"profile"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/seeker/profile", nil, &out); err != nil {
		return nil, err
	}
	return out.Profile, nil
}

func (c *Client) SaveSeekerProfile(ctx context.Context, in SeekerProfileInput) (*models.SeekerProfile, error) {
	var out struct {
		Profile *models.SeekerProfile `json:"profile"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/seeker/profile", in, &out); err != nil {
		return nil, err
	}
	return out.Profile, nil
}

// Mentors lists active mentors; query filters by name or area.
func (c *Client) Mentors(ctx context.Context, query string) ([]models.MentorProfile, error) {
	path := "/api/mentors"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	var out struct {
		Mentors []models.MentorProfile `json:"mentors"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Mentors, nil
}

func (c *Client) CreateRequest(ctx context.Context, mentorID uuid.UUID, message string) (*models.Request, error) {
	body := map[string]string{"mentor_id": mentorID.String(), "message": message}
	var out struct {
		Request *models.Request `json:"request"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/requests", body, &out); err != nil {
		return nil, err
	}
	return out.Request, nil
}

func (c *Client) MentorRequests(ctx context.Context) ([]models.RequestView, error) {
	return c.listRequests(ctx, "/api/mentor/requests")
}

func (c *Client) SeekerRequests(ctx context.Context) ([]models.RequestView, error) {
	return c.listRequests(ctx, "/api/seeker/requests")
}

func (c *Client) listRequests(ctx context.Context, path string) ([]models.RequestView, error) {
	var out struct {
		Requests []models.RequestView `json:"requests"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Requests, nil
}

// AcceptRequest schedules a session; sessionDate is "2006-01-02T15:04" or
// RFC 3339.
func (c *Client) AcceptRequest(ctx context.Context, requestID uuid.UUID, sessionDate string) (*models.Request, *models.Session, error) {
	var out struct {
		Request *models.Request `json:"request"`
		Session *models.Session `json:"session"`
	}
	path := "/api/requests/" + requestID.String() + "/accept"
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"session_date": sessionDate}, &out); err != nil {
		return nil, nil, err
	}
	return out.Request, out.Session, nil
}

func (c *Client) RejectRequest(ctx context.Context, requestID uuid.UUID) (*models.Request, error) {
	var out struct {
		Request *models.Request `json:"request"`
	}
	path := "/api/requests/" + requestID.String() + "/reject"
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Request, nil
}

func (c *Client) Sessions(ctx context.Context) ([]models.SessionView, error) {
	var out struct {
		Sessions []models.SessionView `json:"sessions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

// Health returns the raw health report and whether the server answered 200.
func (c *Client) Health(ctx context.Context) (map[string]any, bool, error) {
	return c.report(ctx, "/api/health")
}

func (c *Client) Diagnostics(ctx context.Context) (map[string]any, bool, error) {
	return c.report(ctx, "/api/diagnostics")
}

func (c *Client) report(ctx context.Context, path string) (map[string]any, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, resp.StatusCode == http.StatusOK, nil
}
