// Package client is a typed HTTP client for the API. It attaches the bearer
// token, decodes the response envelope and surfaces failures as APIError. The
// smoke binary and external Go callers use it instead of raw HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"clubhub.org/internal/club"
	"clubhub.org/internal/event"
	"clubhub.org/internal/profile"
)

// APIError is a non-2xx response decoded from the envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to one API base URL. Token may be empty for public reads.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// New constructs a Client with a sane default timeout.
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

// do issues the request and decodes the envelope's data into out when the
// call succeeds. out may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

// CreateProfile creates the profile for userID. No token is required.
func (c *Client) CreateProfile(ctx context.Context, userID, email, fullName string) (profile.Profile, error) {
	var p profile.Profile
	err := c.do(ctx, http.MethodPost, "/api/auth/profile", map[string]string{
		"userId":   userID,
		"email":    email,
		"fullName": fullName,
	}, &p)
	return p, err
}

// Profile returns the caller's own profile.
func (c *Client) Profile(ctx context.Context) (profile.Profile, error) {
	var p profile.Profile
	err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, &p)
	return p, err
}

// UpdateProfile merges the supplied fields over the caller's profile.
func (c *Client) UpdateProfile(ctx context.Context, upd profile.Update) (profile.Profile, error) {
	var p profile.Profile
	err := c.do(ctx, http.MethodPut, "/api/auth/profile", upd, &p)
	return p, err
}

// Clubs lists all clubs.
func (c *Client) Clubs(ctx context.Context) ([]club.Club, error) {
	var clubs []club.Club
	err := c.do(ctx, http.MethodGet, "/api/clubs", nil, &clubs)
	return clubs, err
}

// Club returns one club by id.
func (c *Client) Club(ctx context.Context, clubID string) (club.Club, error) {
	var cl club.Club
	err := c.do(ctx, http.MethodGet, "/api/clubs/"+clubID, nil, &cl)
	return cl, err
}

// CreateClub creates a club. Requires the admin role.
func (c *Client) CreateClub(ctx context.Context, in club.New) (club.Club, error) {
	var cl club.Club
	err := c.do(ctx, http.MethodPost, "/api/clubs", in, &cl)
	return cl, err
}

// UpdateClub merges the supplied fields over the club.
func (c *Client) UpdateClub(ctx context.Context, clubID string, upd club.Update) (club.Club, error) {
	var cl club.Club
	err := c.do(ctx, http.MethodPut, "/api/clubs/"+clubID, upd, &cl)
	return cl, err
}

// DeleteClub removes a club. Requires the admin role.
func (c *Client) DeleteClub(ctx context.Context, clubID string) error {
	return c.do(ctx, http.MethodDelete, "/api/clubs/"+clubID, nil, nil)
}

// JoinClub adds the caller to the club's members.
func (c *Client) JoinClub(ctx context.Context, clubID string) (club.Club, error) {
	var cl club.Club
	err := c.do(ctx, http.MethodPost, "/api/clubs/"+clubID+"/join", nil, &cl)
	return cl, err
}

// Events lists all events.
func (c *Client) Events(ctx context.Context) ([]event.Event, error) {
	var events []event.Event
	err := c.do(ctx, http.MethodGet, "/api/events", nil, &events)
	return events, err
}

// ClubEvents lists the events of one club.
func (c *Client) ClubEvents(ctx context.Context, clubID string) ([]event.Event, error) {
	var events []event.Event
	err := c.do(ctx, http.MethodGet, "/api/events/club/"+clubID, nil, &events)
	return events, err
}

// Event returns one event by id.
func (c *Client) Event(ctx context.Context, eventID string) (event.Event, error) {
	var e event.Event
	err := c.do(ctx, http.MethodGet, "/api/events/"+eventID, nil, &e)
	return e, err
}

// CreateEvent creates an event. Requires the admin or coordinator role.
func (c *Client) CreateEvent(ctx context.Context, in event.New) (event.Event, error) {
	var e event.Event
	err := c.do(ctx, http.MethodPost, "/api/events", in, &e)
	return e, err
}

// UpdateEvent merges the supplied fields over the event.
func (c *Client) UpdateEvent(ctx context.Context, eventID string, upd event.Update) (event.Event, error) {
	var e event.Event
	err := c.do(ctx, http.MethodPut, "/api/events/"+eventID, upd, &e)
	return e, err
}

// DeleteEvent removes an event. Requires the admin or coordinator role.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	return c.do(ctx, http.MethodDelete, "/api/events/"+eventID, nil, nil)
}

// RegistrationResult pairs the updated event with the created record.
type RegistrationResult struct {
	Event        event.Event        `json:"event"`
	Registration event.Registration `json:"registration"`
}

// Register adds the caller to the event's registered users.
func (c *Client) Register(ctx context.Context, eventID string) (RegistrationResult, error) {
	var res RegistrationResult
	err := c.do(ctx, http.MethodPost, "/api/events/"+eventID+"/register", nil, &res)
	return res, err
}

// RoleFlags is the client-side view of the caller's groups, derived from
// unverified token claims the way a browser frontend does. Display only; the
// server re-checks every call.
type RoleFlags struct {
	IsAdmin       bool
	IsCoordinator bool
}

// RolesFromToken decodes the token without verifying the signature and
// inspects the named claim for group labels.
func RolesFromToken(token, rolesClaim string) (RoleFlags, error) {
	var claims jwt.MapClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return RoleFlags{}, fmt.Errorf("parse token: %w", err)
	}
	var flags RoleFlags
	if raw, ok := claims[rolesClaim].([]any); ok {
		for _, v := range raw {
			switch s, _ := v.(string); strings.ToLower(s) {
			case "admin":
				flags.IsAdmin = true
			case "coordinator":
				flags.IsCoordinator = true
			}
		}
	}
	return flags, nil
}
