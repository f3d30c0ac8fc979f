package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clubhub.org/internal/auth"
	"clubhub.org/internal/club"
	"clubhub.org/internal/event"
	"clubhub.org/internal/httpapi"
	"clubhub.org/internal/profile"
)

func newTestServer(t *testing.T) (*httptest.Server, *auth.StaticVerifier) {
	t.Helper()
	verifier, err := auth.NewStaticVerifier([]byte("test-secret"), "clubhub")
	if err != nil {
		t.Fatalf("NewStaticVerifier: %v", err)
	}
	clubs := club.NewInMemory()
	api := httpapi.New(httpapi.Options{
		Version:    "test",
		CORSOrigin: "http://localhost:3000",
		Verifier:   verifier,
		Profiles:   profile.NewInMemory(),
		Clubs:      clubs,
		Events:     event.NewInMemory(clubs),
	})
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)
	return srv, verifier
}

func TestClientRoundTrip(t *testing.T) {
	srv, verifier := newTestServer(t)
	adminTok, err := verifier.SignToken("admin-1", "admin@example.com", []string{"Admin"}, time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	admin := New(srv.URL, adminTok)
	ctx := context.Background()

	p, err := admin.CreateProfile(ctx, "admin-1", "admin@example.com", "")
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if p.FullName != "admin" {
		t.Fatalf("fullName = %q", p.FullName)
	}

	cl, err := admin.CreateClub(ctx, club.New{ClubName: "Chess Club"})
	if err != nil {
		t.Fatalf("CreateClub: %v", err)
	}
	ev, err := admin.CreateEvent(ctx, event.New{ClubID: cl.ClubID, EventName: "Blitz Night", Date: "2026-10-01"})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if ev.Venue != "TBA" || ev.MaxParticipants != 100 {
		t.Fatalf("event defaults: %+v", ev)
	}

	memberTok, err := verifier.SignToken("member-1", "member@example.com", nil, time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	member := New(srv.URL, memberTok)

	joined, err := member.JoinClub(ctx, cl.ClubID)
	if err != nil {
		t.Fatalf("JoinClub: %v", err)
	}
	if joined.TotalMembers != 1 {
		t.Fatalf("totalMembers = %d", joined.TotalMembers)
	}

	res, err := member.Register(ctx, ev.EventID)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.Registration.UserID != "member-1" || res.Registration.EventID != ev.EventID {
		t.Fatalf("registration record: %+v", res.Registration)
	}

	events, err := member.ClubEvents(ctx, cl.ClubID)
	if err != nil {
		t.Fatalf("ClubEvents: %v", err)
	}
	if len(events) != 1 || len(events[0].RegisteredUsers) != 1 {
		t.Fatalf("club events: %+v", events)
	}
}

func TestClientEventUpdateAndDelete(t *testing.T) {
	srv, verifier := newTestServer(t)
	adminTok, err := verifier.SignToken("admin-1", "admin@example.com", []string{"Admin"}, time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	admin := New(srv.URL, adminTok)
	ctx := context.Background()

	cl, err := admin.CreateClub(ctx, club.New{ClubName: "Chess Club"})
	if err != nil {
		t.Fatalf("CreateClub: %v", err)
	}
	ev, err := admin.CreateEvent(ctx, event.New{ClubID: cl.ClubID, EventName: "Blitz Night", Date: "2026-10-01"})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	updated, err := admin.UpdateEvent(ctx, ev.EventID, event.Update{Venue: "Main Hall"})
	if err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
	if updated.Venue != "Main Hall" || updated.EventName != "Blitz Night" {
		t.Fatalf("merge lost fields: %+v", updated)
	}

	if err := admin.DeleteEvent(ctx, ev.EventID); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	err = admin.DeleteEvent(ctx, ev.EventID)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("second delete: %v", err)
	}
}

func TestClientSurfacesAPIError(t *testing.T) {
	srv, verifier := newTestServer(t)
	tok, err := verifier.SignToken("user-1", "u@example.com", nil, time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	c := New(srv.URL, tok)

	_, err = c.JoinClub(context.Background(), "club-missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Message != "Club not found" {
		t.Fatalf("apiErr = %+v", apiErr)
	}
}

func TestClientForbiddenWithoutRole(t *testing.T) {
	srv, verifier := newTestServer(t)
	tok, err := verifier.SignToken("user-1", "u@example.com", []string{"Member"}, time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	c := New(srv.URL, tok)

	_, err = c.CreateClub(context.Background(), club.New{ClubName: "Chess Club"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusForbidden {
		t.Fatalf("expected 403 APIError, got %v", err)
	}
}

func TestRolesFromToken(t *testing.T) {
	verifier, err := auth.NewStaticVerifier([]byte("test-secret"), "clubhub")
	if err != nil {
		t.Fatalf("NewStaticVerifier: %v", err)
	}
	tok, err := verifier.SignToken("user-1", "u@example.com", []string{"Admin"}, time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	flags, err := RolesFromToken(tok, "groups")
	if err != nil {
		t.Fatalf("RolesFromToken: %v", err)
	}
	if !flags.IsAdmin || flags.IsCoordinator {
		t.Fatalf("flags = %+v", flags)
	}

	if _, err := RolesFromToken("not-a-jwt", "groups"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
