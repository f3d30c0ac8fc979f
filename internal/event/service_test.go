package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"clubhub.org/internal/club"
)

func newTestServices(t *testing.T) (*club.InMemory, *InMemory, club.Club) {
	t.Helper()
	clubs := club.NewInMemory()
	c, err := clubs.Create(context.Background(), "admin-1", club.New{ClubName: "Robotics"})
	if err != nil {
		t.Fatalf("create club: %v", err)
	}
	return clubs, NewInMemory(clubs), c
}

func TestCreateAppliesDefaults(t *testing.T) {
	_, events, c := newTestServices(t)

	e, err := events.Create(context.Background(), "admin-1", New{
		ClubID:    c.ClubID,
		EventName: "Build Night",
		Date:      "2026-10-01",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.Venue != DefaultVenue {
		t.Fatalf("expected default venue, got %q", e.Venue)
	}
	if e.MaxParticipants != DefaultMaxParticipants {
		t.Fatalf("expected default capacity, got %d", e.MaxParticipants)
	}
	if e.Status != StatusUpcoming {
		t.Fatalf("expected upcoming status, got %q", e.Status)
	}
}

func TestCreateRejectsMissingClub(t *testing.T) {
	_, events, _ := newTestServices(t)

	_, err := events.Create(context.Background(), "admin-1", New{
		ClubID:    "club-ghost",
		EventName: "Build Night",
		Date:      "2026-10-01",
	})
	if !errors.Is(err, ErrClubNotFound) {
		t.Fatalf("expected ErrClubNotFound, got %v", err)
	}
}

func TestRegisterCreatesMatchingRecord(t *testing.T) {
	_, events, c := newTestServices(t)
	e, err := events.Create(context.Background(), "admin-1", New{
		ClubID: c.ClubID, EventName: "Build Night", Date: "2026-10-01", MaxParticipants: 2,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, reg, err := events.Register(context.Background(), e.EventID, "user-9")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(updated.RegisteredUsers) != 1 || updated.RegisteredUsers[0] != "user-9" {
		t.Fatalf("unexpected registered users: %v", updated.RegisteredUsers)
	}
	if reg.EventID != e.EventID || reg.UserID != "user-9" {
		t.Fatalf("registration record mismatch: %+v", reg)
	}
	if reg.Status != RegistrationConfirmed || reg.AttendanceStatus != AttendanceNotAttended {
		t.Fatalf("unexpected record defaults: %+v", reg)
	}

	records, err := events.RegistrationsByEvent(context.Background(), e.EventID)
	if err != nil {
		t.Fatalf("RegistrationsByEvent: %v", err)
	}
	if len(records) != 1 || records[0].RegistrationID != reg.RegistrationID {
		t.Fatalf("record not persisted: %v", records)
	}
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	_, events, c := newTestServices(t)
	e, _ := events.Create(context.Background(), "admin-1", New{
		ClubID: c.ClubID, EventName: "Build Night", Date: "2026-10-01",
	})

	if _, _, err := events.Register(context.Background(), e.EventID, "user-9"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, _, err := events.Register(context.Background(), e.EventID, "user-9"); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestRegisterAtCapacityRejected(t *testing.T) {
	_, events, c := newTestServices(t)
	e, _ := events.Create(context.Background(), "admin-1", New{
		ClubID: c.ClubID, EventName: "Build Night", Date: "2026-10-01", MaxParticipants: 1,
	})

	if _, _, err := events.Register(context.Background(), e.EventID, "user-1"); err != nil {
		t.Fatalf("Register below capacity: %v", err)
	}
	if _, _, err := events.Register(context.Background(), e.EventID, "user-2"); !errors.Is(err, ErrEventFull) {
		t.Fatalf("expected ErrEventFull, got %v", err)
	}
	got, _ := events.Get(context.Background(), e.EventID)
	if len(got.RegisteredUsers) != 1 {
		t.Fatalf("capacity breached: %v", got.RegisteredUsers)
	}
}

func TestConcurrentRegistrationsRespectCapacity(t *testing.T) {
	_, events, c := newTestServices(t)
	e, _ := events.Create(context.Background(), "admin-1", New{
		ClubID: c.ClubID, EventName: "Build Night", Date: "2026-10-01", MaxParticipants: 10,
	})

	const attempts = 25
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := events.Register(context.Background(), e.EventID, fmt.Sprintf("user-%d", i))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var succeeded, full int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrEventFull):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 10 || full != attempts-10 {
		t.Fatalf("capacity race: succeeded=%d full=%d", succeeded, full)
	}
}

func TestUpdateMergesFields(t *testing.T) {
	_, events, c := newTestServices(t)
	e, _ := events.Create(context.Background(), "admin-1", New{
		ClubID: c.ClubID, EventName: "Build Night", Date: "2026-10-01",
	})

	updated, err := events.Update(context.Background(), e.EventID, Update{Venue: "Lab 3", MaxParticipants: 40})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.EventName != "Build Night" || updated.Date != "2026-10-01" {
		t.Fatalf("unspecified fields changed: %+v", updated)
	}
	if updated.Venue != "Lab 3" || updated.MaxParticipants != 40 {
		t.Fatalf("fields not merged: %+v", updated)
	}
}

func TestDeleteMissingEvent(t *testing.T) {
	_, events, _ := newTestServices(t)
	if err := events.Delete(context.Background(), "event-ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
