package event

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"clubhub.org/internal/ids"
)

// ClubDirectory answers whether a club id refers to an existing club. Event
// creation is the only place the club reference is checked.
type ClubDirectory interface {
	ClubExists(ctx context.Context, clubID string) (bool, error)
}

// Service defines event and registration operations.
type Service interface {
	// Create writes a new event after verifying the referenced club exists
	// (ErrClubNotFound otherwise). Venue, capacity and status receive
	// defaults when unset.
	Create(ctx context.Context, creatorID string, in New) (Event, error)
	// List returns all events.
	List(ctx context.Context) ([]Event, error)
	// Get returns one event or ErrNotFound.
	Get(ctx context.Context, eventID string) (Event, error)
	// ListByClub returns the events referencing clubID.
	ListByClub(ctx context.Context, clubID string) ([]Event, error)
	// Update merges the supplied fields over the stored event.
	Update(ctx context.Context, eventID string, upd Update) (Event, error)
	// Delete removes the event unconditionally.
	Delete(ctx context.Context, eventID string) error
	// Register appends userID to the event's registered list and writes the
	// matching Registration record in one step. Fails with
	// ErrAlreadyRegistered on a duplicate and ErrEventFull at capacity.
	Register(ctx context.Context, eventID, userID string) (Event, Registration, error)
}

// InMemory implements Service with in-process concurrency safety.
type InMemory struct {
	clubs ClubDirectory

	mu            sync.RWMutex
	events        map[string]*Event
	registrations map[string][]Registration // eventID -> records
}

// NewInMemory creates an empty event store backed by the given club
// directory.
func NewInMemory(clubs ClubDirectory) *InMemory {
	return &InMemory{
		clubs:         clubs,
		events:        make(map[string]*Event),
		registrations: make(map[string][]Registration),
	}
}

var _ Service = (*InMemory)(nil)

func (s *InMemory) Create(ctx context.Context, creatorID string, in New) (Event, error) {
	ok, err := s.clubs.ClubExists(ctx, in.ClubID)
	if err != nil {
		return Event{}, err
	}
	if !ok {
		return Event{}, ErrClubNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	venue := strings.TrimSpace(in.Venue)
	if venue == "" {
		venue = DefaultVenue
	}
	maxParticipants := in.MaxParticipants
	if maxParticipants <= 0 {
		maxParticipants = DefaultMaxParticipants
	}
	now := time.Now().UTC()
	e := &Event{
		EventID:         ids.New("event"),
		ClubID:          in.ClubID,
		EventName:       in.EventName,
		Description:     in.Description,
		Date:            in.Date,
		Venue:           venue,
		MaxParticipants: maxParticipants,
		RegisteredUsers: []string{},
		Status:          StatusUpcoming,
		CreatedBy:       creatorID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.events[e.EventID] = e
	return copyEvent(e), nil
}

func (s *InMemory) List(ctx context.Context) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, copyEvent(e))
	}
	slices.SortFunc(out, func(a, b Event) int { return strings.Compare(a.EventID, b.EventID) })
	return out, nil
}

func (s *InMemory) Get(ctx context.Context, eventID string) (Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[eventID]
	if !ok {
		return Event{}, ErrNotFound
	}
	return copyEvent(e), nil
}

func (s *InMemory) ListByClub(ctx context.Context, clubID string) ([]Event, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Event, 0, len(all))
	for _, e := range all {
		if e.ClubID == clubID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *InMemory) Update(ctx context.Context, eventID string, upd Update) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[eventID]
	if !ok {
		return Event{}, ErrNotFound
	}
	if v := strings.TrimSpace(upd.EventName); v != "" {
		e.EventName = v
	}
	if v := strings.TrimSpace(upd.Description); v != "" {
		e.Description = v
	}
	if v := strings.TrimSpace(upd.Date); v != "" {
		e.Date = v
	}
	if v := strings.TrimSpace(upd.Venue); v != "" {
		e.Venue = v
	}
	if v := strings.TrimSpace(upd.Status); v != "" {
		e.Status = v
	}
	if upd.MaxParticipants > 0 {
		e.MaxParticipants = upd.MaxParticipants
	}
	e.UpdatedAt = time.Now().UTC()
	return copyEvent(e), nil
}

func (s *InMemory) Delete(ctx context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[eventID]; !ok {
		return ErrNotFound
	}
	delete(s.events, eventID)
	return nil
}

func (s *InMemory) Register(ctx context.Context, eventID, userID string) (Event, Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[eventID]
	if !ok {
		return Event{}, Registration{}, ErrNotFound
	}
	if slices.Contains(e.RegisteredUsers, userID) {
		return Event{}, Registration{}, ErrAlreadyRegistered
	}
	if len(e.RegisteredUsers) >= e.MaxParticipants {
		return Event{}, Registration{}, ErrEventFull
	}

	now := time.Now().UTC()
	e.RegisteredUsers = append(e.RegisteredUsers, userID)
	e.UpdatedAt = now
	reg := Registration{
		RegistrationID:   ids.New("reg"),
		EventID:          eventID,
		UserID:           userID,
		RegisteredDate:   now,
		Status:           RegistrationConfirmed,
		AttendanceStatus: AttendanceNotAttended,
	}
	s.registrations[eventID] = append(s.registrations[eventID], reg)
	return copyEvent(e), reg, nil
}

// RegistrationsByEvent returns the append-only registration records for an
// event, oldest first.
func (s *InMemory) RegistrationsByEvent(ctx context.Context, eventID string) ([]Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.events[eventID]; !ok {
		return nil, ErrNotFound
	}
	return append([]Registration(nil), s.registrations[eventID]...), nil
}

func copyEvent(e *Event) Event {
	out := *e
	out.RegisteredUsers = append([]string{}, e.RegisteredUsers...)
	return out
}
