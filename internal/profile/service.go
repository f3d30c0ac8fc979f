package profile

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Service defines profile operations.
type Service interface {
	// Create writes a new profile, failing with ErrAlreadyExists when one is
	// already stored for userID. An empty fullName defaults to the email's
	// local part.
	Create(ctx context.Context, userID, email, fullName string) (Profile, error)
	// Get returns the profile for userID or ErrNotFound.
	Get(ctx context.Context, userID string) (Profile, error)
	// Update merges the supplied fields over the stored profile and stamps
	// the update time.
	Update(ctx context.Context, userID string, upd Update) (Profile, error)
}

// InMemory implements Service with in-process concurrency safety. Used for
// local development and tests; production runs on the Postgres store.
type InMemory struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewInMemory creates an empty profile store.
func NewInMemory() *InMemory {
	return &InMemory{profiles: make(map[string]*Profile)}
}

var _ Service = (*InMemory)(nil)

func (s *InMemory) Create(ctx context.Context, userID, email, fullName string) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[userID]; ok {
		return Profile{}, ErrAlreadyExists
	}

	if strings.TrimSpace(fullName) == "" {
		fullName = DefaultFullName(email)
	}
	now := time.Now().UTC()
	p := &Profile{
		UserID:    userID,
		Email:     email,
		FullName:  fullName,
		Role:      DefaultRole,
		Clubs:     []string{},
		CreatedAt: now,
		LastLogin: now,
		UpdatedAt: now,
	}
	s.profiles[userID] = p
	return copyProfile(p), nil
}

func (s *InMemory) Get(ctx context.Context, userID string) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return copyProfile(p), nil
}

func (s *InMemory) Update(ctx context.Context, userID string, upd Update) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	if v := strings.TrimSpace(upd.FullName); v != "" {
		p.FullName = v
	}
	if v := strings.TrimSpace(upd.Phone); v != "" {
		p.Phone = v
	}
	if v := strings.TrimSpace(upd.Bio); v != "" {
		p.Bio = v
	}
	p.UpdatedAt = time.Now().UTC()
	return copyProfile(p), nil
}

func copyProfile(p *Profile) Profile {
	out := *p
	out.Clubs = append([]string(nil), p.Clubs...)
	if out.Clubs == nil {
		out.Clubs = []string{}
	}
	return out
}
