package club

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"clubhub.org/internal/ids"
)

// Service defines club operations. Role gating happens at the HTTP layer;
// the per-club admin ownership check on Update lives here because it needs
// the stored admin list.
type Service interface {
	// Create writes a new club with the creator as its sole admin and all
	// counters zeroed.
	Create(ctx context.Context, creatorID string, in New) (Club, error)
	// List returns all clubs.
	List(ctx context.Context) ([]Club, error)
	// Get returns one club or ErrNotFound.
	Get(ctx context.Context, clubID string) (Club, error)
	// Update merges the supplied fields. The caller must appear in the
	// club's admin list or ErrNotClubAdmin is returned.
	Update(ctx context.Context, clubID, callerID string, upd Update) (Club, error)
	// Delete removes the club outright. Events referencing it are left in
	// place; there is no cascade.
	Delete(ctx context.Context, clubID string) error
	// Join appends userID to the member list, failing with ErrAlreadyMember
	// on a duplicate. TotalMembers is recomputed from the new list.
	Join(ctx context.Context, clubID, userID string) (Club, error)
}

// InMemory implements Service with in-process concurrency safety.
type InMemory struct {
	mu    sync.RWMutex
	clubs map[string]*Club
}

// NewInMemory creates an empty club store.
func NewInMemory() *InMemory {
	return &InMemory{clubs: make(map[string]*Club)}
}

var _ Service = (*InMemory)(nil)

func (s *InMemory) Create(ctx context.Context, creatorID string, in New) (Club, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = DefaultCategory
	}
	now := time.Now().UTC()
	c := &Club{
		ClubID:            ids.New("club"),
		ClubName:          in.ClubName,
		Description:       in.Description,
		Category:          category,
		Admins:            []string{creatorID},
		Members:           []string{},
		EventCoordinators: []string{},
		CreatedBy:         creatorID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.clubs[c.ClubID] = c
	return copyClub(c), nil
}

func (s *InMemory) List(ctx context.Context) ([]Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Club, 0, len(s.clubs))
	for _, c := range s.clubs {
		out = append(out, copyClub(c))
	}
	slices.SortFunc(out, func(a, b Club) int { return strings.Compare(a.ClubID, b.ClubID) })
	return out, nil
}

func (s *InMemory) Get(ctx context.Context, clubID string) (Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clubs[clubID]
	if !ok {
		return Club{}, ErrNotFound
	}
	return copyClub(c), nil
}

func (s *InMemory) Update(ctx context.Context, clubID, callerID string, upd Update) (Club, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clubs[clubID]
	if !ok {
		return Club{}, ErrNotFound
	}
	if !slices.Contains(c.Admins, callerID) {
		return Club{}, ErrNotClubAdmin
	}
	if v := strings.TrimSpace(upd.ClubName); v != "" {
		c.ClubName = v
	}
	if v := strings.TrimSpace(upd.Description); v != "" {
		c.Description = v
	}
	if v := strings.TrimSpace(upd.Category); v != "" {
		c.Category = v
	}
	c.UpdatedAt = time.Now().UTC()
	return copyClub(c), nil
}

func (s *InMemory) Delete(ctx context.Context, clubID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clubs[clubID]; !ok {
		return ErrNotFound
	}
	delete(s.clubs, clubID)
	return nil
}

func (s *InMemory) Join(ctx context.Context, clubID, userID string) (Club, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clubs[clubID]
	if !ok {
		return Club{}, ErrNotFound
	}
	if slices.Contains(c.Members, userID) {
		return Club{}, ErrAlreadyMember
	}
	c.Members = append(c.Members, userID)
	c.TotalMembers = len(c.Members)
	c.UpdatedAt = time.Now().UTC()
	return copyClub(c), nil
}

// ClubExists satisfies the event package's club directory.
func (s *InMemory) ClubExists(ctx context.Context, clubID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.clubs[clubID]
	return ok, nil
}

func copyClub(c *Club) Club {
	out := *c
	out.Admins = append([]string{}, c.Admins...)
	out.Members = append([]string{}, c.Members...)
	out.EventCoordinators = append([]string{}, c.EventCoordinators...)
	return out
}
