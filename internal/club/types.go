package club

import (
	"errors"
	"time"
)

// DefaultCategory is applied when a club is created without one.
const DefaultCategory = "General"

var (
	ErrNotFound      = errors.New("club not found")
	ErrAlreadyMember = errors.New("already a member of this club")
	ErrNotClubAdmin  = errors.New("only club admins can update club")
)

// Club is a student club. Admins and Members are denormalized userId lists;
// a userId appears at most once in Members and TotalMembers tracks its
// length. UpcomingEvents is carried for API compatibility but never updated.
type Club struct {
	ClubID            string    `json:"clubId"`
	ClubName          string    `json:"clubName"`
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	Admins            []string  `json:"admins"`
	Members           []string  `json:"members"`
	EventCoordinators []string  `json:"eventCoordinators"`
	CreatedBy         string    `json:"createdBy"`
	TotalMembers      int       `json:"totalMembers"`
	UpcomingEvents    int       `json:"upcomingEvents"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// New carries the fields accepted when creating a club.
type New struct {
	ClubName    string `json:"clubName"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Update carries the mutable club fields. Empty fields leave the stored
// value untouched.
type Update struct {
	ClubName    string `json:"clubName"`
	Description string `json:"description"`
	Category    string `json:"category"`
}
