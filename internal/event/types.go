package event

import (
	"errors"
	"time"
)

// Defaults applied when an event is created without the field.
const (
	DefaultVenue           = "TBA"
	DefaultMaxParticipants = 100
)

// Status values.
const (
	StatusUpcoming = "Upcoming"
)

// Registration record values.
const (
	RegistrationConfirmed = "Confirmed"
	AttendanceNotAttended = "Not Attended"
)

var (
	ErrNotFound          = errors.New("event not found")
	ErrClubNotFound      = errors.New("club not found")
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrEventFull         = errors.New("event is full")
)

// Event is a club event. RegisteredUsers is a denormalized userId list; a
// userId appears at most once and its length never exceeds MaxParticipants.
// ClubID is a soft reference, checked only at creation time.
type Event struct {
	EventID         string    `json:"eventId"`
	ClubID          string    `json:"clubId"`
	EventName       string    `json:"eventName"`
	Description     string    `json:"description"`
	Date            string    `json:"date"`
	Venue           string    `json:"venue"`
	MaxParticipants int       `json:"maxParticipants"`
	RegisteredUsers []string  `json:"registeredUsers"`
	Status          string    `json:"status"`
	CreatedBy       string    `json:"createdBy"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Registration is the append-only record written alongside a successful
// event registration. Never updated or deleted.
type Registration struct {
	RegistrationID   string    `json:"registrationId"`
	EventID          string    `json:"eventId"`
	UserID           string    `json:"userId"`
	RegisteredDate   time.Time `json:"registeredDate"`
	Status           string    `json:"status"`
	AttendanceStatus string    `json:"attendanceStatus"`
}

// New carries the fields accepted when creating an event.
type New struct {
	ClubID          string `json:"clubId"`
	EventName       string `json:"eventName"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	Venue           string `json:"venue"`
	MaxParticipants int    `json:"maxParticipants"`
}

// Update carries the mutable event fields. Zero-valued fields leave the
// stored value untouched.
type Update struct {
	EventName       string `json:"eventName"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	Venue           string `json:"venue"`
	Status          string `json:"status"`
	MaxParticipants int    `json:"maxParticipants"`
}
