package profile

import (
	"errors"
	"strings"
	"time"
)

// DefaultRole is the display label stamped on new profiles. It is not
// authoritative; authorization uses token claims, never this field.
const DefaultRole = "Member"

var (
	ErrNotFound      = errors.New("user profile not found")
	ErrAlreadyExists = errors.New("user profile already exists")
)

// Profile is a user's record, created on first write after signup and keyed
// by the identity provider's subject id.
type Profile struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Clubs     []string  `json:"clubs"`
	CreatedAt time.Time `json:"createdAt"`
	LastLogin time.Time `json:"lastLogin"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Update carries the fields a user may change on their own profile. Empty
// fields leave the stored value untouched.
type Update struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
}

// DefaultFullName derives a display name from the email's local part.
func DefaultFullName(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
