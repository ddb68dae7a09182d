// Package model defines the data structures shared across the application.
package model

import "time"

// Role determines which permission set a user receives.
type Role string

const (
	RoleRunner Role = "runner"
	RoleCoach  Role = "coach"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known role values.
func (r Role) Valid() bool {
	switch r {
	case RoleRunner, RoleCoach, RoleAdmin:
		return true
	}
	return false
}

// User is a registered account. Identity arrives via Google OAuth (or a
// credentials login for accounts created out of band), so Email is the
// unique lookup key. GoogleID holds the provider's stable subject ID and
// is empty for credentials-only accounts.
//
// CoachID is set only for runners that have been assigned a coach; the
// relation is resolved at read time when building role responses.
type User struct {
	ID           string    `json:"id"`
	GoogleID     string    `json:"-"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	CoachID      string    `json:"coachId,omitempty"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	PasswordHash string    `json:"-"`
	Profile      *Profile  `json:"profile,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile holds the optional runner-entered attributes. All fields are
// pointers so an update can distinguish "not provided" from "cleared".
type Profile struct {
	WeightKg   *float64 `json:"weightKg,omitempty"`
	HeightCm   *float64 `json:"heightCm,omitempty"`
	Experience *string  `json:"experience,omitempty"`
	Goals      *string  `json:"goals,omitempty"`
}

// UserSummary is the shape used when a user appears inside another
// response: the coach attached to a runner's role info, or the entries of
// a coach's runner list.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role,omitempty"`
}

// Summary returns the embeddable summary of u. Role is included so coach
// responses can show each runner's role; the coach object on a runner
// response clears it.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
