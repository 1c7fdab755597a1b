package model

import "time"

// User represents a registered account.
// This is a pure domain model with no database-specific dependencies or tags.
// PasswordHash is never serialized into API responses.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
