package repository

import (
	"context"
	"errors"

	"fileapi/internal/model"
)

// ErrDuplicateEmail is returned by Create when the email column's unique
// constraint rejects the row.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines data access for users using SQL queries only.
// No business logic here, strictly persistence operations.
type UserRepository interface {
	// Create inserts a new user record and returns the stored row.
	// A duplicate email is reported as ErrDuplicateEmail.
	Create(ctx context.Context, user *model.User) (*model.User, error)

	// FindByIdentifier returns a user whose email or phone number matches the identifier.
	FindByIdentifier(ctx context.Context, identifier string) (*model.User, error)
}
