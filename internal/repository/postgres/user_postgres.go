package postgres

import (
	"context"
	"database/sql"

	"fileapi/internal/model"
	"fileapi/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

// Create inserts a new user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, user *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (id, first_name, last_name, email, phone_number, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, first_name, last_name, email, phone_number, password_hash, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PhoneNumber,
		user.PasswordHash,
		user.CreatedAt,
	)
	var out model.User
	if err := row.Scan(
		&out.ID,
		&out.FirstName,
		&out.LastName,
		&out.Email,
		&out.PhoneNumber,
		&out.PasswordHash,
		&out.CreatedAt,
	); err != nil {
		if IsUniqueViolation(err) {
			return nil, repository.ErrDuplicateEmail
		}
		return nil, err
	}
	return &out, nil
}

// FindByIdentifier fetches a user by email or phone number.
func (r *UserPostgres) FindByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	const q = `
		SELECT id, first_name, last_name, email, phone_number, password_hash, created_at
		FROM users
		WHERE email = $1 OR phone_number = $1
	`
	row := r.db.QueryRowContext(ctx, q, identifier)
	var u model.User
	if err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PhoneNumber,
		&u.PasswordHash,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}
