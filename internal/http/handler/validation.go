package handler

import (
	"regexp"
	"unicode/utf8"
)

// emailRe is deliberately conservative; the storage unique constraint is the
// real gate, this only rejects obvious garbage.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	phoneNumberLen = 12
	passwordMinLen = 5
)

type signupRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// validateSignup checks the fixed signup schema and returns per-field reasons.
// An empty map means the request is valid.
func validateSignup(req signupRequest) map[string]string {
	fields := make(map[string]string)

	if req.FirstName == "" {
		fields["firstName"] = "is required"
	}
	if req.LastName == "" {
		fields["lastName"] = "is required"
	}
	if req.Email == "" {
		fields["email"] = "is required"
	} else if !emailRe.MatchString(req.Email) {
		fields["email"] = "must be a valid email address"
	}
	if req.PhoneNumber == "" {
		fields["phoneNumber"] = "is required"
	} else if utf8.RuneCountInString(req.PhoneNumber) != phoneNumberLen {
		fields["phoneNumber"] = "must be exactly 12 characters"
	}
	if req.Password == "" {
		fields["password"] = "is required"
	} else if utf8.RuneCountInString(req.Password) < passwordMinLen {
		fields["password"] = "must be at least 5 characters"
	}

	return fields
}
