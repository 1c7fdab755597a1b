package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"fileapi/internal/service"
)

type signinRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

// Signup registers a new user (POST /users/signup).
// Validation failures return 400 with field-level reasons before any side effect.
func Signup(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signupRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid request body")
		}

		if fields := validateSignup(req); len(fields) > 0 {
			return writeValidationError(c, fields)
		}

		user, err := svc.Signup(c.UserContext(), service.SignupInput{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
			Password:    req.Password,
		})
		if err != nil {
			if errors.Is(err, service.ErrEmailTaken) {
				return writeError(c, fiber.StatusBadRequest, "email already registered")
			}
			return writeError(c, fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(fiber.Map{"id": user.ID})
	}
}

// Signin exchanges credentials for a token pair (POST /users/signin).
// Unknown identifiers and wrong passwords produce the identical response.
func Signin(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signinRequest
		if err := c.BodyParser(&req); err != nil || req.Identifier == "" || req.Password == "" {
			return writeError(c, fiber.StatusUnauthorized, "invalid credentials")
		}

		pair, err := svc.Signin(c.UserContext(), req.Identifier, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				return writeError(c, fiber.StatusUnauthorized, "invalid credentials")
			}
			return writeError(c, fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(pair)
	}
}

// RefreshToken mints a new access token (POST /signin/new_token).
// Missing token -> 401; unregistered or invalid token -> 403. No bodies.
func RefreshToken(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tokenRequest
		if err := c.BodyParser(&req); err != nil || req.Token == "" {
			return c.Status(fiber.StatusUnauthorized).Send(nil)
		}

		accessToken, err := svc.Refresh(c.UserContext(), req.Token)
		if err != nil {
			if errors.Is(err, service.ErrRefreshNotRegistered) || errors.Is(err, service.ErrRefreshInvalid) {
				return c.Status(fiber.StatusForbidden).Send(nil)
			}
			return writeError(c, fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(fiber.Map{"accessToken": accessToken})
	}
}

// Logout revokes a refresh token (DELETE /logout).
// Always answers 204, whether or not the token was registered.
func Logout(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tokenRequest
		// A malformed body still logs out: there is nothing to revoke.
		_ = c.BodyParser(&req)

		if req.Token != "" {
			svc.Logout(c.UserContext(), req.Token)
		}
		return c.Status(fiber.StatusNoContent).Send(nil)
	}
}
