package domain

import "errors"

// Business errors the API layer maps to HTTP statuses. Anything else
// coming out of a repository or service is an infrastructure failure.
var (
	ErrFlightNotFound          = errors.New("flight not found")
	ErrNoSeatsAvailable        = errors.New("no seats available")
	ErrBookingNotFound         = errors.New("booking not found")
	ErrBookingNotOwned         = errors.New("booking belongs to another user")
	ErrBookingAlreadyCancelled = errors.New("booking already cancelled")
	ErrEmailTaken              = errors.New("email already registered")
	ErrUserNotFound            = errors.New("user not found")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrInvalidOTP              = errors.New("invalid or expired verification code")
	ErrInvalidRefreshToken     = errors.New("invalid refresh token")
	ErrInvalidInput            = errors.New("invalid input")
)
