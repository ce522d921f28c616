package handlers

import (
	"errors"
	"net/http"
)

// Identity failures are mapped to a small fixed vocabulary of user-facing
// messages. Anything unrecognised falls back to a generic message rather than
// leaking internals.
var (
	errInvalidCredentials = errors.New("invalid credentials")
	errEmailInUse         = errors.New("email already in use")
	errWeakPassword       = errors.New("weak password")
	errInvalidEmail       = errors.New("invalid email")
	errRateLimited        = errors.New("rate limited")
)

const (
	msgInvalidCredentials = "Invalid email or password."
	msgEmailInUse         = "An account with this email already exists."
	msgWeakPassword       = "Password must be at least 8 characters."
	msgInvalidEmail       = "Please enter a valid email address."
	msgRateLimited        = "Too many attempts. Please try again later."
	msgGenericFailure     = "Something went wrong. Please try again."
)

// identityErrorResponse maps an identity error to its HTTP status and
// user-facing message.
func identityErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, errInvalidCredentials):
		return http.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, errEmailInUse):
		return http.StatusConflict, msgEmailInUse
	case errors.Is(err, errWeakPassword):
		return http.StatusBadRequest, msgWeakPassword
	case errors.Is(err, errInvalidEmail):
		return http.StatusBadRequest, msgInvalidEmail
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests, msgRateLimited
	default:
		return http.StatusInternalServerError, msgGenericFailure
	}
}
