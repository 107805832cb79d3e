package auth

import (
	"errors"

	"github.com/jon4hz/leafcheck/internal/config"
)

const (
	MsgRegistered      = "Registration successful! You can now log in."
	MsgLoggedIn        = "Login successful! You can now access the Disease Recognition page."
	MsgLoggedOut       = "You have logged out successfully."
	MsgAdminLoggedIn   = "Admin login successful!"
	MsgAdminLoggedOut  = "Admin logged out successfully."
	MsgLoginRequired   = "Please log in to access Disease Recognition."
	MsgAdminRequired   = "Please log in as admin to access the Admin Dashboard."
	MsgUnexpectedError = "Something went wrong, please try again."
)

// Message returns the user facing text for an error returned by the gate.
func Message(err error, kind config.IdentifierKind) string {
	username := kind == config.IdentifierUsername
	switch {
	case errors.Is(err, ErrInvalidIdentifier):
		if username {
			return "Please enter a username."
		}
		return "Please enter a valid 11-digit mobile number."
	case errors.Is(err, ErrDuplicateIdentifier):
		if username {
			return "This username is already registered."
		}
		return "This mobile number is already registered."
	case errors.Is(err, ErrPasswordMismatch):
		return "Passwords do not match."
	case errors.Is(err, ErrInvalidCredentials):
		if username {
			return "Login failed: Invalid username or password."
		}
		return "Login failed: Invalid mobile number or password."
	case errors.Is(err, ErrInvalidAdminCredentials):
		return "Invalid admin credentials."
	case errors.Is(err, ErrLoginRequired):
		return MsgLoginRequired
	case errors.Is(err, ErrAdminRequired):
		return MsgAdminRequired
	default:
		return MsgUnexpectedError
	}
}
