package model

import "errors"

var (
	// Account related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token related errors
	ErrInvalidToken = errors.New("invalid token")

	// Catalog related errors
	ErrTeacherNotFound = errors.New("teacher not found")
	ErrSessionNotFound = errors.New("session not found")

	// Roster related errors
	ErrAlreadyParticipating = errors.New("user already participates in session")
	ErrNotParticipating     = errors.New("user does not participate in session")

	// ErrVersionConflict is returned by a store when a session was saved
	// from a stale snapshot.
	ErrVersionConflict = errors.New("session was modified concurrently")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
