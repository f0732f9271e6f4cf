// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or username.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists is returned by a repository when the store rejects a duplicate email or username.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrEmailAlreadyRegistered is returned when registering with an email that is already in use.
	ErrEmailAlreadyRegistered = errors.New("email already registered")

	// ErrUsernameTaken is returned when registering with a username that is already in use.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is returned when the email is unknown or the password does not match.
	// Both cases share this error so callers cannot tell them apart.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
