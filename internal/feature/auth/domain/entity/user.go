// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user in the system.
// It contains authentication credentials and metadata for user management.
type User struct {
	// ID is the opaque unique identifier for the user.
	ID string

	// Username is the public handle of the user.
	// It must be unique across all users.
	Username string

	// Email is the user's email address used for authentication.
	// It must be unique across all users.
	Email string

	// PasswordHash is the hashed password for the user.
	// This should never store plaintext passwords, and it is never exposed outward.
	PasswordHash string

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time
}
