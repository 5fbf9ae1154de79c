package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. Each user owns exactly one workspace.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `bson:"_id"`

	// Email is the login address (unique, stored lowercased).
	Email string `bson:"email"`

	// DisplayName is shown in the UI.
	DisplayName string `bson:"display_name"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `bson:"password_hash"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `bson:"created_at"`
	UpdatedAt int64 `bson:"updated_at"`
}

// NewUser builds a User with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
