// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/khaja/internal/models"
)

// ErrNotFound is returned when no snapshot exists for an owner.
var ErrNotFound = errors.New("not found")

// Store persists workspace snapshots.
// This abstraction allows swapping storage backends (SQLite, MongoDB, etc.)
// without changing the workspace layer.
//
// A snapshot is always replaced as a unit: implementations must never leave
// a mix of old and new collections visible.
type Store interface {
	// LoadSnapshot returns the owner's members, records and payments.
	// Returns ErrNotFound when the owner has never saved a snapshot.
	LoadSnapshot(ctx context.Context, ownerID string) (*models.Snapshot, error)

	// SaveSnapshot atomically replaces the owner's snapshot.
	SaveSnapshot(ctx context.Context, ownerID string, snapshot models.Snapshot) error

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists user accounts for authentication.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail and GetUserByID return (nil, nil) when no user matches.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Backend is a store that keeps both snapshots and users.
type Backend interface {
	Store
	UserStore
}
