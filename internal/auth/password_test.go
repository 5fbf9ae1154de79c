package auth

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/khaja/internal/models"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func (m *memoryUsers) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.users == nil {
		m.users = make(map[string]*models.User)
	}
	m.users[user.ID] = user
	return nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memoryUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id], nil
}

func newTestAuthenticator() *PasswordAuthenticator {
	a := NewPasswordAuthenticator(&memoryUsers{})
	a.cost = bcrypt.MinCost
	return a
}

func TestRegisterAndAuthenticate(t *testing.T) {
	a := newTestAuthenticator()
	ctx := context.Background()

	user, err := a.Register(ctx, "  Asha@Example.com ", "Asha", "password123")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)

	got, err := a.Authenticate(ctx, "ASHA@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestRegisterErrors(t *testing.T) {
	a := newTestAuthenticator()
	ctx := context.Background()
	_, err := a.Register(ctx, "asha@example.com", "Asha", "password123")
	require.NoError(t, err)

	_, err = a.Register(ctx, "asha@example.com", "Asha again", "password123")
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = a.Register(ctx, "ravi@example.com", "Ravi", "short")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = a.Register(ctx, "not-an-email", "Ravi", "password123")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestRegisterRejectsDisplayNameAddress(t *testing.T) {
	users := &memoryUsers{}
	a := NewPasswordAuthenticator(users)
	a.cost = bcrypt.MinCost
	ctx := context.Background()

	_, err := a.Register(ctx, "Asha <asha@example.com>", "Asha", "password123")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	user, err := a.Register(ctx, "asha@example.com", "Asha", "password123")
	require.NoError(t, err)

	users.mu.Lock()
	defer users.mu.Unlock()
	assert.Len(t, users.users, 1)
	assert.Same(t, user, users.users[user.ID])
}

func TestAuthenticateFailures(t *testing.T) {
	a := newTestAuthenticator()
	ctx := context.Background()
	_, err := a.Register(ctx, "asha@example.com", "Asha", "password123")
	require.NoError(t, err)

	_, err = a.Authenticate(ctx, "asha@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Authenticate(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
