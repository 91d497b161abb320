package repository_test

import (
	"context"
	"encoding/json"
	"testing"

	"join/internal/model"
	"join/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Load(context.Context, string) (json.RawMessage, error) {
	return nil, assert.AnError
}

func (failingStore) Replace(context.Context, string, any) error {
	return assert.AnError
}

func (failingStore) Delete(context.Context, string) error {
	return assert.AnError
}

func TestUserRepository_Create(t *testing.T) {
	// Arrange
	store := repository.NewMemoryStore()
	store.Seed(repository.UsersPath, `[{"id":4,"name":"Old","email":"old@example.com","password":"x"}]`)
	userRepo := repository.NewUserRepository(store)

	user := &model.User{
		Email:          "test@example.com",
		HashedPassword: "hashed_password",
		Name:           "Test User",
	}

	// Act
	err := userRepo.Create(context.Background(), user)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 5, user.ID)

	found, err := userRepo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Test User", found.Name)
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	store := repository.NewMemoryStore()
	store.Seed(repository.UsersPath, `[{"id":1,"name":"Test","email":"test@example.com"}]`)
	userRepo := repository.NewUserRepository(store)

	err := userRepo.Create(context.Background(), &model.User{Email: "TEST@example.com"})

	assert.ErrorIs(t, err, repository.ErrUserExists)
}

func TestUserRepository_FindByEmail_Found(t *testing.T) {
	store := repository.NewMemoryStore()
	store.Seed(repository.UsersPath, `[null,{"id":1,"name":"Test User","email":"test@example.com"}]`)
	userRepo := repository.NewUserRepository(store)

	user, err := userRepo.FindByEmail(context.Background(), "Test@Example.com")

	assert.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, "Test User", user.Name)
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	userRepo := repository.NewUserRepository(repository.NewMemoryStore())

	user, err := userRepo.FindByEmail(context.Background(), "nonexistent@example.com")

	assert.NoError(t, err) // missing users are not an error
	assert.Nil(t, user)
}

func TestUserRepository_FindByEmail_Error(t *testing.T) {
	userRepo := repository.NewUserRepository(failingStore{})

	user, err := userRepo.FindByEmail(context.Background(), "test@example.com")

	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, user)
}
