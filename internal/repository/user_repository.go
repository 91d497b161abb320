package repository

import (
	"context"
	"strings"

	"join/internal/model"
)

type UserRepository struct {
	users collection[model.User]
}

type UserRepositoryInterface interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int) (*model.User, error)
}

var _ UserRepositoryInterface = (*UserRepository)(nil)

func NewUserRepository(store CollectionStore) *UserRepository {
	return &UserRepository{users: collection[model.User]{store: store, path: UsersPath}}
}

// Create appends user to the users collection and assigns the next free id.
// The collection is re-read right before the write; a concurrent sign-up
// between the read and the write is lost.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	users, err := r.users.all(ctx)
	if err != nil {
		return err
	}
	highest := 0
	for _, u := range users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrUserExists
		}
		if u.ID > highest {
			highest = u.ID
		}
	}
	user.ID = highest + 1
	return r.users.replaceAll(ctx, append(users, *user))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	users, err := r.users.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	users, err := r.users.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, nil
}
