package repository

import (
	"context"

	"join/internal/model"
)

type ContactRepository struct {
	contacts collection[model.Contact]
}

type ContactRepositoryInterface interface {
	All(ctx context.Context) ([]model.Contact, error)
	ReplaceAll(ctx context.Context, contacts []model.Contact) error
}

var _ ContactRepositoryInterface = (*ContactRepository)(nil)

func NewContactRepository(store CollectionStore) *ContactRepository {
	return &ContactRepository{contacts: collection[model.Contact]{store: store, path: ContactsPath}}
}

// All returns every stored contact with null holes removed.
func (r *ContactRepository) All(ctx context.Context) ([]model.Contact, error) {
	return r.contacts.all(ctx)
}

// ReplaceAll overwrites the remote contacts collection.
func (r *ContactRepository) ReplaceAll(ctx context.Context, contacts []model.Contact) error {
	return r.contacts.replaceAll(ctx, contacts)
}

// HighestID returns the largest contact id, or 0 for an empty list.
func HighestID(contacts []model.Contact) int {
	highest := 0
	for _, c := range contacts {
		if c.ID > highest {
			highest = c.ID
		}
	}
	return highest
}
