package service

import (
	"context"
	"math/rand/v2"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"join/internal/model"
)

type ContactInput struct {
	Name  string
	Email string
	Phone string
}

func (in ContactInput) normalized() ContactInput {
	return ContactInput{
		Name:  strings.Join(strings.Fields(in.Name), " "),
		Email: strings.TrimSpace(in.Email),
		Phone: strings.TrimSpace(in.Phone),
	}
}

// ContactGroup is one letter section of the contact list.
type ContactGroup struct {
	Letter   string
	Contacts []model.Contact
}

// ContactService creates, edits and deletes contacts. Every change rewrites
// the whole contacts collection.
type ContactService struct {
	store *Store
	pick  func(n int) int
}

func NewContactService(store *Store) *ContactService {
	return &ContactService{store: store, pick: rand.IntN}
}

// WithColorPicker replaces the random palette index source.
func (s *ContactService) WithColorPicker(pick func(n int) int) *ContactService {
	s.pick = pick
	return s
}

func (s *ContactService) Create(ctx context.Context, in ContactInput) (model.Contact, error) {
	in = in.normalized()
	if in.Name == "" {
		return model.Contact{}, ErrContactNameMissing
	}

	var created model.Contact
	err := s.store.updateContacts(ctx, func(contacts []model.Contact, highestID int) ([]model.Contact, error) {
		created = model.Contact{
			ID:       highestID + 1,
			Name:     in.Name,
			Email:    in.Email,
			Phone:    in.Phone,
			Color:    model.ContactColors[s.pick(len(model.ContactColors))],
			Initials: model.Initials(in.Name),
		}
		return append(contacts, created), nil
	})
	if err != nil {
		return model.Contact{}, err
	}
	return created, nil
}

// Update changes name, email and phone; id and colour never change.
func (s *ContactService) Update(ctx context.Context, id int, in ContactInput) (model.Contact, error) {
	in = in.normalized()
	if in.Name == "" {
		return model.Contact{}, ErrContactNameMissing
	}

	var updated model.Contact
	err := s.store.updateContacts(ctx, func(contacts []model.Contact, _ int) ([]model.Contact, error) {
		for i := range contacts {
			if contacts[i].ID != id {
				continue
			}
			contacts[i].Name = in.Name
			contacts[i].Email = in.Email
			contacts[i].Phone = in.Phone
			contacts[i].Initials = model.Initials(in.Name)
			updated = contacts[i]
			return contacts, nil
		}
		return nil, ErrContactNotFound
	})
	if err != nil {
		return model.Contact{}, err
	}
	return updated, nil
}

// Delete drops the contact. Tasks keep the id in assignedTo; renderers skip
// ids that no longer resolve.
func (s *ContactService) Delete(ctx context.Context, id int) error {
	return s.store.updateContacts(ctx, func(contacts []model.Contact, _ int) ([]model.Contact, error) {
		kept := contacts[:0]
		found := false
		for _, c := range contacts {
			if c.ID == id {
				found = true
				continue
			}
			kept = append(kept, c)
		}
		if !found {
			return nil, ErrContactNotFound
		}
		return kept, nil
	})
}

// Refresh reloads the contacts from the remote store. On failure the last
// snapshot stays.
func (s *ContactService) Refresh(ctx context.Context) error {
	return s.store.LoadContacts(ctx)
}

func (s *ContactService) Get(id int) (model.Contact, error) {
	c, ok := s.store.Contact(id)
	if !ok {
		return model.Contact{}, ErrContactNotFound
	}
	return c, nil
}

// Sorted returns all contacts ordered by name.
func (s *ContactService) Sorted() []model.Contact {
	return SortContacts(s.store.Contacts())
}

// Groups returns the sorted contacts split into letter sections.
func (s *ContactService) Groups() []ContactGroup {
	return GroupContacts(s.Sorted())
}

// Search returns the sorted contacts whose name starts with query, ignoring
// case. An empty query matches everyone.
func (s *ContactService) Search(query string) []model.Contact {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []model.Contact
	for _, c := range s.store.Contacts() {
		if strings.HasPrefix(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	return SortContacts(out)
}

// SortContacts orders contacts by name using English collation. The input is
// not modified.
func SortContacts(contacts []model.Contact) []model.Contact {
	out := append([]model.Contact(nil), contacts...)
	col := collate.New(language.English)
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

// GroupContacts splits sorted contacts into sections keyed by the upper-cased
// first letter of the name.
func GroupContacts(sorted []model.Contact) []ContactGroup {
	var groups []ContactGroup
	for _, c := range sorted {
		letter := groupLetter(c.Name)
		if n := len(groups); n == 0 || groups[n-1].Letter != letter {
			groups = append(groups, ContactGroup{Letter: letter})
		}
		last := &groups[len(groups)-1]
		last.Contacts = append(last.Contacts, c)
	}
	return groups
}

func groupLetter(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return "#"
	}
	return string(unicode.ToUpper(r))
}
