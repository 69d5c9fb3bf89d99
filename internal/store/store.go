// Package store keeps the contact list in memory and tracks which contact the input form is
// currently editing.
package store

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gitlab.com/dirk.krummacker/contacts-app/internal/model"
	"gitlab.com/dirk.krummacker/contacts-app/internal/phone"
	"go.uber.org/zap"
)

// Store is an ordered, in-memory collection of contacts. The insertion order is the display
// order. All methods are safe for concurrent use, and every mutation is visible to the next read.
type Store struct {
	mu       sync.RWMutex
	contacts []model.Contact
	logger   *zap.Logger
	newId    func() string
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger makes the store log its mutations to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithIdGenerator replaces the random UUID generator, which is useful for predictable ids in
// tests.
func WithIdGenerator(newId func() string) Option {
	return func(s *Store) { s.newId = newId }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		logger: zap.NewNop(),
		newId:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add validates name and phone, assigns a new id and appends the contact to the end of the list.
// On failure the store is left unchanged and a *ValidationError is returned.
func (s *Store) Add(name string, phoneNumber string) (model.Contact, error) {
	if err := validate(name, phoneNumber); err != nil {
		return model.Contact{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	contact := model.Contact{Id: s.newId(), Name: name, Phone: phoneNumber}
	s.contacts = append(s.contacts, contact)
	s.logger.Debug("contact added", zap.String("id", contact.Id), zap.Int("size", len(s.contacts)))
	return contact, nil
}

// Update replaces name and phone of the contact with the given id. The contact keeps its id and
// its position in the list. It returns a *ValidationError for invalid input and a *NotFoundError
// if the id does not exist.
func (s *Store) Update(id string, name string, phoneNumber string) (model.Contact, error) {
	if err := validate(name, phoneNumber); err != nil {
		return model.Contact{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Contact{}, &NotFoundError{Id: id}
	}
	s.contacts[i].Name = name
	s.contacts[i].Phone = phoneNumber
	s.logger.Debug("contact updated", zap.String("id", id))
	return s.contacts[i], nil
}

// Delete removes the contact with the given id. Deleting an unknown id is not an error; the
// result tells whether a contact was actually removed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
	s.logger.Debug("contact deleted", zap.String("id", id), zap.Int("size", len(s.contacts)))
	return true
}

// Get returns the contact with the given id.
func (s *Store) Get(id string) (model.Contact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Contact{}, false
	}
	return s.contacts[i], true
}

// All returns a copy of all contacts in display order.
func (s *Store) All() []model.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]model.Contact, len(s.contacts))
	copy(all, s.contacts)
	return all
}

// Len returns the number of stored contacts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contacts)
}

// StartEdit opens an edit session for contact. Submitting the session updates that contact.
func (s *Store) StartEdit(contact model.Contact) EditSession {
	return EditSession{target: &contact}
}

// StartCreate opens a session without edit target. Submitting the session adds a new contact.
func (s *Store) StartCreate() EditSession {
	return EditSession{}
}

// Submit stores the form values of session. An edit session updates its target; if the target
// has been deleted in the meantime, the values are added as a new contact instead.
func (s *Store) Submit(session EditSession, name string, phoneNumber string) (model.Contact, error) {
	if session.target == nil {
		return s.Add(name, phoneNumber)
	}
	contact, err := s.Update(session.target.Id, name, phoneNumber)
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		s.logger.Debug("edit target vanished, adding instead", zap.String("id", notFound.Id))
		return s.Add(name, phoneNumber)
	}
	return contact, err
}

// indexOf returns the position of the contact with the given id, or -1. The caller must hold the
// lock.
func (s *Store) indexOf(id string) int {
	for i, c := range s.contacts {
		if c.Id == id {
			return i
		}
	}
	return -1
}

// validate checks the values of a submitted form in the order the user sees the messages: blank
// fields first, then the phone format.
func validate(name string, phoneNumber string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: MessageMissingFields}
	}
	if strings.TrimSpace(phoneNumber) == "" {
		return &ValidationError{Field: "phone", Message: MessageMissingFields}
	}
	if !phone.IsValid(phoneNumber) {
		return &ValidationError{Field: "phone", Message: MessageInvalidPhone}
	}
	return nil
}
