package store

import (
	"context"
	"sync"

	"github.com/harentsoaR/account-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryAccountStore is an in-memory account store used for tests and local
// runs. It applies the same uniqueness rules as the Mongo indexes.
type MemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[primitive.ObjectID]models.Account
}

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{accounts: make(map[primitive.ObjectID]models.Account)}
}

func (s *MemoryAccountStore) Insert(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if account.ID.IsZero() {
		account.ID = primitive.NewObjectID()
	}
	if err := s.checkUnique(account); err != nil {
		return err
	}
	s.accounts[account.ID] = copyAccount(account)
	return nil
}

func (s *MemoryAccountStore) Update(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.ID]; !ok {
		return ErrAccountNotFound
	}
	if err := s.checkUnique(account); err != nil {
		return err
	}
	s.accounts[account.ID] = copyAccount(account)
	return nil
}

func (s *MemoryAccountStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return loaded(a), nil
}

func (s *MemoryAccountStore) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.Email == email {
			return loaded(a), nil
		}
	}
	return nil, ErrAccountNotFound
}

func (s *MemoryAccountStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return ErrAccountNotFound
	}
	delete(s.accounts, id)
	return nil
}

// checkUnique must be called with mu held.
func (s *MemoryAccountStore) checkUnique(account *models.Account) error {
	for id, other := range s.accounts {
		if id == account.ID {
			continue
		}
		if other.Email == account.Email {
			return ErrDuplicateEmail
		}
		if account.Phone != nil && other.Phone != nil && *other.Phone == *account.Phone {
			return ErrDuplicatePhone
		}
	}
	return nil
}

func copyAccount(a *models.Account) models.Account {
	c := *a
	if a.Phone != nil {
		phone := *a.Phone
		c.Phone = &phone
	}
	return c
}

func loaded(a models.Account) *models.Account {
	c := copyAccount(&a)
	c.MarkPersisted()
	return &c
}
