package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/harentsoaR/account-api/internal/models"
	"github.com/harentsoaR/account-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// HashingError reports that the password could not be hashed. The write that
// triggered it was aborted.
type HashingError struct {
	Err error
}

func (e *HashingError) Error() string {
	return fmt.Sprintf("hash password: %v", e.Err)
}

func (e *HashingError) Unwrap() error {
	return e.Err
}

// ValidationError wraps the field errors of an account that failed validation.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid account: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// AccountStore is the persistence layer the service writes through.
type AccountStore interface {
	Insert(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PasswordHasher is the hashing primitive. Each call to HashPassword must use
// a fresh salt.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	CheckPasswordHash(password, hash string) bool
}

// AccountUpdate lists the fields a caller wants to change. Nil means keep.
type AccountUpdate struct {
	Email    *string
	Phone    *string
	Password *string
}

type AccountService struct {
	store    AccountStore
	hasher   PasswordHasher
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

func NewAccountService(accounts AccountStore, hasher PasswordHasher, logger *zap.Logger) *AccountService {
	return &AccountService{
		store:    accounts,
		hasher:   hasher,
		validate: validator.New(),
		logger:   logger.Named("AccountService"),
		now:      time.Now,
	}
}

// SaveAccount writes the account, inserting it when new. A modified password
// is replaced with its hash before the write; an unchanged one is left alone.
// On any failure nothing is written and the account keeps its pre-save state.
func (s *AccountService) SaveAccount(ctx context.Context, account *models.Account) error {
	before := *account
	isNew := account.IsNew()

	normalizePhone(account)
	if err := s.validate.Struct(account); err != nil {
		*account = before
		return &ValidationError{Err: err}
	}

	if err := s.hashPasswordIfModified(account); err != nil {
		*account = before
		s.logger.Error("Failed to hash password, aborting save", zap.String("email", account.Email), zap.Error(err))
		return err
	}

	now := s.now().UTC()
	if isNew && account.RegisteredOn.IsZero() {
		account.RegisteredOn = now
	}
	account.UpdatedOn = now

	var err error
	if isNew {
		err = s.store.Insert(ctx, account)
	} else {
		err = s.store.Update(ctx, account)
	}
	if err != nil {
		// Restore the plaintext so a retry hashes it again.
		*account = before
		s.logger.Warn("Account write failed", zap.String("email", account.Email), zap.Bool("new", isNew), zap.Error(err))
		return err
	}

	account.MarkPersisted()
	s.logger.Info("Account saved", zap.String("accountID", account.ID.Hex()), zap.Bool("new", isNew))
	return nil
}

// hashPasswordIfModified leaves Password untouched when hashing fails.
func (s *AccountService) hashPasswordIfModified(account *models.Account) error {
	if !account.PasswordModified() {
		return nil
	}
	hashed, err := s.hasher.HashPassword(account.Password)
	if err != nil {
		return &HashingError{Err: err}
	}
	account.Password = hashed
	return nil
}

func (s *AccountService) Register(ctx context.Context, email, password string, phone *string) (*models.Account, error) {
	account := models.NewAccount(email, password, phone)
	if err := s.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Authenticate returns the account when password matches the stored hash.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	account, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.CheckPasswordHash(password, account.Password) {
		s.logger.Debug("Password mismatch", zap.String("accountID", account.ID.Hex()))
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

func (s *AccountService) Get(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	return s.store.FindByID(ctx, id)
}

func (s *AccountService) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.store.FindByEmail(ctx, email)
}

// Update applies the non-nil fields of upd and saves the account.
func (s *AccountService) Update(ctx context.Context, id primitive.ObjectID, upd AccountUpdate) (*models.Account, error) {
	account, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Email != nil {
		account.Email = *upd.Email
	}
	if upd.Phone != nil {
		phone := *upd.Phone
		account.Phone = &phone
	}
	if upd.Password != nil {
		account.Password = *upd.Password
	}
	if err := s.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Account deleted", zap.String("accountID", id.Hex()))
	return nil
}

// An empty phone means no phone, so the sparse unique index ignores it.
func normalizePhone(account *models.Account) {
	if account.Phone != nil && *account.Phone == "" {
		account.Phone = nil
	}
}
