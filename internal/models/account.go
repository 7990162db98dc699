package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Account struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Password     string             `bson:"password" json:"-" validate:"required"` // Hide from JSON responses
	Email        string             `bson:"email" json:"email" validate:"required"`
	Phone        *string            `bson:"phone,omitempty" json:"phone,omitempty"` // Optional, unique when set
	RegisteredOn time.Time          `bson:"registered_on" json:"registeredOn"`
	UpdatedOn    time.Time          `bson:"updated_on" json:"updatedOn"`

	// Snapshot of the last persisted state. Unexported, so never encoded.
	persisted      bool
	storedPassword string
}

// NewAccount returns an account that has never been saved.
func NewAccount(email, password string, phone *string) *Account {
	return &Account{
		Email:    email,
		Password: password,
		Phone:    phone,
	}
}

// IsNew reports whether the account has not been persisted yet.
func (a *Account) IsNew() bool {
	return !a.persisted
}

// PasswordModified reports whether Password differs from the last persisted
// value. New accounts are always considered modified.
func (a *Account) PasswordModified() bool {
	return !a.persisted || a.Password != a.storedPassword
}

// MarkPersisted records the current state as the persisted one. Stores call it
// after decoding a document, the service after a successful write.
func (a *Account) MarkPersisted() {
	a.persisted = true
	a.storedPassword = a.Password
}

// PhoneNumber returns the phone or "" when unset.
func (a *Account) PhoneNumber() string {
	if a.Phone == nil {
		return ""
	}
	return *a.Phone
}
