// Package store persists accounts and enforces the uniqueness constraints on
// email and phone.
package store

import "errors"

var (
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrDuplicatePhone  = errors.New("phone already exists")
	ErrAccountNotFound = errors.New("account not found")
)

const (
	accountsCollection = "accounts"
	emailIndex         = "email_1"
	phoneIndex         = "phone_1"
)
