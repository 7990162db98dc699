package utils

import "golang.org/x/crypto/bcrypt"

// DefaultPasswordCost is the bcrypt work factor used for account passwords.
const DefaultPasswordCost = 12

// BcryptHasher hashes passwords with bcrypt. Every call draws a fresh random
// salt, so hashing the same password twice yields different outputs.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a hasher with the given cost, falling back to
// DefaultPasswordCost when cost is outside bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultPasswordCost
	}
	return &BcryptHasher{Cost: cost}
}

// HashPassword hashes a given password using bcrypt.
func (h *BcryptHasher) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash compares a plain password with its hashed version.
func (h *BcryptHasher) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
