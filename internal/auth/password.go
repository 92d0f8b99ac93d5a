package auth

import "golang.org/x/crypto/bcrypt"

// Passwords hashes and verifies user credentials with bcrypt.
type Passwords struct {
	cost int
}

// NewPasswords creates a password hasher. A zero cost uses bcrypt's default.
func NewPasswords(cost int) *Passwords {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Passwords{cost: cost}
}

// Hash returns the bcrypt hash of a plaintext password.
func (p *Passwords) Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	return string(h), err
}

// Compare reports whether the plaintext password matches the stored hash.
func (p *Passwords) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
