// Package hash hashes and verifies user passwords.
package hash

import (
	"fmt"
	"strings"
)

// Hasher hashes passwords and checks candidates against stored hashes.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(hashed, password string) bool
}

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// New returns the hasher used for new passwords. Verification recognises
// both formats so stored hashes keep working after a switch.
func New(algorithm string) (Hasher, error) {
	switch strings.ToLower(algorithm) {
	case "", AlgorithmBcrypt:
		return &Multi{primary: NewBcrypt(0)}, nil
	case AlgorithmArgon2id:
		return &Multi{primary: NewArgon2id(DefaultArgon2Config)}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", algorithm)
	}
}

// Multi hashes with its primary hasher and verifies by hash prefix.
type Multi struct {
	primary Hasher
}

func (m *Multi) Hash(password string) (string, error) {
	return m.primary.Hash(password)
}

func (m *Multi) Verify(hashed, password string) bool {
	if strings.HasPrefix(hashed, "$argon2id$") {
		return NewArgon2id(DefaultArgon2Config).Verify(hashed, password)
	}
	return NewBcrypt(0).Verify(hashed, password)
}
