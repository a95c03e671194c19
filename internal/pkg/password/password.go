// Package password covers the two credential-hashing needs of the
// manager auth flow: bcrypt for the stored account password and SHA256
// for refresh tokens, which must be findable by hash in the database.
package password

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor for manager passwords
const DefaultCost = 12

// Hash derives the stored bcrypt hash for a plaintext password
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify reports whether the plaintext matches the stored hash
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashToken hashes a refresh token for storage and lookup. Unlike
// bcrypt, SHA256 is deterministic, so the token can be located by an
// indexed equality query on its hash.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// ValidatePassword checks the minimum length for a seeded password
func ValidatePassword(password string) bool {
	return len(password) >= 8
}
