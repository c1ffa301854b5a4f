package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword hashes a password using SHA256
// NOTE: For production use, consider using bcrypt or argon2
func HashPassword(password string) string {
	hasher := sha256.New()
	hasher.Write([]byte(password))
	return hex.EncodeToString(hasher.Sum(nil))
}

// CheckPassword compares a candidate password against the expected one in
// constant time.
func CheckPassword(candidate, expected string) bool {
	a := HashPassword(candidate)
	b := HashPassword(expected)
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
