package util

import (
	"golang.org/x/crypto/bcrypt"
)

// Cost for portal account credentials. Raising it invalidates no stored
// hashes; existing ones keep verifying at the cost they were created with.
const bcryptCost = 12

// HashPassword hashes an account password for storage in users.password_hash
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword checks a login attempt against the stored bcrypt hash
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
