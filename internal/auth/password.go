package auth

import "golang.org/x/crypto/bcrypt"

// bcrypt ignores input beyond 72 bytes; truncate explicitly so hashing
// and verification agree on the effective password.
const maxPasswordBytes = 72

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	if len(password) > maxPasswordBytes {
		password = password[:maxPasswordBytes]
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	if len(plain) > maxPasswordBytes {
		plain = plain[:maxPasswordBytes]
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
