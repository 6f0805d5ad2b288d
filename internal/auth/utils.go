package auth

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a bcrypt digest from a secret. The plaintext is
// never stored or logged.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks a secret against a stored digest.
func VerifyPassword(hashedPassword, inputPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(inputPassword))
}

// GenerateVerificationCode produces a 6-digit numeric code.
func GenerateVerificationCode() string {
	const digits = "0123456789"
	b := make([]byte, 6)
	for i := range b {
		randIndex, _ := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		b[i] = digits[randIndex.Int64()]
	}
	return string(b)
}
