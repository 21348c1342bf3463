package canceltoken

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrGenerationFailed = errors.New("cancellation token generation failed")
	ErrHashingFailed    = errors.New("cancellation token hashing failed")
	ErrTokenMismatch    = errors.New("cancellation token mismatch")
	ErrEmptyToken       = errors.New("cancellation token is empty")
)

const tokenBytes = 24

// Generate returns the plaintext token (shown to the client exactly once)
// and its bcrypt hash for storage.
func Generate() (token string, hash string, err error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", ErrGenerationFailed
	}
	token = hex.EncodeToString(raw)

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", "", ErrHashingFailed
	}

	return token, string(hashedBytes), nil
}

func Compare(hash, token string) error {
	if hash == "" || token == "" {
		return ErrEmptyToken
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrTokenMismatch
		}
		return err
	}

	return nil
}
