// Package security guards settings that change who can read the notes.
package security

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrPINMismatch is returned when a PIN does not match the configured hash.
var ErrPINMismatch = errors.New("pin does not match")

// Verifier checks a PIN before a sensitive change is applied.
type Verifier interface {
	Verify(pin string) error
}

// PINVerifier compares PINs against a bcrypt hash. The zero value has no lock configured
// and accepts every PIN.
type PINVerifier struct {
	hash []byte
}

// NewPINVerifier wraps a bcrypt hash such as the LOCK_PIN_HASH setting.
func NewPINVerifier(hash string) PINVerifier {
	return PINVerifier{hash: []byte(strings.TrimSpace(hash))}
}

// Enabled reports whether a PIN hash is configured.
func (v PINVerifier) Enabled() bool {
	return len(v.hash) > 0
}

// Verify returns nil when no hash is set or pin matches it.
func (v PINVerifier) Verify(pin string) error {
	if !v.Enabled() {
		return nil
	}
	err := bcrypt.CompareHashAndPassword(v.hash, []byte(pin))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPINMismatch
	}
	if err != nil {
		return fmt.Errorf("verify pin: %w", err)
	}
	return nil
}

// HashPIN returns the bcrypt hash to put in LOCK_PIN_HASH.
func HashPIN(pin string) (string, error) {
	if strings.TrimSpace(pin) == "" {
		return "", errors.New("pin must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}
	return string(hash), nil
}
