// Package pin hashes and verifies staff PIN codes.
//
// New digests are bcrypt (salted per staff member). Digests imported from the
// legacy dataset are unsalted SHA-256 hex strings; they still verify, and
// IsLegacy lets callers flag the record for re-enrollment.
package pin

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	dErrors "stocktrail/pkg/domain-errors"
)

const (
	MinLength = 4
	MaxLength = 8
)

// Validate checks that pin is 4 to 8 ASCII digits.
func Validate(pin string) error {
	if len(pin) < MinLength || len(pin) > MaxLength {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("pin must be %d to %d digits", MinLength, MaxLength))
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return dErrors.New(dErrors.CodeValidation, "pin must contain digits only")
		}
	}
	return nil
}

// Hash returns a bcrypt digest of pin.
func Hash(pin string) (string, error) {
	if err := Validate(pin); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("could not hash pin: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether pin matches digest. Malformed digests never match.
func Verify(pin, digest string) bool {
	if pin == "" || digest == "" {
		return false
	}
	if IsLegacy(digest) {
		sum := sha256.Sum256([]byte(pin))
		want := strings.ToLower(digest)
		return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(want)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(pin)) == nil
}

// IsLegacy reports whether digest is an unsalted SHA-256 hex digest.
func IsLegacy(digest string) bool {
	if len(digest) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(digest)
	return err == nil
}

// LegacyDigest computes the unsalted digest format. Only used to seed
// fixtures that mirror imported records.
func LegacyDigest(pin string) string {
	sum := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(sum[:])
}
