// Package password wraps bcrypt hashing and the account password policy.
package password

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const minLength = 8

// Hash generates a salted bcrypt hash of the plaintext. bcrypt embeds a
// random per-call salt, so hashing the same password twice yields
// different strings.
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plain matches the stored hash. A mismatch and a
// malformed hash both yield false without detail; bcrypt's comparison is
// constant-time over the digest.
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// MeetsPolicy reports whether plain satisfies the complexity policy:
// at least 8 characters with one uppercase letter, one lowercase letter,
// one digit and one non-alphanumeric symbol.
func MeetsPolicy(plain string) bool {
	if len(plain) < minLength {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range plain {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}
