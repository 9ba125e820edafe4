package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Changing any of these invalidates every stored hash,
// the encoded form does not carry them.
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

// ErrMalformedHash is returned when a stored password is not in salt:hash form.
var ErrMalformedHash = errors.New("cryptox: malformed password hash")

// HashPassword hashes password with a freshly generated random salt and
// returns the "salt:hash" encoding (both parts base64, no padding).
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return HashPasswordWithSalt(password, base64.RawStdEncoding.EncodeToString(salt))
}

// HashPasswordWithSalt hashes password with the given encoded salt. The output
// is deterministic for a (password, salt) pair, which is what verification
// depends on.
func HashPasswordWithSalt(password, salt string) (string, error) {
	rawSalt, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil || len(rawSalt) == 0 {
		return "", ErrMalformedHash
	}

	p, err := Pepper()
	if err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password+p), rawSalt, iterations, memory, parallelism, keyLength)
	return salt + ":" + base64.RawStdEncoding.EncodeToString(hash), nil
}

// VerifyPassword reports whether input hashes to stored. Malformed stored
// values never match.
func VerifyPassword(input, stored string) bool {
	salt, _, ok := strings.Cut(stored, ":")
	if !ok || salt == "" {
		return false
	}

	computed, err := HashPasswordWithSalt(input, salt)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1
}
