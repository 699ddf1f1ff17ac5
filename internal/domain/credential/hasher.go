// Package credential implements password hashing and verification for
// the account store. Hashes use PBKDF2-HMAC-SHA256 with a per-password
// random salt and are stored as "hex(hash):hex(salt)".
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// ErrInvalidCredential is returned on login failure. Unknown usernames
// and wrong passwords map to the same error deliberately.
var ErrInvalidCredential = errors.New("invalid username or password")

const (
	// Iterations is the PBKDF2 iteration count.
	Iterations = 100000

	// SaltSize is the salt length in bytes.
	SaltSize = 16

	// KeySize is the derived key length in bytes.
	KeySize = 32
)

// Hasher derives and verifies password hashes.
// The zero value is ready to use.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Hash derives a storable hash from a plaintext password.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, Iterations, KeySize, sha256.New)
	return hex.EncodeToString(key) + ":" + hex.EncodeToString(salt), nil
}

// Verify checks a plaintext password against a stored hash using a
// constant-time comparison. A malformed stored value (missing separator,
// invalid hex, wrong length) verifies as false; it never panics and
// never reveals why verification failed.
func (h *Hasher) Verify(password, stored string) bool {
	hashHex, saltHex, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}

	wantKey, err := hex.DecodeString(hashHex)
	if err != nil || len(wantKey) == 0 {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) == 0 {
		return false
	}

	gotKey := pbkdf2.Key([]byte(password), salt, Iterations, len(wantKey), sha256.New)
	return subtle.ConstantTimeCompare(gotKey, wantKey) == 1
}
