package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const inviteTokenBytes = 32

// GenerateInviteToken produces a URL-safe random token with 256 bits of
// entropy. The plaintext is embedded in the invite link and must never be
// logged or persisted.
func GenerateInviteToken() (string, error) {
	bytes := make([]byte, inviteTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating invite token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// HashInviteToken returns the hex SHA-256 digest of the plaintext token.
// The digest is the only stored form of the secret and doubles as the
// lookup key at acceptance time.
func HashInviteToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
