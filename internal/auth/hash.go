package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hasher turns a plaintext password into a stable digest. The contract is
// deterministic so stored and submitted digests can be compared directly.
type Hasher interface {
	Hash(plaintext string) string
}

// HMACHasher is the default Hasher: HMAC-SHA256 under a service secret.
type HMACHasher struct {
	secret []byte
}

func NewHMACHasher(secret string) *HMACHasher {
	return &HMACHasher{secret: []byte(secret)}
}

func (h *HMACHasher) Hash(plaintext string) string {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(plaintext))
	return hex.EncodeToString(mac.Sum(nil))
}

// digestEqual compares two digests in constant time.
func digestEqual(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}

const keyAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789_-ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RandomKey returns n characters drawn uniformly from a 64-character
// alphabet using crypto/rand.
func RandomKey(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("auth: key length must be positive, got %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("auth: random key: %w", err)
	}
	for i := range b {
		b[i] = keyAlphabet[int(b[i])&63]
	}
	return string(b), nil
}
