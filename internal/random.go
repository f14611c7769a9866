package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
)

// SigningKeySize is the HMAC-SHA256 key length generated for development setups.
const SigningKeySize = 32

func NewSigningKey() ([]byte, error) {
	key := make([]byte, SigningKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// EncodeSigningKey renders key as base64url without padding.
func EncodeSigningKey(key []byte) string {
	return base64.RawURLEncoding.EncodeToString(key)
}

// DecodeSigningKey accepts "base64:<base64url>" or a raw passphrase.
func DecodeSigningKey(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, errors.New("empty signing key")
	}

	const prefix = "base64:"
	if !strings.HasPrefix(value, prefix) {
		return []byte(value), nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(value[len(prefix):], "="))
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("empty signing key")
	}
	return raw, nil
}
