package internal

import (
	"bytes"
	"testing"
)

func TestSigningKeyRoundTrip(t *testing.T) {
	key, err := NewSigningKey()
	if err != nil {
		t.Fatalf("NewSigningKey failed: %v", err)
	}
	if len(key) != SigningKeySize {
		t.Fatalf("expected %d bytes, got %d", SigningKeySize, len(key))
	}

	decoded, err := DecodeSigningKey("base64:" + EncodeSigningKey(key))
	if err != nil {
		t.Fatalf("DecodeSigningKey failed: %v", err)
	}
	if !bytes.Equal(decoded, key) {
		t.Fatal("decoded key differs")
	}
}

func TestDecodeSigningKeyRawAndInvalid(t *testing.T) {
	raw, err := DecodeSigningKey("  plain-passphrase  ")
	if err != nil || string(raw) != "plain-passphrase" {
		t.Fatalf("unexpected raw decode %q / %v", raw, err)
	}
	if _, err := DecodeSigningKey(""); err == nil {
		t.Fatal("expected error for empty key")
	}
	if _, err := DecodeSigningKey("base64:!!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if _, err := DecodeSigningKey("base64:"); err == nil {
		t.Fatal("expected error for empty decoded key")
	}
}

func TestNewTokenIDIsUnique(t *testing.T) {
	seen := make(map[string]bool, 64)
	for i := 0; i < 64; i++ {
		id, err := NewTokenID()
		if err != nil {
			t.Fatalf("NewTokenID failed: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
