package main

import (
	"encoding/hex"
	"testing"

	"github.com/boardofone/advisory-backend/internal/api"
)

func TestNewToken(t *testing.T) {
	token, err := newToken()
	if err != nil {
		t.Fatalf("newToken: %v", err)
	}

	if len(token) != tokenBytes*2 {
		t.Fatalf("token length = %d, want %d", len(token), tokenBytes*2)
	}

	if _, err := hex.DecodeString(token); err != nil {
		t.Fatalf("token is not hex: %v", err)
	}

	other, err := newToken()
	if err != nil {
		t.Fatalf("newToken: %v", err)
	}

	if token == other {
		t.Fatal("two tokens came out identical")
	}
}

func TestTokenHashesToStoredForm(t *testing.T) {
	token, err := newToken()
	if err != nil {
		t.Fatalf("newToken: %v", err)
	}

	hash := api.HashToken(token)
	if len(hash) != 64 {
		t.Fatalf("hash length = %d, want 64", len(hash))
	}

	if hash == token {
		t.Fatal("hash must not equal the plaintext token")
	}
}
