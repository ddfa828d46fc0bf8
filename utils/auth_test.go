package utils

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundtrip(t *testing.T) {
	hash, err := HashPassword("farmer123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "farmer123" {
		t.Fatal("hash should not equal the plaintext")
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Errorf("unexpected hash format: %q", hash)
	}
	if !CheckPasswordHash("farmer123", hash) {
		t.Error("correct password should verify")
	}
	if CheckPasswordHash("farmer124", hash) {
		t.Error("wrong password should not verify")
	}
}

func TestCheckPasswordHashGarbage(t *testing.T) {
	if CheckPasswordHash("anything", "not-a-bcrypt-hash") {
		t.Error("garbage hash should never verify")
	}
}
