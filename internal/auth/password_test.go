package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashingLifecycle(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)
	password := "S3curePass!"
	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("unexpected error hashing password: %v", err)
	}
	if hash == "" || hash == password {
		t.Fatal("expected hash to be populated and differ from plaintext")
	}

	if !hasher.Verify(password, hash) {
		t.Fatal("expected password to verify")
	}
	if hasher.Verify("wrong", hash) {
		t.Fatal("expected verification to fail for wrong password")
	}
}

func TestPasswordTrimmedOnBothPaths(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("  padded-secret \n")
	if err != nil {
		t.Fatalf("unexpected error hashing password: %v", err)
	}
	if !hasher.Verify("padded-secret", hash) {
		t.Fatal("expected trimmed password to verify")
	}
	if !hasher.Verify(" padded-secret ", hash) {
		t.Fatal("expected padded password to verify")
	}
}

func TestPasswordVerifyMalformedHash(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)
	for _, hash := range []string{"", "   ", "not-a-bcrypt-hash", SentinelPassword} {
		if hasher.Verify("anything", hash) {
			t.Fatalf("expected malformed hash %q to fail verification", hash)
		}
	}
	if hasher.Verify(SentinelPassword, SentinelPassword) {
		t.Fatal("sentinel password must never verify")
	}
}

func TestPasswordHasherRejectsEmpty(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)
	if _, err := hasher.Hash("   "); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestPasswordHasherCostFallback(t *testing.T) {
	if got := NewPasswordHasher(0).Cost(); got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
	if got := NewPasswordHasher(bcrypt.MaxCost + 1).Cost(); got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
	if got := NewPasswordHasher(12).Cost(); got != 12 {
		t.Fatalf("expected cost 12, got %d", got)
	}
}
