package utils

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	parts := strings.Split(hash, ".")
	if len(parts) != 3 {
		t.Fatalf("hash has %d segments, want 3: %q", len(parts), hash)
	}
	if parts[0] != "100000" {
		t.Errorf("iteration segment = %q, want 100000", parts[0])
	}

	if err := CheckPassword("secret123", hash); err != nil {
		t.Errorf("CheckPassword with correct password: %v", err)
	}
	if err := CheckPassword("wrong-password", hash); err == nil {
		t.Error("CheckPassword accepted a wrong password")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	first, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	second, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical")
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	malformed := []string{
		"",
		"not-a-hash",
		"100000.only-two",
		"abc.c2FsdA==.a2V5",
		"100000.!!!.a2V5",
		"100000.c2FsdA==.!!!",
	}

	for _, hash := range malformed {
		if err := CheckPassword("secret123", hash); err == nil {
			t.Errorf("CheckPassword(%q) accepted a malformed hash", hash)
		}
	}
}
