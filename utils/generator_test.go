package utils

import (
	"strings"
	"testing"
)

func TestGenerateOTP(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP() error = %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("GenerateOTP() = %q, want 6 digits", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("GenerateOTP() = %q, contains non-digit", code)
			}
		}
		seen[code] = true
	}
	// Not a strict guarantee, but 50 identical draws means a broken RNG.
	if len(seen) == 1 {
		t.Error("GenerateOTP() returned the same code 50 times")
	}
}

func TestGeneratePassword(t *testing.T) {
	pw, err := GeneratePassword(10)
	if err != nil {
		t.Fatalf("GeneratePassword() error = %v", err)
	}
	if len(pw) != 10 {
		t.Errorf("GeneratePassword(10) length = %d, want 10", len(pw))
	}
	for _, r := range pw {
		if !strings.ContainsRune(passwordBytes, r) {
			t.Errorf("GeneratePassword() contains unexpected rune %q", r)
		}
	}
}
