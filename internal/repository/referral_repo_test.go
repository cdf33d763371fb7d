package repository

import (
	"strings"
	"testing"
)

func TestGenerateReferralCode(t *testing.T) {
	code := GenerateReferralCode("hamza123")
	if len(code) != 11 {
		t.Fatalf("code length = %d, want 11", len(code))
	}
	if !strings.HasPrefix(code, "HAM") {
		t.Errorf("code %q should start with HAM", code)
	}
	for _, r := range code[3:] {
		if !strings.ContainsRune(codeAlphabet, r) {
			t.Errorf("suffix char %q not in alphabet", r)
		}
	}
}

func TestGenerateReferralCodeShortUsername(t *testing.T) {
	code := GenerateReferralCode("ab")
	if !strings.HasPrefix(code, "AB") {
		t.Errorf("code %q should start with AB", code)
	}
	if len(code) != 10 {
		t.Errorf("code length = %d, want 10", len(code))
	}
}

func TestGenerateReferralCodeEmptyUsername(t *testing.T) {
	code := GenerateReferralCode("")
	if !strings.HasPrefix(code, "USR") {
		t.Errorf("code %q should fall back to USR prefix", code)
	}
}

func TestGenerateReferralCodeVaries(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[GenerateReferralCode("worker")] = true
	}
	if len(seen) < 2 {
		t.Fatal("expected random suffixes to differ across calls")
	}
}
