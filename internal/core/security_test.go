// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash has unexpected format: %s", hash)
	}

	valid, err := VerifyPassword("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !valid {
		t.Error("correct password rejected")
	}

	valid, err = VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if valid {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if h1 == h2 {
		t.Error("two hashes of the same password are identical")
	}
}

func TestVerifyPasswordWithRehash(t *testing.T) {
	// A hash produced with weaker params than current should verify
	// and trigger a rehash.
	legacy := "$argon2id$v=19$m=32768,t=1,p=4$c29tZXNhbHRzb21lc2E$" +
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

	_, _, err := VerifyPasswordWithRehash("whatever", legacy)
	if err != nil {
		t.Fatalf("VerifyPasswordWithRehash: %v", err)
	}

	hash, err := HashPassword("current")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	valid, newHash, err := VerifyPasswordWithRehash("current", hash)
	if err != nil {
		t.Fatalf("VerifyPasswordWithRehash: %v", err)
	}
	if !valid {
		t.Error("correct password rejected")
	}
	if newHash != "" {
		t.Error("up-to-date hash should not be rehashed")
	}
}

func TestVerifyPasswordTimingSafeMissingUser(t *testing.T) {
	valid, _, err := VerifyPasswordTimingSafe("anything", nil)
	if err != nil {
		t.Fatalf("VerifyPasswordTimingSafe: %v", err)
	}
	if valid {
		t.Error("nil hash should never verify")
	}
}

func TestGenerateOTPCode(t *testing.T) {
	seen := make(map[string]bool)

	for range 50 {
		code, err := GenerateOTPCode()
		if err != nil {
			t.Fatalf("GenerateOTPCode: %v", err)
		}

		if len(code) != 6 {
			t.Fatalf("code %q is not 6 digits", code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("code %q contains non-digit", code)
			}
		}
		if code[0] == '0' {
			t.Fatalf("code %q has leading zero", code)
		}

		seen[code] = true
	}

	if len(seen) < 2 {
		t.Error("codes are not varying")
	}
}
