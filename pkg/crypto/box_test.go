package crypto

import (
	"strings"
	"testing"
)

const testKey = "5d41402abc4b2a76b9719d911017c5925d41402abc4b2a76b9719d911017c592"

func TestSealOpenRoundTrip(t *testing.T) {
	box, err := NewBox(testKey)
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}

	for _, plaintext := range []string{"", "hello", "what is recursion?", strings.Repeat("x", 4096)} {
		sealed, err := box.Seal(plaintext)
		if err != nil {
			t.Fatalf("Seal failed: %v", err)
		}
		if sealed == plaintext && plaintext != "" {
			t.Fatalf("Seal returned plaintext unchanged")
		}

		opened, err := box.Open(sealed)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if opened != plaintext {
			t.Fatalf("round trip mismatch: got %q want %q", opened, plaintext)
		}
	}
}

func TestNewBoxRejectsBadKeys(t *testing.T) {
	if _, err := NewBox("not-hex"); err == nil {
		t.Fatal("expected error for non-hex key")
	}
	if _, err := NewBox("abcd"); err == nil {
		t.Fatal("expected error for short key")
	}
}

func TestOpenRejectsTampered(t *testing.T) {
	box, err := NewBox(testKey)
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}

	sealed, err := box.Seal("secret note")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	tampered := "A" + sealed[1:]
	if _, err := box.Open(tampered); err == nil {
		t.Fatal("expected error for tampered ciphertext")
	}
	if _, err := box.Open("!!not base64!!"); err == nil {
		t.Fatal("expected error for invalid encoding")
	}
}
