package backup

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateSalt(t *testing.T) {
	salt1, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	if len(salt1) != saltSize {
		t.Errorf("salt length = %d, want %d", len(salt1), saltSize)
	}

	salt2, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt 2: %v", err)
	}
	if bytes.Equal(salt1, salt2) {
		t.Error("two salts should not be equal")
	}
}

func TestDeriveKeyDeterminism(t *testing.T) {
	salt := []byte("1234567890abcdef")

	key1 := DeriveKey("mypassphrase", salt)
	key2 := DeriveKey("mypassphrase", salt)

	if !bytes.Equal(key1, key2) {
		t.Error("same passphrase+salt should produce same key")
	}
	if len(key1) != keySize {
		t.Errorf("key length = %d, want %d", len(key1), keySize)
	}

	other := DeriveKey("otherpassphrase", salt)
	if bytes.Equal(key1, other) {
		t.Error("different passphrases should produce different keys")
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}

	plaintext := []byte("family calendar contents worth keeping")
	sealed, err := Encrypt(plaintext, "test-passphrase-123", salt)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if bytes.Contains(sealed, plaintext) {
		t.Error("sealed output should not contain the plaintext")
	}
	if !bytes.Equal(sealed[:saltSize], salt) {
		t.Error("sealed output should start with the salt")
	}

	opened, err := Decrypt(sealed, "test-passphrase-123")
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Errorf("decrypted = %q, want %q", opened, plaintext)
	}
}

func TestEncryptRejectsBadSalt(t *testing.T) {
	_, err := Encrypt([]byte("data"), "pass", []byte("short"))
	if err == nil {
		t.Fatal("expected error for short salt")
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	salt, _ := GenerateSalt()
	sealed, err := Encrypt([]byte("secret data"), "correct-password", salt)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if _, err := Decrypt(sealed, "wrong-password"); err == nil {
		t.Fatal("expected error with wrong passphrase")
	}
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	salt, _ := GenerateSalt()
	sealed, err := Encrypt([]byte("secret data"), "password", salt)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	sealed[saltSize+nonceSize+1] ^= 0xFF

	if _, err := Decrypt(sealed, "password"); err == nil {
		t.Fatal("expected error with tampered ciphertext")
	}
}

func TestDecryptTooSmall(t *testing.T) {
	if _, err := Decrypt([]byte("too short"), "password"); err == nil {
		t.Fatal("expected error for truncated input")
	}
}

func TestEncryptDecryptEmpty(t *testing.T) {
	salt, _ := GenerateSalt()
	sealed, err := Encrypt([]byte{}, "password", salt)
	if err != nil {
		t.Fatalf("encrypt empty: %v", err)
	}
	opened, err := Decrypt(sealed, "password")
	if err != nil {
		t.Fatalf("decrypt empty: %v", err)
	}
	if len(opened) != 0 {
		t.Errorf("expected empty plaintext, got %d bytes", len(opened))
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "source.db")
	encPath := filepath.Join(dir, "source.db.enc")
	decPath := filepath.Join(dir, "restored.db")

	original := []byte("This is test database content with some data in it.")
	if err := os.WriteFile(srcPath, original, 0600); err != nil {
		t.Fatalf("write source: %v", err)
	}

	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}

	if err := EncryptFile(srcPath, encPath, "passphrase", salt); err != nil {
		t.Fatalf("encrypt file: %v", err)
	}
	if err := DecryptFile(encPath, decPath, "passphrase"); err != nil {
		t.Fatalf("decrypt file: %v", err)
	}

	restored, err := os.ReadFile(decPath)
	if err != nil {
		t.Fatalf("read restored: %v", err)
	}
	if !bytes.Equal(restored, original) {
		t.Error("restored content should match original")
	}
}
