package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/AlexZinkM/stark-wallet/internal/model"

	"golang.org/x/crypto/scrypt"
)

const (
	// scrypt parameters for the custodial key record
	// Security is prioritized over performance
	//
	// N=2^18 (~256MB RAM, 0.5-2s): the record is decrypted rarely, on a
	// password prompt, so the cost is paid once per session.
	defaultScryptN = 1 << 18
	scryptR        = 8
	scryptP        = 1
	scryptKeyLen   = 32
	saltLen        = 32
	ivLen          = 12
)

var scryptN = defaultScryptN

// SetScryptCost overrides the scrypt CPU/memory cost and returns a func
// restoring the previous value. Records are only readable with the cost
// they were written with, so this is meant for tests and benchmarks.
func SetScryptCost(n int) (restore func()) {
	prev := scryptN
	scryptN = n
	return func() { scryptN = prev }
}

// GenerateSalt returns a fresh random salt, hex encoded
func GenerateSalt() (string, error) {
	return randomHex(saltLen)
}

// GenerateIV returns a fresh random AES-GCM nonce, hex encoded
func GenerateIV() (string, error) {
	return randomHex(ivLen)
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", model.NewError(model.KindEncryption, "failed to read random bytes", err)
	}
	return hex.EncodeToString(b), nil
}

// EncryptWithPassword derives a key from password and salt with scrypt and
// seals plaintext with AES-256-GCM under iv. Returns hex ciphertext+tag.
// password must be []byte for security (caller should zero it after use)
func EncryptWithPassword(password []byte, ivHex, saltHex string, plaintext []byte) (string, error) {
	salt, err := hex.DecodeString(trimHexPrefix(saltHex))
	if err != nil || len(salt) != saltLen {
		return "", model.NewError(model.KindEncryption, "invalid salt", err)
	}
	iv, err := hex.DecodeString(trimHexPrefix(ivHex))
	if err != nil || len(iv) != ivLen {
		return "", model.NewError(model.KindEncryption, "invalid iv", err)
	}

	aesGCM, err := newGCM(password, salt, scryptN)
	if err != nil {
		return "", model.NewError(model.KindEncryption, "failed to derive cipher", err)
	}

	ciphertext := aesGCM.Seal(nil, iv, plaintext, nil)
	return hex.EncodeToString(ciphertext), nil
}

// newGCM derives the record key and wraps it in AES-GCM. The derived key is wiped.
func newGCM(password, salt []byte, n int) (cipher.AEAD, error) {
	key, err := scrypt.Key(password, salt, n, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}

// trimHexPrefix strips an optional 0x prefix
func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
