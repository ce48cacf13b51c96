package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/AlexZinkM/stark-wallet/internal/model"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

// Backup ciphertext layout (hex encoded):
// Bytes 0-31:   Ephemeral public key (X25519)
// Bytes 32-43:  Nonce (12 bytes for AES-GCM)
// Bytes 44+:    AES-256-GCM ciphertext (with 16-byte auth tag)
const (
	x25519KeySize = 32
	backupInfo    = "stark-wallet-recovery"
)

// EncryptWithPublicKey encrypts plaintext for the holder of the recovery
// private key. There is no decryption counterpart in this module.
func EncryptWithPublicKey(recoveryPublicKeyHex string, plaintext []byte) (string, error) {
	recipient, err := hex.DecodeString(trimHexPrefix(recoveryPublicKeyHex))
	if err != nil || len(recipient) != x25519KeySize {
		return "", model.NewError(model.KindEncryption, "invalid recovery public key", err)
	}

	// Generate ephemeral X25519 keypair
	ephemeralPrivate := make([]byte, x25519KeySize)
	if _, err := io.ReadFull(rand.Reader, ephemeralPrivate); err != nil {
		return "", model.NewError(model.KindEncryption, "failed to generate ephemeral key", err)
	}
	defer clear(ephemeralPrivate)

	ephemeralPublic, err := curve25519.X25519(ephemeralPrivate, curve25519.Basepoint)
	if err != nil {
		return "", model.NewError(model.KindEncryption, "failed to derive ephemeral public key", err)
	}

	sharedSecret, err := curve25519.X25519(ephemeralPrivate, recipient)
	if err != nil {
		return "", model.NewError(model.KindEncryption, "X25519 key exchange failed", err)
	}
	defer clear(sharedSecret)

	aead, err := backupAEAD(sharedSecret, ephemeralPublic)
	if err != nil {
		return "", model.NewError(model.KindEncryption, "failed to create backup cipher", err)
	}

	nonce := make([]byte, ivLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", model.NewError(model.KindEncryption, "failed to generate nonce", err)
	}

	ciphertext := aead.Seal(nil, nonce, plaintext, nil)

	out := make([]byte, 0, x25519KeySize+ivLen+len(ciphertext))
	out = append(out, ephemeralPublic...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return hex.EncodeToString(out), nil
}

// backupAEAD derives the AES key with HKDF-SHA256; the ephemeral public key
// is bound into the info string.
func backupAEAD(sharedSecret, ephemeralPublic []byte) (cipher.AEAD, error) {
	info := append([]byte(backupInfo), ephemeralPublic...)
	aesKey := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, sharedSecret, nil, info), aesKey); err != nil {
		return nil, fmt.Errorf("key derivation failed: %w", err)
	}
	defer clear(aesKey)

	block, err := aes.NewCipher(aesKey)
	if err != nil {
		return nil, fmt.Errorf("cipher creation failed: %w", err)
	}
	return cipher.NewGCM(block)
}
