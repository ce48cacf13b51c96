package crypto

import (
	"context"
	"encoding/hex"

	"github.com/AlexZinkM/stark-wallet/internal/model"
)

const gcmTagLen = 16

// DecryptWithPassword reverses EncryptWithPassword.
// A record that cannot be parsed fails with KindMalformedRecord, a record
// that parses but does not authenticate fails with KindDecryptionAuthentication.
// Caller should zero the returned plaintext after use.
func DecryptWithPassword(password []byte, ivHex, saltHex, ciphertextHex string) ([]byte, error) {
	return decrypt(password, scryptN, ivHex, saltHex, ciphertextHex)
}

func decrypt(password []byte, n int, ivHex, saltHex, ciphertextHex string) ([]byte, error) {
	salt, iv, ciphertext, err := decodeRecord(ivHex, saltHex, ciphertextHex)
	if err != nil {
		return nil, err
	}

	aesGCM, err := newGCM(password, salt, n)
	if err != nil {
		return nil, model.NewError(model.KindEncryption, "failed to derive cipher", err)
	}

	plaintext, err := aesGCM.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, model.NewError(model.KindDecryptionAuthentication, "invalid password", nil)
	}
	return plaintext, nil
}

// DecryptWithPasswordContext runs DecryptWithPassword on its own goroutine so
// the caller is released when ctx is done. Key derivation keeps running in
// the background until it finishes; its result is then discarded and wiped.
func DecryptWithPasswordContext(ctx context.Context, password []byte, ivHex, saltHex, ciphertextHex string) ([]byte, error) {
	type result struct {
		plaintext []byte
		err       error
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The goroutine may outlive this call, so it gets its own copy of the password.
	pw := make([]byte, len(password))
	copy(pw, password)
	n := scryptN

	done := make(chan result, 1)
	go func() {
		defer clear(pw)
		p, err := decrypt(pw, n, ivHex, saltHex, ciphertextHex)
		done <- result{plaintext: p, err: err}
	}()

	select {
	case r := <-done:
		return r.plaintext, r.err
	case <-ctx.Done():
		go func() {
			r := <-done
			clear(r.plaintext)
		}()
		return nil, ctx.Err()
	}
}

// decodeRecord validates the shape of a stored record
func decodeRecord(ivHex, saltHex, ciphertextHex string) (salt, iv, ciphertext []byte, err error) {
	salt, err = hex.DecodeString(trimHexPrefix(saltHex))
	if err != nil {
		return nil, nil, nil, model.NewError(model.KindMalformedRecord, "failed to decode salt", err)
	}
	if len(salt) != saltLen {
		return nil, nil, nil, model.NewError(model.KindMalformedRecord, "unexpected salt length", nil)
	}

	iv, err = hex.DecodeString(trimHexPrefix(ivHex))
	if err != nil {
		return nil, nil, nil, model.NewError(model.KindMalformedRecord, "failed to decode iv", err)
	}
	if len(iv) != ivLen {
		return nil, nil, nil, model.NewError(model.KindMalformedRecord, "unexpected iv length", nil)
	}

	ciphertext, err = hex.DecodeString(trimHexPrefix(ciphertextHex))
	if err != nil {
		return nil, nil, nil, model.NewError(model.KindMalformedRecord, "failed to decode ciphertext", err)
	}
	// an empty plaintext seals to exactly one tag
	if len(ciphertext) < gcmTagLen {
		return nil, nil, nil, model.NewError(model.KindMalformedRecord, "ciphertext shorter than the GCM tag", nil)
	}
	return salt, iv, ciphertext, nil
}
