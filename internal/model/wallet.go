package model

import "time"

// WalletKeyRecord is the persisted, password-protected key record.
// All fields are hex encoded. It never holds plaintext key material.
type WalletKeyRecord struct {
	Salt                string `json:"salt"`
	IV                  string `json:"iv"`
	EncryptedPrivateKey string `json:"encryptedPrivateKey"`
	BackupCiphertext    string `json:"backupCiphertext"`
}

// UserKey is the password-protected part of a freshly created wallet
type UserKey struct {
	EncryptedPrivateKey string `json:"encryptedPrivateKey"`
	Salt                string `json:"salt"`
	IV                  string `json:"iv"`
}

// WalletInfos is the result of wallet creation.
type WalletInfos struct {
	PublicKey string  `json:"publicKey"`
	UserKey   UserKey `json:"userKey"`
	BackupKey string  `json:"backupKey"` // ciphertext under the recovery public key
}

// Record converts creation output into the record that gets persisted.
func (w *WalletInfos) Record() WalletKeyRecord {
	return WalletKeyRecord{
		Salt:                w.UserKey.Salt,
		IV:                  w.UserKey.IV,
		EncryptedPrivateKey: w.UserKey.EncryptedPrivateKey,
		BackupCiphertext:    w.BackupKey,
	}
}

// CurrentUser is what the session exposes about the signed in user
type CurrentUser struct {
	ID         string `json:"id"`
	Address    string `json:"address"`
	OldAddress string `json:"oldAddress,omitempty"`
}

// User is a stored wallet owner.
type User struct {
	ID         string
	Address    string
	OldAddress string
	PublicKey  string
	Record     WalletKeyRecord
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
