package wallet

import (
	"fmt"

	"github.com/AlexZinkM/stark-wallet/internal/account"
	"github.com/AlexZinkM/stark-wallet/internal/crypto"
	"github.com/AlexZinkM/stark-wallet/internal/model"
)

// CreateWallet generates a new Stark key and returns it encrypted twice: under
// password for the user, and under the recovery public key for backup.
// Nothing is persisted.
// password must be []byte for security (caller should zero it after use)
func CreateWallet(password []byte, recoveryPublicKey string) (*model.WalletInfos, error) {
	keys, err := account.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	// Generate salt and iv
	salt, err := crypto.GenerateSalt()
	if err != nil {
		return nil, err
	}
	iv, err := crypto.GenerateIV()
	if err != nil {
		return nil, err
	}

	privateKey := []byte(keys.EncodedPrivateKey())
	defer clear(privateKey)

	encrypted, err := crypto.EncryptWithPassword(password, iv, salt, privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt private key: %w", err)
	}

	backup, err := crypto.EncryptWithPublicKey(recoveryPublicKey, privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt backup: %w", err)
	}

	return &model.WalletInfos{
		PublicKey: keys.PublicKey().String(),
		UserKey: model.UserKey{
			EncryptedPrivateKey: encrypted,
			Salt:                salt,
			IV:                  iv,
		},
		BackupKey: backup,
	}, nil
}
