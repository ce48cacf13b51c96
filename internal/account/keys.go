package account

import (
	"context"
	"fmt"
	"math/big"

	"github.com/AlexZinkM/stark-wallet/internal/crypto"
	"github.com/AlexZinkM/stark-wallet/internal/model"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/curve"
)

// KeyPair is a Stark curve key pair. It signs raw hashes and is what the
// v0 protocol works with.
type KeyPair struct {
	private *big.Int
	pubX    *big.Int
	pubY    *big.Int
}

// GenerateKeyPair creates a key pair from a fresh random scalar
func GenerateKeyPair() (*KeyPair, error) {
	for {
		priv, err := curve.Curve.GetRandomPrivateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate private key: %w", err)
		}
		if priv.Sign() > 0 {
			return newKeyPair(priv)
		}
	}
}

// NewKeyPair builds a key pair from an encoded private key (see crypto.EncodeKey)
func NewKeyPair(rawKey string) (*KeyPair, error) {
	priv, err := crypto.DecodeKey(rawKey)
	if err != nil {
		return nil, err
	}
	return newKeyPair(priv)
}

func newKeyPair(priv *big.Int) (*KeyPair, error) {
	x, y, err := curve.Curve.PrivateToPoint(priv)
	if err != nil {
		return nil, fmt.Errorf("failed to derive public key: %w", err)
	}
	return &KeyPair{private: priv, pubX: x, pubY: y}, nil
}

// EncodedPrivateKey returns the canonical encoding of the private scalar.
// Only key creation needs this; it must never reach a log or a response.
func (k *KeyPair) EncodedPrivateKey() string {
	return crypto.EncodeKey(k.private)
}

// PublicKey returns the Stark public key (x coordinate)
func (k *KeyPair) PublicKey() *felt.Felt {
	return new(felt.Felt).SetBigInt(k.pubX)
}

// SignHash signs a message hash and returns (r, s)
func (k *KeyPair) SignHash(hash *felt.Felt) (model.Signature, error) {
	r, s, err := curve.Curve.Sign(hash.BigInt(new(big.Int)), k.private)
	if err != nil {
		return nil, fmt.Errorf("failed to sign hash: %w", err)
	}
	return model.Signature{new(felt.Felt).SetBigInt(r), new(felt.Felt).SetBigInt(s)}, nil
}

// Verify checks sig against hash for this key pair's public key
func (k *KeyPair) Verify(hash *felt.Felt, sig model.Signature) bool {
	if len(sig) != 2 {
		return false
	}
	return curve.Curve.Verify(hash.BigInt(new(big.Int)), sig[0].BigInt(new(big.Int)), sig[1].BigInt(new(big.Int)), k.pubX, k.pubY)
}

// Signer produces v1 transaction signatures.
type Signer interface {
	PublicKey() *felt.Felt
	SignTransaction(ctx context.Context, calls []model.Call, details model.SignerDetails) (model.Signature, error)
}

// StarkSigner is the Signer backed by a decrypted key pair
type StarkSigner struct {
	keys *KeyPair
}

// NewStarkSigner wraps keys as a v1 signer
func NewStarkSigner(keys *KeyPair) *StarkSigner {
	return &StarkSigner{keys: keys}
}

// PublicKey returns the signer's public key
func (s *StarkSigner) PublicKey() *felt.Felt {
	return s.keys.PublicKey()
}

// SignTransaction hashes an invoke v1 transaction and signs it
func (s *StarkSigner) SignTransaction(_ context.Context, calls []model.Call, details model.SignerDetails) (model.Signature, error) {
	if details.WalletAddress == nil || details.Nonce == nil || details.MaxFee == nil || details.ChainID == nil || details.Version == nil {
		return nil, model.NewError(model.KindInvalidSigningContext, "incomplete signer details", nil)
	}
	hash, err := TransactionHashV1(details.WalletAddress, CalldataV1(calls), details.MaxFee, details.ChainID, details.Nonce, details.Version)
	if err != nil {
		return nil, err
	}
	return s.keys.SignHash(hash)
}
