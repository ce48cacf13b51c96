package account

import (
	"context"
	"fmt"
	"sync"

	"github.com/AlexZinkM/stark-wallet/internal/model"

	"github.com/NethermindEth/juno/core/felt"
)

// Provider is the chain access an Identity needs
type Provider interface {
	Call(ctx context.Context, call model.FunctionCall, blockID string) ([]*felt.Felt, error)
	Nonce(ctx context.Context, address *felt.Felt) (*felt.Felt, error)
	EstimateFee(ctx context.Context, tx model.InvokeTxnV1) (*model.FeeEstimate, error)
}

// FeeGateway simulates v0 transactions
type FeeGateway interface {
	EstimateFee(ctx context.Context, req model.FeederFeeRequest) (*model.FeeEstimate, error)
}

// Option configures an Identity
type Option func(*Identity)

// WithFeeGateway sets the gateway used for v0 fee estimation
func WithFeeGateway(g FeeGateway) Option {
	return func(id *Identity) { id.gateway = g }
}

// WithChainID sets the chain the identity signs for (default SN_MAIN)
func WithChainID(chainID *felt.Felt) Option {
	return func(id *Identity) { id.chainID = chainID }
}

// Identity is one on-chain account. An account that went through the
// protocol migration also owns an Identity for its pre-migration address;
// both are signed for by the same key.
//
// No credentials are attached at construction. Until UpdateSigner runs,
// every chain operation fails with KindSignerNotReady.
type Identity struct {
	provider Provider
	gateway  FeeGateway
	address  *felt.Felt
	chainID  *felt.Felt
	version  model.TransactionVersion
	strategy TransactionStrategy
	old      *Identity

	mu                sync.RWMutex
	keys              *KeyPair
	signer            Signer
	needsSignerUpdate bool
}

// NewIdentity creates the account for address. A non-empty oldAddress makes
// this a migrated (v1) account owning a v0 account for oldAddress.
func NewIdentity(provider Provider, address, oldAddress string, opts ...Option) (*Identity, error) {
	if oldAddress == "" {
		return newIdentity(provider, address, model.TransactionV0, nil, opts)
	}

	old, err := newIdentity(provider, oldAddress, model.TransactionV0, nil, opts)
	if err != nil {
		return nil, fmt.Errorf("invalid old address: %w", err)
	}
	return newIdentity(provider, address, model.TransactionV1, old, opts)
}

func newIdentity(provider Provider, address string, version model.TransactionVersion, old *Identity, opts []Option) (*Identity, error) {
	addr, err := new(felt.Felt).SetString(address)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", address, err)
	}

	id := &Identity{
		provider:          provider,
		address:           addr,
		chainID:           ChainIDFromString("SN_MAIN"),
		version:           version,
		strategy:          strategyFor(version),
		old:               old,
		needsSignerUpdate: true,
	}
	for _, opt := range opts {
		opt(id)
	}
	return id, nil
}

// Address returns the account address as 0x hex
func (id *Identity) Address() string {
	return id.address.String()
}

// Version returns the protocol version of the account
func (id *Identity) Version() model.TransactionVersion {
	return id.version
}

// ChainID returns the chain id the account signs for
func (id *Identity) ChainID() *felt.Felt {
	return id.chainID
}

// OldAccount returns the pre-migration account, or nil
func (id *Identity) OldAccount() *Identity {
	return id.old
}

// Provider returns the chain provider the account was built with
func (id *Identity) Provider() Provider {
	return id.provider
}

// NeedsSignerUpdate reports whether credentials are still missing
func (id *Identity) NeedsSignerUpdate() bool {
	id.mu.RLock()
	defer id.mu.RUnlock()
	return id.needsSignerUpdate
}

// UpdateSigner attaches credentials built from rawKey to this account and to
// its old account. Both are published while holding both locks, so no reader
// ever sees one of them ready and the other not.
func (id *Identity) UpdateSigner(rawKey string) error {
	keys, err := NewKeyPair(rawKey)
	if err != nil {
		return err
	}

	lineage := id.lineage()
	for _, n := range lineage {
		n.mu.Lock()
	}
	defer func() {
		for i := len(lineage) - 1; i >= 0; i-- {
			lineage[i].mu.Unlock()
		}
	}()

	for _, n := range lineage {
		n.attach(keys)
	}
	return nil
}

// attach installs the credential this account's protocol signs with. Caller holds mu.
func (id *Identity) attach(keys *KeyPair) {
	switch id.version {
	case model.TransactionV1:
		id.keys, id.signer = nil, NewStarkSigner(keys)
	default:
		id.keys, id.signer = keys, nil
	}
	id.needsSignerUpdate = false
}

// lineage returns id followed by its old accounts, outermost first
func (id *Identity) lineage() []*Identity {
	var out []*Identity
	for n := id; n != nil; n = n.old {
		out = append(out, n)
	}
	return out
}

func (id *Identity) credentials() (*KeyPair, Signer) {
	id.mu.RLock()
	defer id.mu.RUnlock()
	return id.keys, id.signer
}

func (id *Identity) ready() error {
	if id.NeedsSignerUpdate() {
		return model.NewError(model.KindSignerNotReady, fmt.Sprintf("account %s has no signer yet", id.Address()), nil)
	}
	return nil
}

// PublicKey returns the public key of the attached credentials
func (id *Identity) PublicKey() (*felt.Felt, error) {
	if err := id.ready(); err != nil {
		return nil, err
	}
	keys, signer := id.credentials()
	if signer != nil {
		return signer.PublicKey(), nil
	}
	return keys.PublicKey(), nil
}

// Nonce resolves the account nonce with the account's protocol
func (id *Identity) Nonce(ctx context.Context) (*felt.Felt, error) {
	if err := id.ready(); err != nil {
		return nil, err
	}
	return id.strategy.Nonce(ctx, id)
}

// EstimateFee resolves the nonce and estimates the fee of calls
func (id *Identity) EstimateFee(ctx context.Context, calls []model.Call) (*model.FeeEstimate, error) {
	nonce, err := id.Nonce(ctx)
	if err != nil {
		return nil, err
	}
	return id.EstimateFeeWithNonce(ctx, calls, nonce)
}

// EstimateFeeWithNonce estimates the fee of calls at a known nonce
func (id *Identity) EstimateFeeWithNonce(ctx context.Context, calls []model.Call, nonce *felt.Felt) (*model.FeeEstimate, error) {
	if err := id.ready(); err != nil {
		return nil, err
	}
	return id.strategy.EstimateFee(ctx, id, calls, nonce)
}

// NewSigningContext fills a signing context with this account's address, chain and version
func (id *Identity) NewSigningContext(calls []model.Call, nonce, maxFee *felt.Felt) model.SigningContext {
	return model.SigningContext{
		Calls:              calls,
		Nonce:              nonce,
		MaxFee:             maxFee,
		ChainID:            id.chainID,
		WalletAddress:      id.address,
		TransactionVersion: id.version,
	}
}

// Sign signs sc with the account's protocol
func (id *Identity) Sign(ctx context.Context, sc model.SigningContext) (model.Signature, error) {
	if err := id.ready(); err != nil {
		return nil, err
	}
	return id.strategy.Sign(ctx, id, sc)
}

// Execute resolves the nonce, estimates the fee and signs calls with the
// suggested max fee. Nonce and signing are separate suspension points:
// callers must serialize Execute per address.
func (id *Identity) Execute(ctx context.Context, calls []model.Call) (*model.ExecuteResult, error) {
	nonce, err := id.Nonce(ctx)
	if err != nil {
		return nil, err
	}

	fee, err := id.EstimateFeeWithNonce(ctx, calls, nonce)
	if err != nil {
		return nil, err
	}
	maxFee := new(felt.Felt).SetBigInt(fee.SuggestedMaxFee)

	sig, err := id.Sign(ctx, id.NewSigningContext(calls, nonce, maxFee))
	if err != nil {
		return nil, err
	}

	return &model.ExecuteResult{
		Address:            id.Address(),
		TransactionVersion: id.version,
		Nonce:              nonce,
		MaxFee:             maxFee,
		Fee:                fee,
		Signature:          sig,
	}, nil
}
