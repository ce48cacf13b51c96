package injector

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/AlexZinkM/stark-wallet/internal/account"
	"github.com/AlexZinkM/stark-wallet/internal/model"
	"github.com/AlexZinkM/stark-wallet/internal/storage"

	"github.com/rs/zerolog/log"
)

const (
	ProviderID      = "custodial"
	ProviderName    = "Custodial Wallet"
	ProviderVersion = "1.0.0"
	ProviderIcon    = "data:image/svg+xml;base64,PHN2ZyB4bWxucz0iaHR0cDovL3d3dy53My5vcmcvMjAwMC9zdmciIHZpZXdCb3g9IjAgMCAzMiAzMiI+PGNpcmNsZSBjeD0iMTYiIGN5PSIxNiIgcj0iMTYiIGZpbGw9IiMwQzBDNEYiLz48L3N2Zz4="
)

// Session resolves the signed-in user
type Session interface {
	CurrentUser(ctx context.Context) (*model.CurrentUser, error)
}

// ProviderFactory builds a chain provider bound to endpoint
type ProviderFactory func(endpoint string) account.Provider

// ProviderConfig holds what Enable needs besides the session
type ProviderConfig struct {
	Namespace   *Namespace
	SiblingName string // the other reserved global; Enable requires it bound
	BackendURL  string
	ChainID     string
	NewProvider ProviderFactory
	Options     []account.Option
}

// RequestCall is a generic wallet RPC request from a dapp
type RequestCall struct {
	Type   string      `json:"type"`
	Params interface{} `json:"params,omitempty"`
}

// WalletProvider is the object published under the reserved globals. Its
// connection state is written only by Enable, in one critical section.
type WalletProvider struct {
	session Session
	cfg     ProviderConfig

	mu              sync.RWMutex
	account         *account.Identity
	provider        account.Provider
	selectedAddress string
	chainID         bool
	network         string
	isConnected     bool
}

// NewWalletProvider creates a disconnected provider
func NewWalletProvider(session Session, cfg ProviderConfig) *WalletProvider {
	return &WalletProvider{session: session, cfg: cfg}
}

func (p *WalletProvider) ID() string      { return ProviderID }
func (p *WalletProvider) Name() string    { return ProviderName }
func (p *WalletProvider) Icon() string    { return ProviderIcon }
func (p *WalletProvider) Version() string { return ProviderVersion }

// Account returns the connected identity, or nil
func (p *WalletProvider) Account() *account.Identity {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.account
}

// Provider returns the chain provider set by Enable, or nil
func (p *WalletProvider) Provider() account.Provider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.provider
}

// SelectedAddress returns the connected address, or ""
func (p *WalletProvider) SelectedAddress() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.selectedAddress
}

// ChainID is the chainId field dapps read: true once Enable has succeeded
func (p *WalletProvider) ChainID() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.chainID
}

// Network returns the chain id string the account signs for, or "" before Enable
func (p *WalletProvider) Network() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.network
}

// IsConnected reports whether Enable has succeeded
func (p *WalletProvider) IsConnected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.isConnected
}

// Enable connects the provider to the session's account and returns its
// addresses, the pre-migration address last.
func (p *WalletProvider) Enable(ctx context.Context) ([]string, error) {
	user, err := p.session.CurrentUser(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, model.NewError(model.KindNoWalletAccount, "session user no longer exists", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if user == nil || user.Address == "" {
		return nil, model.NewError(model.KindNoWalletAccount, "no wallet account in session", nil)
	}

	if _, ok := p.cfg.Namespace.Get(p.cfg.SiblingName); !ok {
		return nil, model.NewError(model.KindNoExternalProviderDetected,
			fmt.Sprintf("global %q is not defined", p.cfg.SiblingName), nil)
	}

	provider := p.cfg.NewProvider(p.cfg.BackendURL)
	opts := append([]account.Option{account.WithChainID(account.ChainIDFromString(p.cfg.ChainID))}, p.cfg.Options...)
	acc, err := account.NewIdentity(provider, user.Address, user.OldAddress, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build account: %w", err)
	}

	p.mu.Lock()
	p.account = acc
	p.provider = provider
	p.selectedAddress = acc.Address()
	p.chainID = true
	p.network = p.cfg.ChainID
	p.isConnected = true
	p.mu.Unlock()

	addresses := []string{acc.Address()}
	if old := acc.OldAccount(); old != nil {
		addresses = append(addresses, old.Address())
	}

	log.Info().
		Str("address", acc.Address()).
		Int("version", int(acc.Version())).
		Str("chain_id", p.cfg.ChainID).
		Msg("wallet provider enabled")
	return addresses, nil
}

// IsPreauthorized always reports true: the custodial wallet needs no approval
func (p *WalletProvider) IsPreauthorized(context.Context) (bool, error) {
	return true, nil
}

// Request is not supported
func (p *WalletProvider) Request(_ context.Context, call RequestCall) (interface{}, error) {
	return nil, model.NewError(model.KindNotImplemented, fmt.Sprintf("request %q is not implemented", call.Type), nil)
}

// On accepts and ignores event subscriptions
func (p *WalletProvider) On(event string, handler func(interface{})) {}

// Off accepts and ignores event unsubscriptions
func (p *WalletProvider) Off(event string, handler func(interface{})) {}
