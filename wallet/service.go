package wallet

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AlexZinkM/stark-wallet/internal/account"
	"github.com/AlexZinkM/stark-wallet/internal/crypto"
	"github.com/AlexZinkM/stark-wallet/internal/model"
	"github.com/AlexZinkM/stark-wallet/internal/storage"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

// Connector is the injected wallet provider as the service sees it
type Connector interface {
	Enable(ctx context.Context) ([]string, error)
	Account() *account.Identity
}

// Service ties the key record store to the connected account: it creates
// wallets, unlocks them into the account and signs with it.
type Service struct {
	store             storage.Store
	connector         Connector
	recoveryPublicKey string
	decryptTimeout    time.Duration

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex // per address
}

// NewService creates a wallet service
func NewService(store storage.Store, connector Connector, recoveryPublicKey string, decryptTimeout time.Duration) *Service {
	return &Service{
		store:             store,
		connector:         connector,
		recoveryPublicKey: recoveryPublicKey,
		decryptTimeout:    decryptTimeout,
		locks:             make(map[string]*sync.Mutex),
	}
}

// Register creates a wallet for a new user and stores its record.
// The account address is not known until the account is deployed; it is
// bound later with SetSession.
// password must be []byte for security (caller should zero it after use)
func (s *Service) Register(ctx context.Context, password []byte) (*model.CreateWalletResponse, error) {
	infos, err := CreateWallet(password, s.recoveryPublicKey)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		PublicKey: infos.PublicKey,
		Record:    infos.Record(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store wallet: %w", err)
	}

	log.Info().Str("user_id", user.ID).Str("public_key", infos.PublicKey).Msg("wallet created")
	return &model.CreateWalletResponse{UserID: user.ID, WalletInfos: *infos}, nil
}

// SetSession signs userID in. A non-empty address also updates the user's
// account addresses.
func (s *Service) SetSession(ctx context.Context, req model.SessionRequest) error {
	if _, err := s.store.GetUser(ctx, req.UserID); err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if req.Address != "" {
		if err := s.store.SetAddresses(ctx, req.UserID, req.Address, req.OldAddress); err != nil {
			return fmt.Errorf("failed to set addresses: %w", err)
		}
	}
	s.store.SetCurrentUser(req.UserID)
	return nil
}

// Enable connects the wallet provider to the session's account
func (s *Service) Enable(ctx context.Context) ([]string, error) {
	return s.connector.Enable(ctx)
}

// Unlock decrypts the session user's key and attaches it to the connected
// account. Decryption errors keep their kind.
// password must be []byte for security (caller should zero it after use)
func (s *Service) Unlock(ctx context.Context, password []byte) error {
	user, err := s.currentUser(ctx)
	if err != nil {
		return err
	}

	// the provider may still hold the account of a previous session
	acc := s.connector.Account()
	if acc == nil || !sameAddress(acc.Address(), user.Address) {
		if _, err := s.connector.Enable(ctx); err != nil {
			return err
		}
		acc = s.connector.Account()
	}

	rawKey, err := s.decrypt(ctx, password, user.Record)
	if err != nil {
		return err
	}
	defer clear(rawKey)

	keys, err := account.NewKeyPair(string(rawKey))
	if err != nil {
		return err
	}
	if user.PublicKey != "" && keys.PublicKey().String() != user.PublicKey {
		return model.NewError(model.KindMalformedRecord, "decrypted key does not match the stored public key", nil)
	}

	if err := acc.UpdateSigner(string(rawKey)); err != nil {
		return err
	}

	log.Info().Str("user_id", user.ID).Str("address", acc.Address()).Msg("wallet unlocked")
	return nil
}

// ChangePassword re-encrypts userID's key under newPassword with a fresh
// salt and iv. The recovery backup is unchanged.
// Passwords must be []byte for security (caller should zero them after use)
func (s *Service) ChangePassword(ctx context.Context, userID string, oldPassword, newPassword []byte) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	rawKey, err := s.decrypt(ctx, oldPassword, user.Record)
	if err != nil {
		return err
	}
	defer clear(rawKey)

	salt, err := crypto.GenerateSalt()
	if err != nil {
		return err
	}
	iv, err := crypto.GenerateIV()
	if err != nil {
		return err
	}
	encrypted, err := crypto.EncryptWithPassword(newPassword, iv, salt, rawKey)
	if err != nil {
		return err
	}

	rec := user.Record
	rec.Salt, rec.IV, rec.EncryptedPrivateKey = salt, iv, encrypted
	if err := s.store.UpdateRecord(ctx, userID, rec); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	log.Info().Str("user_id", userID).Msg("wallet password changed")
	return nil
}

// ChangeSessionPassword changes the password of the session's user
func (s *Service) ChangeSessionPassword(ctx context.Context, oldPassword, newPassword []byte) error {
	user, err := s.currentUser(ctx)
	if err != nil {
		return err
	}
	return s.ChangePassword(ctx, user.ID, oldPassword, newPassword)
}

// Nonce returns the nonce of the connected account, or of its pre-migration
// account when old is set
func (s *Service) Nonce(ctx context.Context, old bool) (*model.NonceResponse, error) {
	acc, err := s.account(ctx, old)
	if err != nil {
		return nil, err
	}
	nonce, err := acc.Nonce(ctx)
	if err != nil {
		return nil, err
	}
	return &model.NonceResponse{Address: acc.Address(), Nonce: nonce}, nil
}

// EstimateFee estimates the fee of calls
func (s *Service) EstimateFee(ctx context.Context, req model.CallsRequest) (*model.FeeEstimate, error) {
	acc, err := s.account(ctx, req.Old)
	if err != nil {
		return nil, err
	}
	return acc.EstimateFee(ctx, req.Calls)
}

// Execute resolves nonce and fee and signs calls. Executions for the same
// address run one at a time so two signatures never share a nonce.
func (s *Service) Execute(ctx context.Context, req model.CallsRequest) (*model.ExecuteResult, error) {
	acc, err := s.account(ctx, req.Old)
	if err != nil {
		return nil, err
	}

	lock := s.addressLock(acc.Address())
	lock.Lock()
	defer lock.Unlock()

	res, err := acc.Execute(ctx, req.Calls)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("address", res.Address).
		Int("version", int(res.TransactionVersion)).
		Str("nonce", res.Nonce.String()).
		Str("max_fee", res.MaxFee.String()).
		Msg("transaction signed")
	return res, nil
}

// AddressQR returns the session account's address as a base64 PNG QR code
func (s *Service) AddressQR(ctx context.Context) (*model.QRResponse, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user.Address == "" {
		return nil, model.NewError(model.KindNoWalletAccount, "account is not deployed yet", nil)
	}
	addr, err := new(felt.Felt).SetString(user.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}

	qr, err := qrcode.New(addr.String(), qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}
	png, err := qr.PNG(256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}
	return &model.QRResponse{Address: addr.String(), QR: base64.StdEncoding.EncodeToString(png)}, nil
}

func (s *Service) currentUser(ctx context.Context) (*model.User, error) {
	id := s.store.CurrentUserID()
	if id == "" {
		return nil, model.NewError(model.KindNoWalletAccount, "no user in session", nil)
	}
	user, err := s.store.GetUser(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, model.NewError(model.KindNoWalletAccount, "session user no longer exists", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// account returns the connected account of the session user. A provider
// still connected for a previous session is refused.
func (s *Service) account(ctx context.Context, old bool) (*account.Identity, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	acc := s.connector.Account()
	if acc == nil {
		return nil, model.NewError(model.KindNoWalletAccount, "wallet provider is not enabled", nil)
	}
	if !sameAddress(acc.Address(), user.Address) {
		return nil, model.NewError(model.KindNoWalletAccount, "wallet provider is connected to another account", nil)
	}
	if !old {
		return acc, nil
	}
	if acc.OldAccount() == nil {
		return nil, model.NewError(model.KindNoWalletAccount, "account has no pre-migration address", nil)
	}
	return acc.OldAccount(), nil
}

func (s *Service) decrypt(ctx context.Context, password []byte, rec model.WalletKeyRecord) ([]byte, error) {
	if s.decryptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.decryptTimeout)
		defer cancel()
	}
	return crypto.DecryptWithPasswordContext(ctx, password, rec.IV, rec.Salt, rec.EncryptedPrivateKey)
}

func (s *Service) addressLock(address string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[address]
	if !ok {
		l = &sync.Mutex{}
		s.locks[address] = l
	}
	return l
}

func sameAddress(a, b string) bool {
	fa, errA := new(felt.Felt).SetString(a)
	fb, errB := new(felt.Felt).SetString(b)
	return errA == nil && errB == nil && fa.Equal(fb)
}
