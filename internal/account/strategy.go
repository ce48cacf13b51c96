package account

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/stark-wallet/internal/client"
	"github.com/AlexZinkM/stark-wallet/internal/model"

	"github.com/NethermindEth/juno/core/felt"
)

// TransactionStrategy is one protocol's way of resolving a nonce,
// estimating a fee and signing. An Identity picks one at construction.
type TransactionStrategy interface {
	Version() model.TransactionVersion
	Nonce(ctx context.Context, id *Identity) (*felt.Felt, error)
	EstimateFee(ctx context.Context, id *Identity, calls []model.Call, nonce *felt.Felt) (*model.FeeEstimate, error)
	Sign(ctx context.Context, id *Identity, sc model.SigningContext) (model.Signature, error)
}

func strategyFor(v model.TransactionVersion) TransactionStrategy {
	if v == model.TransactionV1 {
		return V1Strategy{}
	}
	return V0Strategy{}
}

// errNoGateway means v0 fees cannot be simulated: the feeder gateway is unreachable by construction
var errNoGateway = model.NewError(model.KindNetwork, "no feeder gateway configured", nil)

// V0Strategy talks to accounts of the original protocol: nonce lives in the
// contract, fees are simulated through the feeder gateway, and hashes are
// signed with the raw key pair.
type V0Strategy struct{}

// Version returns 0
func (V0Strategy) Version() model.TransactionVersion { return model.TransactionV0 }

// Nonce calls the account's get_nonce entry point
func (V0Strategy) Nonce(ctx context.Context, id *Identity) (*felt.Felt, error) {
	res, err := id.provider.Call(ctx, model.FunctionCall{
		ContractAddress:    id.address,
		EntryPointSelector: getNonceSelector,
		Calldata:           []*felt.Felt{},
	}, client.BlockPending)
	if err != nil {
		return nil, fmt.Errorf("failed to call get_nonce: %w", err)
	}
	if len(res) == 0 || res[0] == nil {
		return nil, model.NewError(model.KindNetwork, "get_nonce returned no result", nil)
	}
	return res[0], nil
}

// EstimateFee signs a fee-simulation transaction and posts it to the gateway
func (s V0Strategy) EstimateFee(ctx context.Context, id *Identity, calls []model.Call, nonce *felt.Felt) (*model.FeeEstimate, error) {
	keys, _ := id.credentials()
	if keys == nil {
		return nil, model.NewError(model.KindMissingKeyPair, "v0 fee estimation requires a key pair", nil)
	}
	if id.gateway == nil {
		return nil, errNoGateway
	}

	calldata := CalldataV0(calls, nonce)
	version := FeeTransactionVersion(s.Version())
	hash, err := TransactionHashV0(id.address, calldata, new(felt.Felt), id.chainID, version)
	if err != nil {
		return nil, err
	}

	sig, err := keys.SignHash(hash)
	if err != nil {
		return nil, err
	}

	estimate, err := id.gateway.EstimateFee(ctx, model.FeederFeeRequest{
		ContractAddress:    id.address.String(),
		EntryPointSelector: executeSelector.String(),
		Calldata:           toDecimalStrings(calldata),
		Signature:          toDecimalStrings(sig),
		Version:            version.String(),
	})
	if err != nil {
		return nil, err
	}
	estimate.SuggestedMaxFee = SuggestedMaxFee(estimate.OverallFee)
	return estimate, nil
}

// Sign hashes the transaction with the real version and signs it with the key pair
func (s V0Strategy) Sign(_ context.Context, id *Identity, sc model.SigningContext) (model.Signature, error) {
	keys, _ := id.credentials()
	if keys == nil {
		return nil, model.NewError(model.KindMissingKeyPair, "v0 signing requires a key pair", nil)
	}
	if err := checkContext(s.Version(), sc); err != nil {
		return nil, err
	}

	hash, err := TransactionHashV0(sc.WalletAddress, CalldataV0(sc.Calls, sc.Nonce), sc.MaxFee, sc.ChainID, TransactionVersionFelt(s.Version()))
	if err != nil {
		return nil, err
	}
	return keys.SignHash(hash)
}

// V1Strategy talks to upgraded accounts: everything goes through the node
// and the signer.
type V1Strategy struct{}

// Version returns 1
func (V1Strategy) Version() model.TransactionVersion { return model.TransactionV1 }

// Nonce asks the node for the account nonce
func (V1Strategy) Nonce(ctx context.Context, id *Identity) (*felt.Felt, error) {
	nonce, err := id.provider.Nonce(ctx, id.address)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}
	return nonce, nil
}

// EstimateFee has the signer sign a query transaction and lets the node estimate it
func (s V1Strategy) EstimateFee(ctx context.Context, id *Identity, calls []model.Call, nonce *felt.Felt) (*model.FeeEstimate, error) {
	_, signer := id.credentials()
	if signer == nil {
		return nil, model.NewError(model.KindMissingSigner, "v1 fee estimation requires a signer", nil)
	}

	version := FeeTransactionVersion(s.Version())
	maxFee := new(felt.Felt)
	sig, err := signer.SignTransaction(ctx, calls, model.SignerDetails{
		WalletAddress: id.address,
		Nonce:         nonce,
		MaxFee:        maxFee,
		ChainID:       id.chainID,
		Version:       version,
	})
	if err != nil {
		return nil, err
	}

	estimate, err := id.provider.EstimateFee(ctx, model.InvokeTxnV1{
		Type:          "INVOKE",
		SenderAddress: id.address,
		Calldata:      CalldataV1(calls),
		MaxFee:        maxFee,
		Version:       version,
		Signature:     sig,
		Nonce:         nonce,
	})
	if err != nil {
		return nil, err
	}
	estimate.SuggestedMaxFee = SuggestedMaxFee(estimate.OverallFee)
	return estimate, nil
}

// Sign delegates to the signer
func (s V1Strategy) Sign(ctx context.Context, id *Identity, sc model.SigningContext) (model.Signature, error) {
	_, signer := id.credentials()
	if signer == nil {
		return nil, model.NewError(model.KindMissingSigner, "v1 signing requires a signer", nil)
	}
	if err := checkContext(s.Version(), sc); err != nil {
		return nil, err
	}

	return signer.SignTransaction(ctx, sc.Calls, model.SignerDetails{
		WalletAddress: sc.WalletAddress,
		Nonce:         sc.Nonce,
		MaxFee:        sc.MaxFee,
		ChainID:       sc.ChainID,
		Version:       TransactionVersionFelt(s.Version()),
	})
}

func checkContext(v model.TransactionVersion, sc model.SigningContext) error {
	if sc.TransactionVersion != v {
		return model.NewError(model.KindVersionMismatch,
			fmt.Sprintf("signing context is for version %d, account speaks version %d", sc.TransactionVersion, v), nil)
	}
	if sc.WalletAddress == nil || sc.Nonce == nil || sc.MaxFee == nil || sc.ChainID == nil {
		return model.NewError(model.KindInvalidSigningContext, "incomplete signing context", nil)
	}
	return nil
}
