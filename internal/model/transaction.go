package model

import (
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
)

// TransactionVersion identifies the account-abstraction protocol.
type TransactionVersion uint8

const (
	TransactionV0 TransactionVersion = 0
	TransactionV1 TransactionVersion = 1
)

// Call is a single contract invocation inside a multicall
type Call struct {
	ContractAddress *felt.Felt   `json:"contractAddress"`
	EntryPoint      string       `json:"entrypoint"`
	Calldata        []*felt.Felt `json:"calldata"`
}

// SigningContext carries everything needed to sign one transaction.
type SigningContext struct {
	Calls              []Call
	Nonce              *felt.Felt
	MaxFee             *felt.Felt
	ChainID            *felt.Felt
	WalletAddress      *felt.Felt
	TransactionVersion TransactionVersion
}

// SignerDetails is what a v1 signer needs besides the calls.
type SignerDetails struct {
	WalletAddress *felt.Felt
	Nonce         *felt.Felt
	MaxFee        *felt.Felt
	ChainID       *felt.Felt
	Version       *felt.Felt
}

// Signature is an (r, s) pair of felts
type Signature []*felt.Felt

// FeeEstimate is the normalized fee estimation result.
// Gas fields are best effort and may be nil.
type FeeEstimate struct {
	OverallFee      *big.Int `json:"overall_fee"`
	GasConsumed     *big.Int `json:"gas_consumed,omitempty"`
	GasPrice        *big.Int `json:"gas_price,omitempty"`
	SuggestedMaxFee *big.Int `json:"suggestedMaxFee"`
}

// FunctionCall is a read-only contract call (starknet_call)
type FunctionCall struct {
	ContractAddress    *felt.Felt   `json:"contract_address"`
	EntryPointSelector *felt.Felt   `json:"entry_point_selector"`
	Calldata           []*felt.Felt `json:"calldata"`
}

// InvokeTxnV1 is a version 1 invoke transaction as sent over JSON-RPC
type InvokeTxnV1 struct {
	Type          string       `json:"type"`
	SenderAddress *felt.Felt   `json:"sender_address"`
	Calldata      []*felt.Felt `json:"calldata"`
	MaxFee        *felt.Felt   `json:"max_fee"`
	Version       *felt.Felt   `json:"version"`
	Signature     Signature    `json:"signature"`
	Nonce         *felt.Felt   `json:"nonce"`
}

// FeederFeeRequest is the envelope POSTed to the feeder gateway for v0 fee simulation.
// Calldata and signature are decimal strings.
type FeederFeeRequest struct {
	ContractAddress    string   `json:"contract_address"`
	EntryPointSelector string   `json:"entry_point_selector"`
	Calldata           []string `json:"calldata"`
	Signature          []string `json:"signature"`
	Version            string   `json:"version"`
}

// ExecuteResult is a signed transaction ready for submission
type ExecuteResult struct {
	Address            string             `json:"address"`
	TransactionVersion TransactionVersion `json:"transactionVersion"`
	Nonce              *felt.Felt         `json:"nonce"`
	MaxFee             *felt.Felt         `json:"maxFee"`
	Fee                *FeeEstimate       `json:"fee"`
	Signature          Signature          `json:"signature"`
}
