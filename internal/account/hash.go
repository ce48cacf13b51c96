package account

import (
	"math/big"

	"github.com/AlexZinkM/stark-wallet/internal/model"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/curve"
	"github.com/NethermindEth/starknet.go/hash"
	"github.com/NethermindEth/starknet.go/utils"
)

var (
	invokePrefix     = new(felt.Felt).SetBytes([]byte("invoke"))
	executeSelector  = utils.GetSelectorFromNameFelt("__execute__")
	getNonceSelector = utils.GetSelectorFromNameFelt("get_nonce")

	// fee simulation versions live at 2^128 + version
	queryVersionBase = new(big.Int).Lsh(big.NewInt(1), 128)
)

// ChainIDFromString encodes a short string chain id such as SN_MAIN
func ChainIDFromString(s string) *felt.Felt {
	return new(felt.Felt).SetBytes([]byte(s))
}

// TransactionVersionFelt is the version a real transaction is signed with
func TransactionVersionFelt(v model.TransactionVersion) *felt.Felt {
	return new(felt.Felt).SetUint64(uint64(v))
}

// FeeTransactionVersion is the version fee simulations are signed with.
func FeeTransactionVersion(v model.TransactionVersion) *felt.Felt {
	n := new(big.Int).Add(queryVersionBase, big.NewInt(int64(v)))
	return new(felt.Felt).SetBigInt(n)
}

// encodeCallArray flattens calls into the multicall layout
// [n, (to, selector, offset, len)*n, total, data...]
func encodeCallArray(calls []model.Call) []*felt.Felt {
	out := make([]*felt.Felt, 0, 1+4*len(calls)+1)
	out = append(out, new(felt.Felt).SetUint64(uint64(len(calls))))

	var data []*felt.Felt
	for _, c := range calls {
		out = append(out,
			c.ContractAddress,
			utils.GetSelectorFromNameFelt(c.EntryPoint),
			new(felt.Felt).SetUint64(uint64(len(data))),
			new(felt.Felt).SetUint64(uint64(len(c.Calldata))),
		)
		data = append(data, c.Calldata...)
	}

	out = append(out, new(felt.Felt).SetUint64(uint64(len(data))))
	return append(out, data...)
}

// CalldataV0 is the __execute__ calldata of a v0 account: the nonce travels
// as the last calldata element.
func CalldataV0(calls []model.Call, nonce *felt.Felt) []*felt.Felt {
	return append(encodeCallArray(calls), nonce)
}

// CalldataV1 is the __execute__ calldata of a v1 account
func CalldataV1(calls []model.Call) []*felt.Felt {
	return encodeCallArray(calls)
}

// TransactionHashV0 computes the invoke hash of the v0 protocol.
func TransactionHashV0(address *felt.Felt, calldata []*felt.Felt, maxFee, chainID, version *felt.Felt) (*felt.Felt, error) {
	h := hash.CalculateTransactionHashCommon(
		invokePrefix,
		version,
		address,
		executeSelector,
		curve.PedersenArray(calldata...),
		maxFee,
		chainID,
		nil,
	)
	return h, nil
}

// TransactionHashV1 computes the invoke hash of the v1 protocol. The entry
// point selector slot is zero and the nonce is appended.
func TransactionHashV1(sender *felt.Felt, calldata []*felt.Felt, maxFee, chainID, nonce, version *felt.Felt) (*felt.Felt, error) {
	h := hash.CalculateTransactionHashCommon(
		invokePrefix,
		version,
		sender,
		new(felt.Felt),
		curve.PedersenArray(calldata...),
		maxFee,
		chainID,
		[]*felt.Felt{nonce},
	)
	return h, nil
}

// SuggestedMaxFee adds the 50% overhead applied to every fee estimate
func SuggestedMaxFee(overallFee *big.Int) *big.Int {
	if overallFee == nil {
		return nil
	}
	n := new(big.Int).Mul(overallFee, big.NewInt(150))
	return n.Div(n, big.NewInt(100))
}

func toDecimalStrings(felts []*felt.Felt) []string {
	out := make([]string, len(felts))
	for i, f := range felts {
		out[i] = f.BigInt(new(big.Int)).String()
	}
	return out
}
