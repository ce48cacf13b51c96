package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/AlexZinkM/stark-wallet/internal/model"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

const (
	// BlockLatest and BlockPending are the block tags accepted by the node
	BlockLatest  = "latest"
	BlockPending = "pending"
)

// StarknetClient is a client for working with a Starknet JSON-RPC node
type StarknetClient struct {
	rpcClient jsonrpc.RPCClient
	rpcURL    string
}

// NewStarknetClient creates a new client for the given node URL.
func NewStarknetClient(rpcURL string) *StarknetClient {
	return &StarknetClient{
		rpcClient: jsonrpc.NewClient(rpcURL),
		rpcURL:    rpcURL,
	}
}

// URL returns the node endpoint the client is bound to
func (c *StarknetClient) URL() string {
	return c.rpcURL
}

// Call runs a read-only contract call and returns the raw result felts
func (c *StarknetClient) Call(ctx context.Context, call model.FunctionCall, blockID string) ([]*felt.Felt, error) {
	if call.Calldata == nil {
		call.Calldata = []*felt.Felt{}
	}

	var out []*felt.Felt
	if err := c.call(ctx, &out, "starknet_call", call, blockTag(blockID)); err != nil {
		return nil, err
	}
	return out, nil
}

// Nonce gets the account nonce as tracked by the node
func (c *StarknetClient) Nonce(ctx context.Context, address *felt.Felt) (*felt.Felt, error) {
	var out *felt.Felt
	if err := c.call(ctx, &out, "starknet_getNonce", blockTag(BlockPending), address); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, model.NewError(model.KindNetwork, "empty nonce in node response", nil)
	}
	return out, nil
}

// feeEstimate is the node's fee estimation shape
type feeEstimate struct {
	GasConsumed *felt.Felt `json:"gas_consumed"`
	GasPrice    *felt.Felt `json:"gas_price"`
	OverallFee  *felt.Felt `json:"overall_fee"`
}

// EstimateFee simulates a v1 invoke transaction
func (c *StarknetClient) EstimateFee(ctx context.Context, tx model.InvokeTxnV1) (*model.FeeEstimate, error) {
	var out []feeEstimate
	if err := c.call(ctx, &out, "starknet_estimateFee", []model.InvokeTxnV1{tx}, blockTag(BlockPending)); err != nil {
		return nil, err
	}
	if len(out) == 0 || out[0].OverallFee == nil {
		return nil, model.NewError(model.KindNetwork, "empty fee estimate in node response", nil)
	}

	return &model.FeeEstimate{
		OverallFee:  feltToBig(out[0].OverallFee),
		GasConsumed: feltToBig(out[0].GasConsumed),
		GasPrice:    feltToBig(out[0].GasPrice),
	}, nil
}

// ChainID gets the chain id of the node
func (c *StarknetClient) ChainID(ctx context.Context) (*felt.Felt, error) {
	var out *felt.Felt
	if err := c.call(ctx, &out, "starknet_chainId"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *StarknetClient) call(ctx context.Context, out interface{}, method string, params ...interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	if err := c.rpcClient.CallForInto(ctx, out, method, params); err != nil {
		var rpcErr *jsonrpc.RPCError
		if errors.As(err, &rpcErr) {
			return model.NewError(model.KindNetwork, fmt.Sprintf("%s failed with code %d", method, rpcErr.Code), err)
		}
		return model.NewError(model.KindNetwork, fmt.Sprintf("failed to call %s", method), err)
	}
	return nil
}

// blockTag maps a tag or hash to a block_id parameter
func blockTag(blockID string) interface{} {
	switch blockID {
	case "", BlockPending:
		return BlockPending
	case BlockLatest:
		return BlockLatest
	default:
		return map[string]string{"block_hash": blockID}
	}
}

func feltToBig(f *felt.Felt) *big.Int {
	if f == nil {
		return nil
	}
	return f.BigInt(new(big.Int))
}
