package crypto

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/AlexZinkM/stark-wallet/internal/model"

	"github.com/NethermindEth/starknet.go/curve"
)

// keyHexLen is the width of an encoded private key, without the 0x prefix
const keyHexLen = 64

// EncodeKey renders a private scalar as 0x followed by 64 lowercase hex digits.
func EncodeKey(k *big.Int) string {
	return fmt.Sprintf("0x%0*x", keyHexLen, k)
}

// DecodeKey parses a key produced by EncodeKey. The scalar must be in (0, N).
func DecodeKey(s string) (*big.Int, error) {
	h := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if len(h) == 0 || len(h) > keyHexLen {
		return nil, model.NewError(model.KindMalformedRecord, "invalid private key length", nil)
	}
	k, ok := new(big.Int).SetString(h, 16)
	if !ok {
		return nil, model.NewError(model.KindMalformedRecord, "private key is not hex", nil)
	}
	if k.Sign() <= 0 || k.Cmp(curve.Curve.N) >= 0 {
		return nil, model.NewError(model.KindMalformedRecord, "private key out of range", nil)
	}
	return k, nil
}
