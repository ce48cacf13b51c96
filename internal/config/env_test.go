package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Defaults(t *testing.T) {
	t.Setenv("RECOVERY_PUBLIC_KEY", "ab01")
	require.NoError(t, Init())
	t.Cleanup(func() { cfg = nil })

	assert.Equal(t, "8080", GetPort())
	assert.Equal(t, "SN_MAIN", GetChainID())
	assert.Equal(t, "wallet.db", GetDBPath())
	assert.Equal(t, "ab01", GetRecoveryPublicKey())
	assert.Equal(t, time.Second, Get().InjectDelay)
	assert.Equal(t, 30*time.Second, Get().DecryptTimeout)
	assert.Equal(t, []string{"starknet", "starknet_marketplace"}, Get().GlobalNames)
}

func TestInit_Overrides(t *testing.T) {
	t.Setenv("RECOVERY_PUBLIC_KEY", "ab01")
	t.Setenv("CHAIN_ID", "SN_GOERLI")
	t.Setenv("WALLET_BACKEND_URL", "http://localhost:5050/rpc")
	t.Setenv("INJECT_DELAY", "250ms")
	t.Setenv("GLOBAL_NAMES", "wallet_a,wallet_b")
	require.NoError(t, Init())
	t.Cleanup(func() { cfg = nil })

	assert.Equal(t, "SN_GOERLI", GetChainID())
	assert.Equal(t, "http://localhost:5050/rpc", GetWalletBackendURL())
	assert.Equal(t, 250*time.Millisecond, Get().InjectDelay)
	assert.Equal(t, []string{"wallet_a", "wallet_b"}, Get().GlobalNames)
}

func TestInit_Errors(t *testing.T) {
	t.Setenv("RECOVERY_PUBLIC_KEY", "")
	require.NoError(t, os.Unsetenv("RECOVERY_PUBLIC_KEY"))
	assert.Error(t, Init(), "recovery key is required")

	t.Setenv("RECOVERY_PUBLIC_KEY", "ab01")
	t.Setenv("GLOBAL_NAMES", "only_one")
	assert.Error(t, Init())
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	cfg = nil
	assert.Panics(t, func() { Get() })
}
