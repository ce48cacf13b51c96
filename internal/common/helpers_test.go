package common

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeiToETH(t *testing.T) {
	assert.Equal(t, "0.000000000000000001", WeiToETH(big.NewInt(1)))
	assert.Equal(t, "1.000000000000000000", WeiToETH(big.NewInt(1_000_000_000_000_000_000)))
	assert.Equal(t, "0.000000000000000000", WeiToETH(nil))

	big1, _ := new(big.Int).SetString("123456789012345678901234", 10)
	assert.Equal(t, "123456.789012345678901234", WeiToETH(big1))
}

func TestETHToWei(t *testing.T) {
	wei, err := ETHToWei("0.0015")
	require.NoError(t, err)
	assert.Equal(t, "1500000000000000", wei.String())

	wei, err = ETHToWei("2")
	require.NoError(t, err)
	assert.Equal(t, "2000000000000000000", wei.String())

	// precision beyond wei is truncated
	wei, err = ETHToWei("0.0000000000000000019")
	require.NoError(t, err)
	assert.Equal(t, "1", wei.String())

	for _, bad := range []string{"", "1.2.3", "abc", "-1", "+1"} {
		_, err := ETHToWei(bad)
		assert.Error(t, err, bad)
	}
}

func TestCompareETHAmounts(t *testing.T) {
	cmp, err := CompareETHAmounts("0.1", "0.10")
	require.NoError(t, err)
	assert.Equal(t, 0, cmp)

	cmp, err = CompareETHAmounts("0.09", "0.1")
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)

	_, err = CompareETHAmounts("x", "1")
	assert.Error(t, err)
}
