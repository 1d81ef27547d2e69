package cosmos

import (
	"context"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWalletGetAddress(t *testing.T) {
	// Arrange
	const privateKeyHex = "8cb79e7fe3de7bfe364e0c5f3a89de39a1472bb67a33ee853d3215a19c476c27"
	const expectedAddress = "cosmos1maysgktd0ugpnrdkkyls8qyap83gk3wt7hxdp5"

	testLogger, _ := zap.NewDevelopment()
	cosmos, err := NewCosmos(testLogger, "test-chain-id", "cosmos", "uatom", "")
	require.NoError(t, err)

	// Act
	err = cosmos.AddWallet("test-wallet", privateKeyHex)

	// Assert
	require.NoError(t, err)
	require.Contains(t, cosmos.Wallets, "test-wallet")

	wallet := cosmos.Wallets["test-wallet"]
	address := wallet.Address()
	require.Equal(t, expectedAddress, address)
	require.Equal(t, privateKeyHex, wallet.PrivateKeyHex())
}

func TestAddWalletInvalidKey(t *testing.T) {
	cosmos, err := NewCosmos(zap.NewNop(), "test-chain-id", "cosmos", "uatom", "")
	require.NoError(t, err)

	require.Error(t, cosmos.AddWallet("bad", "not-hex"))
	require.Error(t, cosmos.AddWallet("short", "8cb79e7f"))
	require.NotContains(t, cosmos.Wallets, "bad")
}

func TestGenerateWalletUsesChainPrefix(t *testing.T) {
	cosmos, err := NewCosmos(zap.NewNop(), "test-chain-id", "neutron", "untrn", "")
	require.NoError(t, err)

	wallet, err := cosmos.GenerateWallet("fresh")
	require.NoError(t, err)
	require.Regexp(t, "^neutron1", wallet.Address())

	stored, err := cosmos.GetWallet("fresh")
	require.NoError(t, err)
	require.Equal(t, wallet.Address(), stored.Address())

	_, err = cosmos.GetWallet("missing")
	require.Error(t, err)
}

func TestSendRejectsBadInput(t *testing.T) {
	cosmos, err := NewCosmos(zap.NewNop(), "test-chain-id", "cosmos", "uatom", "")
	require.NoError(t, err)
	require.NoError(t, cosmos.AddWallet("funder", "8cb79e7fe3de7bfe364e0c5f3a89de39a1472bb67a33ee853d3215a19c476c27"))

	_, err = cosmos.Send(context.Background(), "missing", testAddress, sdk.NewCoins(sdk.NewInt64Coin("uatom", 1)))
	require.Error(t, err)

	_, err = cosmos.Send(context.Background(), "funder", testAddress, sdk.Coins{})
	require.Error(t, err)
}
