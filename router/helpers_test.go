package router

import (
	"context"
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gjermundgaraba/dexrouter/asset"
	"github.com/gjermundgaraba/dexrouter/store"
)

func testAddress(name string) string {
	bz := make([]byte, 20)
	copy(bz, name)
	return sdk.MustBech32ifyAddressBytes("cosmos", bz)
}

var (
	routerAddr = testAddress("router")
	callerAddr = testAddress("caller")
	otherAddr  = testAddress("other")
	poolA      = testAddress("pool-a")
	poolB      = testAddress("pool-b")
	tokenAddr  = testAddress("token")
)

type mockQuerier struct {
	native    map[string]sdkmath.Int
	tokens    map[string]sdkmath.Int
	contracts map[string]bool
	calls     int
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{
		native:    make(map[string]sdkmath.Int),
		tokens:    make(map[string]sdkmath.Int),
		contracts: map[string]bool{tokenAddr: true},
	}
}

func (m *mockQuerier) NativeBalance(_ context.Context, address string, denom string) (sdkmath.Int, error) {
	m.calls++
	if b, ok := m.native[address+"/"+denom]; ok {
		return b, nil
	}
	return sdkmath.ZeroInt(), nil
}

func (m *mockQuerier) TokenBalance(_ context.Context, contract string, address string) (sdkmath.Int, error) {
	m.calls++
	if b, ok := m.tokens[contract+"/"+address]; ok {
		return b, nil
	}
	return sdkmath.ZeroInt(), nil
}

func (m *mockQuerier) ContractExists(_ context.Context, contract string) (bool, error) {
	return m.contracts[contract], nil
}

func newTestRouter(t *testing.T, q asset.Querier) *Router {
	t.Helper()
	return NewRouter(zap.NewNop(), q, NewBech32Validator("cosmos"), store.NewMemStore())
}

func testEnv() Env {
	return Env{ChainID: "test-chain-id", BlockHeight: 1, ContractAddress: routerAddr}
}

func requireInstantiated(t *testing.T, r *Router, owner string, count int32) {
	t.Helper()
	_, err := r.Instantiate(context.Background(), testEnv(), MessageInfo{Sender: owner}, InstantiateMsg{Count: count})
	require.NoError(t, err)
}

func ptr[T any](v T) *T {
	return &v
}
