package router

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func queryCount(t *testing.T, r *Router) int32 {
	t.Helper()
	bz, err := r.Query(context.Background(), testEnv(), QueryMsg{GetCount: &GetCountQuery{}})
	require.NoError(t, err)

	var resp GetCountResponse
	require.NoError(t, json.Unmarshal(bz, &resp))
	return resp.Count
}

func TestInstantiate(t *testing.T) {
	r := newTestRouter(t, newMockQuerier())

	_, err := r.Query(context.Background(), testEnv(), QueryMsg{GetCount: &GetCountQuery{}})
	require.ErrorIs(t, err, ErrNotFound)

	resp, err := r.Instantiate(context.Background(), testEnv(), MessageInfo{Sender: callerAddr}, InstantiateMsg{Count: 17})
	require.NoError(t, err)
	require.Empty(t, resp.Messages)
	require.Len(t, resp.Attributes, 3)
	require.Equal(t, "owner", resp.Attributes[1].Key)
	require.Equal(t, callerAddr, resp.Attributes[1].Value)

	require.Equal(t, int32(17), queryCount(t, r))

	bz, err := r.Query(context.Background(), testEnv(), QueryMsg{ContractInfo: &ContractInfoQuery{}})
	require.NoError(t, err)
	require.JSONEq(t, `{"contract":"crates.io:wasm-dexrouter","version":"0.1.0"}`, string(bz))
}

func TestIncrement(t *testing.T) {
	r := newTestRouter(t, newMockQuerier())
	requireInstantiated(t, r, callerAddr, 17)

	_, err := r.Execute(context.Background(), testEnv(), MessageInfo{Sender: otherAddr}, ExecuteMsg{Increment: &IncrementMsg{}})
	require.NoError(t, err)
	require.Equal(t, int32(18), queryCount(t, r))
}

func TestIncrementOverflow(t *testing.T) {
	r := newTestRouter(t, newMockQuerier())
	requireInstantiated(t, r, callerAddr, math.MaxInt32)

	_, err := r.Execute(context.Background(), testEnv(), MessageInfo{Sender: callerAddr}, ExecuteMsg{Increment: &IncrementMsg{}})
	require.ErrorIs(t, err, ErrOverflow)
	require.Equal(t, int32(math.MaxInt32), queryCount(t, r))
}

func TestReset(t *testing.T) {
	r := newTestRouter(t, newMockQuerier())
	requireInstantiated(t, r, callerAddr, 17)

	_, err := r.Execute(context.Background(), testEnv(), MessageInfo{Sender: otherAddr}, ExecuteMsg{Reset: &ResetMsg{Count: 5}})
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Equal(t, int32(17), queryCount(t, r))

	_, err = r.Execute(context.Background(), testEnv(), MessageInfo{Sender: callerAddr}, ExecuteMsg{Reset: &ResetMsg{Count: 5}})
	require.NoError(t, err)
	require.Equal(t, int32(5), queryCount(t, r))
}

func TestIncrementBeforeInstantiate(t *testing.T) {
	r := newTestRouter(t, newMockQuerier())

	_, err := r.Execute(context.Background(), testEnv(), MessageInfo{Sender: callerAddr}, ExecuteMsg{Increment: &IncrementMsg{}})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestExecuteJSON(t *testing.T) {
	r := newTestRouter(t, newMockQuerier())
	requireInstantiated(t, r, callerAddr, 1)

	resp, err := r.ExecuteJSON(context.Background(), testEnv(), MessageInfo{Sender: callerAddr}, []byte(`{"increment":{}}`))
	require.NoError(t, err)
	require.Equal(t, "increment", resp.Attributes[0].Value)

	testCases := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `increment`},
		{name: "no variant", raw: `{}`},
		{name: "unknown variant", raw: `{"withdraw":{}}`},
		{name: "two variants", raw: `{"increment":{},"reset":{"count":1}}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.ExecuteJSON(context.Background(), testEnv(), MessageInfo{Sender: callerAddr}, []byte(tc.raw))
			require.ErrorIs(t, err, ErrInvalidMessage)
		})
	}
}

func TestUnxswapFromJSON(t *testing.T) {
	r := newTestRouter(t, newMockQuerier())

	raw := `{"unxswap":{"operations":[{"sparrow_swap":{"pool_address":"` + poolA + `","offer_asset_info":{"token":{"contract_addr":"` + tokenAddr + `"}}}}]}}`
	resp, err := r.ExecuteJSON(context.Background(), testEnv(), MessageInfo{Sender: callerAddr}, []byte(raw))
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	require.Equal(t, "unxswap", resp.Attributes[0].Value)
}

func TestUnxswapFromJSONRejectsNegativeMinimum(t *testing.T) {
	r := newTestRouter(t, newMockQuerier())

	raw := `{"unxswap":{"operations":[{"astroport_swap":{"pool_address":"` + poolA + `","offer_asset_info":{"token":{"contract_addr":"` + tokenAddr + `"}},"ask_asset_info":{"native_token":{"denom":"uatom"}}}}],"minimum_receive":"-5"}}`
	resp, err := r.ExecuteJSON(context.Background(), testEnv(), MessageInfo{Sender: callerAddr}, []byte(raw))
	require.ErrorIs(t, err, ErrInvalidMessage)
	require.Nil(t, resp)
}

func TestQueryValidate(t *testing.T) {
	r := newTestRouter(t, newMockQuerier())

	_, err := r.Query(context.Background(), testEnv(), QueryMsg{})
	require.ErrorIs(t, err, ErrInvalidMessage)
}
