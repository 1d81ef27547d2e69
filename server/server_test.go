package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gjermundgaraba/dexrouter/asset"
	"github.com/gjermundgaraba/dexrouter/router"
	"github.com/gjermundgaraba/dexrouter/swap"
)

var errChainDown = errors.New("chain unavailable")

func testAddress(name string) string {
	bz := make([]byte, 20)
	copy(bz, name)
	return sdk.MustBech32ifyAddressBytes("cosmos", bz)
}

var (
	routerAddr = testAddress("router")
	userAddr   = testAddress("user")
	poolA      = testAddress("pool-a")
	poolB      = testAddress("pool-b")
)

type fakeChain struct {
	native map[string]sdkmath.Int
	down   bool
}

func (c *fakeChain) NativeBalance(_ context.Context, address string, denom string) (sdkmath.Int, error) {
	if c.down {
		return sdkmath.Int{}, errChainDown
	}
	if amount, ok := c.native[address+"/"+denom]; ok {
		return amount, nil
	}
	return sdkmath.ZeroInt(), nil
}

func (c *fakeChain) TokenBalance(_ context.Context, _ string, _ string) (sdkmath.Int, error) {
	if c.down {
		return sdkmath.Int{}, errChainDown
	}
	return sdkmath.ZeroInt(), nil
}

func (c *fakeChain) ContractExists(_ context.Context, _ string) (bool, error) {
	return !c.down, nil
}

func (c *fakeChain) Balances(ctx context.Context, address string, infos []asset.Info) ([]sdkmath.Int, error) {
	amounts := make([]sdkmath.Int, len(infos))
	for i, info := range infos {
		amount, err := info.QueryBalance(ctx, c, address)
		if err != nil {
			return nil, err
		}
		amounts[i] = amount
	}
	return amounts, nil
}

func newTestServer(t *testing.T, chain *fakeChain, modify ...func(*Config)) http.Handler {
	t.Helper()

	config := DefaultConfig()
	config.ChainID = "test-chain-id"
	config.RouterContract = routerAddr
	for _, m := range modify {
		m(&config)
	}
	return NewServer(zap.NewNop(), config, chain).Handler()
}

func do(t *testing.T, handler http.Handler, method string, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		bz, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(bz)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func twoHopRoute(minimum *sdkmath.Int) router.UnxswapMsg {
	askInfo := asset.NewNative("uatom")
	return router.UnxswapMsg{
		Operations: []swap.Operation{
			{SparrowSwap: &swap.SparrowSwap{PoolAddress: poolA, OfferAssetInfo: asset.NewNative("uusd")}},
			{AstroportSwap: &swap.AstroportSwap{
				PoolAddress:    poolB,
				OfferAssetInfo: asset.NewNative("uluna"),
				AskAssetInfo:   &askInfo,
			}},
		},
		MinimumReceive: minimum,
	}
}

func TestHealth(t *testing.T) {
	handler := newTestServer(t, &fakeChain{})

	rec := do(t, handler, http.MethodGet, "/server/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"healthy","service":"dexrouter"}`, rec.Body.String())
}

func TestCompileRoute(t *testing.T) {
	chain := &fakeChain{native: map[string]sdkmath.Int{
		userAddr + "/uatom": sdkmath.NewInt(200),
	}}
	handler := newTestServer(t, chain)

	minimum := sdkmath.NewInt(1500)
	funds := sdk.NewCoins(sdk.NewInt64Coin("uusd", 1000))
	rec := do(t, handler, http.MethodPost, "/v1/routes/compile", CompileRequest{
		Sender: userAddr,
		Funds:  funds,
		Route:  twoHopRoute(&minimum),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp CompileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Equal(t, userAddr, resp.Execute.Sender)
	require.Equal(t, routerAddr, resp.Execute.Contract)
	require.Equal(t, funds, resp.Execute.Funds)

	require.Len(t, resp.Messages, 3)
	require.Equal(t, poolA, resp.Messages[0].Contract)
	require.Equal(t, funds, resp.Messages[0].Funds)
	require.Equal(t, poolB, resp.Messages[1].Contract)
	require.Empty(t, resp.Messages[1].Funds)
	require.Equal(t, routerAddr, resp.Messages[2].Contract)
	for _, msg := range resp.Messages {
		require.Equal(t, routerAddr, msg.Sender)
	}

	var guard router.ExecuteMsg
	require.NoError(t, json.Unmarshal(resp.Messages[2].Msg, &guard))
	require.NotNil(t, guard.AssertMinimumReceive)
	require.Equal(t, sdkmath.NewInt(200), guard.AssertMinimumReceive.PrevBalance)
	require.Equal(t, minimum, guard.AssertMinimumReceive.MinimumReceive)
	require.Equal(t, userAddr, guard.AssertMinimumReceive.Receiver)
}

func TestCompileRouteErrors(t *testing.T) {
	funds := sdk.NewCoins(sdk.NewInt64Coin("uusd", 1000))
	minimum := sdkmath.NewInt(1)

	tests := []struct {
		name     string
		chain    *fakeChain
		body     any
		wantCode int
	}{
		{
			name:     "malformed body",
			chain:    &fakeChain{},
			body:     map[string]any{"unexpected": true},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "invalid sender",
			chain:    &fakeChain{},
			body:     CompileRequest{Sender: "not-an-address", Funds: funds, Route: twoHopRoute(nil)},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "empty route",
			chain:    &fakeChain{},
			body:     CompileRequest{Sender: userAddr, Funds: funds, Route: router.UnxswapMsg{}},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing funds",
			chain:    &fakeChain{},
			body:     CompileRequest{Sender: userAddr, Route: twoHopRoute(nil)},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "chain unavailable",
			chain:    &fakeChain{down: true},
			body:     CompileRequest{Sender: userAddr, Funds: funds, Route: twoHopRoute(&minimum)},
			wantCode: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestServer(t, tt.chain)

			rec := do(t, handler, http.MethodPost, "/v1/routes/compile", tt.body)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.NotEmpty(t, resp.Error)
		})
	}
}

func TestBalances(t *testing.T) {
	chain := &fakeChain{native: map[string]sdkmath.Int{
		userAddr + "/uatom": sdkmath.NewInt(42),
	}}
	handler := newTestServer(t, chain)

	rec := do(t, handler, http.MethodGet, fmt.Sprintf("/v1/balances/%s?asset=native:uatom&asset=native:uosmo", userAddr), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp BalancesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, userAddr, resp.Address)
	require.Len(t, resp.Balances, 2)
	require.Equal(t, "uatom", resp.Balances[0].Info.Native.Denom)
	require.Equal(t, sdkmath.NewInt(42), resp.Balances[0].Amount)
	require.Equal(t, sdkmath.ZeroInt(), resp.Balances[1].Amount)
}

func TestBalancesErrors(t *testing.T) {
	tests := []struct {
		name     string
		chain    *fakeChain
		target   string
		wantCode int
	}{
		{"invalid address", &fakeChain{}, "/v1/balances/nope?asset=native:uatom", http.StatusBadRequest},
		{"no assets", &fakeChain{}, "/v1/balances/" + userAddr, http.StatusBadRequest},
		{"malformed asset", &fakeChain{}, "/v1/balances/" + userAddr + "?asset=uatom", http.StatusBadRequest},
		{"chain unavailable", &fakeChain{down: true}, "/v1/balances/" + userAddr + "?asset=native:uatom", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(t, tt.chain), http.MethodGet, tt.target, nil)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestMetrics(t *testing.T) {
	handler := newTestServer(t, &fakeChain{})

	rec := do(t, handler, http.MethodPost, "/v1/routes/compile", CompileRequest{Sender: userAddr, Route: router.UnxswapMsg{}})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, handler, http.MethodGet, "/server/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `dexrouter_compiled_routes_total{result="invalid_request"} 1`)
	require.Contains(t, rec.Body.String(), `dexrouter_http_requests_total{code="400",method="POST",route="/v1/routes/compile"} 1`)

	disabled := newTestServer(t, &fakeChain{}, func(c *Config) { c.EnableMetrics = false })
	rec = do(t, disabled, http.MethodGet, "/server/metrics", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	handler := newTestServer(t, &fakeChain{}, func(c *Config) { c.RatePerMinute = 1 })

	require.Equal(t, http.StatusOK, do(t, handler, http.MethodGet, "/server/health", nil).Code)
	require.Equal(t, http.StatusTooManyRequests, do(t, handler, http.MethodGet, "/server/health", nil).Code)
}

func TestCORS(t *testing.T) {
	handler := newTestServer(t, &fakeChain{}, func(c *Config) { c.AllowedOrigins = []string{"https://app.example"} })

	req := httptest.NewRequest(http.MethodGet, "/server/health", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/server/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
