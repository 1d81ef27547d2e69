package router

import (
	"context"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/gjermundgaraba/dexrouter/asset"
)

func TestAssertMinimumReceive(t *testing.T) {
	testCases := []struct {
		name      string
		info      asset.Info
		balance   int64
		before    int64
		minimum   int64
		expErr    error
		expActual int64
	}{
		{name: "gain above minimum", info: asset.NewNative("uatom"), balance: 200, before: 100, minimum: 50},
		{name: "gain equal to minimum", info: asset.NewNative("uatom"), balance: 150, before: 100, minimum: 50},
		{name: "gain below minimum", info: asset.NewNative("uatom"), balance: 130, before: 100, minimum: 50, expErr: ErrInsufficientOutput, expActual: 30},
		{name: "balance decreased", info: asset.NewNative("uatom"), balance: 90, before: 100, minimum: 0, expErr: ErrBalanceUnderflow},
		{name: "token asset", info: asset.NewToken(tokenAddr), balance: 200, before: 100, minimum: 100},
		{name: "unknown token contract", info: asset.NewToken(poolA), balance: 200, before: 100, minimum: 1, expErr: ErrInvalidAsset},
		{name: "negative prev balance", info: asset.NewNative("uatom"), balance: 0, before: -10, minimum: 10, expErr: ErrInvalidMessage},
		{name: "negative minimum", info: asset.NewNative("uatom"), balance: 100, before: 100, minimum: -5, expErr: ErrInvalidMessage},
		{name: "malformed denom", info: asset.NewNative("x"), balance: 200, before: 100, minimum: 1, expErr: ErrInvalidAsset},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q := newMockQuerier()
			if tc.info.IsNative() {
				q.native[otherAddr+"/"+tc.info.Native.Denom] = sdkmath.NewInt(tc.balance)
			} else {
				q.tokens[tc.info.Token.ContractAddr+"/"+otherAddr] = sdkmath.NewInt(tc.balance)
			}
			r := newTestRouter(t, q)

			resp, err := r.AssertMinimumReceive(context.Background(), testEnv(), MessageInfo{Sender: routerAddr}, AssertMinimumReceiveMsg{
				AssetInfo:      tc.info,
				PrevBalance:    sdkmath.NewInt(tc.before),
				MinimumReceive: sdkmath.NewInt(tc.minimum),
				Receiver:       otherAddr,
			})
			if tc.expErr == nil {
				require.NoError(t, err)
				require.Empty(t, resp.Messages)
				return
			}

			require.ErrorIs(t, err, tc.expErr)
			if tc.expErr == ErrInsufficientOutput {
				var insufficient *InsufficientOutputError
				require.True(t, errors.As(err, &insufficient))
				require.Equal(t, sdkmath.NewInt(tc.minimum), insufficient.Required)
				require.Equal(t, sdkmath.NewInt(tc.expActual), insufficient.Actual)
			}
		})
	}
}

func TestAssertMinimumReceiveRejectsExternalCallers(t *testing.T) {
	q := newMockQuerier()
	q.native[otherAddr+"/uatom"] = sdkmath.NewInt(200)
	r := newTestRouter(t, q)

	msg := ExecuteMsg{AssertMinimumReceive: &AssertMinimumReceiveMsg{
		AssetInfo:      asset.NewNative("uatom"),
		PrevBalance:    sdkmath.NewInt(100),
		MinimumReceive: sdkmath.NewInt(50),
		Receiver:       otherAddr,
	}}

	_, err := r.Execute(context.Background(), testEnv(), MessageInfo{Sender: callerAddr}, msg)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = r.Execute(context.Background(), testEnv(), MessageInfo{Sender: routerAddr}, msg)
	require.NoError(t, err)
}

func TestAssertMinimumReceiveInvalidReceiver(t *testing.T) {
	r := newTestRouter(t, newMockQuerier())

	_, err := r.AssertMinimumReceive(context.Background(), testEnv(), MessageInfo{Sender: routerAddr}, AssertMinimumReceiveMsg{
		AssetInfo:      asset.NewNative("uatom"),
		PrevBalance:    sdkmath.ZeroInt(),
		MinimumReceive: sdkmath.ZeroInt(),
		Receiver:       "receiver",
	})
	require.ErrorIs(t, err, ErrInvalidAddress)
}
