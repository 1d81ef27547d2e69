package cosmos

import (
	"context"
	"encoding/json"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"

	"github.com/gjermundgaraba/dexrouter/router"
)

// NewRouterExecuteMsg wraps a router execute message into the wasm message a wallet signs.
func NewRouterExecuteMsg(sender string, routerContract string, msg router.ExecuteMsg, funds sdk.Coins) (*wasmtypes.MsgExecuteContract, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	msgBz, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal router message")
	}

	if !funds.IsValid() {
		return nil, errors.Errorf("invalid funds %s", funds)
	}

	return &wasmtypes.MsgExecuteContract{
		Sender:   sender,
		Contract: routerContract,
		Msg:      msgBz,
		Funds:    funds,
	}, nil
}

// ExecuteRouter signs and broadcasts a router execute message from the given wallet.
func (c *Cosmos) ExecuteRouter(ctx context.Context, walletID string, routerContract string, msg router.ExecuteMsg, funds sdk.Coins) (string, error) {
	wallet, ok := c.Wallets[walletID]
	if !ok {
		return "", errors.Errorf("wallet not found: %s", walletID)
	}

	execMsg, err := NewRouterExecuteMsg(wallet.Address(), routerContract, msg, funds)
	if err != nil {
		return "", err
	}

	return c.SubmitTx(ctx, walletID, execMsg)
}
