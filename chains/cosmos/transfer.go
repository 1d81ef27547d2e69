package cosmos

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Send transfers native coins from a wallet, e.g. to fund a freshly generated trading wallet.
func (c *Cosmos) Send(ctx context.Context, walletID string, to string, coins sdk.Coins) (string, error) {
	wallet, ok := c.Wallets[walletID]
	if !ok {
		return "", errors.Errorf("wallet not found: %s", walletID)
	}
	if !coins.IsValid() || coins.IsZero() {
		return "", errors.Errorf("invalid amount %s", coins)
	}

	msgSend := &banktypes.MsgSend{
		FromAddress: wallet.Address(),
		ToAddress:   to,
		Amount:      coins,
	}

	txHash, err := c.SubmitTx(ctx, walletID, msgSend)
	if err != nil {
		return "", errors.Wrap(err, "failed to submit tx")
	}

	c.logger.Info("Sent coins", zap.String("tx_hash", txHash), zap.String("from", wallet.Address()), zap.String("to", to), zap.String("amount", coins.String()))

	return txHash, nil
}
