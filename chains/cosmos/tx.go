package cosmos

import (
	"context"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/client/tx"
	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	xauthsigning "github.com/cosmos/cosmos-sdk/x/auth/signing"
	authtx "github.com/cosmos/cosmos-sdk/x/auth/tx"
	accounttypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gjermundgaraba/dexrouter/utils"
)

// SubmitTx signs msgs with the given wallet and broadcasts them in sync mode.
// It returns the hash once the node accepted the tx into its mempool.
func (c *Cosmos) SubmitTx(ctx context.Context, walletID string, msgs ...sdk.Msg) (string, error) {
	if len(msgs) == 0 {
		return "", errors.New("no messages in tx")
	}

	wallet, ok := c.Wallets[walletID]
	if !ok {
		return "", errors.Errorf("wallet not found: %s", walletID)
	}
	address := wallet.Address()

	grpcConn, err := c.grpcConn()
	if err != nil {
		return "", err
	}

	// Get account for sequence and account number
	accountClient := accounttypes.NewQueryClient(grpcConn)
	accountRes, err := accountClient.AccountInfo(ctx, &accounttypes.QueryAccountInfoRequest{Address: address})
	if err != nil {
		return "", errors.Wrap(err, "failed to get account info")
	}

	txCfg := authtx.NewTxConfig(c.codec, authtx.DefaultSignModes)
	txBuilder := txCfg.NewTxBuilder()
	if err := txBuilder.SetMsgs(msgs...); err != nil {
		return "", errors.Wrap(err, "failed to set msgs")
	}
	txBuilder.SetGasLimit(c.GasLimit)
	txBuilder.SetFeeAmount(c.fee())

	signMode := signing.SignMode(txCfg.SignModeHandler().DefaultMode())
	sigV2 := signing.SignatureV2{
		PubKey: wallet.privateKey.PubKey(),
		Data: &signing.SingleSignatureData{
			SignMode:  signMode,
			Signature: nil,
		},
		Sequence: accountRes.Info.Sequence,
	}
	if err := txBuilder.SetSignatures(sigV2); err != nil {
		return "", errors.Wrap(err, "failed to set signature")
	}

	signerData := xauthsigning.SignerData{
		Address:       address,
		ChainID:       c.ChainID,
		AccountNumber: accountRes.Info.AccountNumber,
		Sequence:      accountRes.Info.Sequence,
		PubKey:        wallet.privateKey.PubKey(),
	}
	sigV2, err = tx.SignWithPrivKey(
		ctx,
		signMode,
		signerData,
		txBuilder,
		wallet.privateKey,
		txCfg,
		accountRes.Info.Sequence,
	)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign with priv key")
	}
	if err := txBuilder.SetSignatures(sigV2); err != nil {
		return "", errors.Wrap(err, "failed to set signature")
	}

	txBytes, err := txCfg.TxEncoder()(txBuilder.GetTx())
	if err != nil {
		return "", errors.Wrap(err, "failed to encode tx")
	}

	txClient := txtypes.NewServiceClient(grpcConn)
	grpcRes, err := txClient.BroadcastTx(
		ctx,
		&txtypes.BroadcastTxRequest{
			Mode:    txtypes.BroadcastMode_BROADCAST_MODE_SYNC,
			TxBytes: txBytes,
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "failed to broadcast tx")
	}
	if grpcRes.TxResponse.Code != 0 {
		return "", errors.Errorf("tx failed with code %d: %s", grpcRes.TxResponse.Code, grpcRes.TxResponse.RawLog)
	}

	c.logger.Info("Broadcasted tx",
		zap.String("chain_id", c.ChainID),
		zap.String("wallet_id", walletID),
		zap.String("tx_hash", grpcRes.TxResponse.TxHash),
		zap.Int("msgs", len(msgs)),
	)

	return grpcRes.TxResponse.TxHash, nil
}

// WaitForTx polls until the tx is included in a block and fails if it was included with a
// non-zero code. A router route that trips its minimum receive check lands here.
func (c *Cosmos) WaitForTx(ctx context.Context, txHash string, timeout time.Duration) (*txtypes.GetTxResponse, error) {
	var resp *txtypes.GetTxResponse
	err := utils.WaitForCondition(ctx, timeout, time.Second, func() (bool, error) {
		res, err := c.QueryTx(ctx, txHash)
		if err != nil {
			// Not indexed yet.
			return false, nil
		}
		resp = res
		return true, nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "tx %s was not included", txHash)
	}
	if resp.TxResponse.Code != 0 {
		return resp, errors.Errorf("tx %s failed with code %d: %s", txHash, resp.TxResponse.Code, resp.TxResponse.RawLog)
	}
	return resp, nil
}

func (c *Cosmos) fee() sdk.Coins {
	amount := c.GasPrice.MulInt(sdkmath.NewIntFromUint64(c.GasLimit)).Ceil().TruncateInt()
	return sdk.NewCoins(sdk.NewCoin(c.GasDenom, amount))
}
