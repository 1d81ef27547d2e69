package cmd

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gjermundgaraba/dexrouter/cmd/dexrouter/config"
)

func generateWalletCmd() *cobra.Command {
	var (
		fundFromWallet string
		fundAmount     string
	)

	cmd := &cobra.Command{
		Use:   "generate-wallet [new-wallet-id]",
		Short: "Generate a new wallet and add it to the config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			newWalletID := args[0]
			printLogs(cmd)

			if (fundFromWallet == "") != (fundAmount == "") {
				return errors.New("either both --fund-from-wallet and --fund-amount must be set or neither")
			}

			var funds sdk.Coins
			if fundAmount != "" {
				var err error
				funds, err = sdk.ParseCoinsNormalized(fundAmount)
				if err != nil {
					return errors.Wrapf(err, "invalid fund amount %q", fundAmount)
				}
			}

			chain, err := cfg.ToCosmos(logger)
			if err != nil {
				return err
			}
			defer chain.Close()

			if _, err := chain.GetWallet(newWalletID); err == nil {
				return errors.Errorf("wallet already exists: %s", newWalletID)
			}

			wallet, err := chain.GenerateWallet(newWalletID)
			if err != nil {
				return errors.Wrap(err, "failed to generate wallet")
			}

			cfg.Wallets = append(cfg.Wallets, config.WalletConfig{
				WalletID:   newWalletID,
				PrivateKey: wallet.PrivateKeyHex(),
			})
			if err := cfg.SaveConfig(configPath); err != nil {
				return errors.Wrap(err, "failed to save config")
			}

			logger.Info("Generated new wallet",
				zap.String("wallet_id", wallet.ID()),
				zap.String("address", wallet.Address()),
				zap.String("config_file", configPath))

			if fundFromWallet != "" {
				txHash, err := chain.Send(ctx, fundFromWallet, wallet.Address(), funds)
				if err != nil {
					return errors.Wrap(err, "failed to fund new wallet")
				}

				logger.Info("Funded new wallet",
					zap.String("from_wallet", fundFromWallet),
					zap.String("to_wallet", newWalletID),
					zap.String("amount", funds.String()),
					zap.String("tx_hash", txHash))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&fundFromWallet, "fund-from-wallet", "", "Optional wallet ID to fund the new wallet from")
	cmd.Flags().StringVar(&fundAmount, "fund-amount", "", "Optional coins to fund the new wallet with, e.g. 1000000uatom")

	return cmd
}
