package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gjermundgaraba/dexrouter/asset"
)

func balanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance [address-or-wallet-id] [asset]...",
		Short: "Query balances of native denoms or cw20 tokens",
		Long: `Query the balance of one or more assets for an address.
Assets are given as native:<denom> or token:<contract>.
If the first argument names a configured wallet, its address is used.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			chain, err := cfg.ToCosmos(logger)
			if err != nil {
				return err
			}
			defer chain.Close()

			address := args[0]
			if wallet, err := chain.GetWallet(address); err == nil {
				address = wallet.Address()
			}

			infos := make([]asset.Info, 0, len(args)-1)
			for _, raw := range args[1:] {
				info, err := asset.ParseInfo(raw)
				if err != nil {
					return err
				}
				infos = append(infos, info)
			}

			balances, err := chain.Balances(ctx, address, infos)
			if err != nil {
				return errors.Wrapf(err, "failed to get balances for %s", address)
			}

			for i, info := range infos {
				logger.Debug("Balance retrieved",
					zap.String("address", address),
					zap.String("asset", info.String()),
					zap.String("balance", balances[i].String()))

				// Print balance to stdout for easy consumption by scripts
				fmt.Fprintln(cmd.OutOrStdout(), asset.Asset{Info: info, Amount: balances[i]}.String())
			}

			return nil
		},
	}

	return cmd
}
