package cmd

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gjermundgaraba/dexrouter/chains/cosmos"
	"github.com/gjermundgaraba/dexrouter/router"
)

func submitCmd() *cobra.Command {
	var (
		walletID string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "submit [route.json]",
		Short: "Sign and broadcast a route to the router contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			printLogs(cmd)

			if walletID == "" {
				return errors.New("--wallet-id is required")
			}
			if cfg.RouterContract == "" {
				return errors.New("router-contract is not configured")
			}

			req, err := readRouteFile(args[0])
			if err != nil {
				return err
			}

			chain, err := cfg.ToCosmos(logger)
			if err != nil {
				return err
			}
			defer chain.Close()

			txHash, err := chain.ExecuteRouter(ctx, walletID, cfg.RouterContract, router.ExecuteMsg{Unxswap: &req.Route}, req.Funds)
			if err != nil {
				return errors.Wrap(err, "failed to submit route")
			}
			logger.Info("Route submitted", zap.String("tx_hash", txHash), zap.Int("hops", len(req.Route.Operations)))

			resp, err := chain.WaitForTx(ctx, txHash, timeout)
			if err != nil {
				return err
			}
			logger.Info("Route executed",
				zap.String("tx_hash", txHash),
				zap.Int64("height", resp.TxResponse.Height),
				zap.Int64("gas_used", resp.TxResponse.GasUsed))

			result, err := cosmos.ParseRouteEvents(resp.TxResponse.Events, cfg.RouterContract)
			if err != nil {
				logger.Warn("Could not read route events", zap.String("tx_hash", txHash), zap.Error(err))
				return nil
			}
			for _, swap := range result.Swaps {
				logger.Info("Swap",
					zap.String("pool", swap.Pool),
					zap.String("offer", swap.OfferAmount.String()+" "+swap.OfferAsset),
					zap.String("return", swap.ReturnAmount.String()+" "+swap.AskAsset),
					zap.String("receiver", swap.Receiver))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&walletID, "wallet-id", "", "Wallet to sign the route with")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "How long to wait for the transaction to be included")

	return cmd
}
