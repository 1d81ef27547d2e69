package cmd

import (
	"fmt"

	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/gogoproto/proto"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gjermundgaraba/dexrouter/chains/cosmos"
	"github.com/gjermundgaraba/dexrouter/router"
	"github.com/gjermundgaraba/dexrouter/store"
)

func compileCmd() *cobra.Command {
	var walletID string

	cmd := &cobra.Command{
		Use:   "compile [route.json]",
		Short: "Compile a route into the messages the router would emit",
		Long: `Compile a route against live chain balances without broadcasting anything.
The route file has the same shape as the body of POST /v1/routes/compile.
If --wallet-id is set, its address replaces the sender in the route file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			req, err := readRouteFile(args[0])
			if err != nil {
				return err
			}

			chain, err := cfg.ToCosmos(logger)
			if err != nil {
				return err
			}
			defer chain.Close()

			if walletID != "" {
				wallet, err := chain.GetWallet(walletID)
				if err != nil {
					return err
				}
				req.Sender = wallet.Address()
			}

			r := router.NewRouter(logger, chain, router.NewBech32Validator(cfg.Bech32Prefix), store.NewMemStore())
			env := router.Env{ChainID: cfg.ChainID, ContractAddress: cfg.RouterContract}
			info := router.MessageInfo{Sender: req.Sender, Funds: req.Funds}

			msgs, err := r.CompileRoute(ctx, env, info, req.Route)
			if err != nil {
				return errors.Wrap(err, "failed to compile route")
			}

			cdc := cosmos.SetupCodec()
			for i, msg := range msgs {
				msgAny, err := codectypes.NewAnyWithValue(msg)
				if err != nil {
					return errors.Wrapf(err, "failed to pack message %d", i)
				}
				msgBz, err := cdc.MarshalJSON(msgAny)
				if err != nil {
					return errors.Wrapf(err, "failed to marshal message %d", i)
				}

				logger.Debug("Compiled message",
					zap.Int("index", i),
					zap.String("type", proto.MessageName(msg)),
					zap.String("contract", msg.Contract))

				fmt.Fprintln(cmd.OutOrStdout(), string(msgBz))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&walletID, "wallet-id", "", "Optional wallet whose address is used as the sender")

	return cmd
}
