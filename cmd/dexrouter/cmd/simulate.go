package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gjermundgaraba/dexrouter/asset"
	"github.com/gjermundgaraba/dexrouter/chains/cosmos"
	"github.com/gjermundgaraba/dexrouter/router"
	"github.com/gjermundgaraba/dexrouter/simulate"
)

func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [scenario.toml] [route.json]",
		Short: "Run a route against an in-memory chain",
		Long: `Run a route end to end against an in-memory chain described by a scenario file.
The pools, tokens and starting balances come from the scenario. The route file has the
same shape as the body of POST /v1/routes/compile. Balances of the recipient are printed
before and after the route for every asset it touches.`,
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			printLogs(cmd)

			scenario, err := simulate.LoadScenario(args[0])
			if err != nil {
				return err
			}
			req, err := readRouteFile(args[1])
			if err != nil {
				return err
			}

			host, _, err := scenario.Build(ctx, logger)
			if err != nil {
				return errors.Wrap(err, "failed to build scenario")
			}

			recipient := req.Sender
			if req.Route.To != nil {
				recipient = *req.Route.To
			}
			touched, err := routeAssets(req.Route)
			if err != nil {
				return err
			}

			before := make([]string, len(touched))
			for i, info := range touched {
				before[i] = host.Balance(info, recipient).String()
			}

			execMsg, err := cosmos.NewRouterExecuteMsg(req.Sender, scenario.Router, router.ExecuteMsg{Unxswap: &req.Route}, req.Funds)
			if err != nil {
				return err
			}
			if err := host.Execute(ctx, execMsg); err != nil {
				return errors.Wrap(err, "route failed")
			}

			logger.Info("Route simulated",
				zap.String("recipient", recipient),
				zap.Int("hops", len(req.Route.Operations)),
				zap.Int64("height", host.Height()))

			for i, info := range touched {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", info, before[i], host.Balance(info, recipient))
			}

			return nil
		},
	}

	return cmd
}

// routeAssets lists every asset a route offers or asks for, first occurrence first.
func routeAssets(route router.UnxswapMsg) ([]asset.Info, error) {
	var infos []asset.Info
	add := func(info asset.Info) {
		for _, existing := range infos {
			if existing.Equal(info) {
				return
			}
		}
		infos = append(infos, info)
	}

	for i, op := range route.Operations {
		step, err := op.Step()
		if err != nil {
			return nil, errors.Wrapf(router.ErrInvalidMessage, "operation %d: %s", i+1, err)
		}
		add(step.OfferInfo())
		if ask := step.AskInfo(); ask != nil {
			add(*ask)
		}
	}
	if route.TargetAssetInfo != nil {
		add(*route.TargetAssetInfo)
	}

	return infos, nil
}
