package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Query the router contract's counter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.RouterContract == "" {
				return errors.New("router-contract is not configured")
			}

			chain, err := cfg.ToCosmos(logger)
			if err != nil {
				return err
			}
			defer chain.Close()

			count, err := chain.QueryCount(cmd.Context(), cfg.RouterContract)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), count)
			return nil
		},
	}
}
