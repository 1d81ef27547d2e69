package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gjermundgaraba/dexrouter/server"
)

func serveCmd() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the route compilation and balance HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printLogs(cmd)

			if cfg.RouterContract == "" {
				return errors.New("router-contract is not configured")
			}

			chain, err := cfg.ToCosmos(logger)
			if err != nil {
				return err
			}
			defer chain.Close()

			serverConfig := cfg.ToServerConfig()
			if address != "" {
				serverConfig.Address = address
			}
			srv := server.NewServer(logger, serverConfig, chain)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return errors.Wrap(err, "http server failed")
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return errors.Wrap(err, "failed to shut down http server")
			}

			logger.Info("HTTP server stopped", zap.String("address", serverConfig.Address))
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Override the listen address from the config")

	return cmd
}
