package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gjermundgaraba/dexrouter/cmd/dexrouter/config"
	"github.com/gjermundgaraba/dexrouter/cmd/dexrouter/logging"
)

// skipConfigAnnotation marks commands that run without a config file.
const skipConfigAnnotation = "skip-config"

var (
	configPath string
	cfg        *config.Config
	logLevel   string
	logDir     string

	logger    *zap.Logger
	logWriter *logging.LogWriter
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "dexrouter",
		Short:        "Multi-hop DEX swap router CLI",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if _, skip := cmd.Annotations[skipConfigAnnotation]; skip {
				cfg = &config.Config{Bech32Prefix: "cosmos"}
			} else {
				cfg, err = config.LoadConfig(configPath)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
			}

			logger, logWriter, err = logging.NewLogger(logLevel, logDir)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logWriter == nil {
				return nil
			}
			_ = logger.Sync()
			return logWriter.Close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "optional folder to write log files to")

	rootCmd.AddCommand(
		compileCmd(),
		submitCmd(),
		balanceCmd(),
		countCmd(),
		simulateCmd(),
		serveCmd(),
		generateWalletCmd(),
	)

	return rootCmd
}

// printLogs mirrors log entries to the command's output.
func printLogs(cmd *cobra.Command) {
	logWriter.AddExtraLogger(func(entry string) {
		cmd.Print(entry)
	})
}
