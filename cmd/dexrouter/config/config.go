package config

import (
	"fmt"
	"os"

	sdkmath "cosmossdk.io/math"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gjermundgaraba/dexrouter/chains/cosmos"
	"github.com/gjermundgaraba/dexrouter/server"
)

// Config represents the application configuration
type Config struct {
	ChainID        string         `toml:"chain-id"`
	GRPCAddr       string         `toml:"grpc-addr"`
	Bech32Prefix   string         `toml:"bech32-prefix"`
	GasDenom       string         `toml:"gas-denom"`
	GasPrice       string         `toml:"gas-price"`
	GasLimit       uint64         `toml:"gas-limit"`
	RouterContract string         `toml:"router-contract"`
	Wallets        []WalletConfig `toml:"wallets"`
	Server         ServerConfig   `toml:"server"`
}

// WalletConfig represents the configuration for a wallet
type WalletConfig struct {
	WalletID   string `toml:"wallet-id"`
	PrivateKey string `toml:"private-key"`
}

// ServerConfig represents the configuration for the HTTP API
type ServerConfig struct {
	Address               string   `toml:"address"`
	AllowedOrigins        []string `toml:"allowed-origins"`
	EnableMetrics         bool     `toml:"enable-metrics"`
	RatePerMinute         int      `toml:"rate-per-minute"`
	MaxConcurrentRequests int      `toml:"max-concurrent-requests"`
}

// LoadConfig reads and parses the config file
func LoadConfig(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	var config Config
	if err := toml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if config.Bech32Prefix == "" {
		config.Bech32Prefix = "cosmos"
	}

	return &config, nil
}

// SaveConfig writes the config to file using go-toml directly
func (c *Config) SaveConfig(configPath string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to a new temporary file for atomic write
	tempFile, err := os.CreateTemp("", "config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempFile.Name(), configPath); err != nil {
		// If rename fails (e.g., across filesystems), try copy
		input, err := os.ReadFile(tempFile.Name())
		if err != nil {
			return fmt.Errorf("failed to read temp file: %w", err)
		}

		if err := os.WriteFile(configPath, input, 0644); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
	}

	return nil
}

// ToCosmos builds the chain client with every configured wallet loaded.
func (c *Config) ToCosmos(logger *zap.Logger) (*cosmos.Cosmos, error) {
	if c.GRPCAddr == "" {
		return nil, errors.New("grpc-addr is not configured")
	}

	chain, err := cosmos.NewCosmos(logger, c.ChainID, c.Bech32Prefix, c.GasDenom, c.GRPCAddr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Cosmos chain")
	}

	if c.GasPrice != "" {
		gasPrice, err := sdkmath.LegacyNewDecFromStr(c.GasPrice)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid gas-price %q", c.GasPrice)
		}
		chain.GasPrice = gasPrice
	}
	if c.GasLimit != 0 {
		chain.GasLimit = c.GasLimit
	}

	for _, walletConfig := range c.Wallets {
		if err := chain.AddWallet(walletConfig.WalletID, walletConfig.PrivateKey); err != nil {
			return nil, errors.Wrapf(err, "failed to add wallet %s", walletConfig.WalletID)
		}
	}

	return chain, nil
}

// ToServerConfig fills the HTTP server configuration, keeping defaults for unset fields.
func (c *Config) ToServerConfig() server.Config {
	serverConfig := server.DefaultConfig()
	serverConfig.ChainID = c.ChainID
	serverConfig.Bech32Prefix = c.Bech32Prefix
	serverConfig.RouterContract = c.RouterContract

	if c.Server.Address != "" {
		serverConfig.Address = c.Server.Address
	}
	if len(c.Server.AllowedOrigins) > 0 {
		serverConfig.AllowedOrigins = c.Server.AllowedOrigins
	}
	serverConfig.EnableMetrics = c.Server.EnableMetrics
	serverConfig.RatePerMinute = c.Server.RatePerMinute
	if c.Server.MaxConcurrentRequests > 0 {
		serverConfig.MaxConcurrentRequests = c.Server.MaxConcurrentRequests
	}

	return serverConfig
}
