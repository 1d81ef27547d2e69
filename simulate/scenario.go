package simulate

import (
	"context"
	"os"

	sdkmath "cosmossdk.io/math"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gjermundgaraba/dexrouter/asset"
	"github.com/gjermundgaraba/dexrouter/router"
	"github.com/gjermundgaraba/dexrouter/store"
	"github.com/gjermundgaraba/dexrouter/swap"
)

// Scenario describes the initial state of a simulated chain.
type Scenario struct {
	ChainID      string          `toml:"chain-id"`
	Bech32Prefix string          `toml:"bech32-prefix"`
	Router       string          `toml:"router"`
	Owner        string          `toml:"owner"`
	Tokens       []string        `toml:"tokens"`
	Balances     []BalanceConfig `toml:"balances"`
	Pools        []PoolConfig    `toml:"pools"`
}

type BalanceConfig struct {
	Address string `toml:"address"`
	Asset   string `toml:"asset"`
	Amount  string `toml:"amount"`
}

type PoolConfig struct {
	Address string `toml:"address"`
	Family  string `toml:"family"`
	AssetA  string `toml:"asset-a"`
	AssetB  string `toml:"asset-b"`
	Rate    string `toml:"rate"`
}

func LoadScenario(path string) (*Scenario, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open scenario file")
	}
	defer file.Close()

	var scenario Scenario
	if err := toml.NewDecoder(file).Decode(&scenario); err != nil {
		return nil, errors.Wrap(err, "failed to decode scenario")
	}

	return &scenario, nil
}

// Build creates a host with the scenario's tokens, pools and balances and an instantiated router.
func (s *Scenario) Build(ctx context.Context, logger *zap.Logger) (*Host, *router.Router, error) {
	if s.Router == "" {
		return nil, nil, errors.New("scenario has no router address")
	}
	prefix := s.Bech32Prefix
	if prefix == "" {
		prefix = "cosmos"
	}
	chainID := s.ChainID
	if chainID == "" {
		chainID = "simulate-1"
	}

	host := NewHost(logger, chainID)
	for _, token := range s.Tokens {
		host.RegisterToken(token)
	}

	for _, pc := range s.Pools {
		pool, err := pc.toPool()
		if err != nil {
			return nil, nil, errors.Wrapf(err, "pool %s", pc.Address)
		}
		host.RegisterContract(pool.Address, pool)
	}

	for _, bc := range s.Balances {
		info, err := asset.ParseInfo(bc.Asset)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "balance of %s", bc.Address)
		}
		amount, ok := sdkmath.NewIntFromString(bc.Amount)
		if !ok || amount.IsNegative() {
			return nil, nil, errors.Errorf("balance of %s: invalid amount %q", bc.Address, bc.Amount)
		}
		host.Mint(info, bc.Address, amount)
	}

	r := router.NewRouter(logger, host, router.NewBech32Validator(prefix), store.NewMemStore())
	owner := s.Owner
	if owner == "" {
		owner = s.Router
	}
	env := router.Env{ChainID: chainID, ContractAddress: s.Router}
	if _, err := r.Instantiate(ctx, env, router.MessageInfo{Sender: owner}, router.InstantiateMsg{}); err != nil {
		return nil, nil, errors.Wrap(err, "failed to instantiate router")
	}
	host.RegisterContract(s.Router, &RouterContract{Address: s.Router, Router: r})

	return host, r, nil
}

func (pc PoolConfig) toPool() (*Pool, error) {
	switch pc.Family {
	case swap.FamilySparrowswap, swap.FamilyAstroport:
	default:
		return nil, errors.Errorf("unknown family %q", pc.Family)
	}

	a, err := asset.ParseInfo(pc.AssetA)
	if err != nil {
		return nil, err
	}
	b, err := asset.ParseInfo(pc.AssetB)
	if err != nil {
		return nil, err
	}
	rate, err := sdkmath.LegacyNewDecFromStr(pc.Rate)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid rate %q", pc.Rate)
	}
	if !rate.IsPositive() {
		return nil, errors.Errorf("rate must be positive, got %s", rate)
	}

	return &Pool{Address: pc.Address, Family: pc.Family, AssetA: a, AssetB: b, Rate: rate}, nil
}
