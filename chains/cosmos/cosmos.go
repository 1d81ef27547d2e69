package cosmos

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	sdkmath "cosmossdk.io/math"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	"github.com/cosmos/cosmos-sdk/codec"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/gjermundgaraba/dexrouter/asset"
	"github.com/gjermundgaraba/dexrouter/router"
	"github.com/gjermundgaraba/dexrouter/utils"
)

var _ asset.Querier = &Cosmos{}

// Cosmos talks to a wasm-enabled Cosmos SDK chain over gRPC.
type Cosmos struct {
	ChainID      string
	Wallets      map[string]Wallet
	Bech32Prefix string
	GasDenom     string
	GasPrice     sdkmath.LegacyDec
	GasLimit     uint64

	grpcAddr string
	codec    *codec.ProtoCodec
	logger   *zap.Logger

	connMu sync.Mutex
	conn   *grpc.ClientConn
}

func NewCosmos(logger *zap.Logger, chainID string, bech32Prefix string, gasDenom string, grpc string) (*Cosmos, error) {
	codec := SetupCodec()
	return &Cosmos{
		ChainID:      chainID,
		Wallets:      make(map[string]Wallet),
		Bech32Prefix: bech32Prefix,
		GasDenom:     gasDenom,
		GasPrice:     sdkmath.LegacyMustNewDecFromStr("0.025"),
		GasLimit:     2_000_000,

		grpcAddr: grpc,
		codec:    codec,
		logger:   logger,
	}, nil
}

func (c *Cosmos) grpcConn() (*grpc.ClientConn, error) {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn != nil {
		return c.conn, nil
	}

	conn, err := utils.GetGRPC(c.grpcAddr, grpc.WithDefaultCallOptions(grpc.ForceCodec(c.codec.GRPCCodec())))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get grpc connection")
	}
	c.conn = conn
	return conn, nil
}

func (c *Cosmos) Close() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Cosmos) QueryTx(ctx context.Context, txHash string) (*txtypes.GetTxResponse, error) {
	grpcConn, err := c.grpcConn()
	if err != nil {
		return nil, err
	}
	txClient := txtypes.NewServiceClient(grpcConn)
	txResponse, err := txClient.GetTx(ctx, &txtypes.GetTxRequest{Hash: txHash})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query transaction %s", txHash)
	}
	return txResponse, nil
}

// NativeBalance implements asset.Querier.
func (c *Cosmos) NativeBalance(ctx context.Context, address string, denom string) (sdkmath.Int, error) {
	grpcConn, err := c.grpcConn()
	if err != nil {
		return sdkmath.Int{}, err
	}

	bankClient := banktypes.NewQueryClient(grpcConn)
	resp, err := bankClient.Balance(ctx, &banktypes.QueryBalanceRequest{
		Address: address,
		Denom:   denom,
	})
	if err != nil {
		return sdkmath.Int{}, errors.Wrapf(err, "failed to query balance for address %s and denom %s", address, denom)
	}
	if resp.Balance == nil {
		return sdkmath.ZeroInt(), nil
	}

	return resp.Balance.Amount, nil
}

type cw20BalanceQuery struct {
	Balance struct {
		Address string `json:"address"`
	} `json:"balance"`
}

type cw20BalanceResponse struct {
	Balance sdkmath.Int `json:"balance"`
}

// TokenBalance implements asset.Querier with a cw20 balance query.
func (c *Cosmos) TokenBalance(ctx context.Context, contract string, address string) (sdkmath.Int, error) {
	var query cw20BalanceQuery
	query.Balance.Address = address

	var resp cw20BalanceResponse
	if err := c.QuerySmart(ctx, contract, query, &resp); err != nil {
		return sdkmath.Int{}, errors.Wrapf(err, "failed to query token %s balance for address %s", contract, address)
	}
	if resp.Balance.IsNil() {
		return sdkmath.Int{}, errors.Errorf("token %s returned no balance for %s", contract, address)
	}

	return resp.Balance, nil
}

// ContractExists implements asset.Querier.
func (c *Cosmos) ContractExists(ctx context.Context, contract string) (bool, error) {
	grpcConn, err := c.grpcConn()
	if err != nil {
		return false, err
	}

	wasmClient := wasmtypes.NewQueryClient(grpcConn)
	_, err = wasmClient.ContractInfo(ctx, &wasmtypes.QueryContractInfoRequest{Address: contract})
	if err != nil {
		if isNoSuchContract(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "failed to query contract info for %s", contract)
	}

	return true, nil
}

// QuerySmart runs a JSON smart query against a contract and decodes the JSON response into resp.
func (c *Cosmos) QuerySmart(ctx context.Context, contract string, query any, resp any) error {
	queryBz, err := json.Marshal(query)
	if err != nil {
		return errors.Wrap(err, "failed to marshal smart query")
	}

	grpcConn, err := c.grpcConn()
	if err != nil {
		return err
	}

	wasmClient := wasmtypes.NewQueryClient(grpcConn)
	res, err := wasmClient.SmartContractState(ctx, &wasmtypes.QuerySmartContractStateRequest{
		Address:   contract,
		QueryData: queryBz,
	})
	if err != nil {
		return errors.Wrapf(err, "smart query to %s failed", contract)
	}

	if err := json.Unmarshal(res.Data, resp); err != nil {
		return errors.Wrapf(err, "failed to decode smart query response from %s", contract)
	}
	return nil
}

// QueryCount returns the counter of a deployed router.
func (c *Cosmos) QueryCount(ctx context.Context, routerContract string) (int32, error) {
	var resp router.GetCountResponse
	if err := c.QuerySmart(ctx, routerContract, router.QueryMsg{GetCount: &router.GetCountQuery{}}, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// Balances looks up the holdings of address in every asset concurrently.
func (c *Cosmos) Balances(ctx context.Context, address string, infos []asset.Info) ([]sdkmath.Int, error) {
	balances := make([]sdkmath.Int, len(infos))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, info := range infos {
		i, info := i, info
		eg.Go(func() error {
			balance, err := info.QueryBalance(egCtx, c, address)
			if err != nil {
				return err
			}
			balances[i] = balance
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug("Balances retrieved", zap.String("address", address), zap.Int("assets", len(infos)))
	return balances, nil
}

func isNoSuchContract(err error) bool {
	if status.Code(err) == codes.NotFound {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such contract") || strings.Contains(msg, "not found")
}
