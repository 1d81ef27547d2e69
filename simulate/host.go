package simulate

import (
	"context"
	"sync"

	sdkmath "cosmossdk.io/math"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gjermundgaraba/dexrouter/asset"
)

const maxCallDepth = 16

var ErrUnknownContract = errors.New("unknown contract")

// Contract is anything the host can dispatch an execute message to. Returned messages run
// right after the call, before the next message of the enclosing batch.
type Contract interface {
	Execute(ctx context.Context, h *Host, msg *wasmtypes.MsgExecuteContract) ([]*wasmtypes.MsgExecuteContract, error)
}

var _ asset.Querier = &Host{}

// Host is an in-memory chain. Each Execute call runs as one atomic batch: messages run strictly
// in order, each sees the effects of the ones before it, and any failure rolls every balance
// back to where the batch started.
type Host struct {
	ChainID string

	logger *zap.Logger
	ledger *ledger

	execMu sync.Mutex
	height int64

	mu        sync.RWMutex
	contracts map[string]Contract
	tokens    map[string]bool
}

func NewHost(logger *zap.Logger, chainID string) *Host {
	return &Host{
		ChainID:   chainID,
		logger:    logger,
		ledger:    newLedger(),
		contracts: make(map[string]Contract),
		tokens:    make(map[string]bool),
	}
}

func (h *Host) RegisterContract(address string, contract Contract) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.contracts[address] = contract
}

// RegisterToken makes address a token contract whose balances live in the host ledger.
func (h *Host) RegisterToken(address string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.tokens[address] = true
}

func (h *Host) Mint(info asset.Info, address string, amount sdkmath.Int) {
	h.ledger.mint(info, address, amount)
}

func (h *Host) Balance(info asset.Info, address string) sdkmath.Int {
	return h.ledger.balance(info, address)
}

func (h *Host) Transfer(info asset.Info, from string, to string, amount sdkmath.Int) error {
	if info.IsToken() && !h.isToken(info.Token.ContractAddr) {
		return errors.Wrapf(ErrUnknownContract, "token %s", info.Token.ContractAddr)
	}
	return h.ledger.transfer(info, from, to, amount)
}

// Height is the number of batches executed so far.
func (h *Host) Height() int64 {
	h.execMu.Lock()
	defer h.execMu.Unlock()

	return h.height
}

// NativeBalance implements asset.Querier.
func (h *Host) NativeBalance(_ context.Context, address string, denom string) (sdkmath.Int, error) {
	return h.ledger.balance(asset.NewNative(denom), address), nil
}

// TokenBalance implements asset.Querier.
func (h *Host) TokenBalance(_ context.Context, contract string, address string) (sdkmath.Int, error) {
	if !h.isToken(contract) {
		return sdkmath.Int{}, errors.Wrapf(ErrUnknownContract, "token %s", contract)
	}
	return h.ledger.balance(asset.NewToken(contract), address), nil
}

// ContractExists implements asset.Querier.
func (h *Host) ContractExists(_ context.Context, contract string) (bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.contracts[contract]
	return ok || h.tokens[contract], nil
}

// Execute runs msgs as one atomic batch.
func (h *Host) Execute(ctx context.Context, msgs ...*wasmtypes.MsgExecuteContract) error {
	h.execMu.Lock()
	defer h.execMu.Unlock()

	snap := h.ledger.snapshot()
	if err := h.run(ctx, msgs, 0); err != nil {
		h.ledger.restore(snap)
		h.logger.Debug("Batch rolled back", zap.Error(err))
		return err
	}

	h.height++
	return nil
}

func (h *Host) run(ctx context.Context, msgs []*wasmtypes.MsgExecuteContract, depth int) error {
	if depth > maxCallDepth {
		return errors.Errorf("call depth exceeds %d", maxCallDepth)
	}

	for i, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return err
		}

		contract, err := h.contract(msg.Contract)
		if err != nil {
			return errors.Wrapf(err, "message %d", i)
		}

		for _, coin := range msg.Funds {
			if err := h.ledger.transfer(asset.NewNative(coin.Denom), msg.Sender, msg.Contract, coin.Amount); err != nil {
				return errors.Wrapf(err, "message %d funds", i)
			}
		}

		h.logger.Debug("Executing contract",
			zap.Int("depth", depth),
			zap.String("contract", msg.Contract),
			zap.String("sender", msg.Sender),
			zap.String("funds", msg.Funds.String()),
		)

		sub, err := contract.Execute(ctx, h, msg)
		if err != nil {
			return errors.Wrapf(err, "message %d to %s", i, msg.Contract)
		}
		for _, s := range sub {
			if s.Sender != msg.Contract {
				return errors.Errorf("contract %s emitted a message as %s", msg.Contract, s.Sender)
			}
		}
		if err := h.run(ctx, sub, depth+1); err != nil {
			return err
		}
	}

	return nil
}

func (h *Host) contract(address string) (Contract, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	contract, ok := h.contracts[address]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownContract, "%s", address)
	}
	return contract, nil
}

func (h *Host) isToken(address string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.tokens[address]
}
