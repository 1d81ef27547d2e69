package router

import (
	"context"
	"encoding/json"
	"math"
	"strconv"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gjermundgaraba/dexrouter/asset"
	"github.com/gjermundgaraba/dexrouter/store"
)

const (
	ContractName    = "crates.io:wasm-dexrouter"
	ContractVersion = "0.1.0"
)

// Env describes the chain and the router instance an entry point runs in.
type Env struct {
	ChainID         string
	BlockHeight     int64
	ContractAddress string
}

// MessageInfo is the immediate caller of an entry point and the funds it attached.
type MessageInfo struct {
	Sender string
	Funds  sdk.Coins
}

// Response is what an entry point hands back to the host. Messages run in order after the
// entry point returns, all or nothing.
type Response struct {
	Messages   []*wasmtypes.MsgExecuteContract
	Attributes []sdk.Attribute
}

func (r *Response) addAttribute(key string, value string) *Response {
	r.Attributes = append(r.Attributes, sdk.NewAttribute(key, value))
	return r
}

type Router struct {
	logger   *zap.Logger
	querier  asset.Querier
	validate asset.AddressValidator
	store    *store.KVStore
}

func NewRouter(logger *zap.Logger, querier asset.Querier, validate asset.AddressValidator, st *store.KVStore) *Router {
	return &Router{
		logger:   logger,
		querier:  querier,
		validate: validate,
		store:    st,
	}
}

func (r *Router) Instantiate(_ context.Context, _ Env, info MessageInfo, msg InstantiateMsg) (*Response, error) {
	if err := r.store.SaveContractVersion(store.ContractVersion{Contract: ContractName, Version: ContractVersion}); err != nil {
		return nil, err
	}
	if err := r.store.SaveState(store.State{Count: msg.Count, Owner: info.Sender}); err != nil {
		return nil, err
	}

	r.logger.Info("Router instantiated", zap.String("owner", info.Sender), zap.Int32("count", msg.Count))

	resp := &Response{}
	return resp.
		addAttribute("method", "instantiate").
		addAttribute("owner", info.Sender).
		addAttribute("count", strconv.FormatInt(int64(msg.Count), 10)), nil
}

func (r *Router) Execute(ctx context.Context, env Env, info MessageInfo, msg ExecuteMsg) (*Response, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	switch {
	case msg.Increment != nil:
		return r.increment()
	case msg.Reset != nil:
		return r.reset(info, msg.Reset.Count)
	case msg.SparrowSwap != nil:
		return r.sparrowSwap(info, env, *msg.SparrowSwap)
	case msg.AstroportSwap != nil:
		return r.astroportSwap(info, env, *msg.AstroportSwap)
	case msg.Unxswap != nil:
		msgs, err := r.CompileRoute(ctx, env, info, *msg.Unxswap)
		if err != nil {
			return nil, err
		}
		resp := &Response{Messages: msgs}
		return resp.
			addAttribute("action", "unxswap").
			addAttribute("hops", strconv.Itoa(len(msg.Unxswap.Operations))), nil
	default:
		return r.AssertMinimumReceive(ctx, env, info, *msg.AssertMinimumReceive)
	}
}

// ExecuteJSON decodes a raw execute message and dispatches it.
func (r *Router) ExecuteJSON(ctx context.Context, env Env, info MessageInfo, raw []byte) (*Response, error) {
	var msg ExecuteMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, errors.Wrapf(ErrInvalidMessage, "failed to decode execute message: %s", err)
	}
	return r.Execute(ctx, env, info, msg)
}

func (r *Router) Query(_ context.Context, _ Env, msg QueryMsg) ([]byte, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	var resp any
	switch {
	case msg.GetCount != nil:
		state, err := r.store.LoadState()
		if err != nil {
			return nil, err
		}
		resp = GetCountResponse{Count: state.Count}
	default:
		version, err := r.store.LoadContractVersion()
		if err != nil {
			return nil, err
		}
		resp = ContractInfoResponse{Contract: version.Contract, Version: version.Version}
	}

	bz, err := json.Marshal(resp)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal query response")
	}
	return bz, nil
}

func (r *Router) increment() (*Response, error) {
	_, err := r.store.UpdateState(func(state store.State) (store.State, error) {
		if state.Count == math.MaxInt32 {
			return state, ErrOverflow
		}
		state.Count++
		return state, nil
	})
	if err != nil {
		return nil, err
	}

	resp := &Response{}
	return resp.addAttribute("action", "increment"), nil
}

func (r *Router) reset(info MessageInfo, count int32) (*Response, error) {
	_, err := r.store.UpdateState(func(state store.State) (store.State, error) {
		if info.Sender != state.Owner {
			return state, errors.Wrapf(ErrUnauthorized, "%s is not the owner", info.Sender)
		}
		state.Count = count
		return state, nil
	})
	if err != nil {
		return nil, err
	}

	resp := &Response{}
	return resp.addAttribute("action", "reset"), nil
}
