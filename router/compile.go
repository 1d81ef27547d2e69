package router

import (
	"context"
	"encoding/json"

	sdkmath "cosmossdk.io/math"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gjermundgaraba/dexrouter/asset"
	"github.com/gjermundgaraba/dexrouter/swap"
)

// CompileRoute expands a route request into the ordered pair calls plus an optional guard call.
//
// Only the first hop carries the caller's funds. Every later hop, and a first hop offering a
// token, is emitted with a zero offer amount: the pair takes the router's live balance of the
// offer asset at execution time. This relies on the host running the calls in order.
func (r *Router) CompileRoute(ctx context.Context, env Env, info MessageInfo, msg UnxswapMsg) ([]*wasmtypes.MsgExecuteContract, error) {
	if len(msg.Operations) == 0 {
		return nil, ErrEmptyRoute
	}

	recipient, err := r.resolveRecipient(info.Sender, msg.To)
	if err != nil {
		return nil, err
	}

	steps := make([]swap.Step, len(msg.Operations))
	for i, op := range msg.Operations {
		step, err := op.Step()
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidMessage, "operation %d: %s", i+1, err)
		}
		if err := r.validate(step.Pool()); err != nil {
			return nil, errors.Wrapf(err, "operation %d pool", i+1)
		}
		if err := step.OfferInfo().Validate(); err != nil {
			return nil, errors.Wrapf(err, "operation %d offer asset", i+1)
		}
		steps[i] = step
	}

	var target asset.Info
	if msg.MinimumReceive != nil {
		if msg.MinimumReceive.IsNil() || msg.MinimumReceive.IsNegative() {
			return nil, errors.Wrapf(ErrInvalidMessage, "minimum_receive must be a non-negative amount, got %s", msg.MinimumReceive)
		}
		target, err = resolveTargetAsset(msg.TargetAssetInfo, steps[len(steps)-1])
		if err != nil {
			return nil, err
		}
	}

	msgs := make([]*wasmtypes.MsgExecuteContract, 0, len(steps)+1)
	for i, step := range steps {
		hop := i + 1

		offerAmount := sdkmath.ZeroInt()
		var funds sdk.Coins
		if hop == 1 {
			funds = info.Funds
			offerAmount, err = firstHopOffer(step.OfferInfo(), info.Funds)
			if err != nil {
				return nil, err
			}
		}

		var to *string
		if hop == len(steps) {
			to = &recipient
		}

		payload, err := step.BuildSwapMsg(offerAmount, to)
		if err != nil {
			return nil, errors.Wrapf(err, "operation %d", hop)
		}

		msgs = append(msgs, &wasmtypes.MsgExecuteContract{
			Sender:   env.ContractAddress,
			Contract: step.Pool(),
			Msg:      payload,
			Funds:    funds,
		})
	}

	if msg.MinimumReceive != nil {
		before, err := target.QueryBalance(ctx, r.querier, recipient)
		if err != nil {
			return nil, err
		}

		payload, err := json.Marshal(ExecuteMsg{AssertMinimumReceive: &AssertMinimumReceiveMsg{
			AssetInfo:      target,
			PrevBalance:    before,
			MinimumReceive: *msg.MinimumReceive,
			Receiver:       recipient,
		}})
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal minimum receive assertion")
		}

		msgs = append(msgs, &wasmtypes.MsgExecuteContract{
			Sender:   env.ContractAddress,
			Contract: env.ContractAddress,
			Msg:      payload,
		})
	}

	r.logger.Debug("Compiled route",
		zap.Int("hops", len(steps)),
		zap.String("recipient", recipient),
		zap.Bool("guarded", msg.MinimumReceive != nil),
	)

	return msgs, nil
}

func (r *Router) resolveRecipient(sender string, to *string) (string, error) {
	if to == nil {
		return sender, nil
	}
	if err := r.validate(*to); err != nil {
		return "", errors.Wrap(err, "recipient")
	}
	return *to, nil
}

// resolveTargetAsset picks the asset the guard measures: the explicit one if given, otherwise
// the ask asset the last hop declares.
func resolveTargetAsset(explicit *asset.Info, last swap.Step) (asset.Info, error) {
	declared := last.AskInfo()
	switch {
	case explicit != nil && declared != nil && !explicit.Equal(*declared):
		return asset.Info{}, errors.Wrapf(ErrAmbiguousTargetAsset, "target %s differs from last hop ask asset %s", explicit, declared)
	case explicit != nil:
		if err := explicit.Validate(); err != nil {
			return asset.Info{}, err
		}
		return *explicit, nil
	case declared != nil:
		if err := declared.Validate(); err != nil {
			return asset.Info{}, err
		}
		return *declared, nil
	default:
		return asset.Info{}, errors.Wrapf(ErrAmbiguousTargetAsset, "last hop through %s declares no ask asset and no target_asset_info was given", last.Family())
	}
}

func firstHopOffer(offer asset.Info, funds sdk.Coins) (sdkmath.Int, error) {
	if !offer.IsNative() {
		return sdkmath.ZeroInt(), nil
	}
	amount := funds.AmountOfNoDenomValidation(offer.Native.Denom)
	if !amount.IsPositive() {
		return sdkmath.Int{}, errors.Wrapf(ErrMissingFunds, "first hop offers %s", offer.Native.Denom)
	}
	return amount, nil
}

// sparrowSwap forwards a single sparrowswap swap. Without an explicit to, the output goes to the caller.
func (r *Router) sparrowSwap(info MessageInfo, env Env, msg SparrowSwapMsg) (*Response, error) {
	step := &swap.SparrowSwap{
		PoolAddress:    msg.PoolAddress,
		OfferAssetInfo: msg.OfferAsset.Info,
		BeliefPrice:    msg.BeliefPrice,
		MaxSpread:      msg.MaxSpread,
	}
	return r.passThrough(info, env, step, msg.OfferAsset.Amount, msg.To)
}

// astroportSwap forwards a single astroport swap. Without an explicit to, the output goes to the caller.
func (r *Router) astroportSwap(info MessageInfo, env Env, msg AstroportSwapMsg) (*Response, error) {
	step := &swap.AstroportSwap{
		PoolAddress:    msg.PoolAddress,
		OfferAssetInfo: msg.OfferAsset.Info,
		AskAssetInfo:   msg.AskAssetInfo,
		BeliefPrice:    msg.BeliefPrice,
		MaxSpread:      msg.MaxSpread,
	}
	return r.passThrough(info, env, step, msg.OfferAsset.Amount, msg.To)
}

// passThrough forwards a single swap with the caller's funds, sending the output to the
// caller unless another recipient is named.
func (r *Router) passThrough(info MessageInfo, env Env, step swap.Step, amount sdkmath.Int, to *string) (*Response, error) {
	if err := r.validate(step.Pool()); err != nil {
		return nil, errors.Wrap(err, "pool")
	}
	if err := step.OfferInfo().Validate(); err != nil {
		return nil, err
	}
	if amount.IsNil() {
		amount = sdkmath.ZeroInt()
	}
	recipient, err := r.resolveRecipient(info.Sender, to)
	if err != nil {
		return nil, err
	}

	payload, err := step.BuildSwapMsg(amount, &recipient)
	if err != nil {
		return nil, err
	}

	resp := &Response{Messages: []*wasmtypes.MsgExecuteContract{{
		Sender:   env.ContractAddress,
		Contract: step.Pool(),
		Msg:      payload,
		Funds:    info.Funds,
	}}}
	return resp.addAttribute("action", step.Family()+"_swap"), nil
}
