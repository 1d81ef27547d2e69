package simulate

import (
	"context"
	"encoding/json"

	sdkmath "cosmossdk.io/math"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	"github.com/pkg/errors"

	"github.com/gjermundgaraba/dexrouter/asset"
	"github.com/gjermundgaraba/dexrouter/swap"
)

var ErrMaxSpread = errors.New("operation exceeds max spread limit")

var _ Contract = &Pool{}

// Pool is a constant-rate pair that pays out of its own ledger balance.
// Rate is the amount of AssetB paid per unit of AssetA; the reverse direction uses 1/Rate.
type Pool struct {
	Address string
	Family  string
	AssetA  asset.Info
	AssetB  asset.Info
	Rate    sdkmath.LegacyDec
}

// Execute handles a pair swap. A zero offer amount swaps the sender's whole balance of the
// offer asset, which is how a router chains hops without knowing intermediate amounts.
func (p *Pool) Execute(_ context.Context, h *Host, msg *wasmtypes.MsgExecuteContract) ([]*wasmtypes.MsgExecuteContract, error) {
	var exec swap.PairExecuteMsg
	if err := json.Unmarshal(msg.Msg, &exec); err != nil {
		return nil, errors.Wrap(err, "failed to decode pair message")
	}
	if exec.Swap == nil {
		return nil, errors.New("unsupported pair message")
	}
	s := exec.Swap

	offer := s.OfferAsset.Info
	var (
		ask  asset.Info
		rate sdkmath.LegacyDec
	)
	switch {
	case offer.Equal(p.AssetA):
		ask, rate = p.AssetB, p.Rate
	case offer.Equal(p.AssetB):
		ask, rate = p.AssetA, sdkmath.LegacyOneDec().Quo(p.Rate)
	default:
		return nil, errors.Errorf("pool %s does not trade %s", p.Address, offer)
	}
	if s.AskAssetInfo != nil && !s.AskAssetInfo.Equal(ask) {
		return nil, errors.Errorf("pool %s pays %s, not %s", p.Address, ask, s.AskAssetInfo)
	}

	amount, err := p.collectOffer(h, msg, offer, s.OfferAsset.Amount)
	if err != nil {
		return nil, err
	}

	out := rate.MulInt(amount).TruncateInt()
	if s.BeliefPrice != nil && s.MaxSpread != nil && s.BeliefPrice.IsPositive() {
		expected := sdkmath.LegacyNewDecFromInt(amount).Quo(*s.BeliefPrice)
		floor := expected.Mul(sdkmath.LegacyOneDec().Sub(*s.MaxSpread)).TruncateInt()
		if out.LT(floor) {
			return nil, errors.Wrapf(ErrMaxSpread, "return %s below %s", out, floor)
		}
	}

	receiver := msg.Sender
	if s.To != nil {
		receiver = *s.To
	}
	if err := h.Transfer(ask, p.Address, receiver, out); err != nil {
		return nil, errors.Wrapf(err, "pool %s cannot pay out", p.Address)
	}

	return nil, nil
}

func (p *Pool) collectOffer(h *Host, msg *wasmtypes.MsgExecuteContract, offer asset.Info, amount sdkmath.Int) (sdkmath.Int, error) {
	if amount.IsNil() {
		amount = sdkmath.ZeroInt()
	}

	sent := sdkmath.ZeroInt()
	if offer.IsNative() {
		sent = msg.Funds.AmountOfNoDenomValidation(offer.Native.Denom)
	}

	switch {
	case amount.IsZero():
		rest := h.Balance(offer, msg.Sender)
		if err := h.Transfer(offer, msg.Sender, p.Address, rest); err != nil {
			return sdkmath.Int{}, err
		}
		amount = sent.Add(rest)
	case offer.IsNative():
		if !sent.Equal(amount) {
			return sdkmath.Int{}, errors.Errorf("offer amount %s does not match the %s %s sent", amount, sent, offer)
		}
	default:
		if err := h.Transfer(offer, msg.Sender, p.Address, amount); err != nil {
			return sdkmath.Int{}, err
		}
	}

	if !amount.IsPositive() {
		return sdkmath.Int{}, errors.Errorf("nothing to swap: %s holds no %s", msg.Sender, offer)
	}
	return amount, nil
}
