package router

import (
	sdkmath "cosmossdk.io/math"
	"github.com/pkg/errors"

	"github.com/gjermundgaraba/dexrouter/asset"
	"github.com/gjermundgaraba/dexrouter/swap"
)

type InstantiateMsg struct {
	Count int32 `json:"count"`
}

// ExecuteMsg is the tagged union of execute entry points. Exactly one arm is set.
type ExecuteMsg struct {
	Increment            *IncrementMsg            `json:"increment,omitempty"`
	Reset                *ResetMsg                `json:"reset,omitempty"`
	SparrowSwap          *SparrowSwapMsg          `json:"sparrow_swap,omitempty"`
	AstroportSwap        *AstroportSwapMsg        `json:"astroport_swap,omitempty"`
	Unxswap              *UnxswapMsg              `json:"unxswap,omitempty"`
	AssertMinimumReceive *AssertMinimumReceiveMsg `json:"assert_minimum_receive,omitempty"`
}

type IncrementMsg struct{}

type ResetMsg struct {
	Count int32 `json:"count"`
}

// SparrowSwapMsg is a single swap through a sparrowswap pair using the attached funds.
type SparrowSwapMsg struct {
	PoolAddress string             `json:"pool_address"`
	OfferAsset  asset.Asset        `json:"offer_asset"`
	BeliefPrice *sdkmath.LegacyDec `json:"belief_price,omitempty"`
	MaxSpread   *sdkmath.LegacyDec `json:"max_spread,omitempty"`
	To          *string            `json:"to,omitempty"`
}

// AstroportSwapMsg is a single swap through an astroport pair using the attached funds.
type AstroportSwapMsg struct {
	PoolAddress  string             `json:"pool_address"`
	OfferAsset   asset.Asset        `json:"offer_asset"`
	AskAssetInfo *asset.Info        `json:"ask_asset_info,omitempty"`
	BeliefPrice  *sdkmath.LegacyDec `json:"belief_price,omitempty"`
	MaxSpread    *sdkmath.LegacyDec `json:"max_spread,omitempty"`
	To           *string            `json:"to,omitempty"`
}

// UnxswapMsg is a multi-hop route request.
type UnxswapMsg struct {
	Operations      []swap.Operation `json:"operations"`
	MinimumReceive  *sdkmath.Int     `json:"minimum_receive,omitempty"`
	To              *string          `json:"to,omitempty"`
	TargetAssetInfo *asset.Info      `json:"target_asset_info,omitempty"`
}

// AssertMinimumReceiveMsg is the guard call a route appends to itself.
type AssertMinimumReceiveMsg struct {
	AssetInfo      asset.Info  `json:"asset_info"`
	PrevBalance    sdkmath.Int `json:"prev_balance"`
	MinimumReceive sdkmath.Int `json:"minimum_receive"`
	Receiver       string      `json:"receiver"`
}

type QueryMsg struct {
	GetCount     *GetCountQuery     `json:"get_count,omitempty"`
	ContractInfo *ContractInfoQuery `json:"contract_info,omitempty"`
}

type GetCountQuery struct{}

type ContractInfoQuery struct{}

type GetCountResponse struct {
	Count int32 `json:"count"`
}

type ContractInfoResponse struct {
	Contract string `json:"contract"`
	Version  string `json:"version"`
}

// Validate checks that exactly one arm of the union is set.
func (m ExecuteMsg) Validate() error {
	set := 0
	for _, arm := range []bool{
		m.Increment != nil,
		m.Reset != nil,
		m.SparrowSwap != nil,
		m.AstroportSwap != nil,
		m.Unxswap != nil,
		m.AssertMinimumReceive != nil,
	} {
		if arm {
			set++
		}
	}
	if set != 1 {
		return errors.Wrapf(ErrInvalidMessage, "expected exactly one execute variant, got %d", set)
	}
	return nil
}

func (m QueryMsg) Validate() error {
	if (m.GetCount == nil) == (m.ContractInfo == nil) {
		return errors.Wrap(ErrInvalidMessage, "expected exactly one query variant")
	}
	return nil
}
