package swap

import (
	"encoding/json"

	sdkmath "cosmossdk.io/math"
	"github.com/pkg/errors"

	"github.com/gjermundgaraba/dexrouter/asset"
)

const (
	FamilySparrowswap = "sparrowswap"
	FamilyAstroport   = "astroport"
)

var ErrInvalidOperation = errors.New("invalid swap operation")

// Step is one hop of a route, bound to a single exchange family.
type Step interface {
	Family() string
	Pool() string
	OfferInfo() asset.Info
	// AskInfo is the declared output asset of the hop, or nil if the family does not declare one.
	AskInfo() *asset.Info
	// BuildSwapMsg encodes the pair contract swap message. A nil to leaves the output with the caller of the pair.
	BuildSwapMsg(offerAmount sdkmath.Int, to *string) ([]byte, error)
}

// Operation is the tagged union of supported swap steps. Exactly one arm is set.
type Operation struct {
	SparrowSwap   *SparrowSwap   `json:"sparrow_swap,omitempty"`
	AstroportSwap *AstroportSwap `json:"astroport_swap,omitempty"`
}

// Step returns the adapter for whichever arm of the union is set.
func (o Operation) Step() (Step, error) {
	switch {
	case o.SparrowSwap != nil && o.AstroportSwap == nil:
		return o.SparrowSwap, nil
	case o.AstroportSwap != nil && o.SparrowSwap == nil:
		return o.AstroportSwap, nil
	default:
		return nil, errors.Wrap(ErrInvalidOperation, "exactly one of sparrow_swap or astroport_swap must be set")
	}
}

// PairExecuteMsg is the execute message understood by both families' pair contracts.
type PairExecuteMsg struct {
	Swap *PairSwap `json:"swap,omitempty"`
}

type PairSwap struct {
	OfferAsset   asset.Asset        `json:"offer_asset"`
	AskAssetInfo *asset.Info        `json:"ask_asset_info,omitempty"`
	BeliefPrice  *sdkmath.LegacyDec `json:"belief_price,omitempty"`
	MaxSpread    *sdkmath.LegacyDec `json:"max_spread,omitempty"`
	To           *string            `json:"to,omitempty"`
}

var _ Step = &SparrowSwap{}

// SparrowSwap is a hop through a sparrowswap pair. The family does not declare its output asset.
type SparrowSwap struct {
	PoolAddress    string             `json:"pool_address"`
	OfferAssetInfo asset.Info         `json:"offer_asset_info"`
	BeliefPrice    *sdkmath.LegacyDec `json:"belief_price,omitempty"`
	MaxSpread      *sdkmath.LegacyDec `json:"max_spread,omitempty"`
}

func (s *SparrowSwap) Family() string        { return FamilySparrowswap }
func (s *SparrowSwap) Pool() string          { return s.PoolAddress }
func (s *SparrowSwap) OfferInfo() asset.Info { return s.OfferAssetInfo }
func (s *SparrowSwap) AskInfo() *asset.Info  { return nil }

func (s *SparrowSwap) BuildSwapMsg(offerAmount sdkmath.Int, to *string) ([]byte, error) {
	return marshalSwap(PairSwap{
		OfferAsset:  asset.Asset{Info: s.OfferAssetInfo, Amount: offerAmount},
		BeliefPrice: s.BeliefPrice,
		MaxSpread:   s.MaxSpread,
		To:          to,
	})
}

var _ Step = &AstroportSwap{}

// AstroportSwap is a hop through an astroport pair.
type AstroportSwap struct {
	PoolAddress    string             `json:"pool_address"`
	OfferAssetInfo asset.Info         `json:"offer_asset_info"`
	AskAssetInfo   *asset.Info        `json:"ask_asset_info,omitempty"`
	BeliefPrice    *sdkmath.LegacyDec `json:"belief_price,omitempty"`
	MaxSpread      *sdkmath.LegacyDec `json:"max_spread,omitempty"`
}

func (s *AstroportSwap) Family() string        { return FamilyAstroport }
func (s *AstroportSwap) Pool() string          { return s.PoolAddress }
func (s *AstroportSwap) OfferInfo() asset.Info { return s.OfferAssetInfo }
func (s *AstroportSwap) AskInfo() *asset.Info  { return s.AskAssetInfo }

func (s *AstroportSwap) BuildSwapMsg(offerAmount sdkmath.Int, to *string) ([]byte, error) {
	return marshalSwap(PairSwap{
		OfferAsset:   asset.Asset{Info: s.OfferAssetInfo, Amount: offerAmount},
		AskAssetInfo: s.AskAssetInfo,
		BeliefPrice:  s.BeliefPrice,
		MaxSpread:    s.MaxSpread,
		To:           to,
	})
}

func marshalSwap(msg PairSwap) ([]byte, error) {
	bz, err := json.Marshal(PairExecuteMsg{Swap: &msg})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal pair swap message")
	}
	return bz, nil
}
