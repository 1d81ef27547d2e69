package cosmos

import (
	"strconv"

	sdkmath "cosmossdk.io/math"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/pkg/errors"
)

// SwapEvent is a single pair swap reported by a pool contract.
type SwapEvent struct {
	Pool         string
	OfferAsset   string
	AskAsset     string
	OfferAmount  sdkmath.Int
	ReturnAmount sdkmath.Int
	Receiver     string
}

// RouteResult summarises what a router transaction did on chain.
type RouteResult struct {
	Action string
	Hops   int
	Swaps  []SwapEvent
}

// ParseRouteEvents extracts the router's own attributes and every pool swap from the events of a
// transaction that executed the router.
func ParseRouteEvents(events []abci.Event, routerContract string) (*RouteResult, error) {
	var (
		result    RouteResult
		sawRouter bool
	)

	for _, event := range events {
		if event.Type != wasmtypes.WasmModuleEventType {
			continue
		}

		attrs := make(map[string]string, len(event.Attributes))
		for _, attribute := range event.Attributes {
			attrs[attribute.Key] = attribute.Value
		}
		contract := attrs[wasmtypes.AttributeKeyContractAddr]

		switch {
		case contract == routerContract && attrs["action"] != "":
			if sawRouter {
				continue
			}
			sawRouter = true
			result.Action = attrs["action"]
			if hops, ok := attrs["hops"]; ok {
				n, err := strconv.Atoi(hops)
				if err != nil {
					return nil, errors.Wrapf(err, "failed to parse hops %q", hops)
				}
				result.Hops = n
			}
		case attrs["action"] == "swap":
			swap, err := parseSwapEvent(contract, attrs)
			if err != nil {
				return nil, err
			}
			result.Swaps = append(result.Swaps, swap)
		}
	}

	if !sawRouter {
		return nil, errors.Errorf("no events from router %s found", routerContract)
	}

	return &result, nil
}

func parseSwapEvent(pool string, attrs map[string]string) (SwapEvent, error) {
	offerAmount, ok := sdkmath.NewIntFromString(attrs["offer_amount"])
	if !ok {
		return SwapEvent{}, errors.Errorf("pool %s: invalid offer_amount %q", pool, attrs["offer_amount"])
	}
	returnAmount, ok := sdkmath.NewIntFromString(attrs["return_amount"])
	if !ok {
		return SwapEvent{}, errors.Errorf("pool %s: invalid return_amount %q", pool, attrs["return_amount"])
	}

	return SwapEvent{
		Pool:         pool,
		OfferAsset:   attrs["offer_asset"],
		AskAsset:     attrs["ask_asset"],
		OfferAmount:  offerAmount,
		ReturnAmount: returnAmount,
		Receiver:     attrs["receiver"],
	}, nil
}
