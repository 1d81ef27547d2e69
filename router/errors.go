package router

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/pkg/errors"

	"github.com/gjermundgaraba/dexrouter/asset"
	"github.com/gjermundgaraba/dexrouter/store"
)

var (
	ErrEmptyRoute           = errors.New("route has no operations")
	ErrInvalidAddress       = errors.New("invalid address")
	ErrAmbiguousTargetAsset = errors.New("cannot determine the target asset of the route")
	ErrInvalidAsset         = asset.ErrInvalidAsset
	ErrBalanceUnderflow     = errors.New("receiver balance decreased during the route")
	ErrInsufficientOutput   = errors.New("assertion failed; minimum receive amount")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrMissingFunds         = errors.New("no funds attached for the offer asset")
	ErrInvalidMessage       = errors.New("invalid message")
	ErrOverflow             = errors.New("counter overflow")
	ErrNotFound             = store.ErrNotFound
)

// InsufficientOutputError reports a route whose gain fell short of the requested minimum.
// It matches ErrInsufficientOutput under errors.Is.
type InsufficientOutputError struct {
	Required sdkmath.Int
	Actual   sdkmath.Int
}

func (e *InsufficientOutputError) Error() string {
	return fmt.Sprintf("%s: %s, swap amount: %s", ErrInsufficientOutput, e.Required, e.Actual)
}

func (e *InsufficientOutputError) Is(target error) bool {
	return target == ErrInsufficientOutput
}
