package router

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/pkg/errors"

	"github.com/gjermundgaraba/dexrouter/asset"
)

// NewBech32Validator accepts bech32 account or contract addresses carrying the given prefix.
func NewBech32Validator(prefix string) asset.AddressValidator {
	return func(address string) error {
		hrp, bz, err := bech32.DecodeAndConvert(address)
		if err != nil {
			return errors.Wrapf(ErrInvalidAddress, "%q: %s", address, err)
		}
		if hrp != prefix {
			return errors.Wrapf(ErrInvalidAddress, "%q: expected prefix %s, got %s", address, prefix, hrp)
		}
		if err := sdk.VerifyAddressFormat(bz); err != nil {
			return errors.Wrapf(ErrInvalidAddress, "%q: %s", address, err)
		}
		return nil
	}
}
