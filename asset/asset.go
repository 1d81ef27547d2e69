package asset

import (
	"context"
	"fmt"
	"strings"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
)

// ErrInvalidAsset is returned when an asset descriptor is malformed or does not resolve on chain.
var ErrInvalidAsset = errors.New("invalid asset")

// Querier is the balance capability the router needs from the host chain.
type Querier interface {
	NativeBalance(ctx context.Context, address string, denom string) (sdkmath.Int, error)
	TokenBalance(ctx context.Context, contract string, address string) (sdkmath.Int, error)
	ContractExists(ctx context.Context, contract string) (bool, error)
}

// AddressValidator checks that an address is well formed for the host chain.
type AddressValidator func(address string) error

type NativeToken struct {
	Denom string `json:"denom"`
}

type Token struct {
	ContractAddr string `json:"contract_addr"`
}

// Info identifies a fungible asset. Exactly one of Native or Token is set.
type Info struct {
	Native *NativeToken `json:"native_token,omitempty"`
	Token  *Token       `json:"token,omitempty"`
}

// Asset is an amount of a given asset.
type Asset struct {
	Info   Info        `json:"info"`
	Amount sdkmath.Int `json:"amount"`
}

func NewNative(denom string) Info {
	return Info{Native: &NativeToken{Denom: denom}}
}

func NewToken(contractAddr string) Info {
	return Info{Token: &Token{ContractAddr: contractAddr}}
}

func (i Info) IsNative() bool {
	return i.Native != nil && i.Token == nil
}

func (i Info) IsToken() bool {
	return i.Token != nil && i.Native == nil
}

// Equal compares two descriptors structurally.
func (i Info) Equal(other Info) bool {
	switch {
	case i.IsNative() && other.IsNative():
		return i.Native.Denom == other.Native.Denom
	case i.IsToken() && other.IsToken():
		return i.Token.ContractAddr == other.Token.ContractAddr
	default:
		return false
	}
}

func (i Info) String() string {
	switch {
	case i.IsNative():
		return "native:" + i.Native.Denom
	case i.IsToken():
		return "token:" + i.Token.ContractAddr
	default:
		return "invalid"
	}
}

// ParseInfo parses the "native:<denom>" or "token:<contract>" form produced by String.
func ParseInfo(s string) (Info, error) {
	kind, value, ok := strings.Cut(s, ":")
	if !ok || value == "" {
		return Info{}, errors.Wrapf(ErrInvalidAsset, "expected native:<denom> or token:<contract>, got %q", s)
	}

	switch kind {
	case "native":
		return NewNative(value), nil
	case "token":
		return NewToken(value), nil
	default:
		return Info{}, errors.Wrapf(ErrInvalidAsset, "unknown asset kind %q", kind)
	}
}

// Validate checks the shape of the descriptor without touching the chain.
func (i Info) Validate() error {
	switch {
	case i.IsNative():
		if err := sdk.ValidateDenom(i.Native.Denom); err != nil {
			return errors.Wrapf(ErrInvalidAsset, "denom %q: %s", i.Native.Denom, err)
		}
		return nil
	case i.IsToken():
		if i.Token.ContractAddr == "" {
			return errors.Wrap(ErrInvalidAsset, "empty token contract address")
		}
		return nil
	default:
		return errors.Wrap(ErrInvalidAsset, "exactly one of native_token or token must be set")
	}
}

// Check validates the descriptor and, for tokens, that the contract exists on chain.
func (i Info) Check(ctx context.Context, q Querier, validate AddressValidator) error {
	if err := i.Validate(); err != nil {
		return err
	}
	if i.IsNative() {
		return nil
	}

	if err := validate(i.Token.ContractAddr); err != nil {
		return errors.Wrapf(ErrInvalidAsset, "token contract %s: %s", i.Token.ContractAddr, err)
	}
	exists, err := q.ContractExists(ctx, i.Token.ContractAddr)
	if err != nil {
		return errors.Wrapf(err, "failed to look up token contract %s", i.Token.ContractAddr)
	}
	if !exists {
		return errors.Wrapf(ErrInvalidAsset, "token contract %s does not exist", i.Token.ContractAddr)
	}

	return nil
}

// QueryBalance returns the holdings of account in this asset.
func (i Info) QueryBalance(ctx context.Context, q Querier, account string) (sdkmath.Int, error) {
	switch {
	case i.IsNative():
		balance, err := q.NativeBalance(ctx, account, i.Native.Denom)
		if err != nil {
			return sdkmath.Int{}, errors.Wrapf(err, "failed to query %s balance of %s", i.Native.Denom, account)
		}
		return balance, nil
	case i.IsToken():
		balance, err := q.TokenBalance(ctx, i.Token.ContractAddr, account)
		if err != nil {
			return sdkmath.Int{}, errors.Wrapf(err, "failed to query token %s balance of %s", i.Token.ContractAddr, account)
		}
		return balance, nil
	default:
		return sdkmath.Int{}, errors.Wrap(ErrInvalidAsset, "cannot query balance of an empty asset")
	}
}

func (a Asset) String() string {
	return fmt.Sprintf("%s %s", a.Amount, a.Info)
}
