package cosmos

import (
	"encoding/hex"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
)

type Wallet struct {
	id           string
	address      cryptotypes.Address
	privateKey   *secp256k1.PrivKey
	bech32Prefix string
}

func (c *Cosmos) AddWallet(walletID string, privateKeyHex string) error {
	keyBytes, err := hex.DecodeString(privateKeyHex)
	if err != nil {
		return errors.Wrap(err, "invalid key string")
	}
	if len(keyBytes) != secp256k1.PrivKeySize {
		return errors.Errorf("invalid key length %d", len(keyBytes))
	}
	privKey := &secp256k1.PrivKey{Key: keyBytes}

	c.Wallets[walletID] = Wallet{
		id:           walletID,
		address:      privKey.PubKey().Address(),
		privateKey:   privKey,
		bech32Prefix: c.Bech32Prefix,
	}

	return nil
}

func (c *Cosmos) GetWallet(walletID string) (*Wallet, error) {
	wallet, ok := c.Wallets[walletID]
	if !ok {
		return nil, errors.Errorf("wallet not found: %s", walletID)
	}
	return &wallet, nil
}

// GenerateWallet creates and stores a wallet with a fresh key.
func (c *Cosmos) GenerateWallet(walletID string) (*Wallet, error) {
	privKey := secp256k1.GenPrivKey()

	wallet := Wallet{
		id:           walletID,
		address:      privKey.PubKey().Address(),
		privateKey:   privKey,
		bech32Prefix: c.Bech32Prefix,
	}
	c.Wallets[walletID] = wallet

	return &wallet, nil
}

func (w *Wallet) Address() string {
	return sdk.MustBech32ifyAddressBytes(w.bech32Prefix, w.address)
}

func (w *Wallet) ID() string {
	return w.id
}

func (w *Wallet) PrivateKeyHex() string {
	return hex.EncodeToString(w.privateKey.Key)
}
