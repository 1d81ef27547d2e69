package simulate

import (
	"sync"

	sdkmath "cosmossdk.io/math"
	"github.com/pkg/errors"

	"github.com/gjermundgaraba/dexrouter/asset"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// ledger holds balances of every asset, keyed by asset then by account.
type ledger struct {
	mu       sync.RWMutex
	balances map[string]map[string]sdkmath.Int
}

func newLedger() *ledger {
	return &ledger{balances: make(map[string]map[string]sdkmath.Int)}
}

func (l *ledger) balance(info asset.Info, address string) sdkmath.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.get(info.String(), address)
}

func (l *ledger) mint(info asset.Info, address string, amount sdkmath.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := info.String()
	l.set(key, address, l.get(key, address).Add(amount))
}

func (l *ledger) transfer(info asset.Info, from string, to string, amount sdkmath.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := info.String()
	fromBalance := l.get(key, from)
	if fromBalance.LT(amount) {
		return errors.Wrapf(ErrInsufficientBalance, "%s has %s %s, needs %s", from, fromBalance, info, amount)
	}

	l.set(key, from, fromBalance.Sub(amount))
	l.set(key, to, l.get(key, to).Add(amount))
	return nil
}

func (l *ledger) snapshot() map[string]map[string]sdkmath.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := make(map[string]map[string]sdkmath.Int, len(l.balances))
	for key, accounts := range l.balances {
		copied := make(map[string]sdkmath.Int, len(accounts))
		for address, amount := range accounts {
			copied[address] = amount
		}
		snap[key] = copied
	}
	return snap
}

func (l *ledger) restore(snap map[string]map[string]sdkmath.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances = snap
}

func (l *ledger) get(key string, address string) sdkmath.Int {
	if amount, ok := l.balances[key][address]; ok {
		return amount
	}
	return sdkmath.ZeroInt()
}

func (l *ledger) set(key string, address string, amount sdkmath.Int) {
	accounts, ok := l.balances[key]
	if !ok {
		accounts = make(map[string]sdkmath.Int)
		l.balances[key] = accounts
	}
	accounts[address] = amount
}
