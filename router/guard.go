package router

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// AssertMinimumReceive fails unless the receiver gained at least the minimum since the
// balance recorded at compile time. Only the router itself may call it.
func (r *Router) AssertMinimumReceive(ctx context.Context, env Env, info MessageInfo, msg AssertMinimumReceiveMsg) (*Response, error) {
	if info.Sender != env.ContractAddress {
		return nil, errors.Wrapf(ErrUnauthorized, "assert_minimum_receive can only be called by the router, got %s", info.Sender)
	}
	if msg.PrevBalance.IsNil() || msg.MinimumReceive.IsNil() {
		return nil, errors.Wrap(ErrInvalidMessage, "prev_balance and minimum_receive are required")
	}
	if msg.PrevBalance.IsNegative() || msg.MinimumReceive.IsNegative() {
		return nil, errors.Wrapf(ErrInvalidMessage, "prev_balance %s and minimum_receive %s must not be negative", msg.PrevBalance, msg.MinimumReceive)
	}
	if err := msg.AssetInfo.Check(ctx, r.querier, r.validate); err != nil {
		return nil, err
	}
	if err := r.validate(msg.Receiver); err != nil {
		return nil, errors.Wrap(err, "receiver")
	}

	now, err := msg.AssetInfo.QueryBalance(ctx, r.querier, msg.Receiver)
	if err != nil {
		return nil, err
	}
	if now.LT(msg.PrevBalance) {
		return nil, errors.Wrapf(ErrBalanceUnderflow, "%s of %s went from %s to %s", msg.AssetInfo, msg.Receiver, msg.PrevBalance, now)
	}

	gained := now.Sub(msg.PrevBalance)
	if gained.LT(msg.MinimumReceive) {
		r.logger.Info("Minimum receive not met",
			zap.String("receiver", msg.Receiver),
			zap.String("required", msg.MinimumReceive.String()),
			zap.String("actual", gained.String()),
		)
		return nil, &InsufficientOutputError{Required: msg.MinimumReceive, Actual: gained}
	}

	return &Response{}, nil
}
