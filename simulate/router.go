package simulate

import (
	"context"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"

	"github.com/gjermundgaraba/dexrouter/router"
)

var _ Contract = &RouterContract{}

// RouterContract deploys a router at Address. The router sees the host as its balance querier.
type RouterContract struct {
	Address string
	Router  *router.Router
}

func (c *RouterContract) Execute(ctx context.Context, h *Host, msg *wasmtypes.MsgExecuteContract) ([]*wasmtypes.MsgExecuteContract, error) {
	env := router.Env{
		ChainID:         h.ChainID,
		BlockHeight:     h.height + 1,
		ContractAddress: c.Address,
	}
	resp, err := c.Router.ExecuteJSON(ctx, env, router.MessageInfo{Sender: msg.Sender, Funds: msg.Funds}, msg.Msg)
	if err != nil {
		return nil, err
	}
	return resp.Messages, nil
}
