package server

import (
	"encoding/json"
	"net/http"

	sdkmath "cosmossdk.io/math"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gjermundgaraba/dexrouter/asset"
	"github.com/gjermundgaraba/dexrouter/chains/cosmos"
	"github.com/gjermundgaraba/dexrouter/router"
)

const maxBodyBytes = 1 << 20

// CompileRequest asks for the messages a route would produce when sent by Sender with Funds.
type CompileRequest struct {
	Sender string            `json:"sender"`
	Funds  sdk.Coins         `json:"funds"`
	Route  router.UnxswapMsg `json:"route"`
}

type CompileResponse struct {
	// Execute is the message the sender signs to run the route.
	Execute *wasmtypes.MsgExecuteContract `json:"execute"`
	// Messages are the calls the router emits when Execute runs.
	Messages []*wasmtypes.MsgExecuteContract `json:"messages"`
}

type BalancesResponse struct {
	Address  string        `json:"address"`
	Balances []asset.Asset `json:"balances"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req CompileRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		s.metrics.observeCompile("invalid_request", 0)
		writeError(w, http.StatusBadRequest, errors.Wrap(router.ErrInvalidMessage, err.Error()))
		return
	}

	if err := s.validate(req.Sender); err != nil {
		s.metrics.observeCompile("invalid_request", 0)
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "sender"))
		return
	}

	env := router.Env{
		ChainID:         s.config.ChainID,
		ContractAddress: s.config.RouterContract,
	}
	info := router.MessageInfo{Sender: req.Sender, Funds: req.Funds}

	msgs, err := s.router.CompileRoute(r.Context(), env, info, req.Route)
	if err != nil {
		code := statusFor(err)
		s.metrics.observeCompile(resultFor(code), 0)
		s.logger.Debug("Route compilation failed", zap.String("sender", req.Sender), zap.Error(err))
		writeError(w, code, err)
		return
	}

	execute, err := cosmos.NewRouterExecuteMsg(req.Sender, s.config.RouterContract, router.ExecuteMsg{Unxswap: &req.Route}, req.Funds)
	if err != nil {
		s.metrics.observeCompile("invalid_request", 0)
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.metrics.observeCompile("ok", len(req.Route.Operations))
	writeJSON(w, http.StatusOK, CompileResponse{Execute: execute, Messages: msgs})
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	if err := s.validate(address); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rawAssets := r.URL.Query()["asset"]
	if len(rawAssets) == 0 {
		writeError(w, http.StatusBadRequest, errors.Wrap(asset.ErrInvalidAsset, "at least one asset query parameter is required"))
		return
	}

	infos := make([]asset.Info, len(rawAssets))
	for i, raw := range rawAssets {
		info, err := asset.ParseInfo(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		infos[i] = info
	}

	amounts, err := s.chain.Balances(r.Context(), address, infos)
	if err != nil {
		s.logger.Warn("Balance query failed", zap.String("address", address), zap.Error(err))
		writeError(w, http.StatusBadGateway, err)
		return
	}

	resp := BalancesResponse{Address: address, Balances: make([]asset.Asset, len(infos))}
	for i, info := range infos {
		amount := sdkmath.ZeroInt()
		if i < len(amounts) {
			amount = amounts[i]
		}
		resp.Balances[i] = asset.Asset{Info: info, Amount: amount}
	}
	writeJSON(w, http.StatusOK, resp)
}

// statusFor maps a route error to 400 when the request itself is at fault and 502 when the chain is.
func statusFor(err error) int {
	for _, target := range []error{
		router.ErrEmptyRoute,
		router.ErrInvalidAddress,
		router.ErrAmbiguousTargetAsset,
		router.ErrInvalidAsset,
		router.ErrMissingFunds,
		router.ErrInvalidMessage,
	} {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusBadGateway
}

func resultFor(code int) string {
	if code == http.StatusBadRequest {
		return "invalid_request"
	}
	return "chain_error"
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorResponse{Error: err.Error()})
}
