package cmd

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/gjermundgaraba/dexrouter/router"
	"github.com/gjermundgaraba/dexrouter/server"
)

// readRouteFile loads a route request in the same JSON shape the HTTP API accepts.
func readRouteFile(path string) (*server.CompileRequest, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read route file %s", path)
	}

	var req server.CompileRequest
	if err := json.Unmarshal(bz, &req); err != nil {
		return nil, errors.Wrapf(router.ErrInvalidMessage, "route file %s: %s", path, err)
	}
	if !req.Funds.IsValid() {
		return nil, errors.Errorf("route file %s: invalid funds %s", path, req.Funds)
	}

	return &req, nil
}
