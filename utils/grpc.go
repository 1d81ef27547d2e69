package utils

import (
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// GetGRPC creates a client for addr. Addresses on port 443 use TLS.
func GetGRPC(addr string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	creds := insecure.NewCredentials()
	if strings.HasSuffix(addr, ":443") {
		creds = credentials.NewTLS(nil)
	}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		retryConfig(),
	}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create grpc client for %s", addr)
	}

	return conn, nil
}

// retryConfig retries transport faults only. Application errors such as a missing account
// are returned to the caller as is.
func retryConfig() grpc.DialOption {
	policy := `{
            "methodConfig": [{
                "name": [{}],
                "retryPolicy": {
                    "MaxAttempts": 4,
                    "InitialBackoff": ".01s",
                    "MaxBackoff": ".01s",
                    "BackoffMultiplier": 1.0,
                    "RetryableStatusCodes": [
						"UNAVAILABLE",
						"RESOURCE_EXHAUSTED",
						"ABORTED"
				    ]
                }
            }]
        }`

	return grpc.WithDefaultServiceConfig(policy)
}
