package chain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/goodnatureofminers/onclick-backend/internal/metrics"
	"github.com/goodnatureofminers/onclick-backend/internal/model"
)

// RPCDialer opens observed JSON-RPC connections.
type RPCDialer struct{}

// NewRPCDialer constructs an RPCDialer.
func NewRPCDialer() *RPCDialer {
	return &RPCDialer{}
}

// Dial connects to url and labels its metrics with network and source.
func (d *RPCDialer) Dial(ctx context.Context, network model.NetworkID, source Source, url string) (Connection, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return NewObservedConnection(client, metrics.NewChainRPC(network, string(source))), nil
}
