package chain

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// ObservedConnection records metrics for every call made over an RPC client.
type ObservedConnection struct {
	client     *rpc.Client
	backend    *ObservedBackend
	rpcMetrics RPCMetrics
}

// NewObservedConnection wraps client.
func NewObservedConnection(client *rpc.Client, rpcMetrics RPCMetrics) *ObservedConnection {
	return &ObservedConnection{
		client:     client,
		backend:    &ObservedBackend{client: ethclient.NewClient(client), rpcMetrics: rpcMetrics},
		rpcMetrics: rpcMetrics,
	}
}

func (c *ObservedConnection) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) (err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe(method, err, started)
	}()
	return c.client.CallContext(ctx, result, method, args...)
}

func (c *ObservedConnection) Backend() Backend {
	return c.backend
}

func (c *ObservedConnection) Close() {
	c.client.Close()
}

// ObservedBackend is an ethclient that records metrics per call.
type ObservedBackend struct {
	client     *ethclient.Client
	rpcMetrics RPCMetrics
}

func (b *ObservedBackend) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) (code []byte, err error) {
	started := time.Now()
	defer func() {
		b.rpcMetrics.Observe("eth_getCode", err, started)
	}()
	return b.client.CodeAt(ctx, contract, blockNumber)
}

func (b *ObservedBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) (out []byte, err error) {
	started := time.Now()
	defer func() {
		b.rpcMetrics.Observe("eth_call", err, started)
	}()
	return b.client.CallContract(ctx, call, blockNumber)
}

func (b *ObservedBackend) HeaderByNumber(ctx context.Context, number *big.Int) (header *types.Header, err error) {
	started := time.Now()
	defer func() {
		b.rpcMetrics.Observe("eth_getBlockByNumber", err, started)
	}()
	return b.client.HeaderByNumber(ctx, number)
}

func (b *ObservedBackend) PendingCodeAt(ctx context.Context, account common.Address) (code []byte, err error) {
	started := time.Now()
	defer func() {
		b.rpcMetrics.Observe("eth_getCode", err, started)
	}()
	return b.client.PendingCodeAt(ctx, account)
}

func (b *ObservedBackend) PendingNonceAt(ctx context.Context, account common.Address) (nonce uint64, err error) {
	started := time.Now()
	defer func() {
		b.rpcMetrics.Observe("eth_getTransactionCount", err, started)
	}()
	return b.client.PendingNonceAt(ctx, account)
}

func (b *ObservedBackend) SuggestGasPrice(ctx context.Context) (price *big.Int, err error) {
	started := time.Now()
	defer func() {
		b.rpcMetrics.Observe("eth_gasPrice", err, started)
	}()
	return b.client.SuggestGasPrice(ctx)
}

func (b *ObservedBackend) SuggestGasTipCap(ctx context.Context) (tip *big.Int, err error) {
	started := time.Now()
	defer func() {
		b.rpcMetrics.Observe("eth_maxPriorityFeePerGas", err, started)
	}()
	return b.client.SuggestGasTipCap(ctx)
}

func (b *ObservedBackend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (gas uint64, err error) {
	started := time.Now()
	defer func() {
		b.rpcMetrics.Observe("eth_estimateGas", err, started)
	}()
	return b.client.EstimateGas(ctx, call)
}

func (b *ObservedBackend) SendTransaction(ctx context.Context, tx *types.Transaction) (err error) {
	started := time.Now()
	defer func() {
		b.rpcMetrics.Observe("eth_sendRawTransaction", err, started)
	}()
	return b.client.SendTransaction(ctx, tx)
}

func (b *ObservedBackend) FilterLogs(ctx context.Context, query ethereum.FilterQuery) (logs []types.Log, err error) {
	started := time.Now()
	defer func() {
		b.rpcMetrics.Observe("eth_getLogs", err, started)
	}()
	return b.client.FilterLogs(ctx, query)
}

func (b *ObservedBackend) SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (sub ethereum.Subscription, err error) {
	started := time.Now()
	defer func() {
		b.rpcMetrics.Observe("eth_subscribe", err, started)
	}()
	return b.client.SubscribeFilterLogs(ctx, query, ch)
}

func (b *ObservedBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (receipt *types.Receipt, err error) {
	started := time.Now()
	defer func() {
		if errors.Is(err, ethereum.NotFound) {
			// a pending transaction is not a failed call
			b.rpcMetrics.Observe("eth_getTransactionReceipt", nil, started)
			return
		}
		b.rpcMetrics.Observe("eth_getTransactionReceipt", err, started)
	}()
	return b.client.TransactionReceipt(ctx, txHash)
}
