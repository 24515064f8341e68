package chain

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goodnatureofminers/onclick-backend/internal/contract/clicktoken"
	"github.com/goodnatureofminers/onclick-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Connection is a JSON-RPC connection to a node or wallet.
	Connection interface {
		CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
		Backend() Backend
		Close()
	}
	// Backend is the contract and receipt surface of a Connection.
	Backend interface {
		bind.ContractBackend
		TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	}
	Dialer interface {
		Dial(ctx context.Context, network model.NetworkID, source Source, url string) (Connection, error)
	}
	// Signer authorizes transactions for a single address.
	Signer interface {
		Address() common.Address
		TransactOpts(ctx context.Context) (*bind.TransactOpts, error)
	}
	SignerFactory interface {
		Signer(ctx context.Context, conn Connection, chainID *big.Int) (Signer, error)
	}
	ClickToken interface {
		Address() common.Address
		HashClaim(ctx context.Context, recipient common.Address, uid [32]byte, amount *big.Int) ([32]byte, error)
		CheckClaim(ctx context.Context, hash [32]byte, signature []byte) (common.Address, error)
		Claimed(ctx context.Context, uid [32]byte) (bool, error)
		BalanceOf(ctx context.Context, holder common.Address) (*big.Int, error)
		Decimals(ctx context.Context) (uint8, error)
		IsSigner(ctx context.Context, signer common.Address) (bool, error)
		GrantSigner(opts *bind.TransactOpts, signer common.Address, allowance *big.Int) (*types.Transaction, error)
		Submit(opts *bind.TransactOpts, sub clicktoken.ClaimSubmission) (*types.Transaction, error)
	}
	BindingResolver interface {
		Resolve(ctx context.Context, id model.NetworkID) (*Binding, error)
	}
	Invalidator interface {
		InvalidateAll(reason string)
	}
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}
	CacheMetrics interface {
		ObserveResolve(network model.NetworkID, result string, started time.Time)
		ObserveInvalidation(network model.NetworkID, reason string)
	}
)
