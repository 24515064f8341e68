package service

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goodnatureofminers/onclick-backend/internal/chain"
	"github.com/goodnatureofminers/onclick-backend/internal/clicks"
	"github.com/goodnatureofminers/onclick-backend/internal/contract/clicktoken"
	"github.com/goodnatureofminers/onclick-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Store is the persisted session state and claim ledger.
	Store interface {
		SessionToken(ctx context.Context) (string, error)
		SetSessionToken(ctx context.Context, token string) error
		Network(ctx context.Context) (model.NetworkID, bool, error)
		SetNetwork(ctx context.Context, id model.NetworkID) error
		Claims(ctx context.Context) (map[string]model.Claim, error)
		Claim(ctx context.Context, token string) (model.Claim, bool, error)
		PutClaim(ctx context.Context, key string, claim model.Claim) error
		SaveGeneratedClaim(ctx context.Context, key string, claim model.Claim) error
		DeleteClaim(ctx context.Context, token string) (bool, error)
	}
	ClickService interface {
		GetClicks(ctx context.Context, token string) (clicks.ClicksResponse, error)
		SendClick(ctx context.Context, token string) (clicks.ClickResponse, error)
		GetClaim(ctx context.Context, token, recipient, contract string) (*model.Claim, error)
	}
	Bindings interface {
		Resolve(ctx context.Context, id model.NetworkID) (*chain.Binding, error)
		Invalidate(id model.NetworkID, reason string)
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
	Signer interface {
		Address() common.Address
		TransactOpts(ctx context.Context) (*bind.TransactOpts, error)
	}
	ReceiptReader interface {
		TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	}
	Journal interface {
		Record(ctx context.Context, redemption model.Redemption) error
	}
	RedemptionRepository interface {
		InsertRedemptions(ctx context.Context, redemptions []model.Redemption) error
	}
	Metrics interface {
		ObserveCommand(command, outcome string, started time.Time)
	}
)
