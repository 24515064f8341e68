// Package clicktoken binds the ClickToken claim contract.
package clicktoken

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Variant selects one of the claim overloads.
type Variant int

const (
	// ClaimBasic is claim(recipient, uid, amount, signature).
	ClaimBasic Variant = iota + 1
	// ClaimWithData additionally forwards user and operator data to the
	// token hooks.
	ClaimWithData
)

func (v Variant) String() string {
	switch v {
	case ClaimBasic:
		return claimBasicSig
	case ClaimWithData:
		return claimWithDataSig
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// ClaimSubmission is the exact parameter set of a claim transaction.
type ClaimSubmission struct {
	Variant      Variant
	Recipient    common.Address
	UID          [32]byte
	Amount       *big.Int
	Signature    []byte
	UserData     []byte
	OperatorData []byte
}

func (s ClaimSubmission) args() []interface{} {
	args := []interface{}{s.Recipient, s.UID, s.Amount, s.Signature}
	if s.Variant == ClaimWithData {
		args = append(args, nonNil(s.UserData), nonNil(s.OperatorData))
	}
	return args
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

// Token is a ClickToken contract bound to an address and a backend.
type Token struct {
	address  common.Address
	contract *bind.BoundContract
	claims   map[Variant]string
}

// New binds the contract at address and resolves the claim overloads.
func New(address common.Address, backend bind.ContractBackend) (*Token, error) {
	parsed, err := ABI()
	if err != nil {
		return nil, fmt.Errorf("parse abi: %w", err)
	}

	claims := make(map[Variant]string, 2)
	for name, m := range parsed.Methods {
		switch m.Sig {
		case claimBasicSig:
			claims[ClaimBasic] = name
		case claimWithDataSig:
			claims[ClaimWithData] = name
		}
	}
	if _, ok := claims[ClaimBasic]; !ok {
		return nil, fmt.Errorf("abi has no %s", claimBasicSig)
	}

	return &Token{
		address:  address,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
		claims:   claims,
	}, nil
}

// Address returns the bound contract address.
func (t *Token) Address() common.Address {
	return t.address
}

// HashClaim returns the claim hash as computed by the contract.
func (t *Token) HashClaim(ctx context.Context, recipient common.Address, uid [32]byte, amount *big.Int) ([32]byte, error) {
	out, err := t.call(ctx, "hashClaim", recipient, uid, amount)
	if err != nil {
		return [32]byte{}, err
	}
	return *abi.ConvertType(out[0], new([32]byte)).(*[32]byte), nil
}

// CheckClaim recovers the signer of hash with the contract's verification.
func (t *Token) CheckClaim(ctx context.Context, hash [32]byte, signature []byte) (common.Address, error) {
	out, err := t.call(ctx, "checkClaim", hash, signature)
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

// Claimed reports whether uid has already been redeemed.
func (t *Token) Claimed(ctx context.Context, uid [32]byte) (bool, error) {
	out, err := t.call(ctx, "claims", uid)
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// BalanceOf returns the token balance of holder in base units.
func (t *Token) BalanceOf(ctx context.Context, holder common.Address) (*big.Int, error) {
	out, err := t.call(ctx, "balanceOf", holder)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// Decimals returns the token's display precision.
func (t *Token) Decimals(ctx context.Context) (uint8, error) {
	out, err := t.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	return *abi.ConvertType(out[0], new(uint8)).(*uint8), nil
}

// IsSigner reports whether the contract accepts claims signed by signer.
func (t *Token) IsSigner(ctx context.Context, signer common.Address) (bool, error) {
	out, err := t.call(ctx, "isSigner", signer)
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// GrantSigner authorizes signer to sign claims up to allowance.
func (t *Token) GrantSigner(opts *bind.TransactOpts, signer common.Address, allowance *big.Int) (*types.Transaction, error) {
	tx, err := t.contract.Transact(opts, "grantSigner", signer, allowance)
	if err != nil {
		return nil, fmt.Errorf("grantSigner: %w", err)
	}
	return tx, nil
}

// ErrUnsupportedVariant is returned for a claim overload the contract lacks.
var ErrUnsupportedVariant = errors.New("unsupported claim variant")

// Submit sends the claim transaction for sub.
func (t *Token) Submit(opts *bind.TransactOpts, sub ClaimSubmission) (*types.Transaction, error) {
	method, ok := t.claims[sub.Variant]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVariant, sub.Variant)
	}
	if sub.Amount == nil {
		return nil, errors.New("claim amount is required")
	}
	// Errors are returned unwrapped so rpc.DataError survives for revert decoding.
	return t.contract.Transact(opts, method, sub.args()...)
}

func (t *Token) call(ctx context.Context, method string, params ...interface{}) ([]interface{}, error) {
	var out []interface{}
	if err := t.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, params...); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: empty result", method)
	}
	return out, nil
}
