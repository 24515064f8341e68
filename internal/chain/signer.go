package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/goodnatureofminers/onclick-backend/pkg/hexstr"
	"go.uber.org/zap"
)

// LoadKey reads a private key from hex or from an encrypted keystore file.
// It returns nil when neither is given.
func LoadKey(hexKey, keystorePath, passphrase string) (*ecdsa.PrivateKey, error) {
	switch {
	case hexKey != "" && keystorePath != "":
		return nil, errors.New("private key and keystore are mutually exclusive")
	case hexKey != "":
		key, err := crypto.HexToECDSA(hexstr.Remove0xPrefix(hexKey))
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		return key, nil
	case keystorePath != "":
		data, err := os.ReadFile(keystorePath)
		if err != nil {
			return nil, fmt.Errorf("read keystore: %w", err)
		}
		key, err := keystore.DecryptKey(data, passphrase)
		if err != nil {
			return nil, fmt.Errorf("decrypt keystore: %w", err)
		}
		return key.PrivateKey, nil
	default:
		return nil, nil
	}
}

// Signers derives a Signer for a connection: the configured key when there
// is one, otherwise the connection's first unlocked account.
type Signers struct {
	logger *zap.Logger
	key    *ecdsa.PrivateKey
}

// NewSigners constructs a Signers. key may be nil.
func NewSigners(logger *zap.Logger, key *ecdsa.PrivateKey) *Signers {
	return &Signers{logger: logger.Named("signers"), key: key}
}

// Signer returns nil without error when no account can sign on conn.
func (s *Signers) Signer(ctx context.Context, conn Connection, chainID *big.Int) (Signer, error) {
	if s.key != nil {
		return NewKeyedSigner(s.key, chainID), nil
	}

	var accounts []common.Address
	if err := conn.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		s.logger.Debug("eth_accounts unavailable, connection is read-only", zap.Error(err))
		return nil, nil
	}
	if len(accounts) == 0 {
		return nil, nil
	}
	return NewRPCSigner(conn, accounts[0], chainID), nil
}

// KeyedSigner signs locally with a private key.
type KeyedSigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int
}

// NewKeyedSigner constructs a KeyedSigner for chainID.
func NewKeyedSigner(key *ecdsa.PrivateKey, chainID *big.Int) *KeyedSigner {
	return &KeyedSigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chainID: new(big.Int).Set(chainID),
	}
}

func (s *KeyedSigner) Address() common.Address {
	return s.address
}

func (s *KeyedSigner) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.key, s.chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	return opts, nil
}

// RPCSigner delegates signing to the node through eth_signTransaction.
type RPCSigner struct {
	conn    Connection
	address common.Address
	chainID *big.Int
}

// NewRPCSigner constructs an RPCSigner for an account unlocked on conn.
func NewRPCSigner(conn Connection, address common.Address, chainID *big.Int) *RPCSigner {
	return &RPCSigner{conn: conn, address: address, chainID: new(big.Int).Set(chainID)}
}

func (s *RPCSigner) Address() common.Address {
	return s.address
}

func (s *RPCSigner) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	return &bind.TransactOpts{
		From:    s.address,
		Context: ctx,
		Signer: func(from common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if from != s.address {
				return nil, bind.ErrNotAuthorized
			}
			return s.sign(ctx, tx)
		},
	}, nil
}

type signTransactionResult struct {
	Raw hexutil.Bytes `json:"raw"`
}

func (s *RPCSigner) sign(ctx context.Context, tx *types.Transaction) (*types.Transaction, error) {
	var res signTransactionResult
	if err := s.conn.CallContext(ctx, &res, "eth_signTransaction", s.transactionArgs(tx)); err != nil {
		return nil, fmt.Errorf("eth_signTransaction: %w", err)
	}
	signed := new(types.Transaction)
	if err := signed.UnmarshalBinary(res.Raw); err != nil {
		return nil, fmt.Errorf("decode signed transaction: %w", err)
	}
	return signed, nil
}

func (s *RPCSigner) transactionArgs(tx *types.Transaction) map[string]interface{} {
	args := map[string]interface{}{
		"from":    s.address,
		"gas":     hexutil.Uint64(tx.Gas()),
		"value":   (*hexutil.Big)(tx.Value()),
		"nonce":   hexutil.Uint64(tx.Nonce()),
		"data":    hexutil.Bytes(tx.Data()),
		"chainId": (*hexutil.Big)(s.chainID),
	}
	if tx.To() != nil {
		args["to"] = tx.To()
	}
	if tx.Type() == types.DynamicFeeTxType {
		args["maxFeePerGas"] = (*hexutil.Big)(tx.GasFeeCap())
		args["maxPriorityFeePerGas"] = (*hexutil.Big)(tx.GasTipCap())
	} else {
		args["gasPrice"] = (*hexutil.Big)(tx.GasPrice())
	}
	return args
}
