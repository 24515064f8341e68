package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/goodnatureofminers/onclick-backend/internal/contract/clicktoken"
	"github.com/goodnatureofminers/onclick-backend/internal/model"
	"go.uber.org/zap"
)

const (
	defaultProbeTimeout = 2 * time.Second
	// Dev chains above this id may report a different eth_chainId and net_version.
	netVersionThreshold = 1000
)

// ResolverConfig selects the connection candidates tried by a Resolver.
type ResolverConfig struct {
	// WalletURL is an account-holding RPC endpoint. When set it always wins.
	WalletURL string
	// LocalURL is probed with eth_blockNumber before falling back to the
	// network's public RPC.
	LocalURL     string
	ProbeTimeout time.Duration
}

// Resolver connects to a network and validates the connection.
type Resolver struct {
	logger       *zap.Logger
	networks     *model.NetworkDescriptor
	dialer       Dialer
	signers      SignerFactory
	bindContract func(common.Address, bind.ContractBackend) (ClickToken, error)
	cfg          ResolverConfig
}

// NewResolver builds a Resolver.
func NewResolver(
	logger *zap.Logger,
	networks *model.NetworkDescriptor,
	dialer Dialer,
	signers SignerFactory,
	cfg ResolverConfig,
) (*Resolver, error) {
	if networks == nil {
		return nil, errors.New("network descriptor is required")
	}
	if dialer == nil {
		return nil, errors.New("dialer is required")
	}
	if signers == nil {
		return nil, errors.New("signer factory is required")
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = defaultProbeTimeout
	}
	return &Resolver{
		logger:       logger.Named("resolver"),
		networks:     networks,
		dialer:       dialer,
		signers:      signers,
		bindContract: bindClickToken,
		cfg:          cfg,
	}, nil
}

func bindClickToken(address common.Address, backend bind.ContractBackend) (ClickToken, error) {
	token, err := clicktoken.New(address, backend)
	if err != nil {
		return nil, err
	}
	return token, nil
}

// Resolve connects to network id. A chain id mismatch is reported through
// Binding.Success and Binding.Error rather than an error; the caller owns
// such a binding and should Close it.
func (r *Resolver) Resolve(ctx context.Context, id model.NetworkID) (*Binding, error) {
	network, ok := r.networks.Network(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNetwork, id)
	}
	logger := r.logger.With(zap.Stringer("network", id))

	conn, source, err := r.connect(ctx, network, logger)
	if err != nil {
		return nil, err
	}
	logger = logger.With(zap.String("source", string(source)))

	binding, err := r.bind(ctx, network, conn, source, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return binding, nil
}

func (r *Resolver) connect(ctx context.Context, network model.Network, logger *zap.Logger) (Connection, Source, error) {
	if r.cfg.WalletURL != "" {
		conn, err := r.dialer.Dial(ctx, network.ID, SourceWallet, r.cfg.WalletURL)
		if err != nil {
			return nil, "", fmt.Errorf("dial wallet: %w", err)
		}
		return conn, SourceWallet, nil
	}

	if r.cfg.LocalURL != "" {
		if conn, ok := r.probe(ctx, network.ID, logger); ok {
			return conn, SourceLocal, nil
		}
	}

	if network.RPCURL == "" {
		return nil, "", fmt.Errorf("network %d has no public rpc url", network.ID)
	}
	conn, err := r.dialer.Dial(ctx, network.ID, SourcePublic, network.RPCURL)
	if err != nil {
		return nil, "", fmt.Errorf("dial public rpc: %w", err)
	}
	return conn, SourcePublic, nil
}

func (r *Resolver) probe(ctx context.Context, id model.NetworkID, logger *zap.Logger) (Connection, bool) {
	conn, err := r.dialer.Dial(ctx, id, SourceLocal, r.cfg.LocalURL)
	if err != nil {
		logger.Debug("local node unavailable", zap.Error(err))
		return nil, false
	}

	probeCtx, cancel := context.WithTimeout(ctx, r.cfg.ProbeTimeout)
	defer cancel()

	var block hexutil.Uint64
	if err := conn.CallContext(probeCtx, &block, "eth_blockNumber"); err != nil {
		logger.Debug("local node unavailable", zap.String("url", r.cfg.LocalURL), zap.Error(err))
		conn.Close()
		return nil, false
	}
	return conn, true
}

func (r *Resolver) bind(ctx context.Context, network model.Network, conn Connection, source Source, logger *zap.Logger) (*Binding, error) {
	chainID, err := r.chainID(ctx, conn, logger)
	if err != nil {
		return nil, err
	}

	signer, err := r.signers.Signer(ctx, conn, chainID)
	if err != nil {
		return nil, fmt.Errorf("derive signer: %w", err)
	}

	binding := &Binding{
		Network:  network.ID,
		Source:   source,
		Conn:     conn,
		Signer:   signer,
		Accounts: []common.Address{},
	}

	if chainID.Cmp(new(big.Int).SetUint64(uint64(network.ID))) != 0 {
		binding.Error = fmt.Sprintf("Invalid network. Node is connected to %s, we want %d", chainID, network.ID)
		logger.Warn("network mismatch", zap.Stringer("chain_id", chainID))
		return binding, nil
	}

	accounts, err := r.accounts(ctx, conn, source, signer)
	if err != nil {
		return nil, err
	}

	backend := conn.Backend()
	token, err := r.bindContract(network.Contract, backend)
	if err != nil {
		return nil, fmt.Errorf("bind contract %s: %w", network.Contract.Hex(), err)
	}

	binding.Accounts = accounts
	binding.Backend = backend
	binding.Contract = token
	binding.Success = true

	logger.Info("provider bound", zap.Int("accounts", len(accounts)), zap.String("contract", network.Contract.Hex()))
	return binding, nil
}

func (r *Resolver) chainID(ctx context.Context, conn Connection, logger *zap.Logger) (*big.Int, error) {
	var reported hexutil.Big
	if err := conn.CallContext(ctx, &reported, "eth_chainId"); err != nil {
		return nil, fmt.Errorf("eth_chainId: %w", err)
	}
	chainID := (*big.Int)(&reported)

	if chainID.Cmp(big.NewInt(netVersionThreshold)) <= 0 {
		return chainID, nil
	}

	var version string
	if err := conn.CallContext(ctx, &version, "net_version"); err != nil {
		return nil, fmt.Errorf("net_version: %w", err)
	}
	netVersion, ok := new(big.Int).SetString(version, 10)
	if !ok {
		return nil, fmt.Errorf("net_version: invalid value %q", version)
	}
	if netVersion.Cmp(chainID) != 0 {
		logger.Debug("preferring net_version over eth_chainId",
			zap.Stringer("chain_id", chainID),
			zap.Stringer("net_version", netVersion),
		)
		return netVersion, nil
	}
	return chainID, nil
}

func (r *Resolver) accounts(ctx context.Context, conn Connection, source Source, signer Signer) ([]common.Address, error) {
	if source == SourceWallet {
		var accounts []common.Address
		if err := conn.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
			return nil, fmt.Errorf("eth_requestAccounts: %w", err)
		}
		if accounts == nil {
			accounts = []common.Address{}
		}
		return accounts, nil
	}
	if signer == nil {
		return []common.Address{}, nil
	}
	return []common.Address{signer.Address()}, nil
}
