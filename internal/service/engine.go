// Package service implements the claim lifecycle: click sessions, claim
// generation and persistence, and on-chain redemption.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/onclick-backend/internal/chain"
	"github.com/goodnatureofminers/onclick-backend/internal/clicks"
	"github.com/goodnatureofminers/onclick-backend/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultReceiptPollInterval = 2 * time.Second
	defaultReconcileWorkers    = 4
	tokenDecimals              = 18
)

// EngineConfig tunes the claim engine.
type EngineConfig struct {
	ReceiptPollInterval time.Duration
	ReconcileWorkers    int
}

// Engine runs claim commands against the click service, the local store and
// the ClickToken contract of the selected network.
type Engine struct {
	logger   *zap.Logger
	store    Store
	clicks   ClickService
	bindings Bindings
	networks *model.NetworkDescriptor
	journal  Journal
	metrics  Metrics
	bus      *Bus

	pollInterval time.Duration
	workers      int

	mu       sync.Mutex
	inflight map[string]struct{}

	now   func() time.Time
	newID func() uuid.UUID
}

// NewEngine wires an Engine. A nil journal disables the redemption journal.
func NewEngine(
	logger *zap.Logger,
	store Store,
	clickService ClickService,
	bindings Bindings,
	networks *model.NetworkDescriptor,
	journal Journal,
	metrics Metrics,
	bus *Bus,
	cfg EngineConfig,
) (*Engine, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if clickService == nil {
		return nil, errors.New("click service is required")
	}
	if bindings == nil {
		return nil, errors.New("bindings are required")
	}
	if networks == nil {
		return nil, errors.New("network descriptor is required")
	}
	if metrics == nil {
		return nil, errors.New("metrics is required")
	}
	if journal == nil {
		journal = NopJournal{}
	}
	if bus == nil {
		bus = NewBus(logger)
	}
	if cfg.ReceiptPollInterval <= 0 {
		cfg.ReceiptPollInterval = defaultReceiptPollInterval
	}
	if cfg.ReconcileWorkers <= 0 {
		cfg.ReconcileWorkers = defaultReconcileWorkers
	}

	return &Engine{
		logger:       logger.Named("claim_engine"),
		store:        store,
		clicks:       clickService,
		bindings:     bindings,
		networks:     networks,
		journal:      journal,
		metrics:      metrics,
		bus:          bus,
		pollInterval: cfg.ReceiptPollInterval,
		workers:      cfg.ReconcileWorkers,
		inflight:     make(map[string]struct{}),
		now:          time.Now,
		newID:        uuid.New,
	}, nil
}

// Bus returns the bus outcomes are published on.
func (e *Engine) Bus() *Bus {
	return e.bus
}

// Networks returns the configured networks.
func (e *Engine) Networks() []model.Network {
	return e.networks.Networks()
}

// Network returns the selected network, falling back to the default one.
func (e *Engine) Network(ctx context.Context) (model.NetworkID, error) {
	id, ok, err := e.store.Network(ctx)
	if err != nil {
		return 0, fmt.Errorf("load selected network: %w", err)
	}
	if !ok {
		return e.networks.Default(), nil
	}
	if _, known := e.networks.Network(id); !known {
		e.logger.Warn("selected network is no longer configured, using default",
			zap.Stringer("network", id), zap.Stringer("default", e.networks.Default()))
		return e.networks.Default(), nil
	}
	return id, nil
}

// SelectNetwork persists id as the selected network.
func (e *Engine) SelectNetwork(ctx context.Context, id model.NetworkID) error {
	if _, ok := e.networks.Network(id); !ok {
		return invalid("network", "network %d is not configured", id)
	}
	if err := e.store.SetNetwork(ctx, id); err != nil {
		return fmt.Errorf("save selected network: %w", err)
	}
	e.logger.Info("network selected", zap.Stringer("network", id), zap.String("name", e.networks.Name(id)))
	return nil
}

// Click records one click and adopts the session token the service answers
// with.
func (e *Engine) Click(ctx context.Context) (clicks.ClickResponse, error) {
	token, err := e.store.SessionToken(ctx)
	if err != nil {
		return clicks.ClickResponse{}, fmt.Errorf("load session token: %w", err)
	}

	resp, err := e.clicks.SendClick(ctx, token)
	if err != nil {
		return clicks.ClickResponse{}, err
	}

	if resp.Token != "" && resp.Token != token {
		if err := e.store.SetSessionToken(ctx, resp.Token); err != nil {
			return clicks.ClickResponse{}, fmt.Errorf("save session token: %w", err)
		}
		e.logger.Debug("adopted click session", zap.Bool("new", token == ""))
	}
	if resp.Token == "" {
		resp.Token = token
	}
	return resp, nil
}

// Clicks returns the click count of the current session. Without a session
// the service is not called and the count is zero.
func (e *Engine) Clicks(ctx context.Context) (clicks.ClicksResponse, error) {
	token, err := e.store.SessionToken(ctx)
	if err != nil {
		return clicks.ClicksResponse{}, fmt.Errorf("load session token: %w", err)
	}
	if token == "" {
		return clicks.ClicksResponse{}, nil
	}
	return e.clicks.GetClicks(ctx, token)
}

// BindingInfo describes a resolved provider binding.
type BindingInfo struct {
	Network  model.NetworkID `json:"network"`
	Name     string          `json:"name"`
	Source   chain.Source    `json:"source"`
	Contract string          `json:"contract,omitempty"`
	Signer   string          `json:"signer,omitempty"`
	Accounts []string        `json:"accounts"`
	Success  bool            `json:"success"`
	Error    string          `json:"error,omitempty"`
}

// Binding resolves the provider binding of id. A chain mismatch is reported
// in the result, not as an error.
func (e *Engine) Binding(ctx context.Context, id model.NetworkID) (BindingInfo, error) {
	if _, ok := e.networks.Network(id); !ok {
		return BindingInfo{}, invalid("network", "network %d is not configured", id)
	}
	b, err := e.bindings.Resolve(ctx, id)
	if err != nil {
		return BindingInfo{}, err
	}
	if b.Success {
		defer b.Release()
	} else {
		defer b.Close()
	}

	info := BindingInfo{
		Network:  id,
		Name:     e.networks.Name(id),
		Source:   b.Source,
		Accounts: make([]string, 0, len(b.Accounts)),
		Success:  b.Success,
		Error:    b.Error,
	}
	for _, a := range b.Accounts {
		info.Accounts = append(info.Accounts, a.Hex())
	}
	if b.Contract != nil {
		info.Contract = b.Contract.Address().Hex()
	}
	if b.Signer != nil {
		info.Signer = b.Signer.Address().Hex()
	}
	return info, nil
}

// bind resolves a usable binding for id. A rejected binding is closed and
// reported as an input error. Callers Release the result when done.
func (e *Engine) bind(ctx context.Context, id model.NetworkID) (*chain.Binding, error) {
	b, err := e.bindings.Resolve(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve provider for network %d: %w", id, err)
	}
	if !b.Success {
		b.Close()
		return nil, invalid("network", "%s", b.Error)
	}
	if b.Contract == nil {
		b.Release()
		return nil, fmt.Errorf("network %d: no contract bound", id)
	}
	return b, nil
}

func signerOf(b *chain.Binding) (Signer, error) {
	if b.Signer == nil {
		return nil, fmt.Errorf("network %d: no account available to sign with", b.Network)
	}
	return b.Signer, nil
}

func parseAddress(field, v string) (common.Address, error) {
	if v == "" {
		return common.Address{}, missing(field)
	}
	if !common.IsHexAddress(v) {
		return common.Address{}, invalid(field, "%q is not a hex address", v)
	}
	return common.HexToAddress(v), nil
}
