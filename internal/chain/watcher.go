package chain

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/goodnatureofminers/onclick-backend/internal/clock"
	"go.uber.org/zap"
)

const (
	ReasonAccountsChanged = "accounts_changed"
	ReasonChainChanged    = "chain_changed"
)

type walletState struct {
	chainID  string
	accounts []common.Address
}

// Watcher polls a wallet connection and invalidates cached bindings when the
// wallet switches chain or accounts.
type Watcher struct {
	logger   *zap.Logger
	conn     Connection
	cache    Invalidator
	interval time.Duration
	sleep    func(context.Context, time.Duration) error
	last     *walletState
}

// NewWatcher builds a Watcher polling conn every interval.
func NewWatcher(logger *zap.Logger, conn Connection, cache Invalidator, interval time.Duration) *Watcher {
	return &Watcher{
		logger:   logger.Named("wallet_watcher"),
		conn:     conn,
		cache:    cache,
		interval: interval,
		sleep:    clock.SleepWithContext,
	}
}

// Run polls until the context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := w.run(ctx); err != nil {
			w.logger.Warn("wallet poll failed", zap.Error(err))
		}
		if err := w.sleep(ctx, w.interval); err != nil {
			return err
		}
	}
}

func (w *Watcher) run(ctx context.Context) error {
	state, err := w.snapshot(ctx)
	if err != nil {
		return err
	}
	defer func() {
		w.last = &state
	}()

	if w.last == nil {
		return nil
	}
	switch {
	case state.chainID != w.last.chainID:
		w.logger.Info("wallet chain changed", zap.String("from", w.last.chainID), zap.String("to", state.chainID))
		w.cache.InvalidateAll(ReasonChainChanged)
	case !slices.Equal(state.accounts, w.last.accounts):
		w.logger.Info("wallet accounts changed", zap.Int("accounts", len(state.accounts)))
		w.cache.InvalidateAll(ReasonAccountsChanged)
	}
	return nil
}

func (w *Watcher) snapshot(ctx context.Context) (walletState, error) {
	var chainID hexutil.Big
	if err := w.conn.CallContext(ctx, &chainID, "eth_chainId"); err != nil {
		return walletState{}, fmt.Errorf("eth_chainId: %w", err)
	}
	var accounts []common.Address
	if err := w.conn.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return walletState{}, fmt.Errorf("eth_accounts: %w", err)
	}
	return walletState{chainID: chainID.String(), accounts: accounts}, nil
}
