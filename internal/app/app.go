// Package app wires the claim engine from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/goodnatureofminers/onclick-backend/internal/chain"
	"github.com/goodnatureofminers/onclick-backend/internal/clicks"
	"github.com/goodnatureofminers/onclick-backend/internal/config"
	"github.com/goodnatureofminers/onclick-backend/internal/metrics"
	"github.com/goodnatureofminers/onclick-backend/internal/repository/clickhouse"
	"github.com/goodnatureofminers/onclick-backend/internal/service"
	"github.com/goodnatureofminers/onclick-backend/internal/store/badger"
	"go.uber.org/zap"
)

// App owns the claim engine and everything it depends on.
type App struct {
	Engine *service.Engine
	// Journal is nil when no journal DSN is configured.
	Journal *clickhouse.Repository

	logger  *zap.Logger
	store   *badger.Store
	cache   *chain.Cache
	batch   *service.BatchJournal
	watcher *chain.Watcher
	wallet  chain.Connection

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New opens the store and journal and builds the engine.
func New(ctx context.Context, logger *zap.Logger, opts config.Options) (_ *App, err error) {
	a := &App{logger: logger}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	networks, err := opts.Chain.Descriptor()
	if err != nil {
		return nil, fmt.Errorf("configure networks: %w", err)
	}

	a.store, err = badger.Open(logger, opts.Store.Path, metrics.NewLocalStore())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	clickClient, err := clicks.NewClient(logger, opts.Clicks.URL, &http.Client{Timeout: opts.Clicks.Timeout}, metrics.NewClickService())
	if err != nil {
		return nil, fmt.Errorf("init click service client: %w", err)
	}

	key, err := chain.LoadKey(opts.Chain.PrivateKey, opts.Chain.Keystore, opts.Chain.Passphrase)
	if err != nil {
		return nil, err
	}
	dialer := chain.NewRPCDialer()
	resolver, err := chain.NewResolver(logger, networks, dialer, chain.NewSigners(logger, key), chain.ResolverConfig{
		WalletURL:    opts.Chain.WalletURL,
		LocalURL:     opts.Chain.LocalURL,
		ProbeTimeout: opts.Chain.ProbeTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init resolver: %w", err)
	}
	a.cache = chain.NewCache(logger, resolver, metrics.NewProviderCache())

	if opts.Chain.WalletURL != "" && opts.Chain.WatchInterval > 0 {
		a.wallet, err = dialer.Dial(ctx, networks.Default(), chain.SourceWallet, opts.Chain.WalletURL)
		if err != nil {
			return nil, fmt.Errorf("dial wallet: %w", err)
		}
		a.watcher = chain.NewWatcher(logger, a.wallet, a.cache, opts.Chain.WatchInterval)
	}

	var journal service.Journal
	if opts.Journal.DSN != "" {
		a.Journal, err = clickhouse.NewRepository(opts.Journal.DSN, metrics.NewClickhouseRepository())
		if err != nil {
			return nil, fmt.Errorf("init journal repository: %w", err)
		}
		a.batch = service.NewBatchJournal(logger, a.Journal, opts.Journal.Batcher())
		journal = a.batch
	}

	a.Engine, err = service.NewEngine(
		logger,
		a.store,
		clickClient,
		a.cache,
		networks,
		journal,
		metrics.NewClaimEngine(),
		nil,
		service.EngineConfig{ReceiptPollInterval: opts.Chain.ReceiptPoll},
	)
	if err != nil {
		return nil, fmt.Errorf("init claim engine: %w", err)
	}
	return a, nil
}

// Start launches the journal flusher and the wallet watcher. The watcher
// stops when ctx is done or Close is called; the flusher runs until Close.
func (a *App) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	if a.batch != nil {
		a.batch.Start(ctx)
	}
	if a.watcher != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := a.watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("wallet watcher stopped", zap.Error(err))
			}
		}()
	}
}

// Close stops the watcher, flushes the journal and releases every resource.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()
	if a.batch != nil {
		a.batch.Stop()
	}
	if a.wallet != nil {
		a.wallet.Close()
	}
	if a.cache != nil {
		a.cache.Close()
	}
	if a.Journal != nil {
		if err := a.Journal.Close(); err != nil {
			a.logger.Warn("close journal repository", zap.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("close store", zap.Error(err))
		}
	}
}
