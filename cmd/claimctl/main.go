package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/goodnatureofminers/onclick-backend/internal/app"
	"github.com/goodnatureofminers/onclick-backend/internal/config"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

var (
	opts   config.Options
	ctx    context.Context
	logger *zap.Logger
)

func main() {
	var stop context.CancelFunc
	ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	logger, err = zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	parser := flags.NewParser(&opts, flags.Default)
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.short, c.data); err != nil {
			logger.Fatal("register command", zap.String("command", c.name), zap.Error(err))
		}
	}
	if _, err := parser.ParseArgs(os.Args[1:]); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("claimctl failed", zap.Error(err))
	}
}

// withApp runs fn against a freshly wired claim engine and releases it
// afterwards, flushing the journal.
func withApp(fn func(ctx context.Context, a *app.App) error) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	a, err := app.New(runCtx, logger, opts)
	if err != nil {
		return err
	}
	a.Start(runCtx)
	defer func() {
		cancel()
		a.Close()
	}()
	return fn(runCtx, a)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
