package service

import (
	"context"

	"github.com/goodnatureofminers/onclick-backend/internal/model"
	"github.com/goodnatureofminers/onclick-backend/pkg/batcher"
	"go.uber.org/zap"
)

// NopJournal drops every record.
type NopJournal struct{}

// Record implements Journal.
func (NopJournal) Record(context.Context, model.Redemption) error { return nil }

// BatchJournal buffers redemption records and writes them in batches.
type BatchJournal struct {
	batcher *batcher.Batcher[model.Redemption]
}

// NewBatchJournal builds a journal flushing into repo.
func NewBatchJournal(logger *zap.Logger, repo RedemptionRepository, cfg batcher.Config) *BatchJournal {
	return &BatchJournal{
		batcher: batcher.New(logger.Named("redemption_journal"), repo.InsertRedemptions, cfg),
	}
}

// Start begins background flushing. Records are flushed until Stop is called.
func (j *BatchJournal) Start(ctx context.Context) {
	j.batcher.Start(ctx)
}

// Stop flushes pending records and waits for the flusher to exit.
func (j *BatchJournal) Stop() {
	j.batcher.Stop()
}

// Record queues r.
func (j *BatchJournal) Record(ctx context.Context, r model.Redemption) error {
	return j.batcher.Add(ctx, r)
}
