package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/onclick-backend/internal/model"
)

// InsertRedemptions stores journal rows in ClickHouse.
func (r *Repository) InsertRedemptions(ctx context.Context, redemptions []model.Redemption) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_redemptions", firstNetwork(redemptions), err, start)
	}()

	if len(redemptions) == 0 {
		return nil
	}

	const query = `
INSERT INTO claim_redemptions (
	id,
	network,
	contract,
	token,
	recipient,
	clicks,
	amount,
	tx_hash,
	status,
	message,
	created_at
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare redemptions batch: %w", err)
	}

	for _, rd := range redemptions {
		if err = batch.Append(
			rd.ID,
			uint64(rd.Network),
			rd.Contract,
			rd.Token,
			rd.Recipient,
			rd.Clicks,
			rd.Amount,
			rd.TxHash,
			string(rd.Status),
			rd.Message,
			rd.CreatedAt,
		); err != nil {
			return fmt.Errorf("append redemption: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert redemptions: %w", err)
	}
	return nil
}

func firstNetwork(redemptions []model.Redemption) model.NetworkID {
	if len(redemptions) == 0 {
		return 0
	}
	return redemptions[0].Network
}
