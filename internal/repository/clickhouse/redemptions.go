package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/onclick-backend/internal/model"
	"github.com/goodnatureofminers/onclick-backend/pkg/hexstr"
)

const defaultRedemptionsLimit = 100

// Redemptions returns journal rows matching filter, newest first.
func (r *Repository) Redemptions(ctx context.Context, filter model.RedemptionFilter) (out []model.Redemption, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("redemptions", 0, err, start)
	}()

	limit := filter.Limit
	if limit == 0 {
		limit = defaultRedemptionsLimit
	}
	token := hexstr.Remove0xPrefix(filter.Token)

	const query = `
SELECT
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
FROM claim_redemptions
WHERE (? = '' OR recipient = ?) AND (? = '' OR token = ?)
ORDER BY created_at DESC, id DESC
LIMIT ?`

	rows, err := r.conn.Query(ctx, query, filter.Recipient, filter.Recipient, token, token, limit)
	if err != nil {
		return nil, fmt.Errorf("query redemptions: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", cerr)
		}
	}()

	out = []model.Redemption{}
	for rows.Next() {
		var (
			rd      model.Redemption
			network uint64
			status  string
		)
		if err = rows.Scan(
			&rd.ID,
			&network,
			&rd.Contract,
			&rd.Token,
			&rd.Recipient,
			&rd.Clicks,
			&rd.Amount,
			&rd.TxHash,
			&status,
			&rd.Message,
			&rd.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		rd.Network = model.NetworkID(network)
		rd.Status = model.RedemptionStatus(status)
		out = append(out, rd)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate redemptions: %w", err)
	}
	return out, nil
}
