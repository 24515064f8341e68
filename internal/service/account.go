package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/goodnatureofminers/onclick-backend/internal/model"
	"github.com/goodnatureofminers/onclick-backend/pkg/hexstr"
	"github.com/goodnatureofminers/onclick-backend/pkg/units"
	"github.com/goodnatureofminers/onclick-backend/pkg/workerpool"
	"go.uber.org/zap"
)

// Balance returns the ClickToken balance of address on network as a decimal
// string. A zero network means the selected one.
func (e *Engine) Balance(ctx context.Context, network model.NetworkID, address string) (string, error) {
	holder, err := parseAddress("address", address)
	if err != nil {
		return "", err
	}
	if network == 0 {
		if network, err = e.Network(ctx); err != nil {
			return "", err
		}
	}

	b, err := e.bind(ctx, network)
	if err != nil {
		return "", err
	}
	defer b.Release()
	balance, err := b.Contract.BalanceOf(ctx, holder)
	if err != nil {
		return "", fmt.Errorf("balanceOf %s: %w", holder.Hex(), err)
	}
	decimals, err := b.Contract.Decimals(ctx)
	if err != nil {
		return "", fmt.Errorf("decimals: %w", err)
	}
	return units.FormatBig(balance, int(decimals))
}

// GrantSigner authorizes signer to co-sign claims worth up to allowance
// tokens on the selected network. allowance is a human decimal amount.
func (e *Engine) GrantSigner(ctx context.Context, signer, allowance string) (string, error) {
	addr, err := parseAddress("signer", signer)
	if err != nil {
		return "", err
	}
	if allowance == "" {
		return "", missing("allowance")
	}

	network, err := e.Network(ctx)
	if err != nil {
		return "", err
	}
	b, err := e.bind(ctx, network)
	if err != nil {
		return "", err
	}
	defer b.Release()

	decimals, err := b.Contract.Decimals(ctx)
	if err != nil {
		return "", fmt.Errorf("decimals: %w", err)
	}
	amount, err := units.Parse(allowance, int32(decimals))
	if err != nil {
		return "", invalid("allowance", "%v", err)
	}

	s, err := signerOf(b)
	if err != nil {
		return "", err
	}
	opts, err := s.TransactOpts(ctx)
	if err != nil {
		return "", fmt.Errorf("prepare transaction: %w", err)
	}
	tx, err := b.Contract.GrantSigner(opts, addr, amount)
	if err != nil {
		return "", fmt.Errorf("grantSigner: %w", err)
	}
	e.logger.Info("granted claim signer",
		zap.String("signer", addr.Hex()), zap.String("allowance", allowance), zap.String("tx", tx.Hash().Hex()))
	return tx.Hash().Hex(), nil
}

// ReconcileResult summarizes a reconciliation run.
type ReconcileResult struct {
	Checked int      `json:"checked"`
	Removed []string `json:"removed"`
	Skipped []string `json:"skipped"`
}

type storedClaim struct {
	key   string
	claim model.Claim
}

// Reconcile asks each contract whether the stored claims were already
// redeemed and drops those that were. Claims for unconfigured contracts are
// skipped. Failures of single claims do not stop the others.
func (e *Engine) Reconcile(ctx context.Context) (ReconcileResult, error) {
	claims, err := e.store.Claims(ctx)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("load claims: %w", err)
	}

	var (
		mu     sync.Mutex
		result = ReconcileResult{Removed: []string{}, Skipped: []string{}}
		items  = make([]storedClaim, 0, len(claims))
	)
	for key, claim := range claims {
		if _, ok := e.networks.NetworkByContract(claim.Contract); !ok {
			e.logger.Warn("skipping claim for unconfigured contract",
				zap.String("token", hexstr.TruncateToken(key)), zap.String("contract", claim.Contract))
			result.Skipped = append(result.Skipped, key)
			continue
		}
		items = append(items, storedClaim{key: key, claim: claim})
	}

	err = workerpool.ProcessAll(ctx, e.workers, items, func(ctx context.Context, item storedClaim) error {
		removed, err := e.reconcileClaim(ctx, item)
		mu.Lock()
		defer mu.Unlock()
		if err == nil {
			result.Checked++
		}
		if removed {
			result.Removed = append(result.Removed, item.key)
		}
		return err
	})
	return result, err
}

func (e *Engine) reconcileClaim(ctx context.Context, item storedClaim) (bool, error) {
	network, _ := e.networks.NetworkByContract(item.claim.Contract)
	// Generated claims are stored under their session token, not their uid.
	token := hexstr.Remove0xPrefix(item.claim.Token)
	if token == "" {
		token = item.key
	}
	uid, err := claimUID(token)
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", item.key, err)
	}

	b, err := e.bind(ctx, network)
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", item.key, err)
	}
	defer b.Release()
	claimed, err := b.Contract.Claimed(ctx, uid)
	if err != nil {
		return false, fmt.Errorf("claim %s: claims: %w", item.key, err)
	}
	if !claimed {
		return false, nil
	}

	if _, err := e.store.DeleteClaim(ctx, item.key); err != nil {
		return false, fmt.Errorf("claim %s: remove: %w", item.key, err)
	}
	e.logger.Warn(warnAlreadyClaimed, zap.String("token", hexstr.TruncateToken(item.key)), zap.Stringer("network", network))

	record := model.Redemption{
		ID:        e.newID(),
		Network:   network,
		Contract:  item.claim.Contract,
		Token:     token,
		Clicks:    item.claim.Clicks,
		Amount:    units.Scale(item.claim.Clicks, tokenDecimals).String(),
		Status:    model.RedemptionAlreadyClaimed,
		Message:   "found redeemed during reconciliation",
		CreatedAt: e.now().UTC(),
	}
	if err := e.journal.Record(context.WithoutCancel(ctx), record); err != nil {
		e.logger.Warn("journal redemption", zap.Error(err))
	}
	return true, nil
}
