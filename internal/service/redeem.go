package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/goodnatureofminers/onclick-backend/internal/chain"
	"github.com/goodnatureofminers/onclick-backend/internal/clock"
	"github.com/goodnatureofminers/onclick-backend/internal/contract/clicktoken"
	"github.com/goodnatureofminers/onclick-backend/internal/model"
	"github.com/goodnatureofminers/onclick-backend/pkg/hexstr"
	"github.com/goodnatureofminers/onclick-backend/pkg/units"
	"go.uber.org/zap"
)

const (
	warnInProgress     = "claim submission already in progress"
	warnAlreadyClaimed = "Claim has already been redeemed. Removing it."
)

// SendClaimRequest is a claim to redeem on-chain. A zero Network means the
// selected network. Token is the claim uid. Key is the store key of the
// claim when it differs from Token, as for generated claims stored under
// their session token.
type SendClaimRequest struct {
	Network   model.NetworkID
	Recipient string
	Token     string
	Key       string
	Clicks    uint64
	Signature string
}

// SendClaimResult is the non-error end of a redemption. Warning is set when
// nothing was submitted or the contract had already redeemed the claim.
type SendClaimResult struct {
	Status  model.RedemptionStatus
	TxHash  string
	Warning string
}

// SendClaim validates a claim against the contract and redeems it. The steps
// run strictly in order and the first failure ends the redemption:
//
//  1. the local claim hash must equal hashClaim of the contract;
//  2. the recovered signer must be an authorized claim signer;
//  3. the claim transaction is submitted;
//  4. the receipt is awaited.
//
// The claim leaves the store only once redeemed, by this call or earlier.
func (e *Engine) SendClaim(ctx context.Context, req SendClaimRequest) (SendClaimResult, error) {
	token := hexstr.Add0xPrefix(req.Token)
	key := hexstr.Remove0xPrefix(token)

	switch {
	case req.Recipient == "":
		return SendClaimResult{}, missing("recipient")
	case key == "":
		return SendClaimResult{}, missing("token")
	case req.Clicks == 0:
		return SendClaimResult{}, missing("clicks")
	case req.Signature == "":
		return SendClaimResult{}, missing("signature")
	}

	recipient, err := parseAddress("recipient", req.Recipient)
	if err != nil {
		return SendClaimResult{}, err
	}
	uid, err := claimUID(token)
	if err != nil {
		return SendClaimResult{}, err
	}
	signature, err := decodeSignature(req.Signature)
	if err != nil {
		return SendClaimResult{}, err
	}

	networkID := req.Network
	if networkID == 0 {
		if networkID, err = e.Network(ctx); err != nil {
			return SendClaimResult{}, err
		}
	}
	network, ok := e.networks.Network(networkID)
	if !ok {
		return SendClaimResult{}, invalid("network", "network %d is not configured", networkID)
	}

	if !e.acquire(key) {
		e.logger.Warn(warnInProgress, zap.String("token", hexstr.TruncateToken(key)))
		return SendClaimResult{Warning: warnInProgress}, nil
	}
	defer e.release(key)

	amount := units.Scale(req.Clicks, tokenDecimals)
	r := redemption{
		engine: e,
		logger: e.logger.With(zap.Stringer("network", networkID), zap.String("token", hexstr.TruncateToken(key))),
		record: model.Redemption{
			ID:        e.newID(),
			Network:   networkID,
			Contract:  network.Contract.Hex(),
			Token:     key,
			Recipient: recipient.Hex(),
			Clicks:    req.Clicks,
			Amount:    amount.String(),
		},
		network:   network,
		key:       key,
		storeKey:  hexstr.Remove0xPrefix(req.Key),
		recipient: recipient,
		uid:       uid,
		amount:    amount,
		signature: signature,
	}
	return r.run(ctx)
}

type redemption struct {
	engine *Engine
	logger *zap.Logger
	record model.Redemption

	network   model.Network
	key       string
	storeKey  string
	recipient common.Address
	uid       [32]byte
	amount    *big.Int
	signature []byte
}

func (r *redemption) run(ctx context.Context) (SendClaimResult, error) {
	e := r.engine

	b, err := e.bind(ctx, r.network.ID)
	if err != nil {
		return SendClaimResult{}, err
	}
	defer b.Release()
	contract := b.Contract

	hash, err := r.verifyHash(ctx, contract)
	if err != nil {
		return SendClaimResult{}, r.finish(ctx, verificationStatus(err), err)
	}
	if err := r.verifySigner(ctx, contract, hash); err != nil {
		return SendClaimResult{}, r.finish(ctx, verificationStatus(err), err)
	}

	signer, err := signerOf(b)
	if err != nil {
		return SendClaimResult{}, err
	}
	opts, err := signer.TransactOpts(ctx)
	if err != nil {
		return SendClaimResult{}, fmt.Errorf("prepare transaction: %w", err)
	}

	tx, err := contract.Submit(opts, clicktoken.ClaimSubmission{
		Variant:   clicktoken.ClaimBasic,
		Recipient: r.recipient,
		UID:       r.uid,
		Amount:    r.amount,
		Signature: r.signature,
	})
	if err != nil {
		if isAlreadyClaimed(err) {
			return r.alreadyClaimed(ctx, err)
		}
		return SendClaimResult{}, r.finish(ctx, model.RedemptionFailed, fmt.Errorf("submit claim: %w", err))
	}
	r.record.TxHash = tx.Hash().Hex()
	r.logger.Info("claim submitted", zap.String("tx", r.record.TxHash))

	receipt, err := e.waitReceipt(ctx, b.Backend, tx.Hash())
	if err != nil {
		return SendClaimResult{}, r.finish(ctx, model.RedemptionFailed, fmt.Errorf("await receipt of %s: %w", r.record.TxHash, err))
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return SendClaimResult{}, r.finish(ctx, model.RedemptionFailed, fmt.Errorf("%w: %s", ErrTransactionFailed, r.record.TxHash))
	}

	if err := e.forgetClaim(ctx, r.storeKey, r.key); err != nil {
		return SendClaimResult{}, fmt.Errorf("remove redeemed claim: %w", err)
	}
	_ = r.finish(ctx, model.RedemptionRedeemed, nil)
	r.logger.Info("claim redeemed", zap.String("tx", r.record.TxHash), zap.Stringer("block", receipt.BlockNumber))
	return SendClaimResult{Status: model.RedemptionRedeemed, TxHash: r.record.TxHash}, nil
}

func (r *redemption) verifyHash(ctx context.Context, contract ClickToken) ([32]byte, error) {
	local := clicktoken.ClaimHash(r.recipient, r.uid, r.amount, contract.Address())
	remote, err := contract.HashClaim(ctx, r.recipient, r.uid, r.amount)
	if err != nil {
		return remote, fmt.Errorf("hashClaim: %w", err)
	}
	if local != remote {
		return remote, &ValidationError{Reason: fmt.Sprintf(
			"claim hash mismatch: computed %s, contract reports %s",
			common.Hash(local).Hex(), common.Hash(remote).Hex(),
		)}
	}
	return remote, nil
}

func (r *redemption) verifySigner(ctx context.Context, contract ClickToken, hash [32]byte) error {
	signer, err := contract.CheckClaim(ctx, hash, r.signature)
	if err != nil {
		return fmt.Errorf("checkClaim: %w", err)
	}
	if signer == (common.Address{}) {
		return &ValidationError{Reason: "Claim failed validation check.  Invalid signature?"}
	}

	authorized := r.network.IsSigner(signer)
	if len(r.network.Signers) == 0 {
		if authorized, err = contract.IsSigner(ctx, signer); err != nil {
			return fmt.Errorf("isSigner: %w", err)
		}
	}
	if !authorized {
		return &ValidationError{Reason: fmt.Sprintf("claim signed by unauthorized signer %s", signer.Hex())}
	}
	return nil
}

func (r *redemption) alreadyClaimed(ctx context.Context, cause error) (SendClaimResult, error) {
	r.logger.Warn(warnAlreadyClaimed, zap.Error(cause))
	if err := r.engine.forgetClaim(ctx, r.storeKey, r.key); err != nil {
		return SendClaimResult{}, fmt.Errorf("remove redeemed claim: %w", err)
	}
	_ = r.finish(ctx, model.RedemptionAlreadyClaimed, cause)
	return SendClaimResult{Status: model.RedemptionAlreadyClaimed, Warning: warnAlreadyClaimed}, nil
}

// finish journals the attempt and returns err unchanged.
func (r *redemption) finish(ctx context.Context, status model.RedemptionStatus, err error) error {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		r.logger.Error("claim rejected", zap.Error(err))
	case err != nil && status != model.RedemptionAlreadyClaimed:
		r.logger.Error("claim redemption failed", zap.Error(err))
	}

	r.record.Status = status
	if err != nil {
		r.record.Message = err.Error()
	}
	r.record.CreatedAt = r.engine.now().UTC()
	if jerr := r.engine.journal.Record(context.WithoutCancel(ctx), r.record); jerr != nil {
		r.logger.Warn("journal redemption", zap.Error(jerr))
	}
	return err
}

func verificationStatus(err error) model.RedemptionStatus {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return model.RedemptionRejected
	}
	return model.RedemptionFailed
}

func (e *Engine) waitReceipt(ctx context.Context, backend chain.Backend, hash common.Hash) (*types.Receipt, error) {
	if backend == nil {
		return nil, errors.New("no backend to read receipts from")
	}
	var receipt *types.Receipt
	err := clock.PollUntil(ctx, e.pollInterval, func(ctx context.Context) (bool, error) {
		rec, err := backend.TransactionReceipt(ctx, hash)
		if errors.Is(err, ethereum.NotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		receipt = rec
		return true, nil
	})
	return receipt, err
}

// forgetClaim removes a redeemed claim from the store. It tries storeKey,
// then the claim token, then every entry whose claim carries that token.
func (e *Engine) forgetClaim(ctx context.Context, storeKey, token string) error {
	keys := []string{token}
	if storeKey != "" && storeKey != token {
		keys = []string{storeKey, token}
	}
	for _, k := range keys {
		deleted, err := e.store.DeleteClaim(ctx, k)
		if err != nil {
			return err
		}
		if deleted {
			return nil
		}
	}

	claims, err := e.store.Claims(ctx)
	if err != nil {
		return err
	}
	for k, claim := range claims {
		if hexstr.Remove0xPrefix(claim.Token) != token {
			continue
		}
		if _, err := e.store.DeleteClaim(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) acquire(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inflight[key]; busy {
		return false
	}
	e.inflight[key] = struct{}{}
	return true
}

func (e *Engine) release(key string) {
	e.mu.Lock()
	delete(e.inflight, key)
	e.mu.Unlock()
}

// isAlreadyClaimed reports whether a submission failed because the claim uid
// was redeemed before. A decoded revert reason is authoritative. Otherwise
// the provider message is searched for the reason text.
func isAlreadyClaimed(err error) bool {
	if reason, ok := clicktoken.RevertReason(err); ok {
		return reason == clicktoken.AlreadyClaimedReason
	}

	msg := err.Error()
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data, ok := dataErr.ErrorData().(map[string]interface{}); ok {
			if nested, ok := data["message"].(string); ok && nested != "" {
				msg = nested
			}
		}
	}
	return strings.Contains(msg, clicktoken.AlreadyClaimedReason)
}
