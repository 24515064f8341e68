package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/goodnatureofminers/onclick-backend/internal/codec"
	"github.com/goodnatureofminers/onclick-backend/internal/model"
	"github.com/goodnatureofminers/onclick-backend/pkg/hexstr"
	"go.uber.org/zap"
)

// StoredClaim is a pending claim as listed to the user.
type StoredClaim struct {
	Key          string          `json:"key"`
	DisplayToken string          `json:"displayToken"`
	Network      model.NetworkID `json:"network,omitempty"`
	NetworkName  string          `json:"networkName,omitempty"`
	Packed       string          `json:"packed"`
	Claim        model.Claim     `json:"claim"`
}

// GenerateClaim asks the click service to co-sign the clicks of the current
// session for recipient on the selected network. The claim is stored and the
// session is cleared in the same write.
//
// An empty recipient defaults to the only account of the bound wallet.
func (e *Engine) GenerateClaim(ctx context.Context, recipient string) (model.Claim, error) {
	token, err := e.store.SessionToken(ctx)
	if err != nil {
		return model.Claim{}, fmt.Errorf("load session token: %w", err)
	}
	if token == "" {
		return model.Claim{}, ErrNoSession
	}

	network, err := e.Network(ctx)
	if err != nil {
		return model.Claim{}, err
	}
	contract, _ := e.networks.Contract(network)

	if recipient == "" {
		recipient, err = e.defaultRecipient(ctx, network)
		if err != nil {
			return model.Claim{}, err
		}
	}
	addr, err := parseAddress("recipient", recipient)
	if err != nil {
		return model.Claim{}, err
	}
	if recipient != addr.Hex() {
		e.logger.Warn("recipient address is not checksummed",
			zap.String("recipient", recipient), zap.String("checksummed", addr.Hex()))
	}

	claim, err := e.clicks.GetClaim(ctx, token, addr.Hex(), contract.Hex())
	if err != nil {
		return model.Claim{}, err
	}
	if claim == nil {
		return model.Claim{}, errors.New("click service returned no claim")
	}

	if err := e.store.SaveGeneratedClaim(ctx, token, *claim); err != nil {
		return model.Claim{}, fmt.Errorf("save generated claim: %w", err)
	}
	e.logger.Info("generated claim",
		zap.String("token", hexstr.TruncateToken(claim.Token)),
		zap.Uint64("clicks", claim.Clicks),
		zap.Stringer("network", network),
	)
	return *claim, nil
}

func (e *Engine) defaultRecipient(ctx context.Context, network model.NetworkID) (string, error) {
	b, err := e.bind(ctx, network)
	if err != nil {
		return "", err
	}
	defer b.Release()
	if len(b.Accounts) != 1 {
		return "", missing("recipient")
	}
	return b.Accounts[0].Hex(), nil
}

// LoadClaim imports a packed claim into the store, keyed by its token.
func (e *Engine) LoadClaim(ctx context.Context, packed string) (model.Claim, error) {
	claim, err := codec.Unpack(packed)
	if err != nil {
		return model.Claim{}, err
	}
	if _, ok := e.networks.NetworkByContract(claim.Contract); !ok {
		e.logger.Warn("loaded claim targets an unconfigured contract", zap.String("contract", claim.Contract))
	}
	if err := e.store.PutClaim(ctx, claim.Token, claim); err != nil {
		return model.Claim{}, fmt.Errorf("save loaded claim: %w", err)
	}
	return claim, nil
}

// RemoveClaim discards the claim stored under token. It reports whether a
// claim was removed.
func (e *Engine) RemoveClaim(ctx context.Context, token string) (bool, error) {
	key := hexstr.Remove0xPrefix(token)
	if key == "" {
		return false, missing("token")
	}
	deleted, err := e.store.DeleteClaim(ctx, key)
	if err != nil {
		return false, fmt.Errorf("remove claim: %w", err)
	}
	return deleted, nil
}

// Claim returns the claim stored under token.
func (e *Engine) Claim(ctx context.Context, token string) (model.Claim, error) {
	key := hexstr.Remove0xPrefix(token)
	if key == "" {
		return model.Claim{}, missing("token")
	}
	claim, ok, err := e.store.Claim(ctx, key)
	if err != nil {
		return model.Claim{}, fmt.Errorf("load claim: %w", err)
	}
	if !ok {
		return model.Claim{}, ErrClaimNotFound
	}
	return claim, nil
}

// ResolveSend completes a send command whose Token names a stored claim,
// either by its store key or by its claim token. The store key moves to Key
// and Token becomes the claim uid. Clicks and signature come from the stored
// claim when both are empty. Commands for claims that are not stored are
// returned unchanged.
func (e *Engine) ResolveSend(ctx context.Context, cmd Command) (Command, error) {
	token := hexstr.Remove0xPrefix(cmd.Token)
	if token == "" {
		return cmd, nil
	}
	key, claim, ok, err := e.storedClaim(ctx, token)
	if err != nil || !ok {
		return cmd, err
	}
	cmd.Key = key
	if claim.Token != "" {
		cmd.Token = claim.Token
	}
	if cmd.Clicks == 0 && cmd.Signature == "" {
		cmd.Clicks, cmd.Signature = claim.Clicks, claim.Signature
	}
	return cmd, nil
}

// storedClaim finds a claim by store key, then by claim token.
func (e *Engine) storedClaim(ctx context.Context, token string) (string, model.Claim, bool, error) {
	claim, ok, err := e.store.Claim(ctx, token)
	if err != nil {
		return "", model.Claim{}, false, fmt.Errorf("load claim: %w", err)
	}
	if ok {
		return token, claim, true, nil
	}
	claims, err := e.store.Claims(ctx)
	if err != nil {
		return "", model.Claim{}, false, fmt.Errorf("load claims: %w", err)
	}
	for key, claim := range claims {
		if hexstr.Remove0xPrefix(claim.Token) == token {
			return key, claim, true, nil
		}
	}
	return "", model.Claim{}, false, nil
}

// ExportClaim returns the packed text of the claim stored under token.
func (e *Engine) ExportClaim(ctx context.Context, token string) (string, error) {
	claim, err := e.Claim(ctx, token)
	if err != nil {
		return "", err
	}
	return codec.Pack(claim), nil
}

// Claims lists the stored claims ordered by key.
func (e *Engine) Claims(ctx context.Context) ([]StoredClaim, error) {
	claims, err := e.store.Claims(ctx)
	if err != nil {
		return nil, fmt.Errorf("load claims: %w", err)
	}

	out := make([]StoredClaim, 0, len(claims))
	for key, claim := range claims {
		sc := StoredClaim{
			Key:          key,
			DisplayToken: hexstr.TruncateToken(claim.Token),
			Packed:       codec.Pack(claim),
			Claim:        claim,
		}
		if id, ok := e.networks.NetworkByContract(claim.Contract); ok {
			sc.Network = id
			sc.NetworkName = e.networks.Name(id)
		}
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// claimUID decodes a claim token into the bytes32 uid the contract expects.
func claimUID(token string) ([32]byte, error) {
	var uid [32]byte
	raw, err := hexutil.Decode(hexstr.Add0xPrefix(token))
	if err != nil {
		return uid, invalid("token", "%v", err)
	}
	if len(raw) != len(uid) {
		return uid, invalid("token", "expected %d bytes, got %d", len(uid), len(raw))
	}
	copy(uid[:], raw)
	return uid, nil
}

func decodeSignature(sig string) ([]byte, error) {
	raw, err := hexutil.Decode(hexstr.Add0xPrefix(sig))
	if err != nil {
		return nil, invalid("signature", "%v", err)
	}
	if len(raw) == 0 {
		return nil, missing("signature")
	}
	return raw, nil
}
