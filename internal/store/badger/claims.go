package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goodnatureofminers/onclick-backend/internal/model"
	"github.com/goodnatureofminers/onclick-backend/pkg/hexstr"
)

// Claims returns every stored claim keyed by token without the 0x prefix.
func (s *Store) Claims(ctx context.Context) (claims map[string]model.Claim, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("claims", err, started)
	}()

	err = s.view(ctx, func(txn *badger.Txn) error {
		claims, err = readClaims(txn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Claim returns the claim stored under token.
func (s *Store) Claim(ctx context.Context, token string) (claim model.Claim, ok bool, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("claim", err, started)
	}()

	err = s.view(ctx, func(txn *badger.Txn) error {
		claims, err := readClaims(txn)
		if err != nil {
			return err
		}
		claim, ok = claims[hexstr.Remove0xPrefix(token)]
		return nil
	})
	return claim, ok, err
}

// PutClaim stores claim under key, replacing any previous entry.
func (s *Store) PutClaim(ctx context.Context, key string, claim model.Claim) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("put_claim", err, started)
	}()

	return s.update(ctx, func(txn *badger.Txn) error {
		return putClaim(txn, key, claim)
	})
}

// SaveGeneratedClaim stores a freshly issued claim and clears the session
// token in one transaction.
func (s *Store) SaveGeneratedClaim(ctx context.Context, key string, claim model.Claim) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("save_generated_claim", err, started)
	}()

	return s.update(ctx, func(txn *badger.Txn) error {
		if err := putClaim(txn, key, claim); err != nil {
			return err
		}
		if err := txn.Delete([]byte(keySessionToken)); err != nil {
			return fmt.Errorf("clear session token: %w", err)
		}
		return nil
	})
}

// DeleteClaim removes the claim stored under token and reports whether it
// existed.
func (s *Store) DeleteClaim(ctx context.Context, token string) (deleted bool, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("delete_claim", err, started)
	}()

	err = s.update(ctx, func(txn *badger.Txn) error {
		claims, err := readClaims(txn)
		if err != nil {
			return err
		}
		key := hexstr.Remove0xPrefix(token)
		if _, deleted = claims[key]; !deleted {
			return nil
		}
		delete(claims, key)
		return writeClaims(txn, claims)
	})
	return deleted, err
}

func putClaim(txn *badger.Txn, key string, claim model.Claim) error {
	key = hexstr.Remove0xPrefix(key)
	if key == "" {
		return fmt.Errorf("claim key is required")
	}
	claims, err := readClaims(txn)
	if err != nil {
		return err
	}
	claims[key] = claim
	return writeClaims(txn, claims)
}

func readClaims(txn *badger.Txn) (map[string]model.Claim, error) {
	raw, ok, err := get(txn, keyClaims)
	if err != nil {
		return nil, err
	}
	claims := make(map[string]model.Claim)
	if !ok {
		return claims, nil
	}
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}
	return claims, nil
}

func writeClaims(txn *badger.Txn, claims map[string]model.Claim) error {
	raw, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("encode claims: %w", err)
	}
	if err := txn.Set([]byte(keyClaims), raw); err != nil {
		return fmt.Errorf("set claims: %w", err)
	}
	return nil
}
