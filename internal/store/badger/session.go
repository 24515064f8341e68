package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goodnatureofminers/onclick-backend/internal/model"
)

// SessionToken returns the click session token, empty when there is none.
func (s *Store) SessionToken(ctx context.Context) (token string, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("session_token", err, started)
	}()

	err = s.view(ctx, func(txn *badger.Txn) error {
		raw, _, err := get(txn, keySessionToken)
		token = string(raw)
		return err
	})
	return token, err
}

// SetSessionToken persists token. An empty token resets the session.
func (s *Store) SetSessionToken(ctx context.Context, token string) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("set_session_token", err, started)
	}()

	return s.update(ctx, func(txn *badger.Txn) error {
		if token == "" {
			return txn.Delete([]byte(keySessionToken))
		}
		return txn.Set([]byte(keySessionToken), []byte(token))
	})
}

// Network returns the selected network id, if one was stored.
func (s *Store) Network(ctx context.Context) (id model.NetworkID, ok bool, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("network", err, started)
	}()

	err = s.view(ctx, func(txn *badger.Txn) error {
		raw, found, err := get(txn, keyNetwork)
		if err != nil || !found {
			return err
		}
		id, err = model.ParseNetworkID(string(raw))
		if err != nil {
			return fmt.Errorf("stored network: %w", err)
		}
		ok = true
		return nil
	})
	return id, ok, err
}

// SetNetwork persists the selected network id.
func (s *Store) SetNetwork(ctx context.Context, id model.NetworkID) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("set_network", err, started)
	}()

	return s.update(ctx, func(txn *badger.Txn) error {
		return txn.Set([]byte(keyNetwork), []byte(id.String()))
	})
}
