// Package chain resolves validated connections to the ClickToken contract.
package chain

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/onclick-backend/internal/model"
)

// Source names where a connection came from.
type Source string

const (
	SourceWallet Source = "wallet"
	SourceLocal  Source = "local"
	SourcePublic Source = "public"
)

// ErrUnknownNetwork is returned for a network id with no configuration.
var ErrUnknownNetwork = errors.New("unknown network")

// Binding is a connection validated against one network together with its
// signer, accounts and bound contract.
//
// A Binding with Success false carries the connection and signer for
// diagnostics only. Contract is nil in that case.
type Binding struct {
	Network  model.NetworkID
	Source   Source
	Conn     Connection
	Backend  Backend
	Signer   Signer
	Accounts []common.Address
	Contract ClickToken
	Success  bool
	Error    string

	mu      sync.Mutex
	refs    int
	retired bool
}

// Close releases the underlying connection.
func (b *Binding) Close() {
	if b != nil && b.Conn != nil {
		b.Conn.Close()
	}
}

// Release drops a reference taken by Cache.Resolve. The connection of a
// binding evicted from the cache is closed by its last Release.
func (b *Binding) Release() {
	if b == nil {
		return
	}
	b.mu.Lock()
	if b.refs > 0 {
		b.refs--
	}
	closeNow := b.retired && b.refs == 0
	b.mu.Unlock()
	if closeNow {
		b.Close()
	}
}

func (b *Binding) acquire() {
	b.mu.Lock()
	b.refs++
	b.mu.Unlock()
}

// retire closes b now when unused, otherwise on its last Release.
func (b *Binding) retire() {
	b.mu.Lock()
	b.retired = true
	closeNow := b.refs == 0
	b.mu.Unlock()
	if closeNow {
		b.Close()
	}
}
