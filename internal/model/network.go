package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NetworkID is a numeric chain identifier.
type NetworkID uint64

// String renders the id the way it is persisted.
func (id NetworkID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseNetworkID parses a decimal chain id.
func ParseNetworkID(s string) (NetworkID, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse network id %q: %w", s, err)
	}
	return NetworkID(v), nil
}

// Network describes a chain the ClickToken contract is deployed on.
type Network struct {
	ID       NetworkID
	Name     string
	Contract common.Address
	RPCURL   string
	// Signers is the set of off-chain claim signers accepted for this network.
	Signers []common.Address
}

// IsSigner reports whether addr is one of the configured claim signers.
func (n Network) IsSigner(addr common.Address) bool {
	for _, s := range n.Signers {
		if s == addr {
			return true
		}
	}
	return false
}

// NetworkDescriptor maps network ids to names and contract addresses, and
// contract addresses back to network ids.
type NetworkDescriptor struct {
	defaultID  NetworkID
	networks   map[NetworkID]Network
	byContract map[common.Address]NetworkID
}

// NewNetworkDescriptor validates networks and builds the lookup tables.
// Contract addresses are compared case-insensitively and must be unique.
func NewNetworkDescriptor(defaultID NetworkID, networks ...Network) (*NetworkDescriptor, error) {
	if len(networks) == 0 {
		return nil, fmt.Errorf("at least one network is required")
	}

	d := &NetworkDescriptor{
		defaultID:  defaultID,
		networks:   make(map[NetworkID]Network, len(networks)),
		byContract: make(map[common.Address]NetworkID, len(networks)),
	}
	for _, n := range networks {
		if _, ok := d.networks[n.ID]; ok {
			return nil, fmt.Errorf("network %d configured twice", n.ID)
		}
		if n.Contract == (common.Address{}) {
			return nil, fmt.Errorf("network %d has no contract address", n.ID)
		}
		if other, ok := d.byContract[n.Contract]; ok {
			return nil, fmt.Errorf("contract %s is configured for networks %d and %d", n.Contract.Hex(), other, n.ID)
		}
		if n.Name == "" {
			n.Name = n.ID.String()
		}
		d.networks[n.ID] = n
		d.byContract[n.Contract] = n.ID
	}
	if _, ok := d.networks[defaultID]; !ok {
		return nil, fmt.Errorf("default network %d is not configured", defaultID)
	}
	return d, nil
}

// Default returns the network used when none has been selected.
func (d *NetworkDescriptor) Default() NetworkID {
	return d.defaultID
}

// Network returns the configuration for id.
func (d *NetworkDescriptor) Network(id NetworkID) (Network, bool) {
	n, ok := d.networks[id]
	return n, ok
}

// Name returns the human-readable name for id, or an empty string.
func (d *NetworkDescriptor) Name(id NetworkID) string {
	return d.networks[id].Name
}

// Contract returns the contract address deployed on id.
func (d *NetworkDescriptor) Contract(id NetworkID) (common.Address, bool) {
	n, ok := d.networks[id]
	return n.Contract, ok
}

// NetworkByContract resolves the network a contract address belongs to.
func (d *NetworkDescriptor) NetworkByContract(contract string) (NetworkID, bool) {
	if !common.IsHexAddress(contract) {
		return 0, false
	}
	id, ok := d.byContract[common.HexToAddress(contract)]
	return id, ok
}

// Networks returns every configured network ordered by id.
func (d *NetworkDescriptor) Networks() []Network {
	out := make([]Network, 0, len(d.networks))
	for _, n := range d.networks {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
