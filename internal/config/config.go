// Package config holds the command line option groups shared by the binaries.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/onclick-backend/internal/model"
	"github.com/goodnatureofminers/onclick-backend/pkg/batcher"
)

const (
	DefaultContract = "0x4185c4aeb90d93da5b3bb865947e40ea7a192d21"
	DefaultRPCURL   = "https://cloudflare-eth.com"
)

// Store configures the local claim store.
type Store struct {
	Path string `long:"store-path" env:"ONCLICK_STORE_PATH" description:"Badger directory; state is kept in memory when empty"`
}

// ClickService configures the click counting service client.
type ClickService struct {
	URL     string        `long:"click-url" env:"ONCLICK_CLICK_URL" default:"http://localhost:8888" description:"Click service base URL"`
	Timeout time.Duration `long:"click-timeout" env:"ONCLICK_CLICK_TIMEOUT" default:"30s" description:"Click service request timeout"`
}

// Chain configures provider resolution, signing keys and networks.
type Chain struct {
	WalletURL      string        `long:"wallet-url" env:"ONCLICK_WALLET_URL" description:"Account-holding RPC endpoint; always preferred when set"`
	LocalURL       string        `long:"local-url" env:"ONCLICK_LOCAL_URL" default:"http://localhost:8545" description:"Local node probed before the public RPC"`
	ProbeTimeout   time.Duration `long:"probe-timeout" env:"ONCLICK_PROBE_TIMEOUT" default:"2s" description:"Local node probe timeout"`
	WatchInterval  time.Duration `long:"watch-interval" env:"ONCLICK_WATCH_INTERVAL" default:"5s" description:"Wallet account and chain polling interval"`
	ReceiptPoll    time.Duration `long:"receipt-poll" env:"ONCLICK_RECEIPT_POLL" default:"2s" description:"Transaction receipt polling interval"`
	PrivateKey     string        `long:"private-key" env:"ONCLICK_PRIVATE_KEY" description:"Hex private key used to sign transactions"`
	Keystore       string        `long:"keystore" env:"ONCLICK_KEYSTORE" description:"Encrypted keystore file used to sign transactions"`
	Passphrase     string        `long:"passphrase" env:"ONCLICK_PASSPHRASE" description:"Keystore passphrase"`
	Networks       []Network     `long:"network" description:"Network as id=1,name=mainnet,contract=0x..,rpc=https://..,signers=0xA;0xB (repeatable)"`
	DefaultNetwork uint64        `long:"default-network" env:"ONCLICK_DEFAULT_NETWORK" default:"1" description:"Network used until one is selected"`
}

// Journal configures the ClickHouse redemption journal. It is disabled when
// the DSN is empty.
type Journal struct {
	DSN           string        `long:"journal-dsn" env:"ONCLICK_JOURNAL_DSN" description:"ClickHouse DSN of the redemption journal"`
	FlushSize     int           `long:"journal-flush-size" env:"ONCLICK_JOURNAL_FLUSH_SIZE" default:"100" description:"Redemptions per journal insert"`
	FlushInterval time.Duration `long:"journal-flush-interval" env:"ONCLICK_JOURNAL_FLUSH_INTERVAL" default:"5s" description:"Maximum delay before buffered redemptions are written"`
	RPS           int           `long:"journal-rps" env:"ONCLICK_JOURNAL_RPS" default:"10" description:"Maximum journal inserts per second"`
}

// Batcher returns the batching settings of the journal.
func (j Journal) Batcher() batcher.Config {
	return batcher.Config{
		FlushSize:     j.FlushSize,
		FlushInterval: j.FlushInterval,
		RPS:           j.RPS,
	}
}

// Options groups everything a claim engine needs.
type Options struct {
	Store   Store        `group:"Store"`
	Clicks  ClickService `group:"Click service"`
	Chain   Chain        `group:"Chain"`
	Journal Journal      `group:"Journal"`
}

// DefaultNetworks is the deployment used when no --network is given.
func DefaultNetworks() []model.Network {
	return []model.Network{{
		ID:       1,
		Name:     "mainnet",
		Contract: common.HexToAddress(DefaultContract),
		RPCURL:   DefaultRPCURL,
	}}
}

// Descriptor builds the network descriptor from the configured networks.
func (c Chain) Descriptor() (*model.NetworkDescriptor, error) {
	networks := DefaultNetworks()
	if len(c.Networks) > 0 {
		networks = make([]model.Network, 0, len(c.Networks))
		for _, n := range c.Networks {
			networks = append(networks, model.Network(n))
		}
	}
	return model.NewNetworkDescriptor(model.NetworkID(c.DefaultNetwork), networks...)
}

// Network is a model.Network parsed from a --network flag value.
type Network model.Network

// UnmarshalFlag implements flags.Unmarshaler.
func (n *Network) UnmarshalFlag(value string) error {
	var out Network
	for _, field := range strings.Split(value, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		key, val, ok := strings.Cut(field, "=")
		if !ok {
			return fmt.Errorf("network field %q is not key=value", field)
		}
		val = strings.TrimSpace(val)
		switch strings.TrimSpace(key) {
		case "id":
			id, err := model.ParseNetworkID(val)
			if err != nil {
				return err
			}
			out.ID = id
		case "name":
			out.Name = val
		case "contract":
			addr, err := parseAddress(val)
			if err != nil {
				return fmt.Errorf("contract: %w", err)
			}
			out.Contract = addr
		case "rpc":
			out.RPCURL = val
		case "signers":
			for _, s := range strings.Split(val, ";") {
				if s = strings.TrimSpace(s); s == "" {
					continue
				}
				addr, err := parseAddress(s)
				if err != nil {
					return fmt.Errorf("signer: %w", err)
				}
				out.Signers = append(out.Signers, addr)
			}
		default:
			return fmt.Errorf("unknown network field %q", key)
		}
	}
	if out.ID == 0 {
		return errors.New("network id is required")
	}
	if out.Contract == (common.Address{}) {
		return errors.New("network contract is required")
	}
	*n = out
	return nil
}

// MarshalFlag implements flags.Marshaler.
func (n Network) MarshalFlag() (string, error) {
	parts := []string{
		"id=" + strconv.FormatUint(uint64(n.ID), 10),
		"contract=" + n.Contract.Hex(),
	}
	if n.Name != "" {
		parts = append(parts, "name="+n.Name)
	}
	if n.RPCURL != "" {
		parts = append(parts, "rpc="+n.RPCURL)
	}
	if len(n.Signers) > 0 {
		signers := make([]string, 0, len(n.Signers))
		for _, s := range n.Signers {
			signers = append(signers, s.Hex())
		}
		parts = append(parts, "signers="+strings.Join(signers, ";"))
	}
	return strings.Join(parts, ","), nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%q is not an address", s)
	}
	return common.HexToAddress(s), nil
}
