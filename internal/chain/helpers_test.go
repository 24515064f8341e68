package chain

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/goodnatureofminers/onclick-backend/internal/model"
	"github.com/stretchr/testify/require"
)

var (
	mainnetContract = common.HexToAddress("0x4185c4aeb90d93da5b3bb865947e40ea7a192d21")
	devContract     = common.HexToAddress("0x1eAE8a37314B3A8371C9714606a3bA2f2d9d3EbC")
	account         = common.HexToAddress("0x00000000000000000000000000000000000000aa")
)

func testNetworks(t *testing.T) *model.NetworkDescriptor {
	t.Helper()
	d, err := model.NewNetworkDescriptor(1,
		model.Network{ID: 1, Name: "mainnet", Contract: mainnetContract, RPCURL: "https://public.example"},
		model.Network{ID: 1337, Name: "ganache", Contract: devContract},
	)
	require.NoError(t, err)
	return d
}

// setResult returns a CallContext stub storing v into the result pointer.
func setResult[T any](v T) func(context.Context, interface{}, string, ...interface{}) error {
	return func(_ context.Context, result interface{}, _ string, _ ...interface{}) error {
		*result.(*T) = v
		return nil
	}
}

func hexBig(v int64) hexutil.Big {
	return hexutil.Big(*big.NewInt(v))
}
