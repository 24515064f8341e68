package service

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang/mock/gomock"
	"github.com/goodnatureofminers/onclick-backend/internal/chain"
	"github.com/goodnatureofminers/onclick-backend/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	mainnetContract = common.HexToAddress("0x4185c4aeb90d93da5b3bb865947e40ea7a192d21")
	devContract     = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	claimSigner     = common.HexToAddress("0x00000000000000000000000000000000000000f1")
	testRecipient   = common.HexToAddress("0x00000000000000000000000000000000000000a1")

	testKey    = strings.Repeat("ab", 32)
	testSig    = "0x" + strings.Repeat("11", 65)
	testNow    = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	testOutID  = uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")
	testAmount = new(big.Int).Mul(big.NewInt(3), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
)

func testNetworks(t *testing.T) *model.NetworkDescriptor {
	t.Helper()
	d, err := model.NewNetworkDescriptor(1,
		model.Network{ID: 1, Name: "mainnet", Contract: mainnetContract, Signers: []common.Address{claimSigner}},
		model.Network{ID: 1337, Name: "ganache", Contract: devContract},
	)
	require.NoError(t, err)
	return d
}

type engineMocks struct {
	store    *MockStore
	clicks   *MockClickService
	bindings *MockBindings
	token    *MockClickToken
	signer   *MockSigner
	receipts *MockReceiptReader
	journal  *MockJournal
	metrics  *MockMetrics
}

func newTestEngine(t *testing.T) (*Engine, *engineMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := &engineMocks{
		store:    NewMockStore(ctrl),
		clicks:   NewMockClickService(ctrl),
		bindings: NewMockBindings(ctrl),
		token:    NewMockClickToken(ctrl),
		signer:   NewMockSigner(ctrl),
		receipts: NewMockReceiptReader(ctrl),
		journal:  NewMockJournal(ctrl),
		metrics:  NewMockMetrics(ctrl),
	}
	e, err := NewEngine(zap.NewNop(), m.store, m.clicks, m.bindings, testNetworks(t), m.journal, m.metrics,
		NewBus(zap.NewNop()), EngineConfig{ReceiptPollInterval: time.Millisecond, ReconcileWorkers: 2})
	require.NoError(t, err)
	e.now = func() time.Time { return testNow }
	e.newID = func() uuid.UUID { return testOutID }
	return e, m
}

// binding returns a successful binding backed by the mocks.
func (m *engineMocks) binding(id model.NetworkID, accounts ...common.Address) *chain.Binding {
	if accounts == nil {
		accounts = []common.Address{testRecipient}
	}
	return &chain.Binding{
		Network:  id,
		Source:   chain.SourceLocal,
		Backend:  receiptBackend{reader: m.receipts},
		Signer:   m.signer,
		Accounts: accounts,
		Contract: m.token,
		Success:  true,
	}
}

// receiptBackend serves receipts from a mock and nothing else.
type receiptBackend struct {
	chain.Backend
	reader ReceiptReader
}

func (b receiptBackend) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return b.reader.TransactionReceipt(ctx, hash)
}

func testUID() [32]byte {
	var uid [32]byte
	copy(uid[:], common.FromHex(testKey))
	return uid
}

type bigIntMatcher struct{ want *big.Int }

func bigEq(v *big.Int) gomock.Matcher { return bigIntMatcher{want: v} }

func (m bigIntMatcher) Matches(x interface{}) bool {
	v, ok := x.(*big.Int)
	return ok && v != nil && v.Cmp(m.want) == 0
}

func (m bigIntMatcher) String() string { return "is big.Int " + m.want.String() }

type redemptionMatcher struct{ status model.RedemptionStatus }

func redemptionWithStatus(s model.RedemptionStatus) gomock.Matcher { return redemptionMatcher{status: s} }

func (m redemptionMatcher) Matches(x interface{}) bool {
	r, ok := x.(model.Redemption)
	return ok && r.Status == m.status && r.ID == testOutID && r.CreatedAt.Equal(testNow)
}

func (m redemptionMatcher) String() string { return fmt.Sprintf("is redemption with status %s", m.status) }

// dataError is an RPC error carrying error data, as returned by nodes.
type dataError struct {
	msg  string
	data interface{}
}

func (e *dataError) Error() string          { return e.msg }
func (e *dataError) ErrorData() interface{} { return e.data }

func revertData(t *testing.T, reason string) string {
	t.Helper()
	stringType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: stringType}}.Pack(reason)
	require.NoError(t, err)
	return hexutil.Encode(append(crypto.Keccak256([]byte("Error(string)"))[:4], packed...))
}
