package dapp_test

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/stretchr/testify/require"

	"github.com/capnganj/PoisonToadsDapp/internal/chain"
	"github.com/capnganj/PoisonToadsDapp/internal/contract"
	"github.com/capnganj/PoisonToadsDapp/internal/provider"
)

var (
	collectionAddress = common.HexToAddress("0xe6bda205de2f968271166C4b2650DefB38895De1")
	alice             = common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
	bob               = common.HexToAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94")
)

var errNoMethod = errors.New("unknown method")

// fakeWallet is an in-memory wallet and chain with the collection deployed.
type fakeWallet struct {
	mu         sync.Mutex
	detection  provider.Detection
	accounts   []common.Address
	requestErr error
	chainID    int64
	code       []byte
	values     map[string][]any
	fail       map[string]error
	sendErr    error

	// listHook, when set, replaces ListAccounts.
	listHook func(ctx context.Context) ([]common.Address, error)
	// callHook runs before every contract call.
	callHook func()

	requests int
	lists    int
	codes    int
	calls    []string
	sent     []ethereum.CallMsg

	accountsFeed event.Feed
	chainFeed    event.Feed
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{
		detection: provider.Detection{Found: true, Compatible: true, ClientVersion: "Frame/v0.6.9"},
		accounts:  []common.Address{alice},
		chainID:   chain.PolygonMainnet,
		code:      []byte{0x60, 0x80},
		values: map[string][]any{
			contract.MethodMaxSupply:          {big.NewInt(6666)},
			contract.MethodTotalSupply:        {big.NewInt(1234)},
			contract.MethodMaxMintAmountPerTx: {big.NewInt(10)},
			contract.MethodCost:               {big.NewInt(100000000000000000)},
			contract.MethodPaused:             {false},
			contract.MethodDiscountCost:       {big.NewInt(50000000000000000)},
		},
		fail: map[string]error{},
	}
}

func (f *fakeWallet) configure(fn func(f *fakeWallet)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeWallet) Detect(context.Context) (provider.Detection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detection, nil
}

func (f *fakeWallet) RequestAccounts(context.Context) ([]common.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	return append([]common.Address(nil), f.accounts...), nil
}

func (f *fakeWallet) ListAccounts(ctx context.Context) ([]common.Address, error) {
	f.mu.Lock()
	f.lists++
	hook := f.listHook
	accounts := append([]common.Address(nil), f.accounts...)
	f.mu.Unlock()

	if hook != nil {
		return hook(ctx)
	}
	return accounts, nil
}

func (f *fakeWallet) GetNetwork(context.Context) (chain.Network, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return chain.NewNetwork(f.chainID), nil
}

func (f *fakeWallet) GetCode(context.Context, common.Address) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes++
	return f.code, nil
}

func (f *fakeWallet) CallContract(_ context.Context, msg ethereum.CallMsg) ([]byte, error) {
	parsed, err := contract.ABI()
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	hook := f.callHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}

	for name, method := range parsed.Methods {
		if !bytes.Equal(msg.Data[:4], method.ID) {
			continue
		}

		f.mu.Lock()
		f.calls = append(f.calls, name)
		failErr := f.fail[name]
		values := f.values[name]
		f.mu.Unlock()

		if failErr != nil {
			return nil, failErr
		}
		return method.Outputs.Pack(values...)
	}
	return nil, errNoMethod
}

func (f *fakeWallet) SendTransaction(_ context.Context, msg ethereum.CallMsg) (common.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return common.Hash{}, f.sendErr
	}
	f.sent = append(f.sent, msg)
	return common.HexToHash("0xfeed"), nil
}

func (f *fakeWallet) SubscribeAccountsChanged(ch chan<- []common.Address) event.Subscription {
	return f.accountsFeed.Subscribe(ch)
}

func (f *fakeWallet) SubscribeChainChanged(ch chan<- chain.Network) event.Subscription {
	return f.chainFeed.Subscribe(ch)
}

func (f *fakeWallet) Close() {}

func (f *fakeWallet) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeWallet) counts() (requests, lists, codes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests, f.lists, f.codes
}

func (f *fakeWallet) transactions() []ethereum.CallMsg {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ethereum.CallMsg(nil), f.sent...)
}

// changeChain switches the active chain and notifies subscribers.
func (f *fakeWallet) changeChain(t *testing.T, chainID int64) {
	t.Helper()
	f.configure(func(f *fakeWallet) { f.chainID = chainID })
	require.Positive(t, f.chainFeed.Send(chain.NewNetwork(chainID)))
}

// changeAccounts switches the authorized accounts and notifies subscribers.
func (f *fakeWallet) changeAccounts(t *testing.T, accounts ...common.Address) {
	t.Helper()
	f.configure(func(f *fakeWallet) { f.accounts = accounts })
	require.Positive(t, f.accountsFeed.Send(accounts))
}
