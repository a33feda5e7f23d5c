package provider_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
)

// fakeNode is a JSON-RPC endpoint that behaves like a wallet or node.
type fakeNode struct {
	mu            sync.Mutex
	clientVersion string
	chainID       int64
	accounts      []common.Address
	authorized    bool
	code          string
	callResult    string
	rejectRequest bool
	calls         map[string]int
	rawTxs        []*types.Transaction
	sentTxs       []map[string]any
}

func newFakeNode(t *testing.T) (*fakeNode, *httptest.Server) {
	t.Helper()

	n := &fakeNode{
		clientVersion: "Frame/v0.6.9",
		chainID:       137,
		accounts:      []common.Address{common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc454e4438f44e")},
		code:          "0x6080",
		callResult:    "0x0000000000000000000000000000000000000000000000000000000000001a0a",
		calls:         map[string]int{},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     uint64            `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}

		result, rpcErr := n.handle(t, req.Method, req.Params)
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		assert.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(server.Close)

	return n, server
}

func (n *fakeNode) handle(t *testing.T, method string, params []json.RawMessage) (any, map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.calls[method]++

	switch method {
	case "web3_clientVersion":
		return n.clientVersion, nil
	case "eth_chainId":
		return hexutil.EncodeUint64(uint64(n.chainID)), nil
	case "eth_requestAccounts":
		if n.rejectRequest {
			return nil, map[string]any{"code": 4001, "message": "user rejected the request."}
		}
		n.authorized = true
		return n.accounts, nil
	case "eth_accounts":
		if !n.authorized {
			return []string{}, nil
		}
		return n.accounts, nil
	case "eth_getCode":
		return n.code, nil
	case "eth_call":
		return n.callResult, nil
	case "eth_estimateGas":
		return "0x1d4c0", nil
	case "eth_gasPrice":
		return "0x6fc23ac00", nil
	case "eth_getTransactionCount":
		return "0x5", nil
	case "eth_sendTransaction":
		var tx map[string]any
		assert.NoError(t, json.Unmarshal(params[0], &tx))
		n.sentTxs = append(n.sentTxs, tx)
		return common.HexToHash("0x01").Hex(), nil
	case "eth_sendRawTransaction":
		var raw string
		assert.NoError(t, json.Unmarshal(params[0], &raw))
		data, err := hexutil.Decode(raw)
		assert.NoError(t, err)
		tx := new(types.Transaction)
		assert.NoError(t, tx.UnmarshalBinary(data))
		n.rawTxs = append(n.rawTxs, tx)
		return tx.Hash().Hex(), nil
	default:
		return nil, map[string]any{"code": -32601, "message": "method not found"}
	}
}

func (n *fakeNode) setChain(chainID int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.chainID = chainID
}

func (n *fakeNode) callCount(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

// configure mutates the node under its lock.
func (n *fakeNode) configure(fn func(n *fakeNode)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fn(n)
}

func (n *fakeNode) sent() []map[string]any {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]map[string]any(nil), n.sentTxs...)
}

func (n *fakeNode) raw() []*types.Transaction {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*types.Transaction(nil), n.rawTxs...)
}
