package cli

import (
	"bytes"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capnganj/PoisonToadsDapp/internal/contract"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// testAccount is the wallet account the fake node authorizes.
var testAccount = common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc454e4438f44e")

// withMockPrompts replaces prompt functions for testing and restores on cleanup.
func withMockPrompts(t *testing.T, passphrase []byte, confirm bool) {
	t.Helper()
	origPW := promptPasswordFn
	origNewPW := promptNewPasswordFn
	origConfirm := promptConfirmFn
	origMnemonic := promptMnemonicFn
	t.Cleanup(func() {
		promptPasswordFn = origPW
		promptNewPasswordFn = origNewPW
		promptConfirmFn = origConfirm
		promptMnemonicFn = origMnemonic
	})
	promptPasswordFn = func(_ string) ([]byte, error) {
		return bytes.Clone(passphrase), nil
	}
	promptNewPasswordFn = func() ([]byte, error) {
		return bytes.Clone(passphrase), nil
	}
	promptConfirmFn = func(_ string) bool { return confirm }
	promptMnemonicFn = func() (string, error) { return testMnemonic, nil }
}

// resetFlags restores every flag to its default so runs do not leak into each other.
func resetFlags(t *testing.T) {
	t.Helper()
	walkCommands(rootCmd, func(cmd *cobra.Command) {
		reset := func(f *pflag.Flag) {
			if f.Value.Type() == "stringSlice" || f.Value.Type() == "stringArray" {
				return
			}
			require.NoError(t, f.Value.Set(f.DefValue))
			f.Changed = false
		}
		cmd.Flags().VisitAll(reset)
		cmd.PersistentFlags().VisitAll(reset)
	})
}

// runCLI executes the root command with args and returns stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	origOut, origErr := stdout, stderr
	stdout, stderr = &outBuf, &errBuf
	t.Cleanup(func() {
		stdout, stderr = origOut, origErr
		cfg, logger, formatter = nil, nil, nil
	})

	resetFlags(t)
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := Execute()
	return outBuf.String(), errBuf.String(), err
}

// setupGlobals initializes the globals the way PersistentPreRunE does, for
// tests that call command internals directly.
func setupGlobals(t *testing.T, rpc string) {
	t.Helper()
	resetFlags(t)
	homeDir, rpcURL, outputFormat = t.TempDir(), rpc, "json"
	require.NoError(t, initGlobals())
	t.Cleanup(func() {
		cleanup()
		resetFlags(t)
		cfg, logger, formatter = nil, nil, nil
	})
}

// fakeNode is a JSON-RPC wallet endpoint with the collection deployed.
type fakeNode struct {
	mu            sync.Mutex
	clientVersion string
	chainID       int64
	authorized    bool
	rejectRequest bool
	code          string
	values        map[string][]any
	calls         map[string]int
	sent          []map[string]any
}

func newFakeNode(t *testing.T) (*fakeNode, string) {
	t.Helper()

	n := &fakeNode{
		clientVersion: "Frame/v0.6.9",
		chainID:       137,
		authorized:    true,
		code:          "0x6080",
		values: map[string][]any{
			contract.MethodMaxSupply:          {big.NewInt(6666)},
			contract.MethodTotalSupply:        {big.NewInt(1234)},
			contract.MethodMaxMintAmountPerTx: {big.NewInt(10)},
			contract.MethodCost:               {big.NewInt(100000000000000000)},
			contract.MethodPaused:             {false},
			contract.MethodDiscountCost:       {big.NewInt(50000000000000000)},
		},
		calls: map[string]int{},
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

	return n, server.URL
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
			return nil, map[string]any{"code": 4001, "message": "User rejected the request."}
		}
		n.authorized = true
		return []common.Address{testAccount}, nil
	case "eth_accounts":
		if !n.authorized {
			return []string{}, nil
		}
		return []common.Address{testAccount}, nil
	case "eth_getCode":
		return n.code, nil
	case "eth_call":
		return n.call(t, params[0])
	case "eth_sendTransaction":
		var tx map[string]any
		assert.NoError(t, json.Unmarshal(params[0], &tx))
		n.sent = append(n.sent, tx)
		return common.HexToHash("0xbeef").Hex(), nil
	default:
		return nil, map[string]any{"code": -32601, "message": "method not found"}
	}
}

// call answers a contract read by matching the selector against the ABI.
func (n *fakeNode) call(t *testing.T, raw json.RawMessage) (any, map[string]any) {
	var msg struct {
		Data string `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(raw, &msg))
	data, err := hexutil.Decode(msg.Data)
	assert.NoError(t, err)

	parsed, err := contract.ABI()
	assert.NoError(t, err)

	for name, m := range parsed.Methods {
		if len(data) < 4 || !bytes.Equal(data[:4], m.ID) {
			continue
		}
		out, err := m.Outputs.Pack(n.values[name]...)
		assert.NoError(t, err)
		return hexutil.Encode(out), nil
	}
	return nil, map[string]any{"code": -32000, "message": "execution reverted"}
}

func (n *fakeNode) configure(fn func(n *fakeNode)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fn(n)
}

func (n *fakeNode) callCount(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

func (n *fakeNode) transactions() []map[string]any {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]map[string]any(nil), n.sent...)
}

// homeArgs returns the flags pointing a run at a temp home and the fake node.
func homeArgs(t *testing.T, rpc string) []string {
	t.Helper()
	return []string{"--home", t.TempDir(), "--rpc", rpc}
}

// decodeJSON unmarshals s into a generic map.
func decodeJSON(t *testing.T, s string) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(s)), &v), s)
	return v
}
