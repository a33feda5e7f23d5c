// Package rpc provides a minimal JSON-RPC 2.0 client for Ethereum nodes and
// wallets that expose the Ethereum provider API over HTTP.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"github.com/capnganj/PoisonToadsDapp/internal/chain"
	"github.com/capnganj/PoisonToadsDapp/internal/metrics"
	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

var (
	// ErrRPCRequest indicates an RPC request failed before a response was read.
	ErrRPCRequest = &dapperr.DappError{
		Code:     "RPC_REQUEST_FAILED",
		Message:  "RPC request failed",
		ExitCode: dapperr.ExitGeneral,
	}

	// ErrRPCResponse indicates an invalid RPC response.
	ErrRPCResponse = &dapperr.DappError{
		Code:     "RPC_INVALID_RESPONSE",
		Message:  "invalid RPC response",
		ExitCode: dapperr.ExitGeneral,
	}

	// ErrInvalidHexNumber indicates an invalid hex number.
	ErrInvalidHexNumber = &dapperr.DappError{
		Code:     "RPC_INVALID_HEX",
		Message:  "invalid hex number",
		ExitCode: dapperr.ExitGeneral,
	}
)

// Client is a minimal Ethereum JSON-RPC client.
type Client struct {
	url        string
	httpClient *http.Client
	limiter    *chain.RateLimiter
	logger     *zap.Logger
	metrics    *metrics.Metrics
	idCounter  atomic.Uint64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimiter throttles calls through limiter, keyed by endpoint URL.
func WithRateLimiter(limiter *chain.RateLimiter) Option {
	return func(c *Client) { c.limiter = limiter }
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics records call counts and latency into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a new RPC client.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:        url,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the endpoint the client talks to.
func (c *Client) URL() string {
	return c.url
}

// request represents a JSON-RPC 2.0 request.
type request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      uint64 `json:"id"`
}

// response represents a JSON-RPC 2.0 response.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC error object returned by a node or wallet.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// ProviderMessage returns the message the wallet or node attached to the error.
func (e *Error) ProviderMessage() string {
	return e.Message
}

// DataMessage extracts a human-readable message from the error data.
// Wallets send either {"message": "..."} objects, plain strings, or
// ABI-encoded Error(string) revert payloads.
func (e *Error) DataMessage() string {
	if len(e.Data) == 0 {
		return ""
	}

	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.Data, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}

	var s string
	if err := json.Unmarshal(e.Data, &s); err != nil || s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "0x") {
		return s
	}

	payload, err := hexutil.Decode(s)
	if err != nil {
		return ""
	}
	reason, err := abi.UnpackRevert(payload)
	if err != nil {
		return ""
	}
	return reason
}

// Call performs a JSON-RPC call.
func (c *Client) Call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	start := time.Now()
	result, err := c.call(ctx, method, params)
	elapsed := time.Since(start)

	if c.metrics != nil {
		c.metrics.RecordRPCCall(elapsed, err)
	}
	if err != nil {
		c.logger.Debug("rpc call failed", zap.String("method", method), zap.Duration("elapsed", elapsed), zap.Error(err))
	} else {
		c.logger.Debug("rpc call", zap.String("method", method), zap.Duration("elapsed", elapsed))
	}

	return result, err
}

func (c *Client) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.url); err != nil {
			return nil, err
		}
	}

	req := request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.idCounter.Add(1),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, dapperr.WithCause(ErrRPCRequest, err)
	}
	// Body.Close error is intentionally ignored as it only fails if the
	// connection is already broken, and there's no recovery action.
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var resp response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, dapperr.WithCause(ErrRPCResponse, err)
	}

	if resp.Error != nil {
		return nil, resp.Error
	}

	return resp.Result, nil
}

// callString performs a call whose result is a JSON string.
func (c *Client) callString(ctx context.Context, what, method string, params ...any) (string, error) {
	result, err := c.Call(ctx, method, params...)
	if err != nil {
		return "", err
	}

	var s string
	if err := json.Unmarshal(result, &s); err != nil {
		return "", fmt.Errorf("parsing %s: %w", what, err)
	}
	return s, nil
}

// ClientVersion returns the web3_clientVersion string.
func (c *Client) ClientVersion(ctx context.Context) (string, error) {
	return c.callString(ctx, "client version", "web3_clientVersion")
}

// ChainID returns the chain ID.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	hexVal, err := c.callString(ctx, "chain ID", "eth_chainId")
	if err != nil {
		return nil, err
	}
	return parseHexBigInt(hexVal)
}

// Accounts returns the accounts the wallet currently exposes (eth_accounts).
func (c *Client) Accounts(ctx context.Context) ([]common.Address, error) {
	return c.accounts(ctx, "eth_accounts")
}

// RequestAccounts asks the wallet for account access (eth_requestAccounts).
func (c *Client) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	return c.accounts(ctx, "eth_requestAccounts")
}

func (c *Client) accounts(ctx context.Context, method string) ([]common.Address, error) {
	result, err := c.Call(ctx, method)
	if err != nil {
		return nil, err
	}

	var raw []string
	if err := json.Unmarshal(result, &raw); err != nil {
		return nil, fmt.Errorf("parsing accounts: %w", err)
	}

	accounts := make([]common.Address, 0, len(raw))
	for _, a := range raw {
		if !common.IsHexAddress(a) {
			return nil, dapperr.WithDetails(dapperr.ErrInvalidAddress, map[string]string{"address": a})
		}
		accounts = append(accounts, common.HexToAddress(a))
	}
	return accounts, nil
}

// GetCode returns the bytecode deployed at address. An empty slice means no contract.
func (c *Client) GetCode(ctx context.Context, address common.Address, block string) ([]byte, error) {
	if block == "" {
		block = "latest"
	}

	hexVal, err := c.callString(ctx, "code", "eth_getCode", address.Hex(), block)
	if err != nil {
		return nil, err
	}
	return parseHexBytes(hexVal)
}

// GetTransactionCount returns the nonce for an address.
func (c *Client) GetTransactionCount(ctx context.Context, address common.Address, block string) (uint64, error) {
	if block == "" {
		block = "pending"
	}

	hexVal, err := c.callString(ctx, "nonce", "eth_getTransactionCount", address.Hex(), block)
	if err != nil {
		return 0, err
	}

	n, err := parseHexBigInt(hexVal)
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// GasPrice returns the current gas price in wei.
func (c *Client) GasPrice(ctx context.Context) (*big.Int, error) {
	hexVal, err := c.callString(ctx, "gas price", "eth_gasPrice")
	if err != nil {
		return nil, err
	}
	return parseHexBigInt(hexVal)
}

// CallMsg represents the parameters for eth_call, eth_estimateGas and eth_sendTransaction.
type CallMsg struct {
	From  *common.Address
	To    common.Address
	Gas   uint64
	Value *big.Int
	Data  []byte
}

// MarshalJSON implements custom JSON marshaling for CallMsg.
func (m CallMsg) MarshalJSON() ([]byte, error) {
	type callMsgJSON struct {
		From  *common.Address `json:"from,omitempty"`
		To    common.Address  `json:"to"`
		Gas   string          `json:"gas,omitempty"`
		Value string          `json:"value,omitempty"`
		Data  string          `json:"data,omitempty"`
	}

	msg := callMsgJSON{
		From: m.From,
		To:   m.To,
	}

	if m.Gas > 0 {
		msg.Gas = hexutil.EncodeUint64(m.Gas)
	}
	if m.Value != nil && m.Value.Sign() > 0 {
		msg.Value = hexutil.EncodeBig(m.Value)
	}
	if len(m.Data) > 0 {
		msg.Data = hexutil.Encode(m.Data)
	}

	return json.Marshal(msg)
}

// EthCall performs an eth_call.
func (c *Client) EthCall(ctx context.Context, msg CallMsg, block string) ([]byte, error) {
	if block == "" {
		block = "latest"
	}

	hexVal, err := c.callString(ctx, "call result", "eth_call", msg, block)
	if err != nil {
		return nil, err
	}
	return parseHexBytes(hexVal)
}

// EstimateGas estimates the gas needed for a transaction.
func (c *Client) EstimateGas(ctx context.Context, msg CallMsg) (uint64, error) {
	hexVal, err := c.callString(ctx, "gas estimate", "eth_estimateGas", msg)
	if err != nil {
		return 0, err
	}

	n, err := parseHexBigInt(hexVal)
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// SendTransaction asks the wallet to sign and broadcast a transaction.
// Returns the transaction hash.
func (c *Client) SendTransaction(ctx context.Context, msg CallMsg) (common.Hash, error) {
	txHash, err := c.callString(ctx, "tx hash", "eth_sendTransaction", msg)
	if err != nil {
		return common.Hash{}, err
	}
	return common.HexToHash(txHash), nil
}

// SendRawTransaction sends a signed transaction.
// Returns the transaction hash.
func (c *Client) SendRawTransaction(ctx context.Context, signedTx []byte) (common.Hash, error) {
	txHash, err := c.callString(ctx, "tx hash", "eth_sendRawTransaction", hexutil.Encode(signedTx))
	if err != nil {
		return common.Hash{}, err
	}
	return common.HexToHash(txHash), nil
}

// parseHexBigInt parses a hex string (with or without 0x prefix) to big.Int.
func parseHexBigInt(s string) (*big.Int, error) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return big.NewInt(0), nil
	}

	n := new(big.Int)
	if _, ok := n.SetString(s, 16); !ok {
		return nil, dapperr.WithDetails(ErrInvalidHexNumber, map[string]string{"value": s})
	}

	return n, nil
}

// parseHexBytes parses a hex string to bytes. "0x" decodes to an empty slice.
func parseHexBytes(s string) ([]byte, error) {
	if s == "" || s == "0x" {
		return []byte{}, nil
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, dapperr.WithCause(ErrRPCResponse, err)
	}
	return b, nil
}
