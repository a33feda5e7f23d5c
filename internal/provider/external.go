package provider

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/capnganj/PoisonToadsDapp/internal/chain/eth/rpc"
)

// External is a wallet that exposes the Ethereum provider API over JSON-RPC
// (Frame, or a browser wallet bridged to HTTP). The wallet owns the keys and
// asks the user to approve account access and transactions.
type External struct {
	nodeBackend
	clients []string
}

// NewExternal creates a backend over client. walletClients are the accepted
// web3_clientVersion prefixes.
func NewExternal(client *rpc.Client, walletClients []string, pollInterval time.Duration, logger *zap.Logger) *External {
	e := &External{
		nodeBackend: nodeBackend{client: client},
		clients:     walletClients,
	}
	e.watcher = NewWatcher(e, pollInterval, logger)
	return e
}

// Detect probes web3_clientVersion. An unreachable endpoint means no wallet;
// a reachable endpoint with an unknown client is found but not compatible.
func (e *External) Detect(ctx context.Context) (Detection, error) {
	version, err := e.client.ClientVersion(ctx)
	if err != nil {
		var rpcErr *rpc.Error
		if errors.As(err, &rpcErr) {
			return Detection{Found: true}, nil
		}
		if ctx.Err() != nil {
			return Detection{}, ctx.Err()
		}
		return Detection{}, nil
	}

	d := Detection{Found: true, ClientVersion: version}
	for _, prefix := range e.clients {
		if prefix != "" && strings.HasPrefix(strings.ToLower(version), strings.ToLower(prefix)) {
			d.Compatible = true
			break
		}
	}
	return d, nil
}

// RequestAccounts asks the wallet for account access.
func (e *External) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	return e.client.RequestAccounts(ctx)
}

// ListAccounts returns the accounts the wallet has authorized.
func (e *External) ListAccounts(ctx context.Context) ([]common.Address, error) {
	return e.client.Accounts(ctx)
}

// SendTransaction hands the transaction to the wallet, which signs and broadcasts it.
func (e *External) SendTransaction(ctx context.Context, msg ethereum.CallMsg) (common.Hash, error) {
	rpcMsg, err := toRPCMsg(msg)
	if err != nil {
		return common.Hash{}, err
	}
	return e.client.SendTransaction(ctx, rpcMsg)
}
