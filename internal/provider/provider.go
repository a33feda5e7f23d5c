// Package provider is the bridge between the dapp and the user's wallet or
// chain node. Two backends exist: External talks to a wallet that exposes the
// Ethereum provider API over JSON-RPC and signs on its own; Local talks to a
// plain node and signs with the local keystore wallet.
package provider

import (
	"context"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"

	"github.com/capnganj/PoisonToadsDapp/internal/chain"
	"github.com/capnganj/PoisonToadsDapp/internal/chain/eth/rpc"
	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

// Provider is the wallet/chain surface the controller depends on.
type Provider interface {
	// RequestAccounts asks the wallet for account access.
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	// ListAccounts returns the accounts already authorized, possibly none.
	ListAccounts(ctx context.Context) ([]common.Address, error)
	GetNetwork(ctx context.Context) (chain.Network, error)
	// GetCode returns the deployed bytecode; empty means no contract.
	GetCode(ctx context.Context, address common.Address) ([]byte, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
	SendTransaction(ctx context.Context, msg ethereum.CallMsg) (common.Hash, error)

	SubscribeAccountsChanged(ch chan<- []common.Address) event.Subscription
	SubscribeChainChanged(ch chan<- chain.Network) event.Subscription

	// Close stops background polling and releases subscriptions.
	Close()
}

// Detection is the result of probing for a wallet.
type Detection struct {
	Found         bool   `json:"found"`
	Compatible    bool   `json:"compatible"`
	ClientVersion string `json:"client_version,omitempty"`
}

// Detector probes for a compatible wallet.
type Detector interface {
	Detect(ctx context.Context) (Detection, error)
}

// Wallet is a provider that can be probed for presence.
type Wallet interface {
	Provider
	Detector
}

// toRPCMsg converts a go-ethereum call message to the JSON-RPC shape.
func toRPCMsg(msg ethereum.CallMsg) (rpc.CallMsg, error) {
	if msg.To == nil {
		return rpc.CallMsg{}, dapperr.WithDetails(dapperr.ErrInvalidAddress, map[string]string{
			"field": "to",
		})
	}

	out := rpc.CallMsg{
		To:    *msg.To,
		Gas:   msg.Gas,
		Value: msg.Value,
		Data:  msg.Data,
	}
	if msg.From != (common.Address{}) {
		from := msg.From
		out.From = &from
	}
	return out, nil
}

// nodeBackend holds the read path shared by both backends.
type nodeBackend struct {
	client  *rpc.Client
	watcher *Watcher
}

// GetNetwork returns the chain the endpoint is on.
func (b *nodeBackend) GetNetwork(ctx context.Context) (chain.Network, error) {
	chainID, err := b.client.ChainID(ctx)
	if err != nil {
		return chain.Network{}, err
	}
	return chain.NetworkFromBig(chainID), nil
}

// GetCode returns the bytecode at address on the latest block.
func (b *nodeBackend) GetCode(ctx context.Context, address common.Address) ([]byte, error) {
	return b.client.GetCode(ctx, address, "latest")
}

// CallContract executes a read-only call on the latest block.
func (b *nodeBackend) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	rpcMsg, err := toRPCMsg(msg)
	if err != nil {
		return nil, err
	}
	return b.client.EthCall(ctx, rpcMsg, "latest")
}

// SubscribeAccountsChanged delivers the account list whenever it changes.
func (b *nodeBackend) SubscribeAccountsChanged(ch chan<- []common.Address) event.Subscription {
	return b.watcher.SubscribeAccountsChanged(ch)
}

// SubscribeChainChanged delivers the new network whenever the chain changes.
func (b *nodeBackend) SubscribeChainChanged(ch chan<- chain.Network) event.Subscription {
	return b.watcher.SubscribeChainChanged(ch)
}

// Close stops the watcher.
func (b *nodeBackend) Close() {
	b.watcher.Stop()
}
