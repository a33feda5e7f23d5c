// Package contract binds the collection's minting contract to a provider.
package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

// Backend executes calls against the chain. Both provider backends satisfy it.
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
	SendTransaction(ctx context.Context, msg ethereum.CallMsg) (common.Hash, error)
}

// Gateway is a typed handle to one deployed contract through one backend.
// A Gateway is never rebound; a new chain or account gets a new Gateway.
type Gateway struct {
	address common.Address
	backend Backend
	abi     abi.ABI
}

// NewGateway binds address to backend.
func NewGateway(address common.Address, backend Backend) (*Gateway, error) {
	parsed, err := ABI()
	if err != nil {
		return nil, dapperr.Wrap(err, "parsing contract ABI")
	}
	return &Gateway{address: address, backend: backend, abi: parsed}, nil
}

// Address returns the bound contract address.
func (g *Gateway) Address() common.Address {
	return g.address
}

// call packs method, executes it read-only and returns the first output.
func (g *Gateway) call(ctx context.Context, method string, args ...any) (any, error) {
	data, err := g.abi.Pack(method, args...)
	if err != nil {
		return nil, dapperr.Wrap(err, "packing %s", method)
	}

	result, err := g.backend.CallContract(ctx, ethereum.CallMsg{To: &g.address, Data: data})
	if err != nil {
		return nil, dapperr.WithCause(dapperr.ErrContractRead, err)
	}

	out, err := g.abi.Unpack(method, result)
	if err != nil {
		return nil, dapperr.WithDetails(dapperr.WithCause(dapperr.ErrContractRead, err), map[string]string{"method": method})
	}
	if len(out) == 0 {
		return nil, dapperr.WithDetails(dapperr.ErrContractRead, map[string]string{"method": method})
	}
	return out[0], nil
}

func (g *Gateway) callBig(ctx context.Context, method string, args ...any) (*big.Int, error) {
	v, err := g.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	n, ok := v.(*big.Int)
	if !ok {
		return nil, dapperr.WithDetails(dapperr.ErrContractRead, map[string]string{"method": method, "reason": "unexpected output type"})
	}
	return n, nil
}

func (g *Gateway) callUint64(ctx context.Context, method string) (uint64, error) {
	n, err := g.callBig(ctx, method)
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, dapperr.WithDetails(dapperr.ErrContractRead, map[string]string{"method": method, "reason": "value out of range"})
	}
	return n.Uint64(), nil
}

// MaxSupply reads maxSupply().
func (g *Gateway) MaxSupply(ctx context.Context) (uint64, error) {
	return g.callUint64(ctx, MethodMaxSupply)
}

// TotalSupply reads totalSupply().
func (g *Gateway) TotalSupply(ctx context.Context) (uint64, error) {
	return g.callUint64(ctx, MethodTotalSupply)
}

// MaxMintAmountPerTx reads maxMintAmountPerTx().
func (g *Gateway) MaxMintAmountPerTx(ctx context.Context) (uint64, error) {
	return g.callUint64(ctx, MethodMaxMintAmountPerTx)
}

// Cost reads the public token price in wei.
func (g *Gateway) Cost(ctx context.Context) (*big.Int, error) {
	return g.callBig(ctx, MethodCost)
}

// DiscountCost reads the price account pays per token, in wei.
func (g *Gateway) DiscountCost(ctx context.Context, account common.Address) (*big.Int, error) {
	return g.callBig(ctx, MethodDiscountCost, account)
}

// Paused reads paused().
func (g *Gateway) Paused(ctx context.Context) (bool, error) {
	v, err := g.call(ctx, MethodPaused)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, dapperr.WithDetails(dapperr.ErrContractRead, map[string]string{"method": MethodPaused, "reason": "unexpected output type"})
	}
	return b, nil
}

// Snapshot reads every field concurrently. Any failed read fails the whole
// snapshot and no partial value is returned.
func (g *Gateway) Snapshot(ctx context.Context, account common.Address) (Snapshot, error) {
	snap := Snapshot{Account: account}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() (err error) {
		snap.MaxSupply, err = g.MaxSupply(ctx)
		return err
	})
	eg.Go(func() (err error) {
		snap.TotalSupply, err = g.TotalSupply(ctx)
		return err
	})
	eg.Go(func() (err error) {
		snap.MaxMintAmountPerTx, err = g.MaxMintAmountPerTx(ctx)
		return err
	})
	eg.Go(func() (err error) {
		snap.TokenPrice, err = g.Cost(ctx)
		return err
	})
	eg.Go(func() (err error) {
		snap.IsPaused, err = g.Paused(ctx)
		return err
	})
	eg.Go(func() (err error) {
		snap.DiscountPrice, err = g.DiscountCost(ctx, account)
		return err
	})

	if err := eg.Wait(); err != nil {
		return Snapshot{}, err
	}
	if err := snap.Validate(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Mint submits mint(amount) from the given account with value attached.
// It returns the transaction hash once the backend accepted the transaction.
func (g *Gateway) Mint(ctx context.Context, from common.Address, amount uint64, value *big.Int) (common.Hash, error) {
	data, err := g.abi.Pack(MethodMint, new(big.Int).SetUint64(amount))
	if err != nil {
		return common.Hash{}, dapperr.Wrap(err, "packing %s", MethodMint)
	}

	if value == nil {
		value = new(big.Int)
	}

	hash, err := g.backend.SendTransaction(ctx, ethereum.CallMsg{
		From:  from,
		To:    &g.address,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return common.Hash{}, dapperr.WithCause(dapperr.ErrTxRejected, err)
	}
	return hash, nil
}
