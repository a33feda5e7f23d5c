package contract

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/capnganj/PoisonToadsDapp/internal/chain"
	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

// Snapshot is a consistent view of the collection's mint state, read in one pass.
type Snapshot struct {
	MaxSupply          uint64   `json:"max_supply"`
	TotalSupply        uint64   `json:"total_supply"`
	MaxMintAmountPerTx uint64   `json:"max_mint_amount_per_tx"`
	TokenPrice         *big.Int `json:"token_price"`
	DiscountPrice      *big.Int `json:"discount_price"`
	IsPaused           bool     `json:"is_paused"`

	// Account is the address DiscountPrice was read for.
	Account common.Address `json:"account"`
}

// ZeroSnapshot returns the snapshot shown before the contract has been read.
// Minting is reported as paused until real state arrives.
func ZeroSnapshot() Snapshot {
	return Snapshot{
		TokenPrice:    new(big.Int),
		DiscountPrice: new(big.Int),
		IsPaused:      true,
	}
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	c := s
	if s.TokenPrice != nil {
		c.TokenPrice = new(big.Int).Set(s.TokenPrice)
	}
	if s.DiscountPrice != nil {
		c.DiscountPrice = new(big.Int).Set(s.DiscountPrice)
	}
	return c
}

// Validate checks the invariants a freshly read snapshot must hold.
func (s Snapshot) Validate() error {
	switch {
	case s.TotalSupply > s.MaxSupply:
		return dapperr.WithDetails(dapperr.ErrContractRead, map[string]string{"reason": "total supply exceeds max supply"})
	case s.TokenPrice == nil || s.TokenPrice.Sign() < 0:
		return dapperr.WithDetails(dapperr.ErrContractRead, map[string]string{"reason": "invalid token price"})
	case s.DiscountPrice == nil || s.DiscountPrice.Sign() < 0:
		return dapperr.WithDetails(dapperr.ErrContractRead, map[string]string{"reason": "invalid discount price"})
	}
	return nil
}

// IsSoldOut reports whether every token has been minted.
func (s Snapshot) IsSoldOut() bool {
	return s.MaxSupply != 0 && s.TotalSupply >= s.MaxSupply
}

// Remaining returns how many tokens can still be minted.
func (s Snapshot) Remaining() uint64 {
	if s.TotalSupply >= s.MaxSupply {
		return 0
	}
	return s.MaxSupply - s.TotalSupply
}

// MintValue is the payment attached to a mint of amount tokens.
func (s Snapshot) MintValue(amount uint64) *big.Int {
	return chain.MulAmount(s.DiscountPrice, amount)
}
