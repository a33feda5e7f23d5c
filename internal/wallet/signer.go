package wallet

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

// Signer signs transactions for one unlocked account.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewSigner wraps an unlocked private key.
func NewSigner(key *ecdsa.PrivateKey) *Signer {
	return &Signer{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
}

// Address returns the account address.
func (s *Signer) Address() common.Address {
	return s.address
}

// Destroy wipes the private key. The signer is unusable afterwards.
func (s *Signer) Destroy() {
	if s.key == nil {
		return
	}
	if s.key.D != nil {
		words := s.key.D.Bits()
		for i := range words {
			words[i] = 0
		}
		s.key.D.SetInt64(0)
	}
	s.key = nil
}

// Destroyed reports whether Destroy has run.
func (s *Signer) Destroyed() bool {
	return s.key == nil
}

// SignTx signs tx with EIP-155 replay protection for chainID.
func (s *Signer) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	if s.key == nil {
		return nil, dapperr.ErrWalletLocked
	}
	return types.SignTx(tx, types.NewEIP155Signer(chainID), s.key)
}
