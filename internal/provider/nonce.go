package provider

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// NonceManager tracks the next nonce per account so two mints sent in quick
// succession do not reuse a nonce before the first reaches the mempool.
type NonceManager struct {
	mu     sync.Mutex
	nonces map[common.Address]uint64 // one past the highest nonce used
}

// NewNonceManager creates a new NonceManager.
func NewNonceManager() *NonceManager {
	return &NonceManager{nonces: make(map[common.Address]uint64)}
}

// Next returns the higher of the node's pending nonce and the locally tracked
// one, and advances the local counter.
func (nm *NonceManager) Next(account common.Address, pending uint64) uint64 {
	nm.mu.Lock()
	defer nm.mu.Unlock()

	nonce := pending
	if local, ok := nm.nonces[account]; ok && local > pending {
		nonce = local
	}
	nm.nonces[account] = nonce + 1
	return nonce
}

// Reset forgets the local nonce of account, e.g. after a failed broadcast.
func (nm *NonceManager) Reset(account common.Address) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	delete(nm.nonces, account)
}
