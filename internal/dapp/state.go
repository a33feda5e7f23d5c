package dapp

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/capnganj/PoisonToadsDapp/internal/chain"
	"github.com/capnganj/PoisonToadsDapp/internal/contract"
	"github.com/capnganj/PoisonToadsDapp/internal/failure"
	"github.com/capnganj/PoisonToadsDapp/internal/network"
)

// Phase is the connection phase of the controller.
type Phase int

// Connection phases.
const (
	PhaseDisconnected Phase = iota
	PhaseConnecting
	PhaseReady
	PhaseRefreshing // reloading after having been ready
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseDisconnected:
		return "disconnected"
	case PhaseConnecting:
		return "connecting"
	case PhaseReady:
		return "ready"
	case PhaseRefreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}

// MarshalText renders the phase by name in JSON output.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// State is one consistent view of the wallet connection and the collection.
type State struct {
	Phase         Phase             `json:"phase"`
	Address       *common.Address   `json:"address"`
	Network       *chain.Network    `json:"network"`
	NetworkConfig network.Config    `json:"network_config"`
	Snapshot      contract.Snapshot `json:"snapshot"`
	Error         *failure.Message  `json:"error,omitempty"`
}

// DefaultState is the state before any wallet is connected.
func DefaultState(mainnet network.Config) State {
	return State{
		Phase:         PhaseDisconnected,
		NetworkConfig: mainnet,
		Snapshot:      contract.ZeroSnapshot(),
	}
}

// Clone returns a deep copy that shares nothing with s.
func (s State) Clone() State {
	c := s
	if s.Address != nil {
		addr := *s.Address
		c.Address = &addr
	}
	if s.Network != nil {
		n := *s.Network
		c.Network = &n
	}
	c.Snapshot = s.Snapshot.Clone()
	c.Error = s.Error.Clone()
	return c
}

// IsWalletConnected reports whether an account has been discovered.
func (s State) IsWalletConnected() bool {
	return s.Address != nil
}

// IsContractReady reports whether the snapshot belongs to the current
// account and chain.
func (s State) IsContractReady() bool {
	if s.Phase != PhaseReady && s.Phase != PhaseRefreshing {
		return false
	}
	return s.Address != nil && *s.Address == s.Snapshot.Account
}
