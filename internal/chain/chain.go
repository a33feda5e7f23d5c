// Package chain provides chain identification types and common utilities
// shared by the provider, contract, and controller packages.
package chain

import (
	"math/big"
	"strconv"
)

// Well-known EVM chain identifiers.
const (
	EthereumMainnet int64 = 1
	EthereumRinkeby int64 = 4
	EthereumGoerli  int64 = 5
	PolygonMainnet  int64 = 137
	PolygonMumbai   int64 = 80001
	EthereumSepolia int64 = 11155111
)

// NativeDecimals is the number of decimals of the native currency on every supported chain.
const NativeDecimals = 18

//nolint:gochecknoglobals // Static lookup table
var knownNames = map[int64]string{
	EthereumMainnet: "homestead",
	EthereumRinkeby: "rinkeby",
	EthereumGoerli:  "goerli",
	PolygonMainnet:  "matic",
	PolygonMumbai:   "maticmum",
	EthereumSepolia: "sepolia",
}

// Network is the chain a provider reports as active.
type Network struct {
	ChainID int64  `json:"chain_id"`
	Name    string `json:"name"`
}

// NewNetwork builds a Network for chainID, naming it after the well-known table.
func NewNetwork(chainID int64) Network {
	return Network{ChainID: chainID, Name: NameForChainID(chainID)}
}

// NetworkFromBig converts a provider-reported chain id. Ids that do not fit
// in an int64 are reported as chain 0 ("unknown").
func NetworkFromBig(chainID *big.Int) Network {
	if chainID == nil || !chainID.IsInt64() {
		return NewNetwork(0)
	}
	return NewNetwork(chainID.Int64())
}

// NameForChainID returns the well-known name of a chain, or "unknown".
func NameForChainID(chainID int64) string {
	if name, ok := knownNames[chainID]; ok {
		return name
	}
	return "unknown"
}

// String returns "name (chainID)".
func (n Network) String() string {
	return n.Name + " (" + strconv.FormatInt(n.ChainID, 10) + ")"
}

// BigChainID returns the chain id as a *big.Int for signing.
func (n Network) BigChainID() *big.Int {
	return big.NewInt(n.ChainID)
}
