// Package network resolves chain ids to the block explorer and marketplace
// settings the dapp supports. Everything here is a pure lookup.
package network

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/capnganj/PoisonToadsDapp/internal/chain"
	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

// addressPlaceholder is substituted by the contract address in explorer templates.
const addressPlaceholder = "{address}"

// BlockExplorer builds links to a chain's block explorer.
type BlockExplorer struct {
	Name                string `json:"name"`
	ContractURLTemplate string `json:"contract_url_template"`
}

// Config is the static configuration of one supported chain.
type Config struct {
	ChainID       int64         `json:"chain_id"`
	BlockExplorer BlockExplorer `json:"block_explorer"`
}

// GenerateContractURL returns the explorer page for address.
func (c Config) GenerateContractURL(address common.Address) string {
	return strings.ReplaceAll(c.BlockExplorer.ContractURLTemplate, addressPlaceholder, address.Hex())
}

// Built-in network table.
//
//nolint:gochecknoglobals // Static lookup table
var (
	EthereumMainnet = Config{
		ChainID:       chain.EthereumMainnet,
		BlockExplorer: BlockExplorer{Name: "Etherscan", ContractURLTemplate: "https://etherscan.io/address/{address}"},
	}
	EthereumTestnet = Config{
		ChainID:       chain.EthereumRinkeby,
		BlockExplorer: BlockExplorer{Name: "Etherscan", ContractURLTemplate: "https://rinkeby.etherscan.io/address/{address}"},
	}
	PolygonMainnet = Config{
		ChainID:       chain.PolygonMainnet,
		BlockExplorer: BlockExplorer{Name: "Polygonscan", ContractURLTemplate: "https://polygonscan.com/address/{address}"},
	}
	PolygonTestnet = Config{
		ChainID:       chain.PolygonMumbai,
		BlockExplorer: BlockExplorer{Name: "Polygonscan", ContractURLTemplate: "https://mumbai.polygonscan.com/address/{address}"},
	}
)

// Builtin returns the built-in configs keyed by chain id.
func Builtin() map[int64]Config {
	return map[int64]Config{
		EthereumMainnet.ChainID: EthereumMainnet,
		EthereumTestnet.ChainID: EthereumTestnet,
		PolygonMainnet.ChainID:  PolygonMainnet,
		PolygonTestnet.ChainID:  PolygonTestnet,
	}
}

// Registry is the closed set of chains the collection is deployed on:
// exactly one mainnet and one testnet. It is immutable after construction.
type Registry struct {
	mainnet Config
	testnet Config
}

// NewRegistry builds a registry for the given mainnet and testnet chain ids.
// Explorer settings come from the built-in table, replaced by any entry in
// overrides with the same chain id.
func NewRegistry(mainnetID, testnetID int64, overrides ...Config) (*Registry, error) {
	table := Builtin()
	for _, o := range overrides {
		table[o.ChainID] = o
	}

	mainnet, ok := table[mainnetID]
	if !ok {
		return nil, unknownChain(mainnetID)
	}
	testnet, ok := table[testnetID]
	if !ok {
		return nil, unknownChain(testnetID)
	}
	if mainnetID == testnetID {
		return nil, dapperr.WithDetails(dapperr.ErrConfigInvalid, map[string]string{
			"reason": "mainnet and testnet share a chain id",
		})
	}

	return &Registry{mainnet: mainnet, testnet: testnet}, nil
}

func unknownChain(chainID int64) error {
	return dapperr.WithSuggestion(
		dapperr.WithDetails(dapperr.ErrConfigInvalid, map[string]string{
			"chain_id": strconv.FormatInt(chainID, 10),
		}),
		"add an explorers entry for this chain id to config.yaml",
	)
}

// Resolve returns the config for a supported chain id, or ErrUnsupportedNetwork.
func (r *Registry) Resolve(chainID int64) (Config, error) {
	switch chainID {
	case r.mainnet.ChainID:
		return r.mainnet, nil
	case r.testnet.ChainID:
		return r.testnet, nil
	default:
		return Config{}, dapperr.WithDetails(dapperr.ErrUnsupportedNetwork, map[string]string{
			"chain_id": strconv.FormatInt(chainID, 10),
		})
	}
}

// Mainnet returns the mainnet config, the default before any connection.
func (r *Registry) Mainnet() Config {
	return r.mainnet
}

// Testnet returns the testnet config.
func (r *Registry) Testnet() Config {
	return r.testnet
}

// IsMainnet reports whether chainID is the configured mainnet.
func (r *Registry) IsMainnet(chainID int64) bool {
	return chainID == r.mainnet.ChainID
}
