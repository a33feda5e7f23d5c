package network_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capnganj/PoisonToadsDapp/internal/network"
	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

var contractAddress = common.HexToAddress("0xe6bda205de2f968271166C4b2650DefB38895De1")

func polygonRegistry(t *testing.T) *network.Registry {
	t.Helper()
	r, err := network.NewRegistry(137, 80001)
	require.NoError(t, err)
	return r
}

func TestResolveSupported(t *testing.T) {
	t.Parallel()

	r := polygonRegistry(t)

	tests := []struct {
		chainID  int64
		explorer string
		url      string
	}{
		{137, "Polygonscan", "https://polygonscan.com/address/" + contractAddress.Hex()},
		{80001, "Polygonscan", "https://mumbai.polygonscan.com/address/" + contractAddress.Hex()},
	}

	for _, tt := range tests {
		cfg, err := r.Resolve(tt.chainID)
		require.NoError(t, err)
		assert.Equal(t, tt.chainID, cfg.ChainID)
		assert.Equal(t, tt.explorer, cfg.BlockExplorer.Name)
		assert.Equal(t, tt.url, cfg.GenerateContractURL(contractAddress))
	}
}

func TestResolveUnsupported(t *testing.T) {
	t.Parallel()

	r := polygonRegistry(t)

	// Ethereum chains are in the built-in table but not in this registry's closed set.
	for _, chainID := range []int64{0, 1, 4, 5, 56, 11155111} {
		_, err := r.Resolve(chainID)
		require.ErrorIs(t, err, dapperr.ErrUnsupportedNetwork, "chain %d", chainID)
	}
}

func TestRegistryMainnetTestnet(t *testing.T) {
	t.Parallel()

	r := polygonRegistry(t)
	assert.Equal(t, network.PolygonMainnet, r.Mainnet())
	assert.Equal(t, network.PolygonTestnet, r.Testnet())
	assert.True(t, r.IsMainnet(137))
	assert.False(t, r.IsMainnet(80001))
}

func TestNewRegistryEthereum(t *testing.T) {
	t.Parallel()

	r, err := network.NewRegistry(1, 4)
	require.NoError(t, err)

	cfg, err := r.Resolve(4)
	require.NoError(t, err)
	assert.Equal(t, "https://rinkeby.etherscan.io/address/"+contractAddress.Hex(), cfg.GenerateContractURL(contractAddress))
}

func TestNewRegistryErrors(t *testing.T) {
	t.Parallel()

	_, err := network.NewRegistry(137, 999)
	require.ErrorIs(t, err, dapperr.ErrConfigInvalid)

	_, err = network.NewRegistry(137, 137)
	require.ErrorIs(t, err, dapperr.ErrConfigInvalid)
}

func TestNewRegistryOverrides(t *testing.T) {
	t.Parallel()

	amoy := network.Config{
		ChainID:       80002,
		BlockExplorer: network.BlockExplorer{Name: "Amoy Polygonscan", ContractURLTemplate: "https://amoy.polygonscan.com/address/{address}"},
	}

	r, err := network.NewRegistry(137, 80002, amoy)
	require.NoError(t, err)

	cfg, err := r.Resolve(80002)
	require.NoError(t, err)
	assert.Equal(t, "Amoy Polygonscan", cfg.BlockExplorer.Name)
	assert.Equal(t, "https://amoy.polygonscan.com/address/"+contractAddress.Hex(), cfg.GenerateContractURL(contractAddress))

	_, err = r.Resolve(80001)
	require.ErrorIs(t, err, dapperr.ErrUnsupportedNetwork)
}

func TestMarketplace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://opensea.io/collection/poison-toads", network.OpenSea.GenerateCollectionURL("poison-toads", true))
	assert.Equal(t, "https://testnets.opensea.io/collection/poison-toads", network.OpenSea.GenerateCollectionURL("poison-toads", false))

	m, err := network.LookupMarketplace("OpenSea")
	require.NoError(t, err)
	assert.Equal(t, "OpenSea", m.Name)

	_, err = network.LookupMarketplace("rarible")
	require.ErrorIs(t, err, dapperr.ErrConfigInvalid)
}
