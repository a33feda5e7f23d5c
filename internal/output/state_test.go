package output_test

import (
	"bytes"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capnganj/PoisonToadsDapp/internal/chain"
	"github.com/capnganj/PoisonToadsDapp/internal/contract"
	"github.com/capnganj/PoisonToadsDapp/internal/dapp"
	"github.com/capnganj/PoisonToadsDapp/internal/failure"
	"github.com/capnganj/PoisonToadsDapp/internal/network"
	"github.com/capnganj/PoisonToadsDapp/internal/output"
)

var testLinks = output.Links{
	Explorer:       "Polygonscan",
	ContractURL:    "https://polygonscan.com/address/0xe6bda205de2f968271166C4b2650DefB38895De1",
	MarketplaceURL: "https://opensea.io/collection/poison-toads",
}

func readyState() dapp.State {
	account := common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
	matic := chain.NewNetwork(chain.PolygonMainnet)
	return dapp.State{
		Phase:         dapp.PhaseReady,
		Address:       &account,
		Network:       &matic,
		NetworkConfig: network.PolygonMainnet,
		Snapshot: contract.Snapshot{
			MaxSupply:          6666,
			TotalSupply:        1234,
			MaxMintAmountPerTx: 10,
			TokenPrice:         big.NewInt(100000000000000000),
			DiscountPrice:      big.NewInt(50000000000000000),
			Account:            account,
		},
	}
}

func TestNewStateView_Ready(t *testing.T) {
	t.Parallel()

	view := output.NewStateView(readyState(), testLinks, true, "MATIC")

	assert.Equal(t, "ready", view.Phase)
	assert.Equal(t, "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", view.Account)
	require.NotNil(t, view.Collection)
	assert.Equal(t, uint64(5432), view.Collection.Remaining)
	assert.Equal(t, "0.1 MATIC", view.Collection.TokenPrice)
	assert.Equal(t, "0.05 MATIC", view.Collection.DiscountPrice)
	assert.Equal(t, "50000000000000000", view.Collection.DiscountPriceWei)
	assert.False(t, view.Collection.SoldOut)
}

func TestNewStateView_Disconnected(t *testing.T) {
	t.Parallel()

	s := dapp.DefaultState(network.PolygonMainnet)
	s.Error = failure.Normalize("unsupported network!")

	view := output.NewStateView(s, testLinks, true, "MATIC")
	assert.Equal(t, "disconnected", view.Phase)
	assert.Empty(t, view.Account)
	assert.Nil(t, view.Collection, "no collection data before the contract is ready")
	require.NotNil(t, view.Error)
	assert.Equal(t, "Unsupported network!", view.Error.Text)
}

func TestRenderState_Text(t *testing.T) {
	t.Parallel()

	s := readyState()
	s.Snapshot.IsPaused = true
	view := output.NewStateView(s, testLinks, true, "MATIC")

	var buf bytes.Buffer
	require.NoError(t, output.RenderState(&buf, view, output.FormatText))

	result := buf.String()
	assert.Contains(t, result, "Status       ready\n")
	assert.Contains(t, result, "Network      matic (137)\n")
	assert.Contains(t, result, "Minted       1234 / 6666\n")
	assert.Contains(t, result, "Your price   0.05 MATIC\n")
	assert.Contains(t, result, "Sale         paused\n")
	assert.Contains(t, result, "Polygonscan  "+testLinks.ContractURL)
	assert.NotContains(t, result, "Error:")
}

func TestRenderState_TextError(t *testing.T) {
	t.Parallel()

	s := dapp.DefaultState(network.PolygonMainnet)
	mumbai := chain.NewNetwork(chain.PolygonMumbai)
	s.Network = &mumbai
	s.Error = failure.Normalize(failure.NoWalletAdvisory("Polygonscan", testLinks.ContractURL))
	view := output.NewStateView(s, testLinks, false, "MATIC")

	var buf bytes.Buffer
	require.NoError(t, output.RenderState(&buf, view, output.FormatText))

	result := buf.String()
	assert.Contains(t, result, "Account      not connected\n")
	assert.Contains(t, result, "maticmum (80001)  [testnet or unsupported]")
	assert.Contains(t, result, "\nError: We were not able to detect a compatible wallet.\n")
	assert.NotContains(t, result, "Minted")
}

func TestRenderState_JSON(t *testing.T) {
	t.Parallel()

	s := readyState()
	s.Snapshot.TotalSupply = 6666
	view := output.NewStateView(s, testLinks, true, "MATIC")

	var buf bytes.Buffer
	require.NoError(t, output.RenderState(&buf, view, output.FormatJSON))

	var decoded output.StateView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "ready", decoded.Phase)
	require.NotNil(t, decoded.Collection)
	assert.True(t, decoded.Collection.SoldOut)
	assert.Equal(t, uint64(0), decoded.Collection.Remaining)
	assert.Equal(t, testLinks, decoded.Links)
	require.NotNil(t, decoded.Network)
	assert.Equal(t, chain.PolygonMainnet, decoded.Network.ChainID)
}
