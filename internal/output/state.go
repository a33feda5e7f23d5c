package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/capnganj/PoisonToadsDapp/internal/chain"
	"github.com/capnganj/PoisonToadsDapp/internal/dapp"
	"github.com/capnganj/PoisonToadsDapp/internal/failure"
)

// Links are the outbound URLs shown next to the state.
type Links struct {
	Explorer       string `json:"explorer"`
	ContractURL    string `json:"contract_url"`
	MarketplaceURL string `json:"marketplace_url"`
}

// CollectionView is the contract snapshot with prices rendered for display.
type CollectionView struct {
	MaxSupply          uint64 `json:"max_supply"`
	TotalSupply        uint64 `json:"total_supply"`
	Remaining          uint64 `json:"remaining"`
	MaxMintAmountPerTx uint64 `json:"max_mint_amount_per_tx"`
	TokenPrice         string `json:"token_price"`
	TokenPriceWei      string `json:"token_price_wei"`
	DiscountPrice      string `json:"discount_price"`
	DiscountPriceWei   string `json:"discount_price_wei"`
	Paused             bool   `json:"paused"`
	SoldOut            bool   `json:"sold_out"`
}

// StateView is what `status` and `watch` print.
type StateView struct {
	Phase      string           `json:"phase"`
	Account    string           `json:"account,omitempty"`
	Network    *chain.Network   `json:"network,omitempty"`
	Mainnet    bool             `json:"mainnet"`
	Links      Links            `json:"links"`
	Collection *CollectionView  `json:"collection,omitempty"`
	Error      *failure.Message `json:"error,omitempty"`
}

// NewStateView prepares s for display. The collection is only included once
// the contract is ready; symbol names the native currency.
func NewStateView(s dapp.State, links Links, mainnet bool, symbol string) StateView {
	view := StateView{
		Phase:   s.Phase.String(),
		Network: s.Network,
		Mainnet: mainnet,
		Links:   links,
		Error:   s.Error,
	}
	if s.Address != nil {
		view.Account = s.Address.Hex()
	}

	if s.IsContractReady() {
		snap := s.Snapshot
		view.Collection = &CollectionView{
			MaxSupply:          snap.MaxSupply,
			TotalSupply:        snap.TotalSupply,
			Remaining:          snap.Remaining(),
			MaxMintAmountPerTx: snap.MaxMintAmountPerTx,
			TokenPrice:         chain.FormatNative(snap.TokenPrice, symbol),
			TokenPriceWei:      snap.TokenPrice.String(),
			DiscountPrice:      chain.FormatNative(snap.DiscountPrice, symbol),
			DiscountPriceWei:   snap.DiscountPrice.String(),
			Paused:             snap.IsPaused,
			SoldOut:            snap.IsSoldOut(),
		}
	}
	return view
}

// RenderState writes view in the given format.
func RenderState(w io.Writer, view StateView, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, view)
	}

	var fields Fields
	fields.Add("Status", view.Phase)

	account := "not connected"
	if view.Account != "" {
		account = view.Account
	}
	fields.Add("Account", account)

	if view.Network != nil {
		network := view.Network.String()
		if !view.Mainnet {
			network += "  [testnet or unsupported]"
		}
		fields.Add("Network", network)
	}

	if c := view.Collection; c != nil {
		fields.Add("Minted", fmt.Sprintf("%d / %d", c.TotalSupply, c.MaxSupply))
		fields.Add("Max per tx", strconv.FormatUint(c.MaxMintAmountPerTx, 10))
		fields.Add("Price", c.TokenPrice)
		fields.Add("Your price", c.DiscountPrice)

		sale := "open"
		switch {
		case c.SoldOut:
			sale = "sold out"
		case c.Paused:
			sale = "paused"
		}
		fields.Add("Sale", sale)
	}

	fields.AddIf(view.Links.Explorer, view.Links.ContractURL)
	fields.AddIf("Marketplace", view.Links.MarketplaceURL)

	if err := fields.Render(w); err != nil {
		return err
	}

	if view.Error != nil {
		if _, err := fmt.Fprintf(w, "\nError: %s\n", view.Error.String()); err != nil {
			return err
		}
	}
	return nil
}
