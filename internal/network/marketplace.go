package network

import (
	"net/url"
	"strings"

	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

// Marketplace builds collection links for a secondary market.
type Marketplace struct {
	Name       string
	MainnetURL string
	TestnetURL string
}

// OpenSea is the default marketplace.
//
//nolint:gochecknoglobals // Static marketplace definition
var OpenSea = Marketplace{
	Name:       "OpenSea",
	MainnetURL: "https://opensea.io/collection/",
	TestnetURL: "https://testnets.opensea.io/collection/",
}

// GenerateCollectionURL returns the collection page for identifier.
func (m Marketplace) GenerateCollectionURL(identifier string, isMainnet bool) string {
	base := m.TestnetURL
	if isMainnet {
		base = m.MainnetURL
	}
	return base + url.PathEscape(identifier)
}

// LookupMarketplace returns a marketplace by case-insensitive name.
func LookupMarketplace(name string) (Marketplace, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "opensea":
		return OpenSea, nil
	default:
		return Marketplace{}, dapperr.WithDetails(dapperr.ErrConfigInvalid, map[string]string{
			"marketplace": name,
		})
	}
}
