package cli

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/capnganj/PoisonToadsDapp/internal/config"
	"github.com/capnganj/PoisonToadsDapp/internal/dapp"
	"github.com/capnganj/PoisonToadsDapp/internal/metrics"
	"github.com/capnganj/PoisonToadsDapp/internal/network"
	"github.com/capnganj/PoisonToadsDapp/internal/output"
	"github.com/capnganj/PoisonToadsDapp/internal/provider"
	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

// newWalletFn builds the wallet backend. Tests replace it.
//
//nolint:gochecknoglobals // Swappable for tests, same pattern as the prompt functions
var newWalletFn = provider.New

// CommandContext holds dependencies for CLI commands.
type CommandContext struct {
	Config    *config.Config
	Logger    *config.Logger
	Formatter *output.Formatter
}

// NewCommandContext creates a context with the given dependencies.
func NewCommandContext(cfg *config.Config, logger *config.Logger, formatter *output.Formatter) *CommandContext {
	return &CommandContext{
		Config:    cfg,
		Logger:    logger,
		Formatter: formatter,
	}
}

// currentContext wraps the globals set up by initGlobals.
func currentContext() *CommandContext {
	return NewCommandContext(cfg, logger, formatter)
}

// Session is an open wallet backend with its controller.
type Session struct {
	Wallet     provider.Wallet
	Controller *dapp.Controller

	registry    *network.Registry
	marketplace network.Marketplace
	identifier  string
	address     common.Address
	symbol      string
}

// Open builds the wallet backend and the controller from the configuration.
// Nothing is queried until the caller bootstraps the controller.
func (c *CommandContext) Open() (*Session, error) {
	collection := c.Config.Collection

	address, err := parseContractAddress(collection.ContractAddress)
	if err != nil {
		return nil, err
	}

	registry, err := network.NewRegistry(collection.MainnetChainID, collection.TestnetChainID, explorerOverrides(c.Config)...)
	if err != nil {
		return nil, err
	}

	marketplace, err := network.LookupMarketplace(collection.Marketplace)
	if err != nil {
		return nil, err
	}

	w, err := newWalletFn(c.Config, c.Logger.Zap(), keystorePassphrase)
	if err != nil {
		return nil, err
	}

	controller, err := dapp.New(w, dapp.Options{
		ContractAddress:       address,
		Registry:              registry,
		Marketplace:           marketplace,
		MarketplaceIdentifier: collection.MarketplaceIdentifier,
		Logger:                c.Logger.Named("dapp"),
		Metrics:               metrics.Global,
	})
	if err != nil {
		w.Close()
		return nil, err
	}

	return &Session{
		Wallet:      w,
		Controller:  controller,
		registry:    registry,
		marketplace: marketplace,
		identifier:  collection.MarketplaceIdentifier,
		address:     address,
		symbol:      collection.CurrencySymbol,
	}, nil
}

// Close stops the controller, then the wallet backend.
func (s *Session) Close() {
	s.Controller.Close()
	s.Wallet.Close()
}

// View prepares a state published by the controller for display.
func (s *Session) View(state dapp.State) output.StateView {
	mainnet := state.Network == nil || s.registry.IsMainnet(state.Network.ChainID)
	links := output.Links{
		Explorer:       state.NetworkConfig.BlockExplorer.Name,
		ContractURL:    state.NetworkConfig.GenerateContractURL(s.address),
		MarketplaceURL: s.marketplace.GenerateCollectionURL(s.identifier, mainnet),
	}
	return output.NewStateView(state, links, mainnet, s.symbol)
}

// keystorePassphrase asks for the keystore passphrase when the local backend
// needs to sign.
func keystorePassphrase(_ context.Context) (string, error) {
	pw, err := promptPasswordFn("Keystore passphrase: ")
	if err != nil {
		return "", err
	}
	defer zeroBytes(pw)
	return string(pw), nil
}

func parseContractAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, dapperr.WithDetails(dapperr.ErrInvalidAddress, map[string]string{
			"collection.contract_address": s,
		})
	}
	return common.HexToAddress(s), nil
}

func explorerOverrides(c *config.Config) []network.Config {
	overrides := make([]network.Config, 0, len(c.Explorers))
	for _, e := range c.Explorers {
		overrides = append(overrides, network.Config{
			ChainID: e.ChainID,
			BlockExplorer: network.BlockExplorer{
				Name:                e.Name,
				ContractURLTemplate: e.ContractURL,
			},
		})
	}
	return overrides
}
