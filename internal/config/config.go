// Package config provides configuration management for mintdapp.
//
// Configuration is loaded once at startup (file, then environment, then
// command-line flags) and treated as immutable afterwards.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/capnganj/PoisonToadsDapp/internal/fileutil"
)

// Provider modes.
const (
	// ProviderExternal talks to a wallet that exposes a JSON-RPC endpoint and signs on its own.
	ProviderExternal = "external"
	// ProviderLocal talks to a plain node and signs with the local keystore wallet.
	ProviderLocal = "local"
)

// Config represents the application configuration.
type Config struct {
	Version    int              `yaml:"version"`
	Home       string           `yaml:"home"`
	Collection CollectionConfig `yaml:"collection"`
	Explorers  []ExplorerConfig `yaml:"explorers,omitempty"`
	Provider   ProviderConfig   `yaml:"provider"`
	Wallet     WalletConfig     `yaml:"wallet"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// CollectionConfig describes the deployed minting contract.
type CollectionConfig struct {
	ContractName          string `yaml:"contract_name"`
	TokenName             string `yaml:"token_name"`
	TokenSymbol           string `yaml:"token_symbol"`
	ContractAddress       string `yaml:"contract_address"`
	MainnetChainID        int64  `yaml:"mainnet_chain_id"`
	TestnetChainID        int64  `yaml:"testnet_chain_id"`
	Marketplace           string `yaml:"marketplace"`
	MarketplaceIdentifier string `yaml:"marketplace_identifier"`
	CurrencySymbol        string `yaml:"currency_symbol"`
}

// ExplorerConfig overrides the block explorer used for a chain.
type ExplorerConfig struct {
	ChainID     int64  `yaml:"chain_id"`
	Name        string `yaml:"name"`
	ContractURL string `yaml:"contract_url"` // template, "{address}" is substituted
}

// ProviderConfig selects and configures the wallet/provider backend.
type ProviderConfig struct {
	Mode           string   `yaml:"mode"`
	RPC            string   `yaml:"rpc"`
	WalletClients  []string `yaml:"wallet_clients"`
	PollIntervalMS int      `yaml:"poll_interval_ms"`
	RateLimit      float64  `yaml:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst"`
}

// WalletConfig configures the local keystore wallet.
type WalletConfig struct {
	Keystore     string `yaml:"keystore"`
	AccountIndex uint32 `yaml:"account_index"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	File     string `yaml:"file"`
	Encoding string `yaml:"encoding"`
}

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return fileutil.WriteAtomic(path, data, 0o600)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// GetHome returns the mintdapp home directory path.
func (c *Config) GetHome() string {
	return c.Home
}

// GetRPC returns the provider RPC URL.
func (c *Config) GetRPC() string {
	return c.Provider.RPC
}

// IsLocalProvider reports whether transactions are signed by the local keystore.
func (c *Config) IsLocalProvider() bool {
	return strings.EqualFold(c.Provider.Mode, ProviderLocal)
}

// KeystorePath returns the keystore path with "~/" expanded.
func (c *Config) KeystorePath() string {
	return ExpandHome(c.Wallet.Keystore)
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// DefaultHome returns the default mintdapp home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mintdapp"
	}
	return filepath.Join(home, ".mintdapp")
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
