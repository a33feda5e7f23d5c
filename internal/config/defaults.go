package config

// DefaultContractAddress is the deployed collection contract on Polygon.
const DefaultContractAddress = "0xe6bda205de2f968271166C4b2650DefB38895De1"

// DefaultWalletRPCURL is the local JSON-RPC endpoint exposed by the Frame desktop wallet.
const DefaultWalletRPCURL = "http://127.0.0.1:1248"

// DefaultPollIntervalMS is how often the provider is polled for account and chain changes.
const DefaultPollIntervalMS = 2000

// DefaultWalletClients are the web3_clientVersion prefixes accepted as a compatible wallet.
//
//nolint:gochecknoglobals // Configuration default, same pattern as DefaultWalletRPCURL
var DefaultWalletClients = []string{"Frame", "MetaMask"}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.mintdapp",
		Collection: CollectionConfig{
			ContractName:          "PoisonToads",
			TokenName:             "Poison Toads",
			TokenSymbol:           "PSNTDS",
			ContractAddress:       DefaultContractAddress,
			MainnetChainID:        137,
			TestnetChainID:        80001,
			Marketplace:           "opensea",
			MarketplaceIdentifier: "poison-toads",
			CurrencySymbol:        "MATIC",
		},
		Provider: ProviderConfig{
			Mode:           ProviderExternal,
			RPC:            DefaultWalletRPCURL,
			WalletClients:  append([]string(nil), DefaultWalletClients...),
			PollIntervalMS: DefaultPollIntervalMS,
			RateLimit:      5,
			RateBurst:      10,
		},
		Wallet: WalletConfig{
			Keystore:     "~/.mintdapp/wallet.age",
			AccountIndex: 0,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level:    "error",
			File:     "~/.mintdapp/mintdapp.log",
			Encoding: "json",
		},
	}
}
