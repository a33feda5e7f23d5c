package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/mrz1836/go-sanitize"
)

// Environment variable names.
const (
	EnvHome            = "MINTDAPP_HOME"
	EnvRPC             = "MINTDAPP_RPC"
	EnvProviderMode    = "MINTDAPP_PROVIDER"
	EnvContractAddress = "MINTDAPP_CONTRACT"
	EnvKeystore        = "MINTDAPP_KEYSTORE"
	EnvOutputFormat    = "MINTDAPP_OUTPUT_FORMAT"
	EnvVerbose         = "MINTDAPP_VERBOSE"
	EnvLogLevel        = "MINTDAPP_LOG_LEVEL"
	EnvPollInterval    = "MINTDAPP_POLL_INTERVAL_MS"
)

// ApplyEnvironment applies environment variable overrides to the configuration.
//
//nolint:gocognit,gocyclo // Environment variable overrides require sequential checks
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvRPC); v != "" {
		cfg.Provider.RPC = SanitizeURL(v)
	}

	if v := os.Getenv(EnvProviderMode); v != "" {
		cfg.Provider.Mode = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv(EnvContractAddress); v != "" {
		cfg.Collection.ContractAddress = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvKeystore); v != "" {
		cfg.Wallet.Keystore = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	if v := os.Getenv(EnvPollInterval); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.Provider.PollIntervalMS = ms
		}
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}

// SanitizeURL cleans a URL string by removing invalid characters and trimming whitespace.
// This is useful for cleaning user-provided RPC URLs that may contain copy-paste artifacts.
func SanitizeURL(url string) string {
	return sanitize.URL(strings.TrimSpace(url))
}
