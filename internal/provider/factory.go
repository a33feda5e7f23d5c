package provider

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/capnganj/PoisonToadsDapp/internal/chain"
	"github.com/capnganj/PoisonToadsDapp/internal/chain/eth/rpc"
	"github.com/capnganj/PoisonToadsDapp/internal/config"
	"github.com/capnganj/PoisonToadsDapp/internal/metrics"
	"github.com/capnganj/PoisonToadsDapp/internal/wallet"
	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

// New builds the backend selected by cfg.Provider.Mode.
func New(cfg *config.Config, logger *zap.Logger, passphrase PassphraseFunc) (Wallet, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	endpoint := config.SanitizeURL(cfg.Provider.RPC)
	if endpoint == "" {
		return nil, dapperr.WithDetails(dapperr.ErrConfigInvalid, map[string]string{"field": "provider.rpc"})
	}

	client := rpc.NewClient(endpoint,
		rpc.WithRateLimiter(chain.NewRateLimiter(cfg.Provider.RateLimit, cfg.Provider.RateBurst)),
		rpc.WithLogger(logger.Named("rpc")),
		rpc.WithMetrics(metrics.Global),
	)

	interval := time.Duration(cfg.Provider.PollIntervalMS) * time.Millisecond

	switch strings.ToLower(cfg.Provider.Mode) {
	case "", config.ProviderExternal:
		clients := cfg.Provider.WalletClients
		if len(clients) == 0 {
			clients = config.DefaultWalletClients
		}
		return NewExternal(client, clients, interval, logger.Named("provider")), nil
	case config.ProviderLocal:
		keystore := wallet.NewKeystore(cfg.KeystorePath())
		return NewLocal(client, keystore, passphrase, interval, logger.Named("provider")), nil
	default:
		return nil, dapperr.WithDetails(dapperr.ErrConfigInvalid, map[string]string{"provider.mode": cfg.Provider.Mode})
	}
}
