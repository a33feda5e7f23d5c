package provider

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"go.uber.org/zap"

	"github.com/capnganj/PoisonToadsDapp/internal/chain"
)

// DefaultPollInterval is used when no interval is configured.
const DefaultPollInterval = 2 * time.Second

// observer is what the watcher polls.
type observer interface {
	ListAccounts(ctx context.Context) ([]common.Address, error)
	GetNetwork(ctx context.Context) (chain.Network, error)
}

// Watcher turns polling of the account list and chain id into change
// notifications. The first successful observation primes it without emitting.
// Polling starts with the first subscription.
type Watcher struct {
	source   observer
	interval time.Duration
	logger   *zap.Logger

	accountsFeed event.Feed
	chainFeed    event.Feed
	scope        event.SubscriptionScope

	startOnce sync.Once
	stopOnce  sync.Once
	quit      chan struct{}
	done      chan struct{}

	mu            sync.Mutex
	accountsKnown bool
	chainKnown    bool
	lastAccounts  []common.Address
	lastChainID   int64
}

// NewWatcher creates a watcher over source.
func NewWatcher(source observer, interval time.Duration, logger *zap.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		source:   source,
		interval: interval,
		logger:   logger,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// SubscribeAccountsChanged subscribes ch to account list changes.
func (w *Watcher) SubscribeAccountsChanged(ch chan<- []common.Address) event.Subscription {
	return w.track(w.accountsFeed.Subscribe(ch))
}

// SubscribeChainChanged subscribes ch to chain changes.
func (w *Watcher) SubscribeChainChanged(ch chan<- chain.Network) event.Subscription {
	return w.track(w.chainFeed.Subscribe(ch))
}

// track ties sub to the watcher's lifetime. After Stop it returns an already
// finished subscription.
func (w *Watcher) track(sub event.Subscription) event.Subscription {
	if tracked := w.scope.Track(sub); tracked != nil {
		w.start()
		return tracked
	}
	sub.Unsubscribe()
	return event.NewSubscription(func(<-chan struct{}) error { return nil })
}

func (w *Watcher) start() {
	w.startOnce.Do(func() {
		go w.loop()
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-w.quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Poll(ctx)
	for {
		select {
		case <-w.quit:
			return
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll takes one observation and publishes whatever changed since the last one.
func (w *Watcher) Poll(ctx context.Context) {
	if accounts, err := w.source.ListAccounts(ctx); err != nil {
		w.logger.Debug("polling accounts failed", zap.Error(err))
	} else if w.accountsChanged(accounts) {
		w.logger.Debug("accounts changed", zap.Int("count", len(accounts)))
		w.accountsFeed.Send(slices.Clone(accounts))
	}

	if network, err := w.source.GetNetwork(ctx); err != nil {
		w.logger.Debug("polling chain failed", zap.Error(err))
	} else if w.chainChanged(network.ChainID) {
		w.logger.Debug("chain changed", zap.Int64("chain_id", network.ChainID))
		w.chainFeed.Send(network)
	}
}

func (w *Watcher) accountsChanged(accounts []common.Address) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.accountsKnown {
		w.accountsKnown = true
		w.lastAccounts = slices.Clone(accounts)
		return false
	}
	if slices.Equal(w.lastAccounts, accounts) {
		return false
	}
	w.lastAccounts = slices.Clone(accounts)
	return true
}

func (w *Watcher) chainChanged(chainID int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.chainKnown {
		w.chainKnown = true
		w.lastChainID = chainID
		return false
	}
	if w.lastChainID == chainID {
		return false
	}
	w.lastChainID = chainID
	return true
}

// Stop ends polling and closes every subscription.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.quit)
		w.scope.Close()
	})

	started := true
	w.startOnce.Do(func() { started = false })
	if started {
		<-w.done
	}
}
