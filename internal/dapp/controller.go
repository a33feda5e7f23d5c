// Package dapp implements the connection controller: it discovers the wallet,
// validates the chain, keeps a snapshot of the collection contract and submits
// mints.
//
// Every change of account or chain re-derives the whole State through Reload.
// Reloads are guarded by a generation token, and a newer reload cancels and
// supersedes an older one, so the last reload started is the one that commits.
package dapp

import (
	"context"
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"go.uber.org/zap"

	"github.com/capnganj/PoisonToadsDapp/internal/chain"
	"github.com/capnganj/PoisonToadsDapp/internal/contract"
	"github.com/capnganj/PoisonToadsDapp/internal/failure"
	"github.com/capnganj/PoisonToadsDapp/internal/metrics"
	"github.com/capnganj/PoisonToadsDapp/internal/network"
	"github.com/capnganj/PoisonToadsDapp/internal/provider"
	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

// Options configures a Controller.
type Options struct {
	// ContractAddress is the deployed collection contract.
	ContractAddress common.Address
	// Registry resolves the chains the collection is deployed on.
	Registry *network.Registry
	// Marketplace and MarketplaceIdentifier build the collection link.
	Marketplace           network.Marketplace
	MarketplaceIdentifier string

	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Controller is the wallet/contract connection state machine.
type Controller struct {
	wallet      provider.Wallet
	address     common.Address
	registry    *network.Registry
	marketplace network.Marketplace
	identifier  string
	logger      *zap.Logger
	metrics     *metrics.Metrics

	ctx  context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu         sync.Mutex
	state      State
	gen        uint64             // bumped by every reload and reset
	cancel     context.CancelFunc // of the newest in-flight reload
	gateway    *contract.Gateway  // session bound to the committed account and chain
	subscribed bool
	subs       []event.Subscription
	closed     bool

	pubMu     sync.Mutex // orders publishes; taken before mu
	feed      event.Feed
	scope     event.SubscriptionScope
	closeOnce sync.Once
}

// New creates a controller over wallet. Nothing is queried until Bootstrap.
func New(wallet provider.Wallet, opts Options) (*Controller, error) {
	if wallet == nil {
		return nil, dapperr.WithDetails(dapperr.ErrInvalidInput, map[string]string{"field": "wallet"})
	}
	if opts.Registry == nil {
		return nil, dapperr.WithDetails(dapperr.ErrConfigInvalid, map[string]string{"field": "registry"})
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Global
	}
	if opts.Marketplace.Name == "" {
		opts.Marketplace = network.OpenSea
	}

	ctx, stop := context.WithCancel(context.Background())
	return &Controller{
		wallet:      wallet,
		address:     opts.ContractAddress,
		registry:    opts.Registry,
		marketplace: opts.Marketplace,
		identifier:  opts.MarketplaceIdentifier,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		ctx:         ctx,
		stop:        stop,
		state:       DefaultState(opts.Registry.Mainnet()),
	}, nil
}

// Bootstrap probes for a compatible wallet and registers for account and
// chain notifications. Without a wallet it shows the no-wallet advisory,
// skips the initial reload and returns ErrNoWallet; notifications stay
// registered so that a wallet showing up later is still picked up.
func (c *Controller) Bootstrap(ctx context.Context) error {
	c.subscribe()
	return c.discover(ctx)
}

func (c *Controller) discover(ctx context.Context) error {
	detection, err := c.wallet.Detect(ctx)
	if err != nil {
		c.logger.Debug("wallet detection failed", zap.Error(err))
	}
	if err != nil || !detection.Found || !detection.Compatible {
		c.logger.Info("no compatible wallet detected", zap.String("client", detection.ClientVersion))
		c.setError(failure.NoWalletAdvisory(c.State().NetworkConfig.BlockExplorer.Name, c.ContractURL()))
		return dapperr.ErrNoWallet
	}

	c.logger.Debug("wallet detected", zap.String("client", detection.ClientVersion))
	return c.Reload(ctx)
}

// subscribe registers the notification handlers once per controller.
func (c *Controller) subscribe() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subscribed || c.closed {
		return
	}
	c.subscribed = true

	accountsCh := make(chan []common.Address, 4)
	chainCh := make(chan chain.Network, 4)
	accountsSub := c.wallet.SubscribeAccountsChanged(accountsCh)
	chainSub := c.wallet.SubscribeChainChanged(chainCh)
	c.subs = []event.Subscription{accountsSub, chainSub}

	c.wg.Add(1)
	go c.loop(accountsCh, chainCh, accountsSub, chainSub)
}

func (c *Controller) loop(accountsCh <-chan []common.Address, chainCh <-chan chain.Network, accountsSub, chainSub event.Subscription) {
	defer c.wg.Done()

	for {
		select {
		case accounts := <-accountsCh:
			c.logger.Debug("accounts changed", zap.Int("count", len(accounts)))
			c.spawn(func(ctx context.Context) {
				_ = c.Reload(ctx)
			})
		case n := <-chainCh:
			c.logger.Info("chain changed, resetting", zap.Stringer("network", n))
			c.reset()
			c.spawn(func(ctx context.Context) {
				_ = c.discover(ctx)
			})
		case <-accountsSub.Err():
			return
		case <-chainSub.Err():
			return
		case <-c.ctx.Done():
			return
		}
	}
}

// spawn runs fn in the background, bound to the controller's lifetime.
func (c *Controller) spawn(fn func(ctx context.Context)) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn(c.ctx)
	}()
}

// Connect asks the wallet for account access and reloads. It does nothing
// unless the controller is disconnected.
func (c *Controller) Connect(ctx context.Context) error {
	if phase := c.State().Phase; phase != PhaseDisconnected {
		c.logger.Debug("connect ignored", zap.Stringer("phase", phase))
		return nil
	}

	if _, err := c.wallet.RequestAccounts(ctx); err != nil {
		c.logger.Error("account request failed", zap.Error(err))
		c.setError(err)
		return dapperr.WithCause(dapperr.ErrConnection, err)
	}
	return c.Reload(ctx)
}

// begin starts a reload generation, cancelling the one in flight.
func (c *Controller) begin(ctx context.Context) (context.Context, uint64, func()) {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	c.cancel = cancel
	c.mu.Unlock()

	c.metrics.RecordReloadStarted()
	return ctx, gen, func() {
		c.mu.Lock()
		if c.gen == gen {
			c.cancel = nil
		}
		c.mu.Unlock()
		cancel()
	}
}

// commit applies fn to the state if gen is still the newest generation and
// publishes the result.
func (c *Controller) commit(gen uint64, fn func(s *State)) bool {
	ok := c.update(func(s *State) bool {
		if c.closed || gen != c.gen {
			return false
		}
		fn(s)
		return true
	})
	if !ok {
		c.metrics.RecordReloadSuperseded()
	}
	return ok
}

// update runs fn under the state lock and publishes the state when fn
// reports a change. Subscribers receive states in the order they were
// committed.
func (c *Controller) update(fn func(s *State) bool) bool {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	c.mu.Lock()
	if !fn(&c.state) {
		c.mu.Unlock()
		return false
	}
	published := c.state.Clone()
	c.mu.Unlock()

	c.feed.Send(published)
	return true
}

// fail records err in the overlay for generation gen. when is applied to the
// state first.
func (c *Controller) fail(gen uint64, err error, when func(s *State)) error {
	msg := failure.Normalize(err)
	ok := c.commit(gen, func(s *State) {
		if when != nil {
			when(s)
		}
		s.Phase = PhaseDisconnected
		s.Error = msg
	})
	if !ok {
		return dapperr.ErrReloadSuperseded
	}
	c.metrics.RecordReloadFailed()
	c.logger.Error("reload failed", zap.Error(err))
	return err
}

// Reload re-derives the whole state from the wallet and the contract.
func (c *Controller) Reload(ctx context.Context) error {
	ctx, gen, done := c.begin(ctx)
	defer done()

	accounts, err := c.wallet.ListAccounts(ctx)
	if err != nil {
		return c.fail(gen, dapperr.WithCause(dapperr.ErrConnection, err), nil)
	}

	mainnet := c.registry.Mainnet()
	if len(accounts) == 0 {
		if !c.commit(gen, func(s *State) { *s = DefaultState(mainnet) }) {
			return dapperr.ErrReloadSuperseded
		}
		c.dropSession(gen)
		c.metrics.RecordReloadCommitted()
		c.logger.Debug("no authorized accounts")
		return nil
	}
	account := accounts[0]

	active, err := c.wallet.GetNetwork(ctx)
	if err != nil {
		return c.fail(gen, dapperr.WithCause(dapperr.ErrNetworkError, err), nil)
	}

	cfg, err := c.registry.Resolve(active.ChainID)
	if err != nil {
		return c.fail(gen, err, func(s *State) {
			*s = DefaultState(mainnet)
			s.Network = &active
		})
	}

	if !c.commit(gen, func(s *State) {
		// The snapshot carries a discount price for one account on one chain.
		// Anything else starts over from an empty snapshot.
		if s.Phase == PhaseReady && s.Snapshot.Account == account &&
			s.Network != nil && s.Network.ChainID == active.ChainID {
			s.Phase = PhaseRefreshing
		} else {
			s.Phase = PhaseConnecting
			s.Snapshot = contract.ZeroSnapshot()
		}
		s.Address = &account
		s.Network = &active
		s.NetworkConfig = cfg
	}) {
		return dapperr.ErrReloadSuperseded
	}

	code, err := c.wallet.GetCode(ctx, c.address)
	if err != nil {
		return c.fail(gen, dapperr.WithCause(dapperr.ErrNetworkError, err), nil)
	}
	if len(code) == 0 {
		return c.fail(gen, dapperr.WithDetails(dapperr.ErrContractNotFound, map[string]string{
			"address": c.address.Hex(),
			"network": active.String(),
		}), nil)
	}

	gateway, err := contract.NewGateway(c.address, c.wallet)
	if err != nil {
		return c.fail(gen, err, nil)
	}

	snapshot, err := gateway.Snapshot(ctx, account)
	if err != nil {
		return c.fail(gen, err, nil)
	}

	if !c.commit(gen, func(s *State) {
		s.Phase = PhaseReady
		s.Snapshot = snapshot
		s.Error = nil
		c.gateway = gateway
	}) {
		return dapperr.ErrReloadSuperseded
	}

	c.metrics.RecordReloadCommitted()
	c.logger.Debug("contract ready",
		zap.String("account", account.Hex()),
		zap.Int64("chain_id", active.ChainID),
		zap.Uint64("total_supply", snapshot.TotalSupply),
		zap.Uint64("max_supply", snapshot.MaxSupply))
	return nil
}

// dropSession forgets the contract session when gen is still current.
func (c *Controller) dropSession(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		c.gateway = nil
	}
}

// reset tears the session down after a chain change: in-flight reloads are
// cancelled and can no longer commit, and the default state is published.
func (c *Controller) reset() {
	c.update(func(s *State) bool {
		if c.closed {
			return false
		}
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
		}
		c.gen++
		c.gateway = nil
		*s = DefaultState(c.registry.Mainnet())
		return true
	})
}

// Mint submits a mint of amount tokens, paying amount times the discount
// price of the connected account. It does not wait for the transaction to be
// mined and does not touch the snapshot; reload afterwards to see the result.
func (c *Controller) Mint(ctx context.Context, amount uint64) (common.Hash, error) {
	if amount < 1 {
		c.setError(dapperr.ErrInvalidMintAmount)
		return common.Hash{}, dapperr.ErrInvalidMintAmount
	}

	c.mu.Lock()
	gateway := c.gateway
	ready := c.state.Phase == PhaseReady && c.state.Address != nil
	var (
		from  common.Address
		value = c.state.Snapshot.MintValue(amount)
	)
	if c.state.Address != nil {
		from = *c.state.Address
	}
	c.mu.Unlock()

	if !ready || gateway == nil {
		c.setError(dapperr.ErrNotReady)
		return common.Hash{}, dapperr.ErrNotReady
	}

	hash, err := gateway.Mint(ctx, from, amount, value)
	c.metrics.RecordMint(err)
	if err != nil {
		c.logger.Error("mint failed", zap.Uint64("amount", amount), zap.Error(err))
		c.setError(err)
		return common.Hash{}, err
	}

	c.logger.Info("mint submitted",
		zap.String("tx", hash.Hex()),
		zap.Uint64("amount", amount),
		zap.String("value", value.String()))
	return hash, nil
}

// DismissError clears the error overlay and nothing else.
func (c *Controller) DismissError() {
	c.setError(nil)
}

// setError normalizes v into the overlay. A nil v clears it.
func (c *Controller) setError(v any) {
	msg := failure.Normalize(v)

	c.update(func(s *State) bool {
		if c.closed {
			return false
		}
		s.Error = msg
		return true
	})
}

// State returns a deep copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Subscribe delivers a copy of the state after every change. Sends block
// until received, so ch should be buffered and drained.
func (c *Controller) Subscribe(ch chan<- State) event.Subscription {
	return c.scope.Track(c.feed.Subscribe(ch))
}

// IsWalletConnected reports whether an account has been discovered.
func (c *Controller) IsWalletConnected() bool {
	return c.State().IsWalletConnected()
}

// IsContractReady reports whether a snapshot for the current account and chain is committed.
func (c *Controller) IsContractReady() bool {
	return c.State().IsContractReady()
}

// IsNotMainnet reports whether the wallet is on a chain other than the collection's mainnet.
func (c *Controller) IsNotMainnet() bool {
	s := c.State()
	return s.Network != nil && !c.registry.IsMainnet(s.Network.ChainID)
}

// ContractURL links the contract on the block explorer of the current network config.
func (c *Controller) ContractURL() string {
	return c.State().NetworkConfig.GenerateContractURL(c.address)
}

// MarketplaceURL links the collection on the marketplace, on its testnet
// site when the wallet is not on mainnet.
func (c *Controller) MarketplaceURL() string {
	return c.marketplace.GenerateCollectionURL(c.identifier, !c.IsNotMainnet())
}

// ContractAddress returns the collection contract address.
func (c *Controller) ContractAddress() common.Address {
	return c.address
}

// Close cancels in-flight reloads, drops the notification subscriptions and
// waits for background work to finish. The wallet itself is not closed.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.stop()

		c.mu.Lock()
		c.closed = true
		c.gen++
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
		}
		subs := c.subs
		c.subs = nil
		c.mu.Unlock()

		for _, sub := range subs {
			sub.Unsubscribe()
		}
		c.scope.Close()
		c.wg.Wait()
	})
}

// IsSuperseded reports whether err only means a newer reload took over.
func IsSuperseded(err error) bool {
	return errors.Is(err, dapperr.ErrReloadSuperseded)
}
