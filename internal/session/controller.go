// Package session is the state machine that ties wallet, deployment,
// cache and optimistic updates together. Reads are served from the
// optimistic overlay on top of the cache, falling back to the contract.
// Writes register an optimistic entry, submit, and reconcile in the
// background once the transaction settles.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/bidcli/internal/auction"
	"github.com/Mohsinsiddi/bidcli/internal/cache"
	"github.com/Mohsinsiddi/bidcli/internal/chain"
	"github.com/Mohsinsiddi/bidcli/internal/config"
	"github.com/Mohsinsiddi/bidcli/internal/deployment"
	"github.com/Mohsinsiddi/bidcli/internal/optimistic"
	bgsync "github.com/Mohsinsiddi/bidcli/internal/sync"
	"github.com/Mohsinsiddi/bidcli/internal/wallet"
)

// ContractFactory binds the Auction contract at d for account.
type ContractFactory func(ctx context.Context, d *deployment.Descriptor, account common.Address) (auction.Contract, error)

// Deps are the collaborators a Controller drives.
type Deps struct {
	Wallet    wallet.Provider // nil when no node is reachable
	Resolver  *deployment.Resolver
	Cache     *cache.Cache
	Pending   *optimistic.Manager
	Contracts ContractFactory
	Registry  *chain.Registry
}

// Options tune timing and logging.
type Options struct {
	ChainID        int64
	SyncInterval   time.Duration
	SyncQuiet      time.Duration
	DemoAddDelay   time.Duration
	DemoWriteDelay time.Duration
	// ForceDemo skips wallet and contract entirely.
	ForceDemo bool
	Logger    *zap.Logger
	Now       func() time.Time
}

// DefaultOptions returns the stock timings.
func DefaultOptions() Options {
	return Options{
		ChainID:        config.HardhatChainID,
		SyncInterval:   20 * time.Second,
		SyncQuiet:      15 * time.Second,
		DemoAddDelay:   config.DemoAddDelay,
		DemoWriteDelay: config.DemoWriteDelay,
	}
}

// Controller owns one wallet/contract session.
type Controller struct {
	deps Deps
	opts Options
	log  *zap.Logger

	mu         sync.Mutex
	status     Status
	mode       Mode
	account    common.Address
	hasAccount bool
	errMsg     string
	isOwner    bool
	network    *NetworkInfo
	deployment *deployment.Descriptor
	contract   auction.Contract
	lastItems  []auction.Item // last good remote read, for degraded reads
	epoch      uint64

	syncer *bgsync.Syncer

	ctx    context.Context // lifetime of settlement goroutines
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a disconnected controller.
func New(deps Deps, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ChainID == 0 {
		opts.ChainID = config.HardhatChainID
	}
	if opts.SyncInterval <= 0 {
		opts.SyncInterval = 20 * time.Second
	}
	if opts.SyncQuiet <= 0 {
		opts.SyncQuiet = 15 * time.Second
	}
	if deps.Cache == nil {
		deps.Cache = cache.New(cache.WithClock(opts.Now))
	}
	if deps.Pending == nil {
		deps.Pending = optimistic.NewManager()
	}
	if deps.Registry == nil {
		deps.Registry = chain.NewRegistry()
	}

	c := &Controller{deps: deps, opts: opts, log: opts.Logger}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.syncer = bgsync.New(c.syncOnce, opts.SyncInterval, opts.SyncQuiet,
		bgsync.WithClock(opts.Now), bgsync.WithLogger(opts.Logger))
	return c
}

// Init resolves the deployment and reconnects when the wallet has already
// authorised an account. Detection failures are only logged.
func (c *Controller) Init(ctx context.Context) error {
	if c.deps.Resolver != nil {
		d, err := c.deps.Resolver.Resolve(ctx)
		if err != nil {
			c.log.Info("no deployment detected", zap.Error(err))
		} else {
			c.mu.Lock()
			c.deployment = d
			c.mu.Unlock()
		}
	}

	if c.opts.ForceDemo || c.deps.Wallet == nil || c.Deployment() == nil {
		return nil
	}
	accounts, err := c.deps.Wallet.Accounts(ctx)
	if err != nil || len(accounts) == 0 {
		return nil
	}
	c.log.Info("auto-connecting to existing account", zap.Stringer("account", accounts[0]))
	return c.Connect(ctx)
}

// --- connect ---

// Connect runs the connection state machine. A contract that cannot be
// reached puts the session in demo mode and is not an error; wallet
// failures return a *ConnectError and leave the session disconnected.
func (c *Controller) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.status == Connecting {
		c.mu.Unlock()
		return ErrConnectInProgress
	}
	c.status = Connecting
	c.errMsg = ""
	epoch := c.epoch
	c.mu.Unlock()

	c.syncer.Stop()

	if c.opts.ForceDemo {
		return c.commit(epoch, func() {
			c.status = Connected
			c.enterDemoLocked("")
		})
	}

	if c.deps.Wallet == nil {
		return c.fail(epoch, &ConnectError{Kind: KindNoProvider, Err: wallet.ErrNoProvider})
	}

	accounts, err := c.deps.Wallet.RequestAccounts(ctx)
	if err != nil {
		return c.fail(epoch, &ConnectError{Kind: classify(err), Err: err})
	}
	if len(accounts) == 0 {
		return c.fail(epoch, &ConnectError{Kind: KindNoAccounts, Err: wallet.ErrNoAccounts})
	}
	account := accounts[0]

	net, err := c.ensureNetwork(ctx)
	if err != nil {
		ce := &ConnectError{Kind: classify(err), Err: err}
		if ce.Kind == KindWrongNetwork {
			ce.ChainID = c.opts.ChainID
			ce.Network = c.networkName(c.opts.ChainID)
		}
		return c.fail(epoch, ce)
	}

	if err := c.commit(epoch, func() {
		c.status = Connected
		c.account, c.hasAccount = account, true
		c.network = net
	}); err != nil {
		return err
	}
	c.log.Info("wallet connected", zap.Stringer("account", account), zap.Int64("chainId", net.ChainID))

	d := c.Deployment()
	if d == nil {
		return c.commit(epoch, func() {
			c.enterDemoLocked("No contract deployment found. Deploy your contract first or use demo mode.")
		})
	}

	con, err := c.bind(ctx, d, account)
	if err != nil {
		c.log.Warn("contract connection failed", zap.String("address", d.ContractAddress), zap.Error(err))
		return c.commit(epoch, func() {
			c.enterDemoLocked(fmt.Sprintf("Contract connection failed: %s. Using demo mode.", err))
		})
	}

	isOwner := c.checkOwner(ctx, con, account)

	if err := c.commit(epoch, func() {
		c.contract = con
		c.mode = ModeLive
		c.isOwner = isOwner
		c.errMsg = ""
	}); err != nil {
		return err
	}

	c.syncer.Reset()
	c.syncer.Start(c.ctx)
	c.log.Info("connected to contract", zap.String("address", d.ContractAddress), zap.Bool("owner", isOwner))
	return nil
}

// commit applies fn under the lock unless a reset happened since epoch.
func (c *Controller) commit(epoch uint64, fn func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return ErrSessionReset
	}
	fn()
	return nil
}

func (c *Controller) fail(epoch uint64, ce *ConnectError) error {
	c.log.Warn("wallet connection failed", zap.Error(ce.Err))
	if err := c.commit(epoch, func() {
		c.status = Disconnected
		c.mode = ModeNone
		c.errMsg = ce.Error()
		c.account, c.hasAccount = common.Address{}, false
		c.isOwner = false
		c.network = nil
		c.contract = nil
	}); err != nil {
		return err
	}
	c.syncer.Stop()
	return ce
}

func (c *Controller) enterDemoLocked(msg string) {
	c.mode = ModeDemo
	c.contract = nil
	c.isOwner = true
	c.errMsg = msg
}

// ensureNetwork moves the wallet to the required chain, adding it first when
// the wallet does not know it.
func (c *Controller) ensureNetwork(ctx context.Context) (*NetworkInfo, error) {
	want := c.opts.ChainID
	w := c.deps.Wallet

	net, err := w.Network(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking network: %w", err)
	}
	if net.ChainID != want {
		err := w.SwitchNetwork(ctx, want)
		if errors.Is(err, wallet.ErrUnknownChain) {
			err = w.AddNetwork(ctx, c.requiredNetwork())
		}
		if err != nil {
			c.log.Warn("network switch failed", zap.Int64("chainId", want), zap.Error(err))
		}
		if net, err = w.Network(ctx); err != nil {
			return nil, fmt.Errorf("checking network: %w", err)
		}
	}
	if net.ChainID != want {
		return nil, fmt.Errorf("%w: on chain %d", ErrWrongNetwork, net.ChainID)
	}
	return &NetworkInfo{
		Name:        c.networkName(net.ChainID),
		ChainID:     net.ChainID,
		IsLocalhost: net.ChainID == config.HardhatChainID,
	}, nil
}

func (c *Controller) requiredNetwork() chain.Network {
	if n, err := c.deps.Registry.GetByChainID(c.opts.ChainID); err == nil {
		return *n
	}
	return chain.Network{
		Name:           "hardhat",
		DisplayName:    "Hardhat Local",
		ChainID:        c.opts.ChainID,
		NativeCurrency: "ETH",
		Decimals:       18,
		RPCURLs:        []string{"http://127.0.0.1:8545"},
		Local:          true,
	}
}

func (c *Controller) networkName(id int64) string {
	return c.deps.Registry.NameOf(id)
}

// bind creates the contract handle and proves something answers at the
// address.
func (c *Controller) bind(ctx context.Context, d *deployment.Descriptor, account common.Address) (auction.Contract, error) {
	if c.deps.Contracts == nil {
		return nil, errors.New("no contract backend configured")
	}
	con, err := c.deps.Contracts(ctx, d, account)
	if err != nil {
		return nil, err
	}
	code, err := con.Code(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading code: %w", err)
	}
	if len(code) == 0 {
		return nil, auction.ErrNoCode
	}
	if !auction.HasSelector(code, "itemCount()") {
		c.log.Warn("bytecode does not expose itemCount(), probing anyway", zap.String("address", d.ContractAddress))
	}
	n, err := con.ItemCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("probing itemCount: %w", err)
	}
	c.deps.Cache.Set(cache.KeyItemCount, n, config.DefaultTTL)
	c.log.Info("contract probe ok", zap.Uint64("itemCount", n))
	return con, nil
}

func (c *Controller) checkOwner(ctx context.Context, con auction.Contract, account common.Address) bool {
	owner, ok := cache.GetAs[string](c.deps.Cache, cache.KeyOwner)
	if !ok {
		addr, err := con.Owner(ctx)
		if err != nil {
			c.log.Warn("could not check contract owner", zap.Error(err))
			return false
		}
		owner = addr.Hex()
		c.deps.Cache.Set(cache.KeyOwner, owner, config.OwnerTTL)
	}
	return strings.EqualFold(owner, account.Hex())
}

// --- reads ---

// GetAllItems never fails: on a read error it serves the last good list, or
// nothing, with pending writes overlaid.
func (c *Controller) GetAllItems(ctx context.Context) []auction.Item {
	c.mu.Lock()
	mode, status, con := c.mode, c.status, c.contract
	c.mu.Unlock()

	if mode == ModeDemo {
		return append(DemoItems(), c.deps.Pending.PendingItems()...)
	}

	if items, ok := cache.GetAs[[]auction.Item](c.deps.Cache, cache.KeyAllItems); ok {
		return c.compose(auction.CloneItems(items))
	}

	if con == nil || status != Connected {
		c.log.Debug("contract not initialized, returning no items")
		return []auction.Item{}
	}

	items, err := con.GetAllItems(ctx)
	if err != nil {
		c.log.Warn("failed to get items", zap.Error(err))
		return c.compose(c.lastGoodItems())
	}
	c.deps.Cache.Set(cache.KeyAllItems, items, config.ItemsTTL)
	c.remember(items)
	return c.compose(auction.CloneItems(items))
}

// GetItem looks an item up by id. Pending items are found by their
// temporary id. A failed read is reported as not found.
func (c *Controller) GetItem(ctx context.Context, id uint64) (auction.Item, bool) {
	for _, it := range c.deps.Pending.PendingItems() {
		if it.ID == id {
			return it, true
		}
	}

	c.mu.Lock()
	mode, status, con := c.mode, c.status, c.contract
	c.mu.Unlock()

	if mode == ModeDemo {
		for _, it := range DemoItems() {
			if it.ID == id {
				return it, true
			}
		}
		return auction.Item{}, false
	}

	key := cache.ItemKey(id)
	if it, ok := cache.GetAs[auction.Item](c.deps.Cache, key); ok {
		return c.overlayOne(it.Clone()), true
	}
	if con == nil || status != Connected {
		return auction.Item{}, false
	}

	it, err := con.GetItem(ctx, id)
	if err != nil {
		c.log.Warn("failed to get item", zap.Uint64("itemId", id), zap.Error(err))
		return auction.Item{}, false
	}
	c.deps.Cache.Set(key, it, config.ItemTTL)
	return c.overlayOne(it.Clone()), true
}

func (c *Controller) compose(base []auction.Item) []auction.Item {
	return optimistic.Compose(base, c.deps.Pending.PendingItems(), c.deps.Pending.PendingBids())
}

func (c *Controller) overlayOne(it auction.Item) auction.Item {
	out := []auction.Item{it}
	for _, b := range c.deps.Pending.PendingBids() {
		out = optimistic.OverlayBid(out, b)
	}
	return out[0]
}

func (c *Controller) remember(items []auction.Item) {
	c.mu.Lock()
	c.lastItems = auction.CloneItems(items)
	c.mu.Unlock()
}

func (c *Controller) lastGoodItems() []auction.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastItems == nil {
		return []auction.Item{}
	}
	return auction.CloneItems(c.lastItems)
}

// syncOnce is the background refresh.
func (c *Controller) syncOnce(ctx context.Context) error {
	c.mu.Lock()
	mode, status, con := c.mode, c.status, c.contract
	c.mu.Unlock()
	if con == nil || mode != ModeLive || status != Connected {
		return nil
	}
	items, err := con.GetAllItems(ctx)
	if err != nil {
		return err
	}
	c.deps.Cache.Set(cache.KeyAllItems, items, config.SyncTTL)
	c.remember(items)
	return nil
}

// --- writes ---

func (c *Controller) live() (auction.Contract, common.Address, Mode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeDemo {
		return nil, c.account, ModeDemo, nil
	}
	if c.contract == nil || c.status != Connected {
		return nil, common.Address{}, c.mode, ErrNotConnected
	}
	return c.contract, c.account, c.mode, nil
}

// AddItem shows the new item immediately and confirms it in the background.
func (c *Controller) AddItem(ctx context.Context, name, description, startingPriceEther string) (auction.Item, *Settlement, error) {
	price, err := auction.ParseEther(startingPriceEther)
	if err != nil {
		return auction.Item{}, nil, err
	}
	con, _, mode, err := c.live()
	if err != nil {
		return auction.Item{}, nil, err
	}

	draft := optimistic.Draft{Name: name, Description: description, StartingPrice: price}

	if mode == ModeDemo {
		it := c.deps.Pending.RegisterItem(draft)
		c.deps.Cache.Invalidate(cache.KeyAllItems)
		if err := sleep(ctx, c.opts.DemoAddDelay); err != nil {
			c.deps.Pending.RevertItem(it.ID)
			return auction.Item{}, nil, err
		}
		return it, nil, nil
	}

	it := c.deps.Pending.RegisterItem(draft)
	tx, err := con.AddItem(ctx, name, description, price)
	if err != nil {
		c.deps.Pending.RevertItem(it.ID)
		return auction.Item{}, nil, fmt.Errorf("adding item: %w", err)
	}
	c.log.Info("item submitted", zap.Uint64("tempId", it.ID), zap.Stringer("tx", tx.Hash()))

	s := c.settle(tx, func() {
		c.deps.Pending.ConfirmItem(it.ID)
		c.invalidateItems()
		c.deps.Cache.Invalidate(cache.KeyItemCount)
	}, func() {
		c.deps.Pending.RevertItem(it.ID)
	})
	return it, s, nil
}

// PlaceBid overlays the bid immediately and confirms it in the background.
// In demo mode the bid is echoed back after a short delay and not recorded.
func (c *Controller) PlaceBid(ctx context.Context, itemID uint64, bidderName, amountEther string) (optimistic.Bid, *Settlement, error) {
	amount, err := auction.ParseEther(amountEther)
	if err != nil {
		return optimistic.Bid{}, nil, err
	}
	con, account, mode, err := c.live()
	if err != nil {
		return optimistic.Bid{}, nil, err
	}

	if mode == ModeDemo {
		b := optimistic.Bid{
			Key:           fmt.Sprintf("%d-demo", itemID),
			ItemID:        itemID,
			Amount:        amount,
			AmountEther:   amountEther,
			BidderName:    bidderName,
			BidderAddress: account.Hex(),
			SubmittedAt:   c.opts.Now(),
			Optimistic:    true,
		}
		return b, nil, sleep(ctx, c.opts.DemoWriteDelay)
	}

	b := c.deps.Pending.RegisterBid(itemID, amount, amountEther, bidderName, account.Hex())
	tx, err := con.PlaceBid(ctx, itemID, bidderName, amount)
	if err != nil {
		c.deps.Pending.RevertBid(b.Key)
		return optimistic.Bid{}, nil, fmt.Errorf("placing bid: %w", err)
	}
	c.log.Info("bid submitted", zap.String("key", b.Key), zap.Stringer("tx", tx.Hash()))

	s := c.settle(tx, func() {
		c.deps.Pending.ConfirmBid(b.Key)
		c.invalidateItems()
		c.deps.Cache.Invalidate(cache.ItemKey(itemID))
		c.deps.Cache.Invalidate(cache.BidsKey(account.Hex()))
	}, func() {
		c.deps.Pending.RevertBid(b.Key)
	})
	return b, s, nil
}

// EndAuction blocks until the transaction is mined. Demo mode only waits.
func (c *Controller) EndAuction(ctx context.Context, itemID uint64) (*types.Receipt, error) {
	con, _, mode, err := c.live()
	if err != nil {
		return nil, err
	}
	if mode == ModeDemo {
		return nil, sleep(ctx, c.opts.DemoWriteDelay)
	}

	tx, err := con.EndAuction(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("ending auction: %w", err)
	}
	receipt, err := tx.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("ending auction: %w", err)
	}
	c.invalidateItems()
	c.deps.Cache.Invalidate(cache.ItemKey(itemID))
	return receipt, nil
}

// settle waits for tx on the controller's lifetime and runs exactly one of
// onConfirm or onRevert.
func (c *Controller) settle(tx auction.PendingTx, onConfirm, onRevert func()) *Settlement {
	s := newSettlement(tx.Hash())
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_, err := tx.Wait(c.ctx)
		if err != nil {
			c.log.Warn("transaction failed, reverting optimistic update", zap.Stringer("tx", tx.Hash()), zap.Error(err))
			onRevert()
		} else {
			c.log.Info("transaction confirmed", zap.Stringer("tx", tx.Hash()))
			onConfirm()
		}
		s.finish(err)
	}()
	return s
}

func (c *Controller) invalidateItems() {
	if _, err := c.deps.Cache.InvalidateMatching(cache.ItemsFamily); err != nil {
		c.log.Error("invalidating items", zap.Error(err))
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// --- deployment & cache ---

// RefreshDeployment re-runs detection. On success the new descriptor is
// persisted, the cache is cleared, and a connected session reconnects.
func (c *Controller) RefreshDeployment(ctx context.Context) bool {
	if c.deps.Resolver == nil {
		return false
	}
	d, err := c.deps.Resolver.Detect(ctx)
	if err != nil {
		c.log.Info("refresh found no deployment", zap.Error(err))
		return false
	}
	if err := c.deps.Resolver.Persist(d); err != nil {
		c.log.Warn("could not persist deployment", zap.Error(err))
	}

	c.mu.Lock()
	c.deployment = d
	c.lastItems = nil
	wasConnected := c.status == Connected
	c.mu.Unlock()

	c.deps.Cache.Clear()

	if wasConnected {
		if err := c.Connect(ctx); err != nil {
			c.log.Warn("reconnect after refresh failed", zap.Error(err))
		}
	}
	return true
}

// Deployment returns the current descriptor, or nil.
func (c *Controller) Deployment() *deployment.Descriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deployment
}

// ClearCache drops every cached read.
func (c *Controller) ClearCache() {
	c.deps.Cache.Clear()
}

// CacheStats reports cache size and keys.
func (c *Controller) CacheStats() cache.Stats {
	return c.deps.Cache.Stats()
}

// State returns a snapshot of the session.
func (c *Controller) State() State {
	items, bids := c.deps.Pending.Len()

	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Status:        c.status,
		Mode:          c.mode,
		Error:         c.errMsg,
		IsOwner:       c.isOwner,
		Demo:          c.mode == ModeDemo,
		Deployment:    c.deployment,
		ContractReady: c.contract != nil || c.mode == ModeDemo,
		LastSync:      c.syncer.LastSync(),
		PendingItems:  items,
		PendingBids:   bids,
	}
	if c.hasAccount {
		s.Account = c.account.Hex()
	}
	if c.network != nil {
		n := *c.network
		s.Network = &n
	}
	if c.contract != nil {
		s.ContractAddress = c.contract.Address().Hex()
	} else if c.deployment != nil {
		s.ContractAddress = c.deployment.ContractAddress
	}
	return s
}

// --- wallet events ---

// HandleAccountsChanged resets on an empty list and reconnects when the
// first account differs from the current one.
func (c *Controller) HandleAccountsChanged(ctx context.Context, accounts []common.Address) error {
	c.mu.Lock()
	same := c.hasAccount && len(accounts) > 0 && accounts[0] == c.account
	c.mu.Unlock()

	if same {
		return nil
	}
	c.reset()
	if len(accounts) == 0 {
		c.log.Info("wallet disconnected")
		return nil
	}
	c.log.Info("account changed, reconnecting", zap.Stringer("account", accounts[0]))
	return c.Connect(ctx)
}

// HandleChainChanged resets the session. The host must reload.
func (c *Controller) HandleChainChanged(chainID int64) error {
	c.log.Info("chain changed", zap.Int64("chainId", chainID))
	c.reset()
	return ErrReloadRequired
}

// Listen dispatches wallet events until ctx ends or the controller closes.
// onReload is called after a chain change.
func (c *Controller) Listen(ctx context.Context, onReload func(chainID int64)) {
	if c.deps.Wallet == nil {
		return
	}
	events := c.deps.Wallet.Events()
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.ctx.Done():
				return
			case e := <-events:
				switch e.Kind {
				case wallet.AccountsChanged:
					if err := c.HandleAccountsChanged(ctx, e.Accounts); err != nil {
						c.log.Warn("reconnect failed", zap.Error(err))
					}
				case wallet.ChainChanged:
					_ = c.HandleChainChanged(e.ChainID)
					if onReload != nil {
						onReload(e.ChainID)
					}
				}
			}
		}
	}()
}

// reset returns to a clean disconnected session. The deployment is kept.
func (c *Controller) reset() {
	c.syncer.Stop()
	c.syncer.Reset()

	c.mu.Lock()
	c.status = Disconnected
	c.mode = ModeNone
	c.account, c.hasAccount = common.Address{}, false
	c.errMsg = ""
	c.isOwner = false
	c.network = nil
	c.contract = nil
	c.lastItems = nil
	c.epoch++
	c.mu.Unlock()

	c.deps.Pending.Clear()
	c.deps.Cache.Clear()
}

// Close stops background work and waits for outstanding settlements. Writes
// still in flight are reverted locally.
func (c *Controller) Close() {
	c.syncer.Stop()
	c.cancel()
	c.wg.Wait()
}
