package session

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Mohsinsiddi/bidcli/internal/auction"
	"github.com/Mohsinsiddi/bidcli/internal/cache"
	"github.com/Mohsinsiddi/bidcli/internal/chain"
	"github.com/Mohsinsiddi/bidcli/internal/deployment"
	"github.com/Mohsinsiddi/bidcli/internal/optimistic"
	"github.com/Mohsinsiddi/bidcli/internal/store"
	"github.com/Mohsinsiddi/bidcli/internal/wallet"
)

const (
	contractAddr = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	ownerAddr    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	otherAddr    = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

// --- wallet ---

type fakeWallet struct {
	mu         sync.Mutex
	accounts   []common.Address
	requestErr error
	refuse     error         // fails every network change
	gate       chan struct{} // blocks RequestAccounts until closed
	chainID    int64
	known      map[int64]bool
	switches   int
	added      []int64
	events     chan wallet.Event
}

func newFakeWallet(accounts ...string) *fakeWallet {
	w := &fakeWallet{chainID: 31337, known: map[int64]bool{31337: true}, events: make(chan wallet.Event, 8)}
	for _, a := range accounts {
		w.accounts = append(w.accounts, common.HexToAddress(a))
	}
	return w
}

func (w *fakeWallet) Accounts(context.Context) ([]common.Address, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]common.Address(nil), w.accounts...), nil
}

func (w *fakeWallet) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	if w.gate != nil {
		select {
		case <-w.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.requestErr != nil {
		return nil, w.requestErr
	}
	return append([]common.Address(nil), w.accounts...), nil
}

func (w *fakeWallet) Network(context.Context) (wallet.Network, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return wallet.Network{Name: "test", ChainID: w.chainID}, nil
}

func (w *fakeWallet) SwitchNetwork(_ context.Context, id int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.switches++
	if w.refuse != nil {
		return w.refuse
	}
	if !w.known[id] {
		return wallet.ErrUnknownChain
	}
	w.chainID = id
	return nil
}

func (w *fakeWallet) AddNetwork(_ context.Context, n chain.Network) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.added = append(w.added, n.ChainID)
	if w.refuse != nil {
		return w.refuse
	}
	w.known[n.ChainID] = true
	w.chainID = n.ChainID
	return nil
}

func (w *fakeWallet) Events() <-chan wallet.Event { return w.events }

// --- contract ---

type fakeTx struct {
	hash    common.Hash
	release chan error
}

func newFakeTx(n byte) *fakeTx {
	return &fakeTx{hash: common.BytesToHash([]byte{n}), release: make(chan error, 1)}
}

func (tx *fakeTx) Hash() common.Hash { return tx.hash }

func (tx *fakeTx) Wait(ctx context.Context) (*types.Receipt, error) {
	select {
	case err := <-tx.release:
		if err != nil {
			return nil, err
		}
		return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: tx.hash}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type fakeContract struct {
	mu       sync.Mutex
	items    []auction.Item
	readErr  error
	probeErr error
	code     []byte
	owner    common.Address
	writeErr error
	nextTx   *fakeTx

	reads      atomic.Int32
	itemReads  atomic.Int32
	ownerReads atomic.Int32
}

func newFakeContract() *fakeContract {
	sel := auction.Selector("itemCount()")
	return &fakeContract{
		items: []auction.Item{
			{ID: 1, Name: "Lamp", StartingPrice: big.NewInt(100), HighestBid: big.NewInt(0), Active: true},
			{ID: 2, Name: "Vase", StartingPrice: big.NewInt(200), HighestBid: big.NewInt(250), Active: true},
		},
		code:  append([]byte{0x60, 0x80, 0x63}, sel[:]...),
		owner: common.HexToAddress(ownerAddr),
	}
}

func (f *fakeContract) Address() common.Address { return common.HexToAddress(contractAddr) }

func (f *fakeContract) Code(context.Context) ([]byte, error) { return f.code, nil }

func (f *fakeContract) GetAllItems(context.Context) ([]auction.Item, error) {
	f.reads.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	return auction.CloneItems(f.items), nil
}

func (f *fakeContract) GetItem(_ context.Context, id uint64) (auction.Item, error) {
	f.itemReads.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return auction.Item{}, f.readErr
	}
	for _, it := range f.items {
		if it.ID == id {
			return it.Clone(), nil
		}
	}
	return auction.Item{}, errors.New("execution reverted: item does not exist")
}

func (f *fakeContract) Owner(context.Context) (common.Address, error) {
	f.ownerReads.Add(1)
	return f.owner, nil
}

func (f *fakeContract) ItemCount(context.Context) (uint64, error) {
	if f.probeErr != nil {
		return 0, f.probeErr
	}
	return uint64(len(f.items)), nil
}

func (f *fakeContract) write() (auction.PendingTx, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	if f.nextTx == nil {
		f.nextTx = newFakeTx(1)
	}
	return f.nextTx, nil
}

func (f *fakeContract) AddItem(context.Context, string, string, *big.Int) (auction.PendingTx, error) {
	return f.write()
}

func (f *fakeContract) PlaceBid(context.Context, uint64, string, *big.Int) (auction.PendingTx, error) {
	return f.write()
}

func (f *fakeContract) EndAuction(context.Context, uint64) (auction.PendingTx, error) {
	return f.write()
}

// --- deployment ---

type fixedSource struct{ d *deployment.Descriptor }

func (s fixedSource) Name() string { return "fixed" }

func (s fixedSource) Load(context.Context) (*deployment.Descriptor, error) {
	if s.d == nil {
		return nil, errors.New("not found")
	}
	cp := *s.d
	return &cp, nil
}

func testDescriptor() *deployment.Descriptor {
	return &deployment.Descriptor{
		ContractAddress: contractAddr,
		DeployerAddress: ownerAddr,
		Network:         "localhost",
		ChainID:         31337,
	}
}

// --- harness ---

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type harness struct {
	ctl      *Controller
	wallet   *fakeWallet
	contract *fakeContract
	cache    *cache.Cache
	pending  *optimistic.Manager
	clock    *fakeClock
	kv       *store.MemKV
	bindErr  error
}

type harnessOpt func(*harness, *Deps, *Options)

func withoutDeployment() harnessOpt {
	return func(_ *harness, d *Deps, _ *Options) {
		d.Resolver = deployment.NewResolver(store.NewMemKV(), 31337, []deployment.Source{fixedSource{}})
	}
}

func withoutWallet() harnessOpt {
	return func(_ *harness, d *Deps, _ *Options) { d.Wallet = nil }
}

func forceDemo() harnessOpt {
	return func(_ *harness, _ *Deps, o *Options) { o.ForceDemo = true }
}

func newHarness(t *testing.T, opts ...harnessOpt) *harness {
	t.Helper()
	h := &harness{
		wallet:   newFakeWallet(ownerAddr),
		contract: newFakeContract(),
		clock:    &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		kv:       store.NewMemKV(),
	}
	h.cache = cache.New(cache.WithClock(h.clock.Now))
	h.pending = optimistic.NewManager(optimistic.WithClock(h.clock.Now))

	factory := func(_ context.Context, _ *deployment.Descriptor, _ common.Address) (auction.Contract, error) {
		if h.bindErr != nil {
			return nil, h.bindErr
		}
		return h.contract, nil
	}
	deps := Deps{
		Wallet:    h.wallet,
		Resolver:  deployment.NewResolver(h.kv, 31337, []deployment.Source{fixedSource{d: testDescriptor()}}),
		Cache:     h.cache,
		Pending:   h.pending,
		Contracts: factory,
	}
	o := Options{
		ChainID:      31337,
		SyncInterval: time.Hour,
		SyncQuiet:    15 * time.Second,
		Now:          h.clock.Now,
	}
	for _, fn := range opts {
		fn(h, &deps, &o)
	}

	h.ctl = New(deps, o)
	t.Cleanup(h.ctl.Close)
	return h
}

// connected returns a harness already in live mode.
func connected(t *testing.T, opts ...harnessOpt) *harness {
	t.Helper()
	h := newHarness(t, opts...)
	if err := h.ctl.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if st := h.ctl.State(); st.Mode != ModeLive {
		t.Fatalf("expected live session, got %s (%s)", st.Mode, st.Error)
	}
	return h
}
