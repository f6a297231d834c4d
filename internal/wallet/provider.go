package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/bidcli/internal/chain"
)

// Provider errors, mirroring what a browser wallet reports.
var (
	ErrNoProvider     = errors.New("no wallet provider available")
	ErrUserRejected   = errors.New("request rejected by user")
	ErrRequestPending = errors.New("a wallet request is already pending")
	ErrNoAccounts     = errors.New("no accounts found")
	ErrUnknownChain   = errors.New("chain has not been added to the wallet")
)

// EventKind tells wallet events apart.
type EventKind int

const (
	AccountsChanged EventKind = iota + 1
	ChainChanged
)

func (k EventKind) String() string {
	switch k {
	case AccountsChanged:
		return "accountsChanged"
	case ChainChanged:
		return "chainChanged"
	}
	return "unknown"
}

// Event is a change pushed by the wallet.
type Event struct {
	Kind     EventKind
	Accounts []common.Address
	ChainID  int64
}

// Network is the chain the wallet is currently on.
type Network struct {
	Name    string `json:"name"`
	ChainID int64  `json:"chainId"`
}

// Provider is what a session needs from a wallet.
type Provider interface {
	// Accounts returns already-authorised accounts without prompting.
	Accounts(ctx context.Context) ([]common.Address, error)
	// RequestAccounts asks the user for access.
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	Network(ctx context.Context) (Network, error)
	// SwitchNetwork fails with ErrUnknownChain when the chain was never added.
	SwitchNetwork(ctx context.Context, chainID int64) error
	// AddNetwork adds n and switches to it.
	AddNetwork(ctx context.Context, n chain.Network) error
	Events() <-chan Event
}

// ApproveFunc is asked before accounts are handed out. Returning false
// rejects the request.
type ApproveFunc func(w *Wallet) bool

// LocalProvider is a wallet backed by the local wallet list, the keystore and
// a JSON-RPC node.
type LocalProvider struct {
	mu       sync.Mutex
	wallets  *Manager
	registry *chain.Registry
	client   *ethclient.Client
	url      string
	chainID  int64
	known    map[int64]chain.Network
	approved bool

	pending atomic.Bool
	events  chan Event
	approve ApproveFunc
	dial    func(ctx context.Context, url string) (*ethclient.Client, error)
	log     *zap.Logger

	stopOnce sync.Once
	stop     chan struct{}
}

// ProviderOption configures a LocalProvider.
type ProviderOption func(*LocalProvider)

// WithApproval installs a prompt consulted on RequestAccounts.
func WithApproval(fn ApproveFunc) ProviderOption {
	return func(p *LocalProvider) {
		p.approve = fn
	}
}

// WithRegistry replaces the built-in network registry.
func WithRegistry(r *chain.Registry) ProviderOption {
	return func(p *LocalProvider) {
		p.registry = r
	}
}

// WithProviderLogger sets the provider's logger.
func WithProviderLogger(l *zap.Logger) ProviderOption {
	return func(p *LocalProvider) {
		p.log = l
	}
}

// NewLocalProvider dials url and records the chain it serves. An unreachable
// node yields ErrNoProvider.
func NewLocalProvider(ctx context.Context, url string, wallets *Manager, opts ...ProviderOption) (*LocalProvider, error) {
	p := &LocalProvider{
		wallets:  wallets,
		registry: chain.NewRegistry(),
		known:    make(map[int64]chain.Network),
		events:   make(chan Event, 16),
		dial:     ethclient.DialContext,
		log:      zap.NewNop(),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	client, id, err := p.connect(ctx, url)
	if err != nil {
		return nil, err
	}
	p.client, p.url, p.chainID = client, url, id
	p.known[id] = p.networkFor(id, url)
	return p, nil
}

func (p *LocalProvider) connect(ctx context.Context, url string) (*ethclient.Client, int64, error) {
	client, err := p.dial(ctx, url)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: dialing %s: %v", ErrNoProvider, url, err)
	}
	id, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, 0, fmt.Errorf("%w: node at %s not reachable: %v", ErrNoProvider, url, err)
	}
	return client, id.Int64(), nil
}

func (p *LocalProvider) networkFor(id int64, url string) chain.Network {
	if n, err := p.registry.GetByChainID(id); err == nil {
		return n.WithRPC(url)
	}
	return chain.Network{
		Name:        fmt.Sprintf("chain-%d", id),
		DisplayName: p.registry.NameOf(id),
		ChainID:     id,
		RPCURLs:     []string{url},
	}
}

// Client returns the RPC client for the current network.
func (p *LocalProvider) Client() *ethclient.Client {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.client
}

// ChainID returns the current chain id.
func (p *LocalProvider) ChainID() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.chainID
}

// Signer returns a signer for the wallet that owns account.
func (p *LocalProvider) Signer(account common.Address) (*Signer, error) {
	w, err := p.wallets.GetByAddress(account)
	if err != nil {
		return nil, err
	}
	if w.Type != TypeSigning {
		return nil, fmt.Errorf("%w: %q", ErrWatchOnly, w.Name)
	}
	return NewSigner(w, p.wallets.KeyStore()), nil
}

// Accounts returns the selected account once access has been granted.
func (p *LocalProvider) Accounts(_ context.Context) ([]common.Address, error) {
	p.mu.Lock()
	approved := p.approved
	p.mu.Unlock()
	if !approved && p.approve != nil {
		return nil, nil
	}
	return p.accounts(), nil
}

// RequestAccounts returns the default wallet first, then every other wallet.
func (p *LocalProvider) RequestAccounts(_ context.Context) ([]common.Address, error) {
	if !p.pending.CompareAndSwap(false, true) {
		return nil, ErrRequestPending
	}
	defer p.pending.Store(false)

	accounts := p.accounts()
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}
	if p.approve != nil {
		w, err := p.wallets.GetByAddress(accounts[0])
		if err != nil {
			return nil, err
		}
		if !p.approve(w) {
			return nil, ErrUserRejected
		}
	}
	p.mu.Lock()
	p.approved = true
	p.mu.Unlock()
	return accounts, nil
}

func (p *LocalProvider) accounts() []common.Address {
	var out []common.Address
	def := p.wallets.Default()
	if def != nil {
		out = append(out, def.Account())
	}
	for _, w := range p.wallets.List() {
		if def != nil && w.Name == def.Name {
			continue
		}
		out = append(out, w.Account())
	}
	return out
}

// Network reports the chain of the connected node.
func (p *LocalProvider) Network(ctx context.Context) (Network, error) {
	client := p.Client()
	id, err := client.ChainID(ctx)
	if err != nil {
		return Network{}, fmt.Errorf("reading chain id: %w", err)
	}
	return Network{ChainID: id.Int64(), Name: p.registry.NameOf(id.Int64())}, nil
}

// SwitchNetwork moves to a chain the wallet already knows.
func (p *LocalProvider) SwitchNetwork(ctx context.Context, chainID int64) error {
	p.mu.Lock()
	n, ok := p.known[chainID]
	current := p.chainID
	p.mu.Unlock()

	if chainID == current {
		return nil
	}
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownChain, chainID)
	}
	return p.switchTo(ctx, n)
}

// AddNetwork registers n and switches to it.
func (p *LocalProvider) AddNetwork(ctx context.Context, n chain.Network) error {
	if n.RPC() == "" {
		return fmt.Errorf("network %s has no RPC URL", n.Name)
	}
	p.mu.Lock()
	p.known[n.ChainID] = n
	p.mu.Unlock()
	p.log.Info("network added", zap.String("name", n.DisplayName), zap.Int64("chainId", n.ChainID))
	return p.switchTo(ctx, n)
}

// switchTo does not emit ChainChanged: the caller initiated it.
func (p *LocalProvider) switchTo(ctx context.Context, n chain.Network) error {
	client, id, err := p.connect(ctx, n.RPC())
	if err != nil {
		return err
	}
	if id != n.ChainID {
		client.Close()
		return fmt.Errorf("node at %s serves chain %d, not %d", n.RPC(), id, n.ChainID)
	}

	p.mu.Lock()
	old := p.client
	p.client, p.url, p.chainID = client, n.RPC(), id
	p.mu.Unlock()
	if old != nil {
		old.Close()
	}
	p.log.Info("switched network", zap.Int64("chainId", id), zap.String("rpc", n.RPC()))
	return nil
}

// SelectAccount makes name the default wallet and announces the change.
func (p *LocalProvider) SelectAccount(name string) error {
	if err := p.wallets.SetDefault(name); err != nil {
		return err
	}
	p.emit(Event{Kind: AccountsChanged, Accounts: p.accounts()})
	return nil
}

// Disconnect revokes access; listeners see an empty account list.
func (p *LocalProvider) Disconnect() {
	p.mu.Lock()
	p.approved = false
	p.mu.Unlock()
	p.emit(Event{Kind: AccountsChanged})
}

// Events delivers AccountsChanged and ChainChanged notifications.
func (p *LocalProvider) Events() <-chan Event {
	return p.events
}

func (p *LocalProvider) emit(e Event) {
	select {
	case p.events <- e:
	default:
		p.log.Warn("wallet event dropped", zap.Stringer("kind", e.Kind))
	}
}

// Watch polls the node's chain id every interval and emits ChainChanged when
// it moves (for example, a node restarted with another chain id).
func (p *LocalProvider) Watch(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-p.stop:
				return
			case <-ticker.C:
				p.checkChain()
			}
		}
	}()
}

func (p *LocalProvider) checkChain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := p.Client()
	id, err := client.ChainID(ctx)
	if err != nil {
		p.log.Debug("chain poll failed", zap.Error(err))
		return
	}

	p.mu.Lock()
	changed := id.Int64() != p.chainID
	if changed {
		p.chainID = id.Int64()
		p.known[p.chainID] = p.networkFor(p.chainID, p.url)
	}
	p.mu.Unlock()

	if changed {
		p.emit(Event{Kind: ChainChanged, ChainID: id.Int64()})
	}
}

// Close stops the chain watcher and closes the RPC client.
func (p *LocalProvider) Close() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
	p.mu.Lock()
	if p.client != nil {
		p.client.Close()
	}
	p.mu.Unlock()
}
