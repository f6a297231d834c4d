// Package optimistic tracks writes that were submitted but not yet mined so
// reads can show their expected effect straight away.
//
// Every registered entry leaves the manager exactly once, through a confirm
// or a revert. Both simply delete; the difference is what the caller expects
// the next real read to contain.
package optimistic

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Mohsinsiddi/bidcli/internal/auction"
)

// Draft is the caller-supplied part of a new item.
type Draft struct {
	Name          string
	Description   string
	StartingPrice *big.Int
}

// Bid is a bid that has been sent but not confirmed.
type Bid struct {
	Key           string    `json:"key"`
	ItemID        uint64    `json:"itemId"`
	Amount        *big.Int  `json:"bidAmountWei"`
	AmountEther   string    `json:"bidAmount"`
	BidderName    string    `json:"bidderName"`
	BidderAddress string    `json:"bidderAddress"`
	SubmittedAt   time.Time `json:"timestamp"`
	Optimistic    bool      `json:"isOptimistic"`
}

// Manager holds pending items and bids in registration order.
type Manager struct {
	mu        sync.Mutex
	items     map[uint64]auction.Item
	itemOrder []uint64
	bids      map[string]Bid
	bidOrder  []string
	lastID    uint64
	bidSeq    uint64
	now       func() time.Time
	log       *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithLogger sets the manager's logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// NewManager creates an empty manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		items: make(map[uint64]auction.Item),
		bids:  make(map[string]Bid),
		now:   time.Now,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RegisterItem stores a pending item built from d under a fresh temporary id
// and returns a copy of it.
func (m *Manager) RegisterItem(d Draft) auction.Item {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	id := uint64(now.UnixMilli())
	if id <= m.lastID {
		id = m.lastID + 1
	}
	m.lastID = id

	price := new(big.Int)
	if d.StartingPrice != nil {
		price.Set(d.StartingPrice)
	}
	it := auction.Item{
		ID:            id,
		Name:          d.Name,
		Description:   d.Description,
		StartingPrice: price,
		HighestBid:    new(big.Int),
		HighestBidder: "",
		Active:        true,
		CreatedAt:     uint64(now.Unix()),
		Optimistic:    true,
		Pending:       true,
	}
	m.items[id] = it
	m.itemOrder = append(m.itemOrder, id)
	m.log.Debug("optimistic item registered", zap.Uint64("tempId", id), zap.String("name", d.Name))
	return it.Clone()
}

// RegisterBid stores a pending bid and returns it.
func (m *Manager) RegisterBid(itemID uint64, amount *big.Int, amountEther, bidderName, bidderAddress string) Bid {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bidSeq++
	b := Bid{
		Key:           fmt.Sprintf("%d-%d", itemID, m.bidSeq),
		ItemID:        itemID,
		Amount:        new(big.Int).Set(amount),
		AmountEther:   amountEther,
		BidderName:    bidderName,
		BidderAddress: bidderAddress,
		SubmittedAt:   m.now(),
		Optimistic:    true,
	}
	m.bids[b.Key] = b
	m.bidOrder = append(m.bidOrder, b.Key)
	m.log.Debug("optimistic bid registered", zap.String("key", b.Key), zap.String("amount", amountEther))
	return b
}

// ConfirmItem drops the pending item; the next real read replaces it.
// It reports whether anything was removed.
func (m *Manager) ConfirmItem(id uint64) bool { return m.dropItem(id, "confirmed") }

// RevertItem drops the pending item with no replacement.
func (m *Manager) RevertItem(id uint64) bool { return m.dropItem(id, "reverted") }

// ConfirmBid drops the pending bid; the next real read replaces it.
func (m *Manager) ConfirmBid(key string) bool { return m.dropBid(key, "confirmed") }

// RevertBid drops the pending bid with no replacement.
func (m *Manager) RevertBid(key string) bool { return m.dropBid(key, "reverted") }

func (m *Manager) dropItem(id uint64, outcome string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return false
	}
	delete(m.items, id)
	m.itemOrder = without(m.itemOrder, id)
	m.log.Debug("optimistic item "+outcome, zap.Uint64("tempId", id))
	return true
}

func (m *Manager) dropBid(key string, outcome string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bids[key]; !ok {
		return false
	}
	delete(m.bids, key)
	m.bidOrder = without(m.bidOrder, key)
	m.log.Debug("optimistic bid "+outcome, zap.String("key", key))
	return true
}

// PendingItems returns copies of the pending items, oldest first.
func (m *Manager) PendingItems() []auction.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]auction.Item, 0, len(m.itemOrder))
	for _, id := range m.itemOrder {
		out = append(out, m.items[id].Clone())
	}
	return out
}

// PendingBids returns copies of the pending bids, oldest first.
func (m *Manager) PendingBids() []Bid {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Bid, 0, len(m.bidOrder))
	for _, k := range m.bidOrder {
		b := m.bids[k]
		b.Amount = new(big.Int).Set(b.Amount)
		out = append(out, b)
	}
	return out
}

// Len returns the number of pending items and bids.
func (m *Manager) Len() (items, bids int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items), len(m.bids)
}

// Clear forgets every pending entry.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[uint64]auction.Item)
	m.bids = make(map[string]Bid)
	m.itemOrder = nil
	m.bidOrder = nil
}

func without[T comparable](s []T, v T) []T {
	for i, x := range s {
		if x == v {
			return append(s[:i:i], s[i+1:]...)
		}
	}
	return s
}
