package auction

import (
	"math/big"
)

// Item is one auction lot as the contract stores it. Optimistic and Pending
// are view flags: they are never set on an item read from the chain.
type Item struct {
	ID            uint64   `json:"itemId"`
	Name          string   `json:"itemName"`
	Description   string   `json:"itemDescription"`
	StartingPrice *big.Int `json:"startingPrice"`
	HighestBid    *big.Int `json:"highestBid"`
	HighestBidder string   `json:"highestBidder"`
	BidderName    string   `json:"bidderName"`
	Active        bool     `json:"active"`
	EndTime       uint64   `json:"endTime"`
	CreatedAt     uint64   `json:"createdAt"`
	Optimistic    bool     `json:"isOptimistic,omitempty"`
	Pending       bool     `json:"isPending,omitempty"`
}

// Clone returns a deep copy of the item.
func (it Item) Clone() Item {
	it.StartingPrice = cloneBig(it.StartingPrice)
	it.HighestBid = cloneBig(it.HighestBid)
	return it
}

// CloneItems deep-copies a slice of items.
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

func cloneBig(n *big.Int) *big.Int {
	if n == nil {
		return nil
	}
	return new(big.Int).Set(n)
}
