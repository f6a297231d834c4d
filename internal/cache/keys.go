package cache

import (
	"fmt"
	"strings"
)

// Well-known keys for auction reads.
const (
	KeyAllItems    = "auction:items:all"
	KeyActiveItems = "auction:items:active"
	KeyOwner       = "auction:owner"
	KeyItemCount   = "auction:count"

	// ItemsFamily matches every cached item list; a confirmed write
	// invalidates the whole family.
	ItemsFamily = "auction:items"
)

// ItemKey is the key for a single item read.
func ItemKey(id uint64) string {
	return fmt.Sprintf("auction:item:%d", id)
}

// BidsKey is the key for the bids placed by an address.
func BidsKey(address string) string {
	return "auction:bids:" + strings.ToLower(address)
}
