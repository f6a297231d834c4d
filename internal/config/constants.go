package config

import "time"

// HardhatChainID is the chain id of a local Hardhat node.
const HardhatChainID = int64(31337)

// Cache lifetimes for remote reads.
const (
	DefaultTTL  = 30 * time.Second
	ItemsTTL    = 45 * time.Second // getAllItems on demand
	SyncTTL     = time.Minute      // getAllItems refreshed by background sync
	ItemTTL     = 30 * time.Second
	OwnerTTL    = 5 * time.Minute
	RecentHours = 24
)

// Timeout constants used across cmd and the HTTP bridge.
const (
	RPCDialTimeout   = 10 * time.Second
	TxConfirmTimeout = 3 * time.Minute
	ReceiptPoll      = 2 * time.Second
	DemoAddDelay     = 2 * time.Second
	DemoWriteDelay   = time.Second
)
