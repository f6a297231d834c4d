package auction

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Errors.
var (
	ErrTxReverted = errors.New("transaction reverted")
	ErrReadOnly   = errors.New("contract bound without a signer")
	ErrNoCode     = errors.New("no contract deployed at this address")
)

// PendingTx is a submitted write. Wait blocks until the transaction is mined
// and fails if it reverted.
type PendingTx interface {
	Hash() common.Hash
	Wait(ctx context.Context) (*types.Receipt, error)
}

// Contract is the typed read/write surface of the Auction contract.
type Contract interface {
	Address() common.Address
	Code(ctx context.Context) ([]byte, error)

	GetAllItems(ctx context.Context) ([]Item, error)
	GetItem(ctx context.Context, id uint64) (Item, error)
	Owner(ctx context.Context) (common.Address, error)
	ItemCount(ctx context.Context) (uint64, error)

	AddItem(ctx context.Context, name, description string, startingPrice *big.Int) (PendingTx, error)
	PlaceBid(ctx context.Context, id uint64, bidderName string, value *big.Int) (PendingTx, error)
	EndAuction(ctx context.Context, id uint64) (PendingTx, error)
}
