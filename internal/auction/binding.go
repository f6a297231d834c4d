package auction

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

const defaultReceiptPoll = 2 * time.Second

// Backend is the subset of *ethclient.Client the binding needs.
type Backend interface {
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// TxSigner signs transactions for the connected account.
type TxSigner interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// Binding talks to a deployed Auction contract over JSON-RPC.
type Binding struct {
	backend Backend
	address common.Address
	abi     abi.ABI
	signer  TxSigner
	chainID *big.Int
	poll    time.Duration
	log     *zap.Logger
}

// BindingOption configures a Binding.
type BindingOption func(*Binding)

// WithReceiptPoll sets how often Wait polls for a receipt.
func WithReceiptPoll(d time.Duration) BindingOption {
	return func(b *Binding) {
		b.poll = d
	}
}

// WithBindingLogger sets the binding's logger.
func WithBindingLogger(l *zap.Logger) BindingOption {
	return func(b *Binding) {
		b.log = l
	}
}

// NewBinding binds the Auction ABI to address. signer may be nil, in which
// case every write fails with ErrReadOnly.
func NewBinding(backend Backend, address common.Address, signer TxSigner, chainID *big.Int, opts ...BindingOption) (*Binding, error) {
	parsed, err := ParsedABI()
	if err != nil {
		return nil, fmt.Errorf("parsing auction ABI: %w", err)
	}
	b := &Binding{
		backend: backend,
		address: address,
		abi:     parsed,
		signer:  signer,
		chainID: chainID,
		poll:    defaultReceiptPoll,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Address returns the bound contract address.
func (b *Binding) Address() common.Address { return b.address }

// Code returns the runtime bytecode at the bound address.
func (b *Binding) Code(ctx context.Context) ([]byte, error) {
	return b.backend.CodeAt(ctx, b.address, nil)
}

// rawItem mirrors the ABI tuple; field names must match the camel-cased
// component names for abi.ConvertType.
type rawItem struct {
	ItemId          *big.Int //nolint:revive
	ItemName        string
	ItemDescription string
	StartingPrice   *big.Int
	HighestBid      *big.Int
	HighestBidder   common.Address
	BidderName      string
	Active          bool
	EndTime         *big.Int
	CreatedAt       *big.Int
}

func (r rawItem) item() Item {
	return Item{
		ID:            r.ItemId.Uint64(),
		Name:          r.ItemName,
		Description:   r.ItemDescription,
		StartingPrice: r.StartingPrice,
		HighestBid:    r.HighestBid,
		HighestBidder: r.HighestBidder.Hex(),
		BidderName:    r.BidderName,
		Active:        r.Active,
		EndTime:       r.EndTime.Uint64(),
		CreatedAt:     r.CreatedAt.Uint64(),
	}
}

// GetAllItems returns every item the contract knows about.
func (b *Binding) GetAllItems(ctx context.Context) ([]Item, error) {
	out, err := b.call(ctx, "getAllItems")
	if err != nil {
		return nil, err
	}
	raws := *abi.ConvertType(out[0], new([]rawItem)).(*[]rawItem)
	items := make([]Item, len(raws))
	for i, r := range raws {
		items[i] = r.item()
	}
	return items, nil
}

// GetItem returns a single item by id.
func (b *Binding) GetItem(ctx context.Context, id uint64) (Item, error) {
	out, err := b.call(ctx, "getItem", new(big.Int).SetUint64(id))
	if err != nil {
		return Item{}, err
	}
	r := *abi.ConvertType(out[0], new(rawItem)).(*rawItem)
	return r.item(), nil
}

// Owner returns the contract owner.
func (b *Binding) Owner(ctx context.Context) (common.Address, error) {
	out, err := b.call(ctx, "owner")
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

// ItemCount returns the number of items ever added.
func (b *Binding) ItemCount(ctx context.Context) (uint64, error) {
	out, err := b.call(ctx, "itemCount")
	if err != nil {
		return 0, err
	}
	n := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return n.Uint64(), nil
}

// AddItem submits addItem. It returns once the node accepted the transaction.
func (b *Binding) AddItem(ctx context.Context, name, description string, startingPrice *big.Int) (PendingTx, error) {
	return b.transact(ctx, nil, "addItem", name, description, startingPrice)
}

// PlaceBid submits placeBid with value attached.
func (b *Binding) PlaceBid(ctx context.Context, id uint64, bidderName string, value *big.Int) (PendingTx, error) {
	return b.transact(ctx, value, "placeBid", new(big.Int).SetUint64(id), bidderName)
}

// EndAuction submits endAuction.
func (b *Binding) EndAuction(ctx context.Context, id uint64) (PendingTx, error) {
	return b.transact(ctx, nil, "endAuction", new(big.Int).SetUint64(id))
}

func (b *Binding) call(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := b.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", method, err)
	}
	res, err := b.backend.CallContract(ctx, ethereum.CallMsg{To: &b.address, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", method, err)
	}
	out, err := b.abi.Unpack(method, res)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("decoding %s: empty result", method)
	}
	return out, nil
}

func (b *Binding) transact(ctx context.Context, value *big.Int, method string, args ...any) (PendingTx, error) {
	if b.signer == nil {
		return nil, ErrReadOnly
	}
	if value == nil {
		value = new(big.Int)
	}

	data, err := b.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", method, err)
	}

	from := b.signer.Address()

	nonce, err := b.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("getting nonce: %w", err)
	}

	gasPrice, err := b.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting gas price: %w", err)
	}

	// A failed estimate usually means the call would revert (bid too low,
	// auction over), so surface it before anything is broadcast.
	gas, err := b.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &b.address,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return nil, fmt.Errorf("estimating gas for %s: %w", method, err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   b.chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       gas,
		To:        &b.address,
		Value:     value,
		Data:      data,
	})

	signed, err := b.signer.SignTx(tx, b.chainID)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	if err := b.backend.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("broadcasting transaction: %w", err)
	}

	b.log.Info("transaction sent", zap.String("method", method), zap.Stringer("hash", signed.Hash()))
	return &pendingTx{hash: signed.Hash(), backend: b.backend, poll: b.poll}, nil
}

type pendingTx struct {
	hash    common.Hash
	backend Backend
	poll    time.Duration
}

func (p *pendingTx) Hash() common.Hash { return p.hash }

// Wait polls for the receipt until it exists or ctx ends.
func (p *pendingTx) Wait(ctx context.Context) (*types.Receipt, error) {
	ticker := time.NewTicker(p.poll)
	defer ticker.Stop()
	for {
		receipt, err := p.backend.TransactionReceipt(ctx, p.hash)
		switch {
		case err == nil:
			if receipt.Status == types.ReceiptStatusFailed {
				return receipt, fmt.Errorf("%w (hash: %s)", ErrTxReverted, p.hash.Hex())
			}
			return receipt, nil
		case !errors.Is(err, ethereum.NotFound):
			return nil, fmt.Errorf("fetching receipt: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
