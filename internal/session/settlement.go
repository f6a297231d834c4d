package session

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Settlement tracks the confirmation of a submitted write. A nil Settlement
// (demo mode) is already settled.
type Settlement struct {
	hash common.Hash
	done chan struct{}
	err  error
}

func newSettlement(hash common.Hash) *Settlement {
	return &Settlement{hash: hash, done: make(chan struct{})}
}

func (s *Settlement) finish(err error) {
	s.err = err
	close(s.done)
}

var closed = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

// Hash is the transaction hash.
func (s *Settlement) Hash() common.Hash {
	if s == nil {
		return common.Hash{}
	}
	return s.hash
}

// Done is closed once the write confirmed or was reverted.
func (s *Settlement) Done() <-chan struct{} {
	if s == nil {
		return closed
	}
	return s.done
}

// Err is the settlement outcome. Only meaningful after Done is closed.
func (s *Settlement) Err() error {
	if s == nil {
		return nil
	}
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Wait blocks until the write settles or ctx ends.
func (s *Settlement) Wait(ctx context.Context) error {
	select {
	case <-s.Done():
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
