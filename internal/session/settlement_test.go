package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestNilSettlementIsSettled(t *testing.T) {
	var s *Settlement
	select {
	case <-s.Done():
	default:
		t.Fatal("nil settlement should be done")
	}
	assert.NoError(t, s.Wait(context.Background()))
	assert.Equal(t, common.Hash{}, s.Hash())
}

func TestSettlementWait(t *testing.T) {
	s := newSettlement(common.HexToHash("0x01"))
	assert.NoError(t, s.Err(), "no outcome before done")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Wait(ctx), context.DeadlineExceeded)

	boom := errors.New("boom")
	s.finish(boom)
	assert.ErrorIs(t, s.Wait(context.Background()), boom)
	assert.ErrorIs(t, s.Err(), boom)
}
