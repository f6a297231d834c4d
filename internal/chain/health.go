package chain

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
)

// Health is the result of a single node probe.
type Health struct {
	URL         string        `json:"url"`
	ChainID     int64         `json:"chainId"`
	BlockNumber uint64        `json:"blockNumber"`
	Latency     time.Duration `json:"latency"`
	Healthy     bool          `json:"healthy"`
}

// Ping dials url and reports chain id, head block and round-trip latency.
func Ping(ctx context.Context, url string) (Health, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	h := Health{URL: url}
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return h, err
	}
	defer client.Close()

	start := time.Now()
	block, err := client.BlockNumber(ctx)
	if err != nil {
		return h, err
	}
	h.Latency = time.Since(start)
	h.BlockNumber = block

	id, err := client.ChainID(ctx)
	if err != nil {
		return h, err
	}
	h.ChainID = id.Int64()
	h.Healthy = true
	return h, nil
}
