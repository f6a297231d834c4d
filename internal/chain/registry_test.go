package chain_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/bidcli/internal/chain"
)

func TestRegistryHardhatFirst(t *testing.T) {
	r := chain.NewRegistry()
	all := r.All()
	require.NotEmpty(t, all)
	assert.Equal(t, chain.HardhatChainID, all[0].ChainID)
	assert.Equal(t, "Hardhat Local", all[0].DisplayName)
	assert.Equal(t, "http://127.0.0.1:8545", all[0].RPC())
	assert.True(t, all[0].Local)
}

func TestRegistryLookups(t *testing.T) {
	r := chain.NewRegistry()

	tests := []struct {
		name    string
		chainID int64
	}{
		{"hardhat", 31337},
		{"ganache", 1337},
		{"sepolia", 11155111},
		{"ethereum", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			byName, err := r.GetByName(strings.ToUpper(tt.name))
			require.NoError(t, err)
			assert.Equal(t, tt.chainID, byName.ChainID)

			byID, err := r.GetByChainID(tt.chainID)
			require.NoError(t, err)
			assert.Equal(t, tt.name, byID.Name)
		})
	}
}

func TestRegistryUnknown(t *testing.T) {
	r := chain.NewRegistry()
	_, err := r.GetByName("nowhere")
	assert.ErrorIs(t, err, chain.ErrChainNotFound)
	_, err = r.GetByChainID(999)
	assert.ErrorIs(t, err, chain.ErrChainNotFound)
	assert.Equal(t, "Unknown Network", r.NameOf(999))
	assert.Equal(t, "Sepolia", r.NameOf(11155111))
}

func TestAllNetworksHaveRPC(t *testing.T) {
	for _, n := range chain.NewRegistry().All() {
		assert.NotEmpty(t, n.RPCURLs, "network %s has no RPC", n.Name)
		assert.Equal(t, 18, n.Decimals)
	}
}

func TestWithRPC(t *testing.T) {
	n, err := chain.NewRegistry().GetByName("sepolia")
	require.NoError(t, err)

	custom := n.WithRPC("http://my-node:8545")
	assert.Equal(t, "http://my-node:8545", custom.RPC())
	assert.Len(t, custom.RPCURLs, 3)
	assert.Equal(t, "https://rpc.sepolia.org", n.RPC(), "original untouched")

	same := n.WithRPC("https://rpc.sepolia.org")
	assert.Len(t, same.RPCURLs, 2)
	assert.Equal(t, *n, n.WithRPC(""))
}

// ---------------------------------------------------------------------------
// Ping
// ---------------------------------------------------------------------------

func rpcServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		result := map[string]string{
			"eth_blockNumber": `"0x2a"`,
			"eth_chainId":     `"0x7a69"`,
		}[req.Method]
		if result == "" {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"error":{"code":-32601,"message":"method not found"}}`, req.ID)
			return
		}
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":%s}`, req.ID, result)
	}))
}

func TestPing(t *testing.T) {
	srv := rpcServer(t)
	defer srv.Close()

	h, err := chain.Ping(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, h.Healthy)
	assert.Equal(t, uint64(42), h.BlockNumber)
	assert.Equal(t, chain.HardhatChainID, h.ChainID)
}

func TestPingUnreachable(t *testing.T) {
	srv := rpcServer(t)
	url := srv.URL
	srv.Close()

	h, err := chain.Ping(context.Background(), url)
	assert.Error(t, err)
	assert.False(t, h.Healthy)
}
