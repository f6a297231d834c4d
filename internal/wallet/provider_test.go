package wallet_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/bidcli/internal/chain"
	"github.com/Mohsinsiddi/bidcli/internal/wallet"
)

// node is a JSON-RPC stub that only answers eth_chainId.
type node struct {
	*httptest.Server
	chainID atomic.Int64
}

func newNode(t *testing.T, chainID int64) *node {
	t.Helper()
	n := &node{}
	n.chainID.Store(chainID)
	n.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if req.Method != "eth_chainId" {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"error":{"code":-32601,"message":"unsupported"}}`, req.ID)
			return
		}
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":"0x%x"}`, req.ID, n.chainID.Load())
	}))
	t.Cleanup(n.Close)
	return n
}

func managerWith(t *testing.T) *wallet.Manager {
	t.Helper()
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	_, err := mgr.Import("dev", key0)
	require.NoError(t, err)
	require.NoError(t, mgr.Add("watcher", addr1))
	require.NoError(t, mgr.SetDefault("dev"))
	return mgr
}

func nextEvent(t *testing.T, p *wallet.LocalProvider) wallet.Event {
	t.Helper()
	select {
	case e := <-p.Events():
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("no wallet event")
	}
	return wallet.Event{}
}

// ---------------------------------------------------------------------------
// construction
// ---------------------------------------------------------------------------

func TestNewLocalProviderUnreachable(t *testing.T) {
	n := newNode(t, 31337)
	url := n.URL
	n.Close()

	_, err := wallet.NewLocalProvider(context.Background(), url, managerWith(t))
	assert.ErrorIs(t, err, wallet.ErrNoProvider)
}

func TestNetworkReportsChain(t *testing.T) {
	n := newNode(t, 31337)
	p, err := wallet.NewLocalProvider(context.Background(), n.URL, managerWith(t))
	require.NoError(t, err)
	defer p.Close()

	net, err := p.Network(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(31337), net.ChainID)
	assert.Equal(t, "Hardhat Local", net.Name)
}

// ---------------------------------------------------------------------------
// accounts
// ---------------------------------------------------------------------------

func TestRequestAccountsDefaultFirst(t *testing.T) {
	n := newNode(t, 31337)
	p, err := wallet.NewLocalProvider(context.Background(), n.URL, managerWith(t))
	require.NoError(t, err)
	defer p.Close()

	accounts, err := p.RequestAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, common.HexToAddress(addr0), accounts[0])
	assert.Equal(t, common.HexToAddress(addr1), accounts[1])
}

func TestRequestAccountsNoWallets(t *testing.T) {
	n := newNode(t, 31337)
	p, err := wallet.NewLocalProvider(context.Background(), n.URL, wallet.NewManager(wallet.WithInMemoryStore()))
	require.NoError(t, err)
	defer p.Close()

	_, err = p.RequestAccounts(context.Background())
	assert.ErrorIs(t, err, wallet.ErrNoAccounts)
}

func TestRequestAccountsRejected(t *testing.T) {
	n := newNode(t, 31337)
	p, err := wallet.NewLocalProvider(context.Background(), n.URL, managerWith(t),
		wallet.WithApproval(func(*wallet.Wallet) bool { return false }))
	require.NoError(t, err)
	defer p.Close()

	_, err = p.RequestAccounts(context.Background())
	assert.ErrorIs(t, err, wallet.ErrUserRejected)

	accounts, err := p.Accounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accounts, "nothing authorised yet")
}

func TestRequestAccountsPending(t *testing.T) {
	n := newNode(t, 31337)
	release := make(chan struct{})
	entered := make(chan struct{})
	p, err := wallet.NewLocalProvider(context.Background(), n.URL, managerWith(t),
		wallet.WithApproval(func(*wallet.Wallet) bool {
			close(entered)
			<-release
			return true
		}))
	require.NoError(t, err)
	defer p.Close()

	done := make(chan error, 1)
	go func() {
		_, err := p.RequestAccounts(context.Background())
		done <- err
	}()
	<-entered

	_, err = p.RequestAccounts(context.Background())
	assert.ErrorIs(t, err, wallet.ErrRequestPending)

	close(release)
	require.NoError(t, <-done)

	accounts, err := p.Accounts(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestSignerForAccount(t *testing.T) {
	n := newNode(t, 31337)
	p, err := wallet.NewLocalProvider(context.Background(), n.URL, managerWith(t))
	require.NoError(t, err)
	defer p.Close()

	s, err := p.Signer(common.HexToAddress(addr0))
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(addr0), s.Address())

	_, err = p.Signer(common.HexToAddress(addr1))
	assert.ErrorIs(t, err, wallet.ErrWatchOnly)
}

// ---------------------------------------------------------------------------
// networks
// ---------------------------------------------------------------------------

func TestSwitchUnknownThenAdd(t *testing.T) {
	wrong := newNode(t, 1)
	hardhat := newNode(t, 31337)

	p, err := wallet.NewLocalProvider(context.Background(), wrong.URL, managerWith(t))
	require.NoError(t, err)
	defer p.Close()

	assert.NoError(t, p.SwitchNetwork(context.Background(), 1), "already there")

	err = p.SwitchNetwork(context.Background(), 31337)
	require.ErrorIs(t, err, wallet.ErrUnknownChain)

	hh, err := chain.NewRegistry().GetByChainID(31337)
	require.NoError(t, err)
	require.NoError(t, p.AddNetwork(context.Background(), hh.WithRPC(hardhat.URL)))
	assert.Equal(t, int64(31337), p.ChainID())

	// Both chains are now known; switching back and forth works.
	require.NoError(t, p.SwitchNetwork(context.Background(), 1))
	assert.Equal(t, int64(1), p.ChainID())
	require.NoError(t, p.SwitchNetwork(context.Background(), 31337))
	assert.Equal(t, int64(31337), p.ChainID())
}

func TestAddNetworkChainMismatch(t *testing.T) {
	a := newNode(t, 1)
	b := newNode(t, 5)
	p, err := wallet.NewLocalProvider(context.Background(), a.URL, managerWith(t))
	require.NoError(t, err)
	defer p.Close()

	err = p.AddNetwork(context.Background(), chain.Network{Name: "x", ChainID: 31337, RPCURLs: []string{b.URL}})
	assert.Error(t, err)
	assert.Equal(t, int64(1), p.ChainID())

	assert.Error(t, p.AddNetwork(context.Background(), chain.Network{Name: "empty", ChainID: 9}))
}

// ---------------------------------------------------------------------------
// events
// ---------------------------------------------------------------------------

func TestSelectAccountEmits(t *testing.T) {
	n := newNode(t, 31337)
	p, err := wallet.NewLocalProvider(context.Background(), n.URL, managerWith(t))
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.SelectAccount("watcher"))
	e := nextEvent(t, p)
	assert.Equal(t, wallet.AccountsChanged, e.Kind)
	require.NotEmpty(t, e.Accounts)
	assert.Equal(t, common.HexToAddress(addr1), e.Accounts[0])

	assert.ErrorIs(t, p.SelectAccount("ghost"), wallet.ErrWalletNotFound)
}

func TestDisconnectEmitsEmptyAccounts(t *testing.T) {
	n := newNode(t, 31337)
	p, err := wallet.NewLocalProvider(context.Background(), n.URL, managerWith(t))
	require.NoError(t, err)
	defer p.Close()

	p.Disconnect()
	e := nextEvent(t, p)
	assert.Equal(t, wallet.AccountsChanged, e.Kind)
	assert.Empty(t, e.Accounts)
}

func TestWatchEmitsChainChanged(t *testing.T) {
	n := newNode(t, 31337)
	p, err := wallet.NewLocalProvider(context.Background(), n.URL, managerWith(t))
	require.NoError(t, err)
	defer p.Close()

	p.Watch(10 * time.Millisecond)
	n.chainID.Store(1337)

	e := nextEvent(t, p)
	assert.Equal(t, wallet.ChainChanged, e.Kind)
	assert.Equal(t, int64(1337), e.ChainID)
	assert.Equal(t, int64(1337), p.ChainID())
	assert.Equal(t, "chainChanged", e.Kind.String())
}
