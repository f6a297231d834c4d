// Package chain knows the networks bidcli can ask a wallet to switch to.
package chain

import (
	"errors"
	"strings"
)

// ErrChainNotFound is returned when a chain is not in the registry.
var ErrChainNotFound = errors.New("chain not found")

// HardhatChainID is the chain id of a local Hardhat node.
const HardhatChainID = int64(31337)

// Network is the metadata a wallet needs to add and switch to a chain.
type Network struct {
	Name           string   `json:"name"`
	DisplayName    string   `json:"display_name"`
	ChainID        int64    `json:"chain_id"`
	NativeCurrency string   `json:"native_currency"`
	Decimals       int      `json:"decimals"`
	RPCURLs        []string `json:"rpc_urls"`
	Explorer       string   `json:"explorer,omitempty"`
	Local          bool     `json:"local"`
}

// Registry is the network registry.
type Registry struct {
	networks []Network
	byName   map[string]*Network
	byID     map[int64]*Network
}

// NewRegistry returns the built-in networks, local ones first.
func NewRegistry() *Registry {
	nets := allNetworks()
	r := &Registry{
		networks: nets,
		byName:   make(map[string]*Network, len(nets)),
		byID:     make(map[int64]*Network, len(nets)),
	}
	for i := range r.networks {
		n := &r.networks[i]
		r.byName[n.Name] = n
		r.byID[n.ChainID] = n
	}
	return r
}

// All returns every network in the registry.
func (r *Registry) All() []Network {
	return r.networks
}

// GetByName finds a network by its slug (e.g. "hardhat").
func (r *Registry) GetByName(name string) (*Network, error) {
	n, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrChainNotFound
	}
	return n, nil
}

// GetByChainID finds a network by chain id.
func (r *Registry) GetByChainID(id int64) (*Network, error) {
	n, ok := r.byID[id]
	if !ok {
		return nil, ErrChainNotFound
	}
	return n, nil
}

// NameOf returns a display name for id, or "Unknown Network".
func (r *Registry) NameOf(id int64) string {
	if n, ok := r.byID[id]; ok {
		return n.DisplayName
	}
	return "Unknown Network"
}

// WithRPC returns a copy of n whose first RPC URL is url.
func (n Network) WithRPC(url string) Network {
	if url == "" {
		return n
	}
	out := n
	out.RPCURLs = append([]string{url}, without(n.RPCURLs, url)...)
	return out
}

// RPC returns the preferred RPC URL.
func (n Network) RPC() string {
	if len(n.RPCURLs) == 0 {
		return ""
	}
	return n.RPCURLs[0]
}

func without(urls []string, url string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u != url {
			out = append(out, u)
		}
	}
	return out
}

// --- network data ---

func allNetworks() []Network {
	return []Network{
		{
			Name: "hardhat", DisplayName: "Hardhat Local", ChainID: HardhatChainID,
			NativeCurrency: "ETH", Decimals: 18,
			RPCURLs: []string{"http://127.0.0.1:8545"},
			Local:   true,
		},
		{
			Name: "ganache", DisplayName: "Ganache Local", ChainID: 1337,
			NativeCurrency: "ETH", Decimals: 18,
			RPCURLs: []string{"http://127.0.0.1:7545"},
			Local:   true,
		},
		{
			Name: "sepolia", DisplayName: "Sepolia", ChainID: 11155111,
			NativeCurrency: "ETH", Decimals: 18,
			RPCURLs:  []string{"https://rpc.sepolia.org", "https://sepolia.gateway.tenderly.co"},
			Explorer: "https://sepolia.etherscan.io",
		},
		{
			Name: "ethereum", DisplayName: "Ethereum", ChainID: 1,
			NativeCurrency: "ETH", Decimals: 18,
			RPCURLs:  []string{"https://eth.llamarpc.com", "https://ethereum-rpc.publicnode.com"},
			Explorer: "https://etherscan.io",
		},
	}
}
